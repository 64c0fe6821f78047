package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewGrievanceNumber returns a human-facing, lexicographically sortable
// grievance number, e.g. "GRV-01HZX3Q0J8R9W2K4M6P8T0V1X3".
func NewGrievanceNumber() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return "GRV-" + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
