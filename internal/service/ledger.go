package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"

	"github.com/gramseva/api/internal/model"
	"gorm.io/datatypes"
)

// appendRecord writes a tamper-evident ledger entry for a lifecycle event.
// The transaction hash covers the event type, grievance id, payload, and
// timestamp, so identical events at different instants stay distinct.
// Ledger writes are best-effort: a failure is logged, never fatal, because
// the audit trail must not block the citizen-facing operation itself.
func (s *Lifecycle) appendRecord(ctx context.Context, grievanceID, eventType string, payload map[string]interface{}) {
	now := s.now()
	payload["at"] = now.UnixNano()

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: failed to serialize ledger event %s for grievance %s: %v", eventType, grievanceID, err)
		return
	}

	sum := sha256.Sum256(append([]byte(eventType+":"+grievanceID+":"), data...))

	record := &model.BlockchainRecord{
		GrievanceID:     grievanceID,
		TransactionHash: hex.EncodeToString(sum[:]),
		EventType:       eventType,
		EventData:       datatypes.JSON(data),
		Timestamp:       now,
	}

	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.store.CreateBlockchainRecord(cctx, record); err != nil {
		log.Printf("ERROR: failed to append ledger record %s for grievance %s: %v", eventType, grievanceID, err)
	}
}
