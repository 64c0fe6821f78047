package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gramseva/api/internal/model"
)

// MemoryStore is an in-process Store with the same semantics as the
// postgres implementation, including the version check on grievance
// updates. Lists preserve insertion order.
type MemoryStore struct {
	mu sync.Mutex

	users            map[string]model.User
	usersByName      map[string]string
	grievances       map[string]model.Grievance
	grievanceOrder   []string
	grievanceNumbers map[string]bool
	verifications    []model.Verification
	records          []model.BlockchainRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:            make(map[string]model.User),
		usersByName:      make(map[string]string),
		grievances:       make(map[string]model.Grievance),
		grievanceNumbers: make(map[string]bool),
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByName[user.Username]; ok {
		return ErrDuplicate
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = model.RoleCitizen
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = *user
	s.usersByName[user.Username] = user.ID
	return nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usersByName[username]
	if !ok {
		return nil, ErrNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) CreateGrievance(ctx context.Context, g *model.Grievance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grievanceNumbers[g.GrievanceNumber] {
		return ErrDuplicate
	}
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.Status == "" {
		g.Status = model.StatusPending
	}
	if g.Priority == "" {
		g.Priority = model.PriorityMedium
	}
	if g.Version == 0 {
		g.Version = 1
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	s.grievances[g.ID] = *g
	s.grievanceOrder = append(s.grievanceOrder, g.ID)
	s.grievanceNumbers[g.GrievanceNumber] = true
	return nil
}

func (s *MemoryStore) GetGrievance(ctx context.Context, id string) (*model.Grievance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.grievances[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (s *MemoryStore) ListGrievances(ctx context.Context) ([]model.Grievance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Grievance, 0, len(s.grievanceOrder))
	for _, id := range s.grievanceOrder {
		out = append(out, s.grievances[id])
	}
	return out, nil
}

func (s *MemoryStore) ListAssignable(ctx context.Context) ([]model.Grievance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Grievance
	for _, id := range s.grievanceOrder {
		g := s.grievances[id]
		if g.Status == model.StatusPending || g.Status == model.StatusInProgress {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateGrievance(ctx context.Context, g *model.Grievance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.grievances[g.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != g.Version {
		return ErrConflict
	}
	g.Version++
	g.UpdatedAt = time.Now()
	s.grievances[g.ID] = *g
	return nil
}

func (s *MemoryStore) CreateVerification(ctx context.Context, v *model.Verification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	v.CreatedAt = time.Now()
	s.verifications = append(s.verifications, *v)
	return nil
}

func (s *MemoryStore) ListVerificationsByGrievance(ctx context.Context, grievanceID string) ([]model.Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Verification
	for _, v := range s.verifications {
		if v.GrievanceID == grievanceID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateBlockchainRecord(ctx context.Context, r *model.BlockchainRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	for _, existing := range s.records {
		if existing.TransactionHash == r.TransactionHash {
			return ErrDuplicate
		}
	}
	s.records = append(s.records, *r)
	return nil
}

func (s *MemoryStore) ListBlockchainRecordsByGrievance(ctx context.Context, grievanceID string) ([]model.BlockchainRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.BlockchainRecord
	for _, r := range s.records {
		if r.GrievanceID == grievanceID {
			out = append(out, r)
		}
	}
	return out, nil
}
