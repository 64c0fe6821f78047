package service

import (
	"context"
	"encoding/json"

	"github.com/gramseva/api/internal/cache"
	"github.com/gramseva/api/internal/middleware"
	"github.com/gramseva/api/internal/model"
)

// ListAll returns every grievance in creation order.
func (s *Lifecycle) ListAll(ctx context.Context) ([]model.Grievance, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.store.ListGrievances(ctx)
}

// ListAssignable returns the officer work queue: grievances that are
// pending or in_progress, in the same relative order as the full list.
func (s *Lifecycle) ListAssignable(ctx context.Context) ([]model.Grievance, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.store.ListAssignable(ctx)
}

// GetByID returns a single grievance, consulting the read cache first.
func (s *Lifecycle) GetByID(ctx context.Context, id string) (*model.Grievance, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cache.GrievanceKey(id)); err == nil {
			var g model.Grievance
			if err := json.Unmarshal(data, &g); err == nil {
				middleware.RecordCacheLookup(true)
				return &g, nil
			}
		}
		middleware.RecordCacheLookup(false)
	}

	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	g, err := s.store.GetGrievance(cctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheGrievance(ctx, g)
	return g, nil
}

// ListVerificationsFor returns all verifications for a grievance in
// creation order.
func (s *Lifecycle) ListVerificationsFor(ctx context.Context, grievanceID string) ([]model.Verification, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.store.ListVerificationsByGrievance(ctx, grievanceID)
}

// ListBlockchainRecordsFor returns the ledger entries for a grievance in
// event order.
func (s *Lifecycle) ListBlockchainRecordsFor(ctx context.Context, grievanceID string) ([]model.BlockchainRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.store.ListBlockchainRecordsByGrievance(ctx, grievanceID)
}
