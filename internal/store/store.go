// Package store is the persistence gateway for the grievance lifecycle.
// The postgres-backed implementation is used in production; the in-memory
// implementation backs unit tests and demo runs.
package store

import (
	"context"
	"errors"

	"github.com/gramseva/api/internal/model"
)

var (
	// ErrNotFound means the requested id does not resolve to a record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a version-checked write lost to a concurrent update.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrDuplicate means a unique constraint was violated.
	ErrDuplicate = errors.New("duplicate record")
)

type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	CreateGrievance(ctx context.Context, g *model.Grievance) error
	GetGrievance(ctx context.Context, id string) (*model.Grievance, error)
	ListGrievances(ctx context.Context) ([]model.Grievance, error)
	ListAssignable(ctx context.Context) ([]model.Grievance, error)
	// UpdateGrievance persists g only if its Version still matches the
	// stored row, then increments it. Returns ErrConflict on a lost race.
	UpdateGrievance(ctx context.Context, g *model.Grievance) error

	CreateVerification(ctx context.Context, v *model.Verification) error
	ListVerificationsByGrievance(ctx context.Context, grievanceID string) ([]model.Verification, error)

	CreateBlockchainRecord(ctx context.Context, r *model.BlockchainRecord) error
	ListBlockchainRecordsByGrievance(ctx context.Context, grievanceID string) ([]model.BlockchainRecord, error)
}
