package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/gramseva/api/internal/model"
	"github.com/gramseva/api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGrievance(number string) *model.Grievance {
	return &model.Grievance{
		GrievanceNumber: number,
		OwnerUserID:     "owner-1",
		Title:           "Broken hand pump near school",
		Category:        "Water Supply",
		Description:     "The hand pump outside the primary school has been leaking for weeks and children have no clean water.",
		VillageName:     "Rampur",
	}
}

func TestMemoryStore_UserRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	user := &model.User{Username: "asha", FullName: "Asha Devi", MobileNumber: "+911234567890"}
	require.NoError(t, s.CreateUser(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, model.RoleCitizen, user.Role, "role defaults to citizen")

	byName, err := s.GetUserByUsername(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byID, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha", byID.Username)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_DuplicateUsername(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &model.User{Username: "asha", FullName: "Asha Devi"}))
	err := s.CreateUser(ctx, &model.User{Username: "asha", FullName: "Another Asha"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestMemoryStore_GrievanceDefaults(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	g := newGrievance("GRV-1")
	require.NoError(t, s.CreateGrievance(ctx, g))

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, model.StatusPending, g.Status)
	assert.Equal(t, model.PriorityMedium, g.Priority)
	assert.Equal(t, 1, g.Version)
}

func TestMemoryStore_DuplicateGrievanceNumber(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateGrievance(ctx, newGrievance("GRV-1")))
	err := s.CreateGrievance(ctx, newGrievance("GRV-1"))
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestMemoryStore_VersionConflict(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	g := newGrievance("GRV-1")
	require.NoError(t, s.CreateGrievance(ctx, g))

	first, err := s.GetGrievance(ctx, g.ID)
	require.NoError(t, err)
	second, err := s.GetGrievance(ctx, g.ID)
	require.NoError(t, err)

	first.Status = model.StatusInProgress
	require.NoError(t, s.UpdateGrievance(ctx, first))

	// The second copy still holds the old version and must lose.
	second.Status = model.StatusResolved
	assert.ErrorIs(t, s.UpdateGrievance(ctx, second), store.ErrConflict)

	current, err := s.GetGrievance(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, current.Status, "losing write must not apply")
}

func TestMemoryStore_UpdateMissingGrievance(t *testing.T) {
	s := store.NewMemoryStore()
	g := newGrievance("GRV-1")
	g.ID = "missing"
	g.Version = 1

	assert.ErrorIs(t, s.UpdateGrievance(context.Background(), g), store.ErrNotFound)
}

func TestMemoryStore_ListAssignableOrder(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	statuses := []string{
		model.StatusPending,
		model.StatusResolved,
		model.StatusInProgress,
		model.StatusPendingVerification,
		model.StatusPending,
	}
	for i, status := range statuses {
		g := newGrievance(fmt.Sprintf("GRV-%d", i))
		require.NoError(t, s.CreateGrievance(ctx, g))
		if status != model.StatusPending {
			g.Status = status
			require.NoError(t, s.UpdateGrievance(ctx, g))
		}
	}

	all, err := s.ListGrievances(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)

	assignable, err := s.ListAssignable(ctx)
	require.NoError(t, err)
	require.Len(t, assignable, 3)

	// Same relative order as the full list.
	assert.Equal(t, "GRV-0", assignable[0].GrievanceNumber)
	assert.Equal(t, "GRV-2", assignable[1].GrievanceNumber)
	assert.Equal(t, "GRV-4", assignable[2].GrievanceNumber)
	for _, g := range assignable {
		assert.Contains(t, []string{model.StatusPending, model.StatusInProgress}, g.Status)
	}
}

func TestMemoryStore_VerificationsAndRecordsByGrievance(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	g := newGrievance("GRV-1")
	require.NoError(t, s.CreateGrievance(ctx, g))
	other := newGrievance("GRV-2")
	require.NoError(t, s.CreateGrievance(ctx, other))

	require.NoError(t, s.CreateVerification(ctx, &model.Verification{
		GrievanceID: g.ID, UserID: "u1", VerificationType: "verify", Status: "verified",
	}))
	require.NoError(t, s.CreateVerification(ctx, &model.Verification{
		GrievanceID: other.ID, UserID: "u2", VerificationType: "dispute", Status: "disputed",
	}))

	verifications, err := s.ListVerificationsByGrievance(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, verifications, 1)
	assert.Equal(t, "u1", verifications[0].UserID)

	require.NoError(t, s.CreateBlockchainRecord(ctx, &model.BlockchainRecord{
		GrievanceID: g.ID, TransactionHash: "aaa", EventType: model.EventGrievanceCreated,
	}))
	err = s.CreateBlockchainRecord(ctx, &model.BlockchainRecord{
		GrievanceID: g.ID, TransactionHash: "aaa", EventType: model.EventGrievanceCreated,
	})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	records, err := s.ListBlockchainRecordsByGrievance(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
