package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gramseva/api/internal/model"
	"github.com/gramseva/api/internal/service"
	"github.com/gramseva/api/internal/store"
	"github.com/gramseva/api/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLifecycle(t *testing.T) (*service.Lifecycle, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return service.NewLifecycle(st, nil, false), st
}

func validInput() *validator.GrievanceInput {
	return &validator.GrievanceInput{
		Title:       "Broken hand pump near school",
		Category:    "Water Supply",
		Description: strings.Repeat("The hand pump outside the school leaks badly. ", 3),
		VillageName: "Rampur",
	}
}

func createGrievance(t *testing.T, lc *service.Lifecycle) *model.Grievance {
	t.Helper()
	g, err := lc.Create(context.Background(), validInput(), "Asha Devi", "+911234567890", "")
	require.NoError(t, err)
	return g
}

func TestCreate_SetsDefaultsAndOwner(t *testing.T) {
	lc, st := newLifecycle(t)
	ctx := context.Background()

	g := createGrievance(t, lc)

	assert.Equal(t, model.StatusPending, g.Status)
	assert.Equal(t, model.PriorityMedium, g.Priority)
	assert.True(t, strings.HasPrefix(g.GrievanceNumber, "GRV-"))
	assert.Nil(t, g.AssignedTo)
	assert.Nil(t, g.ResolutionTimeline)

	owner, err := st.GetUserByID(ctx, g.OwnerUserID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Devi", owner.FullName)
	assert.Equal(t, "+911234567890", owner.MobileNumber)
	assert.Equal(t, model.RoleCitizen, owner.Role)
}

func TestCreate_ReusesOwnerByMobile(t *testing.T) {
	lc, _ := newLifecycle(t)

	first := createGrievance(t, lc)
	second := createGrievance(t, lc)

	assert.Equal(t, first.OwnerUserID, second.OwnerUserID)
	assert.NotEqual(t, first.GrievanceNumber, second.GrievanceNumber)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	lc, st := newLifecycle(t)

	input := validInput()
	input.Title = "short"
	_, err := lc.Create(context.Background(), input, "Asha Devi", "+911234567890", "")

	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)

	all, listErr := st.ListGrievances(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all, "nothing may be persisted on validation failure")
}

func TestCreate_GrievanceNumbersUnique(t *testing.T) {
	lc, _ := newLifecycle(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		g := createGrievance(t, lc)
		assert.False(t, seen[g.GrievanceNumber])
		seen[g.GrievanceNumber] = true
	}
}

func TestCreate_AppendsLedgerRecord(t *testing.T) {
	lc, _ := newLifecycle(t)

	g := createGrievance(t, lc)

	records, err := lc.ListBlockchainRecordsFor(context.Background(), g.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.EventGrievanceCreated, records[0].EventType)
	assert.NotEmpty(t, records[0].TransactionHash)
}

func TestAccept_AssignsOfficerAndTimeline(t *testing.T) {
	lc, _ := newLifecycle(t)
	ctx := context.Background()

	g := createGrievance(t, lc)

	updated, err := lc.Accept(ctx, g.ID, "officer-1", 7)
	require.NoError(t, err)

	assert.Equal(t, model.StatusInProgress, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "officer-1", *updated.AssignedTo)
	require.NotNil(t, updated.ResolutionTimeline)
	assert.Equal(t, 7, *updated.ResolutionTimeline)
	require.NotNil(t, updated.DueDate)
}

func TestAccept_NotFound(t *testing.T) {
	lc, _ := newLifecycle(t)

	_, err := lc.Accept(context.Background(), "no-such-id", "officer-1", 7)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccept_RejectsNonPositiveTimeline(t *testing.T) {
	lc, _ := newLifecycle(t)
	g := createGrievance(t, lc)

	for _, days := range []int{0, -3} {
		_, err := lc.Accept(context.Background(), g.ID, "officer-1", days)
		var verr *validator.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "resolutionTimeline", verr.Violations[0].Field)
	}
}

func TestAccept_RejectsReacceptInStrictMode(t *testing.T) {
	lc, _ := newLifecycle(t)
	ctx := context.Background()
	g := createGrievance(t, lc)

	_, err := lc.Accept(ctx, g.ID, "officer-1", 7)
	require.NoError(t, err)

	_, err = lc.Accept(ctx, g.ID, "officer-2", 14)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestAccept_PermissiveModeAllowsReaccept(t *testing.T) {
	st := store.NewMemoryStore()
	lc := service.NewLifecycle(st, nil, true)
	ctx := context.Background()

	g, err := lc.Create(ctx, validInput(), "Asha Devi", "+911234567890", "")
	require.NoError(t, err)

	_, err = lc.Accept(ctx, g.ID, "officer-1", 7)
	require.NoError(t, err)

	updated, err := lc.Accept(ctx, g.ID, "officer-2", 14)
	require.NoError(t, err)
	assert.Equal(t, "officer-2", *updated.AssignedTo)
	assert.Equal(t, 14, *updated.ResolutionTimeline)
}

func TestUpdateStatus_ResolvedBecomesPendingVerification(t *testing.T) {
	lc, _ := newLifecycle(t)
	ctx := context.Background()

	g := createGrievance(t, lc)
	_, err := lc.Accept(ctx, g.ID, "officer-1", 7)
	require.NoError(t, err)

	updated, err := lc.UpdateStatus(ctx, g.ID, model.StatusResolved, "Pump repaired", []string{"https://evidence/1.jpg"})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPendingVerification, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	require.NotNil(t, updated.VerificationDeadline)
	assert.Equal(t, 7*24*time.Hour, updated.VerificationDeadline.Sub(*updated.ResolvedAt),
		"verification deadline is exactly seven days after resolution")
	assert.Equal(t, "Pump repaired", updated.ResolutionNotes)
	assert.Equal(t, []string{"https://evidence/1.jpg"}, []string(updated.ResolutionEvidence))
}

func TestUpdateStatus_NotFound(t *testing.T) {
	lc, _ := newLifecycle(t)

	_, err := lc.UpdateStatus(context.Background(), "no-such-id", model.StatusResolved, "", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateStatus_RejectsSkippingStates(t *testing.T) {
	lc, _ := newLifecycle(t)
	ctx := context.Background()

	g := createGrievance(t, lc)

	// pending -> resolved would skip acceptance and verification
	_, err := lc.UpdateStatus(ctx, g.ID, model.StatusResolved, "", nil)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)

	_, err = lc.UpdateStatus(ctx, g.ID, "archived", "", nil)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestUpdateStatus_PermissiveWritesThrough(t *testing.T) {
	st := store.NewMemoryStore()
	lc := service.NewLifecycle(st, nil, true)
	ctx := context.Background()

	g, err := lc.Create(ctx, validInput(), "Asha Devi", "+911234567890", "")
	require.NoError(t, err)

	updated, err := lc.UpdateStatus(ctx, g.ID, "archived", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "archived", updated.Status)
}

func resolveGrievance(t *testing.T, lc *service.Lifecycle) *model.Grievance {
	t.Helper()
	ctx := context.Background()

	g := createGrievance(t, lc)
	_, err := lc.Accept(ctx, g.ID, "officer-1", 7)
	require.NoError(t, err)
	updated, err := lc.UpdateStatus(ctx, g.ID, model.StatusResolved, "", nil)
	require.NoError(t, err)
	return updated
}

func TestRecordVerification_VerifyVerifiedResolves(t *testing.T) {
	lc, _ := newLifecycle(t)
	ctx := context.Background()

	g := resolveGrievance(t, lc)

	v, err := lc.RecordVerification(ctx, &validator.VerificationInput{
		GrievanceID:      g.ID,
		VerificationType: model.VerificationTypeVerify,
		Status:           model.VerificationStatusVerified,
	}, "verifier-1")
	require.NoError(t, err)
	assert.Equal(t, "verifier-1", v.UserID)

	after, err := lc.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, after.Status)
}

func TestRecordVerification_DisputeDisputedReopens(t *testing.T) {
	lc, _ := newLifecycle(t)
	ctx := context.Background()

	g := resolveGrievance(t, lc)

	_, err := lc.RecordVerification(ctx, &validator.VerificationInput{
		GrievanceID:      g.ID,
		VerificationType: model.VerificationTypeDispute,
		Status:           model.VerificationStatusDisputed,
	}, "verifier-1")
	require.NoError(t, err)

	after, err := lc.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, after.Status)
	require.NotNil(t, after.AssignedTo, "re-opening keeps the assignee attached")
	assert.Equal(t, "officer-1", *after.AssignedTo)
	require.NotNil(t, after.ResolutionTimeline)
}

func TestRecordVerification_MismatchedPairsLeaveStatusAlone(t *testing.T) {
	cases := []struct {
		name             string
		verificationType string
		status           string
	}{
		{"verify but disputed", model.VerificationTypeVerify, model.VerificationStatusDisputed},
		{"dispute but verified", model.VerificationTypeDispute, model.VerificationStatusVerified},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lc, _ := newLifecycle(t)
			ctx := context.Background()
			g := resolveGrievance(t, lc)

			v, err := lc.RecordVerification(ctx, &validator.VerificationInput{
				GrievanceID:      g.ID,
				VerificationType: tc.verificationType,
				Status:           tc.status,
			}, "verifier-1")
			require.NoError(t, err, "the verification row itself is still persisted")
			assert.NotEmpty(t, v.ID)

			after, err := lc.GetByID(ctx, g.ID)
			require.NoError(t, err)
			assert.Equal(t, model.StatusPendingVerification, after.Status)
		})
	}
}

func TestRecordVerification_UnknownGrievanceIsValidationError(t *testing.T) {
	lc, _ := newLifecycle(t)

	_, err := lc.RecordVerification(context.Background(), &validator.VerificationInput{
		GrievanceID:      "no-such-id",
		VerificationType: model.VerificationTypeVerify,
		Status:           model.VerificationStatusVerified,
	}, "verifier-1")

	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "grievanceId", verr.Violations[0].Field)
}

func TestRecordVerification_MultiplePerVerifierAllowed(t *testing.T) {
	lc, _ := newLifecycle(t)
	ctx := context.Background()
	g := resolveGrievance(t, lc)

	for i := 0; i < 2; i++ {
		_, err := lc.RecordVerification(ctx, &validator.VerificationInput{
			GrievanceID:      g.ID,
			VerificationType: model.VerificationTypeVerify,
			Status:           model.VerificationStatusVerified,
		}, "verifier-1")
		require.NoError(t, err)
	}

	verifications, err := lc.ListVerificationsFor(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, verifications, 2)
}

func TestListAssignable_FiltersAndKeepsOrder(t *testing.T) {
	lc, _ := newLifecycle(t)
	ctx := context.Background()

	first := createGrievance(t, lc)
	second := createGrievance(t, lc)
	third := createGrievance(t, lc)

	_, err := lc.Accept(ctx, second.ID, "officer-1", 7)
	require.NoError(t, err)
	resolved := resolveGrievance(t, lc)

	all, err := lc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	assignable, err := lc.ListAssignable(ctx)
	require.NoError(t, err)
	require.Len(t, assignable, 3)
	assert.Equal(t, first.ID, assignable[0].ID)
	assert.Equal(t, second.ID, assignable[1].ID)
	assert.Equal(t, third.ID, assignable[2].ID)
	for _, g := range assignable {
		assert.NotEqual(t, resolved.ID, g.ID)
	}
}

func TestLifecycle_LedgerTrailCoversAllEvents(t *testing.T) {
	lc, _ := newLifecycle(t)
	ctx := context.Background()

	g := resolveGrievance(t, lc)
	_, err := lc.RecordVerification(ctx, &validator.VerificationInput{
		GrievanceID:      g.ID,
		VerificationType: model.VerificationTypeVerify,
		Status:           model.VerificationStatusVerified,
	}, "verifier-1")
	require.NoError(t, err)

	records, err := lc.ListBlockchainRecordsFor(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, records, 4)

	types := make([]string, len(records))
	hashes := make(map[string]bool)
	for i, r := range records {
		types[i] = r.EventType
		assert.False(t, hashes[r.TransactionHash], "transaction hashes must be unique")
		hashes[r.TransactionHash] = true
	}
	assert.Equal(t, []string{
		model.EventGrievanceCreated,
		model.EventGrievanceAccepted,
		model.EventGrievanceStatus,
		model.EventVerificationRecorded,
	}, types)
}

func TestRegisterUser_HashesPassword(t *testing.T) {
	lc, st := newLifecycle(t)
	ctx := context.Background()

	user, err := lc.RegisterUser(ctx, &validator.UserInput{
		Username:     "officer",
		Password:     "long-enough-secret",
		FullName:     "Block Officer",
		Role:         model.RoleOfficial,
		MobileNumber: "+911112223334",
	})
	require.NoError(t, err)

	stored, err := st.GetUserByUsername(ctx, "officer")
	require.NoError(t, err)
	assert.NotEqual(t, "long-enough-secret", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.Equal(t, user.ID, stored.ID)
}

func TestAuthenticate(t *testing.T) {
	lc, _ := newLifecycle(t)
	ctx := context.Background()

	_, err := lc.RegisterUser(ctx, &validator.UserInput{
		Username:     "officer",
		Password:     "long-enough-secret",
		FullName:     "Block Officer",
		MobileNumber: "+911112223334",
	})
	require.NoError(t, err)

	user, err := lc.Authenticate(ctx, "officer", "long-enough-secret")
	require.NoError(t, err)
	assert.Equal(t, "officer", user.Username)

	_, err = lc.Authenticate(ctx, "officer", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = lc.Authenticate(ctx, "ghost", "long-enough-secret")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestEnsureUser_CreatesOnceAndReuses(t *testing.T) {
	lc, _ := newLifecycle(t)
	ctx := context.Background()

	first, err := lc.EnsureUser(ctx, model.DemoOfficerUsername, "Panchayat Officer", model.RoleOfficial)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOfficial, first.Role)

	second, err := lc.EnsureUser(ctx, model.DemoOfficerUsername, "Panchayat Officer", model.RoleOfficial)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
