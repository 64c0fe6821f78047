package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gramseva/api/internal/ids"
	"github.com/gramseva/api/internal/middleware"
	"github.com/gramseva/api/internal/model"
	"github.com/gramseva/api/internal/store"
	"github.com/gramseva/api/internal/validator"
)

// transitions is the lifecycle state machine. Anything not listed here is
// rejected unless permissive mode is on, in which case the requested status
// is written through verbatim.
var transitions = map[string][]string{
	model.StatusPending:             {model.StatusInProgress},
	model.StatusInProgress:          {model.StatusPendingVerification},
	model.StatusPendingVerification: {model.StatusResolved, model.StatusInProgress},
}

func transitionAllowed(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Create validates the input, links it to the owner identified by the
// contact fields, and persists a new pending grievance.
func (s *Lifecycle) Create(ctx context.Context, input *validator.GrievanceInput, ownerFullName, ownerMobile, ownerEmail string) (*model.Grievance, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Owner records are keyed by mobile number; repeat complainants reuse
	// their existing record.
	owner, err := s.ensureOwner(ctx, ownerFullName, ownerMobile, ownerEmail)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	g := &model.Grievance{
		GrievanceNumber:    ids.NewGrievanceNumber(),
		OwnerUserID:        owner.ID,
		Title:              input.Title,
		Category:           input.Category,
		Description:        input.Description,
		VillageName:        input.VillageName,
		Status:             model.StatusPending,
		Priority:           priority,
		EvidenceFiles:      input.EvidenceFiles,
		VoiceRecordingURL:  input.VoiceRecordingURL,
		VoiceTranscription: input.VoiceTranscription,
		Version:            1,
	}

	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.store.CreateGrievance(cctx, g); err != nil {
		return nil, err
	}

	middleware.RecordGrievanceCreated(g.Category)
	s.appendRecord(ctx, g.ID, model.EventGrievanceCreated, map[string]interface{}{
		"grievanceNumber": g.GrievanceNumber,
		"ownerUserId":     g.OwnerUserID,
		"category":        g.Category,
		"status":          g.Status,
	})

	return g, nil
}

func (s *Lifecycle) ensureOwner(ctx context.Context, fullName, mobile, email string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	owner, err := s.store.GetUserByUsername(ctx, mobile)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	owner = &model.User{
		Username:     mobile,
		FullName:     fullName,
		Role:         model.RoleCitizen,
		MobileNumber: mobile,
		Email:        email,
	}
	if err := s.store.CreateUser(ctx, owner); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return s.store.GetUserByUsername(ctx, mobile)
		}
		return nil, err
	}
	return owner, nil
}

// Accept assigns an officer and a resolution timeline to a pending
// grievance and moves it to in_progress.
func (s *Lifecycle) Accept(ctx context.Context, grievanceID, officerID string, timelineDays int) (*model.Grievance, error) {
	if timelineDays <= 0 {
		return nil, &validator.ValidationError{Violations: []validator.FieldViolation{
			{Field: "resolutionTimeline", Message: "resolutionTimeline must be a positive integer"},
		}}
	}

	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	g, err := s.store.GetGrievance(cctx, grievanceID)
	if err != nil {
		return nil, err
	}

	if g.Status != model.StatusPending && !s.permissive {
		return nil, fmt.Errorf("%w: accept from %s", ErrInvalidTransition, g.Status)
	}

	from := g.Status
	now := s.now()
	due := now.AddDate(0, 0, timelineDays)

	g.AssignedTo = &officerID
	g.ResolutionTimeline = &timelineDays
	g.DueDate = &due
	g.Status = model.StatusInProgress

	if err := s.store.UpdateGrievance(cctx, g); err != nil {
		return nil, err
	}

	s.invalidate(ctx, g.ID)
	middleware.RecordStatusTransition(from, g.Status)
	s.appendRecord(ctx, g.ID, model.EventGrievanceAccepted, map[string]interface{}{
		"assignedTo":         officerID,
		"resolutionTimeline": timelineDays,
		"dueDate":            due,
	})

	return g, nil
}

// UpdateStatus moves a grievance to the requested status. Requesting
// "resolved" instead parks the grievance in pending_verification with a
// verification deadline, since only the community can close it out.
func (s *Lifecycle) UpdateStatus(ctx context.Context, grievanceID, requested, resolutionNotes string, resolutionEvidence []string) (*model.Grievance, error) {
	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	g, err := s.store.GetGrievance(cctx, grievanceID)
	if err != nil {
		return nil, err
	}

	from := g.Status
	target := requested

	if requested == model.StatusResolved {
		target = model.StatusPendingVerification
	}

	if !s.permissive && !transitionAllowed(from, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, requested)
	}

	if requested == model.StatusResolved {
		now := s.now()
		deadline := now.Add(model.VerificationWindow)
		g.ResolvedAt = &now
		g.VerificationDeadline = &deadline
	}
	if resolutionNotes != "" {
		g.ResolutionNotes = resolutionNotes
	}
	if len(resolutionEvidence) > 0 {
		g.ResolutionEvidence = resolutionEvidence
	}
	g.Status = target

	if err := s.store.UpdateGrievance(cctx, g); err != nil {
		return nil, err
	}

	s.invalidate(ctx, g.ID)
	middleware.RecordStatusTransition(from, g.Status)
	s.appendRecord(ctx, g.ID, model.EventGrievanceStatus, map[string]interface{}{
		"from":      from,
		"to":        g.Status,
		"requested": requested,
	})

	return g, nil
}

// RecordVerification persists a community verification and re-derives the
// parent grievance status: a consistent verify/verified pair closes the
// grievance, a consistent dispute/disputed pair re-opens it. Mismatched
// pairs are stored but leave the grievance untouched.
func (s *Lifecycle) RecordVerification(ctx context.Context, input *validator.VerificationInput, verifierID string) (*model.Verification, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	g, err := s.store.GetGrievance(cctx, input.GrievanceID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &validator.ValidationError{Violations: []validator.FieldViolation{
			{Field: "grievanceId", Message: "grievanceId does not reference an existing grievance"},
		}}
	}
	if err != nil {
		return nil, err
	}

	v := &model.Verification{
		GrievanceID:      input.GrievanceID,
		UserID:           verifierID,
		VerificationType: input.VerificationType,
		Status:           input.Status,
		Comments:         input.Comments,
		EvidenceFiles:    input.EvidenceFiles,
	}

	if err := s.store.CreateVerification(cctx, v); err != nil {
		return nil, err
	}

	var target string
	switch {
	case input.VerificationType == model.VerificationTypeVerify && input.Status == model.VerificationStatusVerified:
		target = model.StatusResolved
	case input.VerificationType == model.VerificationTypeDispute && input.Status == model.VerificationStatusDisputed:
		// Re-opened: the previous assignee and timeline stay attached.
		target = model.StatusInProgress
	}

	middleware.RecordVerification(input.Status)
	s.appendRecord(ctx, g.ID, model.EventVerificationRecorded, map[string]interface{}{
		"verificationId":   v.ID,
		"verifierId":       verifierID,
		"verificationType": v.VerificationType,
		"status":           v.Status,
	})

	if target == "" || g.Status == target {
		return v, nil
	}

	from := g.Status
	g.Status = target
	if err := s.store.UpdateGrievance(cctx, g); err != nil {
		return nil, err
	}

	s.invalidate(ctx, g.ID)
	middleware.RecordStatusTransition(from, target)

	return v, nil
}
