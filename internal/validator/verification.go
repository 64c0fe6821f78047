package validator

import (
	"github.com/gramseva/api/internal/model"
)

// VerificationInput is the client-supplied portion of a verification.
// Whether the type/status pair is consistent enough to move the parent
// grievance is decided by the lifecycle service, not here.
type VerificationInput struct {
	GrievanceID      string   `json:"grievanceId"`
	VerificationType string   `json:"verificationType"`
	Status           string   `json:"status"`
	Comments         string   `json:"comments"`
	EvidenceFiles    []string `json:"evidenceFiles"`
}

func (in *VerificationInput) Validate() error {
	var verr ValidationError

	if in.GrievanceID == "" {
		verr.add("grievanceId", "grievanceId is required")
	}
	if in.VerificationType != model.VerificationTypeVerify && in.VerificationType != model.VerificationTypeDispute {
		verr.add("verificationType", "verificationType must be verify or dispute")
	}
	if in.Status != model.VerificationStatusVerified && in.Status != model.VerificationStatusDisputed {
		verr.add("status", "status must be verified or disputed")
	}

	return verr.orNil()
}
