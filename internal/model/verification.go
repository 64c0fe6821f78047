package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Verification is a community member's assessment of a resolved grievance.
// Rows are immutable once created.
type Verification struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	GrievanceID      string         `gorm:"type:uuid;not null;index" json:"grievanceId"`
	UserID           string         `gorm:"type:uuid;not null;index" json:"userId"`
	VerificationType string         `gorm:"not null;size:20" json:"verificationType"`
	Status           string         `gorm:"not null;size:20" json:"status"`
	Comments         string         `gorm:"type:text" json:"comments,omitempty"`
	EvidenceFiles    pq.StringArray `gorm:"type:text[]" json:"evidenceFiles"`
	CreatedAt        time.Time      `json:"createdAt"`
}

func (Verification) TableName() string {
	return "verifications"
}

func (v *Verification) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// VerificationType constants
const (
	VerificationTypeVerify  = "verify"
	VerificationTypeDispute = "dispute"
)

// Verification status constants
const (
	VerificationStatusVerified = "verified"
	VerificationStatusDisputed = "disputed"
)
