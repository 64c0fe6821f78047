package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Grievance struct {
	ID                   string         `gorm:"type:uuid;primaryKey" json:"id"`
	GrievanceNumber      string         `gorm:"uniqueIndex;not null;size:50" json:"grievanceNumber"`
	OwnerUserID          string         `gorm:"type:uuid;not null;index" json:"ownerUserId"`
	Title                string         `gorm:"not null;size:255" json:"title"`
	Category             string         `gorm:"not null;size:100;index" json:"category"`
	Description          string         `gorm:"type:text;not null" json:"description"`
	VillageName          string         `gorm:"not null;size:255" json:"villageName"`
	Status               string         `gorm:"not null;default:'pending';size:30;index" json:"status"`
	Priority             string         `gorm:"not null;default:'medium';size:20" json:"priority"`
	EvidenceFiles        pq.StringArray `gorm:"type:text[]" json:"evidenceFiles"`
	VoiceRecordingURL    string         `json:"voiceRecordingUrl,omitempty"`
	VoiceTranscription   string         `gorm:"type:text" json:"voiceTranscription,omitempty"`
	AssignedTo           *string        `gorm:"type:uuid;index" json:"assignedTo"`
	ResolutionTimeline   *int           `json:"resolutionTimeline"`
	DueDate              *time.Time     `json:"dueDate"`
	ResolvedAt           *time.Time     `json:"resolvedAt"`
	ResolutionNotes      string         `gorm:"type:text" json:"resolutionNotes,omitempty"`
	ResolutionEvidence   pq.StringArray `gorm:"type:text[]" json:"resolutionEvidence"`
	VerificationDeadline *time.Time     `json:"verificationDeadline"`
	IsEscalated          bool           `gorm:"not null;default:false" json:"isEscalated"`
	EscalatedAt          *time.Time     `json:"escalatedAt"`
	Version              int            `gorm:"not null;default:1" json:"-"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

func (Grievance) TableName() string {
	return "grievances"
}

func (g *Grievance) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// Status constants
const (
	StatusPending             = "pending"
	StatusInProgress          = "in_progress"
	StatusPendingVerification = "pending_verification"
	StatusResolved            = "resolved"
)

// Priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Categories lists the nine grievance categories accepted by the portal.
var Categories = []string{
	"Water Supply",
	"Road & Infrastructure",
	"Electricity",
	"Sanitation & Waste Management",
	"Healthcare",
	"Education",
	"Agriculture Support",
	"Social Welfare Schemes",
	"Other",
}

// VerificationWindow is how long the community has to verify a resolution
// after an officer marks a grievance resolved.
const VerificationWindow = 7 * 24 * time.Hour
