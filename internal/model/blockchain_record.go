package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BlockchainRecord is an append-only audit entry for a grievance lifecycle
// event. It is a ledger table, not an actual chain: TransactionHash is a
// content hash of the event payload and rows are never updated or deleted.
type BlockchainRecord struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	GrievanceID     string         `gorm:"type:uuid;not null;index" json:"grievanceId"`
	TransactionHash string         `gorm:"uniqueIndex;not null;size:128" json:"transactionHash"`
	BlockNumber     *int64         `json:"blockNumber"`
	EventType       string         `gorm:"not null;size:64;index" json:"eventType"`
	EventData       datatypes.JSON `json:"eventData"`
	Timestamp       time.Time      `gorm:"not null" json:"timestamp"`
}

func (BlockchainRecord) TableName() string {
	return "blockchain_records"
}

func (r *BlockchainRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// EventType constants
const (
	EventGrievanceCreated     = "grievance.created"
	EventGrievanceAccepted    = "grievance.accepted"
	EventGrievanceStatus      = "grievance.status_changed"
	EventVerificationRecorded = "verification.recorded"
)
