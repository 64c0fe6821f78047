package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;size:100" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"not null;size:255" json:"fullName"`
	Role         string    `gorm:"not null;default:'citizen';size:20" json:"role"`
	MobileNumber string    `gorm:"not null;size:20" json:"mobileNumber"`
	Email        string    `gorm:"size:255" json:"email,omitempty"`
	VillageName  string    `gorm:"size:255" json:"villageName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID if the caller did not provide one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// Role constants
const (
	RoleCitizen  = "citizen"
	RoleOfficial = "official"
)

// Placeholder identities used when the API runs in demo mode without
// authentication.
const (
	DemoOfficerUsername  = "panchayat-officer"
	DemoVerifierUsername = "community-verifier"
)
