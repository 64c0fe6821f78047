package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/gramseva/api/internal/model"
	"github.com/stretchr/testify/assert"
)

// The BeforeCreate hooks run with a nil *gorm.DB here; they only touch the
// receiver.

func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &model.User{Username: "asha", FullName: "Asha Devi"}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	_, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "generated ID must be a valid UUID")
}

func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	existing := uuid.New().String()
	user := &model.User{ID: existing, Username: "asha"}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existing, user.ID)
}

func TestGrievanceBeforeCreate_GeneratesUUID(t *testing.T) {
	g := &model.Grievance{Title: "Broken hand pump near school"}

	err := g.BeforeCreate(nil)

	assert.NoError(t, err)
	_, parseErr := uuid.Parse(g.ID)
	assert.NoError(t, parseErr)
}

func TestVerificationBeforeCreate_GeneratesUUID(t *testing.T) {
	v := &model.Verification{GrievanceID: uuid.New().String()}

	err := v.BeforeCreate(nil)

	assert.NoError(t, err)
	_, parseErr := uuid.Parse(v.ID)
	assert.NoError(t, parseErr)
}

func TestBlockchainRecordBeforeCreate_GeneratesUUID(t *testing.T) {
	r := &model.BlockchainRecord{GrievanceID: uuid.New().String()}

	err := r.BeforeCreate(nil)

	assert.NoError(t, err)
	_, parseErr := uuid.Parse(r.ID)
	assert.NoError(t, parseErr)
}

func TestCategories_NineValues(t *testing.T) {
	assert.Len(t, model.Categories, 9)
}
