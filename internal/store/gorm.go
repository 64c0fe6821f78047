package store

import (
	"context"
	"errors"
	"strings"

	"github.com/gramseva/api/internal/ids"
	"github.com/gramseva/api/internal/model"
	"gorm.io/gorm"
)

// GormStore persists entities in PostgreSQL through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateUser(ctx context.Context, user *model.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if isDuplicateErr(err) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) CreateGrievance(ctx context.Context, g *model.Grievance) error {
	err := s.db.WithContext(ctx).Create(g).Error
	if isDuplicateErr(err) {
		// Grievance numbers are ULID-based so a collision is close to
		// impossible; regenerate once and retry before giving up.
		g.GrievanceNumber = ids.NewGrievanceNumber()
		err = s.db.WithContext(ctx).Create(g).Error
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
	}
	return err
}

func (s *GormStore) GetGrievance(ctx context.Context, id string) (*model.Grievance, error) {
	var g model.Grievance
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GormStore) ListGrievances(ctx context.Context) ([]model.Grievance, error) {
	var grievances []model.Grievance
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&grievances).Error
	return grievances, err
}

func (s *GormStore) ListAssignable(ctx context.Context) ([]model.Grievance, error) {
	var grievances []model.Grievance
	err := s.db.WithContext(ctx).
		Where("status IN ?", []string{model.StatusPending, model.StatusInProgress}).
		Order("created_at ASC").
		Find(&grievances).Error
	return grievances, err
}

func (s *GormStore) UpdateGrievance(ctx context.Context, g *model.Grievance) error {
	current := g.Version
	g.Version = current + 1

	res := s.db.WithContext(ctx).Model(&model.Grievance{}).
		Where("id = ? AND version = ?", g.ID, current).
		Select("*").Omit("id", "grievance_number", "created_at").
		Updates(g)
	if res.Error != nil {
		g.Version = current
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Grievances are never deleted, so zero rows means a concurrent
		// writer bumped the version first.
		g.Version = current
		return ErrConflict
	}
	return nil
}

func (s *GormStore) CreateVerification(ctx context.Context, v *model.Verification) error {
	return s.db.WithContext(ctx).Create(v).Error
}

func (s *GormStore) ListVerificationsByGrievance(ctx context.Context, grievanceID string) ([]model.Verification, error) {
	var verifications []model.Verification
	err := s.db.WithContext(ctx).
		Where("grievance_id = ?", grievanceID).
		Order("created_at ASC").
		Find(&verifications).Error
	return verifications, err
}

func (s *GormStore) CreateBlockchainRecord(ctx context.Context, r *model.BlockchainRecord) error {
	err := s.db.WithContext(ctx).Create(r).Error
	if isDuplicateErr(err) {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) ListBlockchainRecordsByGrievance(ctx context.Context, grievanceID string) ([]model.BlockchainRecord, error) {
	var records []model.BlockchainRecord
	err := s.db.WithContext(ctx).
		Where("grievance_id = ?", grievanceID).
		Order("timestamp ASC").
		Find(&records).Error
	return records, err
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}
