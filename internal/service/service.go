// Package service orchestrates the grievance lifecycle: creation,
// acceptance, status transitions, community verification, and the
// append-only ledger that records each step.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gramseva/api/internal/auth"
	"github.com/gramseva/api/internal/cache"
	"github.com/gramseva/api/internal/model"
	"github.com/gramseva/api/internal/store"
	"github.com/gramseva/api/internal/validator"
)

var (
	// ErrInvalidTransition means the requested status change is not in the
	// lifecycle transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidCredentials means username/password authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// storeTimeout bounds every persistence round-trip started by an operation.
const storeTimeout = 5 * time.Second

type Lifecycle struct {
	store      store.Store
	cache      *cache.RedisCache
	permissive bool
	now        func() time.Time
}

// NewLifecycle creates the lifecycle service. cache may be nil; reads then
// always go to the store.
func NewLifecycle(s store.Store, c *cache.RedisCache, permissive bool) *Lifecycle {
	return &Lifecycle{
		store:      s,
		cache:      c,
		permissive: permissive,
		now:        time.Now,
	}
}

// RegisterUser validates and persists a new user with a hashed credential.
func (s *Lifecycle) RegisterUser(ctx context.Context, input *validator.UserInput) (*model.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = model.RoleCitizen
	}

	user := &model.User{
		Username:     input.Username,
		PasswordHash: hash,
		FullName:     input.FullName,
		Role:         role,
		MobileNumber: input.MobileNumber,
		Email:        input.Email,
		VillageName:  input.VillageName,
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username/password pair.
func (s *Lifecycle) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureUser finds a user by username, creating it when absent. Backs both
// the grievance owner lookup and the demo-identity path. Lazily created
// users have no usable credential.
func (s *Lifecycle) EnsureUser(ctx context.Context, username, fullName, role string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user = &model.User{
		Username: username,
		FullName: fullName,
		Role:     role,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// Lost a create race; the record exists now.
		if errors.Is(err, store.ErrDuplicate) {
			return s.store.GetUserByUsername(ctx, username)
		}
		return nil, err
	}
	return user, nil
}

// GetUser returns a user by id.
func (s *Lifecycle) GetUser(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.store.GetUserByID(ctx, id)
}

// invalidate drops the cached copy of a grievance after a mutation.
func (s *Lifecycle) invalidate(ctx context.Context, grievanceID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.GrievanceKey(grievanceID)); err != nil {
		log.Printf("Warning: failed to invalidate grievance cache for %s: %v", grievanceID, err)
	}
}

// cacheGrievance stores a serialized grievance for later reads.
func (s *Lifecycle) cacheGrievance(ctx context.Context, g *model.Grievance) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(g)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.GrievanceKey(g.ID), data, cache.GrievanceTTL); err != nil {
		log.Printf("Warning: failed to cache grievance %s: %v", g.ID, err)
	}
}
