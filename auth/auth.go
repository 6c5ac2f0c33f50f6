// Package auth registers identities and verifies their passwords.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/tradebook/store"
	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 12

var (
	// ErrInvalidCredentials is returned for an unknown identity and for a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrMissingFields = errors.New("identity and password are required")
)

// Service checks credentials against the profile store. Only a salted
// bcrypt hash of the password is ever stored.
type Service struct {
	profiles store.ProfileStore
	cost     int
}

// NewService hashes with cost, or DefaultCost when cost is outside bcrypt's
// range (0 included).
func NewService(profiles store.ProfileStore, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Service{profiles: profiles, cost: cost}
}

// Register creates a profile with default balance and currency.
func (s *Service) Register(ctx context.Context, identity, password string) error {
	identity = strings.TrimSpace(identity)
	if identity == "" || password == "" {
		return ErrMissingFields
	}

	exists, err := s.profiles.Exists(ctx, identity)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("register %q: %w", identity, store.ErrDuplicateIdentity)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	p := store.NewProfile(identity)
	p.PasswordHash = string(hash)
	return s.profiles.Create(ctx, p)
}

// Verify returns nil when password matches identity.
func (s *Service) Verify(ctx context.Context, identity, password string) error {
	p, err := s.profiles.FindByIdentity(ctx, strings.TrimSpace(identity))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if p.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// ChangePassword replaces the stored hash after verifying the old password.
func (s *Service) ChangePassword(ctx context.Context, identity, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrMissingFields
	}
	if err := s.Verify(ctx, identity, oldPassword); err != nil {
		return err
	}
	p, err := s.profiles.FindByIdentity(ctx, identity)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	p.PasswordHash = string(hash)
	return s.profiles.Upsert(ctx, p)
}
