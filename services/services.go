// Package services implements the identity resolver, badge assignment and
// attendance ledger contracts on top of the store and the event catalog.
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"scanner-backend/catalog"
	"scanner-backend/models"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, h *models.Hacker) error
	GetByEmail(ctx context.Context, email string) (*models.Hacker, error)
	GetByBadge(ctx context.Context, badgeCode string) (*models.Hacker, error)
	AssignBadge(ctx context.Context, email, badgeCode string) (*models.Hacker, error)
	RecordAttendance(ctx context.Context, badgeCode string, eventID int64, value float64) (*models.Hacker, error)
}

var validate = validator.New()

// HackerService validates inputs, orders catalog lookups before writes, and
// maps store results onto the domain error taxonomy.
type HackerService struct {
	store   Store
	catalog catalog.Catalog
	prefix  string
}

// New constructs a HackerService. prefix is the badge URL prefix every
// scanned badge token must carry.
func New(store Store, cat catalog.Catalog, prefix string) *HackerService {
	return &HackerService{store: store, catalog: cat, prefix: prefix}
}

// Resolve maps a decoded identity token to a hacker. A token that is not
// syntactically an email is models.ErrInvalidToken, distinct from
// models.ErrNotFound, so the caller can show "not an identity code" rather
// than "unknown hacker". Read-only.
func (s *HackerService) Resolve(ctx context.Context, token string) (*models.Hacker, error) {
	if err := validate.Var(token, "required,email"); err != nil {
		return nil, models.ErrInvalidToken
	}
	return s.store.GetByEmail(ctx, token)
}

// Register creates a new hacker record. The admission decision (accepted) is
// made upstream and carried through unchanged.
func (s *HackerService) Register(ctx context.Context, req models.RegisterHackerRequest) (*models.Hacker, error) {
	h := &models.Hacker{
		ID:               uuid.New(),
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Accepted:         req.Accepted,
		AttendedEventIDs: []int64{},
	}
	if err := s.store.Create(ctx, h); err != nil {
		return nil, err
	}
	log.Printf("Registered new hacker: %s", h.Email)
	return h, nil
}

// AssignBadge binds a badge code to the hacker with the given email. The
// badge token is validated against the prefix before any lookup; the write
// itself is unconditional (the check-in flow obtains overwrite confirmation
// before calling this).
func (s *HackerService) AssignBadge(ctx context.Context, email, badgeCode string) (*models.Hacker, error) {
	if !models.ValidBadgeToken(badgeCode, s.prefix) {
		return nil, models.ErrInvalidToken
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, models.ErrInvalidToken
	}

	h, err := s.store.AssignBadge(ctx, email, badgeCode)
	if err != nil {
		return nil, err
	}
	log.Printf("Assigned badge to hacker: email=%s", email)
	return h, nil
}

// RecordAttendance credits the hacker holding badgeCode for the event, at
// most once per event. The event value is read from the catalog before any
// write: if the lookup fails the whole operation fails and nothing is
// mutated. The final conditional store update is the authoritative
// idempotence guard under concurrent devices.
func (s *HackerService) RecordAttendance(ctx context.Context, badgeCode string, eventID int64) (*models.Hacker, error) {
	if !models.ValidBadgeToken(badgeCode, s.prefix) {
		return nil, models.ErrInvalidToken
	}

	h, err := s.store.GetByBadge(ctx, badgeCode)
	if err != nil {
		return nil, err
	}
	if h.HasAttended(eventID) {
		return nil, models.ErrAlreadyRecorded
	}

	value, err := s.catalog.EventValue(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("fetch event value: %w", err)
	}

	updated, err := s.store.RecordAttendance(ctx, badgeCode, eventID, value)
	if err != nil {
		return nil, err
	}
	log.Printf("Recorded attendance: badge=%s event=%d value=%v", badgeCode, eventID, value)
	return updated, nil
}
