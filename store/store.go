// Package store implements persistence for hackers using pgx directly.
// The attendance write is a single conditional UPDATE so that two staff
// devices replaying the same (badge, event) scan can never double-count.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"scanner-backend/models"
)

const hackerColumns = `id, email, firstname, lastname, accepted, badge_code, attended_event_ids, net_worth`

// Connect opens and verifies a pgxpool connection.
func Connect(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("Successfully connected to the database!")
	return pool, nil
}

// Store handles all hacker queries.
type Store struct {
	db *pgxpool.Pool
}

// New constructs a Store.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Init creates the schema. Safe to call multiple times.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS hackers (
    id UUID PRIMARY KEY,
    email TEXT UNIQUE NOT NULL,
    firstname TEXT NOT NULL,
    lastname TEXT NOT NULL,
    accepted BOOLEAN NOT NULL DEFAULT FALSE,
    badge_code TEXT UNIQUE,
    attended_event_ids BIGINT[] NOT NULL DEFAULT '{}',
    net_worth DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_hackers_badge_code ON hackers(badge_code);
`

// Create inserts a new hacker.
func (s *Store) Create(ctx context.Context, h *models.Hacker) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO hackers (id, email, firstname, lastname, accepted, attended_event_ids, net_worth)
		 VALUES ($1, $2, $3, $4, $5, '{}', 0)`,
		h.ID, h.Email, h.FirstName, h.LastName, h.Accepted,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailTaken
		}
		return fmt.Errorf("insert hacker: %w", err)
	}
	return nil
}

// GetByEmail returns the hacker with the given email, or models.ErrNotFound.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Hacker, error) {
	return s.getWhere(ctx, "email = $1", email)
}

// GetByBadge returns the hacker holding the given badge code, or
// models.ErrNotFound.
func (s *Store) GetByBadge(ctx context.Context, badgeCode string) (*models.Hacker, error) {
	return s.getWhere(ctx, "badge_code = $1", badgeCode)
}

func (s *Store) getWhere(ctx context.Context, where string, arg any) (*models.Hacker, error) {
	var h models.Hacker
	err := s.db.QueryRow(ctx,
		`SELECT `+hackerColumns+` FROM hackers WHERE `+where, arg,
	).Scan(
		&h.ID, &h.Email, &h.FirstName, &h.LastName,
		&h.Accepted, &h.BadgeCode, &h.AttendedEventIDs, &h.NetWorth,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get hacker: %w", err)
	}
	return &h, nil
}

// AssignBadge stores the badge code on the hacker and returns the updated
// record. The write is unconditional: overwrite gating happens in the
// check-in flow before this is ever called, and no history of prior bindings
// is kept (last-write-wins).
func (s *Store) AssignBadge(ctx context.Context, email, badgeCode string) (*models.Hacker, error) {
	var h models.Hacker
	err := s.db.QueryRow(ctx,
		`UPDATE hackers SET badge_code = $2 WHERE email = $1
		 RETURNING `+hackerColumns,
		email, badgeCode,
	).Scan(
		&h.ID, &h.Email, &h.FirstName, &h.LastName,
		&h.Accepted, &h.BadgeCode, &h.AttendedEventIDs, &h.NetWorth,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, models.ErrBadgeTaken
		}
		return nil, fmt.Errorf("assign badge: %w", err)
	}
	return &h, nil
}

// RecordAttendance appends the event to the hacker's attendance set and
// credits the event value in one conditional UPDATE. The WHERE clause is the
// idempotence guard: when the event id is already present the update matches
// no rows and nothing is written, so a concurrent second writer observes
// models.ErrAlreadyRecorded instead of double-counting.
func (s *Store) RecordAttendance(ctx context.Context, badgeCode string, eventID int64, value float64) (*models.Hacker, error) {
	var h models.Hacker
	err := s.db.QueryRow(ctx,
		`UPDATE hackers
		 SET attended_event_ids = array_append(attended_event_ids, $2),
		     net_worth = net_worth + $3
		 WHERE badge_code = $1 AND NOT ($2 = ANY(attended_event_ids))
		 RETURNING `+hackerColumns,
		badgeCode, eventID, value,
	).Scan(
		&h.ID, &h.Email, &h.FirstName, &h.LastName,
		&h.Accepted, &h.BadgeCode, &h.AttendedEventIDs, &h.NetWorth,
	)
	if err == nil {
		return &h, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("record attendance: %w", err)
	}

	// No row matched: either the badge is unknown or the event was already
	// recorded. Disambiguate with a read.
	if _, lookupErr := s.GetByBadge(ctx, badgeCode); lookupErr != nil {
		return nil, lookupErr
	}
	return nil, models.ErrAlreadyRecorded
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
