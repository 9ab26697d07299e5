package models

import (
	"strings"

	"github.com/google/uuid"
)

// Hacker represents a hackathon participant (matches the hackers table).
// BadgeCode is the scanned badge token bound at check-in and is nil until the
// hacker has been checked in. AttendedEventIDs never contains duplicates;
// NetWorth is the running sum of the values of all recorded events.
type Hacker struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	FirstName        string    `json:"firstname" db:"firstname"`
	LastName         string    `json:"lastname" db:"lastname"`
	Accepted         bool      `json:"accepted" db:"accepted"`
	BadgeCode        *string   `json:"badge_code" db:"badge_code"`
	AttendedEventIDs []int64   `json:"attended_event_ids" db:"attended_event_ids"`
	NetWorth         float64   `json:"net_worth" db:"net_worth"`
}

// HasBadge reports whether a badge code is already bound to this hacker.
func (h *Hacker) HasBadge() bool {
	return h.BadgeCode != nil && *h.BadgeCode != ""
}

// HasAttended reports whether the event is already in the attendance set.
func (h *Hacker) HasAttended(eventID int64) bool {
	for _, id := range h.AttendedEventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

// ValidBadgeToken checks a scanned payload against the configured badge URL
// prefix. The match is byte-for-byte: case-sensitive, no trimming.
func ValidBadgeToken(token, prefix string) bool {
	return prefix != "" && strings.HasPrefix(token, prefix)
}

// BadgeSuffix returns the part of the badge token after the prefix, for
// display. Returns the whole token if the prefix does not match.
func BadgeSuffix(token, prefix string) string {
	if ValidBadgeToken(token, prefix) {
		return token[len(prefix):]
	}
	return token
}

// RegisterHackerRequest for creating a new hacker. The admission decision is
// made upstream, so accepted simply carries it through.
type RegisterHackerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstname" binding:"required"`
	LastName  string `json:"lastname" binding:"required"`
	Accepted  bool   `json:"accepted"`
}

// AssignBadgeRequest binds a scanned badge code to a hacker by email.
type AssignBadgeRequest struct {
	Email     string `json:"email" binding:"required"`
	BadgeCode string `json:"badge_code" binding:"required"`
}

// RecordScanRequest credits a hacker (looked up by badge code) for an event.
type RecordScanRequest struct {
	BadgeCode string `json:"badge_code" binding:"required"`
	EventID   int64  `json:"event_id" binding:"required"`
}
