// Package checkin implements the staff-device scanning workflows: the
// check-in flow that verifies a hacker and binds a badge, and the per-event
// flow that records attendance. Session state is transient and device-local;
// nothing in this package persists anything itself.
package checkin

import "scanner-backend/models"

// Stage is the current position of a device session in its workflow.
type Stage string

const (
	// Check-in flow: scan identity -> resolve -> verify -> scan badge
	// -> (confirm overwrite) -> success.
	StageScanningIdentity Stage = "scanning_identity"
	StageResolving        Stage = "resolving"
	StageVerify           Stage = "verify"
	StageScanningBadge    Stage = "scanning_badge"
	StageConfirmOverwrite Stage = "confirm_overwrite"
	StageSuccess          Stage = "success"

	// Event flow: scan badge -> commit -> results.
	StageScanningEvent Stage = "scanning_event"
	StageCommitting    Stage = "committing"
	StageResults       Stage = "results"

	// StageFatal is reachable from any stage on unrecoverable error and can
	// only be left by an explicit reset.
	StageFatal Stage = "fatal"
)

// FlowKind selects which workflow a session runs.
type FlowKind string

const (
	FlowCheckin FlowKind = "checkin"
	FlowEvent   FlowKind = "event"
)

// Warning is a typed advisory computed in the verify stage. Display text is
// generated at the edge.
type Warning string

const (
	WarningNotAccepted   Warning = "NOT_ACCEPTED"
	WarningAlreadyBadged Warning = "ALREADY_BADGED"
)

// Message returns the staff-facing text for a warning.
func (w Warning) Message() string {
	switch w {
	case WarningNotAccepted:
		return "Hacker is not accepted."
	case WarningAlreadyBadged:
		return "Hacker already checked in."
	default:
		return string(w)
	}
}

// Session is the full state of one staff-device workflow. It is an immutable
// value: every external event produces the next Session via a pure
// transition, so no partially-applied state is ever observable.
type Session struct {
	Flow      FlowKind       `json:"flow"`
	Stage     Stage          `json:"stage"`
	Hacker    *models.Hacker `json:"hacker,omitempty"`
	BadgeCode string         `json:"badge_code,omitempty"`
	EventID   int64          `json:"event_id,omitempty"`
	Warnings  []Warning      `json:"warnings,omitempty"`
	Err       string         `json:"error,omitempty"`
	Fatal     string         `json:"fatal_error,omitempty"`
}

// NewCheckinSession starts a fresh check-in workflow.
func NewCheckinSession() Session {
	return Session{Flow: FlowCheckin, Stage: StageScanningIdentity}
}

// NewEventSession starts a fresh attendance-scanning workflow for one event.
func NewEventSession(eventID int64) Session {
	return Session{Flow: FlowEvent, Stage: StageScanningEvent, EventID: eventID}
}

// reset discards all session state and returns to the flow's initial stage.
func (s Session) reset() Session {
	if s.Flow == FlowEvent {
		return NewEventSession(s.EventID)
	}
	return NewCheckinSession()
}

// withFatal halts the flow until an explicit reset.
func (s Session) withFatal(msg string) Session {
	s.Stage = StageFatal
	s.Fatal = msg
	return s
}

// hardError reports whether a validation error is blocking confirmation.
// Staff can only reject or reset while one is present.
func (s Session) hardError() bool {
	return s.Err != ""
}

// computeWarnings derives the verify-stage advisories from a resolved hacker.
func computeWarnings(h *models.Hacker) []Warning {
	var warnings []Warning
	if !h.Accepted {
		warnings = append(warnings, WarningNotAccepted)
	}
	if h.HasBadge() {
		warnings = append(warnings, WarningAlreadyBadged)
	}
	return warnings
}
