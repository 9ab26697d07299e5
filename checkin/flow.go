package checkin

import (
	"context"
	"errors"
	"sync"

	"scanner-backend/models"
)

// Services is the backend surface the flows drive. Implementations return
// the models sentinel errors for expected failures; anything else is treated
// as a transport/server failure.
type Services interface {
	Resolve(ctx context.Context, token string) (*models.Hacker, error)
	AssignBadge(ctx context.Context, email, badgeCode string) (*models.Hacker, error)
	RecordAttendance(ctx context.Context, badgeCode string, eventID int64) (*models.Hacker, error)
}

// Flow drives one device session. External events (a decoded token arriving,
// a staff button press) each run to completion under the mutex, so no
// transition is ever observed mid-way and scanner output arriving while a
// resolve/commit is outstanding can never start a second concurrent call.
// The flow performs no automatic retries: every failure requires an explicit
// staff action (reset, confirm or re-scan) to proceed.
type Flow struct {
	mu     sync.Mutex
	svc    Services
	prefix string
	strict bool
	s      Session
}

// NewCheckinFlow starts a check-in (identity + badge binding) flow.
func NewCheckinFlow(svc Services, prefix string) *Flow {
	return &Flow{svc: svc, prefix: prefix, s: NewCheckinSession()}
}

// NewEventFlow starts an attendance-scanning flow for one event. When strict
// is set, ledger failures other than "already recorded" halt the flow
// instead of landing in results.
func NewEventFlow(svc Services, prefix string, eventID int64, strict bool) *Flow {
	return &Flow{svc: svc, prefix: prefix, strict: strict, s: NewEventSession(eventID)}
}

// Session returns a snapshot of the current session state.
func (f *Flow) Session() Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.s
}

// Scan feeds one decoded QR payload into the flow. Empty payloads and scans
// arriving outside a scanning stage are ignored.
func (f *Flow) Scan(ctx context.Context, data string) Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	if data == "" {
		return f.s
	}

	switch f.s.Stage {
	case StageScanningIdentity:
		f.s.Stage = StageResolving
		h, err := f.svc.Resolve(ctx, data)
		f.s = applyResolveResult(f.s, h, err)

	case StageScanningBadge:
		next, commit := applyBadgeScan(f.s, data, f.prefix)
		f.s = next
		if commit {
			f.s = f.commitAssign(ctx)
		}

	case StageScanningEvent:
		if !models.ValidBadgeToken(data, f.prefix) {
			f.s.Stage = StageResults
			f.s.Err = "Invalid QR code"
			break
		}
		f.s.BadgeCode = data
		f.s.Stage = StageCommitting
		h, err := f.svc.RecordAttendance(ctx, data, f.s.EventID)
		f.s = applyRecordResult(f.s, h, err, f.strict)
	}

	return f.s
}

// Confirm is the staff "yes" action. In verify it advances to badge
// scanning; in confirm_overwrite it commits the badge assignment. Confirming
// is disabled while a hard validation error is present.
func (f *Flow) Confirm(ctx context.Context) Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.s.Stage {
	case StageVerify:
		if f.s.hardError() {
			return f.s
		}
		f.s.Stage = StageScanningBadge
		f.s.Err = ""

	case StageConfirmOverwrite:
		if f.s.hardError() {
			return f.s
		}
		f.s = f.commitAssign(ctx)
	}

	return f.s
}

// Reject is the staff "no" action in verify or confirm_overwrite; it
// discards the session and returns to the initial scanning stage.
func (f *Flow) Reject() Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.s.Stage {
	case StageVerify, StageConfirmOverwrite:
		f.s = f.s.reset()
	}
	return f.s
}

// Reset discards all session state from any stage, including fatal.
func (f *Flow) Reset() Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.s = f.s.reset()
	return f.s
}

// Acknowledge leaves the results stage and returns to event scanning.
func (f *Flow) Acknowledge() Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.s.Stage == StageResults {
		f.s = f.s.reset()
	}
	return f.s
}

// commitAssign invokes badge assignment for the resolved hacker and scanned
// badge. Any failure here is unrecoverable for this session: the device's
// view of the hacker can no longer be trusted.
func (f *Flow) commitAssign(ctx context.Context) Session {
	if f.s.Hacker == nil || f.s.BadgeCode == "" {
		return f.s.withFatal("No hacker or badge to commit.")
	}

	h, err := f.svc.AssignBadge(ctx, f.s.Hacker.Email, f.s.BadgeCode)
	if err != nil {
		return f.s.withFatal("Error associating badge with the hacker.")
	}

	next := f.s
	next.Hacker = h
	next.Stage = StageSuccess
	next.Err = ""
	return next
}

// applyResolveResult computes the verify-stage view from a resolver result.
// Typed failures still advance to verify so staff sees the failure and can
// reset; only unexpected failures are fatal.
func applyResolveResult(s Session, h *models.Hacker, err error) Session {
	switch {
	case err == nil:
		s.Hacker = h
		s.Warnings = computeWarnings(h)
		s.Err = ""
	case errors.Is(err, models.ErrInvalidToken):
		s.Err = "Scanned QR code is not an email"
	case errors.Is(err, models.ErrNotFound):
		s.Err = "Hacker not found"
	default:
		return s.withFatal("Error fetching hacker information.")
	}
	s.Stage = StageVerify
	return s
}

// applyBadgeScan decides whether a scanned badge token can be committed
// directly or needs the explicit overwrite confirmation. Any ambiguity (an
// invalid token, or a session that already carries warnings or an error)
// routes through confirm_overwrite; auto-commit happens only on a clean scan.
func applyBadgeScan(s Session, token, prefix string) (Session, bool) {
	s.BadgeCode = token

	if !models.ValidBadgeToken(token, prefix) {
		s.Err = "Invalid QR code"
		s.Stage = StageConfirmOverwrite
		return s, false
	}
	if len(s.Warnings) > 0 || s.hardError() {
		s.Stage = StageConfirmOverwrite
		return s, false
	}
	return s, true
}

// applyRecordResult routes a ledger result to the results stage. A conflict
// and the other recoverable failures get distinct messages; unexpected
// failures are fatal only in strict deployments.
func applyRecordResult(s Session, h *models.Hacker, err error, strict bool) Session {
	switch {
	case err == nil:
		s.Hacker = h
		s.Err = ""
	case errors.Is(err, models.ErrAlreadyRecorded):
		s.Err = "Event already recorded for this badge."
	case errors.Is(err, models.ErrInvalidToken):
		s.Err = "Invalid QR code"
	case errors.Is(err, models.ErrNotFound):
		s.Err = "Badge not registered to any hacker."
	case errors.Is(err, models.ErrUnknownEvent):
		s.Err = "Event not found in catalog."
	default:
		if strict {
			return s.withFatal("Error recording attendance.")
		}
		s.Err = "Error recording attendance."
	}
	s.Stage = StageResults
	return s
}
