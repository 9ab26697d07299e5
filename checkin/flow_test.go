package checkin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"scanner-backend/models"
)

const prefix = "https://portal.geesehacks.com/user/"

// fakeServices lets each test script the backend responses and observe how
// many commits the flow actually issued.
type fakeServices struct {
	resolve func(token string) (*models.Hacker, error)
	assign  func(email, badgeCode string) (*models.Hacker, error)
	record  func(badgeCode string, eventID int64) (*models.Hacker, error)

	assignCalls int
	recordCalls int
}

func (f *fakeServices) Resolve(_ context.Context, token string) (*models.Hacker, error) {
	return f.resolve(token)
}

func (f *fakeServices) AssignBadge(_ context.Context, email, badgeCode string) (*models.Hacker, error) {
	f.assignCalls++
	return f.assign(email, badgeCode)
}

func (f *fakeServices) RecordAttendance(_ context.Context, badgeCode string, eventID int64) (*models.Hacker, error) {
	f.recordCalls++
	return f.record(badgeCode, eventID)
}

func acceptedHacker() *models.Hacker {
	return &models.Hacker{Email: "a@x.com", FirstName: "Ada", LastName: "L", Accepted: true}
}

func badgedHacker() *models.Hacker {
	badge := prefix + "old"
	h := acceptedHacker()
	h.BadgeCode = &badge
	return h
}

func TestCheckinHappyPath(t *testing.T) {
	// Scenario: accepted hacker with no badge scans straight through.
	badge := prefix + "abc"
	svc := &fakeServices{
		resolve: func(token string) (*models.Hacker, error) {
			require.Equal(t, "a@x.com", token)
			return acceptedHacker(), nil
		},
		assign: func(email, badgeCode string) (*models.Hacker, error) {
			require.Equal(t, "a@x.com", email)
			require.Equal(t, badge, badgeCode)
			h := acceptedHacker()
			h.BadgeCode = &badgeCode
			return h, nil
		},
	}
	f := NewCheckinFlow(svc, prefix)

	s := f.Scan(context.Background(), "a@x.com")
	require.Equal(t, StageVerify, s.Stage)
	require.Empty(t, s.Warnings)
	require.Empty(t, s.Err)

	s = f.Confirm(context.Background())
	require.Equal(t, StageScanningBadge, s.Stage)

	s = f.Scan(context.Background(), badge)
	require.Equal(t, StageSuccess, s.Stage)
	require.Equal(t, 1, svc.assignCalls)
	require.NotNil(t, s.Hacker.BadgeCode)
	require.Equal(t, badge, *s.Hacker.BadgeCode)
}

func TestCheckinAlreadyBadgedEntersConfirmOverwrite(t *testing.T) {
	// A hacker with a badge set must route through confirm_overwrite before
	// any mutation; the assignment call only happens after the explicit
	// confirm.
	svc := &fakeServices{
		resolve: func(string) (*models.Hacker, error) { return badgedHacker(), nil },
		assign: func(email, badgeCode string) (*models.Hacker, error) {
			h := badgedHacker()
			h.BadgeCode = &badgeCode
			return h, nil
		},
	}
	f := NewCheckinFlow(svc, prefix)

	s := f.Scan(context.Background(), "a@x.com")
	require.Equal(t, StageVerify, s.Stage)
	require.Contains(t, s.Warnings, WarningAlreadyBadged)

	s = f.Confirm(context.Background())
	require.Equal(t, StageScanningBadge, s.Stage)

	s = f.Scan(context.Background(), prefix+"new")
	require.Equal(t, StageConfirmOverwrite, s.Stage)
	require.Zero(t, svc.assignCalls, "no mutation before explicit confirm")

	s = f.Confirm(context.Background())
	require.Equal(t, StageSuccess, s.Stage)
	require.Equal(t, 1, svc.assignCalls)
	require.Equal(t, prefix+"new", *s.Hacker.BadgeCode)
}

func TestCheckinNotAcceptedWarning(t *testing.T) {
	h := acceptedHacker()
	h.Accepted = false
	svc := &fakeServices{
		resolve: func(string) (*models.Hacker, error) { return h, nil },
		assign: func(email, badgeCode string) (*models.Hacker, error) {
			h.BadgeCode = &badgeCode
			return h, nil
		},
	}
	f := NewCheckinFlow(svc, prefix)

	s := f.Scan(context.Background(), "a@x.com")
	require.Contains(t, s.Warnings, WarningNotAccepted)

	// Warnings do not block confirming, but they do force the overwrite
	// confirmation on the badge scan.
	s = f.Confirm(context.Background())
	require.Equal(t, StageScanningBadge, s.Stage)
	s = f.Scan(context.Background(), prefix+"abc")
	require.Equal(t, StageConfirmOverwrite, s.Stage)
	require.Zero(t, svc.assignCalls)
}

func TestCheckinInvalidBadgeBlocksConfirm(t *testing.T) {
	svc := &fakeServices{
		resolve: func(string) (*models.Hacker, error) { return acceptedHacker(), nil },
		assign: func(string, string) (*models.Hacker, error) {
			t.Fatal("assign must not be called for an invalid badge")
			return nil, nil
		},
	}
	f := NewCheckinFlow(svc, prefix)

	f.Scan(context.Background(), "a@x.com")
	f.Confirm(context.Background())

	s := f.Scan(context.Background(), "not-a-badge")
	require.Equal(t, StageConfirmOverwrite, s.Stage)
	require.NotEmpty(t, s.Err)

	// Confirm is disabled while a hard validation error is present.
	s = f.Confirm(context.Background())
	require.Equal(t, StageConfirmOverwrite, s.Stage)
	require.Zero(t, svc.assignCalls)

	s = f.Reject()
	require.Equal(t, StageScanningIdentity, s.Stage)
	require.Empty(t, s.Err)
}

func TestResolveFailuresStillReachVerify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr string
	}{
		{"not found", models.ErrNotFound, "Hacker not found"},
		{"invalid token", models.ErrInvalidToken, "Scanned QR code is not an email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeServices{
				resolve: func(string) (*models.Hacker, error) { return nil, tt.err },
			}
			f := NewCheckinFlow(svc, prefix)

			s := f.Scan(context.Background(), "whatever@x.com")
			require.Equal(t, StageVerify, s.Stage)
			require.Equal(t, tt.wantErr, s.Err)
			require.Nil(t, s.Hacker)

			// Hard error: confirm is a no-op, staff must reject or reset.
			s = f.Confirm(context.Background())
			require.Equal(t, StageVerify, s.Stage)

			s = f.Reject()
			require.Equal(t, StageScanningIdentity, s.Stage)
		})
	}
}

func TestUnexpectedResolveFailureIsFatal(t *testing.T) {
	svc := &fakeServices{
		resolve: func(string) (*models.Hacker, error) { return nil, errors.New("connection refused") },
	}
	f := NewCheckinFlow(svc, prefix)

	s := f.Scan(context.Background(), "a@x.com")
	require.Equal(t, StageFatal, s.Stage)
	require.NotEmpty(t, s.Fatal)

	// Fatal blocks everything except reset.
	s = f.Scan(context.Background(), "a@x.com")
	require.Equal(t, StageFatal, s.Stage)
	s = f.Confirm(context.Background())
	require.Equal(t, StageFatal, s.Stage)

	s = f.Reset()
	require.Equal(t, StageScanningIdentity, s.Stage)
	require.Empty(t, s.Fatal)
}

func TestAssignFailureIsFatal(t *testing.T) {
	svc := &fakeServices{
		resolve: func(string) (*models.Hacker, error) { return acceptedHacker(), nil },
		assign:  func(string, string) (*models.Hacker, error) { return nil, errors.New("boom") },
	}
	f := NewCheckinFlow(svc, prefix)

	f.Scan(context.Background(), "a@x.com")
	f.Confirm(context.Background())
	s := f.Scan(context.Background(), prefix+"abc")
	require.Equal(t, StageFatal, s.Stage)
}

func TestRejectAtVerifyResets(t *testing.T) {
	svc := &fakeServices{
		resolve: func(string) (*models.Hacker, error) { return badgedHacker(), nil },
	}
	f := NewCheckinFlow(svc, prefix)

	f.Scan(context.Background(), "a@x.com")
	s := f.Reject()
	require.Equal(t, StageScanningIdentity, s.Stage)
	require.Nil(t, s.Hacker)
	require.Empty(t, s.Warnings)
}

func TestEmptyAndMisplacedScansAreIgnored(t *testing.T) {
	svc := &fakeServices{
		resolve: func(string) (*models.Hacker, error) { return acceptedHacker(), nil },
	}
	f := NewCheckinFlow(svc, prefix)

	s := f.Scan(context.Background(), "")
	require.Equal(t, StageScanningIdentity, s.Stage)

	f.Scan(context.Background(), "a@x.com")
	// A scan arriving in verify must not start another resolve.
	s = f.Scan(context.Background(), "b@x.com")
	require.Equal(t, StageVerify, s.Stage)
	require.Equal(t, "a@x.com", s.Hacker.Email)
}

func TestEventScanInvalidTokenNoLedgerCall(t *testing.T) {
	svc := &fakeServices{
		record: func(string, int64) (*models.Hacker, error) {
			t.Fatal("ledger must not be called for an invalid token")
			return nil, nil
		},
	}
	f := NewEventFlow(svc, prefix, 1, false)

	s := f.Scan(context.Background(), "foo")
	require.Equal(t, StageResults, s.Stage)
	require.Equal(t, "Invalid QR code", s.Err)
	require.Zero(t, svc.recordCalls)

	s = f.Acknowledge()
	require.Equal(t, StageScanningEvent, s.Stage)
	require.Empty(t, s.Err)
}

func TestEventScanConflictAndSuccessMessages(t *testing.T) {
	attempt := 0
	svc := &fakeServices{
		record: func(badge string, eventID int64) (*models.Hacker, error) {
			require.Equal(t, int64(5), eventID)
			attempt++
			if attempt == 1 {
				h := badgedHacker()
				h.AttendedEventIDs = []int64{5}
				h.NetWorth = 5
				return h, nil
			}
			return nil, models.ErrAlreadyRecorded
		},
	}
	f := NewEventFlow(svc, prefix, 5, false)

	s := f.Scan(context.Background(), prefix+"abc")
	require.Equal(t, StageResults, s.Stage)
	require.Empty(t, s.Err)
	require.Equal(t, float64(5), s.Hacker.NetWorth)

	f.Acknowledge()
	s = f.Scan(context.Background(), prefix+"abc")
	require.Equal(t, StageResults, s.Stage)
	require.Equal(t, "Event already recorded for this badge.", s.Err)
	require.Equal(t, 2, svc.recordCalls)
}

func TestEventScanUnexpectedFailurePolicy(t *testing.T) {
	svc := func() *fakeServices {
		return &fakeServices{
			record: func(string, int64) (*models.Hacker, error) { return nil, errors.New("boom") },
		}
	}

	// Default: routed to results, staff acknowledges and keeps scanning.
	f := NewEventFlow(svc(), prefix, 1, false)
	s := f.Scan(context.Background(), prefix+"abc")
	require.Equal(t, StageResults, s.Stage)
	require.Equal(t, "Error recording attendance.", s.Err)

	// Strict deployments halt until reset.
	f = NewEventFlow(svc(), prefix, 1, true)
	s = f.Scan(context.Background(), prefix+"abc")
	require.Equal(t, StageFatal, s.Stage)

	s = f.Reset()
	require.Equal(t, StageScanningEvent, s.Stage)
	require.Equal(t, int64(1), s.EventID, "reset keeps the selected event")
}

func TestEventScanUnknownBadgeAndEvent(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr string
	}{
		{"unknown badge", models.ErrNotFound, "Badge not registered to any hacker."},
		{"unknown event", models.ErrUnknownEvent, "Event not found in catalog."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeServices{
				record: func(string, int64) (*models.Hacker, error) { return nil, tt.err },
			}
			f := NewEventFlow(svc, prefix, 1, true)

			s := f.Scan(context.Background(), prefix+"abc")
			require.Equal(t, StageResults, s.Stage, "recoverable failures never go fatal, even in strict mode")
			require.Equal(t, tt.wantErr, s.Err)
		})
	}
}
