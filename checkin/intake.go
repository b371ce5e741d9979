// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package checkin

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/unionhall/bmm-portal/models"
	"github.com/unionhall/bmm-portal/scan"
)

// recentLogLimit caps the in-memory recent check-in log
const recentLogLimit = 50

// Context carries the active event, venue label and acting operator for one
// submission.
type Context struct {
	EventID  string
	Location string
	Operator string
	IPHash   string
}

// Intake turns decoded scans into authoritative check-in rows and
// classifies each submission as success, warning (already checked in) or
// error. One Intake serves one scanning station context; the busy flag
// keeps keystroke-scanner bursts from stacking concurrent submissions.
type Intake struct {
	db   *sql.DB
	busy atomic.Bool

	mu     sync.Mutex
	recent []models.CheckinLogEntry
}

// NewIntake creates an intake pipeline over the check-in store
func NewIntake(db *sql.DB) *Intake {
	return &Intake{db: db}
}

// Submit resolves a decoded scan to a member and records the check-in.
// The decoded text may be a ticket QR JSON payload or a bare token.
func (i *Intake) Submit(decoded string, ctx Context) models.CheckinEnvelope {
	if !i.busy.CompareAndSwap(false, true) {
		return errorEnvelope("Still processing, please wait")
	}
	defer i.busy.Store(false)

	if ctx.EventID == "" {
		return errorEnvelope("No event selected")
	}

	token := scan.ExtractToken(decoded)
	if token == "" {
		return errorEnvelope("Empty scan")
	}

	member, err := i.memberByToken(token)
	if err == sql.ErrNoRows {
		return errorEnvelope("Ticket not recognised")
	}
	if err != nil {
		slog.Error("failed to resolve scan token", "error", err)
		return errorEnvelope("Database error")
	}

	return i.record(member, token, ctx)
}

// SubmitManual records a check-in by membership number (admin desk path,
// no scanner involved).
func (i *Intake) SubmitManual(membershipNumber string, ctx Context) models.CheckinEnvelope {
	if ctx.EventID == "" {
		return errorEnvelope("No event selected")
	}
	if membershipNumber == "" {
		return errorEnvelope("Membership number is required")
	}

	member, err := i.memberByMembershipNumber(membershipNumber)
	if err == sql.ErrNoRows {
		return errorEnvelope("Member not found")
	}
	if err != nil {
		slog.Error("failed to look up member", "error", err)
		return errorEnvelope("Database error")
	}

	return i.record(member, membershipNumber, ctx)
}

// Stats returns the event's authoritative checked-in count plus the
// station's recent log with freshly humanized ages.
func (i *Intake) Stats(eventID string) (models.CheckinStatsResponse, error) {
	var count int
	err := i.db.QueryRow(`SELECT COUNT(*) FROM checkin WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return models.CheckinStatsResponse{}, fmt.Errorf("failed to count check-ins: %w", err)
	}

	i.mu.Lock()
	recent := make([]models.CheckinLogEntry, len(i.recent))
	copy(recent, i.recent)
	i.mu.Unlock()

	for idx := range recent {
		recent[idx].Ago = humanize.Time(recent[idx].CheckedInAt)
	}

	return models.CheckinStatsResponse{CheckedIn: count, Recent: recent}, nil
}

func (i *Intake) record(m models.Member, token string, ctx Context) models.CheckinEnvelope {
	// The unique constraint is the authority, but checking first gives the
	// prior location/time for the warning without a second round trip in
	// the common duplicate case
	if env, dup := i.existing(m, ctx); dup {
		return env
	}

	id := uuid.NewString()
	now := time.Now()

	var ipHash *string
	if ctx.IPHash != "" {
		ipHash = &ctx.IPHash
	}

	_, err := i.db.Exec(`
		INSERT INTO checkin (id, event_id, member_id, token, location, operator, ip_hash, checked_in_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, ctx.EventID, m.ID, token, ctx.Location, ctx.Operator, ipHash, now)

	if err != nil {
		// Most likely a race with another station on the unique constraint
		if env, dup := i.existing(m, ctx); dup {
			return env
		}
		slog.Error("failed to insert check-in", "error", err, "member_id", m.ID)
		return errorEnvelope("Failed to record check-in")
	}

	slog.Info("member checked in",
		"membership_number", m.MembershipNumber,
		"event_id", ctx.EventID,
		"location", ctx.Location,
		"operator", ctx.Operator,
	)

	i.appendLog(models.CheckinLogEntry{
		MemberName:       m.Name,
		MembershipNumber: m.MembershipNumber,
		Location:         ctx.Location,
		Status:           models.CheckinSuccess,
		CheckedInAt:      now,
	})

	checkedInAt := now
	return models.CheckinEnvelope{
		Status:  models.CheckinSuccess,
		Message: fmt.Sprintf("%s checked in at %s", m.Name, ctx.Location),
		Data: &models.CheckinData{
			MemberName:       m.Name,
			MembershipNumber: m.MembershipNumber,
			Location:         ctx.Location,
			CheckedInAt:      &checkedInAt,
		},
	}
}

// existing returns the warning envelope when the member already has a
// check-in row for the event
func (i *Intake) existing(m models.Member, ctx Context) (models.CheckinEnvelope, bool) {
	var prevLocation string
	var prevTime time.Time
	err := i.db.QueryRow(`
		SELECT location, checked_in_at FROM checkin
		WHERE event_id = $1 AND member_id = $2
	`, ctx.EventID, m.ID).Scan(&prevLocation, &prevTime)

	if err == sql.ErrNoRows {
		return models.CheckinEnvelope{}, false
	}
	if err != nil {
		slog.Error("failed to query prior check-in", "error", err, "member_id", m.ID)
		return errorEnvelope("Database error"), true
	}

	i.appendLog(models.CheckinLogEntry{
		MemberName:       m.Name,
		MembershipNumber: m.MembershipNumber,
		Location:         prevLocation,
		Status:           models.CheckinWarning,
		CheckedInAt:      prevTime,
	})

	return models.CheckinEnvelope{
		Status:  models.CheckinWarning,
		Message: fmt.Sprintf("Already checked in at %s %s", prevLocation, humanize.Time(prevTime)),
		Data: &models.CheckinData{
			MemberName:       m.Name,
			MembershipNumber: m.MembershipNumber,
			PreviousLocation: prevLocation,
			PreviousTime:     &prevTime,
			PreviousAgo:      humanize.Time(prevTime),
		},
	}, true
}

func (i *Intake) memberByToken(token string) (models.Member, error) {
	var m models.Member

	// Member self-service tokens first, then ticket tokens
	err := i.db.QueryRow(`
		SELECT id, membership_number, name FROM member WHERE token = $1
	`, token).Scan(&m.ID, &m.MembershipNumber, &m.Name)
	if err == nil {
		return m, nil
	}
	if err != sql.ErrNoRows {
		return m, err
	}

	err = i.db.QueryRow(`
		SELECT m.id, m.membership_number, m.name
		FROM member m
		JOIN ticket t ON t.member_id = m.id
		WHERE t.token = $1
	`, token).Scan(&m.ID, &m.MembershipNumber, &m.Name)
	return m, err
}

func (i *Intake) memberByMembershipNumber(membershipNumber string) (models.Member, error) {
	var m models.Member
	err := i.db.QueryRow(`
		SELECT id, membership_number, name FROM member WHERE membership_number = $1
	`, membershipNumber).Scan(&m.ID, &m.MembershipNumber, &m.Name)
	return m, err
}

func (i *Intake) appendLog(entry models.CheckinLogEntry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.recent = append([]models.CheckinLogEntry{entry}, i.recent...)
	if len(i.recent) > recentLogLimit {
		i.recent = i.recent[:recentLogLimit]
	}
}

func errorEnvelope(message string) models.CheckinEnvelope {
	return models.CheckinEnvelope{Status: models.CheckinError, Message: message}
}
