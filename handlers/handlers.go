// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/unionhall/bmm-portal/auth"
	"github.com/unionhall/bmm-portal/checkin"
	"github.com/unionhall/bmm-portal/cliparse"
	"github.com/unionhall/bmm-portal/mail"
	"github.com/unionhall/bmm-portal/middleware"
	"github.com/unionhall/bmm-portal/models"
	"github.com/unionhall/bmm-portal/scan"
	"github.com/unionhall/bmm-portal/ticket"
	"github.com/unionhall/bmm-portal/venue"
)

// Handler holds shared dependencies for all HTTP handlers
type Handler struct {
	db         *sql.DB
	cfg        cliparse.Config
	venues     *venue.Config
	tickets    *ticket.Builder
	intake     *checkin.Intake
	suppressor *scan.Suppressor
	mailer     mail.Mailer
}

// New creates a handler with the given dependencies. The mailer defaults to
// the logging mailer; deployments swap in a real provider with SetMailer.
func New(db *sql.DB, cfg cliparse.Config, venues *venue.Config) *Handler {
	return &Handler{
		db:         db,
		cfg:        cfg,
		venues:     venues,
		tickets:    ticket.NewBuilder(venues, cfg.EventName, cfg.BaseURL, cfg.AdminKeySalt),
		intake:     checkin.NewIntake(db),
		suppressor: scan.NewSuppressor(scan.DefaultSuppressWindow),
		mailer:     mail.LogMailer{},
	}
}

// SetMailer replaces the outbound mail provider
func (h *Handler) SetMailer(m mail.Mailer) {
	h.mailer = m
}

// Close releases handler-held resources (the duplicate-scan suppressor)
func (h *Handler) Close() {
	h.suppressor.Close()
}

// requireAdminKey validates the X-Admin-Key header against an event.
// Writes the error response itself; callers return on false.
func (h *Handler) requireAdminKey(w http.ResponseWriter, r *http.Request, eventID string) bool {
	adminKey := r.Header.Get("X-Admin-Key")
	if adminKey == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Admin key required")
		return false
	}
	if err := auth.ValidateAdminKey(eventID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid admin key")
		return false
	}
	return true
}

const memberColumns = `id, token, membership_number, name, email, mobile, region, forum,
	preferred_times, intend_to_attend, employer, payroll_number, state,
	session_time, absence_reason, absence_detail, special_vote, created_at, updated_at`

func scanMember(row *sql.Row) (models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.ID, &m.Token, &m.MembershipNumber, &m.Name, &m.Email, &m.Mobile,
		&m.Region, &m.Forum, &m.PreferredTimes, &m.IntendToAttend,
		&m.Employer, &m.PayrollNumber, &m.State, &m.SessionTime,
		&m.AbsenceReason, &m.AbsenceDetail, &m.SpecialVote,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (h *Handler) memberByToken(token string) (models.Member, error) {
	return scanMember(h.db.QueryRow(
		`SELECT `+memberColumns+` FROM member WHERE token = $1`, token))
}

func (h *Handler) memberByID(id string) (models.Member, error) {
	return scanMember(h.db.QueryRow(
		`SELECT `+memberColumns+` FROM member WHERE id = $1`, id))
}

// currentEvent returns the active meeting-round event. One round is live at
// a time; the newest event row is authoritative.
func (h *Handler) currentEvent() (models.Event, error) {
	var e models.Event
	err := h.db.QueryRow(`
		SELECT id, name, venue, event_date, created_at
		FROM event ORDER BY created_at DESC LIMIT 1
	`).Scan(&e.ID, &e.Name, &e.Venue, &e.EventDate, &e.CreatedAt)
	return e, err
}

func (h *Handler) setMemberState(memberID, state string) error {
	now := time.Now()
	_, err := h.db.Exec(
		`UPDATE member SET state = $1, updated_at = $2 WHERE id = $3`,
		state, now, memberID)
	return err
}

// sendMail delivers a message in the background. Best-effort: failure is
// logged, never surfaced to the member.
func (h *Handler) sendMail(to, subject, body string) {
	go func() {
		if err := h.mailer.Send(to, subject, body); err != nil {
			slog.Error("failed to send email", "to", to, "subject", subject, "error", err)
		}
	}()
}
