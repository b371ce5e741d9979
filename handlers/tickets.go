// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/unionhall/bmm-portal/mail"
	"github.com/unionhall/bmm-portal/middleware"
	"github.com/unionhall/bmm-portal/models"
)

// GenerateAndSendTicket handles POST /admin/ticket-emails/member/{id}/generate-and-send
//
// Idempotent: a member who already holds a ticket for the current event gets
// that ticket re-sent, reported as already_exists rather than an error.
func (h *Handler) GenerateAndSendTicket(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")

	event, err := h.currentEvent()
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No current event")
		return
	}
	if err != nil {
		slog.Error("failed to load current event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !h.requireAdminKey(w, r, event.ID) {
		return
	}

	member, err := h.memberByID(memberID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		slog.Error("failed to load member", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	existing, err := h.ticketForMember(member.ID, event.ID)
	alreadyExists := err == nil
	if err != nil && err != sql.ErrNoRows {
		slog.Error("failed to look up ticket", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	tkt := existing
	if !alreadyExists {
		forum := ""
		if member.Forum != nil {
			forum = *member.Forum
		}
		prefs := ""
		if member.PreferredTimes != nil {
			prefs = *member.PreferredTimes
		}
		session := h.venues.ResolveSession(forum, prefs)
		if member.SessionTime != nil && *member.SessionTime != "" {
			session = *member.SessionTime
		}

		tkt, err = h.createTicket(member, event, session)
		if err != nil {
			slog.Error("failed to create ticket", "error", err, "member_id", member.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create ticket")
			return
		}
	}

	art := h.tickets.Build(member, &tkt)

	message := "Ticket generated and sent"
	if alreadyExists {
		message = "Existing ticket re-sent"
	}

	if mail.Deliverable(member.Email) {
		body := fmt.Sprintf(
			"Kia ora %s,\n\nYour meeting ticket is ready.\n\nVenue: %s\nAddress: %s\nDate: %s\nSession: %s (%s)\n\nView your ticket: %s\n",
			member.Name, art.VenueName, art.Address, art.EventDate, art.SessionTime, art.TimeSpan, art.ShareURL)
		h.sendMail(*member.Email, "Your "+h.cfg.EventName+" ticket", body)
	} else {
		slog.Info("ticket email skipped, no deliverable address", "membership_number", member.MembershipNumber)
		message += " (no deliverable email address)"
	}

	middleware.JSONResponse(w, http.StatusOK, models.GenerateTicketResponse{
		TicketToken:   tkt.Token,
		AlreadyExists: alreadyExists,
		Message:       message,
	})
}

// GetTicket handles GET /admin/ticket-emails/bmm-ticket/{token}
//
// The ticket token is the only credential: this is the member-facing ticket
// view behind emailed links.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	member, tkt, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TicketResponse{
		Ticket:   tkt,
		Artifact: h.tickets.Build(member, &tkt),
	})
}

// GetTicketQR handles GET /admin/ticket-emails/bmm-ticket/{token}/qr.png
func (h *Handler) GetTicketQR(w http.ResponseWriter, r *http.Request) {
	member, tkt, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		size, _ = strconv.Atoi(s)
	}

	art := h.tickets.Build(member, &tkt)
	png, err := h.tickets.PNG(art, size)
	if err != nil {
		slog.Error("failed to render ticket QR", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(png)
}

// GetTicketCalendar handles GET /admin/ticket-emails/bmm-ticket/{token}/calendar.ics
func (h *Handler) GetTicketCalendar(w http.ResponseWriter, r *http.Request) {
	member, tkt, ok := h.loadTicket(w, r)
	if !ok {
		return
	}

	art := h.tickets.Build(member, &tkt)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bmm-ticket.ics"`)
	fmt.Fprint(w, h.tickets.Calendar(art))
}

// loadTicket resolves the {token} path value to a ticket and its member.
// Writes the error response itself; callers return on !ok.
func (h *Handler) loadTicket(w http.ResponseWriter, r *http.Request) (models.Member, models.Ticket, bool) {
	token := r.PathValue("token")

	var t models.Ticket
	err := h.db.QueryRow(`
		SELECT token, member_id, event_id, venue_name, address, event_date, session_time, issued_at
		FROM ticket WHERE token = $1
	`, token).Scan(&t.Token, &t.MemberID, &t.EventID, &t.VenueName, &t.Address, &t.EventDate, &t.SessionTime, &t.IssuedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ticket not found")
		return models.Member{}, models.Ticket{}, false
	}
	if err != nil {
		slog.Error("failed to load ticket", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Member{}, models.Ticket{}, false
	}

	member, err := h.memberByID(t.MemberID)
	if err != nil {
		slog.Error("failed to load ticket member", "error", err, "member_id", t.MemberID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Member{}, models.Ticket{}, false
	}

	return member, t, true
}
