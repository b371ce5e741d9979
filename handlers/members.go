// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/unionhall/bmm-portal/auth"
	"github.com/unionhall/bmm-portal/flow"
	"github.com/unionhall/bmm-portal/mail"
	"github.com/unionhall/bmm-portal/middleware"
	"github.com/unionhall/bmm-portal/models"
	"github.com/unionhall/bmm-portal/retry"
)

// ticketFetchPolicy bounds how long the preferences endpoint waits for the
// background ticket generation before answering without a token
var ticketFetchPolicy = retry.Policy{MaxAttempts: 3, Delay: 500 * time.Millisecond}

// GetMember handles GET /bmm/member/{token}
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	member, err := h.memberByToken(token)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		slog.Error("failed to load member", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, member)
}

// SubmitPreferences handles POST /bmm/preferences
//
// An unset attendance intention is rejected before anything is written: a
// preference submission is only meaningful with an explicit yes or no.
func (h *Handler) SubmitPreferences(w http.ResponseWriter, r *http.Request) {
	var req models.PreferencesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MemberToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Member token is required")
		return
	}
	if !flow.ValidTriState(req.IntendToAttend) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Attendance intention (yes or no) is required")
		return
	}

	member, err := h.memberByToken(req.MemberToken)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		slog.Error("failed to load member", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	nextState, err := flow.Next(member.State, flow.EventSubmitPreferences)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusConflict, "Preferences can no longer be changed")
		return
	}
	// Advance past the transient submitted state in the same write. The
	// attendance answers (confirm or decline) must be reachable regardless
	// of whether a ticket is ever generated or fetched.
	if next, err := flow.Next(nextState, flow.EventTicketRequested); err == nil {
		nextState = next
	}

	// Special vote is only recorded where the region offers it
	var specialVote *string
	if flow.SpecialVoteEligible(member.Region) && flow.ValidTriState(req.SpecialVote) {
		specialVote = req.SpecialVote
	}

	prefsPayload := ""
	if len(req.PreferredTimes) > 0 {
		raw, err := json.Marshal(req.PreferredTimes)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid preferred times")
			return
		}
		prefsPayload = string(raw)
	}

	forum := ""
	if member.Forum != nil {
		forum = *member.Forum
	}
	session := h.venues.ResolveSession(forum, prefsPayload)

	email := member.Email
	if req.Email != "" {
		email = &req.Email
	}
	mobile := member.Mobile
	if req.Mobile != "" {
		mobile = &req.Mobile
	}

	var prefsPtr *string
	if prefsPayload != "" {
		prefsPtr = &prefsPayload
	}

	now := time.Now()
	_, err = h.db.Exec(`
		UPDATE member
		SET preferred_times = $1, intend_to_attend = $2, special_vote = $3,
		    email = $4, mobile = $5, session_time = $6, state = $7, updated_at = $8
		WHERE id = $9
	`, prefsPtr, req.IntendToAttend, specialVote, email, mobile, session, nextState, now, member.ID)
	if err != nil {
		slog.Error("failed to save preferences", "error", err, "member_id", member.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	slog.Info("preferences submitted",
		"membership_number", member.MembershipNumber,
		"intend_to_attend", *req.IntendToAttend,
		"session_time", session,
	)

	resp := models.PreferencesResponse{State: nextState, SessionTime: session}

	if *req.IntendToAttend == models.IntentNo {
		resp.Message = "Preferences saved. No ticket issued as you do not intend to attend."
		middleware.JSONResponse(w, http.StatusOK, resp)
		return
	}

	// Ticket generation runs in the background; wait briefly for it so the
	// common case returns a token in one round trip. A miss only affects
	// the message, never the member's state.
	go h.ensureTicket(member.ID, session)

	event, err := h.currentEvent()
	if err == nil {
		var tkt models.Ticket
		err = ticketFetchPolicy.Do(func() error {
			var fetchErr error
			tkt, fetchErr = h.ticketForMember(member.ID, event.ID)
			return fetchErr
		})
		if err == nil {
			resp.TicketToken = tkt.Token
			resp.Message = "Preferences saved. Your ticket is ready."
			middleware.JSONResponse(w, http.StatusOK, resp)
			return
		}
	}

	// The member still gets a complete artifact later; the builder fills
	// placeholders until the ticket row lands
	slog.Warn("ticket not ready after preferences", "member_id", member.ID, "error", err)
	resp.Message = "Preferences saved. Your ticket is being prepared."
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// UpdateFinancialForm handles POST /bmm/update-financial-form
func (h *Handler) UpdateFinancialForm(w http.ResponseWriter, r *http.Request) {
	var req models.FinancialFormRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MemberToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Member token is required")
		return
	}

	member, err := h.memberByToken(req.MemberToken)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		slog.Error("failed to load member", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	name := member.Name
	if req.Name != "" {
		name = req.Name
	}
	email := member.Email
	if req.Email != "" {
		email = &req.Email
	}
	mobile := member.Mobile
	if req.Mobile != "" {
		mobile = &req.Mobile
	}
	employer := member.Employer
	if req.Employer != "" {
		employer = &req.Employer
	}
	payroll := member.PayrollNumber
	if req.PayrollNumber != "" {
		payroll = &req.PayrollNumber
	}

	now := time.Now()
	_, err = h.db.Exec(`
		UPDATE member
		SET name = $1, email = $2, mobile = $3, employer = $4, payroll_number = $5, updated_at = $6
		WHERE id = $7
	`, name, email, mobile, employer, payroll, now, member.ID)
	if err != nil {
		slog.Error("failed to update member details", "error", err, "member_id", member.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update details")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TransitionResponse{
		State:   member.State,
		Message: "Details updated",
	})
}

// ConfirmAttendance handles POST /bmm/confirm-attendance
func (h *Handler) ConfirmAttendance(w http.ResponseWriter, r *http.Request) {
	var req models.ConfirmAttendanceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	member, err := h.memberByToken(req.MemberToken)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		slog.Error("failed to load member", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	nextState, err := flow.Next(member.State, flow.EventConfirmAttendance)
	if errors.Is(err, flow.ErrInvalidTransition) {
		middleware.ErrorResponse(w, http.StatusConflict, "Attendance cannot be confirmed in the current state")
		return
	}

	if err := h.setMemberState(member.ID, nextState); err != nil {
		slog.Error("failed to confirm attendance", "error", err, "member_id", member.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to confirm attendance")
		return
	}

	slog.Info("attendance confirmed", "membership_number", member.MembershipNumber)

	if mail.Deliverable(member.Email) {
		body := fmt.Sprintf("Kia ora %s,\n\nYour attendance at the %s is confirmed. Your ticket is unchanged.\n",
			member.Name, h.cfg.EventName)
		h.sendMail(*member.Email, "Attendance confirmed", body)
	}

	middleware.JSONResponse(w, http.StatusOK, models.TransitionResponse{
		State:   nextState,
		Message: "Attendance confirmed",
	})
}

// NonAttendance handles POST /bmm/non-attendance
//
// Declining and recording the absence happen in one submission: the member
// lands in the terminal state with reason, optional detail and (where the
// region offers it) a special-vote answer. Members citing "other" are never
// asked for a special vote.
func (h *Handler) NonAttendance(w http.ResponseWriter, r *http.Request) {
	var req models.NonAttendanceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !flow.ValidAbsenceReason(req.Reason) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid absence reason")
		return
	}
	if flow.RequiresDetail(req.Reason) && req.Detail == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Please describe your reason")
		return
	}

	member, err := h.memberByToken(req.MemberToken)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		slog.Error("failed to load member", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// The decline and the absence record may arrive as one submission
	// (from awaiting_attendance) or as the second step (from absence_pending)
	state := member.State
	if next, err := flow.Next(state, flow.EventDeclineAttendance); err == nil {
		state = next
	}
	finalState, err := flow.Next(state, flow.EventSubmitAbsence)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusConflict, "Non-attendance cannot be recorded in the current state")
		return
	}

	var specialVote *string
	if flow.SpecialVotePromptRequired(member.Region, req.Reason) {
		if !flow.ValidTriState(req.SpecialVote) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Special vote answer (yes or no) is required")
			return
		}
		specialVote = req.SpecialVote
	}

	var detail *string
	if req.Detail != "" {
		detail = &req.Detail
	}

	now := time.Now()
	_, err = h.db.Exec(`
		UPDATE member
		SET state = $1, absence_reason = $2, absence_detail = $3, special_vote = $4, updated_at = $5
		WHERE id = $6
	`, finalState, req.Reason, detail, specialVote, now, member.ID)
	if err != nil {
		slog.Error("failed to record non-attendance", "error", err, "member_id", member.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record non-attendance")
		return
	}

	slog.Info("non-attendance recorded",
		"membership_number", member.MembershipNumber,
		"reason", req.Reason,
	)

	middleware.JSONResponse(w, http.StatusOK, models.TransitionResponse{
		State:   finalState,
		Message: "Non-attendance recorded",
	})
}

// ensureTicket creates the member's ticket for the current event if one does
// not already exist. Runs in the background after a preference submission.
func (h *Handler) ensureTicket(memberID, session string) {
	member, err := h.memberByID(memberID)
	if err != nil {
		slog.Error("ticket generation: failed to load member", "error", err, "member_id", memberID)
		return
	}

	event, err := h.currentEvent()
	if err != nil {
		slog.Error("ticket generation: no current event", "error", err)
		return
	}

	if _, err := h.createTicket(member, event, session); err != nil {
		slog.Error("ticket generation failed", "error", err, "member_id", memberID)
	}
}

// createTicket inserts a ticket row, resolving venue details from the venue
// config. An existing ticket for the member/event pair is returned as-is:
// the unique constraint makes generation idempotent.
func (h *Handler) createTicket(member models.Member, event models.Event, session string) (models.Ticket, error) {
	if existing, err := h.ticketForMember(member.ID, event.ID); err == nil {
		return existing, nil
	} else if err != sql.ErrNoRows {
		return models.Ticket{}, err
	}

	forum := ""
	if member.Forum != nil {
		forum = *member.Forum
	}

	venueName := forum
	address := ""
	date := ""
	if v, ok := h.venues.Lookup(forum); ok {
		venueName = v.Forum
		address = v.Address
		date = v.Date
	}
	if venueName == "" {
		venueName = event.Venue
	}
	if date == "" {
		date = event.EventDate
	}

	token, err := auth.GenerateMemberToken()
	if err != nil {
		return models.Ticket{}, err
	}

	tkt := models.Ticket{
		Token:       token,
		MemberID:    member.ID,
		EventID:     event.ID,
		VenueName:   venueName,
		Address:     address,
		EventDate:   date,
		SessionTime: session,
		IssuedAt:    time.Now(),
	}

	_, err = h.db.Exec(`
		INSERT INTO ticket (token, member_id, event_id, venue_name, address, event_date, session_time, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, tkt.Token, tkt.MemberID, tkt.EventID, tkt.VenueName, tkt.Address, tkt.EventDate, tkt.SessionTime, tkt.IssuedAt)
	if err != nil {
		// Unique-constraint race with a concurrent generation
		if existing, exErr := h.ticketForMember(member.ID, event.ID); exErr == nil {
			return existing, nil
		}
		return models.Ticket{}, err
	}

	slog.Info("ticket issued", "membership_number", member.MembershipNumber, "venue", tkt.VenueName, "session", tkt.SessionTime)
	return tkt, nil
}

// ticketForMember returns the member's ticket for one event. Tickets from
// earlier meeting rounds never satisfy the lookup.
func (h *Handler) ticketForMember(memberID, eventID string) (models.Ticket, error) {
	var t models.Ticket
	err := h.db.QueryRow(`
		SELECT token, member_id, event_id, venue_name, address, event_date, session_time, issued_at
		FROM ticket WHERE member_id = $1 AND event_id = $2
	`, memberID, eventID).Scan(&t.Token, &t.MemberID, &t.EventID, &t.VenueName, &t.Address, &t.EventDate, &t.SessionTime, &t.IssuedAt)
	return t, err
}
