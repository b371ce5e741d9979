// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/unionhall/bmm-portal/auth"
	"github.com/unionhall/bmm-portal/checkin"
	"github.com/unionhall/bmm-portal/middleware"
	"github.com/unionhall/bmm-portal/models"
)

// ManualCheckin handles POST /admin/checkin/manual
func (h *Handler) ManualCheckin(w http.ResponseWriter, r *http.Request) {
	var req models.ManualCheckinRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.requireAdminKey(w, r, req.EventID) {
		return
	}

	env := h.intake.SubmitManual(req.MembershipNumber, checkin.Context{
		EventID:  req.EventID,
		Location: req.Location,
		Operator: req.Operator,
		IPHash:   auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt),
	})
	middleware.EnvelopeResponse(w, env)
}

// QRCheckin handles POST /admin/events/{id}/checkin/qr
func (h *Handler) QRCheckin(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	if !h.requireAdminKey(w, r, eventID) {
		return
	}

	var req models.QRCheckinRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	env := h.intake.Submit(req.Payload, checkin.Context{
		EventID:  eventID,
		Location: req.Location,
		Operator: req.Operator,
		IPHash:   auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt),
	})
	middleware.EnvelopeResponse(w, env)
}

// ScanCheckin handles POST /venue/checkin/scan/{eventId}
//
// The venue-station path: authenticated by the deterministic scanner token
// for the event/venue pair, with identical payloads suppressed for a short
// window so a keystroke scanner held over one ticket does not hammer the
// pipeline.
func (h *Handler) ScanCheckin(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")

	var req models.QRCheckinRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token := r.Header.Get("X-Scanner-Token")
	if err := auth.ValidateScannerToken(eventID, req.Location, token, h.cfg.ScannerTokenSalt); err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid scanner token")
		return
	}

	key := eventID + "|" + req.Payload
	if h.suppressor.Seen(key) {
		middleware.EnvelopeResponse(w, models.CheckinEnvelope{
			Status:  models.CheckinWarning,
			Message: "Duplicate scan ignored",
		})
		return
	}
	h.suppressor.MarkSeen(key)

	env := h.intake.Submit(req.Payload, checkin.Context{
		EventID:  eventID,
		Location: req.Location,
		Operator: req.Operator,
		IPHash:   auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt),
	})
	middleware.EnvelopeResponse(w, env)
}

// ValidateScanner handles GET /venue/checkin/validate
//
// Stations call this on startup with their configured token; a false answer
// means the station must not accept scans.
func (h *Handler) ValidateScanner(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("event_id")
	venueName := r.URL.Query().Get("venue")
	token := r.Header.Get("X-Scanner-Token")

	if err := auth.ValidateScannerToken(eventID, venueName, token, h.cfg.ScannerTokenSalt); err != nil {
		middleware.JSONResponse(w, http.StatusOK, models.ValidateScannerResponse{Valid: false})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ValidateScannerResponse{
		Valid:   true,
		EventID: eventID,
		Venue:   venueName,
	})
}

// CheckinStats handles GET /admin/events/{id}/checkin/stats
func (h *Handler) CheckinStats(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	if !h.requireAdminKey(w, r, eventID) {
		return
	}

	stats, err := h.intake.Stats(eventID)
	if err != nil {
		slog.Error("failed to load check-in stats", "error", err, "event_id", eventID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}
