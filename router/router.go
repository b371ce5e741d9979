// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/unionhall/bmm-portal/cliparse"
	"github.com/unionhall/bmm-portal/handlers"
	"github.com/unionhall/bmm-portal/middleware"
	"github.com/unionhall/bmm-portal/venue"
)

// New creates the HTTP handler tree: member self-service under /bmm,
// organiser tools under /admin, scanning stations under /venue.
func New(db *sql.DB, cfg cliparse.Config, venues *venue.Config) (http.Handler, *handlers.Handler) {
	h := handlers.New(db, cfg, venues)
	mux := http.NewServeMux()

	// Member self-service
	mux.HandleFunc("GET /bmm/member/{token}", middleware.WithLogging(h.GetMember))
	mux.HandleFunc("POST /bmm/preferences", middleware.WithLogging(h.SubmitPreferences))
	mux.HandleFunc("POST /bmm/update-financial-form", middleware.WithLogging(h.UpdateFinancialForm))
	mux.HandleFunc("POST /bmm/confirm-attendance", middleware.WithLogging(h.ConfirmAttendance))
	mux.HandleFunc("POST /bmm/non-attendance", middleware.WithLogging(h.NonAttendance))

	// Organiser tools
	mux.HandleFunc("POST /admin/ticket-emails/member/{id}/generate-and-send", middleware.WithLogging(h.GenerateAndSendTicket))
	mux.HandleFunc("GET /admin/ticket-emails/bmm-ticket/{token}", middleware.WithLogging(h.GetTicket))
	mux.HandleFunc("GET /admin/ticket-emails/bmm-ticket/{token}/qr.png", middleware.WithLogging(h.GetTicketQR))
	mux.HandleFunc("GET /admin/ticket-emails/bmm-ticket/{token}/calendar.ics", middleware.WithLogging(h.GetTicketCalendar))
	mux.HandleFunc("POST /admin/checkin/manual", middleware.WithLogging(h.ManualCheckin))
	mux.HandleFunc("POST /admin/events/{id}/checkin/qr", middleware.WithLogging(h.QRCheckin))
	mux.HandleFunc("GET /admin/events/{id}/checkin/stats", middleware.WithLogging(h.CheckinStats))

	// Scanning stations
	mux.HandleFunc("POST /venue/checkin/scan/{eventId}", middleware.WithLogging(h.ScanCheckin))
	mux.HandleFunc("GET /venue/checkin/validate", middleware.WithLogging(h.ValidateScanner))

	// Service endpoints
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]string{
			"service": "bmm-portal",
			"event":   cfg.EventName,
		})
	})

	return middleware.CORS(mux), h
}
