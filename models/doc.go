// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - PreferencesRequest: member_token, preferred_times, intend_to_attend, special_vote
  - FinancialFormRequest: contact and workplace details
  - ConfirmAttendanceRequest / NonAttendanceRequest: attendance transitions
  - ManualCheckinRequest / QRCheckinRequest: check-in submissions

# Response Types

Types for JSON responses:

  - PreferencesResponse: state, session_time, ticket_token
  - TransitionResponse: state, message
  - GenerateTicketResponse: ticket_token, already_exists
  - TicketResponse: ticket, artifact
  - CheckinEnvelope: status, message, data (shared by all check-in endpoints)
  - CheckinStatsResponse: checked_in counter plus recent log
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Member: union member flowing through the meeting lifecycle
  - Event: a BMM event at a venue
  - Ticket: server-issued venue assignment record
  - TicketArtifact: fully resolved display representation with QR payload
  - CheckinRecord: one authoritative check-in row

# Constants

Member lifecycle states:

	preference_form → preference_submitted → awaiting_attendance
	→ attending_confirmed | absence_pending → terminal

Check-in statuses:

	CheckinSuccess = "success"
	CheckinWarning = "warning"
	CheckinError   = "error"

Absence reasons: sick, distance, work, other.
Regions: Northern, Central, Southern.
*/
package models
