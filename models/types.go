// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Member lifecycle states
const (
	StatePreferenceForm      = "preference_form"
	StatePreferenceSubmitted = "preference_submitted"
	StateAwaitingAttendance  = "awaiting_attendance"
	StateAttendingConfirmed  = "attending_confirmed"
	StateAbsencePending      = "absence_pending"
	StateTerminal            = "terminal"
)

// Regions
const (
	RegionNorthern = "Northern"
	RegionCentral  = "Central"
	RegionSouthern = "Southern"
)

// Attendance intention / special vote values (nil pointer means unspecified)
const (
	IntentYes = "yes"
	IntentNo  = "no"
)

// Absence reasons
const (
	ReasonSick     = "sick"
	ReasonDistance = "distance"
	ReasonWork     = "work"
	ReasonOther    = "other"
)

// Check-in envelope statuses
const (
	CheckinSuccess = "success"
	CheckinWarning = "warning"
	CheckinError   = "error"
)

// QR payload type discriminator
const TicketQRType = "bmm-ticket"

// Request types

type PreferencesRequest struct {
	MemberToken    string   `json:"member_token"`
	PreferredTimes []string `json:"preferred_times"`
	IntendToAttend *string  `json:"intend_to_attend"`
	SpecialVote    *string  `json:"special_vote"`
	Email          string   `json:"email"`
	Mobile         string   `json:"mobile"`
}

type FinancialFormRequest struct {
	MemberToken   string `json:"member_token"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`
	Employer      string `json:"employer"`
	PayrollNumber string `json:"payroll_number"`
}

type ConfirmAttendanceRequest struct {
	MemberToken string `json:"member_token"`
}

type NonAttendanceRequest struct {
	MemberToken string  `json:"member_token"`
	Reason      string  `json:"reason"`
	Detail      string  `json:"detail"`
	SpecialVote *string `json:"special_vote"`
}

type ManualCheckinRequest struct {
	EventID          string `json:"event_id"`
	MembershipNumber string `json:"membership_number"`
	Location         string `json:"location"`
	Operator         string `json:"operator"`
}

type QRCheckinRequest struct {
	Payload  string `json:"payload"`
	Location string `json:"location"`
	Operator string `json:"operator"`
}

// Response types

type PreferencesResponse struct {
	State       string `json:"state"`
	SessionTime string `json:"session_time"`
	TicketToken string `json:"ticket_token,omitempty"`
	Message     string `json:"message,omitempty"`
}

type TransitionResponse struct {
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

type GenerateTicketResponse struct {
	TicketToken   string `json:"ticket_token,omitempty"`
	AlreadyExists bool   `json:"already_exists"`
	Message       string `json:"message"`
}

type TicketResponse struct {
	Ticket   Ticket         `json:"ticket"`
	Artifact TicketArtifact `json:"artifact"`
}

type ValidateScannerResponse struct {
	Valid   bool   `json:"valid"`
	EventID string `json:"event_id,omitempty"`
	Venue   string `json:"venue,omitempty"`
}

type CheckinStatsResponse struct {
	CheckedIn int               `json:"checked_in"`
	Recent    []CheckinLogEntry `json:"recent"`
}

// CheckinEnvelope is the wire format shared by every check-in submission
// endpoint. Callers must branch on Status; HTTP 200 with a non-success
// status is still a failed check-in.
type CheckinEnvelope struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Data    *CheckinData `json:"data,omitempty"`
}

type CheckinData struct {
	MemberName       string     `json:"member_name"`
	MembershipNumber string     `json:"membership_number"`
	Location         string     `json:"location,omitempty"`
	CheckedInAt      *time.Time `json:"checked_in_at,omitempty"`
	PreviousLocation string     `json:"previous_checkin_location,omitempty"`
	PreviousTime     *time.Time `json:"previous_checkin_time,omitempty"`
	PreviousAgo      string     `json:"previous_checkin_ago,omitempty"`
}

type CheckinLogEntry struct {
	MemberName       string    `json:"member_name"`
	MembershipNumber string    `json:"membership_number"`
	Location         string    `json:"location"`
	Status           string    `json:"status"`
	CheckedInAt      time.Time `json:"checked_in_at"`
	Ago              string    `json:"ago"`
}

// Domain types

type Member struct {
	ID               string     `json:"id"`
	Token            string     `json:"-"` // Never expose in JSON
	MembershipNumber string     `json:"membership_number"`
	Name             string     `json:"name"`
	Email            *string    `json:"email,omitempty"`
	Mobile           *string    `json:"mobile,omitempty"`
	Region           string     `json:"region"`
	Forum            *string    `json:"forum,omitempty"`
	PreferredTimes   *string    `json:"preferred_times,omitempty"`
	IntendToAttend   *string    `json:"intend_to_attend,omitempty"`
	Employer         *string    `json:"employer,omitempty"`
	PayrollNumber    *string    `json:"payroll_number,omitempty"`
	State            string     `json:"state"`
	SessionTime      *string    `json:"session_time,omitempty"`
	AbsenceReason    *string    `json:"absence_reason,omitempty"`
	AbsenceDetail    *string    `json:"absence_detail,omitempty"`
	SpecialVote      *string    `json:"special_vote,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Venue     string    `json:"venue"`
	EventDate string    `json:"event_date"`
	CreatedAt time.Time `json:"created_at"`
}

type Ticket struct {
	Token       string    `json:"token"`
	MemberID    string    `json:"member_id"`
	EventID     string    `json:"event_id"`
	VenueName   string    `json:"venue_name"`
	Address     string    `json:"address"`
	EventDate   string    `json:"event_date"`
	SessionTime string    `json:"session_time"`
	IssuedAt    time.Time `json:"issued_at"`
}

// TicketArtifact is the fully resolved display/print representation of a
// member's venue assignment. Every field is guaranteed non-empty: server
// ticket fields first, then the venue config, then literal placeholders.
type TicketArtifact struct {
	MemberName       string `json:"member_name"`
	MembershipNumber string `json:"membership_number"`
	Region           string `json:"region"`
	EventName        string `json:"event_name"`
	VenueName        string `json:"venue_name"`
	Address          string `json:"address"`
	EventDate        string `json:"event_date"`
	SessionTime      string `json:"session_time"`
	TimeSpan         string `json:"time_span"`
	QRPayload        string `json:"qr_payload"`
	CheckinURL       string `json:"checkin_url"`
	ShareURL         string `json:"share_url"`
}

type CheckinRecord struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	MemberID    string    `json:"member_id"`
	Token       string    `json:"token"`
	Location    string    `json:"location"`
	Operator    string    `json:"operator"`
	IPHash      *string   `json:"-"` // Never expose in JSON
	CheckedInAt time.Time `json:"checked_in_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
