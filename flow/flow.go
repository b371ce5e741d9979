// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import (
	"errors"
	"fmt"

	"github.com/unionhall/bmm-portal/models"
)

// Event is a member-flow transition trigger
type Event string

const (
	EventSubmitPreferences Event = "submit_preferences"
	EventTicketRequested   Event = "ticket_requested"
	EventConfirmAttendance Event = "confirm_attendance"
	EventDeclineAttendance Event = "decline_attendance"
	EventSubmitAbsence     Event = "submit_absence"
)

var ErrInvalidTransition = errors.New("invalid transition")

// transitions is the complete member-flow state machine. Preferences may be
// resubmitted (idempotent overwrite) until attendance is decided; nothing
// leaves the terminal state.
var transitions = map[string]map[Event]string{
	models.StatePreferenceForm: {
		EventSubmitPreferences: models.StatePreferenceSubmitted,
	},
	models.StatePreferenceSubmitted: {
		EventSubmitPreferences: models.StatePreferenceSubmitted,
		EventTicketRequested:   models.StateAwaitingAttendance,
	},
	models.StateAwaitingAttendance: {
		EventSubmitPreferences: models.StatePreferenceSubmitted,
		EventConfirmAttendance: models.StateAttendingConfirmed,
		EventDeclineAttendance: models.StateAbsencePending,
	},
	models.StateAbsencePending: {
		EventSubmitAbsence: models.StateTerminal,
	},
	models.StateAttendingConfirmed: {},
	models.StateTerminal:           {},
}

// Next returns the state reached by applying event in state. The error
// names both sides so handler logs read cleanly.
func Next(state string, event Event) (string, error) {
	byEvent, ok := transitions[state]
	if !ok {
		return "", fmt.Errorf("%w: unknown state %q", ErrInvalidTransition, state)
	}
	next, ok := byEvent[event]
	if !ok {
		return "", fmt.Errorf("%w: %s not allowed in state %q", ErrInvalidTransition, event, state)
	}
	return next, nil
}

// Can reports whether event is allowed in state
func Can(state string, event Event) bool {
	_, err := Next(state, event)
	return err == nil
}

// specialVoteRegions are the only regions where the alternative voting
// process is offered
var specialVoteRegions = map[string]bool{
	models.RegionCentral:  true,
	models.RegionSouthern: true,
}

// SpecialVoteEligible reports whether a member's region offers special vote
func SpecialVoteEligible(region string) bool {
	return specialVoteRegions[region]
}

// ValidAbsenceReason reports whether reason is one of the fixed enumeration
func ValidAbsenceReason(reason string) bool {
	switch reason {
	case models.ReasonSick, models.ReasonDistance, models.ReasonWork, models.ReasonOther:
		return true
	}
	return false
}

// RequiresDetail reports whether an absence reason needs free-text
// elaboration ("other" does)
func RequiresDetail(reason string) bool {
	return reason == models.ReasonOther
}

// SpecialVotePromptRequired reports whether the non-attendance submission
// must carry a special-vote answer. Members citing "other" are not offered
// the prompt in this flow.
func SpecialVotePromptRequired(region, reason string) bool {
	return SpecialVoteEligible(region) && reason != models.ReasonOther
}

// ValidTriState reports whether a tri-state answer pointer carries yes/no.
// A nil pointer is the "unspecified" third state.
func ValidTriState(v *string) bool {
	return v != nil && (*v == models.IntentYes || *v == models.IntentNo)
}
