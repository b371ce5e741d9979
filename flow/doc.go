// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package flow defines the member registration state machine and its guards.

# States

	preference_form → preference_submitted → awaiting_attendance
	                                       → attending_confirmed (final)
	                                       → absence_pending → terminal

Preferences may be resubmitted (idempotent overwrite) any time before the
attendance decision. Nothing leaves attending_confirmed or terminal.

# Usage

Handlers validate a transition before touching the database and persist
the returned state in the same statement as the payload, so a failed call
can never leave a member half-transitioned:

	next, err := flow.Next(member.State, flow.EventConfirmAttendance)
	if err != nil { // 409, state unchanged
	}

# Guards

  - ValidTriState: attendance intention / special vote answers (yes, no,
    or nil for unspecified)
  - ValidAbsenceReason, RequiresDetail: the fixed absence reason
    enumeration; "other" demands elaboration text
  - SpecialVoteEligible, SpecialVotePromptRequired: special vote exists in
    two regions only and is not offered alongside reason "other"
*/
package flow
