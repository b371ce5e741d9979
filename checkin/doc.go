// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package checkin implements the check-in intake pipeline.

# Pipeline

Submit takes whatever a scanner decoded (ticket QR JSON or a bare token)
and produces exactly one of three envelope outcomes:

  - success: first check-in; carries member name, number, location, time
  - warning: already checked in; carries the prior location and time
  - error: no event selected, unknown token, busy, or storage failure

The checkin table's UNIQUE(event_id, member_id) constraint is the
duplicate authority: resubmitting a token any time after the client-side
suppression window is safe and yields the warning outcome, never a second
row.

# Concurrency

A compare-and-swap busy flag rejects a submission while another is in
flight ("Still processing, please wait"). That serializes one station's
keystroke bursts; races between independent stations fall through to the
unique constraint and are reported as warnings.

# Stats

Stats returns the event's authoritative row count plus this station's
recent success/warning log with humanized ages ("2 minutes ago").
*/
package checkin
