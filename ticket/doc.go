// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ticket builds display and export artifacts for venue assignments.

# Artifact Building

Build merges three sources in priority order, field by field: the
server-issued ticket, the venue config derived from the member's forum,
and literal placeholders. A required display field is never empty, so the
portal can render a provisional ticket even when ticket issuance is still
in flight.

	art := builder.Build(member, serverTicket) // serverTicket may be nil

# QR Payload

The artifact's QR payload is a JSON document:

	{"token": "...", "membershipNumber": "...", "name": "...",
	 "type": "bmm-ticket", "checkinUrl": "..."}

scan.ExtractToken recovers the token from exactly this payload at the
check-in desk.

# Exports

PNG renders the QR payload via github.com/skip2/go-qrcode. Calendar emits
a single-event ICS document; when the ticket date fails to parse the event
degrades to a fixed default window instead of failing.
*/
package ticket
