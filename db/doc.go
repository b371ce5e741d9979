// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema

Four tables model the BMM lifecycle:

  - event: a meeting at a venue on a date
  - member: one union member, including lifecycle state and preferences
  - ticket: issued venue assignment; UNIQUE(member_id, event_id) is the
    "already exists" authority for repeated generation requests
  - checkin: authoritative check-in log; UNIQUE(event_id, member_id) is
    the server-side duplicate authority (a second check-in attempt is
    reported as a warning, never double-counted)

# Unique Constraints

  - member.token (unique): self-service access token
  - member.membership_number (unique): stable identifier, immutable
  - ticket (member_id, event_id)
  - checkin (event_id, member_id)

# Dialect

The schema string is accepted verbatim by both PostgreSQL (lib/pq) and
SQLite (modernc.org/sqlite). Timestamps are always supplied by the
application so no NOW()-style defaults appear.
*/
package db
