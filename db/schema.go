// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL is restricted to the dialect both SQLite and PostgreSQL accept:
// no server-side timestamp defaults (timestamps are always written by the
// application) and TEXT payload columns instead of JSONB.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Events
CREATE TABLE IF NOT EXISTS event (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    venue TEXT NOT NULL,
    event_date TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Members
CREATE TABLE IF NOT EXISTS member (
    id TEXT PRIMARY KEY,
    token TEXT NOT NULL UNIQUE,
    membership_number TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    email TEXT,
    mobile TEXT,
    region TEXT NOT NULL CHECK (region IN ('Northern', 'Central', 'Southern')),
    forum TEXT,
    preferred_times TEXT,
    intend_to_attend TEXT CHECK (intend_to_attend IN ('yes', 'no')),
    employer TEXT,
    payroll_number TEXT,
    state TEXT NOT NULL DEFAULT 'preference_form' CHECK (state IN (
        'preference_form', 'preference_submitted', 'awaiting_attendance',
        'attending_confirmed', 'absence_pending', 'terminal')),
    session_time TEXT,
    absence_reason TEXT CHECK (absence_reason IN ('sick', 'distance', 'work', 'other')),
    absence_detail TEXT,
    special_vote TEXT CHECK (special_vote IN ('yes', 'no')),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_member_token ON member(token);
CREATE INDEX IF NOT EXISTS idx_member_membership_number ON member(membership_number);
CREATE INDEX IF NOT EXISTS idx_member_state ON member(state);

-- Tickets
CREATE TABLE IF NOT EXISTS ticket (
    token TEXT PRIMARY KEY,
    member_id TEXT NOT NULL REFERENCES member(id) ON DELETE CASCADE,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    venue_name TEXT NOT NULL,
    address TEXT NOT NULL,
    event_date TEXT NOT NULL,
    session_time TEXT NOT NULL,
    issued_at TIMESTAMP NOT NULL,
    UNIQUE (member_id, event_id)
);

CREATE INDEX IF NOT EXISTS idx_ticket_member_id ON ticket(member_id);

-- Check-ins
CREATE TABLE IF NOT EXISTS checkin (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL REFERENCES member(id) ON DELETE CASCADE,
    token TEXT NOT NULL,
    location TEXT NOT NULL,
    operator TEXT NOT NULL,
    ip_hash TEXT,
    checked_in_at TIMESTAMP NOT NULL,
    UNIQUE (event_id, member_id)
);

CREATE INDEX IF NOT EXISTS idx_checkin_event_id ON checkin(event_id);
CREATE INDEX IF NOT EXISTS idx_checkin_member ON checkin(event_id, member_id);
`
