// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package venue resolves forum and session assignments.

# Venue Config

All venue data (forum name, region, address, date, session availability)
lives in the embedded venues.yaml asset, loaded once:

	cfg, err := venue.Default()

Every venue belongs to exactly one session-availability class:

  - single: one fixed session, preference ignored
  - morning_lunch: 10:30 and 12:30
  - morning_afternoon: 10:30 and 14:30
  - three_session: 10:30, 12:30 and 14:30

Forums absent from the config are treated as three_session.

# Session Resolution

ResolveSession is a pure, deterministic function of (forum, preference
payload). First match wins: morning, then lunchtime, then the
afternoon-leaning tags (afternoon, after_work, night_shift). Preferences a
venue cannot honor fall back to the nearest session it offers. Malformed
payloads behave exactly like an absent preference.

	session := cfg.ResolveSession("Wellington", `["after_work"]`) // "14:30"

# Display Spans

TimeSpanFor maps each session label to its fixed two-hour display window;
unrecognized labels map to the morning span. Total, no failure modes.
*/
package venue
