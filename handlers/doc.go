// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP surface of the portal.

Three audiences, three path prefixes:

  - /bmm/...    member self-service (preference form, attendance answers),
    authenticated by the member's personal token
  - /admin/...  organiser tools (ticket generation, manual check-in, stats),
    authenticated by the per-event X-Admin-Key header
  - /venue/...  scanning stations, authenticated by the deterministic
    X-Scanner-Token for the event/venue pair

Check-in submissions answer with the success/warning/error envelope and
always HTTP 200; everything else uses conventional status codes with a JSON
error body.
*/
package handlers
