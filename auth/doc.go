// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(eventID, salt)
	err := auth.ValidateAdminKey(eventID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same event ID and salt always produce the same key. This allows validation
without storing the key in the database.

# Member Tokens

Member tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateMemberToken()

Tokens are URL-safe base64 encoded. A member's token authenticates every
self-service call and is the identity embedded in ticket QR payloads.

# Scanner Tokens

Venue scanner stations authenticate with a deterministic token derived from
the event and venue:

	token := auth.GenerateScannerToken(eventID, venue, salt)
	err := auth.ValidateScannerToken(eventID, venue, token, salt)

A station presents its token to GET /venue/checkin/validate before any scan
submissions are accepted.

# Share Slugs

Share slugs create URL-friendly identifiers for shareable ticket links:

	slug := auth.GenerateShareSlug(ticketToken, salt)

Slugs are base62 encoded (alphanumeric only) for easy sharing.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
