// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scan

import (
	"encoding/json"
	"strings"
)

// ExtractToken resolves a decoded scan to a check-in token. Ticket QR codes
// carry a JSON payload with a "token" field; plain-text and barcode codes
// are treated as the token itself.
func ExtractToken(decoded string) string {
	trimmed := strings.TrimSpace(decoded)

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil && payload.Token != "" {
		return payload.Token
	}

	return trimmed
}
