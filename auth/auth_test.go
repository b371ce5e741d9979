// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name    string
		eventID string
		salt    string
	}{
		{"standard", "event123", "secret-salt"},
		{"empty event id", "", "salt"},
		{"empty salt", "event456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.eventID, tt.salt)

			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			// Should be deterministic
			key2 := GenerateAdminKey(tt.eventID, tt.salt)
			if key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			// Different inputs should produce different keys
			if tt.eventID != "" && tt.salt != "" {
				differentKey := GenerateAdminKey(tt.eventID+"x", tt.salt)
				if key == differentKey {
					t.Error("GenerateAdminKey() produced same key for different event IDs")
				}
			}

			// URL-safe: no padding characters
			if strings.ContainsAny(key, "=") {
				t.Error("GenerateAdminKey() contains padding")
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	salt := "validation-salt"
	eventID := "event789"
	key := GenerateAdminKey(eventID, salt)

	if err := ValidateAdminKey(eventID, key, salt); err != nil {
		t.Errorf("ValidateAdminKey() rejected valid key: %v", err)
	}

	if err := ValidateAdminKey(eventID, key+"x", salt); err == nil {
		t.Error("ValidateAdminKey() accepted tampered key")
	}

	if err := ValidateAdminKey(eventID, key, "other-salt"); err == nil {
		t.Error("ValidateAdminKey() accepted key minted with a different salt")
	}
}

func TestGenerateMemberToken(t *testing.T) {
	token, err := GenerateMemberToken()
	if err != nil {
		t.Fatalf("GenerateMemberToken() error = %v", err)
	}

	if token == "" {
		t.Fatal("GenerateMemberToken() returned empty token")
	}

	// 24 bytes base64 without padding = 32 characters
	if len(token) != 32 {
		t.Errorf("GenerateMemberToken() length = %d, want 32", len(token))
	}

	token2, _ := GenerateMemberToken()
	if token == token2 {
		t.Error("GenerateMemberToken() produced duplicate tokens")
	}
}

func TestScannerToken(t *testing.T) {
	salt := "scanner-salt"
	token := GenerateScannerToken("event1", "Town Hall", salt)

	if err := ValidateScannerToken("event1", "Town Hall", token, salt); err != nil {
		t.Errorf("ValidateScannerToken() rejected valid token: %v", err)
	}

	tests := []struct {
		name    string
		eventID string
		venue   string
		token   string
		salt    string
	}{
		{"wrong event", "event2", "Town Hall", token, salt},
		{"wrong venue", "event1", "Side Hall", token, salt},
		{"wrong salt", "event1", "Town Hall", token, "other-salt"},
		{"empty token", "event1", "Town Hall", "", salt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateScannerToken(tt.eventID, tt.venue, tt.token, tt.salt); err == nil {
				t.Error("ValidateScannerToken() accepted invalid token")
			}
		})
	}

	// Venue/event boundary must matter: swapping the separator position
	// should not collide
	a := GenerateScannerToken("ab", "c", salt)
	b := GenerateScannerToken("a", "bc", salt)
	if a == b {
		t.Error("GenerateScannerToken() collided across event/venue boundary")
	}
}

func TestGenerateShareSlug(t *testing.T) {
	slug := GenerateShareSlug("ticket-token-1", "slug-salt")

	if slug == "" {
		t.Fatal("GenerateShareSlug() returned empty slug")
	}

	// Deterministic
	if slug != GenerateShareSlug("ticket-token-1", "slug-salt") {
		t.Error("GenerateShareSlug() is not deterministic")
	}

	// Alphanumeric only
	for _, c := range slug {
		isAlnum := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !isAlnum {
			t.Errorf("GenerateShareSlug() contains non-alphanumeric char: %c", c)
		}
	}

	if slug == GenerateShareSlug("ticket-token-2", "slug-salt") {
		t.Error("GenerateShareSlug() produced same slug for different tokens")
	}
}

func TestHashIP(t *testing.T) {
	h1 := HashIP("203.0.113.7", "ip-salt")
	h2 := HashIP("203.0.113.7", "ip-salt")
	h3 := HashIP("203.0.113.8", "ip-salt")

	if h1 != h2 {
		t.Error("HashIP() is not deterministic")
	}
	if h1 == h3 {
		t.Error("HashIP() produced same hash for different IPs")
	}
	if len(h1) != 16 {
		t.Errorf("HashIP() length = %d, want 16", len(h1))
	}
}
