// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAdminKey     = errors.New("invalid admin key")
	ErrInvalidScannerToken = errors.New("invalid scanner token")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAdminKey creates an HMAC-based admin key for an event
// This is deterministic and verifiable
func GenerateAdminKey(eventID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(eventID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the event
func ValidateAdminKey(eventID, adminKey, salt string) error {
	expected := GenerateAdminKey(eventID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateMemberToken creates a random secure token for a member.
// This is the token embedded in ticket QR payloads and self-service links.
func GenerateMemberToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate member token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateScannerToken creates a deterministic access token for a venue
// scanner station. A station must present this token to /venue/checkin/validate
// before any scan submissions are accepted.
func GenerateScannerToken(eventID, venue, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(eventID))
	h.Write([]byte("|"))
	h.Write([]byte(venue))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateScannerToken checks a venue scanner access token
func ValidateScannerToken(eventID, venue, token, salt string) error {
	expected := GenerateScannerToken(eventID, venue, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidScannerToken
	}
	return nil
}

// GenerateShareSlug creates a short, deterministic URL slug for a ticket
// Uses HMAC for determinism and base62 encoding for URL-friendliness
func GenerateShareSlug(ticketToken, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ticketToken))
	sum := h.Sum(nil)

	// Take first 8 bytes for a shorter slug
	shortHash := sum[:8]

	// Convert to base62 (alphanumeric only, no special chars)
	return base62Encode(shortHash)
}

// base62Encode converts bytes to base62 (0-9, a-z, A-Z)
// This creates URL-friendly slugs without special characters
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Convert bytes to a big integer
	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	// Convert to base62
	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	// Reverse the string
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
