// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/unionhall/bmm-portal/auth"
	"github.com/unionhall/bmm-portal/cliparse"
	"github.com/unionhall/bmm-portal/db"
	"github.com/unionhall/bmm-portal/models"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each test gets its own database; closing it discards everything.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A single connection keeps the in-memory database alive and shared
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             4480,
		DatabaseURL:      ":memory:",
		DatabaseType:     "sqlite",
		AdminKeySalt:     "test-admin-salt",
		ScannerTokenSalt: "test-scanner-salt",
		BaseURL:          "https://bmm.test",
		EventName:        "Test Membership Meetings",
	}
}

// CreateTestEvent inserts an event and returns its ID
func CreateTestEvent(t *testing.T, conn *sql.DB, name, venueName string) string {
	t.Helper()

	eventID, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO event (id, name, venue, event_date, created_at)
		VALUES ($1, $2, $3, '2026-09-18', $4)
	`, eventID, name, venueName, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}

	return eventID
}

// CreateTestMember inserts a member in the given lifecycle state and
// returns the member ID and self-service token
func CreateTestMember(t *testing.T, conn *sql.DB, membershipNumber, region, forum, state string) (memberID, token string) {
	t.Helper()

	memberID, _ = auth.GenerateID(16)
	token, _ = auth.GenerateMemberToken()

	var forumPtr *string
	if forum != "" {
		forumPtr = &forum
	}

	_, err := conn.Exec(`
		INSERT INTO member (id, token, membership_number, name, region, forum, state, created_at)
		VALUES ($1, $2, $3, 'Test Member', $4, $5, $6, $7)
	`, memberID, token, membershipNumber, region, forumPtr, state, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}

	return memberID, token
}

// CreateTestTicket inserts a ticket for a member/event pair and returns
// its token
func CreateTestTicket(t *testing.T, conn *sql.DB, memberID, eventID string) string {
	t.Helper()

	token, _ := auth.GenerateMemberToken()
	_, err := conn.Exec(`
		INSERT INTO ticket (token, member_id, event_id, venue_name, address, event_date, session_time, issued_at)
		VALUES ($1, $2, $3, 'Te Papa', '55 Cable Street, Wellington', '2026-09-18', '10:30', $4)
	`, token, memberID, eventID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test ticket: %v", err)
	}

	return token
}

// CreateTestCheckin inserts a check-in row directly
func CreateTestCheckin(t *testing.T, conn *sql.DB, eventID, memberID, location string) {
	t.Helper()

	id, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO checkin (id, event_id, member_id, token, location, operator, checked_in_at)
		VALUES ($1, $2, $3, 'seed-token', $4, 'Seed Operator', $5)
	`, id, eventID, memberID, location, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test check-in: %v", err)
	}
}

// SetMemberState moves a member to a lifecycle state directly
func SetMemberState(t *testing.T, conn *sql.DB, memberID, state string) {
	t.Helper()

	if _, err := conn.Exec(`UPDATE member SET state = $1 WHERE id = $2`, state, memberID); err != nil {
		t.Fatalf("Failed to set member state: %v", err)
	}
}

// MemberState reads a member's current lifecycle state
func MemberState(t *testing.T, conn *sql.DB, memberID string) string {
	t.Helper()

	var state string
	if err := conn.QueryRow(`SELECT state FROM member WHERE id = $1`, memberID).Scan(&state); err != nil {
		t.Fatalf("Failed to read member state: %v", err)
	}
	return state
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertEnvelope decodes a check-in envelope and checks its status
func AssertEnvelope(t *testing.T, w *httptest.ResponseRecorder, wantStatus string) models.CheckinEnvelope {
	t.Helper()

	var env models.CheckinEnvelope
	AssertJSON(t, w, &env)
	if env.Status != wantStatus {
		t.Errorf("Expected envelope status %q, got %q (message: %q)", wantStatus, env.Status, env.Message)
	}
	return env
}
