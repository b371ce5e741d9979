// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"testing"

	"github.com/unionhall/bmm-portal/testutil"
	"github.com/unionhall/bmm-portal/venue"
)

// newTestHandler builds a handler over a fresh in-memory database
func newTestHandler(t *testing.T) (*Handler, *sql.DB) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	venues, err := venue.Default()
	if err != nil {
		t.Fatalf("Failed to load venue config: %v", err)
	}

	h := New(conn, testutil.GetTestConfig(), venues)
	t.Cleanup(h.Close)

	return h, conn
}
