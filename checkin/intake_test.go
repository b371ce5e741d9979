// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package checkin

import (
	"fmt"
	"testing"

	"github.com/unionhall/bmm-portal/models"
	"github.com/unionhall/bmm-portal/testutil"
)

func TestSubmit_Success(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	eventID := testutil.CreateTestEvent(t, conn, "Wellington BMM", "Te Papa")
	memberID, token := testutil.CreateTestMember(t, conn, "M1000001", models.RegionCentral, "Wellington", models.StateAttendingConfirmed)

	intake := NewIntake(conn)
	ctx := Context{EventID: eventID, Location: "Gate A", Operator: "Admin One"}

	env := intake.Submit(token, ctx)

	if env.Status != models.CheckinSuccess {
		t.Fatalf("Submit() status = %q (message %q), want success", env.Status, env.Message)
	}
	if env.Data == nil || env.Data.MemberName != "Test Member" || env.Data.Location != "Gate A" {
		t.Errorf("Submit() data = %+v", env.Data)
	}

	// A row must exist
	var count int
	conn.QueryRow(`SELECT COUNT(*) FROM checkin WHERE event_id = $1 AND member_id = $2`, eventID, memberID).Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 check-in row, got %d", count)
	}
}

func TestSubmit_QRPayload(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	eventID := testutil.CreateTestEvent(t, conn, "Wellington BMM", "Te Papa")
	memberID, _ := testutil.CreateTestMember(t, conn, "M1000002", models.RegionCentral, "Wellington", models.StateAttendingConfirmed)
	ticketToken := testutil.CreateTestTicket(t, conn, memberID, eventID)

	intake := NewIntake(conn)
	payload := fmt.Sprintf(`{"token":%q,"membershipNumber":"M1000002","type":"bmm-ticket"}`, ticketToken)

	env := intake.Submit(payload, Context{EventID: eventID, Location: "Gate B", Operator: "Admin"})
	if env.Status != models.CheckinSuccess {
		t.Fatalf("Submit() with QR payload status = %q (message %q)", env.Status, env.Message)
	}
}

func TestSubmit_Warning_AlreadyCheckedIn(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	eventID := testutil.CreateTestEvent(t, conn, "Wellington BMM", "Te Papa")
	_, token := testutil.CreateTestMember(t, conn, "M1000003", models.RegionCentral, "Wellington", models.StateAttendingConfirmed)

	intake := NewIntake(conn)
	ctx := Context{EventID: eventID, Location: "Gate A", Operator: "Admin"}

	first := intake.Submit(token, ctx)
	if first.Status != models.CheckinSuccess {
		t.Fatalf("first Submit() status = %q", first.Status)
	}

	second := intake.Submit(token, Context{EventID: eventID, Location: "Gate B", Operator: "Admin"})
	if second.Status != models.CheckinWarning {
		t.Fatalf("second Submit() status = %q, want warning", second.Status)
	}
	if second.Data == nil || second.Data.PreviousLocation != "Gate A" {
		t.Errorf("warning should carry prior location, got %+v", second.Data)
	}
	if second.Data.PreviousAgo == "" {
		t.Error("warning should carry a humanized prior time")
	}

	// Warning must not create a second row
	var count int
	conn.QueryRow(`SELECT COUNT(*) FROM checkin WHERE event_id = $1`, eventID).Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 check-in row after duplicate, got %d", count)
	}
}

func TestSubmit_NoEventSelected(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	_, token := testutil.CreateTestMember(t, conn, "M1000004", models.RegionCentral, "Wellington", models.StateAttendingConfirmed)

	intake := NewIntake(conn)
	env := intake.Submit(token, Context{Location: "Gate A"})

	if env.Status != models.CheckinError {
		t.Fatalf("Submit() without event status = %q, want error", env.Status)
	}

	// Fail-fast: no row may have been written anywhere
	var count int
	conn.QueryRow(`SELECT COUNT(*) FROM checkin`).Scan(&count)
	if count != 0 {
		t.Errorf("expected no check-in rows, got %d", count)
	}
}

func TestSubmit_UnknownToken(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	eventID := testutil.CreateTestEvent(t, conn, "Wellington BMM", "Te Papa")

	intake := NewIntake(conn)
	env := intake.Submit("not-a-real-token", Context{EventID: eventID, Location: "Gate A"})

	if env.Status != models.CheckinError {
		t.Errorf("Submit() unknown token status = %q, want error", env.Status)
	}
}

func TestSubmitManual(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	eventID := testutil.CreateTestEvent(t, conn, "Wellington BMM", "Te Papa")
	testutil.CreateTestMember(t, conn, "M1000005", models.RegionCentral, "Wellington", models.StateAttendingConfirmed)

	intake := NewIntake(conn)
	ctx := Context{EventID: eventID, Location: "Front Desk", Operator: "Admin"}

	env := intake.SubmitManual("M1000005", ctx)
	if env.Status != models.CheckinSuccess {
		t.Fatalf("SubmitManual() status = %q (message %q)", env.Status, env.Message)
	}

	if env := intake.SubmitManual("M9999999", ctx); env.Status != models.CheckinError {
		t.Errorf("SubmitManual() unknown member status = %q, want error", env.Status)
	}

	if env := intake.SubmitManual("", ctx); env.Status != models.CheckinError {
		t.Errorf("SubmitManual() empty number status = %q, want error", env.Status)
	}
}

func TestSubmit_BusyGuard(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	eventID := testutil.CreateTestEvent(t, conn, "Wellington BMM", "Te Papa")
	_, token := testutil.CreateTestMember(t, conn, "M1000006", models.RegionCentral, "Wellington", models.StateAttendingConfirmed)

	intake := NewIntake(conn)

	// Simulate an in-flight submission
	intake.busy.Store(true)
	env := intake.Submit(token, Context{EventID: eventID, Location: "Gate A"})
	if env.Status != models.CheckinError {
		t.Fatalf("Submit() while busy status = %q, want error", env.Status)
	}
	intake.busy.Store(false)

	// Releases cleanly afterwards
	if env := intake.Submit(token, Context{EventID: eventID, Location: "Gate A"}); env.Status != models.CheckinSuccess {
		t.Errorf("Submit() after busy cleared status = %q (message %q)", env.Status, env.Message)
	}
}

func TestStats(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	eventID := testutil.CreateTestEvent(t, conn, "Wellington BMM", "Te Papa")
	_, token1 := testutil.CreateTestMember(t, conn, "M1000007", models.RegionCentral, "Wellington", models.StateAttendingConfirmed)
	_, token2 := testutil.CreateTestMember(t, conn, "M1000008", models.RegionCentral, "Wellington", models.StateAttendingConfirmed)

	intake := NewIntake(conn)
	ctx := Context{EventID: eventID, Location: "Gate A", Operator: "Admin"}

	intake.Submit(token1, ctx)
	intake.Submit(token2, ctx)
	intake.Submit(token1, ctx) // duplicate → warning, not counted

	stats, err := intake.Stats(eventID)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.CheckedIn != 2 {
		t.Errorf("CheckedIn = %d, want 2", stats.CheckedIn)
	}

	// Log holds two successes and one warning, newest first
	if len(stats.Recent) != 3 {
		t.Fatalf("Recent length = %d, want 3", len(stats.Recent))
	}
	if stats.Recent[0].Status != models.CheckinWarning {
		t.Errorf("newest entry status = %q, want warning", stats.Recent[0].Status)
	}
	for _, entry := range stats.Recent {
		if entry.Ago == "" {
			t.Error("log entry missing humanized age")
		}
	}
}
