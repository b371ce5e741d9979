// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/unionhall/bmm-portal/models"
)

func TestWithLogging(t *testing.T) {
	// Create a simple handler that returns OK
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	// Wrap with logging middleware
	wrappedHandler := WithLogging(testHandler)

	// Create test request and recorder
	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	// Execute
	wrappedHandler(w, req)

	// Verify handler was called
	if !handlerCalled {
		t.Error("Expected handler to be called")
	}

	// Verify response was written correctly
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, map[string]string{"key": "value"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["key"] != "value" {
		t.Errorf("Expected key=value, got %v", body)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusBadRequest, "something is missing")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if resp.Error != http.StatusText(http.StatusBadRequest) {
		t.Errorf("Expected error %q, got %q", http.StatusText(http.StatusBadRequest), resp.Error)
	}
	if resp.Message != "something is missing" {
		t.Errorf("Unexpected message: %q", resp.Message)
	}
}

func TestEnvelopeResponse(t *testing.T) {
	w := httptest.NewRecorder()
	EnvelopeResponse(w, models.CheckinEnvelope{
		Status:  models.CheckinError,
		Message: "no event selected",
	})

	// Envelope errors still ride on HTTP 200
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var env models.CheckinEnvelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if env.Status != models.CheckinError {
		t.Errorf("Expected status error, got %q", env.Status)
	}
}

func TestParseJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid JSON", `{"member_token":"abc"}`, false},
		{"invalid JSON", `{"member_token":`, true},
		{"empty body", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", bytes.NewReader([]byte(tt.body)))
			var parsed models.ConfirmAttendanceRequest
			err := ParseJSONBody(req, &parsed)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseJSONBody() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("inner handler should not run for preflight")
	})

	req := httptest.NewRequest("OPTIONS", "/bmm/preferences", nil)
	req.Header.Set("Origin", "https://portal.example.org")
	w := httptest.NewRecorder()

	CORS(inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://portal.example.org" {
		t.Errorf("Unexpected allow-origin: %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-Scanner-Token") {
		t.Error("Expected X-Scanner-Token in allowed headers")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"x-forwarded-for single", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "10.0.0.1:1234", "203.0.113.9"},
		{"x-forwarded-for chain", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}, "10.0.0.1:1234", "203.0.113.9"},
		{"x-real-ip", map[string]string{"X-Real-IP": "203.0.113.10"}, "10.0.0.1:1234", "203.0.113.10"},
		{"remote addr with port", nil, "203.0.113.11:5678", "203.0.113.11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
