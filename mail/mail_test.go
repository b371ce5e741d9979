// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mail

import "testing"

func TestDeliverable(t *testing.T) {
	valid := "jane@example.org"
	tests := []struct {
		name  string
		email *string
		want  bool
	}{
		{"nil", nil, false},
		{"valid", &valid, true},
	}

	strs := map[string]bool{
		"":                      false,
		"   ":                   false,
		"jane@example.org":      true,
		"JANE@EXAMPLE.ORG":      true,
		"jane":                  false,
		"@example.org":          false,
		"jane@":                 false,
		"jane@localhost":        false,
		"noemail@union.org":     false,
		"noemail123@union.org":  false,
		"unknown@union.org":     false,
		"nomail.jane@union.org": false,
	}
	for email, want := range strs {
		e := email
		tests = append(tests, struct {
			name  string
			email *string
			want  bool
		}{email, &e, want})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Deliverable(tt.email); got != tt.want {
				t.Errorf("Deliverable(%v) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestLogMailer(t *testing.T) {
	if err := (LogMailer{}).Send("jane@example.org", "Your BMM ticket", "body"); err != nil {
		t.Errorf("LogMailer.Send() error = %v", err)
	}
}
