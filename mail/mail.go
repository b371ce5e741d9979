// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mail

import (
	"log/slog"
	"strings"
)

// Mailer sends a single message. Ticket and confirmation emails are
// best-effort: a send failure is logged and never blocks the member flow.
type Mailer interface {
	Send(to, subject, body string) error
}

// LogMailer is the default Mailer: it records the send in the log and
// reports success. Deployments wire a real provider behind the interface.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	slog.Info("email queued", "to", to, "subject", subject, "bytes", len(body))
	return nil
}

// placeholder address prefixes written by the upstream membership import
// for members with no real email on file
var placeholderPrefixes = []string{"noemail", "unknown", "nomail"}

// Deliverable reports whether an address is worth attempting: present,
// shaped like an address, and not one of the import placeholders.
func Deliverable(email *string) bool {
	if email == nil {
		return false
	}
	addr := strings.TrimSpace(strings.ToLower(*email))
	if addr == "" {
		return false
	}

	at := strings.Index(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return false
	}
	if !strings.Contains(addr[at+1:], ".") {
		return false
	}

	local := addr[:at]
	for _, prefix := range placeholderPrefixes {
		if strings.HasPrefix(local, prefix) {
			return false
		}
	}
	return true
}
