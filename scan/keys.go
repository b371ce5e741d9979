// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scan

import (
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"
)

// DefaultIdleWindow is how long the keystroke buffer survives between keys.
// Hardware barcode scanners type an entire code in a few milliseconds, so
// anything slower than this is two unrelated bursts.
const DefaultIdleWindow = 200 * time.Millisecond

// MinScanLength is the minimum completed-scan length, counted in runes
const MinScanLength = 3

// ErrTooShort is returned by Enter when the buffer holds fewer than
// MinScanLength characters. The buffer is cleared either way.
var ErrTooShort = errors.New("scan too short")

// punctuation accepted in addition to letters and digits; covers JSON
// payloads and URL-ish tokens
const scanPunctuation = `{}[]":,._\-/\@+=?&%#~' `

// Accumulator assembles keystroke bursts from a hardware barcode scanner
// into completed scans. Keys accumulate until Enter; the buffer clears
// itself after the idle window so two unrelated bursts never merge.
//
// The accumulator is only fed while a scanning context is armed; it never
// sees keystrokes meant for form fields.
type Accumulator struct {
	mu     sync.Mutex
	idle   time.Duration
	onScan func(string)
	buf    []rune
	timer  *time.Timer
	closed bool
}

// NewAccumulator creates an accumulator that forwards completed scans to
// onScan. idle <= 0 selects the default 200ms window.
func NewAccumulator(idle time.Duration, onScan func(string)) *Accumulator {
	if idle <= 0 {
		idle = DefaultIdleWindow
	}
	return &Accumulator{idle: idle, onScan: onScan}
}

// Key feeds one keystroke. Runes outside the scanner alphabet are ignored.
func (a *Accumulator) Key(r rune) {
	if !Printable(r) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	a.buf = append(a.buf, r)

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.idle, a.idleReset)
}

// Enter finalizes the current buffer. A buffer of MinScanLength or more is
// forwarded to onScan; shorter buffers return ErrTooShort. The buffer and
// idle timer are cleared in both cases.
func (a *Accumulator) Enter() error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	text := string(a.buf)
	runes := len(a.buf)
	a.buf = nil
	closed := a.closed
	a.mu.Unlock()

	if closed {
		return nil
	}
	if runes < MinScanLength {
		return ErrTooShort
	}

	// Forward outside the lock; the consumer may be slow
	a.onScan(text)
	return nil
}

func (a *Accumulator) idleReset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buf = nil
	a.timer = nil
}

// Close drops the buffer and cancels the idle timer
func (a *Accumulator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.buf = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Printable reports whether a rune belongs to the scanner alphabet:
// alphanumerics plus JSON/URL punctuation.
func Printable(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	return strings.ContainsRune(scanPunctuation, r)
}
