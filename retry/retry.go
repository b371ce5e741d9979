// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package retry

import "time"

// Policy is a bounded retry policy: a fixed number of attempts with a fixed
// delay between them. The zero value behaves as a single attempt with no
// delay.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do runs fn until it succeeds or the attempts are exhausted, sleeping
// Delay between attempts. Returns nil on the first success, otherwise the
// error from the final attempt.
func (p Policy) Do(fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 && p.Delay > 0 {
			time.Sleep(p.Delay)
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
