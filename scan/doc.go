// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scan normalizes check-in scan input.

# Keystroke Accumulation

Hardware barcode scanners present as keyboards and type an entire code as a
burst ending with Enter. Accumulator assembles those bursts:

	acc := scan.NewAccumulator(0, onDecoded) // 200ms idle window
	acc.Key('A') ...
	err := acc.Enter() // forwards "ABC..." to onDecoded

Bursts idle for longer than the window are discarded, so two unrelated
bursts never merge. Completed scans shorter than three characters are
rejected with ErrTooShort instead of forwarded.

The server itself receives already-decoded strings over HTTP; Accumulator
is here for station frontends built on this module, which embed it and
post its output to the scan endpoint.

# Duplicate Suppression

Suppressor keeps decoded strings "recently seen" for a fixed window
(default 5s) and is checked before the intake pipeline runs:

	if sup.Seen(decoded) { // notify "scanned too recently", no submission
	}
	sup.MarkSeen(decoded)

This is a best-effort client-style guard; the check-in table's unique
constraint is the authority. Close cancels every pending eviction timer.

# Token Extraction

ExtractToken converges both producers onto one contract: JSON payloads
yield their "token" field, anything else is the token verbatim.
*/
package scan
