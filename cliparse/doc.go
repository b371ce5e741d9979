// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 4480)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - ScannerTokenSalt: Secret for venue scanner tokens (required)
  - BaseURL: Public base URL used in QR payloads and share links
  - EventName: Display name of the meeting round

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type (sqlite or postgres)
	-base-url      Public base URL
	-event-name    Meeting round display name
	-admin-salt    Admin key salt
	-scanner-salt  Venue scanner token salt

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	BASE_URL           → -base-url
	EVENT_NAME         → -event-name
	ADMIN_KEY_SALT     → -admin-salt
	SCANNER_TOKEN_SALT → -scanner-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - ADMIN_KEY_SALT must be provided
  - SCANNER_TOKEN_SALT must be provided
*/
package cliparse
