// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router assembles the HTTP route table and cross-cutting
// middleware (request logging, CORS).
package router
