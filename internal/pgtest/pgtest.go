// Package pgtest provides helpers for tests that need a live PostgreSQL
// server.
package pgtest

import (
	"os"
	"testing"

	"github.com/pgdock/pgdock"
)

// ConnString returns the connection string tests should use. It prefers
// PGDOCK_TEST_DATABASE_URL, then DATABASE_URL, then the libpq-style PG*
// variables with localhost defaults.
func ConnString() string {
	if s := os.Getenv("PGDOCK_TEST_DATABASE_URL"); s != "" {
		return s
	}
	if s := os.Getenv("DATABASE_URL"); s != "" {
		return s
	}
	return pgdock.OptionsFromEnv().ConnString()
}

// Options returns connection Options pointing at the test server.
func Options() pgdock.Options {
	return pgdock.Options{URL: ConnString()}
}

// SkipIfNoDatabase skips t unless a test server has been named through the
// environment.
func SkipIfNoDatabase(t *testing.T) {
	t.Helper()
	if os.Getenv("PGDOCK_TEST_DATABASE_URL") == "" && os.Getenv("DATABASE_URL") == "" {
		t.Skip("set PGDOCK_TEST_DATABASE_URL or DATABASE_URL to run tests against a live server")
	}
}
