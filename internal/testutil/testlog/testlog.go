package testlog

import (
	"testing"

	"github.com/rs/zerolog"
)

// New returns a debug-level logger routed through t.Log.
func New(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}
