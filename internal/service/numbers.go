package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newNumber builds a human-facing identifier like REP-2026-3FA2B1. The
// random segment comes from a v4 UUID, so numbers are unique without a
// sequence round-trip.
func newNumber(prefix string, now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("%s-%d-%s", prefix, now.Year(), id[:6])
}
