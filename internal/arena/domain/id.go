package domain

import (
	"fmt"
	"sync"
	"time"
)

var battleIDMu sync.Mutex
var lastBattleIDMillis int64

// NewBattleID generates a timestamp-derived battle identifier.
// Identifiers are monotonic within the process: two calls in the same
// millisecond advance the counter so the token is never reused.
func NewBattleID(clock func() time.Time) string {
	battleIDMu.Lock()
	defer battleIDMu.Unlock()

	millis := clock().UTC().UnixMilli()
	if millis <= lastBattleIDMillis {
		millis = lastBattleIDMillis + 1
	}
	lastBattleIDMillis = millis

	return fmt.Sprintf("battle_%d", millis)
}
