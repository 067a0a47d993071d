package util

import "time"

// ExpiredUTC reports whether the instant t has passed. Timestamps read back
// without timezone metadata are treated as UTC before comparing, so expiry
// checks never depend on the store's timezone handling.
func ExpiredUTC(t time.Time) bool {
	return time.Now().UTC().After(t.UTC())
}
