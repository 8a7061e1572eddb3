package result

import "sync/atomic"

// tracking enables the recycled-use guard for every WriteResult in the process.
//
// With tracking off, reading or writing a recycled result does not fail: it
// silently observes zeroed fields, or whatever a later acquirer stored there.
// This trades misuse detection for a branch-free hot path and is intended for
// release builds only.
var tracking atomic.Bool

func init() {
	tracking.Store(defaultTracking)
}

// SetTracking turns the recycled-use guard on or off
func SetTracking(enabled bool) {
	tracking.Store(enabled)
}

// Tracking reports whether the recycled-use guard is enforced
func Tracking() bool {
	return tracking.Load()
}

// DefaultTracking reports the build default: enabled unless built with the release tag
func DefaultTracking() bool {
	return defaultTracking
}
