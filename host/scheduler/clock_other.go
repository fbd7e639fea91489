//go:build !linux

package scheduler

import "time"

// processStart anchors the monotonic clock on platforms without a direct
// CLOCK_MONOTONIC binding; time.Since(processStart) still uses Go's
// monotonic reading under the hood, never wall-clock time.
var processStart = time.Now()

func monotonicNow() TimeSpec {
	elapsed := time.Since(processStart)
	return TimeSpec{}.Add(int64(elapsed))
}
