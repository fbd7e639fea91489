//go:build !linux

package scheduler

import (
	"errors"
	"time"
)

// setRealtimeFIFO is unsupported outside Linux; spec.md §1 scopes this
// scheduler to "a stock Linux kernel" and the caller already treats
// elevation failure as non-fatal (spec.md §4.4.5).
func setRealtimeFIFO(priority int) error {
	return errors.New("SCHED_FIFO elevation is only implemented on linux")
}

// sleepUntil falls back to a relative sleep computed against Now(), which
// cannot correct for scheduling jitter the way clock_nanosleep(ABSTIME)
// does on Linux. Good enough for tests running on non-Linux CI, not for
// production use.
func sleepUntil(deadline TimeSpec) {
	for {
		if IsExiting() {
			return
		}
		d := deadline.AsDuration(Now())
		if d <= 0 {
			return
		}
		time.Sleep(d)
	}
}
