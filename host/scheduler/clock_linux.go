//go:build linux

package scheduler

import "golang.org/x/sys/unix"

// monotonicNow reads CLOCK_MONOTONIC directly, exactly as the original's
// clock_gettime(CLOCK_MONOTONIC, &ts) does, rather than going through the Go
// runtime's wall-clock-plus-monotonic-reading time.Time. This keeps
// TimeSpec values comparable to the clock_nanosleep(TIMER_ABSTIME) deadlines
// priority_linux.go hands to the kernel.
func monotonicNow() TimeSpec {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic("scheduler: clock_gettime(CLOCK_MONOTONIC) failed: " + err.Error())
	}
	return TimeSpec{Sec: int64(ts.Sec), Nsec: int32(ts.Nsec)}
}
