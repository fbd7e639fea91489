// Package scheduler is a real-time event scheduler for dispatching
// timestamped hardware actuations (stepper pulses, PWM edges) at absolute
// monotonic deadlines while producer goroutines (motion planner, temperature
// loop) enqueue new events concurrently. It mirrors the consumer/producer
// design of the C++ original in original_source/code/firmware/src/scheduler.cpp,
// built on a sync.Mutex and sync.Cond rather than as a literal port.
package scheduler

import (
	"fmt"
	"time"
)

const nsPerSec = int64(time.Second)

// TimeSpec is an absolute point on the monotonic clock, normalized so Nsec
// is always in [0, 1e9). It is never derived from wall-clock time.
type TimeSpec struct {
	Sec  int64
	Nsec int32
}

// Now returns the current time on the monotonic clock. On Linux it reads
// CLOCK_MONOTONIC directly (clock_linux.go); elsewhere it is the time
// elapsed since process start, measured with Go's monotonic reading
// (clock_other.go). Neither exposes wall-clock seconds, and neither goes
// backwards.
func Now() TimeSpec {
	return monotonicNow()
}

// Add returns t offset by ns nanoseconds (ns may be negative), normalized.
func (t TimeSpec) Add(ns int64) TimeSpec {
	sec := t.Sec + ns/nsPerSec
	nsec := int64(t.Nsec) + ns%nsPerSec
	if nsec >= nsPerSec {
		nsec -= nsPerSec
		sec++
	} else if nsec < 0 {
		nsec += nsPerSec
		sec--
	}
	return TimeSpec{Sec: sec, Nsec: int32(nsec)}
}

// Sub returns t-u in nanoseconds.
func (t TimeSpec) Sub(u TimeSpec) int64 {
	return (t.Sec-u.Sec)*nsPerSec + int64(t.Nsec) - int64(u.Nsec)
}

// Less reports whether t is strictly before u.
func (t TimeSpec) Less(u TimeSpec) bool {
	if t.Sec != u.Sec {
		return t.Sec < u.Sec
	}
	return t.Nsec < u.Nsec
}

// Compare returns -1, 0, or 1 as t is before, equal to, or after u.
func (t TimeSpec) Compare(u TimeSpec) int {
	switch {
	case t.Less(u):
		return -1
	case u.Less(t):
		return 1
	default:
		return 0
	}
}

func (t TimeSpec) String() string {
	return fmt.Sprintf("%d.%09d", t.Sec, t.Nsec)
}

// AsDuration reports the time remaining until t, relative to now. Negative
// when t is in the past.
func (t TimeSpec) AsDuration(now TimeSpec) time.Duration {
	return time.Duration(t.Sub(now))
}
