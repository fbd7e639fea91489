//go:build linux

package scheduler

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// schedFIFO is Linux's SCHED_FIFO policy id (linux/sched.h). x/sys/unix
// exposes the sched_setscheduler syscall number but not this policy
// constant, so it is hardcoded here the way raw-syscall callers in this
// codebase's pack (see warpdl's *_unix.go signal-number literals) already
// do for stable kernel ABI values.
const schedFIFO = 1

type schedParam struct {
	priority int32
}

// setRealtimeFIFO elevates the calling OS thread — not the whole process —
// to SCHED_FIFO at the given priority via a direct sched_setscheduler(0, ...)
// call, mirroring the original's pthread_setschedparam(pthread_self(), ...).
// Go has no direct binding for per-thread scheduling policy, so this goes
// through unix.Syscall directly; the caller must have already called
// runtime.LockOSThread so this thread is not later reused for another
// goroutine.
func setRealtimeFIFO(priority int) error {
	sp := schedParam{priority: int32(priority)}
	_, _, errno := unix.Syscall(unix.SYS_SCHED_SETSCHEDULER, 0, uintptr(schedFIFO), uintptr(unsafe.Pointer(&sp)))
	if errno != 0 {
		return errno
	}
	return nil
}

// sleepUntil suspends the calling goroutine until deadline on the
// monotonic clock, using clock_nanosleep(CLOCK_MONOTONIC, TIMER_ABSTIME, ...)
// so accumulated jitter never drifts (spec.md §4.4.3 step 5: "absolute
// deadline, not a relative duration"). If the sleep is interrupted by a
// signal (EINTR) it re-checks the shutdown flag and, if the process is not
// exiting, retries for the same absolute deadline (spec.md §7).
func sleepUntil(deadline TimeSpec) {
	ts := unix.Timespec{Sec: deadline.Sec, Nsec: int64(deadline.Nsec)}
	for {
		if IsExiting() {
			return
		}
		err := unix.ClockNanosleep(unix.CLOCK_MONOTONIC, unix.TIMER_ABSTIME, &ts, nil)
		if err == nil || err != unix.EINTR {
			return
		}
	}
}
