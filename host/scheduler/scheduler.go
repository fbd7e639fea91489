package scheduler

import (
	"log"
	"sync"
)

// DefaultBufferSize is SCHED_CAPACITY from the C original: the default
// backpressure threshold before producers start blocking.
const DefaultBufferSize = 64

// DefaultRTPriority is SCHED_PRIORITY from the C original: the SCHED_FIFO
// priority the consumer thread requests.
const DefaultRTPriority = 20

// Scheduler drives the queue-and-dispatch loop described in spec.md §4.4.
// A single mutex guards both the event queue and the PWM table; there is no
// lock-free path on the write side. Exactly one consumer goroutine should
// call NextEvent in a loop; any number of producer goroutines may call
// Queue, SchedulePwm, and LastScheduledTime concurrently.
type Scheduler struct {
	mu   sync.Mutex
	cond *sync.Cond

	queue *EventQueue
	pwm   PwmTable

	bufferSize int

	// pushesLocked expresses "the consumer is currently holding mu across
	// iterations" (spec.md §4.4). Only the consumer goroutine reads or
	// writes it, and always while holding, or about to release, mu.
	pushesLocked bool
}

// New returns a Scheduler with the given backpressure buffer size.
func New(bufferSize int) *Scheduler {
	if bufferSize <= 0 {
		panic("scheduler: bufferSize must be positive")
	}
	s := &Scheduler{
		queue:      NewEventQueue(bufferSize),
		bufferSize: bufferSize,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Queue inserts evt and wakes the consumer. It never blocks the caller on
// anything but the mutex itself — there is no queue-full block here; that
// throttle lives entirely in NextEvent holding the mutex across the sleep
// (spec.md §4.4.3 step 4, and the Open Question in spec.md §9 about that
// design's limits).
func (s *Scheduler) Queue(evt Event) {
	s.mu.Lock()
	s.queue.Push(evt)
	s.mu.Unlock()
	s.cond.Signal()
}

// SchedulePwm starts or updates a self-sustaining square wave on channel
// id. Both high and low zero stops it gracefully: the channel emits at
// most one more edge, then goes quiescent. Updating an already-active
// channel overwrites its duty cycle in place without enqueuing a second
// seed event — regeneration is already in flight (spec.md §3's PwmInfo
// invariant).
func (s *Scheduler) SchedulePwm(id ChannelId, highNs, lowNs uint64) {
	s.mu.Lock()
	current := s.pwm.Get(id)
	s.pwm.Set(id, PwmInfo{HighNs: highNs, LowNs: lowNs})
	wasActive := current.Active()
	if !wasActive {
		s.queue.Push(NewEvent(Now(), id, Rise))
	}
	s.mu.Unlock()

	if !wasActive {
		s.cond.Signal()
	}
}

// NextEvent blocks until the earliest-deadline event is due, regenerates
// its paired PWM edge if the channel calls for one, sleeps until that
// deadline on the monotonic clock, and returns the event to the caller for
// actuation. It must be called only from the single consumer goroutine.
func (s *Scheduler) NextEvent() Event {
	if !s.pushesLocked {
		s.mu.Lock()
	}

	for s.queue.Len() == 0 {
		s.cond.Wait()
	}

	e := s.queue.Pop()
	s.regeneratePwm(e)

	if s.queue.Len() < s.bufferSize {
		s.pushesLocked = false
		s.mu.Unlock()
	} else {
		s.pushesLocked = true
		// Mutex stays held across the sleep below: producers calling
		// Queue block on mu.Lock() until the next NextEvent call drains
		// the queue back under bufferSize. This is the backpressure
		// mechanism; see spec.md §9's Open Question about its limits
		// under sustained PWM saturation.
	}

	sleepUntil(e.Deadline)

	return e
}

// regeneratePwm enqueues the complementary edge for e, if the channel's
// current duty cycle calls for one. Must be called with mu held.
func (s *Scheduler) regeneratePwm(e Event) {
	info := s.pwm.Get(e.Channel)
	switch e.Direction {
	case Rise:
		if info.HighNs > 0 {
			s.queue.Push(NewEvent(e.Deadline.Add(int64(info.HighNs)), e.Channel, Fall))
		}
	case Fall:
		if info.LowNs > 0 {
			s.queue.Push(NewEvent(e.Deadline.Add(int64(info.LowNs)), e.Channel, Rise))
		}
	}
}

// LastScheduledTime returns the deadline of the latest-scheduled event, so
// producers can chain new work after the current tail. If the queue is
// empty it releases the mutex before calling Now(), matching the original's
// lock-release-then-clock_gettime ordering.
func (s *Scheduler) LastScheduledTime() TimeSpec {
	s.mu.Lock()
	e, ok := s.queue.PeekLatest()
	s.mu.Unlock()
	if !ok {
		return Now()
	}
	return e.Deadline
}

// SetBufferSize adjusts the backpressure threshold.
func (s *Scheduler) SetBufferSize(n int) {
	if n <= 0 {
		panic("scheduler: buffer size must be positive")
	}
	s.mu.Lock()
	s.bufferSize = n
	s.mu.Unlock()
}

// BufferSize returns the current backpressure threshold.
func (s *Scheduler) BufferSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bufferSize
}

// Len returns the number of events currently queued. Intended for tests
// and diagnostics, not for the hot path.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// InitConsumerThread elevates the calling goroutine's OS thread to
// SCHED_FIFO real-time priority. It must be called once, from the consumer
// goroutine, after runtime.LockOSThread. Failure to elevate is logged and
// otherwise ignored (spec.md §4.4.5): the process may be running
// unprivileged during development.
func (s *Scheduler) InitConsumerThread(priority int) {
	if err := setRealtimeFIFO(priority); err != nil {
		log.Printf("scheduler: could not elevate consumer thread to SCHED_FIFO priority %d: %v (continuing at normal priority)", priority, err)
	}
}

// EmergencyStop zeroes every channel's duty cycle so no further PWM edges
// are regenerated. It does not touch already-queued one-shot events. Wire
// this into a shutdown handler so heaters and fans de-energize on exit
// (spec.md §1: "physical outputs (heated nozzle!) are de-energized").
func (s *Scheduler) EmergencyStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := 0; id < maxChannels; id++ {
		s.pwm.Set(ChannelId(id), PwmInfo{})
	}
}
