package scheduler

import "sync/atomic"

// maxChannels bounds ChannelId the way the teacher's fixed-size hardware
// registries (core/pwm.go's hardwarePWMs, sized by an 8-bit oid) do.
const maxChannels = 256

// PwmInfo is the per-channel duty-cycle pair. Both zero means the channel
// is inactive. Exactly one non-zero means the channel is winding down: the
// next edge of the opposite direction is emitted, then no more. Both
// non-zero is a self-sustaining square wave with those half-periods.
type PwmInfo struct {
	HighNs uint64
	LowNs  uint64
}

// Active reports whether p should keep regenerating edges indefinitely.
func (p PwmInfo) Active() bool {
	return p.HighNs != 0 && p.LowNs != 0
}

// Quiescent reports whether p has no pending edges to regenerate.
func (p PwmInfo) Quiescent() bool {
	return p.HighNs == 0 && p.LowNs == 0
}

// PwmTable is a fixed-size array of PwmInfo indexed by channel id. Get is
// lock-free: each slot is an atomic.Pointer so a reader always observes a
// complete (HighNs, LowNs) pair, never a torn mix of old and new — matching
// spec.md §4.2's "readers see either the old or new pair atomically as a
// whole". Set is still expected to be called under the scheduler's mutex
// (spec.md §4.2), since scheduling a seed event and updating the table must
// be observed together.
type PwmTable struct {
	slots [maxChannels]atomic.Pointer[PwmInfo]
}

var zeroPwmInfo = PwmInfo{}

// Get returns the current duty-cycle pair for id, or the zero value
// (inactive) if it was never set.
func (t *PwmTable) Get(id ChannelId) PwmInfo {
	if p := t.slots[id].Load(); p != nil {
		return *p
	}
	return zeroPwmInfo
}

// Set overwrites the duty-cycle pair for id. Callers hold the scheduler
// mutex while calling this, per spec.md §4.2.
func (t *PwmTable) Set(id ChannelId, info PwmInfo) {
	v := info
	t.slots[id].Store(&v)
}
