package scheduler

import (
	"sync"
	"testing"
)

func TestPwmTableGetSetDefaultsInactive(t *testing.T) {
	var table PwmTable
	info := table.Get(5)
	if !info.Quiescent() {
		t.Errorf("expected unset channel to be quiescent, got %+v", info)
	}
}

func TestPwmTableActiveQuiescent(t *testing.T) {
	cases := []struct {
		info       PwmInfo
		active     bool
		quiescent  bool
	}{
		{PwmInfo{0, 0}, false, true},
		{PwmInfo{1000, 0}, false, false},
		{PwmInfo{0, 1000}, false, false},
		{PwmInfo{1000, 2000}, true, false},
	}
	for _, c := range cases {
		if got := c.info.Active(); got != c.active {
			t.Errorf("%+v.Active() = %v, want %v", c.info, got, c.active)
		}
		if got := c.info.Quiescent(); got != c.quiescent {
			t.Errorf("%+v.Quiescent() = %v, want %v", c.info, got, c.quiescent)
		}
	}
}

// TestPwmTableConcurrentGetSet exercises the "readers see either the old or
// new pair atomically as a whole" contract from spec.md §4.2: a concurrent
// reader must never observe a torn mix of one update's HighNs and another
// update's LowNs.
func TestPwmTableConcurrentGetSet(t *testing.T) {
	var table PwmTable
	const iterations = 2000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := uint64(1); i <= iterations; i++ {
			table.Set(3, PwmInfo{HighNs: i, LowNs: i})
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			info := table.Get(3)
			if info.HighNs != info.LowNs {
				t.Errorf("torn read: HighNs=%d LowNs=%d", info.HighNs, info.LowNs)
			}
		}
	}()

	wg.Wait()
}
