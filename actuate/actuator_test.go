package actuate

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/amken3d/stepsched/host/scheduler"
)

func TestNullActuatorDiscards(t *testing.T) {
	var a NullActuator
	evt := scheduler.NewEvent(scheduler.Now(), 3, scheduler.Rise)
	if err := a.Actuate(evt); err != nil {
		t.Fatalf("NullActuator.Actuate returned %v, want nil", err)
	}
}

func TestLogActuatorLogsAndDelegates(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	calls := 0
	inner := recordingActuator{onActuate: func(scheduler.Event) error {
		calls++
		return nil
	}}

	a := NewLogActuator(logger, inner)
	evt := scheduler.NewEvent(scheduler.Now(), 9, scheduler.Fall)
	if err := a.Actuate(evt); err != nil {
		t.Fatalf("Actuate returned %v, want nil", err)
	}

	if calls != 1 {
		t.Errorf("inner actuator called %d times, want 1", calls)
	}
	if !strings.Contains(buf.String(), "channel 9") || !strings.Contains(buf.String(), "Fall") {
		t.Errorf("log output %q should mention the channel and direction", buf.String())
	}
}

type recordingActuator struct {
	onActuate func(scheduler.Event) error
}

func (r recordingActuator) Actuate(evt scheduler.Event) error {
	return r.onActuate(evt)
}
