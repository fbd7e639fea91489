// Package actuate carries scheduler.Event values the last step from the
// scheduler's NextEvent loop onto a physical output. spec.md §1 scopes the
// actual GPIO/I2C/SPI drivers behind that output out of this repository
// ("external collaborators"), so Actuator is the seam a real driver would
// implement; this package ships only the two bodies that seam needs without
// one.
package actuate

import (
	"log"

	"github.com/amken3d/stepsched/host/scheduler"
)

// Actuator turns a scheduled edge into an effect on a physical output.
// Implementations must return quickly and without blocking indefinitely:
// the consumer goroutine calls Actuate once per popped event, between one
// NextEvent call and the next, and a slow actuator directly widens the
// window in which the scheduler's sleep-until-deadline accuracy degrades.
type Actuator interface {
	Actuate(evt scheduler.Event) error
}

// NullActuator discards every event. It exists for dry runs and tests where
// no driver is attached.
type NullActuator struct{}

func (NullActuator) Actuate(scheduler.Event) error { return nil }

// LogActuator logs each event before delegating to another Actuator
// (typically NullActuator for a demo run with no hardware attached).
type LogActuator struct {
	logger *log.Logger
	next   Actuator
}

// NewLogActuator wraps next, logging every event through logger first.
func NewLogActuator(logger *log.Logger, next Actuator) *LogActuator {
	return &LogActuator{logger: logger, next: next}
}

func (a *LogActuator) Actuate(evt scheduler.Event) error {
	a.logger.Printf("channel %d %s at %s", evt.Channel, evt.Direction, evt.Deadline)
	return a.next.Actuate(evt)
}
