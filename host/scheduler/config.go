package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the scheduler's own tunables, as distinct from the machine
// channel topology in standalone.MachineConfig. SCHED_CAPACITY and
// SCHED_PRIORITY in the C original are compile-time macros; this codebase
// makes them runtime-configurable, following standalone/config's
// JSON-with-defaults pattern.
type Config struct {
	BufferSize int `json:"buffer_size"`
	RTPriority int `json:"rt_priority"`
}

// DefaultConfig returns the C original's SCHED_CAPACITY/SCHED_PRIORITY
// values.
func DefaultConfig() Config {
	return Config{BufferSize: DefaultBufferSize, RTPriority: DefaultRTPriority}
}

// LoadConfig reads scheduler tunables from a JSON file, filling in
// DefaultConfig for any field left at zero.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read scheduler config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse scheduler config %s: %w", path, err)
	}

	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.RTPriority <= 0 {
		cfg.RTPriority = DefaultRTPriority
	}
	return cfg, nil
}
