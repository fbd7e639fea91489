// Package config loads a machine's channel topology (axes, endstops,
// heaters) from JSON or YAML, the way standalone/config did for the
// teacher's full firmware config, trimmed to the fields the scheduler demo
// actually consumes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amken3d/stepsched/standalone"
	"gopkg.in/yaml.v3"
)

// Load reads a machine config from disk, dispatching on file extension:
// ".yaml"/".yml" via gopkg.in/yaml.v3, anything else via encoding/json.
func Load(path string) (*standalone.MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg standalone.MachineConfig
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse json config %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadJSON parses a JSON configuration buffer and returns a MachineConfig.
func LoadJSON(data []byte) (*standalone.MachineConfig, error) {
	var cfg standalone.MachineConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills in missing configuration values with sensible defaults.
func applyDefaults(config *standalone.MachineConfig) {
	if config.Mode == "" {
		config.Mode = "standalone"
	}
	if config.Kinematics == "" {
		config.Kinematics = "cartesian"
	}
	if config.DefaultVelocity == 0 {
		config.DefaultVelocity = 50.0 // 50 mm/s
	}
	if config.DefaultAccel == 0 {
		config.DefaultAccel = 500.0 // 500 mm/s^2
	}
	if config.JunctionDeviation == 0 {
		config.JunctionDeviation = 0.05 // 0.05mm
	}

	for name, axis := range config.Axes {
		if axis.MaxVelocity == 0 {
			axis.MaxVelocity = 300.0
		}
		if axis.MaxAccel == 0 {
			axis.MaxAccel = 1000.0
		}
		if axis.HomingVel == 0 {
			axis.HomingVel = 5.0
		}
		if axis.StepsPerMM == 0 {
			axis.StepsPerMM = 80.0 // Common value
		}
		config.Axes[name] = axis
	}

	for name, heater := range config.Heaters {
		if heater.MaxTemp == 0 {
			heater.MaxTemp = 300.0
		}
		if heater.MaxPower == 0 {
			heater.MaxPower = 1.0
		}
		config.Heaters[name] = heater
	}
}

// DefaultCartesianConfig returns a default configuration for a Cartesian
// printer: three stepper axes, a bed and an extruder heater.
func DefaultCartesianConfig() *standalone.MachineConfig {
	return &standalone.MachineConfig{
		Mode:       "standalone",
		Kinematics: "cartesian",
		Axes: map[string]standalone.AxisConfig{
			"x": {
				StepPin: "gpio0", DirPin: "gpio1", EnablePin: "gpio8",
				StepsPerMM: 80.0, MaxVelocity: 300.0, MaxAccel: 3000.0,
				HomingVel: 50.0, MinPosition: 0.0, MaxPosition: 220.0,
			},
			"y": {
				StepPin: "gpio2", DirPin: "gpio3", EnablePin: "gpio8",
				StepsPerMM: 80.0, MaxVelocity: 300.0, MaxAccel: 3000.0,
				HomingVel: 50.0, MinPosition: 0.0, MaxPosition: 220.0,
			},
			"z": {
				StepPin: "gpio4", DirPin: "gpio5", EnablePin: "gpio8",
				StepsPerMM: 400.0, MaxVelocity: 10.0, MaxAccel: 100.0,
				HomingVel: 5.0, MinPosition: 0.0, MaxPosition: 250.0,
			},
		},
		Endstops: map[string]standalone.EndstopConfig{
			"x": {Pin: "gpio20", Invert: false},
			"y": {Pin: "gpio21", Invert: false},
			"z": {Pin: "gpio22", Invert: false},
		},
		Heaters: map[string]standalone.HeaterConfig{
			"extruder": {
				SensorPin: "ADC0", HeaterPin: "gpio10",
				PID: [3]float64{0.1, 0.5, 0.05},
				MinTemp: 0.0, MaxTemp: 300.0, MaxPower: 1.0,
			},
			"bed": {
				SensorPin: "ADC1", HeaterPin: "gpio11",
				PID: [3]float64{0.2, 1.0, 0.1},
				MinTemp: 0.0, MaxTemp: 150.0, MaxPower: 1.0,
			},
		},
		DefaultVelocity:   50.0,
		DefaultAccel:      500.0,
		JunctionDeviation: 0.05,
	}
}
