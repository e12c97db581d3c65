package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/vehicle"
	"gopkg.in/yaml.v3"
)

const (
	DefaultController = "tvc"
	DefaultIntegrator = "rk4"
	DefaultPreset     = "pathfinder"
)

var ErrNoMission = errors.New("config: neither a preset nor an inline mission is set")

// SimConfig is the yaml form of dynamo.Config.
type SimConfig struct {
	Dt              float64 `yaml:"dt"`
	MaxTime         float64 `yaml:"max_time"`
	InitialAltitude float64 `yaml:"initial_altitude,omitempty"`
	UseJ2           bool    `yaml:"use_j2,omitempty"`
}

// File is a run file: simulation settings plus either a preset name or
// an inline mission. An inline mission wins over the preset.
type File struct {
	Sim             SimConfig        `yaml:"sim"`
	Controller      string           `yaml:"controller"`
	Integrator      string           `yaml:"integrator"`
	Preset          string           `yaml:"preset,omitempty"`
	Mission         *vehicle.Mission `yaml:"mission,omitempty"`
	AltitudeMarkers []float64        `yaml:"altitude_markers,omitempty"`
}

func DefaultConfig() *File {
	return &File{
		Sim: SimConfig{
			Dt:      dynamo.DefaultDt,
			MaxTime: dynamo.DefaultMaxTime,
		},
		Controller: DefaultController,
		Integrator: DefaultIntegrator,
		Preset:     DefaultPreset,
	}
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a run file over the defaults.
func Parse(data []byte) (*File, error) {
	f := DefaultConfig()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("config: parse run file: %w", err)
	}
	if f.Mission != nil {
		fillMissionDefaults(f.Mission)
	}
	return f, nil
}

func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// fillMissionDefaults gives an inline mission the builder defaults for
// any guidance or gain block it left out.
func fillMissionDefaults(m *vehicle.Mission) {
	if m.Guidance == (vehicle.Guidance{}) {
		m.Guidance = vehicle.DefaultGuidance()
	}
	if m.PitchGains == (vehicle.Gains{}) {
		m.PitchGains = vehicle.DefaultGains()
	}
	if m.YawGains == (vehicle.Gains{}) {
		m.YawGains = vehicle.DefaultGains()
	}
}

// SimConfig converts the file's settings for the runner.
func (f *File) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:              f.Sim.Dt,
		MaxTime:         f.Sim.MaxTime,
		InitialAltitude: f.Sim.InitialAltitude,
		UseJ2:           f.Sim.UseJ2,
	}
}

// ResolveMission returns the validated inline mission, or the named
// preset when no mission is inlined.
func (f *File) ResolveMission() (*vehicle.Mission, error) {
	if f.Mission != nil {
		m := *f.Mission
		m.Stages = append([]vehicle.Stage(nil), f.Mission.Stages...)
		if err := m.Validate(); err != nil {
			return nil, err
		}
		return &m, nil
	}
	if f.Preset == "" {
		return nil, ErrNoMission
	}
	return vehicle.Preset(f.Preset)
}
