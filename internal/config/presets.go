package config

import "github.com/san-kum/rocketsim/internal/vehicle"

// GetPreset returns a run file for the named mission preset, or nil.
func GetPreset(name string) *File {
	if _, ok := vehicle.Presets[name]; !ok {
		return nil
	}
	f := DefaultConfig()
	f.Preset = name
	return f
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	return vehicle.PresetNames()
}
