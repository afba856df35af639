// Package config provides per-lot configuration records and persistence.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"parkwatch/internal/frame"
	"parkwatch/internal/lot"
	"parkwatch/internal/route"
	"parkwatch/pkg/geometry"
)

// Lot is the configuration record for one parking lot. The monitoring
// core treats it as read-only, already-validated input.
type Lot struct {
	Name             string  `json:"name"`
	DefaultWidth     float64 `json:"default_width"`
	DefaultHeight    float64 `json:"default_height"`
	DefaultThreshold int     `json:"default_threshold"`

	// LayoutPath points at the annotation editor's layout file.
	LayoutPath string `json:"layout_path"`

	// VideoSource is a file path, device index or capture URL.
	VideoSource string `json:"video_source"`

	// Entrance is where vehicles enter the lot; the nearest waypoint to
	// it becomes the route search entry. Optional.
	Entrance *geometry.Point2D `json:"entrance,omitempty"`

	Processing frame.Params `json:"processing_params"`
	Routing    route.Params `json:"routing_params"`

	// StabilizationFrames is how many consecutive frames a status change
	// must persist before it is reported. Zero disables stabilization.
	StabilizationFrames int `json:"stabilization_frames"`
}

// LayoutDefaults returns the layout seed values from this record.
func (l Lot) LayoutDefaults() lot.Defaults {
	return lot.Defaults{Width: l.DefaultWidth, Height: l.DefaultHeight, Threshold: l.DefaultThreshold}
}

// File is the on-disk configuration: a set of named lots.
type File struct {
	Version int            `json:"version"`
	Lots    map[string]Lot `json:"parking_lots"`
}

// Default returns a configuration with a single default lot using the
// tuned stock values.
func Default() *File {
	return &File{
		Version: 1,
		Lots: map[string]Lot{
			"default": {
				Name:                "Default Parking Lot",
				DefaultWidth:        107,
				DefaultHeight:       48,
				DefaultThreshold:    900,
				LayoutPath:          "data/layouts/default.json",
				VideoSource:         "data/source/carPark.mp4",
				Processing:          frame.DefaultParams(),
				Routing:             route.DefaultParams(),
				StabilizationFrames: 5,
			},
		},
	}
}

// Load reads a configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &f, nil
}

// Save writes the configuration to a JSON file.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Lot returns the named lot record, falling back to "default".
func (f *File) Lot(name string) (Lot, error) {
	if l, ok := f.Lots[name]; ok {
		return l, nil
	}
	if l, ok := f.Lots["default"]; ok {
		return l, nil
	}
	return Lot{}, fmt.Errorf("config: no lot named %q and no default", name)
}
