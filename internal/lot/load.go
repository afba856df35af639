package lot

import (
	"encoding/json"
	"fmt"
	"os"

	"parkwatch/pkg/geometry"
)

// layoutFile is the on-disk layout schema written by the annotation editor.
type layoutFile struct {
	Version          int          `json:"version"`
	Name             string       `json:"name"`
	DefaultWidth     float64      `json:"default_width"`
	DefaultHeight    float64      `json:"default_height"`
	DefaultThreshold int          `json:"default_threshold"`
	Spaces           []spaceEntry `json:"spaces"`
	RoutePoints      []routeEntry `json:"route_points"`
}

type spaceEntry struct {
	ID        string `json:"id"`
	Type      string `json:"type"` // "rect" or "polygon"
	Threshold int    `json:"threshold,omitempty"`

	// Rect fields
	Center   *geometry.Point2D `json:"center,omitempty"`
	Width    float64           `json:"width,omitempty"`
	Height   float64           `json:"height,omitempty"`
	Rotation float64           `json:"rotation,omitempty"`

	// Polygon fields
	Vertices []geometry.Point2D `json:"vertices,omitempty"`
}

type routeEntry struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Defaults seed layout fields the annotation file leaves at zero. They
// come from the lot's configuration record.
type Defaults struct {
	Width     float64
	Height    float64
	Threshold int
}

// Load reads a layout file, validates it and returns the immutable Layout
// for the session. Regions missing explicit dimensions fall back to the
// layout defaults.
func Load(path string, defaults Defaults) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Parse(data, defaults)
}

// Parse decodes and validates a layout from raw JSON.
func Parse(data []byte, defaults Defaults) (*Layout, error) {
	var lf layoutFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}

	l := &Layout{
		Name:             lf.Name,
		DefaultWidth:     lf.DefaultWidth,
		DefaultHeight:    lf.DefaultHeight,
		DefaultThreshold: lf.DefaultThreshold,
	}
	if l.DefaultWidth == 0 {
		l.DefaultWidth = defaults.Width
	}
	if l.DefaultHeight == 0 {
		l.DefaultHeight = defaults.Height
	}
	if l.DefaultThreshold == 0 {
		l.DefaultThreshold = defaults.Threshold
	}

	for _, s := range lf.Spaces {
		region := SpaceRegion{ID: s.ID, ThresholdOverride: s.Threshold}
		switch s.Type {
		case "rect", "":
			if s.Center == nil {
				return nil, &LayoutError{RegionID: s.ID, Reason: "rectangle space has no center"}
			}
			w, h := s.Width, s.Height
			if w == 0 {
				w = l.DefaultWidth
			}
			if h == 0 {
				h = l.DefaultHeight
			}
			region.Shape = RectShape{Center: *s.Center, Width: w, Height: h, RotationDeg: s.Rotation}
		case "polygon":
			region.Shape = PolygonShape{Vertices: s.Vertices}
		default:
			return nil, &LayoutError{RegionID: s.ID, Reason: fmt.Sprintf("unknown space type %q", s.Type)}
		}
		l.Regions = append(l.Regions, region)
	}

	for i, rp := range lf.RoutePoints {
		id := rp.ID
		if id == "" {
			id = fmt.Sprintf("wp%d", i)
		}
		l.RoutePoints = append(l.RoutePoints, RoutePoint{
			ID:            id,
			Coordinates:   geometry.Point2D{X: rp.X, Y: rp.Y},
			SequenceIndex: i,
		})
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	l.SortRegions()

	return l, nil
}

// Save writes the layout back to disk in the editor schema. Only used by
// tooling; the monitoring core never mutates a loaded layout.
func Save(l *Layout, path string) error {
	lf := layoutFile{
		Version:          1,
		Name:             l.Name,
		DefaultWidth:     l.DefaultWidth,
		DefaultHeight:    l.DefaultHeight,
		DefaultThreshold: l.DefaultThreshold,
	}

	for _, r := range l.Regions {
		entry := spaceEntry{ID: r.ID, Threshold: r.ThresholdOverride}
		switch s := r.Shape.(type) {
		case RectShape:
			c := s.Center
			entry.Type = "rect"
			entry.Center = &c
			entry.Width = s.Width
			entry.Height = s.Height
			entry.Rotation = s.RotationDeg
		case PolygonShape:
			entry.Type = "polygon"
			entry.Vertices = s.Vertices
		default:
			return &LayoutError{RegionID: r.ID, Reason: "unsupported shape type"}
		}
		lf.Spaces = append(lf.Spaces, entry)
	}

	for _, rp := range l.RoutePoints {
		lf.RoutePoints = append(lf.RoutePoints, routeEntry{ID: rp.ID, X: rp.Coordinates.X, Y: rp.Coordinates.Y})
	}

	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
