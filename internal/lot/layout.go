package lot

import (
	"fmt"
	"sort"
	"strconv"

	"parkwatch/pkg/geometry"
)

// LayoutError reports malformed region or waypoint data. It is fatal at
// layout-load time, before any frame is processed.
type LayoutError struct {
	RegionID string
	Reason   string
}

func (e *LayoutError) Error() string {
	if e.RegionID == "" {
		return "layout: " + e.Reason
	}
	return fmt.Sprintf("layout: region %q: %s", e.RegionID, e.Reason)
}

// SpaceRegion is one parking cell. Its occupancy status is derived every
// frame and never stored on the region itself.
type SpaceRegion struct {
	ID    string
	Shape Shape

	// ThresholdOverride replaces the layout default when positive.
	ThresholdOverride int
}

// RoutePoint is a navigable waypoint annotated on the lot.
type RoutePoint struct {
	ID          string
	Coordinates geometry.Point2D

	// SequenceIndex is the insertion order, used as a fallback
	// connectivity hint (the first point doubles as the default entry).
	SequenceIndex int
}

// Layout describes one parking lot: its space regions, route waypoints and
// defaults. Created by the external annotation editor and loaded read-only
// for the duration of a monitoring session.
type Layout struct {
	Name             string
	DefaultWidth     float64
	DefaultHeight    float64
	DefaultThreshold int

	Regions     []SpaceRegion
	RoutePoints []RoutePoint
}

// EffectiveThreshold returns the region's threshold override when set,
// otherwise the layout default.
func (l *Layout) EffectiveThreshold(r SpaceRegion) int {
	if r.ThresholdOverride > 0 {
		return r.ThresholdOverride
	}
	return l.DefaultThreshold
}

// Region looks up a region by ID.
func (l *Layout) Region(id string) (SpaceRegion, bool) {
	for _, r := range l.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return SpaceRegion{}, false
}

// Validate checks the layout invariants: positive defaults, unique region
// IDs, positive rectangle dimensions and simple non-degenerate polygons.
func (l *Layout) Validate() error {
	if l.DefaultThreshold <= 0 {
		return &LayoutError{Reason: fmt.Sprintf("default threshold must be positive, got %d", l.DefaultThreshold)}
	}

	seen := make(map[string]bool, len(l.Regions))
	for _, r := range l.Regions {
		if r.ID == "" {
			return &LayoutError{Reason: "region with empty id"}
		}
		if seen[r.ID] {
			return &LayoutError{RegionID: r.ID, Reason: "duplicate region id"}
		}
		seen[r.ID] = true

		if r.Shape == nil {
			return &LayoutError{RegionID: r.ID, Reason: "region has no shape"}
		}
		if err := r.Shape.validate(r.ID); err != nil {
			return err
		}
		if r.ThresholdOverride < 0 {
			return &LayoutError{RegionID: r.ID, Reason: fmt.Sprintf("threshold override must be positive, got %d", r.ThresholdOverride)}
		}
	}

	seenWP := make(map[string]bool, len(l.RoutePoints))
	for _, rp := range l.RoutePoints {
		if rp.ID == "" {
			return &LayoutError{Reason: "route point with empty id"}
		}
		if seenWP[rp.ID] {
			return &LayoutError{Reason: fmt.Sprintf("duplicate route point id %q", rp.ID)}
		}
		seenWP[rp.ID] = true
	}

	return nil
}

// SortRegions orders regions by ascending ID, numerically when every ID
// parses as an integer and lexicographically otherwise. Classification and
// reports follow this order so route targets are prioritized consistently.
func (l *Layout) SortRegions() {
	sort.SliceStable(l.Regions, func(i, j int) bool {
		return regionIDLess(l.Regions[i].ID, l.Regions[j].ID)
	})
}

func regionIDLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
