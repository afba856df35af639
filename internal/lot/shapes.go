// Package lot defines the parking lot layout model: space regions, route
// waypoints and the per-lot defaults they share. A layout is loaded once
// per monitoring session and treated as immutable afterwards.
package lot

import (
	"fmt"
	"math"

	"parkwatch/pkg/geometry"
)

// Status is the per-frame occupancy verdict for a space region.
type Status int

const (
	StatusEmpty Status = iota
	StatusOccupied
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "Empty"
	case StatusOccupied:
		return "Occupied"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Shape describes the footprint of a space region on the frame.
type Shape interface {
	// Centroid returns the geometric center of the shape.
	Centroid() geometry.Point2D
	// Bounds returns the axis-aligned bounding box of the shape.
	Bounds() geometry.Rect
	// Outline returns the shape's outline as an ordered vertex list.
	Outline() []geometry.Point2D

	validate(regionID string) error
}

// RectShape is a (possibly rotated) rectangular space.
type RectShape struct {
	Center      geometry.Point2D `json:"center"`
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	RotationDeg float64          `json:"rotation,omitempty"`
}

// Centroid returns the rectangle's center.
func (r RectShape) Centroid() geometry.Point2D {
	return r.Center
}

// AxisAligned reports whether the rectangle's rotation is a multiple of
// 360 degrees, allowing a straight crop instead of a mask fill.
func (r RectShape) AxisAligned() bool {
	rot := math.Mod(r.RotationDeg, 360)
	return rot == 0
}

// Corners returns the rectangle's four corners with rotation applied.
func (r RectShape) Corners() [4]geometry.Point2D {
	return geometry.RotatedRectCorners(r.Center, r.Width, r.Height, r.RotationDeg)
}

// Bounds returns the bounding box of the rotated corners.
func (r RectShape) Bounds() geometry.Rect {
	c := r.Corners()
	return geometry.BoundingBox(c[:])
}

// Outline returns the rotated corners as a vertex list.
func (r RectShape) Outline() []geometry.Point2D {
	c := r.Corners()
	return c[:]
}

func (r RectShape) validate(regionID string) error {
	if r.Width <= 0 || r.Height <= 0 {
		return &LayoutError{
			RegionID: regionID,
			Reason:   fmt.Sprintf("rectangle dimensions must be positive, got %gx%g", r.Width, r.Height),
		}
	}
	return nil
}

// PolygonShape is an arbitrarily shaped space defined by ordered vertices.
type PolygonShape struct {
	Vertices []geometry.Point2D `json:"vertices"`
}

// Centroid returns the average of the polygon's vertices.
func (p PolygonShape) Centroid() geometry.Point2D {
	return geometry.Centroid(p.Vertices)
}

// Bounds returns the polygon's bounding box.
func (p PolygonShape) Bounds() geometry.Rect {
	return geometry.BoundingBox(p.Vertices)
}

// Outline returns the polygon's vertices.
func (p PolygonShape) Outline() []geometry.Point2D {
	return p.Vertices
}

func (p PolygonShape) validate(regionID string) error {
	if len(p.Vertices) < 3 {
		return &LayoutError{
			RegionID: regionID,
			Reason:   fmt.Sprintf("polygon needs at least 3 vertices, got %d", len(p.Vertices)),
		}
	}
	if geometry.PolygonArea(p.Vertices) == 0 {
		return &LayoutError{RegionID: regionID, Reason: "polygon is degenerate (zero area)"}
	}
	if !geometry.IsSimplePolygon(p.Vertices) {
		return &LayoutError{RegionID: regionID, Reason: "polygon is self-intersecting"}
	}
	return nil
}
