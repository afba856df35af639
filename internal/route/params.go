// Package route builds a weighted graph from annotated waypoints and the
// latest occupancy report, and finds the safest shortest path from an
// entry point to the nearest free space.
package route

import "fmt"

// Params configures graph construction.
type Params struct {
	// ConnectionRadius is the maximum Euclidean distance between two
	// waypoints for an edge to exist between them.
	ConnectionRadius float64 `json:"connection_radius"`

	// SafetyMargin is how close (in pixels) an edge may pass to an
	// occupied region's centroid before its weight is penalized.
	SafetyMargin float64 `json:"safety_margin"`

	// SafetyPenalty multiplies the weight of edges grazing occupied
	// regions. Must be >1; the edge stays usable so the graph keeps its
	// connectivity in tight lots.
	SafetyPenalty float64 `json:"safety_penalty"`
}

// DefaultParams returns graph parameters tuned for lot-scale footage.
func DefaultParams() Params {
	return Params{
		ConnectionRadius: 250,
		SafetyMargin:     5,
		SafetyPenalty:    3,
	}
}

// Validate checks the parameters.
func (p Params) Validate() error {
	if p.ConnectionRadius <= 0 {
		return fmt.Errorf("route params: connection_radius must be positive, got %g", p.ConnectionRadius)
	}
	if p.SafetyMargin < 0 {
		return fmt.Errorf("route params: safety_margin must not be negative, got %g", p.SafetyMargin)
	}
	if p.SafetyPenalty <= 1 {
		return fmt.Errorf("route params: safety_penalty must be greater than 1, got %g", p.SafetyPenalty)
	}
	return nil
}
