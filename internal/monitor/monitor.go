// Package monitor orchestrates per-frame processing: preprocess,
// classify, build the route graph overlay and search, then fan the
// combined result out to the registered sinks.
package monitor

import (
	"fmt"
	"log"

	"gocv.io/x/gocv"

	"parkwatch/internal/frame"
	"parkwatch/internal/lot"
	"parkwatch/internal/occupancy"
	"parkwatch/internal/route"
	"parkwatch/pkg/geometry"
)

// Result is the combined per-frame output handed to sinks: the occupancy
// report and the recommended route. Neither is retained past the frame
// that produced it.
type Result struct {
	Lot    string                 `json:"lot"`
	Report *occupancy.FrameReport `json:"report"`
	Route  route.Result           `json:"route"`
}

// Sink receives each frame's result. Implementations must not retain the
// report past the call.
type Sink interface {
	Emit(*Result) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(*Result) error

// Emit calls the function.
func (f SinkFunc) Emit(r *Result) error { return f(r) }

// Monitor drives one lot's frame loop. Frames are processed one at a
// time; the waypoint topology is built once and reused, so a failed frame
// never corrupts it.
type Monitor struct {
	lotName    string
	layout     *lot.Layout
	processing frame.Params
	routing    route.Params
	entrance   *geometry.Point2D

	classifier *occupancy.Classifier
	stabilizer *occupancy.Stabilizer
	topo       *route.Topology

	sinks []Sink
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithEntrance sets the lot entrance coordinate; the nearest waypoint to
// it becomes the route search entry.
func WithEntrance(p geometry.Point2D) Option {
	return func(m *Monitor) { m.entrance = &p }
}

// WithStabilization enables the anti-flicker buffer with the given number
// of confirmation frames.
func WithStabilization(frames int) Option {
	return func(m *Monitor) {
		if frames > 0 {
			m.stabilizer = occupancy.NewStabilizer(frames)
		}
	}
}

// WithSink registers a result sink. Sink errors are logged, not fatal.
func WithSink(s Sink) Option {
	return func(m *Monitor) { m.sinks = append(m.sinks, s) }
}

// New validates the parameters eagerly and builds the cached waypoint
// topology. A bad layout or parameter set is surfaced here, before any
// frame is processed.
func New(lotName string, layout *lot.Layout, processing frame.Params, routing route.Params, opts ...Option) (*Monitor, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if err := processing.Validate(); err != nil {
		return nil, err
	}
	if err := routing.Validate(); err != nil {
		return nil, fmt.Errorf("monitor: %w", err)
	}

	m := &Monitor{
		lotName:    lotName,
		layout:     layout,
		processing: processing,
		routing:    routing,
		classifier: occupancy.NewClassifier(layout),
		topo:       route.BuildTopology(layout.RoutePoints, routing.ConnectionRadius),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ProcessFrame runs the full pipeline on one frame. On error the frame is
// abandoned whole: no partial report is emitted and the cached topology
// is untouched, so the caller just moves on to the next frame.
func (m *Monitor) ProcessFrame(img gocv.Mat, frameIndex int64) (*Result, error) {
	foreground, err := frame.Preprocess(img, m.processing)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", frameIndex, err)
	}
	defer foreground.Close()

	report, err := m.classifier.Classify(foreground, frameIndex)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", frameIndex, err)
	}

	if m.stabilizer != nil {
		m.stabilizer.Apply(report)
	}

	graph := route.Build(m.topo, report, m.layout, m.routing)

	result := &Result{Lot: m.lotName, Report: report, Route: route.NoRoute()}
	if entry, ok := m.topo.EntryNode(m.entrance); ok {
		result.Route = graph.FindRoute(entry)
	}

	for _, s := range m.sinks {
		if err := s.Emit(result); err != nil {
			log.Printf("monitor: sink error on frame %d: %v", frameIndex, err)
		}
	}

	return result, nil
}
