package route

import (
	"github.com/dhconnelly/rtreego"

	"parkwatch/internal/lot"
	"parkwatch/pkg/geometry"
)

// pointExtent gives point-like entries a tiny positive extent, which the
// R-tree requires.
const pointExtent = 1e-6

// edge is a directed half of an undirected connection.
type edge struct {
	to   int
	dist float64
}

// Topology is the static waypoint graph. It depends only on the immutable
// RoutePoint set, so it is built once per session and reused across
// frames; only terminal nodes and penalty weights change per frame.
type Topology struct {
	points []lot.RoutePoint
	coords []geometry.Point2D
	adj    [][]edge
	radius float64
	index  *rtreego.Rtree
}

type waypointItem struct {
	idx  int
	rect rtreego.Rect
}

func (w *waypointItem) Bounds() rtreego.Rect { return w.rect }

// BuildTopology connects every pair of waypoints closer than
// connectionRadius with an edge weighted by their Euclidean distance.
func BuildTopology(points []lot.RoutePoint, connectionRadius float64) *Topology {
	t := &Topology{
		points: points,
		coords: make([]geometry.Point2D, len(points)),
		adj:    make([][]edge, len(points)),
		radius: connectionRadius,
		index:  rtreego.NewTree(2, 4, 16),
	}

	for i, p := range points {
		t.coords[i] = p.Coordinates
		rect, err := rtreego.NewRect(
			rtreego.Point{p.Coordinates.X, p.Coordinates.Y},
			[]float64{pointExtent, pointExtent})
		if err == nil {
			t.index.Insert(&waypointItem{idx: i, rect: rect})
		}
	}

	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			d := t.coords[i].Distance(t.coords[j])
			if d <= connectionRadius {
				t.adj[i] = append(t.adj[i], edge{to: j, dist: d})
				t.adj[j] = append(t.adj[j], edge{to: i, dist: d})
			}
		}
	}

	return t
}

// Len returns the number of waypoints.
func (t *Topology) Len() int { return len(t.points) }

// Waypoint returns the waypoint at a node index.
func (t *Topology) Waypoint(i int) lot.RoutePoint { return t.points[i] }

// EntryNode resolves the search start: the nearest waypoint to the
// configured entrance coordinate, or the first waypoint by sequence index
// when no entrance is configured. Returns false for an empty topology.
func (t *Topology) EntryNode(entrance *geometry.Point2D) (int, bool) {
	if len(t.points) == 0 {
		return 0, false
	}
	if entrance == nil {
		best := 0
		for i, p := range t.points {
			if p.SequenceIndex < t.points[best].SequenceIndex {
				best = i
			}
		}
		return best, true
	}

	nearest := t.index.NearestNeighbor(rtreego.Point{entrance.X, entrance.Y})
	if item, ok := nearest.(*waypointItem); ok {
		return item.idx, true
	}
	return 0, true
}
