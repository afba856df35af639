package route

import (
	"github.com/dhconnelly/rtreego"

	"parkwatch/internal/lot"
	"parkwatch/internal/occupancy"
	"parkwatch/pkg/geometry"
)

// terminal is a pathfinding destination at a free region's centroid.
// It links to its nearest waypoint only, so a route always approaches the
// space through the annotated lane network.
type terminal struct {
	regionID string
	coord    geometry.Point2D
}

// Graph overlays the per-frame state on the cached topology: terminal
// nodes for every Empty region and safety penalties on edges that graze
// occupied regions. Waypoints occupy node indexes [0, Len); terminals
// follow in ascending region-ID order.
type Graph struct {
	topo   *Topology
	params Params

	// weights[i][k] is the penalized weight of the k-th edge out of
	// waypoint i, parallel to the topology's adjacency.
	weights [][]float64

	terminals []terminal

	// termEdges[i] holds edges from waypoint i into terminal nodes.
	termEdges map[int][]edge
}

type occupiedItem struct {
	coord geometry.Point2D
	rect  rtreego.Rect
}

func (o *occupiedItem) Bounds() rtreego.Rect { return o.rect }

// Build computes the per-frame graph overlay from the latest report.
// The topology itself is not modified and stays valid for reuse.
func Build(topo *Topology, report *occupancy.FrameReport, layout *lot.Layout, params Params) *Graph {
	g := &Graph{
		topo:      topo,
		params:    params,
		weights:   make([][]float64, topo.Len()),
		termEdges: make(map[int][]edge),
	}

	occupied := occupiedIndex(report, layout)

	for i := 0; i < topo.Len(); i++ {
		g.weights[i] = make([]float64, len(topo.adj[i]))
		for k, e := range topo.adj[i] {
			g.weights[i][k] = g.penalize(topo.coords[i], topo.coords[e.to], e.dist, occupied)
		}
	}

	// Report spaces are ordered by ascending region ID, so terminal node
	// numbering inherits that order and ties resolve to the lowest ID.
	for _, sp := range report.Spaces {
		if sp.Status != lot.StatusEmpty {
			continue
		}
		region, ok := layout.Region(sp.ID)
		if !ok {
			continue
		}
		centroid := region.Shape.Centroid()

		node, found := topo.EntryNode(&centroid)
		if !found {
			continue
		}
		dist := topo.coords[node].Distance(centroid)
		if dist > params.ConnectionRadius {
			continue
		}

		termIdx := topo.Len() + len(g.terminals)
		g.terminals = append(g.terminals, terminal{regionID: sp.ID, coord: centroid})
		g.termEdges[node] = append(g.termEdges[node], edge{
			to:   termIdx,
			dist: g.penalize(topo.coords[node], centroid, dist, occupied),
		})
	}

	return g
}

// FreeTerminals returns the number of reachable destinations this frame.
func (g *Graph) FreeTerminals() int { return len(g.terminals) }

// penalize multiplies the base weight by the safety penalty when the
// segment passes within SafetyMargin of any occupied region's centroid.
func (g *Graph) penalize(a, b geometry.Point2D, base float64, occupied *rtreego.Rtree) float64 {
	if occupied == nil || occupied.Size() == 0 {
		return base
	}

	bb := geometry.BoundingBox([]geometry.Point2D{a, b})
	m := g.params.SafetyMargin
	rect, err := rtreego.NewRect(
		rtreego.Point{bb.X - m, bb.Y - m},
		[]float64{bb.Width + 2*m + pointExtent, bb.Height + 2*m + pointExtent})
	if err != nil {
		return base
	}

	for _, hit := range occupied.SearchIntersect(rect) {
		item, ok := hit.(*occupiedItem)
		if !ok {
			continue
		}
		if geometry.SegmentDistance(item.coord, a, b) <= m {
			return base * g.params.SafetyPenalty
		}
	}
	return base
}

// occupiedIndex builds an R-tree over the centroids of occupied regions
// for the edge proximity queries.
func occupiedIndex(report *occupancy.FrameReport, layout *lot.Layout) *rtreego.Rtree {
	tree := rtreego.NewTree(2, 4, 16)
	for _, sp := range report.Spaces {
		if sp.Status != lot.StatusOccupied {
			continue
		}
		region, ok := layout.Region(sp.ID)
		if !ok {
			continue
		}
		c := region.Shape.Centroid()
		rect, err := rtreego.NewRect(rtreego.Point{c.X, c.Y}, []float64{pointExtent, pointExtent})
		if err != nil {
			continue
		}
		tree.Insert(&occupiedItem{coord: c, rect: rect})
	}
	return tree
}

// coord returns the coordinates of any node, waypoint or terminal.
func (g *Graph) coord(node int) geometry.Point2D {
	if node < g.topo.Len() {
		return g.topo.coords[node]
	}
	return g.terminals[node-g.topo.Len()].coord
}
