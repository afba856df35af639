package route

import (
	"container/heap"

	"parkwatch/pkg/geometry"
)

// Result is the outcome of one pathfinding pass. Found is false when no
// free space is reachable; that is an expected condition (full lot), not
// an error.
type Result struct {
	Points         []geometry.Point2D `json:"points,omitempty"`
	TargetRegionID string             `json:"target_region_id,omitempty"`
	TotalCost      float64            `json:"total_cost"`
	Found          bool               `json:"found"`
}

// NoRoute is the sentinel for an unreachable or absent destination.
func NoRoute() Result { return Result{Found: false} }

// FindRoute runs a single multi-goal A* search from the entry waypoint to
// the cheapest reachable terminal. The heuristic is the Euclidean distance
// to the nearest live terminal, admissible because every edge weight is at
// least the Euclidean distance between its endpoints and penalties only
// increase cost. Equal-cost candidates resolve to the lower node index,
// which for terminals means the lowest region ID.
func (g *Graph) FindRoute(entry int) Result {
	if entry < 0 || entry >= g.topo.Len() || len(g.terminals) == 0 {
		return NoRoute()
	}

	h := func(node int) float64 {
		c := g.coord(node)
		best := c.Distance(g.terminals[0].coord)
		for _, t := range g.terminals[1:] {
			if d := c.Distance(t.coord); d < best {
				best = d
			}
		}
		return best
	}

	gScore := map[int]float64{entry: 0}
	cameFrom := make(map[int]int)
	visited := make(map[int]bool)

	pq := &searchQueue{}
	heap.Init(pq)
	heap.Push(pq, &searchItem{node: entry, f: h(entry)})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*searchItem)
		cur := item.node

		if cur >= g.topo.Len() {
			return g.reconstruct(cur, cameFrom, gScore[cur])
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true

		curG := gScore[cur]
		relax := func(next int, weight float64) {
			if visited[next] {
				return
			}
			tentative := curG + weight
			prev, seen := gScore[next]
			if !seen || tentative < prev {
				gScore[next] = tentative
				cameFrom[next] = cur
				heap.Push(pq, &searchItem{node: next, f: tentative + h(next)})
			}
		}

		for k, e := range g.topo.adj[cur] {
			relax(e.to, g.weights[cur][k])
		}
		for _, e := range g.termEdges[cur] {
			relax(e.to, e.dist)
		}
	}

	return NoRoute()
}

// reconstruct walks the came-from chain back to the entry and returns the
// polyline from entry to the chosen terminal (the free region's centroid).
func (g *Graph) reconstruct(goal int, cameFrom map[int]int, cost float64) Result {
	var reversed []geometry.Point2D
	node := goal
	for {
		reversed = append(reversed, g.coord(node))
		prev, ok := cameFrom[node]
		if !ok {
			break
		}
		node = prev
	}

	points := make([]geometry.Point2D, len(reversed))
	for i, p := range reversed {
		points[len(reversed)-1-i] = p
	}

	return Result{
		Points:         points,
		TargetRegionID: g.terminals[goal-g.topo.Len()].regionID,
		TotalCost:      cost,
		Found:          true,
	}
}

// searchItem is a node in the A* priority queue.
type searchItem struct {
	node  int
	f     float64
	index int
}

// searchQueue implements heap.Interface for the A* open list.
type searchQueue []*searchItem

func (pq searchQueue) Len() int { return len(pq) }
func (pq searchQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].node < pq[j].node
}
func (pq searchQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *searchQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*searchItem)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *searchQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}
