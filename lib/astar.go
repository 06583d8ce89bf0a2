package lib

import "container/heap"

// DefaultMaxIterations bounds a per-map search per §4.4.
const DefaultMaxIterations = 10000

// SinglePathResult is the outcome of a per-map search (§4.4/§4.5): a node
// path, the direction sequence derived from it, the total cost, the HMs the
// path consumed, and enough bookkeeping to diagnose a failure.
type SinglePathResult struct {
	Success       bool
	Path          []Node
	Moves         []Direction
	TotalCost     float64
	HMsRequired   []HM
	NodesExplored int
	Err           error
}

// pqItem is one entry in the A* open set: f = g + h, with a monotonically
// increasing sequence number breaking ties FIFO for determinism (§4.4).
type pqItem struct {
	node  Node
	f     float64
	h     float64
	seq   int
	index int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// AStar runs weighted A* with a Manhattan heuristic on a single map graph
// (§4.4). The grid is 4-connected with no diagonals, so Manhattan is
// admissible and consistent for any weight policy whose minimum reachable
// edge cost is >= the heuristic's per-step cost of 1; SeekEncountersPolicy's
// sub-unit grass weight (0.5) is the one preset below that bound, so callers
// introducing weights under 1.0 should re-verify admissibility per §4.4's
// note rather than assume it holds.
func AStar(graph *MapGraph, start, goal Node, hms HMSet, policy WeightPolicy, vision map[Node]struct{}, maxIterations int) SinglePathResult {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if !graph.InBounds(start.X, start.Y) || !graph.InBounds(goal.X, goal.Y) {
		return SinglePathResult{Success: false, Err: ErrMalformedInput}
	}
	if start == goal {
		return SinglePathResult{Success: true, Path: []Node{start}, Moves: nil, TotalCost: 0}
	}

	gScore := map[Node]float64{start: 0}
	cameFrom := map[Node]Node{}
	hmUsedAt := map[Node]HM{}

	pq := &priorityQueue{}
	heap.Init(pq)
	seq := 0
	push := func(n Node, f, h float64) {
		heap.Push(pq, &pqItem{node: n, f: f, h: h, seq: seq})
		seq++
	}
	push(start, float64(start.manhattan(goal)), float64(start.manhattan(goal)))

	explored := 0
	for pq.Len() > 0 && explored < maxIterations {
		explored++
		current := heap.Pop(pq).(*pqItem).node

		if current == goal {
			path := reconstructPath(cameFrom, current)
			return SinglePathResult{
				Success:       true,
				Path:          path,
				Moves:         pathToMoves(path),
				TotalCost:     gScore[current],
				HMsRequired:   collectHMs(path, hmUsedAt),
				NodesExplored: explored,
			}
		}

		for _, edge := range graph.Neighbors(current, hms, policy, vision) {
			tentative := gScore[current] + edge.Cost
			existing, seen := gScore[edge.To]
			if !seen || tentative < existing {
				cameFrom[edge.To] = current
				gScore[edge.To] = tentative
				if edge.HasHM {
					hmUsedAt[edge.To] = edge.HM
				}
				h := float64(edge.To.manhattan(goal))
				push(edge.To, tentative+h, h)
			}
		}
	}

	if explored >= maxIterations {
		return SinglePathResult{Success: false, NodesExplored: explored, Err: ErrIterationCap}
	}
	return SinglePathResult{Success: false, NodesExplored: explored, Err: ErrUnreachable}
}

// NearestMatch is A* with a zero heuristic (Dijkstra) and the goal test
// replaced by a predicate, §4.5: used by higher layers to find the nearest
// tile satisfying some condition (a healing station, a shop tile). It is
// otherwise identical to AStar.
func NearestMatch(graph *MapGraph, start Node, predicate func(Node) bool, hms HMSet, policy WeightPolicy, vision map[Node]struct{}, maxIterations int) SinglePathResult {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if !graph.InBounds(start.X, start.Y) {
		return SinglePathResult{Success: false, Err: ErrMalformedInput}
	}
	if predicate(start) {
		return SinglePathResult{Success: true, Path: []Node{start}, Moves: nil, TotalCost: 0}
	}

	gScore := map[Node]float64{start: 0}
	cameFrom := map[Node]Node{}
	hmUsedAt := map[Node]HM{}

	pq := &priorityQueue{}
	heap.Init(pq)
	seq := 0
	push := func(n Node, f float64) {
		heap.Push(pq, &pqItem{node: n, f: f, h: 0, seq: seq})
		seq++
	}
	push(start, 0)

	explored := 0
	for pq.Len() > 0 && explored < maxIterations {
		explored++
		current := heap.Pop(pq).(*pqItem).node

		if predicate(current) {
			path := reconstructPath(cameFrom, current)
			return SinglePathResult{
				Success:       true,
				Path:          path,
				Moves:         pathToMoves(path),
				TotalCost:     gScore[current],
				HMsRequired:   collectHMs(path, hmUsedAt),
				NodesExplored: explored,
			}
		}

		for _, edge := range graph.Neighbors(current, hms, policy, vision) {
			tentative := gScore[current] + edge.Cost
			existing, seen := gScore[edge.To]
			if !seen || tentative < existing {
				cameFrom[edge.To] = current
				gScore[edge.To] = tentative
				if edge.HasHM {
					hmUsedAt[edge.To] = edge.HM
				}
				push(edge.To, tentative)
			}
		}
	}

	if explored >= maxIterations {
		return SinglePathResult{Success: false, NodesExplored: explored, Err: ErrIterationCap}
	}
	return SinglePathResult{Success: false, NodesExplored: explored, Err: ErrUnreachable}
}

func reconstructPath(cameFrom map[Node]Node, goal Node) []Node {
	path := []Node{goal}
	current := goal
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	// reverse into start->goal order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func pathToMoves(path []Node) []Direction {
	if len(path) < 2 {
		return nil
	}
	moves := make([]Direction, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		dx := path[i].X - path[i-1].X
		dy := path[i].Y - path[i-1].Y
		switch {
		case dy < 0:
			moves = append(moves, Up)
		case dy > 0:
			moves = append(moves, Down)
		case dx < 0:
			moves = append(moves, Left)
		case dx > 0:
			moves = append(moves, Right)
		}
	}
	return moves
}

// collectHMs deduplicates the HMs consumed along path in stable
// first-encountered order, per §4.4's "deduplicated set of HMs... restricted
// to the final path".
func collectHMs(path []Node, hmUsedAt map[Node]HM) []HM {
	seen := make(map[HM]bool)
	var out []HM
	for _, n := range path {
		if hm, ok := hmUsedAt[n]; ok && !seen[hm] {
			seen[hm] = true
			out = append(out, hm)
		}
	}
	return out
}
