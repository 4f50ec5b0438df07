package pathfind

import (
	"container/heap"

	"tankbattle/pkg/geometry"
)

// openNode is one entry in the A* open set.
type openNode struct {
	pos         geometry.Position
	orientation geometry.Orientation // orientation of travel arriving at pos
	g           float64
	f           float64
	order       int // insertion order, used to break f ties
	index       int // heap.Interface bookkeeping
}

type openQueue []*openNode

func (q openQueue) Len() int { return len(q) }
func (q openQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].order < q[j].order
}
func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index, q[j].index = i, j
}
func (q *openQueue) Push(x any) {
	n := x.(*openNode)
	n.index = len(*q)
	*q = append(*q, n)
}
func (q *openQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// FindPath runs A* over the 8-connected grid from start to goal, using nav
// for walkability and cost. startOrientation is the orientation the tank is
// facing before it takes its first step -- it seeds the turning-cost
// heuristic for the first expansion.
//
// The result is the reverse path from goal back to (but excluding) start:
// result[0] is the goal, result[len-1] is the first cell the tank must step
// into. An unreachable goal returns an empty slice.
func FindPath(nav Navigator, size geometry.WorldSize, start, goal geometry.Position, startOrientation geometry.Orientation) []geometry.Position {
	if start == goal {
		return nil
	}

	open := &openQueue{}
	heap.Init(open)

	gScore := map[geometry.Position]float64{start: 0}
	cameFrom := map[geometry.Position]geometry.Position{}

	counter := 0
	push := func(pos geometry.Position, orientation geometry.Orientation, g float64) {
		heap.Push(open, &openNode{
			pos:         pos,
			orientation: orientation,
			g:           g,
			f:           g + nav.Distance(pos, goal),
			order:       counter,
		})
		counter++
	}
	push(start, startOrientation, 0)

	for open.Len() > 0 {
		current := heap.Pop(open).(*openNode)

		if best, ok := gScore[current.pos]; ok && current.g > best {
			continue // stale entry superseded by a cheaper path already processed
		}
		if current.pos == goal {
			return reconstruct(cameFrom, start, goal)
		}

		for _, next := range current.pos.ListAdjacentPositions(size) {
			if !Walkable(nav.CellAt(next)) {
				continue
			}
			stepOrientation, ok := geometry.FindAlignment(current.pos, next)
			if !ok {
				continue
			}
			cost := 1 + float64(nav.TurningSteps(current.orientation, stepOrientation))
			tentativeG := current.g + cost

			if best, seen := gScore[next]; seen && tentativeG >= best {
				continue
			}
			gScore[next] = tentativeG
			cameFrom[next] = current.pos
			push(next, stepOrientation, tentativeG)
		}
	}
	return nil
}

func reconstruct(cameFrom map[geometry.Position]geometry.Position, start, goal geometry.Position) []geometry.Position {
	path := []geometry.Position{}
	cur := goal
	for cur != start {
		path = append(path, cur)
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		cur = prev
	}
	return path
}
