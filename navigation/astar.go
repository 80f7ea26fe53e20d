package navigation

import "container/heap"

// openSet is a binary heap of cell indices ordered by F, then H, then the
// order cells were first opened.
type openSet struct {
	cells []Cell
	items []int
}

func (s openSet) Len() int { return len(s.items) }

func (s openSet) Less(i, j int) bool {
	a, b := &s.cells[s.items[i]], &s.cells[s.items[j]]
	if a.F() != b.F() {
		return a.F() < b.F()
	}
	if a.H != b.H {
		return a.H < b.H
	}
	return a.seq < b.seq
}

func (s openSet) Swap(i, j int) {
	s.items[i], s.items[j] = s.items[j], s.items[i]
	s.cells[s.items[i]].heap = i
	s.cells[s.items[j]].heap = j
}

func (s *openSet) Push(x any) {
	idx := x.(int)
	s.cells[idx].heap = len(s.items)
	s.items = append(s.items, idx)
}

func (s *openSet) Pop() any {
	old := s.items
	n := len(old)
	idx := old[n-1]
	s.items = old[:n-1]
	s.cells[idx].heap = -1
	return idx
}

// touch resets c's search fields the first time the current search visits it.
func (g *Grid) touch(c *Cell) {
	if c.stamp == g.searchID {
		return
	}
	c.stamp = g.searchID
	c.G, c.H = 0, 0
	c.parent = -1
	c.open, c.closed = false, false
	c.heap = -1
}

// search runs A* from start to goal and reports whether goal was reached.
// Both ends must be walkable. On success the parent chain from goal leads
// back to start.
func (g *Grid) search(start, goal *Cell, costs Costs) bool {
	if start == nil || goal == nil || !start.Walkable || !goal.Walkable {
		return false
	}
	g.searchID++

	open := &openSet{cells: g.cells}
	seq := 0

	g.touch(start)
	start.H = costs.Distance(start.Coord, goal.Coord)
	start.open = true
	start.seq = seq
	seq++
	heap.Push(open, start.index)

	for open.Len() > 0 {
		current := &g.cells[heap.Pop(open).(int)]
		current.open = false
		current.closed = true

		if current.index == goal.index {
			return true
		}

		g.eachNeighbour(current, func(n *Cell) {
			if !n.Walkable {
				return
			}
			g.touch(n)
			if n.closed {
				return
			}
			cost := current.G + costs.Distance(current.Coord, n.Coord)
			if n.open && cost >= n.G {
				return
			}
			n.G = cost
			n.H = costs.Distance(n.Coord, goal.Coord)
			n.parent = current.index
			if n.open {
				heap.Fix(open, n.heap)
				return
			}
			n.open = true
			n.seq = seq
			seq++
			heap.Push(open, n.index)
		})
	}
	return false
}

// retrace walks parent links from goal back to start and returns the cells in
// start-to-goal order.
func (g *Grid) retrace(start, goal *Cell) []*Cell {
	var path []*Cell
	for c := goal; ; c = &g.cells[c.parent] {
		path = append(path, c)
		if c.index == start.index || c.parent < 0 {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FindCells runs a standalone search between two cells and returns the path,
// or nil when none exists.
func (g *Grid) FindCells(start, goal *Cell, costs Costs) []*Cell {
	if !g.search(start, goal, costs.orDefault()) {
		return nil
	}
	return g.retrace(start, goal)
}
