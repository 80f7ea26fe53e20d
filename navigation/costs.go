package navigation

// Costs weights a move between adjacent cells by how many axes it changes.
type Costs struct {
	Straight     int
	Diagonal     int
	LongDiagonal int
}

var DefaultCosts = Costs{Straight: 10, Diagonal: 14, LongDiagonal: 17}

func (c Costs) orDefault() Costs {
	if c == (Costs{}) {
		return DefaultCosts
	}
	return c
}

// Distance is the octile estimate between a and b: three-axis steps first,
// then two-axis, then straight.
func (c Costs) Distance(a, b Coord) int {
	hi, mid, lo := abs(a.X-b.X), abs(a.Y-b.Y), abs(a.Z-b.Z)
	if hi < mid {
		hi, mid = mid, hi
	}
	if mid < lo {
		mid, lo = lo, mid
	}
	if hi < mid {
		hi, mid = mid, hi
	}
	return c.LongDiagonal*lo + c.Diagonal*(mid-lo) + c.Straight*(hi-mid)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
