package board

// WallGraph is the shared-edge wall store (component A). Design Notes §9 call for two dense
// boolean arrays rather than aliased per-cell references: one for the 7x8 vertical inter-column
// edges, one for the 8x7 horizontal inter-row edges. A cell's wall query resolves through this
// map, which gives invariant W1 (shared observation) by construction rather than by aliasing.
type WallGraph struct {
	vertical   [7 * 8]bool // edge between (row,col) and (row,col+1), col 0..6
	horizontal [8 * 7]bool // edge between (row,col) and (row+1,col), row 0..6
}

// NewWallGraph returns an empty wall graph (no walls built).
func NewWallGraph() *WallGraph {
	return &WallGraph{}
}

// resolve maps a (square, direction) pair to the shared edge slot. ok is false iff the
// direction points off the board (W2: no wall boolean exists for a board-edge direction).
func (g *WallGraph) resolve(s Square, d Direction) (arr *[56]bool, idx int, ok bool) {
	row, col := s.Row(), s.Col()
	switch d {
	case Right:
		if col == 7 {
			return nil, 0, false
		}
		return (*[56]bool)(&g.vertical), row*7 + col, true
	case Left:
		if col == 0 {
			return nil, 0, false
		}
		return (*[56]bool)(&g.vertical), row*7 + (col - 1), true
	case Down:
		if row == 7 {
			return nil, 0, false
		}
		return (*[56]bool)(&g.horizontal), row*8 + col, true
	case Up:
		if row == 0 {
			return nil, 0, false
		}
		return (*[56]bool)(&g.horizontal), (row-1)*8 + col, true
	default:
		return nil, 0, false
	}
}

// Has returns whether a wall exists on the given edge, and whether that edge has a wall
// reference at all (false at the board boundary, per W2).
func (g *WallGraph) Has(s Square, d Direction) (present, hasRef bool) {
	arr, idx, ok := g.resolve(s, d)
	if !ok {
		return false, false
	}
	return arr[idx], true
}

// Set toggles the shared edge boolean observed from s in direction d. Reports false if the
// direction has no wall reference (board edge); the edge is otherwise set from both owning
// cells simultaneously (I1), since both resolve to the same backing slot.
func (g *WallGraph) Set(s Square, d Direction, v bool) bool {
	arr, idx, ok := g.resolve(s, d)
	if !ok {
		return false
	}
	arr[idx] = v
	return true
}

// Blocked reports whether a straight slide step from s in direction d is blocked: the wall
// is present, or the direction runs off the board (missing references count as present, so
// iteration naturally terminates at the edge of the board; §4.D).
func (g *WallGraph) Blocked(s Square, d Direction) bool {
	present, hasRef := g.Has(s, d)
	return present || !hasRef
}

func opposite(d Direction) Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// components splits a diagonal into its row-axis and column-axis cardinal directions.
func components(diag Diagonal) (rowDir, colDir Direction) {
	switch diag {
	case UpLeft:
		return Up, Left
	case UpRight:
		return Up, Right
	case DownLeft:
		return Down, Left
	default: // DownRight
		return Down, Right
	}
}
