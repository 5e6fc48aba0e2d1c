package engine

// Cell is a grid position. Valid cells lie in [0, tileCount) on both axes.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the cell one step from c in direction d.
func (c Cell) Add(d Direction) Cell {
	vx, vy := d.Velocity()
	return Cell{X: c.X + vx, Y: c.Y + vy}
}

// In reports whether c lies inside a tileCount x tileCount grid.
func (c Cell) In(tileCount int) bool {
	return c.X >= 0 && c.X < tileCount && c.Y >= 0 && c.Y < tileCount
}

// Direction is a movement intent. The zero value is DirNone (standing still).
type Direction uint32

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Velocity returns the unit vector for d. Y grows downwards.
func (d Direction) Velocity() (vx, vy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse of d. DirNone has no opposite and maps to itself.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Valid reports whether d is one of the four movement directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}
