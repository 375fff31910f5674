// Package dungeon implements procedural dungeon levels: a grid of rooms
// joined by reciprocal links, three generation algorithms, and a population
// pass that fills rooms with encounters, treasures, and features.
package dungeon

// Direction is a bitmask of grid directions. A Room's Links field holds the
// union of its open directions.
type Direction int

const (
	North Direction = 1
	South Direction = 2
	East  Direction = 4
	West  Direction = 8
)

// Directions returns the four directions in their canonical order.
func Directions() []Direction {
	return []Direction{North, South, East, West}
}

// Opposite returns the reverse direction, used to keep links reciprocal.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return 0
	}
}

// String returns the lowercase direction name used in room descriptions.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Offset returns the row and column deltas for moving in this direction.
// North decreases the row; east increases the column.
func (d Direction) Offset() (rowDelta, colDelta int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	default:
		return 0, 0
	}
}
