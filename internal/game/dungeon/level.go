package dungeon

import (
	"fmt"

	"github.com/neondnd/isekai/internal/game/snapshot"
)

// Level is one dungeon level: a rows-by-cols grid of rooms with an entrance
// on the bottom edge and an exit on the top edge.
type Level struct {
	Rows        int
	Cols        int
	LevelNum    int
	Theme       string
	Rooms       [][]*Room
	Entrance    *Room
	Exit        *Room
	Name        string
	Description string
}

// NewLevel creates an empty level of untyped, unlinked rooms.
//
// Precondition: rows >= 1 and cols >= 1.
func NewLevel(rows, cols, levelNum int, theme string) *Level {
	rooms := make([][]*Room, rows)
	for r := range rooms {
		rooms[r] = make([]*Room, cols)
		for c := range rooms[r] {
			rooms[r][c] = NewRoom(r, c)
		}
	}
	return &Level{
		Rows:        rows,
		Cols:        cols,
		LevelNum:    levelNum,
		Theme:       theme,
		Rooms:       rooms,
		Name:        fmt.Sprintf("Level %d: The Digital Deep", levelNum),
		Description: "A labyrinthine network of neon corridors stretching into the digital unknown.",
	}
}

// IsValid reports whether the position is inside the grid.
func (l *Level) IsValid(row, col int) bool {
	return row >= 0 && row < l.Rows && col >= 0 && col < l.Cols
}

// At returns the room at the given position.
func (l *Level) At(row, col int) (*Room, error) {
	if !l.IsValid(row, col) {
		return nil, fmt.Errorf("dungeon: room position (%d, %d) is outside the level", row, col)
	}
	return l.Rooms[row][col], nil
}

// Adjacent returns the neighboring room in the given direction, or nil at
// the grid edge.
func (l *Level) Adjacent(room *Room, d Direction) *Room {
	rowDelta, colDelta := d.Offset()
	row, col := room.Row+rowDelta, room.Col+colDelta
	if !l.IsValid(row, col) {
		return nil
	}
	return l.Rooms[row][col]
}

// LinkRooms opens a reciprocal link from room in the given direction.
// Returns false without linking when the neighbor is off the grid.
//
// Invariant: after a successful link, room.Linked(d) and
// neighbor.Linked(d.Opposite()) both hold.
func (l *Level) LinkRooms(room *Room, d Direction) bool {
	neighbor := l.Adjacent(room, d)
	if neighbor == nil {
		return false
	}
	room.Link(d)
	neighbor.Link(d.Opposite())
	return true
}

// SetEntrance marks the room at the position as the level entrance.
func (l *Level) SetEntrance(row, col int) error {
	room, err := l.At(row, col)
	if err != nil {
		return err
	}
	room.SetKind(KindEntrance)
	l.Entrance = room
	return nil
}

// SetExit marks the room at the position as the level exit.
func (l *Level) SetExit(row, col int) error {
	room, err := l.At(row, col)
	if err != nil {
		return err
	}
	room.SetKind(KindExit)
	l.Exit = room
	return nil
}

// DiscoverRoom marks the room at the position discovered, along with every
// room it links to.
func (l *Level) DiscoverRoom(row, col int) (*Room, error) {
	room, err := l.At(row, col)
	if err != nil {
		return nil, err
	}
	room.Discovered = true
	for _, d := range Directions() {
		if room.Linked(d) {
			if adjacent := l.Adjacent(room, d); adjacent != nil {
				adjacent.Discovered = true
			}
		}
	}
	return room, nil
}

// Reachable returns every room reachable from the entrance by following
// links. Generation does not guarantee full connectivity, so callers that
// need a connected level should check the result against Rows*Cols.
func (l *Level) Reachable() []*Room {
	if l.Entrance == nil {
		return nil
	}
	visited := make(map[*Room]bool, l.Rows*l.Cols)
	queue := []*Room{l.Entrance}
	visited[l.Entrance] = true
	var reachable []*Room
	for len(queue) > 0 {
		room := queue[0]
		queue = queue[1:]
		reachable = append(reachable, room)
		for _, d := range Directions() {
			if !room.Linked(d) {
				continue
			}
			if next := l.Adjacent(room, d); next != nil && !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reachable
}

// ToMap converts the level to its serialized mapping form. Rooms are stored
// as a flat row-major list; entrance and exit as [row, col] pairs.
func (l *Level) ToMap() snapshot.Map {
	rooms := make([]snapshot.Map, 0, l.Rows*l.Cols)
	for _, row := range l.Rooms {
		for _, room := range row {
			rooms = append(rooms, room.ToMap())
		}
	}

	var entrance, exit any
	if l.Entrance != nil {
		entrance = []int{l.Entrance.Row, l.Entrance.Col}
	}
	if l.Exit != nil {
		exit = []int{l.Exit.Row, l.Exit.Col}
	}

	return snapshot.Map{
		"rows":        l.Rows,
		"cols":        l.Cols,
		"level_num":   l.LevelNum,
		"theme":       l.Theme,
		"rooms":       rooms,
		"entrance":    entrance,
		"exit":        exit,
		"name":        l.Name,
		"description": l.Description,
	}
}

// FromMap restores a level from its serialized mapping form.
func FromMap(m snapshot.Map) (*Level, error) {
	l := NewLevel(
		snapshot.Int(m, "rows"),
		snapshot.Int(m, "cols"),
		snapshot.Int(m, "level_num"),
		snapshot.String(m, "theme"),
	)

	for _, rm := range snapshot.MapSlice(m, "rooms") {
		room := RoomFromMap(rm)
		if !l.IsValid(room.Row, room.Col) {
			return nil, fmt.Errorf("dungeon: serialized room at (%d, %d) is outside a %dx%d level",
				room.Row, room.Col, l.Rows, l.Cols)
		}
		l.Rooms[room.Row][room.Col] = room
	}

	if pos := intPair(m["entrance"]); pos != nil {
		room, err := l.At(pos[0], pos[1])
		if err != nil {
			return nil, err
		}
		l.Entrance = room
	}
	if pos := intPair(m["exit"]); pos != nil {
		room, err := l.At(pos[0], pos[1])
		if err != nil {
			return nil, err
		}
		l.Exit = room
	}

	l.Name = snapshot.String(m, "name")
	l.Description = snapshot.String(m, "description")
	return l, nil
}

// intPair reads a [row, col] position that may have round-tripped through
// JSON as []any of float64.
func intPair(v any) []int {
	switch pair := v.(type) {
	case []int:
		if len(pair) == 2 {
			return pair
		}
	case []any:
		if len(pair) == 2 {
			out := make([]int, 2)
			for i, e := range pair {
				switch n := e.(type) {
				case int:
					out[i] = n
				case float64:
					out[i] = int(n)
				default:
					return nil
				}
			}
			return out
		}
	}
	return nil
}
