package dungeon

import (
	"fmt"

	"github.com/neondnd/isekai/internal/game/character"
	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/encounter"
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/snapshot"
)

// RoomKind classifies a room. The numeric values appear in serialized forms,
// so they are stable; corridors serialize as an absent kind.
type RoomKind int

const (
	KindCorridor RoomKind = -1
	KindEntrance RoomKind = 0
	KindExit     RoomKind = 1
	KindCombat   RoomKind = 2
	KindTreasure RoomKind = 3
	KindPuzzle   RoomKind = 4
	KindRest     RoomKind = 5
	KindBoss     RoomKind = 6
)

// Name returns the display name of the room kind.
func (k RoomKind) Name() string {
	switch k {
	case KindEntrance:
		return "Entrance"
	case KindExit:
		return "Exit"
	case KindCombat:
		return "Combat Chamber"
	case KindTreasure:
		return "Treasure Vault"
	case KindPuzzle:
		return "Puzzle Room"
	case KindRest:
		return "Rest Area"
	case KindBoss:
		return "Boss Chamber"
	default:
		return "Unknown Room"
	}
}

var defaultDescriptions = map[RoomKind]string{
	KindEntrance: "Neon light spills through a gateway as you enter the dungeon. The walls pulse with digital energy, and the air hums with the promise of adventure.",
	KindExit:     "A shimmering portal marks the exit from this level. Beyond it, you can see the digital landscape of the next challenge.",
	KindCombat:   "The room crackles with hostile energy. Digital constructs materialize, their code forming aggressive patterns as they detect your presence.",
	KindTreasure: "Glowing containers line the walls, their contents casting prismatic light across the room. Valuable data and resources await collection.",
	KindPuzzle:   "Strange symbols illuminate panels on the walls. A central pedestal contains an interactive interface that seems to require specific input.",
	KindRest:     "The gentle hum of maintenance protocols fills this room. The aggressive code of the dungeon seems dampened here, offering a moment of respite.",
	KindBoss:     "The room expands into a massive chamber. At its center, a powerful entity composed of concentrated digital energy awaits, its presence distorting the surrounding space.",
}

// Feature is a non-encounter fixture in a room, such as a puzzle mechanism
// or a rest-area heal point.
type Feature struct {
	Type        string
	Name        string
	Description string
	Difficulty  int
	Solved      bool
	HealAmount  int
}

// Room is one cell of the dungeon grid.
type Room struct {
	Row         int
	Col         int
	Links       Direction
	Kind        RoomKind
	Discovered  bool
	Visited     bool
	Encounters  []*encounter.Encounter
	Treasures   []item.Item
	Description string
	Features    []Feature
	Difficulty  int
}

// NewRoom creates an untyped corridor room at the given position.
func NewRoom(row, col int) *Room {
	return &Room{Row: row, Col: col, Kind: KindCorridor, Difficulty: 1}
}

// Linked reports whether the room is open in the given direction.
func (r *Room) Linked(d Direction) bool {
	return r.Links&d != 0
}

// Link opens the room in the given direction. Reciprocity is the level's
// job; use Level.LinkRooms to keep both sides consistent.
func (r *Room) Link(d Direction) {
	r.Links |= d
}

// Unlink closes the room in the given direction.
func (r *Room) Unlink(d Direction) {
	r.Links &^= d
}

// LinkList returns the open directions in canonical order.
func (r *Room) LinkList() []Direction {
	var links []Direction
	for _, d := range Directions() {
		if r.Linked(d) {
			links = append(links, d)
		}
	}
	return links
}

// LinkNames returns the open direction names in canonical order.
func (r *Room) LinkNames() []string {
	var names []string
	for _, d := range r.LinkList() {
		names = append(names, d.String())
	}
	return names
}

// AddEncounter adds an encounter. Returns the room for chaining.
func (r *Room) AddEncounter(e *encounter.Encounter) *Room {
	r.Encounters = append(r.Encounters, e)
	return r
}

// AddTreasure adds a treasure. Returns the room for chaining.
func (r *Room) AddTreasure(t item.Item) *Room {
	r.Treasures = append(r.Treasures, t)
	return r
}

// AddFeature adds a feature. Returns the room for chaining.
func (r *Room) AddFeature(f Feature) *Room {
	r.Features = append(r.Features, f)
	return r
}

// SetDescription sets the room description. Returns the room for chaining.
func (r *Room) SetDescription(desc string) *Room {
	r.Description = desc
	return r
}

// SetKind assigns the room kind and, when the room has no description yet,
// the kind's default description.
func (r *Room) SetKind(kind RoomKind) *Room {
	r.Kind = kind
	if r.Description == "" {
		r.Description = defaultDescriptions[kind]
	}
	return r
}

// SetDifficulty sets the room difficulty. Returns the room for chaining.
func (r *Room) SetDifficulty(difficulty int) *Room {
	r.Difficulty = difficulty
	return r
}

// IsCleared reports whether every encounter in the room is completed. Rooms
// without encounters count as cleared.
func (r *Room) IsCleared() bool {
	for _, e := range r.Encounters {
		if !e.Completed {
			return false
		}
	}
	return true
}

// EnterResult reports what happened when a character stepped into a room.
type EnterResult struct {
	Events              []string
	EncountersTriggered bool
	TreasuresFound      []item.Item
}

// Enter processes a character stepping into the room: combat rooms with
// pending encounters raise the alarm, treasure rooms grant a perception
// check against difficulty 10 that reveals every unfound treasure at once,
// and rest areas heal 1d6 HP on every entry.
func (r *Room) Enter(ch *character.Character, src dice.Source) EnterResult {
	r.Visited = true

	result := EnterResult{
		Events: []string{"You enter " + r.Kind.Name() + "."},
	}

	if r.Kind == KindCombat && len(r.Encounters) > 0 && !r.IsCleared() {
		result.EncountersTriggered = true
		result.Events = append(result.Events, "Hostile entities detected!")
	}

	if r.Kind == KindTreasure && len(r.Treasures) > 0 {
		check := dice.Check(src, ch.Attributes.WisMod(), 10)
		if check.Success {
			for i := range r.Treasures {
				if !r.Treasures[i].Found {
					r.Treasures[i].Found = true
					result.TreasuresFound = append(result.TreasuresFound, r.Treasures[i])
				}
			}
			if len(result.TreasuresFound) > 0 {
				result.Events = append(result.Events,
					fmt.Sprintf("You found %d items!", len(result.TreasuresFound)))
			}
		}
	}

	if r.Kind == KindRest {
		healAmount := dice.RollDie(src, 6)
		if ch.HP < ch.MaxHP {
			ch.Heal(healAmount)
			result.Events = append(result.Events,
				fmt.Sprintf("The room's restorative protocols heal you for %d HP.", healAmount))
		}
	}

	return result
}

func featureToMap(f Feature) snapshot.Map {
	m := snapshot.Map{
		"type": f.Type,
		"name": f.Name,
	}
	if f.Description != "" {
		m["description"] = f.Description
	}
	if f.Type == "puzzle" {
		m["difficulty"] = f.Difficulty
		m["solved"] = f.Solved
	}
	if f.HealAmount != 0 {
		m["heal_amount"] = f.HealAmount
	}
	return m
}

func featureFromMap(m snapshot.Map) Feature {
	return Feature{
		Type:        snapshot.String(m, "type"),
		Name:        snapshot.String(m, "name"),
		Description: snapshot.String(m, "description"),
		Difficulty:  snapshot.Int(m, "difficulty"),
		Solved:      snapshot.Bool(m, "solved"),
		HealAmount:  snapshot.Int(m, "heal_amount"),
	}
}

// ToMap converts the room to its serialized mapping form. Corridor rooms
// serialize with a nil room_type.
func (r *Room) ToMap() snapshot.Map {
	var kind any
	if r.Kind != KindCorridor {
		kind = int(r.Kind)
	}

	encounters := make([]snapshot.Map, len(r.Encounters))
	for i, e := range r.Encounters {
		encounters[i] = e.ToMap()
	}
	var features []snapshot.Map
	for _, f := range r.Features {
		features = append(features, featureToMap(f))
	}

	return snapshot.Map{
		"row":         r.Row,
		"col":         r.Col,
		"links":       int(r.Links),
		"room_type":   kind,
		"discovered":  r.Discovered,
		"visited":     r.Visited,
		"encounters":  encounters,
		"treasures":   item.SliceToMaps(r.Treasures),
		"description": r.Description,
		"features":    features,
		"difficulty":  r.Difficulty,
	}
}

// RoomFromMap restores a room from its serialized mapping form.
func RoomFromMap(m snapshot.Map) *Room {
	r := NewRoom(snapshot.Int(m, "row"), snapshot.Int(m, "col"))
	r.Links = Direction(snapshot.Int(m, "links"))
	if m["room_type"] != nil {
		r.Kind = RoomKind(snapshot.Int(m, "room_type"))
	}
	r.Discovered = snapshot.Bool(m, "discovered")
	r.Visited = snapshot.Bool(m, "visited")
	for _, em := range snapshot.MapSlice(m, "encounters") {
		r.Encounters = append(r.Encounters, encounter.FromMap(em))
	}
	r.Treasures = item.SliceFromMaps(snapshot.MapSlice(m, "treasures"))
	r.Description = snapshot.String(m, "description")
	for _, fm := range snapshot.MapSlice(m, "features") {
		r.Features = append(r.Features, featureFromMap(fm))
	}
	r.Difficulty = snapshot.Int(m, "difficulty")
	return r
}
