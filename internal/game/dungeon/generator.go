package dungeon

import (
	"strings"

	"go.uber.org/zap"

	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/encounter"
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/monster"
)

// Generation algorithms and their east/south link probabilities. All three
// currently carve the same style of grid at different densities; the names
// are kept for save compatibility and future variants.
const (
	AlgorithmBSP      = "bsp"
	AlgorithmMaze     = "maze"
	AlgorithmCellular = "cellular"
)

var linkProbabilities = map[string]float64{
	AlgorithmBSP:      0.7,
	AlgorithmMaze:     0.5,
	AlgorithmCellular: 0.6,
}

// Options configures dungeon generation. Zero fields take the defaults of a
// 10x10 level-1 neon dungeon carved with the bsp algorithm.
type Options struct {
	Rows       int
	Cols       int
	Algorithm  string
	LevelNum   int
	Theme      string
	Difficulty int
}

func (o *Options) applyDefaults() {
	if o.Rows == 0 {
		o.Rows = 10
	}
	if o.Cols == 0 {
		o.Cols = 10
	}
	if o.Algorithm == "" {
		o.Algorithm = AlgorithmBSP
	}
	if o.LevelNum == 0 {
		o.LevelNum = 1
	}
	if o.Theme == "" {
		o.Theme = "neon"
	}
	if o.Difficulty == 0 {
		o.Difficulty = 1
	}
}

// Generator builds populated dungeon levels from a dice source. Use a seeded
// source for reproducible layouts.
type Generator struct {
	src    dice.Source
	logger *zap.Logger
}

// NewGenerator creates a generator. A nil logger disables generation logs.
func NewGenerator(src dice.Source, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{src: src, logger: logger}
}

// Generate builds a complete level: carve links, place entrance and exit,
// populate room content, and describe the remaining corridors.
//
// Postcondition: the entrance and exit rooms each have at least one link.
// Full connectivity is not guaranteed; see Level.Reachable.
func (g *Generator) Generate(opts Options) *Level {
	opts.applyDefaults()

	level := NewLevel(opts.Rows, opts.Cols, opts.LevelNum, opts.Theme)

	probability, ok := linkProbabilities[opts.Algorithm]
	if !ok {
		probability = linkProbabilities[AlgorithmBSP]
	}
	g.carveLinks(level, probability)
	g.placeEntranceExit(level)
	g.populate(level, opts.Theme, opts.Difficulty)
	g.describe(level, opts.Theme)

	g.logger.Info("generated dungeon level",
		zap.Int("rows", opts.Rows),
		zap.Int("cols", opts.Cols),
		zap.String("algorithm", opts.Algorithm),
		zap.Int("level", opts.LevelNum),
		zap.Int("reachable_rooms", len(level.Reachable())),
	)
	return level
}

// carveLinks walks the grid in row-major order and opens each room's east
// and south links with the algorithm's probability. Reciprocal links mean
// every room can also gain north and west openings from its neighbors.
func (g *Generator) carveLinks(level *Level, probability float64) {
	for r := 0; r < level.Rows; r++ {
		for c := 0; c < level.Cols; c++ {
			room := level.Rooms[r][c]
			if c < level.Cols-1 && dice.Chance(g.src, probability) {
				level.LinkRooms(room, East)
			}
			if r < level.Rows-1 && dice.Chance(g.src, probability) {
				level.LinkRooms(room, South)
			}
		}
	}
}

// placeEntranceExit puts the entrance at the bottom center and the exit at
// the top center, forcing a link inward when carving left either isolated.
func (g *Generator) placeEntranceExit(level *Level) {
	entranceRow, entranceCol := level.Rows-1, level.Cols/2
	entranceRoom := level.Rooms[entranceRow][entranceCol]
	if len(entranceRoom.LinkList()) == 0 && entranceRow > 0 {
		level.LinkRooms(entranceRoom, North)
	}
	level.SetEntrance(entranceRow, entranceCol)

	exitRow, exitCol := 0, level.Cols/2
	exitRoom := level.Rooms[exitRow][exitCol]
	if len(exitRoom.LinkList()) == 0 && exitRow < level.Rows-1 {
		level.LinkRooms(exitRoom, South)
	}
	level.SetExit(exitRow, exitCol)
}

var componentTypes = []string{"metal", "elemental", "catalyst", "binding", "rune"}

// populate assigns room kinds by quota over a shuffled room list: 40%
// combat, 20% treasure, 10% puzzle, 10% rest, remainder corridors. Rooms
// deeper into the level (lower rows) are harder.
func (g *Generator) populate(level *Level, theme string, difficulty int) {
	numRooms := level.Rows*level.Cols - 2
	numCombat := int(float64(numRooms) * 0.4)
	numTreasure := int(float64(numRooms) * 0.2)
	numPuzzle := int(float64(numRooms) * 0.1)
	numRest := int(float64(numRooms) * 0.1)

	var available []*Room
	for _, row := range level.Rooms {
		for _, room := range row {
			if room != level.Entrance && room != level.Exit {
				available = append(available, room)
			}
		}
	}
	for i := len(available) - 1; i > 0; i-- {
		j := g.src.Intn(i + 1)
		available[i], available[j] = available[j], available[i]
	}

	index := 0
	take := func(n int) []*Room {
		if remaining := len(available) - index; n > remaining {
			n = remaining
		}
		rooms := available[index : index+n]
		index += n
		return rooms
	}

	// roomDifficulty scales with proximity to the exit at the top.
	roomDifficulty := func(room *Room) int {
		return int(float64(difficulty) + float64(level.Rows-room.Row)/float64(level.Rows))
	}

	for _, room := range take(numCombat) {
		room.SetKind(KindCombat)
		d := roomDifficulty(room)
		enc := encounter.New(encounter.Combat, d, g.src)
		enc.AddMonster(monster.Generate(d, theme, 0, g.src))
		room.AddEncounter(enc)
	}

	for _, room := range take(numTreasure) {
		room.SetKind(KindTreasure)
		componentType := componentTypes[g.src.Intn(len(componentTypes))]
		room.AddTreasure(item.Item{
			Type:          item.TypeComponent,
			ComponentType: componentType,
			Name:          capitalize(theme) + " " + capitalize(componentType),
			Value:         5 + roomDifficulty(room)*2,
		})
	}

	for _, room := range take(numPuzzle) {
		room.SetKind(KindPuzzle)
		d := roomDifficulty(room)
		room.AddFeature(Feature{
			Type:        "puzzle",
			Name:        "Neon Circuit Array",
			Description: "A grid of glowing circuits that can be reconfigured to unlock a hidden cache.",
			Difficulty:  d,
		})
		room.AddTreasure(item.Item{
			Type:           item.TypeItem,
			Name:           "Digital Artifact",
			Description:    "A rare item recovered from the puzzle.",
			Value:          10 + d*3,
			RequiresPuzzle: true,
		})
	}

	for _, room := range take(numRest) {
		room.SetKind(KindRest)
		room.AddFeature(Feature{
			Type:        "rest",
			Name:        "Data Stream Confluence",
			Description: "A peaceful merging of data streams that offers rejuvenating properties.",
			HealAmount:  1 + difficulty,
		})
	}
}

var themeAdjectives = map[string][]string{
	"neon":  {"glowing", "pulsing", "vibrant", "luminous", "fluorescent", "iridescent", "radiant"},
	"cyber": {"digital", "electronic", "virtual", "cybernetic", "holographic", "synthetic", "artificial"},
	"retro": {"pixelated", "8-bit", "vintage", "classic", "old-school", "nostalgic", "retro-futuristic"},
}

// describe fills in the rooms generation left undescribed, which after
// SetKind's defaults means the corridors.
func (g *Generator) describe(level *Level, theme string) {
	adjectives, ok := themeAdjectives[theme]
	if !ok {
		adjectives = themeAdjectives["neon"]
	}

	for _, row := range level.Rooms {
		for _, room := range row {
			if room.Description != "" {
				continue
			}
			adjective := adjectives[g.src.Intn(len(adjectives))]
			room.Description = "A " + adjective + " corridor with exits leading " +
				joinDirections(room.LinkNames()) + "."
		}
	}
}

func joinDirections(names []string) string {
	switch len(names) {
	case 0:
		return "nowhere"
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
