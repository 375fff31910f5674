package encounter

import (
	"fmt"
	"strings"

	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/monster"
)

var puzzleTypes = []string{"sequence", "pattern", "riddle"}

var puzzleDescriptions = map[string]string{
	"sequence": "A sequence of symbols must be activated in the correct order.",
	"pattern":  "A pattern of lights must be replicated on the control panel.",
	"riddle":   "A cryptic riddle is inscribed on the wall, hinting at a hidden mechanism.",
}

var trapDescriptions = map[string]string{
	"damage":   "A trigger mechanism will release a surge of harmful energy.",
	"status":   "A strange field surrounds the treasure that might affect your capabilities.",
	"teleport": "A spatial distortion seems linked to the treasure container.",
}

var themePrefixes = map[string]string{
	"neon":  "Prismatic",
	"cyber": "Digital",
	"retro": "Vintage",
}

// GenerateCombat creates a combat encounter with 1 + difficulty/2 monsters,
// capped at four.
func GenerateCombat(difficulty int, theme string, src dice.Source) *Encounter {
	e := New(Combat, difficulty, src)

	count := 1 + difficulty/2
	if count > 4 {
		count = 4
	}
	for i := 0; i < count; i++ {
		e.AddMonster(monster.Generate(difficulty, theme, 0, src))
	}

	if count == 1 {
		e.SetDescription(fmt.Sprintf("A %s guards this area.", e.Monsters[0].Name))
	} else {
		e.SetDescription(fmt.Sprintf("A group of %d hostile entities detected.", count))
	}
	return e
}

// GenerateBoss creates the boss fight for a level: one boss two levels above
// the requested difficulty, with a 50% chance of one or two minions.
func GenerateBoss(difficulty int, theme string, src dice.Source) *Encounter {
	e := New(Combat, difficulty+2, src)

	boss := monster.GenerateBoss(difficulty, theme, src)
	e.AddMonster(boss)

	if dice.Chance(src, 0.5) {
		minions := 1 + src.Intn(2)
		for i := 0; i < minions; i++ {
			e.AddMonster(monster.Generate(difficulty-1, theme, 0, src))
		}
	}

	e.SetDescription(fmt.Sprintf("The powerful %s awaits, radiating dangerous energy.", boss.Name))
	return e
}

// GeneratePuzzle creates a puzzle encounter with a themed rare-component
// reward for solving it.
func GeneratePuzzle(difficulty int, theme string, src dice.Source) *Encounter {
	e := New(Puzzle, difficulty, src)
	e.PuzzleType = puzzleTypes[src.Intn(len(puzzleTypes))]
	e.SetDescription(puzzleDescriptions[e.PuzzleType])

	prefix, ok := themePrefixes[theme]
	if !ok {
		prefix = "Mysterious"
	}
	e.AddReward(item.Item{
		Type:  item.TypeRareComponent,
		Name:  prefix + " Data Crystal",
		Value: 10 + difficulty*5,
	})
	return e
}

// GenerateTreasureTrap rolls the 30% chance that a treasure room's hoard is
// trapped. Returns nil when the treasure is unguarded.
func GenerateTreasureTrap(difficulty int, src dice.Source) *Encounter {
	if !dice.Chance(src, 0.3) {
		return nil
	}
	e := New(Trap, difficulty, src)
	e.SetDescription(trapDescriptions[e.TrapType])
	return e
}

// DescribeLoot renders a dropped-loot list for event logs.
func DescribeLoot(loot []item.Item) string {
	if len(loot) == 0 {
		return "nothing of value"
	}
	names := make([]string, len(loot))
	for i, it := range loot {
		if it.Amount > 0 {
			names[i] = fmt.Sprintf("%s x%d", it.Name, it.Amount)
		} else {
			names[i] = it.Name
		}
	}
	return strings.Join(names, ", ")
}
