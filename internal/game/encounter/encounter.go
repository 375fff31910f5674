// Package encounter implements the content of dangerous rooms: combat groups
// with optional ambushes, saving-throw traps, and puzzles with rewards.
package encounter

import (
	"github.com/neondnd/isekai/internal/game/character"
	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/monster"
	"github.com/neondnd/isekai/internal/game/snapshot"
	"github.com/neondnd/isekai/internal/game/stats"
)

// Kind classifies an encounter. The numeric values appear in serialized
// forms, so they are stable.
type Kind int

const (
	Combat Kind = 1
	Trap   Kind = 2
	Puzzle Kind = 3
)

// Trap varieties and the statuses a status trap can inflict.
var (
	trapTypes    = []string{"damage", "status", "teleport"}
	trapStatuses = []string{"poison", "slow", "weaken"}
)

// TrapEffect describes what a sprung trap does and how it is avoided. The
// save is a standard check of the named attribute against SaveDifficulty.
type TrapEffect struct {
	Type           string
	Damage         int
	Status         string
	Duration       int
	Distance       int
	Avoidable      bool
	SaveAttribute  string
	SaveDifficulty int
}

// Encounter is the content of one dangerous room. Only the fields for its
// Kind are meaningful: combat encounters carry Monsters and Ambush, traps
// carry TrapType/Detected/Disarmed/Effect, puzzles carry the puzzle fields.
type Encounter struct {
	Kind        Kind
	Difficulty  int
	Completed   bool
	Description string
	Rewards     []item.Item

	// Combat
	Monsters []*monster.Monster
	Ambush   bool

	// Trap
	TrapType string
	Detected bool
	Disarmed bool
	Effect   TrapEffect

	// Puzzle
	PuzzleType string
	Hints      []string
	Solution   string
	Solved     bool
	Reward     *item.Item
}

// New creates an encounter of the given kind. Combat encounters roll their
// 30% ambush chance; traps pick a type and generate their effect; puzzles
// pick a type. Monsters and rewards are added by the caller or a generator.
func New(kind Kind, difficulty int, src dice.Source) *Encounter {
	e := &Encounter{Kind: kind, Difficulty: difficulty}
	switch kind {
	case Combat:
		e.Ambush = dice.Chance(src, 0.3)
	case Trap:
		e.TrapType = trapTypes[src.Intn(len(trapTypes))]
		e.Effect = generateTrapEffect(e.TrapType, difficulty, src)
	case Puzzle:
		e.PuzzleType = puzzleTypes[src.Intn(len(puzzleTypes))]
	}
	return e
}

// generateTrapEffect builds the effect table for a trap type. Every trap is
// avoidable with a save at 10 + difficulty; the save attribute depends on
// how the trap works.
func generateTrapEffect(trapType string, difficulty int, src dice.Source) TrapEffect {
	switch trapType {
	case "damage":
		return TrapEffect{
			Type:           "damage",
			Damage:         2 + difficulty,
			Avoidable:      true,
			SaveAttribute:  stats.Dexterity,
			SaveDifficulty: 10 + difficulty,
		}
	case "status":
		return TrapEffect{
			Type:           "status",
			Status:         trapStatuses[src.Intn(len(trapStatuses))],
			Duration:       1 + difficulty/2,
			Avoidable:      true,
			SaveAttribute:  stats.Strength,
			SaveDifficulty: 10 + difficulty,
		}
	case "teleport":
		return TrapEffect{
			Type:           "teleport",
			Distance:       1 + difficulty/2,
			Avoidable:      true,
			SaveAttribute:  stats.Wisdom,
			SaveDifficulty: 10 + difficulty,
		}
	default:
		return TrapEffect{}
	}
}

// AddMonster adds a monster to a combat encounter; other kinds ignore it.
// Returns the encounter for chaining.
func (e *Encounter) AddMonster(m *monster.Monster) *Encounter {
	if e.Kind == Combat {
		e.Monsters = append(e.Monsters, m)
	}
	return e
}

// AddReward adds a completion reward. Returns the encounter for chaining.
func (e *Encounter) AddReward(reward item.Item) *Encounter {
	e.Rewards = append(e.Rewards, reward)
	return e
}

// SetDescription sets the encounter description. Returns the encounter for
// chaining.
func (e *Encounter) SetDescription(desc string) *Encounter {
	e.Description = desc
	return e
}

// Defeated reports whether every monster in a combat encounter is down.
func (e *Encounter) Defeated() bool {
	for _, m := range e.Monsters {
		if m.Alive() {
			return false
		}
	}
	return true
}

// Complete marks the encounter finished and returns everything it yields:
// for combat, each monster's loot is rolled; encounter rewards are always
// included.
func (e *Encounter) Complete(src dice.Source) []item.Item {
	e.Completed = true

	var collected []item.Item
	if e.Kind == Combat {
		for _, m := range e.Monsters {
			collected = append(collected, m.RollLoot(src)...)
		}
	}
	collected = append(collected, e.Rewards...)
	return collected
}

// TrapResult reports the outcome of springing a trap: the saving throw, and
// the effect values that actually landed.
type TrapResult struct {
	Check       dice.CheckResult
	Avoided     bool
	Effect      TrapEffect
	DamageDealt int
	Status      string
	Duration    int
	Distance    int
}

// ResolveTrap springs a trap encounter against a character. The character
// saves with the effect's attribute modifier against its difficulty; on a
// failed save a damage trap wounds the character directly, while status and
// teleport traps report what the caller must apply. Ties save.
func (e *Encounter) ResolveTrap(ch *character.Character, src dice.Source) TrapResult {
	if e.Kind != Trap {
		return TrapResult{Avoided: true}
	}

	check := dice.Check(src, ch.Attributes.Mod(e.Effect.SaveAttribute), e.Effect.SaveDifficulty)
	result := TrapResult{
		Check:   check,
		Avoided: e.Effect.Avoidable && check.Success,
		Effect:  e.Effect,
	}
	if result.Avoided {
		return result
	}

	switch e.Effect.Type {
	case "damage":
		result.DamageDealt = e.Effect.Damage
		ch.HP -= e.Effect.Damage
		if ch.HP < 0 {
			ch.HP = 0
		}
	case "status":
		result.Status = e.Effect.Status
		result.Duration = e.Effect.Duration
	case "teleport":
		result.Distance = e.Effect.Distance
	}
	return result
}

// ToMap converts the encounter to its serialized mapping form. Only the
// fields for the encounter's kind are emitted.
func (e *Encounter) ToMap() snapshot.Map {
	m := snapshot.Map{
		"encounter_type": int(e.Kind),
		"difficulty":     e.Difficulty,
		"completed":      e.Completed,
		"description":    e.Description,
		"rewards":        item.SliceToMaps(e.Rewards),
	}
	switch e.Kind {
	case Combat:
		monsters := make([]snapshot.Map, len(e.Monsters))
		for i, mon := range e.Monsters {
			monsters[i] = mon.ToMap()
		}
		m["monsters"] = monsters
		m["ambush"] = e.Ambush
	case Trap:
		m["trap_type"] = e.TrapType
		m["detected"] = e.Detected
		m["disarmed"] = e.Disarmed
		m["effect"] = trapEffectToMap(e.Effect)
	case Puzzle:
		m["puzzle_type"] = e.PuzzleType
		m["hints"] = e.Hints
		m["solution"] = e.Solution
		m["solved"] = e.Solved
		if e.Reward != nil {
			m["reward"] = e.Reward.ToMap()
		} else {
			m["reward"] = nil
		}
	}
	return m
}

// FromMap restores an encounter from its serialized mapping form.
func FromMap(m snapshot.Map) *Encounter {
	e := &Encounter{
		Kind:        Kind(snapshot.Int(m, "encounter_type")),
		Difficulty:  snapshot.Int(m, "difficulty"),
		Completed:   snapshot.Bool(m, "completed"),
		Description: snapshot.String(m, "description"),
		Rewards:     item.SliceFromMaps(snapshot.MapSlice(m, "rewards")),
	}
	switch e.Kind {
	case Combat:
		for _, mm := range snapshot.MapSlice(m, "monsters") {
			e.Monsters = append(e.Monsters, monster.FromMap(mm))
		}
		e.Ambush = snapshot.Bool(m, "ambush")
	case Trap:
		e.TrapType = snapshot.String(m, "trap_type")
		e.Detected = snapshot.Bool(m, "detected")
		e.Disarmed = snapshot.Bool(m, "disarmed")
		e.Effect = trapEffectFromMap(snapshot.Nested(m, "effect"))
	case Puzzle:
		e.PuzzleType = snapshot.String(m, "puzzle_type")
		e.Hints = snapshot.StringSlice(m, "hints")
		e.Solution = snapshot.String(m, "solution")
		e.Solved = snapshot.Bool(m, "solved")
		if rm := snapshot.Nested(m, "reward"); rm != nil {
			reward := item.FromMap(rm)
			e.Reward = &reward
		}
	}
	return e
}

func trapEffectToMap(effect TrapEffect) snapshot.Map {
	m := snapshot.Map{
		"type":            effect.Type,
		"avoidable":       effect.Avoidable,
		"save_attribute":  effect.SaveAttribute,
		"save_difficulty": effect.SaveDifficulty,
	}
	switch effect.Type {
	case "damage":
		m["damage"] = effect.Damage
	case "status":
		m["status"] = effect.Status
		m["duration"] = effect.Duration
	case "teleport":
		m["distance"] = effect.Distance
	}
	return m
}

func trapEffectFromMap(m snapshot.Map) TrapEffect {
	return TrapEffect{
		Type:           snapshot.String(m, "type"),
		Damage:         snapshot.Int(m, "damage"),
		Status:         snapshot.String(m, "status"),
		Duration:       snapshot.Int(m, "duration"),
		Distance:       snapshot.Int(m, "distance"),
		Avoidable:      snapshot.Bool(m, "avoidable"),
		SaveAttribute:  snapshot.String(m, "save_attribute"),
		SaveDifficulty: snapshot.Int(m, "save_difficulty"),
	}
}
