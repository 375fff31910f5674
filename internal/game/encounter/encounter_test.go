package encounter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/neondnd/isekai/internal/game/character"
	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/monster"
	"github.com/neondnd/isekai/internal/game/stats"
)

// fixedSource returns a canned sequence of Intn results for deterministic
// checks, falling back to zero when exhausted.
type fixedSource struct {
	values []int
	pos    int
}

func (f *fixedSource) Intn(n int) int {
	if f.pos >= len(f.values) {
		return 0
	}
	v := f.values[f.pos] % n
	f.pos++
	return v
}

func testCharacter(t *testing.T, str, dex, wis int) *character.Character {
	t.Helper()
	ch, err := character.New("Rin", "Wanderer", "origin",
		&stats.Attributes{Strength: str, Dexterity: dex, Wisdom: wis}, nil)
	require.NoError(t, err)
	return ch
}

func TestGenerateCombatScalesMonsterCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		difficulty := rapid.IntRange(1, 12).Draw(t, "difficulty")
		src := dice.NewSeededSource(rapid.Int64().Draw(t, "seed"))

		e := GenerateCombat(difficulty, "neon", src)

		want := 1 + difficulty/2
		if want > 4 {
			want = 4
		}
		require.Len(t, e.Monsters, want)
		assert.Equal(t, Combat, e.Kind)
		assert.Equal(t, difficulty, e.Difficulty)
		if want == 1 {
			assert.Contains(t, e.Description, e.Monsters[0].Name)
		} else {
			assert.Contains(t, e.Description, "hostile entities")
		}
	})
}

func TestGenerateBossEncounter(t *testing.T) {
	src := dice.NewSeededSource(1)
	e := GenerateBoss(3, "neon", src)

	assert.Equal(t, 5, e.Difficulty, "boss rooms run two difficulty steps hot")
	require.NotEmpty(t, e.Monsters)
	boss := e.Monsters[0]
	assert.Equal(t, 5, boss.Level)
	assert.LessOrEqual(t, len(e.Monsters), 3, "at most two minions join the boss")
	assert.Contains(t, e.Description, boss.Name)
}

func TestTrapGeneratesSaveTable(t *testing.T) {
	cases := []struct {
		trapIndex int
		trapType  string
		saveAttr  string
	}{
		{0, "damage", stats.Dexterity},
		{1, "status", stats.Strength},
		{2, "teleport", stats.Wisdom},
	}
	for _, tc := range cases {
		t.Run(tc.trapType, func(t *testing.T) {
			src := &fixedSource{values: []int{tc.trapIndex, 0}}
			e := New(Trap, 4, src)

			assert.Equal(t, tc.trapType, e.TrapType)
			assert.Equal(t, tc.trapType, e.Effect.Type)
			assert.True(t, e.Effect.Avoidable)
			assert.Equal(t, tc.saveAttr, e.Effect.SaveAttribute)
			assert.Equal(t, 14, e.Effect.SaveDifficulty)
		})
	}
}

func TestResolveTrapDamageAppliesOnFailedSave(t *testing.T) {
	// Dice of 1,1,1 guarantee a failed save against difficulty 14.
	src := &fixedSource{values: []int{0, 0, 0}}
	e := &Encounter{
		Kind:       Trap,
		Difficulty: 4,
		TrapType:   "damage",
		Effect: TrapEffect{
			Type:           "damage",
			Damage:         6,
			Avoidable:      true,
			SaveAttribute:  stats.Dexterity,
			SaveDifficulty: 14,
		},
	}
	ch := testCharacter(t, 10, 10, 10)
	startHP := ch.HP

	result := e.ResolveTrap(ch, src)
	assert.False(t, result.Avoided)
	assert.Equal(t, 6, result.DamageDealt)
	assert.Equal(t, startHP-6, ch.HP)
}

func TestResolveTrapSaveAvoidsEverything(t *testing.T) {
	// Dice of 6,6,6 guarantee the save.
	src := &fixedSource{values: []int{5, 5, 5}}
	e := &Encounter{
		Kind:     Trap,
		TrapType: "damage",
		Effect: TrapEffect{
			Type:           "damage",
			Damage:         6,
			Avoidable:      true,
			SaveAttribute:  stats.Dexterity,
			SaveDifficulty: 14,
		},
	}
	ch := testCharacter(t, 10, 10, 10)
	startHP := ch.HP

	result := e.ResolveTrap(ch, src)
	assert.True(t, result.Avoided)
	assert.Zero(t, result.DamageDealt)
	assert.Equal(t, startHP, ch.HP)
}

func TestResolveTrapTieSaves(t *testing.T) {
	// 5+5+4 = 14 exactly against difficulty 14: ties succeed.
	src := &fixedSource{values: []int{4, 4, 3}}
	e := &Encounter{
		Kind:     Trap,
		TrapType: "status",
		Effect: TrapEffect{
			Type:           "status",
			Status:         "poison",
			Duration:       3,
			Avoidable:      true,
			SaveAttribute:  stats.Strength,
			SaveDifficulty: 14,
		},
	}
	ch := testCharacter(t, 10, 10, 10)

	result := e.ResolveTrap(ch, src)
	assert.True(t, result.Avoided)
	assert.Empty(t, result.Status)
}

func TestResolveTrapNeverDropsBelowZero(t *testing.T) {
	src := &fixedSource{values: []int{0, 0, 0}}
	e := &Encounter{
		Kind:     Trap,
		TrapType: "damage",
		Effect: TrapEffect{
			Type:           "damage",
			Damage:         1000,
			Avoidable:      true,
			SaveAttribute:  stats.Dexterity,
			SaveDifficulty: 14,
		},
	}
	ch := testCharacter(t, 10, 10, 10)

	e.ResolveTrap(ch, src)
	assert.Zero(t, ch.HP)
}

func TestCompleteCollectsMonsterLootAndRewards(t *testing.T) {
	src := dice.NewSeededSource(2)
	e := GenerateCombat(4, "neon", src)
	e.AddReward(item.Item{Type: item.TypeRareItem, Name: "Bonus Cache", Value: 5})

	loot := e.Complete(src)
	assert.True(t, e.Completed)

	// Digital essence drops unconditionally from every monster, plus the
	// explicit reward.
	essence := 0
	bonus := 0
	for _, it := range loot {
		switch it.Name {
		case "Digital Essence":
			essence++
		case "Bonus Cache":
			bonus++
		}
	}
	assert.Equal(t, len(e.Monsters), essence)
	assert.Equal(t, 1, bonus)
}

func TestGenerateTreasureTrap(t *testing.T) {
	hits := 0
	for seed := int64(0); seed < 200; seed++ {
		if e := GenerateTreasureTrap(2, dice.NewSeededSource(seed)); e != nil {
			hits++
			assert.Equal(t, Trap, e.Kind)
			assert.NotEmpty(t, e.Description)
		}
	}
	assert.Greater(t, hits, 20, "roughly 30%% of treasure rooms are trapped")
	assert.Less(t, hits, 120)
}

func TestGeneratePuzzleReward(t *testing.T) {
	src := dice.NewSeededSource(3)
	e := GeneratePuzzle(3, "retro", src)

	assert.Equal(t, Puzzle, e.Kind)
	assert.Contains(t, puzzleTypes, e.PuzzleType)
	assert.Equal(t, puzzleDescriptions[e.PuzzleType], e.Description)
	require.Len(t, e.Rewards, 1)
	assert.Equal(t, "Vintage Data Crystal", e.Rewards[0].Name)
	assert.Equal(t, 25, e.Rewards[0].Value)
}

func TestDefeated(t *testing.T) {
	src := dice.NewSeededSource(4)
	e := New(Combat, 1, src)
	e.AddMonster(monster.Generate(1, "neon", 0, src))
	e.AddMonster(monster.Generate(1, "neon", 0, src))

	assert.False(t, e.Defeated())
	e.Monsters[0].HP = 0
	assert.False(t, e.Defeated())
	e.Monsters[1].HP = 0
	assert.True(t, e.Defeated())
}

func TestSerializationRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := dice.NewSeededSource(rapid.Int64().Draw(t, "seed"))
		difficulty := rapid.IntRange(1, 6).Draw(t, "difficulty")

		var e *Encounter
		switch rapid.IntRange(0, 2).Draw(t, "kind") {
		case 0:
			e = GenerateCombat(difficulty, "neon", src)
		case 1:
			e = New(Trap, difficulty, src)
			e.Detected = rapid.Bool().Draw(t, "detected")
		default:
			e = GeneratePuzzle(difficulty, "cyber", src)
			e.Solved = rapid.Bool().Draw(t, "solved")
		}
		e.Completed = rapid.Bool().Draw(t, "completed")

		restored := FromMap(e.ToMap())
		assert.Equal(t, e.Kind, restored.Kind)
		assert.Equal(t, e.Difficulty, restored.Difficulty)
		assert.Equal(t, e.Completed, restored.Completed)
		assert.Equal(t, e.Description, restored.Description)
		assert.Equal(t, e.Rewards, restored.Rewards)
		assert.Equal(t, e.Ambush, restored.Ambush)
		assert.Equal(t, e.TrapType, restored.TrapType)
		assert.Equal(t, e.Detected, restored.Detected)
		assert.Equal(t, e.Effect, restored.Effect)
		assert.Equal(t, e.PuzzleType, restored.PuzzleType)
		assert.Equal(t, e.Solved, restored.Solved)
		require.Len(t, restored.Monsters, len(e.Monsters))
		for i := range e.Monsters {
			assert.Equal(t, e.Monsters[i].Name, restored.Monsters[i].Name)
			assert.Equal(t, e.Monsters[i].HP, restored.Monsters[i].HP)
			assert.Equal(t, e.Monsters[i].Abilities, restored.Monsters[i].Abilities)
		}
	})
}
