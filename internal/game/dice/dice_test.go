package dice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"
)

// fixedSource returns scripted values modulo n, then zeros when exhausted.
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

func TestRollDie_UsesSource(t *testing.T) {
	src := &fixedSource{values: []int{0, 5, 3}}
	assert.Equal(t, 1, RollDie(src, 6))
	assert.Equal(t, 6, RollDie(src, 6))
	assert.Equal(t, 4, RollDie(src, 6))
}

func TestRollDice_OrderAndSum(t *testing.T) {
	src := &fixedSource{values: []int{1, 3, 5}}
	results, total := RollDice(src, 3, 6)
	assert.Equal(t, []int{2, 4, 6}, results)
	assert.Equal(t, 12, total)
}

func TestRoll3d6_Range(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := NewSeededSource(rapid.Int64().Draw(t, "seed"))
		total := Roll3d6(src)
		if total < 3 || total > 18 {
			t.Fatalf("3d6 total %d out of range", total)
		}
	})
}

func TestAttributeModifier(t *testing.T) {
	cases := map[int]int{
		1:  -5,
		3:  -4,
		7:  -2,
		8:  -1,
		9:  -1,
		10: 0,
		11: 0,
		12: 1,
		14: 2,
		15: 2,
		18: 4,
		20: 5,
	}
	for value, want := range cases {
		assert.Equal(t, want, AttributeModifier(value), "modifier for %d", value)
	}
}

// Floor division, not truncation: odd scores below 10 round down.
func TestAttributeModifier_FloorProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.IntRange(1, 30).Draw(t, "value")
		want := int(math.Floor(float64(value-10) / 2))
		if got := AttributeModifier(value); got != want {
			t.Fatalf("AttributeModifier(%d) = %d, want %d", value, got, want)
		}
	})
}

func TestCheck_TieSucceeds(t *testing.T) {
	src := &fixedSource{values: []int{3, 3, 3}} // dice 4,4,4 = 12
	result := Check(src, 0, 12)
	assert.True(t, result.Success)
	assert.Equal(t, 12, result.Total)
	assert.Equal(t, 0, result.Margin)
}

func TestCheck_Failure(t *testing.T) {
	src := &fixedSource{values: []int{3, 3, 3}}
	result := Check(src, 0, 13)
	assert.False(t, result.Success)
	assert.Equal(t, -1, result.Margin)
}

func TestCheck_ModifierCounts(t *testing.T) {
	src := &fixedSource{values: []int{0, 0, 0}} // dice 1,1,1 = 3
	result := Check(src, 9, 12)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.DiceTotal)
	assert.Equal(t, 12, result.Total)
	assert.Equal(t, []int{1, 1, 1}, result.Dice)
}

func TestCheckAdvantage_KeepsHigher(t *testing.T) {
	src := &fixedSource{values: []int{0, 0, 0, 5, 5, 5}} // totals 3 then 18
	result := CheckAdvantage(src, 0, 10)
	assert.Equal(t, 18, result.Total)
	assert.True(t, result.Success)
}

func TestCheckDisadvantage_KeepsLower(t *testing.T) {
	src := &fixedSource{values: []int{0, 0, 0, 5, 5, 5}}
	result := CheckDisadvantage(src, 0, 10)
	assert.Equal(t, 3, result.Total)
	assert.False(t, result.Success)
}

// Property: from the same dice sequence, advantage never resolves lower than
// disadvantage.
func TestPropertyAdvantageBeatsDisadvantage(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		mod := rapid.IntRange(-3, 5).Draw(t, "mod")
		adv := CheckAdvantage(NewSeededSource(seed), mod, 10)
		dis := CheckDisadvantage(NewSeededSource(seed), mod, 10)
		if adv.Total < dis.Total {
			t.Fatalf("advantage total %d < disadvantage total %d", adv.Total, dis.Total)
		}
	})
}

func TestRollAttribute_Range(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := NewSeededSource(rapid.Int64().Draw(t, "seed"))
		value := RollAttribute(src)
		if value < 3 || value > 18 {
			t.Fatalf("4d6kh3 value %d out of range", value)
		}
	})
}

func TestRollResult_Total(t *testing.T) {
	r := RollResult{Expression: "3d6+2", Dice: []int{4, 5, 1}, Modifier: 2}
	assert.Equal(t, 12, r.Total())
}

func TestRollResult_String(t *testing.T) {
	r := RollResult{Expression: "3d6+2", Dice: []int{4, 5, 1}, Modifier: 2}
	assert.Equal(t, "3d6+2 → [4 5 1] +2 = 12", r.String())

	r = RollResult{Expression: "1d8-1", Dice: []int{8}, Modifier: -1}
	assert.Equal(t, "1d8-1 → [8] -1 = 7", r.String())
}

func TestRollResult_String_PanicsWithoutExpression(t *testing.T) {
	r := RollResult{Dice: []int{4}}
	assert.Panics(t, func() { _ = r.String() })
}

func TestChance_Extremes(t *testing.T) {
	src := NewSeededSource(1)
	assert.False(t, Chance(src, 0))
	assert.False(t, Chance(src, -0.5))
	assert.True(t, Chance(src, 1))
	assert.True(t, Chance(src, 1.5))
}

func TestChance_IntegerFallback(t *testing.T) {
	// fixedSource has no Float64; the gate falls back to Intn buckets.
	src := &fixedSource{values: []int{0}}
	assert.True(t, Chance(src, 0.001))

	src = &fixedSource{values: []int{999999}}
	assert.False(t, Chance(src, 0.5))
}

func TestChance_Frequency(t *testing.T) {
	src := NewSeededSource(42)
	hits := 0
	for i := 0; i < 1000; i++ {
		if Chance(src, 0.3) {
			hits++
		}
	}
	assert.Greater(t, hits, 200)
	assert.Less(t, hits, 400)
}

func TestFloat64_Range(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := NewSeededSource(rapid.Int64().Draw(t, "seed"))
		v := Float64(src)
		if v < 0 || v >= 1 {
			t.Fatalf("Float64 returned %v, want [0, 1)", v)
		}
	})
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := NewSeededSource(7)
	b := NewSeededSource(7)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000), "draw %d diverged", i)
	}
}

func TestSeededSource_PanicsOnBadN(t *testing.T) {
	src := NewSeededSource(1)
	assert.Panics(t, func() { src.Intn(0) })
	assert.Panics(t, func() { src.Intn(-3) })
}

func TestCryptoSource_Range(t *testing.T) {
	src := NewCryptoSource()
	for i := 0; i < 100; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_PanicsOnBadN(t *testing.T) {
	src := NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestLoggedRoller(t *testing.T) {
	roller := NewLoggedRoller(&fixedSource{values: []int{3, 3, 3}}, zap.NewNop())

	result, err := roller.RollExpr("3d6+2")
	require.NoError(t, err)
	assert.Equal(t, 14, result.Total())

	_, err = roller.RollExpr("nonsense")
	assert.Error(t, err)
}
