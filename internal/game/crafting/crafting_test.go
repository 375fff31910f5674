package crafting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/neondnd/isekai/internal/game/character"
	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/stats"
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

func makeCrafter(t *testing.T, class string) *character.Character {
	t.Helper()
	ch, err := character.New(
		"Forge Tester",
		class,
		"Tutorial Zone",
		&stats.Attributes{Strength: 14, Dexterity: 12, Wisdom: 10},
		dice.NewSeededSource(1),
	)
	require.NoError(t, err)
	return ch
}

func namedComponents(names ...string) []item.Item {
	out := make([]item.Item, len(names))
	for i, name := range names {
		out[i] = item.Item{Name: name, Type: item.TypeComponent}
	}
	return out
}

func TestMatchRecipe(t *testing.T) {
	recipes := Recipes()

	recipe, ok := MatchRecipe([]string{"Iron Chunk", "Fire Essence", "Damage Rune"}, recipes)
	require.True(t, ok)
	assert.Equal(t, "Flaming Sword", recipe.Name)

	_, ok = MatchRecipe([]string{"Iron Chunk", "Fire Essence", "Shield Rune"}, recipes)
	assert.False(t, ok)
}

func TestMatchRecipe_OrderIndependent(t *testing.T) {
	recipe, ok := MatchRecipe([]string{"Damage Rune", "Fire Essence", "Iron Chunk"}, Recipes())
	require.True(t, ok)
	assert.Equal(t, "Flaming Sword", recipe.Name)
}

func TestMatchRecipe_SubsetDoesNotMatch(t *testing.T) {
	_, ok := MatchRecipe([]string{"Iron Chunk", "Fire Essence"}, Recipes())
	assert.False(t, ok)
}

func TestQualityFor(t *testing.T) {
	tests := []struct {
		total    int
		quality  Quality
		bonus    int
		dieSides int
	}{
		{18, QualityExcellent, 3, 8},
		{20, QualityExcellent, 3, 8},
		{15, QualityGreat, 2, 6},
		{17, QualityGreat, 2, 6},
		{10, QualityGood, 1, 4},
		{14, QualityGood, 1, 4},
		{9, QualityPoor, 0, 4},
		{3, QualityPoor, 0, 4},
	}
	for _, tt := range tests {
		quality, bonus, dieSides := QualityFor(tt.total)
		assert.Equal(t, tt.quality, quality, "total %d", tt.total)
		assert.Equal(t, tt.bonus, bonus, "total %d", tt.total)
		assert.Equal(t, tt.dieSides, dieSides, "total %d", tt.total)
	}
}

func TestCheckAttribute(t *testing.T) {
	tests := []struct {
		itemType string
		class    string
		want     string
	}{
		{item.TypeWeapon, "Warrior", stats.Strength},
		{item.TypeWeapon, "Wizard", stats.Wisdom},
		{item.TypeWeapon, "White Mage", stats.Dexterity},
		{item.TypeAccessory, "Warrior", stats.Wisdom},
		{item.TypeAccessory, "White Mage", stats.Wisdom},
		{item.TypeArmor, "Warrior", stats.Dexterity},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckAttribute(tt.itemType, tt.class), "%s/%s", tt.itemType, tt.class)
	}
}

func TestCraft_Success(t *testing.T) {
	ch := makeCrafter(t, "Warrior")
	components := namedComponents("Iron Chunk", "Fire Essence", "Damage Rune")

	// Dice total 12, +2 strength, +2 affinity: check total 16 grades Great.
	src := &fixedSource{values: []int{3, 3, 3}}
	result := Craft(ch, components, Recipes(), src)

	require.True(t, result.Success)
	assert.Equal(t, 16, result.Check.Total)
	assert.Equal(t, QualityGreat, result.Quality)
	assert.Equal(t, "Flaming Sword", result.Item.Name)
	assert.Equal(t, item.TypeWeapon, result.Item.Type)
	assert.Equal(t, "1d8+2", result.Item.Damage)
	assert.Equal(t, "1d8+2", result.Stats["damage"])
	assert.Equal(t, "1d6 fire", result.Stats["elemental"])
	assert.True(t, result.Item.Equippable())
}

func TestCraft_ExcellentQualityStats(t *testing.T) {
	ch := makeCrafter(t, "Warrior")
	components := namedComponents("Iron Chunk", "Fire Essence", "Damage Rune")

	// Dice total 15, +4 modifiers: check total 19 grades Excellent.
	src := &fixedSource{values: []int{4, 4, 4}}
	result := Craft(ch, components, Recipes(), src)

	require.True(t, result.Success)
	assert.Equal(t, QualityExcellent, result.Quality)
	assert.Equal(t, "1d8+3", result.Stats["damage"])
	assert.Equal(t, "1d8 fire", result.Stats["elemental"])
}

func TestCraft_UnknownRecipe(t *testing.T) {
	ch := makeCrafter(t, "Warrior")
	components := namedComponents("Iron Chunk", "Fire Essence", "Shield Rune")

	result := Craft(ch, components, Recipes(), &fixedSource{values: []int{5, 5, 5}})

	require.False(t, result.Success)
	assert.Contains(t, result.Reason, "recipe")
	assert.Zero(t, result.Item)
}

func TestCraft_FailedCheck(t *testing.T) {
	ch := makeCrafter(t, "Warrior")
	components := namedComponents("Iron Chunk", "Fire Essence", "Damage Rune")

	// Dice total 3, +4 modifiers: check total 7 misses the difficulty.
	src := &fixedSource{values: []int{0, 0, 0}}
	result := Craft(ch, components, Recipes(), src)

	require.False(t, result.Success)
	assert.Contains(t, result.Reason, "failed")
	assert.Equal(t, 7, result.Check.Total)
	assert.False(t, result.Check.Success)
}

func TestCraft_ClassAffinityRaisesQuality(t *testing.T) {
	components := namedComponents("Iron Chunk", "Fire Essence", "Damage Rune")

	// Same dice for both crafters. The warrior forges the sword with +2
	// strength and the +2 affinity bonus (total 16, Great); the white mage
	// forges it with +1 dexterity and no affinity (total 13, Good).
	warrior := Craft(makeCrafter(t, "Warrior"), components, Recipes(), &fixedSource{values: []int{3, 3, 3}})
	mage := Craft(makeCrafter(t, "White Mage"), components, Recipes(), &fixedSource{values: []int{3, 3, 3}})

	require.True(t, warrior.Success)
	require.True(t, mage.Success)
	assert.Equal(t, QualityGreat, warrior.Quality)
	assert.Equal(t, QualityGood, mage.Quality)
	assert.NotEqual(t, warrior.Quality, mage.Quality)
}

func TestCraft_AccessoryTemplates(t *testing.T) {
	ch := makeCrafter(t, "White Mage")
	components := namedComponents("Glowing Herb", "Mana Crystal", "Shield Rune")

	// Dice total 18, +0 wisdom, +2 affinity: check total 20 grades Excellent.
	src := &fixedSource{values: []int{5, 5, 5}}
	result := Craft(ch, components, Recipes(), src)

	require.True(t, result.Success)
	assert.Equal(t, "Healing Charm", result.Item.Name)
	assert.Equal(t, item.TypeAccessory, result.Item.Type)
	assert.Equal(t, "Regenerate 3 HP per turn", result.Stats["effect"])
	assert.Equal(t, "3 uses per day", result.Stats["uses"])
	assert.Equal(t, "Regenerate 3 HP per turn", result.Item.Effect)
	assert.Empty(t, result.Item.Damage)
}

func TestForge_UsesEmbeddedRecipes(t *testing.T) {
	ch := makeCrafter(t, "Wizard")
	components := namedComponents("Mithril Alloy", "Frost Shard", "Mana Crystal")

	// Dice total 18, +0 wisdom, +2 affinity: guaranteed success.
	result := Forge(ch, components, &fixedSource{values: []int{5, 5, 5}})

	require.True(t, result.Success)
	assert.Equal(t, "Frost Staff", result.Item.Name)
}

func TestRecipeContent(t *testing.T) {
	recipes := Recipes()
	require.NotEmpty(t, recipes)

	for _, r := range recipes {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Type)
		assert.Len(t, r.Components, 3, "recipe %s", r.Name)
		assert.NotEmpty(t, r.Stats, "recipe %s", r.Name)
	}

	recipe, ok := LookupRecipe("Flaming Sword")
	require.True(t, ok)
	assert.Equal(t, "Warrior", recipe.ClassAffinity)

	_, ok = LookupRecipe("Rubber Chicken")
	assert.False(t, ok)
}

func TestComponentContent(t *testing.T) {
	components := Components()
	require.NotEmpty(t, components)

	byName := make(map[string]bool, len(components))
	for _, c := range components {
		assert.Equal(t, item.TypeComponent, c.Type, "component %s", c.Name)
		assert.NotEmpty(t, c.ComponentType, "component %s", c.Name)
		byName[c.Name] = true
	}

	// Every recipe must be forgeable from the component supply.
	for _, r := range Recipes() {
		for _, name := range r.Components {
			assert.True(t, byName[name], "recipe %s needs unknown component %s", r.Name, name)
		}
	}
}

func TestCraft_SuccessTracksCheckTotal(t *testing.T) {
	ch := makeCrafter(t, "Warrior")
	components := namedComponents("Iron Chunk", "Fire Essence", "Damage Rune")
	recipe, ok := LookupRecipe("Flaming Sword")
	require.True(t, ok)

	rapid.Check(t, func(rt *rapid.T) {
		src := dice.NewSeededSource(rapid.Int64().Draw(rt, "seed"))

		result := Craft(ch, components, Recipes(), src)

		assert.Equal(t, result.Check.Total >= Difficulty, result.Success)
		if result.Success {
			quality, bonus, dieSides := QualityFor(result.Check.Total)
			assert.Equal(t, quality, result.Quality)
			assert.Equal(t, expandStats(recipe.Stats, bonus, dieSides), result.Stats)
		} else {
			assert.Empty(t, result.Item.Name)
		}
	})
}
