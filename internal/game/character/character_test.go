package character

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/stats"
)

func fixedAttrs(str, dex, wis int) *stats.Attributes {
	return &stats.Attributes{Strength: str, Dexterity: dex, Wisdom: wis}
}

func lootSword(name string) item.Item {
	return item.Item{Name: name, Type: item.TypeWeapon, Damage: "1d8"}
}

func healthPotion() item.Item {
	return item.Item{
		Name:    "Health Potion",
		Type:    item.TypeConsumable,
		Subtype: item.SubtypeHealthPotion,
		Effect:  "heal",
		Amount:  10,
	}
}

func TestNewDerivesMaximumsFromRawScores(t *testing.T) {
	c, err := New("Kira", "Warrior", "Summoned from a dying arcade", fixedAttrs(14, 12, 10), nil)
	require.NoError(t, err)

	assert.Equal(t, 17, c.MaxHP, "10 + 14/2")
	assert.Equal(t, 15, c.MaxMP, "10 + 10/2")
	assert.Equal(t, c.MaxHP, c.HP)
	assert.Equal(t, c.MaxMP, c.MP)
	assert.Equal(t, 1, c.Level)
	assert.Zero(t, c.XP)
}

func TestNewEquipsClassKit(t *testing.T) {
	cases := []struct {
		class     string
		weapon    string
		armor     string
		accessory string
		skills    []string
	}{
		{"Warrior", "Iron Sword", "Leather Armor", "", []string{"Power Attack", "Defend"}},
		{"Wizard", "Apprentice Staff", "", "Spellbook", []string{"Arcane Missile", "Shield"}},
		{"White Mage", "Healing Rod", "White Robes", "", []string{"Heal", "Bless"}},
		{"Wanderer", "Shortbow", "Traveler's Cloak", "", []string{"Quick Shot", "Evade"}},
	}
	for _, tc := range cases {
		t.Run(tc.class, func(t *testing.T) {
			c, err := New("Test", tc.class, "origin", fixedAttrs(10, 10, 10), nil)
			require.NoError(t, err)

			assert.Equal(t, tc.weapon, c.Equipment[SlotWeapon])
			assert.Equal(t, tc.armor, c.Equipment[SlotArmor])
			assert.Equal(t, tc.accessory, c.Equipment[SlotAccessory])
			assert.Len(t, c.Inventory, 2)
			require.Len(t, c.Skills, 2)
			for i, name := range tc.skills {
				assert.Equal(t, name, c.Skills[i].Name)
			}
		})
	}
}

func TestNewUnknownClass(t *testing.T) {
	_, err := New("Test", "Bard", "origin", fixedAttrs(10, 10, 10), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown class")
}

func TestNewRollsAttributesWhenNil(t *testing.T) {
	src := dice.NewSeededSource(7)
	c, err := New("Test", "Wanderer", "origin", nil, src)
	require.NoError(t, err)

	for _, score := range []int{c.Attributes.Strength, c.Attributes.Dexterity, c.Attributes.Wisdom} {
		assert.GreaterOrEqual(t, score, 3)
		assert.LessOrEqual(t, score, 18)
	}
}

func TestGainXPLevelsUpAtThreshold(t *testing.T) {
	src := dice.NewSeededSource(1)
	c, err := New("Kira", "Warrior", "origin", fixedAttrs(14, 12, 10), src)
	require.NoError(t, err)

	assert.False(t, c.GainXP(500, src))
	assert.Equal(t, 1, c.Level)

	require.True(t, c.GainXP(500, src))
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 1000, c.XP)

	// Level-up growth is 1d6 + strength/4 HP and 1d4 + wisdom/4 MP,
	// followed by a full heal.
	assert.GreaterOrEqual(t, c.MaxHP, 17+1+3)
	assert.LessOrEqual(t, c.MaxHP, 17+6+3)
	assert.GreaterOrEqual(t, c.MaxMP, 15+1+2)
	assert.LessOrEqual(t, c.MaxMP, 15+4+2)
	assert.Equal(t, c.MaxHP, c.HP)
	assert.Equal(t, c.MaxMP, c.MP)
}

func TestGainXPAppliesAtMostOneLevelPerAward(t *testing.T) {
	src := dice.NewSeededSource(2)
	c, err := New("Test", "Wizard", "origin", fixedAttrs(10, 10, 10), src)
	require.NoError(t, err)

	require.True(t, c.GainXP(5000, src))
	assert.Equal(t, 2, c.Level, "a single award levels once even far past the threshold")

	// The surplus immediately satisfies the next threshold on the
	// following award.
	require.True(t, c.GainXP(0, src))
	assert.Equal(t, 3, c.Level)
}

func TestEveryThirdLevelGrantsAdvancedSkill(t *testing.T) {
	src := dice.NewSeededSource(3)
	c, err := New("Test", "Warrior", "origin", fixedAttrs(10, 10, 10), src)
	require.NoError(t, err)

	levelTo := func(target int) {
		for c.Level < target {
			c.GainXP(c.Level*1000-c.XP, src)
		}
	}

	levelTo(3)
	require.Len(t, c.Skills, 3)
	assert.Contains(t, []string{"Whirlwind", "Unbreakable"}, c.Skills[2].Name)

	levelTo(6)
	require.Len(t, c.Skills, 4)
	assert.NotEqual(t, c.Skills[2].Name, c.Skills[3].Name)

	// Pool exhausted: further third levels add nothing.
	levelTo(9)
	assert.Len(t, c.Skills, 4)
}

func TestEquipItem(t *testing.T) {
	c, err := New("Test", "Warrior", "origin", fixedAttrs(10, 10, 10), nil)
	require.NoError(t, err)

	assert.False(t, c.EquipItem("Excalibur"), "item not in inventory")

	c.Inventory = append(c.Inventory, lootSword("Neon Blade"))
	assert.True(t, c.EquipItem("Neon Blade"))
	assert.Equal(t, "Neon Blade", c.Equipment[SlotWeapon])

	// Swapping back keeps both items in inventory.
	assert.True(t, c.EquipItem("Iron Sword"))
	assert.Equal(t, "Iron Sword", c.Equipment[SlotWeapon])
	assert.Len(t, c.Inventory, 3)

	c.Inventory = append(c.Inventory, healthPotion())
	assert.False(t, c.EquipItem("Health Potion"), "consumables have no slot")
}

func TestUseSkillSpendsMPAndRollsEffect(t *testing.T) {
	src := dice.NewSeededSource(4)
	c, err := New("Test", "Wizard", "origin", fixedAttrs(10, 10, 14), src)
	require.NoError(t, err)
	startMP := c.MP

	res := c.UseSkill("Arcane Missile", src)
	require.True(t, res.Success)
	assert.Equal(t, startMP-3, c.MP)
	assert.GreaterOrEqual(t, res.Damage, 2)
	assert.LessOrEqual(t, res.Damage, 5)
	assert.Contains(t, res.Message, "Magic missile")
}

func TestUseSkillFailures(t *testing.T) {
	src := dice.NewSeededSource(5)
	c, err := New("Test", "Wizard", "origin", fixedAttrs(10, 10, 10), src)
	require.NoError(t, err)

	res := c.UseSkill("Fireball", src)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "not found")

	c.MP = 2
	res = c.UseSkill("Arcane Missile", src)
	assert.False(t, res.Success)
	assert.Equal(t, "Not enough MP", res.Message)
	assert.Equal(t, 2, c.MP, "failed use spends nothing")
}

func TestUseSkillDamageTables(t *testing.T) {
	src := dice.NewSeededSource(6)

	warrior, err := New("W", "Warrior", "origin", fixedAttrs(14, 10, 10), src)
	require.NoError(t, err)
	res := warrior.UseSkill("Power Attack", src)
	require.True(t, res.Success)
	assert.GreaterOrEqual(t, res.Damage, 1+7+2)
	assert.LessOrEqual(t, res.Damage, 8+7+2)

	mage, err := New("M", "White Mage", "origin", fixedAttrs(10, 10, 14), src)
	require.NoError(t, err)
	res = mage.UseSkill("Heal", src)
	require.True(t, res.Success)
	assert.GreaterOrEqual(t, res.Healing, 2)
	assert.LessOrEqual(t, res.Healing, 7)
	assert.Zero(t, res.Damage)

	// Skills without a damage table still succeed with a generic message.
	res = mage.UseSkill("Bless", src)
	require.True(t, res.Success)
	assert.Equal(t, "Used Bless!", res.Message)
}

func TestHealAndRestoreMPClamp(t *testing.T) {
	c, err := New("Test", "Warrior", "origin", fixedAttrs(14, 10, 10), nil)
	require.NoError(t, err)

	c.HP = 5
	assert.Equal(t, 6, c.Heal(6))
	assert.Equal(t, c.MaxHP-11, c.Heal(c.MaxHP*2))
	assert.Equal(t, c.MaxHP, c.HP)

	c.MP = 0
	assert.Equal(t, 3, c.RestoreMP(3))
	assert.Equal(t, c.MaxMP-3, c.RestoreMP(1000))
	assert.Equal(t, c.MaxMP, c.MP)
}

func TestSerializationRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		class := rapid.SampledFrom(ClassNames()).Draw(t, "class")
		src := dice.NewSeededSource(seed)

		c, err := New("Rin", class, "Reborn from a crashed MMO", nil, src)
		require.NoError(t, err)

		awards := rapid.IntRange(0, 8).Draw(t, "awards")
		for i := 0; i < awards; i++ {
			c.GainXP(rapid.IntRange(0, 2500).Draw(t, "xp"), src)
		}
		c.HP = rapid.IntRange(0, c.MaxHP).Draw(t, "hp")
		c.MP = rapid.IntRange(0, c.MaxMP).Draw(t, "mp")

		restored := FromMap(c.ToMap())
		assert.Equal(t, c.Name, restored.Name)
		assert.Equal(t, c.Class, restored.Class)
		assert.Equal(t, c.Origin, restored.Origin)
		assert.Equal(t, c.Level, restored.Level)
		assert.Equal(t, c.XP, restored.XP)
		assert.Equal(t, c.Attributes, restored.Attributes)
		assert.Equal(t, c.HP, restored.HP)
		assert.Equal(t, c.MaxHP, restored.MaxHP)
		assert.Equal(t, c.MP, restored.MP)
		assert.Equal(t, c.MaxMP, restored.MaxMP)
		assert.Equal(t, c.Inventory, restored.Inventory)
		assert.Equal(t, c.Equipment, restored.Equipment)
		assert.Equal(t, c.Skills, restored.Skills)
	})
}
