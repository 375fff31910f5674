// Package stats defines the three-attribute score block shared by characters
// and monsters.
package stats

import "github.com/neondnd/isekai/internal/game/dice"

// Attribute names used in serialized forms and save targets.
const (
	Strength  = "strength"
	Dexterity = "dexterity"
	Wisdom    = "wisdom"
)

// Attributes holds the three core ability scores. Scores are typically in
// [3, 18] but nothing in the engine enforces an upper bound.
type Attributes struct {
	Strength  int
	Dexterity int
	Wisdom    int
}

// Roll generates a fresh attribute block, rolling 4d6-keep-highest-3 for each
// score.
//
// Postcondition: every score is in [3, 18].
func Roll(src dice.Source) Attributes {
	return Attributes{
		Strength:  dice.RollAttribute(src),
		Dexterity: dice.RollAttribute(src),
		Wisdom:    dice.RollAttribute(src),
	}
}

// StrMod returns the strength check modifier.
func (a Attributes) StrMod() int { return dice.AttributeModifier(a.Strength) }

// DexMod returns the dexterity check modifier.
func (a Attributes) DexMod() int { return dice.AttributeModifier(a.Dexterity) }

// WisMod returns the wisdom check modifier.
func (a Attributes) WisMod() int { return dice.AttributeModifier(a.Wisdom) }

// Get returns the score for a named attribute, or 0 for an unknown name.
func (a Attributes) Get(name string) int {
	switch name {
	case Strength:
		return a.Strength
	case Dexterity:
		return a.Dexterity
	case Wisdom:
		return a.Wisdom
	default:
		return 0
	}
}

// Mod returns the check modifier for a named attribute.
func (a Attributes) Mod(name string) int {
	return dice.AttributeModifier(a.Get(name))
}

// ToMap converts the block to its serialized mapping form.
func (a Attributes) ToMap() map[string]any {
	return map[string]any{
		Strength:  a.Strength,
		Dexterity: a.Dexterity,
		Wisdom:    a.Wisdom,
	}
}

// FromMap restores an attribute block from its serialized mapping form.
func FromMap(m map[string]any) Attributes {
	return Attributes{
		Strength:  asInt(m[Strength]),
		Dexterity: asInt(m[Dexterity]),
		Wisdom:    asInt(m[Wisdom]),
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
