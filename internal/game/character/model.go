// Package character implements player characters: creation from rolled or
// supplied attributes, class kits and skills loaded from embedded content,
// experience and level progression, and equipment management.
package character

import (
	"fmt"

	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/stats"
)

// Equipment slot names. Each slot holds the name of an inventory item or ""
// when empty.
const (
	SlotWeapon    = "weapon"
	SlotArmor     = "armor"
	SlotAccessory = "accessory"
)

// Character is one player character. HP and MP are clamped to [0, max];
// a character at 0 HP is defeated but not deleted.
type Character struct {
	Name       string
	Class      string
	Origin     string
	Level      int
	XP         int
	Attributes stats.Attributes
	HP         int
	MP         int
	MaxHP      int
	MaxMP      int
	Inventory  []item.Item
	Equipment  map[string]string
	Skills     []Skill
}

// New creates a level-1 character of the given class. When attrs is nil a
// fresh attribute block is rolled with 4d6-keep-highest-3 per score. The
// class kit is added to inventory and every equippable kit item is equipped.
//
// Postcondition: HP == MaxHP == 10 + strength/2 and MP == MaxMP ==
// 10 + wisdom/2.
func New(name, class, origin string, attrs *stats.Attributes, src dice.Source) (*Character, error) {
	def, ok := LookupClass(class)
	if !ok {
		return nil, fmt.Errorf("character: unknown class %q", class)
	}

	var a stats.Attributes
	if attrs != nil {
		a = *attrs
	} else {
		a = stats.Roll(src)
	}

	c := &Character{
		Name:       name,
		Class:      class,
		Origin:     origin,
		Level:      1,
		XP:         0,
		Attributes: a,
		MaxHP:      10 + a.Strength/2,
		MaxMP:      10 + a.Wisdom/2,
		Equipment: map[string]string{
			SlotWeapon:    "",
			SlotArmor:     "",
			SlotAccessory: "",
		},
	}
	c.HP = c.MaxHP
	c.MP = c.MaxMP

	for _, kitItem := range def.Kit {
		c.Inventory = append(c.Inventory, kitItem)
		if kitItem.Equippable() {
			c.Equipment[kitItem.Type] = kitItem.Name
		}
	}
	c.Skills = append(c.Skills, def.Skills...)

	return c, nil
}

// GainXP adds experience and applies at most one level-up. The threshold is
// Level * 1000 total XP; XP is never spent, so a large award can leave the
// character above the next threshold until the following award.
func (c *Character) GainXP(amount int, src dice.Source) bool {
	c.XP += amount
	if c.XP >= c.Level*1000 {
		c.levelUp(src)
		return true
	}
	return false
}

// levelUp raises the level, grows the maximums, and heals to full. Every
// third level grants one random advanced class skill the character does not
// already know.
func (c *Character) levelUp(src dice.Source) {
	c.Level++
	c.MaxHP += dice.RollDie(src, 6) + c.Attributes.Strength/4
	c.MaxMP += dice.RollDie(src, 4) + c.Attributes.Wisdom/4
	c.HP = c.MaxHP
	c.MP = c.MaxMP

	if c.Level%3 == 0 {
		c.addAdvancedSkill(src)
	}
}

func (c *Character) addAdvancedSkill(src dice.Source) {
	def, ok := LookupClass(c.Class)
	if !ok {
		return
	}
	var unseen []Skill
	for _, s := range def.AdvancedSkills {
		if !c.HasSkill(s.Name) {
			unseen = append(unseen, s)
		}
	}
	if len(unseen) == 0 {
		return
	}
	c.Skills = append(c.Skills, unseen[src.Intn(len(unseen))])
}

// HasSkill reports whether the character knows a skill by name.
func (c *Character) HasSkill(name string) bool {
	for _, s := range c.Skills {
		if s.Name == name {
			return true
		}
	}
	return false
}

// FindSkill returns the named skill if known.
func (c *Character) FindSkill(name string) (Skill, bool) {
	for _, s := range c.Skills {
		if s.Name == name {
			return s, true
		}
	}
	return Skill{}, false
}

// FindItem returns the first inventory item with the given name.
func (c *Character) FindItem(name string) (item.Item, bool) {
	for _, it := range c.Inventory {
		if it.Name == name {
			return it, true
		}
	}
	return item.Item{}, false
}

// EquipItem equips a named inventory item into the slot matching its type.
// The item stays in inventory; a previously equipped item is simply replaced
// in the slot. Returns false when the item is missing or not equippable.
func (c *Character) EquipItem(name string) bool {
	it, ok := c.FindItem(name)
	if !ok {
		return false
	}
	if _, slot := c.Equipment[it.Type]; !slot {
		return false
	}
	c.Equipment[it.Type] = it.Name
	return true
}

// SkillResult reports the outcome of a skill use. Damage and Healing are the
// rolled magnitudes; applying them to a target is the caller's job.
type SkillResult struct {
	Success bool
	Skill   string
	Message string
	Damage  int
	Healing int
}

// UseSkill spends MP and rolls the skill's effect. Unknown skills and
// unaffordable MP costs fail without side effects.
func (c *Character) UseSkill(name string, src dice.Source) SkillResult {
	skill, ok := c.FindSkill(name)
	if !ok {
		return SkillResult{Message: fmt.Sprintf("Skill %s not found", name)}
	}
	if c.MP < skill.MPCost {
		return SkillResult{Message: "Not enough MP"}
	}
	c.MP -= skill.MPCost

	result := SkillResult{Success: true, Skill: name}
	switch name {
	case "Power Attack":
		result.Damage = dice.RollDie(src, 8) + c.Attributes.Strength/2 + 2
		result.Message = fmt.Sprintf("Powerful attack deals %d damage!", result.Damage)
	case "Arcane Missile":
		result.Damage = dice.RollDie(src, 4) + 1
		result.Message = fmt.Sprintf("Magic missile hits for %d damage!", result.Damage)
	case "Heal":
		result.Healing = dice.RollDie(src, 6) + 1
		result.Message = fmt.Sprintf("Healing magic restores %d HP!", result.Healing)
	case "Quick Shot":
		result.Damage = dice.RollDie(src, 6)
		result.Message = fmt.Sprintf("Quick arrow deals %d damage!", result.Damage)
	default:
		result.Message = fmt.Sprintf("Used %s!", name)
	}
	return result
}

// Heal restores HP, clamped to MaxHP, and returns the amount actually gained.
func (c *Character) Heal(amount int) int {
	before := c.HP
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	return c.HP - before
}

// RestoreMP restores MP, clamped to MaxMP, and returns the amount actually
// gained.
func (c *Character) RestoreMP(amount int) int {
	before := c.MP
	c.MP += amount
	if c.MP > c.MaxMP {
		c.MP = c.MaxMP
	}
	return c.MP - before
}

// Alive reports whether the character has HP remaining.
func (c *Character) Alive() bool {
	return c.HP > 0
}
