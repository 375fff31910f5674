package combat

import (
	"github.com/neondnd/isekai/internal/game/character"
	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/monster"
	"github.com/neondnd/isekai/internal/game/stats"
)

// Participant is the flat combat view of a character or monster. The engine
// reads and writes only this struct during combat; bound source entities are
// synced after every action.
type Participant struct {
	IsCharacter bool
	Name        string
	Attributes  stats.Attributes
	HP          int
	MaxHP       int
	MP          int
	MaxMP       int
	Attack      int
	Defense     int
	Abilities   []monster.Ability
	Inventory   []item.Item

	boundCharacter *character.Character
	boundMonster   *monster.Monster
}

// FromCharacter builds a combat participant bound to a character. Characters
// fight with their strength modifier and a flat defense of 10 plus their
// dexterity modifier.
func FromCharacter(ch *character.Character) *Participant {
	return &Participant{
		IsCharacter: true,
		Name:        ch.Name,
		Attributes:  ch.Attributes,
		HP:          ch.HP,
		MaxHP:       ch.MaxHP,
		MP:          ch.MP,
		MaxMP:       ch.MaxMP,
		Attack:      ch.Attributes.StrMod(),
		Defense:     10 + ch.Attributes.DexMod(),
		Inventory:   append([]item.Item(nil), ch.Inventory...),

		boundCharacter: ch,
	}
}

// FromMonster builds a combat participant bound to a monster.
func FromMonster(m *monster.Monster) *Participant {
	return &Participant{
		Name:       m.Name,
		Attributes: m.Attributes,
		HP:         m.HP,
		MaxHP:      m.MaxHP,
		Attack:     m.Attack,
		Defense:    m.Defense,
		Abilities:  append([]monster.Ability(nil), m.Abilities...),

		boundMonster: m,
	}
}

// Alive reports whether the participant has HP remaining.
func (p *Participant) Alive() bool {
	return p.HP > 0
}

// StrMod returns the participant's strength check modifier.
func (p *Participant) StrMod() int {
	return p.Attributes.StrMod()
}

// DexMod returns the participant's dexterity check modifier.
func (p *Participant) DexMod() int {
	return p.Attributes.DexMod()
}

// sync copies combat-mutable state back to the bound source entity so that
// damage, healing, and consumed items survive the fight.
func (p *Participant) sync() {
	if p.boundCharacter != nil {
		p.boundCharacter.HP = p.HP
		p.boundCharacter.MP = p.MP
		p.boundCharacter.Inventory = append(p.boundCharacter.Inventory[:0], p.Inventory...)
	}
	if p.boundMonster != nil {
		p.boundMonster.HP = p.HP
	}
}

// rollInitiative resolves the participant's initiative: 3d6 plus the
// dexterity modifier.
func (p *Participant) rollInitiative(src dice.Source) int {
	return dice.Roll3d6(src) + p.DexMod()
}
