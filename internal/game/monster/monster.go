// Package monster implements combat enemies: typed stat generation, ability
// pools, loot tables, and the level-scaled monster and boss generators.
package monster

import (
	"strings"

	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/snapshot"
	"github.com/neondnd/isekai/internal/game/stats"
)

// Type classifies a monster. The numeric values appear in serialized forms,
// so they are stable.
type Type int

const (
	Glitch    Type = 1
	Digital   Type = 2
	Corrupted Type = 3
	Virus     Type = 4
)

// Types returns all monster types in their canonical order.
func Types() []Type {
	return []Type{Glitch, Digital, Corrupted, Virus}
}

// String returns the display name of the type.
func (t Type) String() string {
	switch t {
	case Glitch:
		return "Glitch"
	case Digital:
		return "Digital"
	case Corrupted:
		return "Corrupted"
	case Virus:
		return "Virus"
	default:
		return "Unknown"
	}
}

// Ability is one special monster ability. Which fields are set depends on
// the ability: direct attacks carry Damage or DamageMultiplier, status
// abilities carry Effect/Amount/Duration, and big hits carry a Cooldown.
type Ability struct {
	Name             string  `yaml:"name"`
	DamageMultiplier float64 `yaml:"damage_multiplier"`
	Damage           int     `yaml:"damage"`
	Target           string  `yaml:"target"`
	Effect           string  `yaml:"effect"`
	Amount           int     `yaml:"amount"`
	Duration         int     `yaml:"duration"`
	Cooldown         int     `yaml:"cooldown"`
	HealPercent      int     `yaml:"heal_percent"`
}

// Monster is one combat enemy. Derived stats are computed at construction
// and then owned by the struct, so boss boosts and restored saves are never
// recomputed away.
type Monster struct {
	Name       string
	Level      int
	Type       Type
	Attributes stats.Attributes
	HP         int
	MaxHP      int
	Attack     int
	Defense    int
	Abilities  []Ability
	Loot       []item.Item
}

// New creates a monster. A zero Type picks one at random; nil attrs and
// abilities are generated from level and type. The loot table is always
// generated fresh.
//
// Postcondition: MaxHP == 5 + 3*level + strength/2, Attack == level +
// strength/2, Defense == 10 + dexterity/2, and HP == MaxHP.
func New(name string, level int, typ Type, attrs *stats.Attributes, abilities []Ability, src dice.Source) *Monster {
	if typ == 0 {
		typ = Types()[src.Intn(4)]
	}

	var a stats.Attributes
	if attrs != nil {
		a = *attrs
	} else {
		a = generateAttributes(level, typ)
	}

	m := &Monster{
		Name:       name,
		Level:      level,
		Type:       typ,
		Attributes: a,
		MaxHP:      5 + level*3 + a.Strength/2,
		Attack:     level + a.Strength/2,
		Defense:    10 + a.Dexterity/2,
		Abilities:  abilities,
	}
	m.HP = m.MaxHP
	if m.Abilities == nil {
		m.Abilities = generateAbilities(level, typ, src)
	}
	m.Loot = generateLoot(level, typ, src)
	return m
}

// generateAttributes scales all three scores with level and applies the
// type bias: Glitches are quick, Digital entities are smart, Corrupted
// entities are strong, and Viruses are a little of both.
func generateAttributes(level int, typ Type) stats.Attributes {
	a := stats.Attributes{
		Strength:  10 + level,
		Dexterity: 10 + level,
		Wisdom:    10 + level,
	}
	switch typ {
	case Glitch:
		a.Dexterity += 2
	case Digital:
		a.Wisdom += 2
	case Corrupted:
		a.Strength += 2
	case Virus:
		a.Strength++
		a.Dexterity++
	}
	return a
}

// generateAbilities samples 1 + level/3 abilities from the type's pool
// without replacement, capped at the pool size.
func generateAbilities(level int, typ Type, src dice.Source) []Ability {
	pool := AbilityPool(typ)
	count := 1 + level/3
	if count > len(pool) {
		count = len(pool)
	}

	indices := make([]int, len(pool))
	for i := range indices {
		indices[i] = i
	}
	abilities := make([]Ability, 0, count)
	for i := 0; i < count; i++ {
		j := i + src.Intn(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
		abilities = append(abilities, pool[indices[i]])
	}
	return abilities
}

var componentTypes = []string{"metal", "elemental", "catalyst", "binding", "rune"}

// generateLoot builds the monster's loot table. Components and consumables
// are chance entries that scale with level; digital essence is always
// present.
func generateLoot(level int, typ Type, src dice.Source) []item.Item {
	var loot []item.Item

	if dice.Chance(src, 0.3+float64(level)*0.05) {
		componentType := componentTypes[src.Intn(len(componentTypes))]
		loot = append(loot, item.Item{
			Type:          item.TypeComponent,
			ComponentType: componentType,
			Name:          typ.String() + " " + capitalize(componentType),
			Value:         3 + level,
			DropChance:    0.7,
		})
	}

	if dice.Chance(src, 0.2+float64(level)*0.03) {
		switch src.Intn(3) {
		case 0:
			loot = append(loot, item.Item{
				Type:       item.TypeConsumable,
				Subtype:    item.SubtypeHealthPotion,
				Name:       "Health Chip",
				Effect:     "restore_hp",
				Amount:     5 + level,
				DropChance: 0.5,
			})
		case 1:
			loot = append(loot, item.Item{
				Type:       item.TypeConsumable,
				Subtype:    item.SubtypeManaPotion,
				Name:       "Mana Fragment",
				Effect:     "restore_mp",
				Amount:     5 + level,
				DropChance: 0.5,
			})
		default:
			loot = append(loot, item.Item{
				Type:       item.TypeConsumable,
				Subtype:    item.SubtypeBuffItem,
				Name:       "Combat Algorithm",
				Effect:     "increase_attack",
				Amount:     2,
				Duration:   3,
				DropChance: 0.4,
			})
		}
	}

	loot = append(loot, item.Item{
		Type:       item.TypeCurrency,
		Name:       "Digital Essence",
		Amount:     10 + level*5,
		DropChance: 1.0,
	})
	return loot
}

// RollLoot rolls each loot table entry against its drop chance and returns
// the dropped copies. Dropped amounts vary by up to 20% either way but never
// fall below 1.
func (m *Monster) RollLoot(src dice.Source) []item.Item {
	var dropped []item.Item
	for _, entry := range m.Loot {
		chance := entry.DropChance
		if chance == 0 {
			chance = 1.0
		}
		if dice.Float64(src) > chance {
			continue
		}
		drop := entry
		if drop.Amount != 0 {
			variance := float64(drop.Amount) * 0.2
			drop.Amount = int(float64(drop.Amount) + (dice.Float64(src)*2-1)*variance)
			if drop.Amount < 1 {
				drop.Amount = 1
			}
		}
		dropped = append(dropped, drop)
	}
	return dropped
}

// TakeDamage reduces HP, clamped at 0, and returns the amount applied.
func (m *Monster) TakeDamage(amount int) int {
	if amount > m.HP {
		amount = m.HP
	}
	m.HP -= amount
	return amount
}

// Alive reports whether the monster has HP remaining.
func (m *Monster) Alive() bool {
	return m.HP > 0
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// abilityToMap serializes an ability, omitting unset fields so the form
// matches the pool entry that produced it.
func abilityToMap(a Ability) snapshot.Map {
	m := snapshot.Map{"name": a.Name}
	if a.DamageMultiplier != 0 {
		m["damage_multiplier"] = a.DamageMultiplier
	}
	if a.Damage != 0 {
		m["damage"] = a.Damage
	}
	if a.Target != "" {
		m["target"] = a.Target
	}
	if a.Effect != "" {
		m["effect"] = a.Effect
	}
	if a.Amount != 0 {
		m["amount"] = a.Amount
	}
	if a.Duration != 0 {
		m["duration"] = a.Duration
	}
	if a.Cooldown != 0 {
		m["cooldown"] = a.Cooldown
	}
	if a.HealPercent != 0 {
		m["heal_percent"] = a.HealPercent
	}
	return m
}

func abilityFromMap(m snapshot.Map) Ability {
	return Ability{
		Name:             snapshot.String(m, "name"),
		DamageMultiplier: snapshot.Float(m, "damage_multiplier"),
		Damage:           snapshot.Int(m, "damage"),
		Target:           snapshot.String(m, "target"),
		Effect:           snapshot.String(m, "effect"),
		Amount:           snapshot.Int(m, "amount"),
		Duration:         snapshot.Int(m, "duration"),
		Cooldown:         snapshot.Int(m, "cooldown"),
		HealPercent:      snapshot.Int(m, "heal_percent"),
	}
}

// ToMap converts the monster to its serialized mapping form.
func (m *Monster) ToMap() snapshot.Map {
	abilities := make([]snapshot.Map, len(m.Abilities))
	for i, a := range m.Abilities {
		abilities[i] = abilityToMap(a)
	}
	return snapshot.Map{
		"name":         m.Name,
		"level":        m.Level,
		"monster_type": int(m.Type),
		"attributes":   m.Attributes.ToMap(),
		"max_hp":       m.MaxHP,
		"hp":           m.HP,
		"attack":       m.Attack,
		"defense":      m.Defense,
		"abilities":    abilities,
		"loot":         item.SliceToMaps(m.Loot),
	}
}

// FromMap restores a monster from its serialized mapping form. All derived
// stats come from the map, so boss boosts survive a round trip.
func FromMap(m snapshot.Map) *Monster {
	restored := &Monster{
		Name:       snapshot.String(m, "name"),
		Level:      snapshot.Int(m, "level"),
		Type:       Type(snapshot.Int(m, "monster_type")),
		Attributes: stats.FromMap(snapshot.Nested(m, "attributes")),
		MaxHP:      snapshot.Int(m, "max_hp"),
		HP:         snapshot.Int(m, "hp"),
		Attack:     snapshot.Int(m, "attack"),
		Defense:    snapshot.Int(m, "defense"),
		Loot:       item.SliceFromMaps(snapshot.MapSlice(m, "loot")),
	}
	for _, am := range snapshot.MapSlice(m, "abilities") {
		restored.Abilities = append(restored.Abilities, abilityFromMap(am))
	}
	return restored
}
