package character

import (
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/snapshot"
	"github.com/neondnd/isekai/internal/game/stats"
)

// ToMap converts the character to its serialized mapping form. Empty
// equipment slots serialize as nil to match the forms the engine accepts
// back in FromMap.
func (c *Character) ToMap() snapshot.Map {
	equipment := make(snapshot.Map, len(c.Equipment))
	for slot, name := range c.Equipment {
		if name == "" {
			equipment[slot] = nil
		} else {
			equipment[slot] = name
		}
	}
	skills := make([]snapshot.Map, len(c.Skills))
	for i, s := range c.Skills {
		skills[i] = snapshot.Map{
			"name":        s.Name,
			"mp_cost":     s.MPCost,
			"description": s.Description,
		}
	}
	return snapshot.Map{
		"name":       c.Name,
		"class":      c.Class,
		"origin":     c.Origin,
		"level":      c.Level,
		"xp":         c.XP,
		"attributes": c.Attributes.ToMap(),
		"hp":         c.HP,
		"mp":         c.MP,
		"max_hp":     c.MaxHP,
		"max_mp":     c.MaxMP,
		"inventory":  item.SliceToMaps(c.Inventory),
		"equipment":  equipment,
		"skills":     skills,
	}
}

// FromMap restores a character from its serialized mapping form. All saved
// state including derived maximums is taken from the map rather than
// recomputed, so older saves keep the values they were written with.
func FromMap(m snapshot.Map) *Character {
	c := &Character{
		Name:       snapshot.String(m, "name"),
		Class:      snapshot.String(m, "class"),
		Origin:     snapshot.String(m, "origin"),
		Level:      snapshot.Int(m, "level"),
		XP:         snapshot.Int(m, "xp"),
		Attributes: stats.FromMap(snapshot.Nested(m, "attributes")),
		HP:         snapshot.Int(m, "hp"),
		MP:         snapshot.Int(m, "mp"),
		MaxHP:      snapshot.Int(m, "max_hp"),
		MaxMP:      snapshot.Int(m, "max_mp"),
		Inventory:  item.SliceFromMaps(snapshot.MapSlice(m, "inventory")),
		Equipment: map[string]string{
			SlotWeapon:    "",
			SlotArmor:     "",
			SlotAccessory: "",
		},
	}
	for slot, v := range snapshot.Nested(m, "equipment") {
		if name, ok := v.(string); ok {
			c.Equipment[slot] = name
		}
	}
	for _, sm := range snapshot.MapSlice(m, "skills") {
		c.Skills = append(c.Skills, Skill{
			Name:        snapshot.String(sm, "name"),
			MPCost:      snapshot.Int(sm, "mp_cost"),
			Description: snapshot.String(sm, "description"),
		})
	}
	return c
}
