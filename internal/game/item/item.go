// Package item defines the single item record used for inventory entries,
// room treasures, and monster loot drops.
package item

import "github.com/neondnd/isekai/internal/game/snapshot"

// Item kinds. Weapon, armor, and accessory are the equippable kinds; the
// rest are carried, dropped, or embedded in rooms.
const (
	TypeWeapon        = "weapon"
	TypeArmor         = "armor"
	TypeAccessory     = "accessory"
	TypeConsumable    = "consumable"
	TypeComponent     = "component"
	TypeCurrency      = "currency"
	TypeItem          = "item"
	TypeRareItem      = "rare_item"
	TypeRareComponent = "rare_component"
)

// Consumable subtypes recognized by the combat engine.
const (
	SubtypeHealthPotion = "health_potion"
	SubtypeManaPotion   = "mana_potion"
	SubtypeBuffItem     = "buff_item"
)

// Item is one item record. Which fields are meaningful depends on Type:
// weapons carry Damage, armor carries Defense, consumables carry
// Subtype/Effect/Amount/Duration, loot entries carry DropChance, and room
// treasures carry Found/RequiresPuzzle.
type Item struct {
	Name           string  `yaml:"name"`
	Type           string  `yaml:"type"`
	Subtype        string  `yaml:"subtype"`
	Description    string  `yaml:"description"`
	Damage         string  `yaml:"damage"` // dice expression, e.g. "1d8"
	Defense        int     `yaml:"defense"`
	Effect         string  `yaml:"effect"`
	Amount         int     `yaml:"amount"`
	Duration       int     `yaml:"duration"`
	Value          int     `yaml:"value"`
	DropChance     float64 `yaml:"drop_chance"`
	ComponentType  string  `yaml:"component_type"`
	Found          bool    `yaml:"found"`
	RequiresPuzzle bool    `yaml:"requires_puzzle"`
}

// Equippable reports whether the item can occupy an equipment slot; the
// slot name is the item's Type.
func (i Item) Equippable() bool {
	switch i.Type {
	case TypeWeapon, TypeArmor, TypeAccessory:
		return true
	default:
		return false
	}
}

// ToMap converts the item to its serialized mapping form. Optional fields
// are omitted when unset so the form matches what originally produced it.
func (i Item) ToMap() snapshot.Map {
	m := snapshot.Map{
		"name": i.Name,
		"type": i.Type,
	}
	if i.Subtype != "" {
		m["subtype"] = i.Subtype
	}
	if i.Description != "" {
		m["description"] = i.Description
	}
	if i.Damage != "" {
		m["damage"] = i.Damage
	}
	if i.Defense != 0 {
		m["defense"] = i.Defense
	}
	if i.Effect != "" {
		m["effect"] = i.Effect
	}
	if i.Amount != 0 {
		m["amount"] = i.Amount
	}
	if i.Duration != 0 {
		m["duration"] = i.Duration
	}
	if i.Value != 0 {
		m["value"] = i.Value
	}
	if i.DropChance != 0 {
		m["drop_chance"] = i.DropChance
	}
	if i.ComponentType != "" {
		m["component_type"] = i.ComponentType
	}
	if i.Found {
		m["found"] = i.Found
	}
	if i.RequiresPuzzle {
		m["requires_puzzle"] = i.RequiresPuzzle
	}
	return m
}

// FromMap restores an item from its serialized mapping form.
func FromMap(m snapshot.Map) Item {
	return Item{
		Name:           snapshot.String(m, "name"),
		Type:           snapshot.String(m, "type"),
		Subtype:        snapshot.String(m, "subtype"),
		Description:    snapshot.String(m, "description"),
		Damage:         snapshot.String(m, "damage"),
		Defense:        snapshot.Int(m, "defense"),
		Effect:         snapshot.String(m, "effect"),
		Amount:         snapshot.Int(m, "amount"),
		Duration:       snapshot.Int(m, "duration"),
		Value:          snapshot.Int(m, "value"),
		DropChance:     snapshot.Float(m, "drop_chance"),
		ComponentType:  snapshot.String(m, "component_type"),
		Found:          snapshot.Bool(m, "found"),
		RequiresPuzzle: snapshot.Bool(m, "requires_puzzle"),
	}
}

// SliceToMaps converts a slice of items to serialized form. A nil or empty
// slice stays nil so round trips preserve it.
func SliceToMaps(items []Item) []snapshot.Map {
	if len(items) == 0 {
		return nil
	}
	out := make([]snapshot.Map, len(items))
	for idx, it := range items {
		out[idx] = it.ToMap()
	}
	return out
}

// SliceFromMaps restores a slice of items from serialized form.
func SliceFromMaps(maps []snapshot.Map) []Item {
	if len(maps) == 0 {
		return nil
	}
	out := make([]Item, len(maps))
	for idx, m := range maps {
		out[idx] = FromMap(m)
	}
	return out
}
