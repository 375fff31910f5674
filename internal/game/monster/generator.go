package monster

import (
	"fmt"

	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/item"
)

// Generate creates a level-scaled monster with a name drawn from the type's
// name pools. A zero typ picks a random type first so the name and the stat
// bias agree.
func Generate(level int, theme string, typ Type, src dice.Source) *Monster {
	if typ == 0 {
		typ = Types()[src.Intn(4)]
	}

	prefix := content.Names.Prefixes[src.Intn(len(content.Names.Prefixes))]
	suffixes := content.Names.Suffixes[typ.String()]
	suffix := suffixes[src.Intn(len(suffixes))]
	name := fmt.Sprintf("Lvl %d %s %s", level, prefix, suffix)

	return New(name, level, typ, nil, nil, src)
}

// GenerateBoss creates a boss two levels above the requested level with
// doubled HP, boosted attack and defense, one extra boss-only ability, and a
// guaranteed rare drop themed to the dungeon.
func GenerateBoss(level int, theme string, src dice.Source) *Monster {
	name := content.BossNames[src.Intn(len(content.BossNames))]
	boss := New(name, level+2, 0, nil, nil, src)

	boss.MaxHP *= 2
	boss.HP = boss.MaxHP
	boss.Attack += 2
	boss.Defense += 2

	bossAbilities := []Ability{
		{Name: "System Purge", Damage: level * 2, Target: "all", Cooldown: 3},
		{Name: "Root Access", Effect: "summon_minions", Cooldown: 4},
		{Name: "Firewall Lockdown", Effect: "prevent_escape", Duration: 2},
		{Name: "Data Corruption", Effect: "status_effect", Target: "all", Duration: 3},
	}
	boss.Abilities = append(boss.Abilities, bossAbilities[src.Intn(len(bossAbilities))])

	boss.Loot = append(boss.Loot, item.Item{
		Type:       item.TypeRareItem,
		Name:       capitalize(theme) + " Core Fragment",
		Value:      level * 10,
		DropChance: 1.0,
	})
	return boss
}
