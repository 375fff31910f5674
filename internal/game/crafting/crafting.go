// Package crafting implements the forge: matching a set of components
// against known recipes and resolving a quality check to produce a crafted
// item whose stats scale with the check total.
package crafting

import (
	"sort"
	"strconv"
	"strings"

	"github.com/neondnd/isekai/internal/game/character"
	"github.com/neondnd/isekai/internal/game/dice"
	"github.com/neondnd/isekai/internal/game/item"
	"github.com/neondnd/isekai/internal/game/stats"
)

// Difficulty is the forge check target. A modified 3d6 total below it wastes
// the attempt.
const Difficulty = 10

// affinityBonus is added to the forge check when the crafter's class matches
// the recipe's class affinity.
const affinityBonus = 2

// Quality is the finish grade of a crafted item.
type Quality string

const (
	QualityPoor      Quality = "Poor"
	QualityGood      Quality = "Good"
	QualityGreat     Quality = "Great"
	QualityExcellent Quality = "Excellent"
)

// QualityFor grades a forge check total and returns the grade along with the
// quality bonus and quality die sides substituted into stat templates.
//
// Tiers are inclusive: 18+ Excellent, 15+ Great, 10+ Good, below Poor.
func QualityFor(total int) (quality Quality, bonus, dieSides int) {
	switch {
	case total >= 18:
		return QualityExcellent, 3, 8
	case total >= 15:
		return QualityGreat, 2, 6
	case total >= 10:
		return QualityGood, 1, 4
	default:
		return QualityPoor, 0, 4
	}
}

// CheckAttribute returns the attribute governing a forge check for the given
// item type and crafter class. Warriors forge weapons with strength, wizards
// with wisdom; accessories always take wisdom; everything else takes
// dexterity.
func CheckAttribute(itemType, class string) string {
	switch {
	case itemType == item.TypeWeapon && class == "Warrior":
		return stats.Strength
	case itemType == item.TypeWeapon && class == "Wizard":
		return stats.Wisdom
	case itemType == item.TypeAccessory:
		return stats.Wisdom
	default:
		return stats.Dexterity
	}
}

// MatchRecipe finds the recipe formed by the named components, ignoring
// order. Returns false when no recipe uses exactly that set.
func MatchRecipe(componentNames []string, recipes []Recipe) (Recipe, bool) {
	want := append([]string(nil), componentNames...)
	sort.Strings(want)
	for _, r := range recipes {
		have := append([]string(nil), r.Components...)
		sort.Strings(have)
		if equalNames(want, have) {
			return r, true
		}
	}
	return Recipe{}, false
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Result records one forge attempt. On success Item holds the crafted item
// and Stats the fully expanded stat templates; on failure Reason says why.
type Result struct {
	Success bool
	Reason  string
	Check   dice.CheckResult
	Quality Quality
	Stats   map[string]string
	Item    item.Item
}

// Craft resolves one forge attempt: the components must form a recipe, and a
// 3d6 check modified by the governing attribute (plus the class affinity
// bonus when it applies) must meet Difficulty. The check total also grades
// the finished item's quality.
func Craft(ch *character.Character, components []item.Item, recipes []Recipe, src dice.Source) Result {
	names := make([]string, len(components))
	for i, c := range components {
		names[i] = c.Name
	}

	recipe, ok := MatchRecipe(names, recipes)
	if !ok {
		return Result{Reason: "components do not form a known recipe"}
	}

	modifier := ch.Attributes.Mod(CheckAttribute(recipe.Type, ch.Class))
	if recipe.ClassAffinity == ch.Class {
		modifier += affinityBonus
	}

	check := dice.Check(src, modifier, Difficulty)
	if !check.Success {
		return Result{Reason: "the forging attempt failed", Check: check}
	}

	quality, bonus, dieSides := QualityFor(check.Total)
	expanded := expandStats(recipe.Stats, bonus, dieSides)

	crafted := item.Item{
		Name:        recipe.Name,
		Type:        recipe.Type,
		Description: recipe.Description,
		Damage:      expanded["damage"],
		Effect:      expanded["effect"],
	}

	return Result{
		Success: true,
		Check:   check,
		Quality: quality,
		Stats:   expanded,
		Item:    crafted,
	}
}

// Forge is Craft against the embedded recipe registry.
func Forge(ch *character.Character, components []item.Item, src dice.Source) Result {
	return Craft(ch, components, Recipes(), src)
}

// expandStats substitutes the quality placeholders into each stat template.
func expandStats(templates map[string]string, bonus, dieSides int) map[string]string {
	if len(templates) == 0 {
		return nil
	}
	out := make(map[string]string, len(templates))
	for name, tmpl := range templates {
		v := strings.ReplaceAll(tmpl, "[QUALITY]", strconv.Itoa(bonus))
		v = strings.ReplaceAll(v, "[DICE]", strconv.Itoa(dieSides))
		out[name] = v
	}
	return out
}
