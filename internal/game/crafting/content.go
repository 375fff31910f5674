package crafting

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/neondnd/isekai/internal/game/item"
)

//go:embed recipes.yaml
var recipesYAML []byte

// Recipe is the content definition for one craftable item: the exact
// component set that forms it, the class that forges it with a bonus, and
// stat templates expanded with the quality of the forge check.
//
// Stat templates may contain the placeholders [QUALITY] and [DICE], replaced
// by the quality bonus and quality die sides of the finished item.
type Recipe struct {
	Name          string            `yaml:"name"`
	Type          string            `yaml:"type"`
	ClassAffinity string            `yaml:"class_affinity"`
	Components    []string          `yaml:"components"`
	Description   string            `yaml:"description"`
	Stats         map[string]string `yaml:"stats"`
}

type recipeFile struct {
	Recipes    []Recipe    `yaml:"recipes"`
	Components []item.Item `yaml:"components"`
}

var (
	recipeRegistry  []Recipe
	componentSupply []item.Item
)

func init() {
	recipes, components, err := loadRecipes(recipesYAML)
	if err != nil {
		panic("crafting: loading embedded recipe content: " + err.Error())
	}
	recipeRegistry = recipes
	componentSupply = components
}

func loadRecipes(data []byte) ([]Recipe, []item.Item, error) {
	var file recipeFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, nil, fmt.Errorf("parsing recipe content: %w", err)
	}
	seen := make(map[string]bool, len(file.Recipes))
	for _, r := range file.Recipes {
		if r.Name == "" {
			return nil, nil, fmt.Errorf("recipe definition missing name")
		}
		if seen[r.Name] {
			return nil, nil, fmt.Errorf("duplicate recipe definition %q", r.Name)
		}
		if len(r.Components) == 0 {
			return nil, nil, fmt.Errorf("recipe %q has no components", r.Name)
		}
		seen[r.Name] = true
	}
	return file.Recipes, file.Components, nil
}

// Recipes returns the known recipe list.
func Recipes() []Recipe {
	return recipeRegistry
}

// Components returns the forgeable component items.
func Components() []item.Item {
	return componentSupply
}

// LookupRecipe returns the recipe with the given name.
func LookupRecipe(name string) (Recipe, bool) {
	for _, r := range recipeRegistry {
		if r.Name == name {
			return r, true
		}
	}
	return Recipe{}, false
}
