package character

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/neondnd/isekai/internal/game/item"
)

//go:embed classes.yaml
var classesYAML []byte

// Skill is one usable character skill. Skills with MPCost 0 are always
// available; the rest spend MP when used.
type Skill struct {
	Name        string `yaml:"name"`
	MPCost      int    `yaml:"mp_cost"`
	Description string `yaml:"description"`
}

// ClassDef is the content definition for one character class: its starting
// kit, starting skills, and the pool of advanced skills unlocked by leveling.
type ClassDef struct {
	ID             string      `yaml:"id"`
	Kit            []item.Item `yaml:"kit"`
	Skills         []Skill     `yaml:"skills"`
	AdvancedSkills []Skill     `yaml:"advanced_skills"`
}

type classFile struct {
	Classes []ClassDef `yaml:"classes"`
}

var classRegistry map[string]ClassDef

func init() {
	reg, err := loadClasses(classesYAML)
	if err != nil {
		panic("character: loading embedded class content: " + err.Error())
	}
	classRegistry = reg
}

func loadClasses(data []byte) (map[string]ClassDef, error) {
	var file classFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing class content: %w", err)
	}
	reg := make(map[string]ClassDef, len(file.Classes))
	for _, def := range file.Classes {
		if def.ID == "" {
			return nil, fmt.Errorf("class definition missing id")
		}
		if _, dup := reg[def.ID]; dup {
			return nil, fmt.Errorf("duplicate class definition %q", def.ID)
		}
		reg[def.ID] = def
	}
	return reg, nil
}

// ClassNames returns the playable class names.
func ClassNames() []string {
	return []string{"Warrior", "Wizard", "White Mage", "Wanderer"}
}

// LookupClass returns the content definition for a class name.
func LookupClass(name string) (ClassDef, bool) {
	def, ok := classRegistry[name]
	return def, ok
}
