package monster

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed abilities.yaml
var abilitiesYAML []byte

type contentFile struct {
	Pools map[string][]Ability `yaml:"pools"`
	Names struct {
		Prefixes []string            `yaml:"prefixes"`
		Suffixes map[string][]string `yaml:"suffixes"`
	} `yaml:"names"`
	BossNames []string `yaml:"boss_names"`
}

var content contentFile

func init() {
	if err := loadContent(abilitiesYAML, &content); err != nil {
		panic("monster: loading embedded ability content: " + err.Error())
	}
}

func loadContent(data []byte, out *contentFile) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parsing monster content: %w", err)
	}
	for _, typ := range Types() {
		if len(out.Pools[typ.String()]) == 0 {
			return fmt.Errorf("no ability pool for monster type %s", typ)
		}
		if len(out.Names.Suffixes[typ.String()]) == 0 {
			return fmt.Errorf("no name suffixes for monster type %s", typ)
		}
	}
	if len(out.Names.Prefixes) == 0 || len(out.BossNames) == 0 {
		return fmt.Errorf("incomplete monster name pools")
	}
	return nil
}

// AbilityPool returns the ability pool for a monster type. The returned slice
// is shared content data and must not be mutated.
func AbilityPool(typ Type) []Ability {
	return content.Pools[typ.String()]
}
