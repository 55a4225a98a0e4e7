package game

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed creatures.yaml
var defaultCreatures []byte

const TitanName = "Titan"

// Creature is a static creature type from the variant's creature table.
type Creature struct {
	Name         string `yaml:"name"`
	Power        int    `yaml:"power"`
	Skill        int    `yaml:"skill"`
	Flies        bool   `yaml:"flies"`
	Rangestrikes bool   `yaml:"rangestrikes"`
	MagicMissile bool   `yaml:"magicMissile"`
	Lord         bool   `yaml:"lord"`
	Titan        bool   `yaml:"titan"`
	Starting     bool   `yaml:"starting"`
}

func (c Creature) PointValue() int {
	return c.Power * c.Skill
}

// KillValue estimates how much an opponent wants to kill this creature.
// Terrain bonuses are ignored since split prediction has no terrain.
func (c Creature) KillValue() int {
	val := 10 * c.PointValue()
	switch c.Skill {
	case 4:
		val += 2
	case 2:
		val += 1
	}
	if c.Flies {
		val += 4
	}
	if c.Rangestrikes {
		val += 5
	}
	if c.MagicMissile {
		val += 4
	}
	if c.Titan {
		val += 1000
	}
	return val
}

// Catalog looks up creature types by name.
type Catalog struct {
	creatures map[string]Creature
}

type catalogFile struct {
	Creatures []Creature `yaml:"creatures"`
}

// LoadCatalog parses a YAML creature table.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode creature table: %w", err)
	}
	if len(file.Creatures) == 0 {
		return nil, fmt.Errorf("creature table is empty")
	}

	c := &Catalog{creatures: make(map[string]Creature, len(file.Creatures))}
	for _, creature := range file.Creatures {
		if creature.Name == "" {
			return nil, fmt.Errorf("creature without a name in table")
		}
		if _, ok := c.creatures[creature.Name]; ok {
			return nil, fmt.Errorf("duplicate creature %q in table", creature.Name)
		}
		c.creatures[creature.Name] = creature
	}
	return c, nil
}

// DefaultCatalog returns the creature table of the Default variant.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultCreatures))
	if err != nil {
		panic(fmt.Sprintf("embedded creature table is invalid: %v", err))
	}
	return c
}

// Canonical maps per-player titan names such as "Titan-6" to "Titan".
func (c *Catalog) Canonical(name string) string {
	if strings.HasPrefix(name, TitanName) {
		return TitanName
	}
	return name
}

func (c *Catalog) Creature(name string) (Creature, bool) {
	creature, ok := c.creatures[c.Canonical(name)]
	return creature, ok
}

// KillValue returns 0 for unknown creature types.
func (c *Catalog) KillValue(name string) int {
	creature, ok := c.Creature(name)
	if !ok {
		return 0
	}
	return creature.KillValue()
}

func (c *Catalog) IsLord(name string) bool {
	creature, ok := c.Creature(name)
	return ok && creature.Lord
}

// StartingLords returns the two lords of a starting legion, the titan first.
func (c *Catalog) StartingLords() ([2]string, error) {
	var lords []string
	for _, name := range c.Names() {
		if creature := c.creatures[name]; creature.Starting {
			if !c.IsLord(name) {
				return [2]string{}, fmt.Errorf("starting creature %s is not a lord", name)
			}
			lords = append(lords, name)
		}
	}
	if len(lords) != 2 {
		return [2]string{}, fmt.Errorf("creature table needs exactly two starting lords, got %v", lords)
	}
	if c.creatures[lords[1]].Titan {
		lords[0], lords[1] = lords[1], lords[0]
	}
	return [2]string{lords[0], lords[1]}, nil
}

// Names returns every creature name in alphabetical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.creatures))
	for name := range c.creatures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
