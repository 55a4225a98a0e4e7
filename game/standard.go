package game

type StandardRules struct {
	StartingHeight int
	LegionHeight   int
	StartingLords  [2]string
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		StartingHeight: 8,
		LegionHeight:   7,
		StartingLords:  [2]string{TitanName, "Angel"},
	}
}

// NewCatalogRules returns the standard heights with the starting lords
// taken from a creature table.
func NewCatalogRules(c *Catalog) (*StandardRules, error) {
	lords, err := c.StartingLords()
	if err != nil {
		return nil, err
	}
	sr := NewStandardRules()
	sr.StartingLords = lords
	return sr, nil
}

func (sr *StandardRules) InitialHeight() int {
	return sr.StartingHeight
}

func (sr *StandardRules) MaxHeight() int {
	return sr.LegionHeight
}

func (sr *StandardRules) Lords() [2]string {
	return sr.StartingLords
}

// IsStartingLord reports whether name is one of the starting lords.
func IsStartingLord(r Rules, name string) bool {
	lords := r.Lords()
	return name == lords[0] || name == lords[1]
}
