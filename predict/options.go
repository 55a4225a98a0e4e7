package predict

import (
	"time"

	"titan/game"

	"golang.org/x/exp/rand"
)

// Valuer ranks creature types for the split-choice heuristic.
type Valuer interface {
	KillValue(name string) int
	Canonical(name string) string
}

type Option func(s *settings)

// settings are shared by every node of one tree.
type settings struct {
	rules  game.Rules
	values Valuer
	rng    *rand.Rand
	strict bool
}

func newSettings(options ...Option) *settings {
	s := &settings{ // Default values
		rules:  game.NewStandardRules(),
		values: game.DefaultCatalog(),
	}
	for _, option := range options {
		option(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return s
}

func WithRules(rules game.Rules) Option {
	return func(s *settings) {
		if rules != nil {
			s.rules = rules
		}
	}
}

func WithValuer(values Valuer) Option {
	return func(s *settings) {
		if values != nil {
			s.values = values
		}
	}
}

// WithSource sets the random source used to decide which half of an even
// split keeps the marker.
func WithSource(src rand.Source) Option {
	return func(s *settings) {
		if src != nil {
			s.rng = rand.New(src)
		}
	}
}

func WithSeed(seed uint64) Option {
	return WithSource(rand.NewSource(seed))
}

// WithStrict panics on invariant violations instead of returning them.
func WithStrict() Option {
	return func(s *settings) {
		s.strict = true
	}
}

// swapHalves reports whether the split-off half of an even split should
// keep the marker instead.
func (s *settings) swapHalves() bool {
	return s.rng.Uint64()&1 == 1
}
