package engine

import (
	"titan/metrics"
	"titan/predict"
)

// Guess is one creature slot of a predicted legion.
type Guess struct {
	Name    string
	Certain bool
}

// Prediction is the best guess for one current legion.
type Prediction struct {
	Player    string
	Marker    string
	Turn      int // Turn the legion's node was created
	Creatures []Guess
}

func (p Prediction) Height() int {
	return len(p.Creatures)
}

type Option func(*Engine)

// WithPredictOptions passes options to every tracker the engine starts.
func WithPredictOptions(options ...predict.Option) Option {
	return func(e *Engine) {
		e.predictOptions = append(e.predictOptions, options...)
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(e *Engine) {
		if collector != nil {
			e.metrics = collector
		}
	}
}

// WithoutResync makes contradicting full reveals fail instead of rebuilding
// the legion from the revealed contents.
func WithoutResync() Option {
	return func(e *Engine) {
		e.resync = false
	}
}
