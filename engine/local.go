package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"titan/communication"
	"titan/game"
	"titan/metrics"
	"titan/predict"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Engine keeps one prediction tracker per opponent and applies server
// events to them in order. It is not safe for concurrent use.
type Engine struct {
	sessionID      string
	trackers       map[string]*predict.Tracker
	predictOptions []predict.Option
	metrics        metrics.Collector
	resync         bool
}

func New(options ...Option) *Engine {
	e := &Engine{ // Default values
		sessionID: uuid.NewString(),
		trackers:  map[string]*predict.Tracker{},
		metrics:   metrics.NewNoopCollector(),
		resync:    true,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *Engine) SessionID() string {
	return e.sessionID
}

// Run applies events from src until it is exhausted or ctx is done. Events
// that cannot be applied are logged and skipped.
func (e *Engine) Run(ctx context.Context, src communication.Source) (metrics.ReplayMetric, error) {
	e.metrics.Start(e.sessionID)
	log.Info().Msgf("session %s started", e.sessionID)

	for {
		ev, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return e.metrics.Complete(), fmt.Errorf("failed to read event: %w", err)
		}
		if err := e.Apply(ctx, ev); err != nil {
			violation := errors.Is(err, predict.ErrResync)
			e.metrics.AddFailure(violation)
			log.Error().Err(err).Bool("violation", violation).Msgf("skipped %s event", ev.Type)
		}
	}

	m := e.metrics.Complete()
	log.Info().Msgf("session %s finished", e.sessionID)
	return m, nil
}

// Apply feeds one event to the tracker of its player.
func (e *Engine) Apply(ctx context.Context, ev game.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.metrics.AddEvent(ev.Type)
	if err := e.apply(ev); err != nil {
		return fmt.Errorf("failed to apply %s: %w", ev, err)
	}
	return nil
}

func (e *Engine) apply(ev game.Event) error {
	if ev.Type == game.StartEvent {
		if _, ok := e.trackers[ev.Player]; ok {
			return fmt.Errorf("player %s already started", ev.Player)
		}
		tracker, err := predict.NewTracker(ev.Player, ev.Marker, ev.Creatures, e.predictOptions...)
		if err != nil {
			return err
		}
		e.trackers[ev.Player] = tracker
		log.Debug().Msgf("tracking %s from %s", ev.Player, tracker.Root())
		return nil
	}

	tracker, err := e.Tracker(ev.Player)
	if err != nil {
		return err
	}
	if ev.Type == game.EliminateEvent {
		return tracker.Eliminate(ev.Marker)
	}
	if ev.Type == game.RevealEvent && ev.All {
		return e.revealAll(tracker, ev)
	}

	leaf, err := tracker.Leaf(ev.Marker)
	if err != nil {
		return err
	}
	switch ev.Type {
	case game.SplitEvent:
		return leaf.Split(ev.Height, ev.Other, ev.Turn)
	case game.RevealEvent:
		return leaf.RevealCreatures(ev.Creatures)
	case game.MergeEvent:
		other, err := tracker.Leaf(ev.Other)
		if err != nil {
			return err
		}
		_, err = other.Merge(leaf)
		return err
	case game.AddEvent:
		for _, name := range ev.Creatures {
			if err := leaf.AddCreature(name); err != nil {
				return err
			}
		}
		return nil
	case game.RemoveEvent:
		return leaf.RemoveCreatures(ev.Creatures)
	}
	return fmt.Errorf("unsupported event type %s", ev.Type)
}

// revealAll applies a full reveal. When the tree disagrees with it, or does
// not know the legion at all, the legion is rebuilt from the reveal.
func (e *Engine) revealAll(tracker *predict.Tracker, ev game.Event) error {
	leaf, err := tracker.Leaf(ev.Marker)
	if err == nil {
		err = leaf.RevealAllCreatures(ev.Creatures)
		if err == nil || !e.resync || !errors.Is(err, predict.ErrResync) {
			return err
		}
	} else if !e.resync || !errors.Is(err, predict.ErrUnknownLegion) {
		return err
	}

	log.Warn().Err(err).Msgf("resyncing %s/%s from full reveal", ev.Player, ev.Marker)
	if _, err := tracker.Resync(ev.Marker, ev.Turn, ev.Creatures); err != nil {
		return err
	}
	e.metrics.AddResync()
	return nil
}

func (e *Engine) Tracker(player string) (*predict.Tracker, error) {
	tracker, ok := e.trackers[player]
	if !ok {
		return nil, fmt.Errorf("player %s never started", player)
	}
	return tracker, nil
}

// Players returns every tracked player in alphabetical order.
func (e *Engine) Players() []string {
	players := make([]string, 0, len(e.trackers))
	for player := range e.trackers {
		players = append(players, player)
	}
	sort.Strings(players)
	return players
}

// Predictions returns the current legions of a player ordered by marker.
func (e *Engine) Predictions(player string) ([]Prediction, error) {
	tracker, err := e.Tracker(player)
	if err != nil {
		return nil, err
	}
	leaves, err := tracker.Leaves()
	if err != nil {
		return nil, err
	}

	predictions := make([]Prediction, 0, len(leaves))
	for _, leaf := range leaves {
		p := Prediction{Player: player, Marker: leaf.MarkerID(), Turn: leaf.TurnCreated()}
		for _, ci := range leaf.Creatures() {
			p.Creatures = append(p.Creatures, Guess{Name: ci.Name(), Certain: ci.Certain()})
		}
		predictions = append(predictions, p)
	}
	return predictions, nil
}

// Records flattens the predictions of every player for the CSV writer.
// Players whose tree is out of sync are logged and left out.
func (e *Engine) Records() []metrics.PredictionRecord {
	var records []metrics.PredictionRecord
	for _, player := range e.Players() {
		predictions, err := e.Predictions(player)
		if err != nil {
			log.Error().Err(err).Msgf("no predictions for %s", player)
			continue
		}
		for _, p := range predictions {
			for _, g := range p.Creatures {
				records = append(records, metrics.PredictionRecord{
					Player:   p.Player,
					Marker:   p.Marker,
					Turn:     p.Turn,
					Height:   p.Height(),
					Creature: g.Name,
					Certain:  g.Certain,
				})
			}
		}
	}
	return records
}

// Dump logs the current legions of every player at debug level.
func (e *Engine) Dump() {
	for _, player := range e.Players() {
		e.trackers[player].Dump()
	}
}
