package engine

import (
	"context"
	"strings"
	"testing"

	"titan/communication"
	"titan/game"
	"titan/metrics"
	"titan/predict"

	"github.com/stretchr/testify/require"
)

// zeroSource never hands the marker to the guessed split-off half.
type zeroSource struct{}

func (zeroSource) Uint64() uint64 { return 0 }
func (zeroSource) Seed(uint64)    {}

func names(creatures ...string) []string {
	return creatures
}

func split(turn int, marker, other string, height int) game.Event {
	return game.Event{Type: game.SplitEvent, Player: "Red", Turn: turn, Marker: marker, Other: other, Height: height}
}

func reveal(turn int, marker string, creatures ...string) game.Event {
	return game.Event{Type: game.RevealEvent, Player: "Red", Turn: turn, Marker: marker, Creatures: creatures}
}

func add(turn int, marker string, creatures ...string) game.Event {
	return game.Event{Type: game.AddEvent, Player: "Red", Turn: turn, Marker: marker, Creatures: creatures}
}

var start = game.Event{
	Type:      game.StartEvent,
	Player:    "Red",
	Marker:    "Rd01",
	Creatures: names("Titan", "Angel", "Centaur", "Centaur", "Gargoyle", "Gargoyle", "Ogre", "Ogre"),
}

// The opening turns of a recorded game: recruiting reveals the creatures
// that recruited, until every legion is known.
var firstTurn = []game.Event{
	start,
	split(1, "Rd01", "Rd02", 4),
	reveal(1, "Rd01", "Ogre", "Ogre"),
	add(1, "Rd01", "Troll"),
	reveal(1, "Rd02", "Centaur", "Centaur"),
	add(1, "Rd02", "Lion"),
}

var laterTurns = []game.Event{
	reveal(2, "Rd01", "Gargoyle"),
	add(2, "Rd01", "Gargoyle"),
	reveal(2, "Rd02", "Lion"),
	add(2, "Rd02", "Lion"),
	reveal(3, "Rd01", "Titan"),
	add(3, "Rd01", "Warlock"),
	add(3, "Rd02", "Gargoyle"),
	split(4, "Rd01", "Rd03", 2),
	split(4, "Rd02", "Rd04", 2),
	reveal(4, "Rd01", "Gargoyle", "Gargoyle"),
	add(4, "Rd01", "Cyclops"),
	reveal(4, "Rd02", "Gargoyle", "Gargoyle"),
	add(4, "Rd02", "Cyclops"),
	reveal(5, "Rd01", "Warlock"),
	add(5, "Rd01", "Warlock"),
	add(5, "Rd02", "Ogre"),
	reveal(5, "Rd03", "Ogre", "Ogre"),
	add(5, "Rd03", "Troll"),
	reveal(5, "Rd04", "Centaur", "Centaur"),
	add(5, "Rd04", "Lion"),
}

func render(p Prediction) string {
	parts := make([]string, len(p.Creatures))
	for i, g := range p.Creatures {
		parts[i] = g.Name
		if !g.Certain {
			parts[i] += "?"
		}
	}
	return p.Marker + ": " + strings.Join(parts, " ")
}

func renderAll(t *testing.T, e *Engine) []string {
	t.Helper()
	predictions, err := e.Predictions("Red")
	require.NoError(t, err)
	out := make([]string, len(predictions))
	for i, p := range predictions {
		out[i] = render(p)
	}
	return out
}

func newTestEngine(options ...Option) *Engine {
	return New(append([]Option{WithPredictOptions(predict.WithSource(zeroSource{}))}, options...)...)
}

func TestReplay(t *testing.T) {
	t.Run("first turn narrows down both halves", func(t *testing.T) {
		e := newTestEngine()

		m, err := e.Run(context.Background(), communication.NewSliceSource(firstTurn))

		require.NoError(t, err)
		require.Zero(t, m.Failed)
		require.Equal(t, []string{
			"Rd01: Gargoyle Ogre Ogre Titan? Troll",
			"Rd02: Angel? Centaur Centaur Gargoyle Lion",
		}, renderAll(t, e))
	})

	t.Run("every legion is known by turn five", func(t *testing.T) {
		collector := metrics.NewCollector()
		e := newTestEngine(WithMetrics(collector))

		m, err := e.Run(context.Background(), communication.NewSliceSource(append(append([]game.Event{}, firstTurn...), laterTurns...)))

		require.NoError(t, err)
		require.Zero(t, m.Failed)
		require.Equal(t, len(firstTurn)+len(laterTurns), m.TotalEvents())
		require.Equal(t, 3, m.Events[game.SplitEvent])
		require.Equal(t, []string{
			"Rd01: Cyclops Gargoyle Gargoyle Titan Troll Warlock Warlock",
			"Rd02: Angel Cyclops Gargoyle Gargoyle Lion Lion Ogre",
			"Rd03: Ogre Ogre Troll",
			"Rd04: Centaur Centaur Lion",
		}, renderAll(t, e))

		tracker, err := e.Tracker("Red")
		require.NoError(t, err)
		require.NoError(t, tracker.Root().CheckInvariants())
		require.True(t, tracker.Root().AllDescendantsCertain())
	})

	t.Run("replaying from a json log", func(t *testing.T) {
		log := `{"type":"start","player":"Red","marker":"Rd01","creatures":["Titan","Angel","Centaur","Centaur","Gargoyle","Gargoyle","Ogre","Ogre"]}
{"type":"split","player":"Red","turn":1,"marker":"Rd01","other":"Rd02","height":4}
{"type":"reveal","player":"Red","turn":1,"marker":"Rd01","creatures":["Ogre","Ogre"],"reason":"recruit"}
{"type":"add","player":"Red","turn":1,"marker":"Rd01","creatures":["Troll"],"reason":"recruit"}
{"type":"reveal","player":"Red","turn":1,"marker":"Rd02","creatures":["Centaur","Centaur"],"reason":"recruit"}
{"type":"add","player":"Red","turn":1,"marker":"Rd02","creatures":["Lion"],"reason":"recruit"}
`
		e := newTestEngine()

		_, err := e.Run(context.Background(), communication.NewJSONSource(strings.NewReader(log)))

		require.NoError(t, err)
		require.Equal(t, []string{
			"Rd01: Gargoyle Ogre Ogre Titan? Troll",
			"Rd02: Angel? Centaur Centaur Gargoyle Lion",
		}, renderAll(t, e))
	})

	t.Run("bad events are skipped and counted", func(t *testing.T) {
		collector := metrics.NewCollector()
		e := newTestEngine(WithMetrics(collector))
		events := append(append([]game.Event{}, firstTurn...),
			reveal(2, "Rd09", "Troll"),
			game.Event{Type: game.RemoveEvent, Player: "Red", Turn: 2, Marker: "Rd01", Creatures: names("Hydra")},
			add(2, "Rd01", "Gargoyle"),
		)

		m, err := e.Run(context.Background(), communication.NewSliceSource(events))

		require.NoError(t, err)
		require.Equal(t, 2, m.Failed)
		require.Equal(t, 1, m.Violations, "Removing an absent Hydra should put the tree out of sync")
		require.Equal(t, "Rd01: Gargoyle Gargoyle Ogre Ogre Titan? Troll", renderAll(t, e)[0])
	})

	t.Run("cancelled replay", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestEngine().Run(ctx, communication.NewSliceSource(firstTurn))

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("events for an unknown player", func(t *testing.T) {
		e := newTestEngine()

		err := e.Apply(ctx, split(1, "Bu01", "Bu02", 4))

		require.Error(t, err)
		_, err = e.Predictions("Blue")
		require.Error(t, err)
	})

	t.Run("starting a player twice", func(t *testing.T) {
		e := newTestEngine()
		require.NoError(t, e.Apply(ctx, start))

		require.Error(t, e.Apply(ctx, start))
	})

	t.Run("merge undoes a split", func(t *testing.T) {
		e := newTestEngine()
		require.NoError(t, e.Apply(ctx, start))
		require.NoError(t, e.Apply(ctx, split(1, "Rd01", "Rd02", 4)))

		err := e.Apply(ctx, game.Event{Type: game.MergeEvent, Player: "Red", Turn: 1, Marker: "Rd01", Other: "Rd02"})

		require.NoError(t, err)
		require.Equal(t, []string{"Rd01: Angel Centaur Centaur Gargoyle Gargoyle Ogre Ogre Titan"}, renderAll(t, e))
	})

	t.Run("eliminated legion disappears", func(t *testing.T) {
		e := newTestEngine()
		require.NoError(t, e.Apply(ctx, start))
		require.NoError(t, e.Apply(ctx, split(1, "Rd01", "Rd02", 4)))

		require.NoError(t, e.Apply(ctx, game.Event{Type: game.EliminateEvent, Player: "Red", Turn: 2, Marker: "Rd02"}))

		require.Equal(t, []string{"Rd01: Centaur? Gargoyle? Gargoyle? Titan?"}, renderAll(t, e))
	})

	t.Run("contradicting full reveal resyncs the legion", func(t *testing.T) {
		collector := metrics.NewCollector()
		e := newTestEngine(WithMetrics(collector))
		collector.Start(e.SessionID())
		for _, ev := range firstTurn {
			require.NoError(t, e.Apply(ctx, ev))
		}

		err := e.Apply(ctx, game.Event{Type: game.RevealEvent, Player: "Red", Turn: 2, Marker: "Rd02", All: true,
			Creatures: names("Hydra", "Hydra", "Hydra", "Hydra", "Hydra")})

		require.NoError(t, err)
		require.Equal(t, "Rd02: Hydra Hydra Hydra Hydra Hydra", renderAll(t, e)[1])
		require.Equal(t, 1, collector.Complete().Resyncs)
	})

	t.Run("full reveal of an unseen legion creates it", func(t *testing.T) {
		e := newTestEngine()
		require.NoError(t, e.Apply(ctx, start))

		err := e.Apply(ctx, game.Event{Type: game.RevealEvent, Player: "Red", Turn: 3, Marker: "Rd05", All: true,
			Creatures: names("Troll", "Troll")})

		require.NoError(t, err)
		require.Contains(t, renderAll(t, e), "Rd05: Troll Troll")
	})

	t.Run("contradicting full reveal without resync", func(t *testing.T) {
		e := newTestEngine(WithoutResync())
		for _, ev := range firstTurn {
			require.NoError(t, e.Apply(ctx, ev))
		}

		err := e.Apply(ctx, game.Event{Type: game.RevealEvent, Player: "Red", Turn: 2, Marker: "Rd02", All: true,
			Creatures: names("Hydra", "Hydra", "Hydra", "Hydra", "Hydra")})

		require.ErrorIs(t, err, predict.ErrResync)
	})

	t.Run("records flatten every prediction", func(t *testing.T) {
		e := newTestEngine()
		for _, ev := range firstTurn {
			require.NoError(t, e.Apply(ctx, ev))
		}

		records := e.Records()

		require.Len(t, records, 10)
		require.Equal(t, metrics.PredictionRecord{
			Player: "Red", Marker: "Rd01", Turn: 1, Height: 5, Creature: "Gargoyle", Certain: true,
		}, records[0])
		require.Equal(t, []string{"Red"}, e.Players())
		require.NotEmpty(t, e.SessionID())
	})
}
