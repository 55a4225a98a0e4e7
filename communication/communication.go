package communication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"titan/game"
)

// Source delivers server announcements in the order they happened. Next
// returns io.EOF once the stream is exhausted.
type Source interface {
	Next(ctx context.Context) (game.Event, error)
}

// JSONSource decodes one JSON event after another, typically from a log
// with one event per line.
type JSONSource struct {
	dec  *json.Decoder
	read int
}

func NewJSONSource(r io.Reader) *JSONSource {
	return &JSONSource{dec: json.NewDecoder(r)}
}

func (s *JSONSource) Next(ctx context.Context) (game.Event, error) {
	if err := ctx.Err(); err != nil {
		return game.Event{}, err
	}
	var ev game.Event
	if err := s.dec.Decode(&ev); err != nil {
		if errors.Is(err, io.EOF) {
			return game.Event{}, io.EOF
		}
		return game.Event{}, fmt.Errorf("failed to decode event %d: %w", s.read+1, err)
	}
	s.read++
	return ev, nil
}

// SliceSource replays events held in memory.
type SliceSource struct {
	events []game.Event
	next   int
}

func NewSliceSource(events []game.Event) *SliceSource {
	return &SliceSource{events: events}
}

func (s *SliceSource) Next(ctx context.Context) (game.Event, error) {
	if err := ctx.Err(); err != nil {
		return game.Event{}, err
	}
	if s.next >= len(s.events) {
		return game.Event{}, io.EOF
	}
	ev := s.events[s.next]
	s.next++
	return ev, nil
}
