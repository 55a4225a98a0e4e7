package game

import (
	"encoding/json"
	"fmt"
)

// EventType is the kind of server announcement that carries information
// about a legion.
type EventType int

const (
	StartEvent     EventType = iota // Player's starting legion is known
	SplitEvent                      // Legion split a child off
	RevealEvent                     // Some or all creatures were shown
	MergeEvent                      // Split undone or legions recombined
	AddEvent                        // Recruit, muster or summoned angel arrived
	RemoveEvent                     // Creature died or left
	EliminateEvent                  // Legion is gone
)

var eventNames = []string{"start", "split", "reveal", "merge", "add", "remove", "eliminate"}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventNames) {
		return fmt.Sprintf("EventType(%d)", int(t))
	}
	return eventNames[t]
}

func ParseEventType(s string) (EventType, error) {
	for i, name := range eventNames {
		if name == s {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *EventType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("event type must be a string: %w", err)
	}
	parsed, err := ParseEventType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Event is one announcement about an opponent's legion.
//
// Marker is the legion the event is about. For splits Other is the new
// child marker and Height its size; for merges Other is the legion that
// merges back into Marker.
type Event struct {
	Type      EventType `json:"type"`
	Player    string    `json:"player"`
	Turn      int       `json:"turn"`
	Marker    string    `json:"marker"`
	Other     string    `json:"other,omitempty"`
	Height    int       `json:"height,omitempty"`
	Creatures []string  `json:"creatures,omitempty"`
	All       bool      `json:"all,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s/%s turn=%d other=%s height=%d creatures=%v all=%t",
		e.Type, e.Player, e.Marker, e.Turn, e.Other, e.Height, e.Creatures, e.All)
}
