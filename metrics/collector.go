package metrics

import (
	"sync/atomic"
	"time"

	"titan/game"
)

const eventTypes = int(game.EliminateEvent) + 1

type ReplayMetric struct {
	SessionID  string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Events     map[game.EventType]int
	Failed     int // Events that could not be applied
	Violations int // Failed events that put a tree out of sync
	Resyncs    int
}

// TotalEvents is the number of events seen, applied or not.
func (m ReplayMetric) TotalEvents() int {
	total := 0
	for _, n := range m.Events {
		total += n
	}
	return total
}

type Collector interface {
	Start(sessionID string)
	AddEvent(t game.EventType)
	AddFailure(violation bool)
	AddResync()
	Complete() ReplayMetric
}

type collector struct {
	sessionID  string
	startTime  time.Time
	events     [eventTypes]atomic.Int32
	failed     atomic.Int32
	violations atomic.Int32
	resyncs    atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(sessionID string) {
	m.startTime = time.Now()
	m.sessionID = sessionID
}

func (m *collector) AddEvent(t game.EventType) {
	if t >= 0 && int(t) < eventTypes {
		m.events[t].Add(1)
	}
}

func (m *collector) AddFailure(violation bool) {
	m.failed.Add(1)
	if violation {
		m.violations.Add(1)
	}
}

func (m *collector) AddResync() {
	m.resyncs.Add(1)
}

func (m *collector) Complete() ReplayMetric {
	end := time.Now()
	events := make(map[game.EventType]int, eventTypes)
	for i := range m.events {
		events[game.EventType(i)] = int(m.events[i].Load())
	}
	return ReplayMetric{
		SessionID:  m.sessionID,
		StartTime:  m.startTime,
		EndTime:    end,
		Duration:   end.Sub(m.startTime),
		Events:     events,
		Failed:     int(m.failed.Load()),
		Violations: int(m.violations.Load()),
		Resyncs:    int(m.resyncs.Load()),
	}
}

type noopCollector struct{}

func NewNoopCollector() Collector {
	return &noopCollector{}
}

func (m *noopCollector) Start(sessionID string)    {}
func (m *noopCollector) AddEvent(t game.EventType) {}
func (m *noopCollector) AddFailure(violation bool) {}
func (m *noopCollector) AddResync()                {}
func (m *noopCollector) Complete() ReplayMetric    { return ReplayMetric{} }
