package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"titan/game"

	"github.com/rs/zerolog/log"
)

// EventServer receives events posted by a game server and hands them to
// the engine in arrival order. It implements communication.Source.
type EventServer struct {
	events chan game.Event
	done   chan struct{}
	once   sync.Once
	mutex  sync.RWMutex
	closed bool
}

// NewEventServer buffers up to size events that were posted but not yet
// consumed.
func NewEventServer(size int) *EventServer {
	return &EventServer{
		events: make(chan game.Event, size),
		done:   make(chan struct{}),
	}
}

// Handler serves POST /events with one event or a JSON array of events and
// POST /close to end the stream.
func (s *EventServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/close", s.handleClose)
	return mux
}

// ListenAndServe serves until ctx is done.
func (s *EventServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	log.Info().Msgf("listening for events on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *EventServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var batch []game.Event
	if len(body) > 0 && body[0] == '[' {
		err = json.Unmarshal(body, &batch)
	} else {
		var ev game.Event
		err = json.Unmarshal(body, &ev)
		batch = append(batch, ev)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		w.WriteHeader(http.StatusGone)
		return
	}
	for _, ev := range batch {
		select {
		case s.events <- ev:
		case <-r.Context().Done():
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *EventServer) handleClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.Close()
	w.WriteHeader(http.StatusOK)
}

// Close ends the stream. Events already accepted are still delivered.
func (s *EventServer) Close() {
	s.once.Do(func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		s.closed = true
		close(s.done)
	})
}

func (s *EventServer) Next(ctx context.Context) (game.Event, error) {
	select {
	case ev := <-s.events:
		return ev, nil
	default:
	}
	select {
	case ev := <-s.events:
		return ev, nil
	case <-s.done:
		select {
		case ev := <-s.events:
			return ev, nil
		default:
			return game.Event{}, io.EOF
		}
	case <-ctx.Done():
		return game.Event{}, ctx.Err()
	}
}
