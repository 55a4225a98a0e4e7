package engine

import (
	"context"
	"fmt"

	"titan/communication/server"
	"titan/metrics"

	"github.com/rs/zerolog/log"
)

// RunRemote listens on addr for events posted by a game server and applies
// them until the server posts /close or ctx is done.
func (e *Engine) RunRemote(ctx context.Context, addr string, buffer int) (metrics.ReplayMetric, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	src := server.NewEventServer(buffer)
	errs := make(chan error, 1)
	go func() {
		err := src.ListenAndServe(ctx, addr)
		if err != nil {
			cancel()
		}
		errs <- err
	}()

	m, err := e.Run(ctx, src)
	cancel()
	if serveErr := <-errs; serveErr != nil {
		log.Error().Err(serveErr).Msg("event server stopped")
		if err == nil {
			err = fmt.Errorf("failed to serve events: %w", serveErr)
		}
	}
	return m, err
}
