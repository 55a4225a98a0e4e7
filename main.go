package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"titan/communication"
	"titan/config"
	"titan/engine"
	"titan/game"
	"titan/metrics"
	"titan/predict"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("titan failed")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	flag.StringVar(&cfg.EventLog, "events", cfg.EventLog, "JSON lines event log, - for stdin")
	flag.StringVar(&cfg.Listen, "listen", cfg.Listen, "Address to receive events on over HTTP")
	flag.IntVar(&cfg.Buffer, "buffer", cfg.Buffer, "Events buffered by the HTTP listener")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory for CSV snapshots")
	flag.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, "YAML creature table")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for even split guesses, 0 for the clock")
	flag.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Panic on the first violation")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.StringVar(&cfg.Player, "player", cfg.Player, "Only report this player")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	options, err := predictOptions(cfg)
	if err != nil {
		return err
	}
	collector := metrics.NewCollector()
	e := engine.New(engine.WithPredictOptions(options...), engine.WithMetrics(collector))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m metrics.ReplayMetric
	if cfg.Listen != "" {
		m, err = e.RunRemote(ctx, cfg.Listen, cfg.Buffer)
	} else {
		m, err = replay(ctx, e, cfg.EventLog)
	}
	if err != nil {
		return err
	}
	log.Info().Msgf("applied %d events, %d failed, %d violations, %d resyncs in %s",
		m.TotalEvents(), m.Failed, m.Violations, m.Resyncs, m.Duration)

	e.Dump()
	if err := report(os.Stdout, e, cfg.Player); err != nil {
		return err
	}
	if cfg.OutputDir != "" {
		return writeSnapshot(cfg.OutputDir, e, m)
	}
	return nil
}

func predictOptions(cfg config.Config) ([]predict.Option, error) {
	var options []predict.Option
	if cfg.Catalog != "" {
		f, err := os.Open(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to open creature table: %w", err)
		}
		defer f.Close()
		catalog, err := game.LoadCatalog(f)
		if err != nil {
			return nil, err
		}
		rules, err := game.NewCatalogRules(catalog)
		if err != nil {
			return nil, err
		}
		options = append(options, predict.WithValuer(catalog), predict.WithRules(rules))
	}
	if cfg.Seed != 0 {
		options = append(options, predict.WithSeed(cfg.Seed))
	}
	if cfg.Strict {
		options = append(options, predict.WithStrict())
	}
	return options, nil
}

func replay(ctx context.Context, e *engine.Engine, path string) (metrics.ReplayMetric, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return metrics.ReplayMetric{}, fmt.Errorf("failed to open event log: %w", err)
		}
		defer f.Close()
		r = f
	}
	return e.Run(ctx, communication.NewJSONSource(r))
}

// report prints one line per predicted legion, uncertain creatures marked
// with a question mark.
func report(w io.Writer, e *engine.Engine, only string) error {
	for _, player := range e.Players() {
		if only != "" && player != only {
			continue
		}
		predictions, err := e.Predictions(player)
		if err != nil {
			log.Error().Err(err).Msgf("no predictions for %s", player)
			continue
		}
		for _, p := range predictions {
			names := make([]string, len(p.Creatures))
			for i, g := range p.Creatures {
				names[i] = g.Name
				if !g.Certain {
					names[i] += "?"
				}
			}
			if _, err := fmt.Fprintf(w, "%s\t%s(%d)\t%s\n", player, p.Marker, p.Turn, strings.Join(names, " ")); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		}
	}
	return nil
}

func writeSnapshot(dir string, e *engine.Engine, m metrics.ReplayMetric) error {
	w, err := metrics.NewWriter(dir)
	if err != nil {
		return err
	}
	if err := w.WritePredictions(e.Records()); err != nil {
		return err
	}
	if err := w.WriteReplayMetric(m); err != nil {
		return err
	}
	log.Info().Msgf("wrote snapshot to %s", w.Dir())
	return nil
}
