// selfplay plays batches of 2048 games with a fixed policy and reports move
// counts, tile distribution and how many distinct positions were reached.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/slide2048/batch"
	"github.com/domino14/slide2048/config"
	"github.com/domino14/slide2048/runner"
	"github.com/domino14/slide2048/shuffle"
	"github.com/domino14/slide2048/visited"
	"github.com/domino14/slide2048/zobrist"
)

func setupLogger(level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	logger := zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	return logger
}

func newVisitedSet(cfg *config.Config) (*visited.Set, error) {
	var set *visited.Set
	if frac := cfg.GetFloat64(config.KeyVisitedMemoryFraction); frac > 0 {
		set = visited.NewFromMemory(frac)
	} else {
		set = visited.New(cfg.GetInt(config.KeyVisitedSizePower))
	}
	switch h := strings.ToLower(cfg.GetString(config.KeyVisitedHash)); h {
	case "xxhash", "":
	case "zobrist":
		set.UseHasher(zobrist.New().Hash)
	default:
		return nil, fmt.Errorf("unknown visited hash %q; valid options: 'xxhash', 'zobrist'", h)
	}
	return set, nil
}

func run(args []string) error {
	cfg := config.DefaultConfig()
	if err := cfg.Load(args); err != nil {
		return err
	}
	logger := setupLogger(cfg.GetString(config.KeyLogLevel))
	logger.Debug().Strs("cpu-features", shuffle.Features()).
		Str("nibble-shuffle", shuffle.Current().String()).Msg("dispatch")

	if name := cfg.GetString(config.KeyBackend); name != "" {
		if err := batch.Use(name); err != nil {
			return err
		}
	}

	opts, err := runner.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	if path := cfg.GetString(config.KeyProfilePath); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	set, err := newVisitedSet(cfg)
	if err != nil {
		return err
	}
	r, err := runner.New(opts, set)
	if err != nil {
		return err
	}
	results, summary, err := r.Run(ctx)
	if err != nil {
		return err
	}
	if summary.Canceled {
		logger.Info().Int("games", summary.Games).Msg("got quit signal, reporting finished games")
	}

	var out io.Writer = os.Stdout
	if path := cfg.GetString(config.KeyReportPath); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("could not create report: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := runner.WriteSummary(out, summary); err != nil {
		return err
	}
	return runner.WriteHistogram(os.Stdout, results, cfg.GetInt(config.KeyHistogramBins))
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("selfplay-failed")
	}
}
