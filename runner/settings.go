package runner

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/domino14/slide2048/batch"
	"github.com/domino14/slide2048/config"
	"github.com/domino14/slide2048/rng"
)

// Options control a self-play run.
type Options struct {
	Games      int
	Threads    int
	BatchWidth int
	Seed       uint64
	RNG        rng.Kind
	Policy     Policy
}

// OptionsFromConfig reads the self-play keys out of cfg.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	policy, err := ParsePolicy(cfg.GetString(config.KeyPolicy))
	if err != nil {
		return Options{}, err
	}
	kind, err := ParseRNG(cfg.GetString(config.KeyRNG))
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		Games:      cfg.GetInt(config.KeyGames),
		Threads:    cfg.GetInt(config.KeyThreads),
		BatchWidth: cfg.GetInt(config.KeyBatchWidth),
		Seed:       cfg.GetUint64(config.KeySeed),
		RNG:        kind,
		Policy:     policy,
	}
	opts.SetDefaults()
	return opts, opts.Validate()
}

// SetDefaults fills in zero values.
func (opts *Options) SetDefaults() {
	if opts.Threads <= 0 {
		opts.Threads = runtime.NumCPU()
		log.Debug().Int("threads", opts.Threads).Msg("using-default-thread-count")
	}
	if opts.BatchWidth == 0 {
		opts.BatchWidth = batch.MaxLanes
	}
	if opts.RNG == "" {
		opts.RNG = rng.KindLCG
	}
}

var ErrNoGames = errors.New("number of games must be positive")

func (opts *Options) Validate() error {
	if opts.Games <= 0 {
		return ErrNoGames
	}
	if !batch.ValidWidth(opts.BatchWidth) {
		return fmt.Errorf("batch width %d is not one of 1, 2, 4, 8", opts.BatchWidth)
	}
	if opts.Threads <= 0 {
		return fmt.Errorf("thread count %d must be positive", opts.Threads)
	}
	return nil
}
