package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyConfigFile            = "config"
	KeyBackend               = "backend"
	KeyGames                 = "games"
	KeyThreads               = "threads"
	KeyBatchWidth            = "batch-width"
	KeySeed                  = "seed"
	KeyRNG                   = "rng"
	KeyPolicy                = "policy"
	KeyVisitedMemoryFraction = "visited-memory-fraction"
	KeyVisitedSizePower      = "visited-size-power"
	KeyVisitedHash           = "visited-hash"
	KeyLogLevel              = "log-level"
	KeyProfilePath           = "profile-path"
	KeyHistogramBins         = "histogram-bins"
	KeyReportPath            = "report-path"
)

const envPrefix = "SLIDE2048"

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a configuration holding only defaults. Environment
// variables (SLIDE2048_GAMES and so on) are already consulted.
func DefaultConfig() *Config {
	v := viper.New()
	v.SetDefault(KeyBackend, "")
	v.SetDefault(KeyGames, 1000)
	v.SetDefault(KeyThreads, 0)
	v.SetDefault(KeyBatchWidth, 8)
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyRNG, "lcg")
	v.SetDefault(KeyPolicy, "dumb")
	v.SetDefault(KeyVisitedMemoryFraction, 0.0)
	v.SetDefault(KeyVisitedSizePower, 20)
	v.SetDefault(KeyVisitedHash, "xxhash")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyProfilePath, "")
	v.SetDefault(KeyHistogramBins, 15)
	v.SetDefault(KeyReportPath, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &Config{Viper: v}
}

// FlagSet returns the command-line flags understood by Load.
func FlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String(KeyConfigFile, "", "optional YAML config file")
	fs.String(KeyBackend, "", "batch backend (scalar or swar); empty picks the fastest available")
	fs.Int(KeyGames, 1000, "number of self-play games")
	fs.Int(KeyThreads, 0, "worker goroutines; 0 means one per CPU")
	fs.Int(KeyBatchWidth, 8, "boards per batch (1, 2, 4 or 8)")
	fs.Uint64(KeySeed, 0, "random seed; with the frand source 0 means seed from the OS")
	fs.String(KeyRNG, "lcg", "tile spawn source (lcg or frand)")
	fs.String(KeyPolicy, "dumb", "move policy (dumb or random)")
	fs.Float64(KeyVisitedMemoryFraction, 0, "size the visited set to this fraction of system memory; 0 uses visited-size-power")
	fs.Int(KeyVisitedSizePower, 20, "initial visited set size as a power of two")
	fs.String(KeyVisitedHash, "xxhash", "visited set slot hash (xxhash or zobrist)")
	fs.String(KeyLogLevel, "info", "log level (debug, info, warn, error)")
	fs.String(KeyProfilePath, "", "write a CPU profile here")
	fs.Int(KeyHistogramBins, 15, "bins in the moves-per-game histogram")
	fs.String(KeyReportPath, "", "write the YAML summary here instead of stdout")
	return fs
}

// Load parses args and layers them over the config file (if one is named),
// environment variables and defaults, in that order of precedence.
func (c *Config) Load(args []string) error {
	fs := FlagSet("slide2048")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	if path := c.GetString(KeyConfigFile); path != "" {
		c.SetConfigFile(path)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	return nil
}
