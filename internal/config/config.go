// Package config reads the TOML configuration of the flacarray command.
package config

import (
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/arloliu/flacarray/codec"
)

// DefaultPath is where the command looks for its configuration file.
const DefaultPath = "~/.flacarray/config.toml"

// Known array types for BenchConfig.Types.
const (
	TypeInt32   = "int32"
	TypeInt64   = "int64"
	TypeFloat32 = "float32"
	TypeFloat64 = "float64"
)

type Config struct {
	LogLevel string      `mapstructure:"log_level"`
	Bench    BenchConfig `mapstructure:"bench"`
}

type BenchConfig struct {
	Streams    int      `mapstructure:"streams"`
	StreamSize int      `mapstructure:"stream_size"`
	Levels     []int    `mapstructure:"levels"`
	Types      []string `mapstructure:"types"`
	Threads    []bool   `mapstructure:"threads"`
	// Workers is the worker count of threaded runs; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers"`
	// SliceWidth is the number of samples decoded around the stream midpoint.
	SliceWidth int   `mapstructure:"slice_width"`
	Seed       int64 `mapstructure:"seed"`
}

var DefaultConfig = Config{
	LogLevel: "warn",
	Bench: BenchConfig{
		Streams:    10,
		StreamSize: 100_000,
		Levels:     []int{0, 5, 8},
		Types:      []string{TypeInt32, TypeInt64},
		Threads:    []bool{false, true},
		Workers:    0,
		SliceWidth: 10,
		Seed:       1,
	},
}

// ReadConfig decodes a configuration from r. Missing settings take their
// DefaultConfig value.
func ReadConfig(r io.Reader) (*Config, error) {
	decoder := toml.NewDecoder(r)
	decoder.SetTagName("mapstructure")
	cfg := &Config{}
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "error decoding config file")
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ReadConfigFile reads the configuration at path, expanding a leading ~.
// When path does not exist and allowMissing is set, the defaults are returned.
func ReadConfigFile(path string, allowMissing bool) (*Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrap(err, "error expanding config path")
	}

	f, err := os.Open(expanded)
	if os.IsNotExist(err) && allowMissing {
		cfg := Default()
		return &cfg, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "error opening config file")
	}
	defer f.Close()

	return ReadConfig(f)
}

// WriteDefault writes DefaultConfig to w as TOML.
func WriteDefault(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	encoder.SetTagName("mapstructure")
	cfg := Default()

	return errors.Wrap(encoder.Encode(cfg), "error encoding config")
}

// Default returns a copy of DefaultConfig that can be modified freely.
func Default() Config {
	cfg := DefaultConfig
	cfg.Bench.Levels = append([]int(nil), DefaultConfig.Bench.Levels...)
	cfg.Bench.Types = append([]string(nil), DefaultConfig.Bench.Types...)
	cfg.Bench.Threads = append([]bool(nil), DefaultConfig.Bench.Threads...)

	return cfg
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	b := c.Bench
	if b.Streams <= 0 {
		return errors.Errorf("bench.streams must be positive, got %d", b.Streams)
	}
	if b.StreamSize <= 0 {
		return errors.Errorf("bench.stream_size must be positive, got %d", b.StreamSize)
	}
	for _, level := range b.Levels {
		if level < codec.MinLevel || level > codec.MaxLevel {
			return errors.Errorf("bench.levels: level %d outside %d-%d", level, codec.MinLevel, codec.MaxLevel)
		}
	}
	for _, typ := range b.Types {
		switch typ {
		case TypeInt32, TypeInt64, TypeFloat32, TypeFloat64:
		default:
			return errors.Errorf("bench.types: unknown type %q", typ)
		}
	}
	if b.Workers < 0 {
		return errors.Errorf("bench.workers must not be negative, got %d", b.Workers)
	}
	if b.SliceWidth < 1 || b.SliceWidth > b.StreamSize {
		return errors.Errorf("bench.slice_width must be in 1-%d, got %d", b.StreamSize, b.SliceWidth)
	}

	return nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	b := &c.Bench
	if b.Streams == 0 {
		b.Streams = def.Bench.Streams
	}
	if b.StreamSize == 0 {
		b.StreamSize = def.Bench.StreamSize
	}
	if len(b.Levels) == 0 {
		b.Levels = def.Bench.Levels
	}
	if len(b.Types) == 0 {
		b.Types = def.Bench.Types
	}
	if len(b.Threads) == 0 {
		b.Threads = def.Bench.Threads
	}
	if b.SliceWidth == 0 {
		b.SliceWidth = min(def.Bench.SliceWidth, b.StreamSize)
	}
	if b.Seed == 0 {
		b.Seed = def.Bench.Seed
	}
}
