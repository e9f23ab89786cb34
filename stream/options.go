package stream

import (
	"github.com/rs/zerolog"

	"github.com/arloliu/flacarray/internal/logging"
	"github.com/arloliu/flacarray/internal/options"
	"github.com/arloliu/flacarray/internal/parallel"
)

type config struct {
	workers int
	logger  zerolog.Logger
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{workers: 1, logger: logging.Default()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) threaded() bool {
	return c.workers > 1
}

// Option configures an encode, decode or verify call.
type Option = options.Option[*config]

// WithThreads processes streams on runtime.GOMAXPROCS workers when enabled.
// Calls are sequential by default.
func WithThreads(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.workers = 1
		if enabled {
			c.workers = parallel.DefaultWorkers()
		}
	})
}

// WithWorkers sets an explicit worker count. Values below 2 mean sequential.
func WithWorkers(n int) Option {
	return options.NoError(func(c *config) {
		c.workers = max(n, 1)
	})
}

// WithLogger replaces the diagnostic logger.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = logger
	})
}
