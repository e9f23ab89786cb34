package convert

import (
	"github.com/arloliu/flacarray/internal/options"
	"github.com/arloliu/flacarray/internal/parallel"
)

type config struct {
	workers int
	snap    bool
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{workers: 1, snap: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option configures a conversion call.
type Option = options.Option[*config]

// WithThreads spreads streams over runtime.GOMAXPROCS workers when enabled.
func WithThreads(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.workers = 1
		if enabled {
			c.workers = parallel.DefaultWorkers()
		}
	})
}

// WithWorkers sets an explicit worker count. Values below 1 mean sequential.
func WithWorkers(n int) Option {
	return options.NoError(func(c *config) {
		c.workers = max(n, 1)
	})
}

// WithOffsetSnapping controls whether float offsets are snapped to a whole
// number of quantization steps. It is enabled by default.
func WithOffsetSnapping(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.snap = enabled
	})
}
