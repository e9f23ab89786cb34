package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	workers  int
	threads  bool
	lastCall string
}

var errNegativeWorkers = errors.New("workers cannot be negative")

func (c *testConfig) setWorkers(n int) error {
	if n < 0 {
		return errNegativeWorkers
	}
	c.workers = n
	c.lastCall = "setWorkers"

	return nil
}

func (c *testConfig) setThreads(enabled bool) {
	c.threads = enabled
	c.lastCall = "setThreads"
}

func withWorkers(n int) Option[*testConfig] {
	return New(func(c *testConfig) error { return c.setWorkers(n) })
}

func withThreads(enabled bool) Option[*testConfig] {
	return NoError(func(c *testConfig) { c.setThreads(enabled) })
}

func TestNew(t *testing.T) {
	cfg := &testConfig{}

	require.NoError(t, withWorkers(4).apply(cfg))
	require.Equal(t, 4, cfg.workers)

	err := withWorkers(-1).apply(cfg)
	require.ErrorIs(t, err, errNegativeWorkers)
	require.Equal(t, 4, cfg.workers)
}

func TestNoError(t *testing.T) {
	cfg := &testConfig{}

	require.NoError(t, withThreads(true).apply(cfg))
	require.True(t, cfg.threads)
	require.Equal(t, "setThreads", cfg.lastCall)
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withWorkers(2), withThreads(true), withWorkers(8))

		require.NoError(t, err)
		require.Equal(t, 8, cfg.workers)
		require.True(t, cfg.threads)
		require.Equal(t, "setWorkers", cfg.lastCall)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withWorkers(3), withWorkers(-1), withThreads(true))

		require.ErrorIs(t, err, errNegativeWorkers)
		require.Equal(t, 3, cfg.workers)
		require.False(t, cfg.threads, "options after the failure are not applied")
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, nil, withThreads(true))

		require.NoError(t, err)
		require.True(t, cfg.threads)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply(cfg))
		require.Equal(t, testConfig{}, *cfg)
	})
}
