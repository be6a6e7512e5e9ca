// File: pipeline/config.go
// Package pipeline wires the pool, channel, and producer/consumer
// loops into one controllable unit.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pipeline

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config controls pipeline sizing, pacing, and idle backoff.
type Config struct {
	// PoolSize is the number of record slots the pool pre-allocates.
	PoolSize int `envconfig:"POOL_SIZE" default:"10000"`
	// Capacity is the ring size; usable capacity is one less.
	Capacity int `envconfig:"CHANNEL_CAPACITY" default:"10000"`

	// Batches and BatchSize shape the synthetic feed.
	Batches   int `envconfig:"BATCHES" default:"10"`
	BatchSize int `envconfig:"BATCH_SIZE" default:"3"`
	// BatchInterval paces batches to emulate market-data arrival.
	BatchInterval time.Duration `envconfig:"BATCH_INTERVAL" default:"100ms"`
	// StopGrace is slept by Stop before signalling the loops, letting
	// the producer finish its current batch.
	StopGrace time.Duration `envconfig:"STOP_GRACE" default:"1100ms"`

	// ProducerCPU and ConsumerCPU are best-effort pinning targets.
	ProducerCPU int `envconfig:"PRODUCER_CPU" default:"0"`
	ConsumerCPU int `envconfig:"CONSUMER_CPU" default:"1"`

	// Idle backoff ladder thresholds; see concurrency.IdleBackoff.
	SpinLimit  uint64        `envconfig:"SPIN_LIMIT" default:"10000"`
	YieldLimit uint64        `envconfig:"YIELD_LIMIT" default:"100000"`
	SleepBase  time.Duration `envconfig:"SLEEP_BASE" default:"10us"`
	SleepMax   time.Duration `envconfig:"SLEEP_MAX" default:"100us"`

	// LogPath receives the diagnostic stream.
	LogPath string `envconfig:"LOG_PATH" default:"tickpipe.log"`
}

// Load reads configuration from TICKPIPE_-prefixed environment
// variables, falling back to the defaults above.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("tickpipe", &cfg); err != nil {
		return Config{}, fmt.Errorf("pipeline: load config: %w", err)
	}
	return cfg, nil
}

// Default returns the stock configuration without consulting the
// environment.
func Default() Config {
	return Config{
		PoolSize:      10000,
		Capacity:      10000,
		Batches:       10,
		BatchSize:     3,
		BatchInterval: 100 * time.Millisecond,
		StopGrace:     1100 * time.Millisecond,
		ProducerCPU:   0,
		ConsumerCPU:   1,
		SpinLimit:     10_000,
		YieldLimit:    100_000,
		SleepBase:     10 * time.Microsecond,
		SleepMax:      100 * time.Microsecond,
		LogPath:       "tickpipe.log",
	}
}
