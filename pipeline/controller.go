// File: pipeline/controller.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Controller owns one SlotPool and one Channel and drives the producer
// and consumer loops over them. Lifecycle:
//
//	Idle → Running → Draining → Stopped
//
// Exactly one producer and one consumer: the channel's SPSC contract
// allows no more. Shutdown is cooperative through the running flag;
// the consumer finishes with a drain pass so nothing enqueued before
// the flag dropped is lost.

package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/momentics/tickpipe/api"
	"github.com/momentics/tickpipe/concurrency"
	"github.com/momentics/tickpipe/control"
	"github.com/momentics/tickpipe/pool"
)

// State is the controller lifecycle phase.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateStopped
)

// String returns the phase name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Controller runs the producer/consumer pipeline.
type Controller struct {
	cfg    Config
	sink   api.Sink
	pinner api.Pinner
	runID  string

	pool    *pool.SlotPool
	channel *concurrency.Channel
	stats   control.PipelineStats

	running atomic.Bool
	state   atomic.Int32
	wg      sync.WaitGroup
}

// New builds the pool and channel per cfg and wires in the injected
// sink and pinner. Pool exhaustion at construction is fatal: no
// partial pipeline is ever returned.
func New(cfg Config, sink api.Sink, pinner api.Pinner) (*Controller, error) {
	if sink == nil || pinner == nil {
		return nil, fmt.Errorf("pipeline: nil sink or pinner: %w", api.ErrInvalidArgument)
	}
	if cfg.Batches <= 0 || cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("pipeline: batch plan %dx%d: %w",
			cfg.Batches, cfg.BatchSize, api.ErrInvalidArgument)
	}
	p, err := pool.New(cfg.PoolSize)
	if err != nil {
		return nil, err
	}
	ch, err := concurrency.NewChannel(cfg.Capacity, p)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:     cfg,
		sink:    sink,
		pinner:  pinner,
		runID:   uuid.NewString(),
		pool:    p,
		channel: ch,
	}
	c.sink.Log(fmt.Sprintf("pipeline %s constructed: pool=%d channel=%d",
		c.runID, cfg.PoolSize, cfg.Capacity), true)
	return c, nil
}

// Start launches the producer and consumer loops concurrently. The
// pipeline is single-run: Start succeeds only from Idle and returns
// ErrAlreadyRunning in every other state, Stopped included. A fresh
// run gets a fresh controller.
func (c *Controller) Start() error {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return fmt.Errorf("pipeline %s is %s: %w",
			c.runID, State(c.state.Load()), api.ErrAlreadyRunning)
	}
	c.stats.Batches.Store(0)
	c.running.Store(true)
	c.wg.Add(2)
	go c.produce()
	go c.consume()
	c.sink.Log(fmt.Sprintf("pipeline %s started", c.runID), true)
	return nil
}

// Stop winds the pipeline down: a grace sleep lets the producer finish
// its current batch, then the running flag drops, the consumer drains
// whatever remains, and both loops are joined. Shutdown latency is
// bounded by the backoff ladder's longest sleep plus one batch
// interval. Calling Stop on a pipeline that is not running is a no-op.
func (c *Controller) Stop() {
	if !c.state.CompareAndSwap(int32(StateRunning), int32(StateDraining)) {
		return
	}
	time.Sleep(c.cfg.StopGrace)
	c.running.Store(false)
	c.wg.Wait()
	c.state.Store(int32(StateStopped))
	c.sink.Log(fmt.Sprintf("pipeline %s stopped: %s", c.runID, c.stats.String()), true)
}

// ProcessNext pops one record synchronously, bypassing the background
// consumer. Using it while the consumer loop is running violates the
// channel's single-consumer contract; it is meant for externally
// driven consumption on an otherwise idle pipeline.
func (c *Controller) ProcessNext(out *api.Record) bool {
	return c.channel.Pop(out)
}

// State returns the current lifecycle phase.
func (c *Controller) State() State { return State(c.state.Load()) }

// Batches returns the advisory count of completed producer batches.
func (c *Controller) Batches() uint64 { return c.stats.Batches.Load() }

// Stats exposes the pipeline's counters.
func (c *Controller) Stats() *control.PipelineStats { return &c.stats }

// RunID identifies this pipeline instance in diagnostics.
func (c *Controller) RunID() string { return c.runID }

// Close returns the channel's slots to the pool. Call once the
// pipeline has stopped and no further ProcessNext calls are expected.
func (c *Controller) Close() {
	c.channel.Close()
}

// pin requests CPU affinity for the calling loop. Failure is logged
// and the loop continues unpinned: pinning is a performance hint and
// pipeline correctness never depends on it.
func (c *Controller) pin(name string, cpuID int) {
	if err := c.pinner.Pin(cpuID); err != nil {
		c.sink.Log(fmt.Sprintf("%s running unpinned: %v", name, err), false)
		return
	}
	c.sink.Log(fmt.Sprintf("%s pinned to cpu %d", name, cpuID), false)
}

// produce synthesizes cfg.Batches batches and pushes each record with
// a spin-retry against a full channel. Panics are caught at the loop
// boundary: they end this loop, not the process.
func (c *Controller) produce() {
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			c.sink.Log(fmt.Sprintf("producer error: %v", r), true)
		}
	}()

	c.pin("producer", c.cfg.ProducerCPU)
	c.sink.Log("producer started", false)

	var pushed uint64
	scratch := make([]api.Record, c.cfg.BatchSize)
	for batch := 0; batch < c.cfg.Batches && c.running.Load(); batch++ {
		fillBatch(scratch, batch)
		c.sink.Log(fmt.Sprintf("generating batch %d/%d", batch+1, c.cfg.Batches), false)

		for i := range scratch {
			if !c.push(scratch[i]) {
				c.sink.Log(fmt.Sprintf("producer exiting mid-batch, total items pushed: %d", pushed), false)
				return
			}
			pushed++
		}

		done := c.stats.Batches.Add(1)
		c.sink.Log(fmt.Sprintf("completed batch %d, items pushed: %d", done, pushed), false)
		time.Sleep(c.cfg.BatchInterval)
	}
	c.sink.Log(fmt.Sprintf("producer exiting, total items pushed: %d", pushed), false)
}

// push retries a full channel with a cooperative yield until it
// succeeds or the pipeline stops. Full is backpressure, not an error.
func (c *Controller) push(rec api.Record) bool {
	for !c.channel.Push(rec) {
		if !c.running.Load() {
			return false
		}
		c.stats.FullRetries.Add(1)
		runtime.Gosched()
	}
	c.stats.Pushed.Add(1)
	c.sink.Log("pushed: "+rec.String(), false)
	return true
}

// consume polls the channel while running, escalating the idle backoff
// ladder on empty polls, then performs a final drain pass so that no
// enqueued record is dropped on shutdown.
func (c *Controller) consume() {
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			c.sink.Log(fmt.Sprintf("consumer error: %v", r), true)
		}
	}()

	c.pin("consumer", c.cfg.ConsumerCPU)
	c.sink.Log("consumer started", false)

	backoff := &concurrency.IdleBackoff{
		SpinLimit:  c.cfg.SpinLimit,
		YieldLimit: c.cfg.YieldLimit,
		SleepBase:  c.cfg.SleepBase,
		SleepMax:   c.cfg.SleepMax,
	}
	var processed uint64
	start := time.Now()
	var rec api.Record

	for c.running.Load() {
		if c.channel.Pop(&rec) {
			processed++
			c.stats.Processed.Add(1)
			c.sink.Log("processed: "+rec.String(), false)
			backoff.Reset()
			continue
		}
		switch backoff.Wait() {
		case concurrency.ActionYield:
			c.stats.IdleYields.Add(1)
		case concurrency.ActionSleep:
			c.stats.IdleSleeps.Add(1)
			if backoff.Sleeps()%1000 == 0 {
				c.sink.Log("channel empty, backing off", false)
			}
		}
	}

	// Drain pass: everything pushed before the flag dropped is still
	// delivered exactly once.
	for c.channel.Pop(&rec) {
		processed++
		c.stats.Processed.Add(1)
		c.stats.Drained.Add(1)
		c.sink.Log("processed: "+rec.String(), false)
	}

	elapsed := time.Since(start)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(processed) / elapsed.Seconds()
	}
	c.sink.Log(fmt.Sprintf("consumer processed %d items in %s (%.0f items/sec)",
		processed, elapsed.Round(time.Microsecond), rate), false)
}
