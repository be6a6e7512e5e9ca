package pipeline

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/tickpipe/affinity"
	"github.com/momentics/tickpipe/api"
	"github.com/momentics/tickpipe/diag"
)

// testConfig shrinks the default timings so lifecycle tests run in
// milliseconds.
func testConfig() Config {
	cfg := Default()
	cfg.PoolSize = 64
	cfg.Capacity = 32
	cfg.Batches = 2
	cfg.BatchSize = 3
	cfg.BatchInterval = time.Millisecond
	cfg.StopGrace = 20 * time.Millisecond
	return cfg
}

func TestNewValidation(t *testing.T) {
	sink := diag.NewMemorySink()

	_, err := New(testConfig(), nil, affinity.Nop{})
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	_, err = New(testConfig(), sink, nil)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	cfg := testConfig()
	cfg.Batches = 0
	_, err = New(cfg, sink, affinity.Nop{})
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	// Channel wants more slots than the pool owns: construction-time
	// exhaustion is fatal, not retried.
	cfg = testConfig()
	cfg.PoolSize = 8
	cfg.Capacity = 16
	_, err = New(cfg, sink, affinity.Nop{})
	assert.ErrorIs(t, err, api.ErrResourceExhausted)
}

func TestControllerEndToEnd(t *testing.T) {
	sink := diag.NewMemorySink()
	c, err := New(testConfig(), sink, affinity.Nop{})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Start())
	assert.Equal(t, StateRunning, c.State())

	c.Stop()
	assert.Equal(t, StateStopped, c.State())

	want := uint64(testConfig().Batches * testConfig().BatchSize)
	assert.Equal(t, want, c.Stats().Pushed.Load())
	assert.Equal(t, want, c.Stats().Processed.Load(), "every pushed record is processed")
	assert.EqualValues(t, testConfig().Batches, c.Batches())

	// The registry counter feeds Snapshot and the shutdown stats line;
	// it must agree with the controller's advisory count.
	assert.EqualValues(t, testConfig().Batches, c.Stats().Batches.Load())
	assert.EqualValues(t, testConfig().Batches, c.Stats().Snapshot()["batches"])
	assert.Contains(t, c.Stats().String(), fmt.Sprintf("batches=%d", testConfig().Batches))
}

func TestConsumerIdleCountersAccumulate(t *testing.T) {
	cfg := testConfig()
	cfg.Batches = 1
	cfg.BatchSize = 1
	// A near-zero spin budget pushes the idle consumer through the
	// yield rung onto the sleep rung within the stop grace window.
	cfg.SpinLimit = 2
	cfg.YieldLimit = 4
	cfg.SleepBase = time.Microsecond
	cfg.SleepMax = 2 * time.Microsecond

	c, err := New(cfg, diag.NewMemorySink(), affinity.Nop{})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Start())
	c.Stop()

	assert.Positive(t, c.Stats().IdleYields.Load(), "yield rung must be accounted")
	assert.Positive(t, c.Stats().IdleSleeps.Load(), "sleep rung must be accounted")

	snap := c.Stats().Snapshot()
	assert.Equal(t, c.Stats().IdleYields.Load(), snap["idle_yields"])
	assert.Equal(t, c.Stats().IdleSleeps.Load(), snap["idle_sleeps"])
}

func TestControllerStartTwice(t *testing.T) {
	c, err := New(testConfig(), diag.NewMemorySink(), affinity.Nop{})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Start())
	assert.ErrorIs(t, c.Start(), api.ErrAlreadyRunning)
	c.Stop()

	// A stopped pipeline does not restart.
	assert.ErrorIs(t, c.Start(), api.ErrAlreadyRunning)
}

func TestControllerStopBeforeStartIsNoop(t *testing.T) {
	c, err := New(testConfig(), diag.NewMemorySink(), affinity.Nop{})
	require.NoError(t, err)
	defer c.Close()

	c.Stop()
	assert.Equal(t, StateIdle, c.State())
}

func TestDrainOnStop(t *testing.T) {
	sink := diag.NewMemorySink()
	c, err := New(testConfig(), sink, affinity.Nop{})
	require.NoError(t, err)
	defer c.Close()

	// Five records enqueued before the consumer ever runs, with the
	// running flag already down: the loop body is skipped and the
	// drain pass alone must deliver all five, in order.
	var want []string
	for i := int32(0); i < 5; i++ {
		rec := api.NewRecord("DRN", float64(i), i)
		require.True(t, c.channel.Push(rec))
		want = append(want, "processed: "+rec.String())
	}

	c.wg.Add(1)
	go c.consume()
	c.wg.Wait()

	assert.EqualValues(t, 5, c.Stats().Drained.Load())
	assert.EqualValues(t, 5, c.Stats().Processed.Load())

	var got []string
	for _, line := range sink.Lines() {
		if strings.HasPrefix(line, "processed: ") {
			got = append(got, line)
		}
	}
	assert.Equal(t, want, got)

	var rec api.Record
	assert.False(t, c.channel.Pop(&rec), "drain leaves the channel empty")
}

func TestProcessNextPassThrough(t *testing.T) {
	c, err := New(testConfig(), diag.NewMemorySink(), affinity.Nop{})
	require.NoError(t, err)
	defer c.Close()

	require.True(t, c.channel.Push(api.NewRecord("AAPL", 150.25, 1000)))
	require.True(t, c.channel.Push(api.NewRecord("GOOG", 2750.1, 500)))

	var rec api.Record
	require.True(t, c.ProcessNext(&rec))
	assert.Equal(t, "AAPL", rec.Symbol())
	require.True(t, c.ProcessNext(&rec))
	assert.Equal(t, "GOOG", rec.Symbol())
	assert.False(t, c.ProcessNext(&rec))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestFillBatchOffsets(t *testing.T) {
	dst := make([]api.Record, 3)
	fillBatch(dst, 4)

	assert.Equal(t, "AAPL", dst[0].Symbol())
	assert.Equal(t, 154.25, dst[0].Price)
	assert.EqualValues(t, 1004, dst[0].Volume)
	assert.Equal(t, "GOOG", dst[1].Symbol())
	assert.Equal(t, 2754.1, dst[1].Price)
	assert.Equal(t, "MSFT", dst[2].Symbol())

	// Longer batches cycle the seed table.
	dst = make([]api.Record, 5)
	fillBatch(dst, 0)
	assert.Equal(t, "AAPL", dst[3].Symbol())
	assert.Equal(t, "GOOG", dst[4].Symbol())
}

func TestRunIDIsStable(t *testing.T) {
	c, err := New(testConfig(), diag.NewMemorySink(), affinity.Nop{})
	require.NoError(t, err)
	defer c.Close()

	id := c.RunID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, c.RunID())
	assert.Contains(t, fmt.Sprint(c.Stats().Snapshot()), "pushed")
}
