package concurrency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdleBackoffSpinsBelowLowThreshold(t *testing.T) {
	b := NewIdleBackoff()
	for i := 0; i < 9_999; i++ {
		action, _ := b.next()
		if action != ActionSpin {
			t.Fatalf("miss %d: expected spin, got %d", i+1, action)
		}
	}
}

func TestIdleBackoffYieldsBetweenThresholds(t *testing.T) {
	b := NewIdleBackoff()
	b.misses = b.SpinLimit - 1

	action, _ := b.next() // miss number 10,000
	assert.Equal(t, ActionYield, action)

	b.misses = b.YieldLimit - 2
	action, _ = b.next() // miss 99,999: still yielding
	assert.Equal(t, ActionYield, action)
}

func TestIdleBackoffSleepEscalation(t *testing.T) {
	b := NewIdleBackoff()
	b.misses = b.YieldLimit - 1

	// From miss 100,000 onward the ladder sleeps, doubling from 10µs
	// and capping at 100µs after four doublings.
	want := []time.Duration{
		10 * time.Microsecond,
		20 * time.Microsecond,
		40 * time.Microsecond,
		80 * time.Microsecond,
		100 * time.Microsecond,
		100 * time.Microsecond,
	}
	for i, d := range want {
		action, got := b.next()
		assert.Equal(t, ActionSleep, action, "step %d", i)
		assert.Equal(t, d, got, "step %d", i)
	}
	assert.EqualValues(t, len(want), b.Sleeps())
}

func TestIdleBackoffCounterSaturates(t *testing.T) {
	b := NewIdleBackoff()
	b.misses = b.YieldLimit

	b.next()
	assert.Equal(t, b.YieldLimit, b.misses, "miss counter must not overflow past the sleep rung")
}

func TestIdleBackoffReset(t *testing.T) {
	b := NewIdleBackoff()
	b.misses = b.YieldLimit
	b.next()

	b.Reset()
	action, _ := b.next()
	assert.Equal(t, ActionSpin, action)
	assert.Zero(t, b.Sleeps())
}

func TestIdleBackoffWaitReportsRung(t *testing.T) {
	b := &IdleBackoff{
		SpinLimit:  1,
		YieldLimit: 2,
		SleepBase:  time.Microsecond,
		SleepMax:   2 * time.Microsecond,
	}
	assert.Equal(t, ActionYield, b.Wait())
	assert.Equal(t, ActionSleep, b.Wait())
}
