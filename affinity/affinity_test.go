package affinity_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/tickpipe/affinity"
	"github.com/momentics/tickpipe/api"
)

func TestPinRejectsOutOfRangeCPU(t *testing.T) {
	p := affinity.New()
	assert.ErrorIs(t, p.Pin(-1), api.ErrInvalidArgument)
	assert.ErrorIs(t, p.Pin(runtime.NumCPU()), api.ErrInvalidArgument)
}

func TestPinCurrentThread(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "windows" {
		t.Skipf("no affinity support on %s", runtime.GOOS)
	}
	err := affinity.New().Pin(0)
	assert.NoError(t, err)
}

func TestNopPinnerAlwaysSucceeds(t *testing.T) {
	assert.NoError(t, affinity.Nop{}.Pin(0))
	assert.NoError(t, affinity.Nop{}.Pin(10_000))
}
