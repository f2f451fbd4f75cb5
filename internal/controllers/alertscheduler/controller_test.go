package alertscheduler

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crestwatch/surfcast/internal/alerting"
	"github.com/crestwatch/surfcast/internal/log"
	"github.com/crestwatch/surfcast/pkg/config"
)

func TestMain(m *testing.M) {
	if err := log.Init(false, ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type countingRunner struct {
	cycles atomic.Int32
}

func (r *countingRunner) RunCycle(_ context.Context, _ string, _ time.Time) (alerting.Counters, error) {
	r.cycles.Add(1)
	return alerting.Counters{}, nil
}

func TestDefaultInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	c, err := NewController(ctx, wg, config.SchedulerData{}, &countingRunner{}, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, time.Hour, c.interval)
}

func TestRunsCycleAtStartupAndOnTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	runner := &countingRunner{}

	sc := config.SchedulerData{Enabled: true, Interval: 10 * time.Millisecond}
	c, err := NewController(ctx, wg, sc, runner, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NoError(t, c.StartController())

	assert.Eventually(t, func() bool {
		return runner.cycles.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	wg.Wait()
}
