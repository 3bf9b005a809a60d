package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	mu    sync.Mutex
	runs  int
	after time.Duration
	limit int
	err   error
}

func (c *countingSweeper) SweepUnacknowledged(_ context.Context, after time.Duration, limit int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs++
	c.after, c.limit = after, limit
	return 2, c.err
}

func (c *countingSweeper) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

func TestReminderSchedulerRunsUntilCancelled(t *testing.T) {
	t.Parallel()

	sw := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())
	done := StartReminderScheduler(ctx, sw, ReminderConfig{Interval: 10 * time.Millisecond, After: time.Hour, Batch: 5}, zerolog.Nop())

	require.Eventually(t, func() bool { return sw.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	require.Equal(t, time.Hour, sw.after)
	require.Equal(t, 5, sw.limit)
}

func TestReminderSchedulerLogsFailures(t *testing.T) {
	t.Parallel()

	var buf safeBuffer
	sw := &countingSweeper{err: errors.New("db down")}
	ctx, cancel := context.WithCancel(context.Background())
	done := StartReminderScheduler(ctx, sw, ReminderConfig{Interval: time.Hour}, zerolog.New(&buf))

	require.Eventually(t, func() bool { return sw.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	require.Contains(t, buf.String(), "sweep failed")
	require.Equal(t, 72*time.Hour, sw.after)
	require.Equal(t, 100, sw.limit)
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
