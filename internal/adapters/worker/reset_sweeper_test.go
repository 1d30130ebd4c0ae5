package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) SweepExpiredResets(context.Context) (int64, error) {
	c.calls.Add(1)
	return 2, c.err
}

func TestResetSweeperRunsUntilCancelled(t *testing.T) {
	sweeper := &countingSweeper{}
	w := NewResetSweeper(slog.New(slog.NewTextHandler(io.Discard, nil)), sweeper, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()
	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, sweeper.calls.Load(), int32(2))
}

func TestResetSweeperRunOnce(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	n, err := NewResetSweeper(logger, &countingSweeper{}, 0).RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = NewResetSweeper(logger, &countingSweeper{err: errors.New("db down")}, 0).RunOnce(context.Background())
	assert.Error(t, err)
}
