package autosave

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRapidEditsCollapseToOneSave(t *testing.T) {
	var saves atomic.Int32
	s := New(SaverFunc(func(context.Context) { saves.Add(1) }), 30*time.Millisecond)
	defer s.Stop()

	ctx := context.Background()
	s.Notify(ctx)
	time.Sleep(5 * time.Millisecond)
	s.Notify(ctx)
	time.Sleep(5 * time.Millisecond)
	s.Notify(ctx)

	require.Eventually(t, func() bool {
		return saves.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// No second trailing save.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), saves.Load())
}

func TestSeparatedEditsSaveSeparately(t *testing.T) {
	var saves atomic.Int32
	s := New(SaverFunc(func(context.Context) { saves.Add(1) }), 20*time.Millisecond)
	defer s.Stop()

	ctx := context.Background()
	s.Notify(ctx)
	require.Eventually(t, func() bool { return saves.Load() == 1 }, time.Second, 5*time.Millisecond)

	s.Notify(ctx)
	require.Eventually(t, func() bool { return saves.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestStopCancelsWithoutFlushing(t *testing.T) {
	var saves atomic.Int32
	s := New(SaverFunc(func(context.Context) { saves.Add(1) }), 20*time.Millisecond)

	ctx := context.Background()
	s.Notify(ctx)
	s.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, saves.Load(), "Stop never flushes the pending save")

	s.Notify(ctx)
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, saves.Load(), "Notify after Stop is a no-op")
}

func TestCancelledContextSuppressesSave(t *testing.T) {
	var saves atomic.Int32
	s := New(SaverFunc(func(context.Context) { saves.Add(1) }), 20*time.Millisecond)
	defer s.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	s.Notify(ctx)
	cancel()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, saves.Load())
}
