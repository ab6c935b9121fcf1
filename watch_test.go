package confsync_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/confsync"
)

func TestWatch(t *testing.T) {
	t.Parallel()

	t.Run("fires for set and clear on the watched key only", func(t *testing.T) {
		t.Parallel()

		store, err := confsync.New("ns", confsync.NewMemoryStore(), confsync.NewMemoryBroadcaster(4))
		require.NoError(t, err)
		defer store.Close()

		events := make(chan confsync.WatchEvent, 4)
		cancel := store.Watch("k", func(ev confsync.WatchEvent) { events <- ev })
		defer cancel()

		store.Set("other", 1)
		store.Set("k", "v1")

		ev := wait(t, events)
		assert.Equal(t, "k", ev.Key)
		assert.Equal(t, "v1", ev.Value)
		assert.False(t, ev.Cleared)

		store.Clear("k")
		ev = wait(t, events)
		assert.Equal(t, "k", ev.Key)
		assert.True(t, ev.Cleared)
	})

	t.Run("previous value travels with the event", func(t *testing.T) {
		t.Parallel()

		store, err := confsync.New("ns", confsync.NewMemoryStore(), confsync.NewMemoryBroadcaster(4))
		require.NoError(t, err)
		defer store.Close()

		events := make(chan confsync.WatchEvent, 4)
		cancel := store.Watch("k", func(ev confsync.WatchEvent) { events <- ev })
		defer cancel()

		store.Set("k", 1)
		ev := wait(t, events)
		assert.Nil(t, ev.Previous)

		store.Set("k", 2)
		ev = wait(t, events)
		assert.Equal(t, 1, ev.Previous)
		assert.Equal(t, 2, ev.Value)
	})

	t.Run("disposed watch never fires again", func(t *testing.T) {
		t.Parallel()

		store, err := confsync.New("ns", confsync.NewMemoryStore(), confsync.NewMemoryBroadcaster(4))
		require.NoError(t, err)
		defer store.Close()

		var calls atomic.Int32
		cancel := store.Watch("k", func(confsync.WatchEvent) { calls.Add(1) })

		done := make(chan struct{}, 4)
		store.OnSet(func(string, any, any) { done <- struct{}{} })
		store.OnCleared(func(string) { done <- struct{}{} })

		store.Set("k", 1)
		wait(t, done)
		// Handler invocation order within one notification is not
		// defined, so give the watch callback a beat to run.
		time.Sleep(20 * time.Millisecond)
		require.Equal(t, int32(1), calls.Load())

		cancel()
		cancel() // double-cancel is safe

		store.Set("k", 2)
		wait(t, done)
		store.Clear("k")
		wait(t, done)
		time.Sleep(20 * time.Millisecond)

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("watches on one key are independent", func(t *testing.T) {
		t.Parallel()

		store, err := confsync.New("ns", confsync.NewMemoryStore(), confsync.NewMemoryBroadcaster(4))
		require.NoError(t, err)
		defer store.Close()

		var first, second atomic.Int32
		cancelFirst := store.Watch("k", func(confsync.WatchEvent) { first.Add(1) })
		cancelSecond := store.Watch("k", func(confsync.WatchEvent) { second.Add(1) })
		defer cancelSecond()

		done := make(chan struct{}, 4)
		store.OnSet(func(string, any, any) { done <- struct{}{} })

		cancelFirst()

		store.Set("k", 1)
		wait(t, done)
		time.Sleep(20 * time.Millisecond)

		assert.Equal(t, int32(0), first.Load())
		assert.Equal(t, int32(1), second.Load())
	})
}

func TestObserverUnsubscribe(t *testing.T) {
	t.Parallel()

	store, err := confsync.New("ns", confsync.NewMemoryStore(), confsync.NewMemoryBroadcaster(4))
	require.NoError(t, err)
	defer store.Close()

	var calls atomic.Int32
	off := store.OnSet(func(string, any, any) { calls.Add(1) })

	done := make(chan struct{}, 4)
	store.OnSet(func(string, any, any) { done <- struct{}{} })

	store.Set("a", 1)
	wait(t, done)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())

	off()
	store.Set("b", 2)
	wait(t, done)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
}
