package subprocess

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/codex-proto-go/internal/errors"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()

	for i := range 5 {
		require.NoError(t, q.Push([]byte(fmt.Sprint(i))))
	}

	require.Equal(t, 5, q.Len())

	for i := range 5 {
		data, ok := q.Next()
		require.True(t, ok)
		require.Equal(t, fmt.Sprint(i), string(data))
	}
}

func TestQueue_CloseDrainsThenStops(t *testing.T) {
	q := NewQueue()

	require.NoError(t, q.Push([]byte("a")))
	q.Close()
	q.Close()

	require.False(t, q.Open())
	require.ErrorIs(t, q.Push([]byte("b")), errors.ErrSessionClosed)

	data, ok := q.Next()
	require.True(t, ok)
	require.Equal(t, "a", string(data))

	_, ok = q.Next()
	require.False(t, ok)
}

func TestQueue_NextBlocksUntilPush(t *testing.T) {
	q := NewQueue()
	got := make(chan string, 1)

	go func() {
		data, _ := q.Next()
		got <- string(data)
	}()

	require.NoError(t, q.Push([]byte("late")))
	require.Equal(t, "late", <-got)
}

func TestQueue_NextUnblocksOnClose(t *testing.T) {
	q := NewQueue()
	done := make(chan bool, 1)

	go func() {
		_, ok := q.Next()
		done <- ok
	}()

	q.Close()
	require.False(t, <-done)
}

func TestQueue_Detach(t *testing.T) {
	q := NewQueue()

	require.NoError(t, q.Push([]byte("dropped")))
	q.Detach()

	require.False(t, q.Open())
	require.Zero(t, q.Len())
	require.ErrorIs(t, q.Push([]byte("x")), errors.ErrSessionClosed)

	_, ok := q.Next()
	require.False(t, ok)
}

func TestQueue_ConcurrentPush(t *testing.T) {
	const senders, perSender = 8, 100

	q := NewQueue()

	var wg sync.WaitGroup
	for s := range senders {
		wg.Go(func() {
			for i := range perSender {
				require.NoError(t, q.Push([]byte(fmt.Sprintf("%d-%d", s, i))))
			}
		})
	}

	wg.Wait()
	require.Equal(t, senders*perSender, q.Len())
}
