package sim

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/cellalloc/memutils"
	"github.com/vkngwrapper/cellalloc/memutils/metadata"
	"golang.org/x/exp/slog"
)

func newSession(t *testing.T, capacity int, shared bool) *Session {
	session, err := NewSession(capacity, metadata.StrategyFirstFit, SessionOptions{Shared: shared})
	require.NoError(t, err)
	return session
}

func TestSessionAllocRelease(t *testing.T) {
	session := newSession(t, 32, false)

	h, err := session.Alloc("a", 8)
	require.NoError(t, err)
	require.Equal(t, 0, h.Address())

	bound, ok := session.Handle("a")
	require.True(t, ok)
	require.Equal(t, h, bound)

	require.NoError(t, session.Release("a"))
	require.Equal(t, []metadata.Region{
		{Start: 0, End: 31, Length: 32, State: metadata.BlockFree},
	}, session.Layout())
	require.NoError(t, session.Validate())
}

func TestSessionDuplicateName(t *testing.T) {
	session := newSession(t, 32, false)

	_, err := session.Alloc("a", 8)
	require.NoError(t, err)

	_, err = session.Alloc("a", 8)
	require.True(t, errors.Is(err, ErrDuplicateName))

	// Once released, the name can be bound again
	require.NoError(t, session.Release("a"))
	h, err := session.Alloc("a", 4)
	require.NoError(t, err)
	require.Equal(t, 0, h.Address())
}

func TestSessionUnknownName(t *testing.T) {
	session := newSession(t, 32, false)

	err := session.Release("ghost")
	require.True(t, errors.Is(err, ErrUnknownName))
}

func TestSessionDoubleRelease(t *testing.T) {
	session := newSession(t, 32, false)

	_, err := session.Alloc("a", 8)
	require.NoError(t, err)
	require.NoError(t, session.Release("a"))

	err = session.Release("a")
	require.True(t, errors.Is(err, memutils.ErrInvalidHandle))
	require.NoError(t, session.Validate())
}

func TestSessionAllocFailure(t *testing.T) {
	session := newSession(t, 16, false)

	_, err := session.Alloc("big", 17)
	require.True(t, errors.Is(err, memutils.ErrInvalidSize))

	_, err = session.Alloc("a", 16)
	require.NoError(t, err)

	_, err = session.Alloc("b", 1)
	require.True(t, errors.Is(err, memutils.ErrAllocationFailed))

	_, ok := session.Handle("b")
	require.False(t, ok)
}

func TestSessionShared(t *testing.T) {
	session := newSession(t, 1024, true)

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			for i := 0; i < 50; i++ {
				name := fmt.Sprintf("w%d-%d", worker, i)
				_, err := session.Alloc(name, 1+(i%7))
				if err != nil {
					continue
				}

				_ = session.Statistics()
				_ = session.Release(name)
			}
		}(worker)
	}
	wg.Wait()

	require.NoError(t, session.Validate())
	stats := session.Statistics()
	require.Equal(t, 0, stats.AllocationCount)
	require.Equal(t, 1024, stats.FreeCells())
}

func TestSessionDebugLog(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	session, err := NewSession(32, metadata.StrategyFirstFit, SessionOptions{Logger: logger})
	require.NoError(t, err)

	_, err = session.Alloc("a", 8)
	require.NoError(t, err)
	require.Contains(t, logs.String(), "msg=Allocated name=a size=8 address=0 allocations=1 freeCells=24")

	require.NoError(t, session.Release("a"))
	require.Contains(t, logs.String(), "msg=Released name=a address=0 allocations=0 freeCells=32")
}
