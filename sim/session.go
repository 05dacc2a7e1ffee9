package sim

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/cellalloc"
	"github.com/vkngwrapper/cellalloc/internal/utils"
	"github.com/vkngwrapper/cellalloc/memutils"
	"github.com/vkngwrapper/cellalloc/memutils/metadata"
	"golang.org/x/exp/slog"
)

// SessionOptions contains optional settings when creating a session
type SessionOptions struct {
	// Logger receives a debug record for every allocation and release. If nil, nothing is logged.
	Logger *slog.Logger
	// Shared guards every call into the session's allocator with a single mutex so that several
	// goroutines may drive the same session
	Shared bool
}

// Session is a single simulated address space in which allocations are referred to by name,
// the way a process refers to its variables
type Session struct {
	logger    *slog.Logger
	mutex     utils.OptionalRWMutex
	allocator *cellalloc.Allocator
	handles   map[string]cellalloc.Handle
}

// NewSession creates a session with a fresh allocator of the provided capacity and strategy
func NewSession(capacity int, strategy metadata.Strategy, options SessionOptions) (*Session, error) {
	allocator, err := cellalloc.New(capacity, strategy)
	if err != nil {
		return nil, err
	}

	logger := options.Logger
	if logger == nil {
		logger = discardLogger()
	}

	return &Session{
		logger:    logger,
		mutex:     utils.OptionalRWMutex{UseMutex: options.Shared},
		allocator: allocator,
		handles:   make(map[string]cellalloc.Handle),
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Alloc allocates size cells and binds them to name. A name may be reused once its previous
// allocation has been released.
func (s *Session) Alloc(name string, size int) (cellalloc.Handle, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if previous, ok := s.handles[name]; ok && s.allocator.IsLive(previous) {
		return cellalloc.Handle{}, errors.Wrapf(ErrDuplicateName, "%q is still allocated at address %d", name, previous.Address())
	}

	h, err := s.allocator.Alloc(size)
	if err != nil {
		return cellalloc.Handle{}, errors.Wrapf(err, "allocating %q", name)
	}

	s.handles[name] = h
	stats := s.allocator.BasicStatistics()
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Allocated",
		slog.String("name", name),
		slog.Int("size", size),
		slog.Int("address", h.Address()),
		slog.Int("allocations", stats.AllocationCount),
		slog.Int("freeCells", stats.FreeCells()),
	)
	return h, nil
}

// Release releases the allocation bound to name. The name stays bound to its spent handle, so
// releasing it a second time fails with memutils.ErrInvalidHandle.
func (s *Session) Release(name string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	h, ok := s.handles[name]
	if !ok {
		return errors.Wrapf(ErrUnknownName, "%q", name)
	}

	err := s.allocator.Release(h)
	if err != nil {
		return errors.Wrapf(err, "releasing %q", name)
	}

	stats := s.allocator.BasicStatistics()
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Released",
		slog.String("name", name),
		slog.Int("address", h.Address()),
		slog.Int("allocations", stats.AllocationCount),
		slog.Int("freeCells", stats.FreeCells()),
	)
	return nil
}

// Handle returns the handle most recently bound to name, which may already be released
func (s *Session) Handle(name string) (cellalloc.Handle, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	h, ok := s.handles[name]
	return h, ok
}

// Capacity returns the number of cells in the session's address space
func (s *Session) Capacity() int {
	return s.allocator.Capacity()
}

// Strategy returns the placement strategy of the session's allocator
func (s *Session) Strategy() metadata.Strategy {
	return s.allocator.Strategy()
}

// Layout returns a snapshot of the session's blocks
func (s *Session) Layout() []metadata.Region {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.allocator.Layout()
}

// Statistics returns the session allocator's detailed statistics
func (s *Session) Statistics() memutils.DetailedStatistics {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.allocator.Statistics()
}

// BuildStatsString returns the allocator's json summary
func (s *Session) BuildStatsString(detailedMap bool) string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.allocator.BuildStatsString(detailedMap)
}

// Validate checks the session allocator's invariants
func (s *Session) Validate() error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.allocator.Validate()
}
