package memutils_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/cellalloc/memutils"
)

func TestCheckSize(t *testing.T) {
	require.NoError(t, memutils.CheckSize(1, 10, "size"))
	require.NoError(t, memutils.CheckSize(10, 10, "size"))
	require.NoError(t, memutils.CheckSize(1<<40, 0, "size"))

	err := memutils.CheckSize(0, 10, "size")
	require.True(t, errors.Is(err, memutils.ErrInvalidSize))
	require.Contains(t, err.Error(), "size must be positive")

	err = memutils.CheckSize(11, 10, "size")
	require.True(t, errors.Is(err, memutils.ErrInvalidSize))

	err = memutils.CheckSize(int64(-1), 0, "capacity")
	require.True(t, errors.Is(err, memutils.ErrInvalidSize))
}

func TestEndInclusive(t *testing.T) {
	require.Equal(t, 0, memutils.EndInclusive(0, 1))
	require.Equal(t, 99, memutils.EndInclusive(90, 10))
}
