package metadata_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/cellalloc/memutils"
	"github.com/vkngwrapper/cellalloc/memutils/metadata"
)

func free(start, length int) metadata.Block {
	return metadata.Block{Start: start, Length: length, State: metadata.BlockFree}
}

func taken(start, length int) metadata.Block {
	return metadata.Block{Start: start, Length: length, State: metadata.BlockAllocated}
}

func TestFirstFitTakesLowestAddress(t *testing.T) {
	blocks := []metadata.Block{free(0, 10), taken(10, 5), free(15, 20)}

	index, found := metadata.StrategyFirstFit.Select(blocks, 3)
	require.True(t, found)
	require.Equal(t, 0, index)

	// Too big for the first block, so the second free block is chosen
	index, found = metadata.StrategyFirstFit.Select(blocks, 11)
	require.True(t, found)
	require.Equal(t, 2, index)

	_, found = metadata.StrategyFirstFit.Select(blocks, 21)
	require.False(t, found)
}

func TestBestFitExactMatch(t *testing.T) {
	blocks := []metadata.Block{free(0, 20), taken(20, 1), free(21, 5), taken(26, 1), free(27, 8)}

	index, found := metadata.StrategyBestFit.Select(blocks, 5)
	require.True(t, found)
	require.Equal(t, 2, index)
}

func TestBestFitMinimalRemainder(t *testing.T) {
	blocks := []metadata.Block{free(0, 20), taken(20, 1), free(21, 8)}

	index, found := metadata.StrategyBestFit.Select(blocks, 5)
	require.True(t, found)
	require.Equal(t, 2, index)

	index, found = metadata.StrategyFirstFit.Select(blocks, 5)
	require.True(t, found)
	require.Equal(t, 0, index)
}

func TestBestFitTieGoesToLowestAddress(t *testing.T) {
	blocks := []metadata.Block{free(0, 30), taken(30, 2), free(32, 9), taken(41, 2), free(43, 9), taken(52, 2), free(54, 12)}

	index, found := metadata.StrategyBestFit.Select(blocks, 7)
	require.True(t, found)
	require.Equal(t, 2, index)
}

func TestBestFitIgnoresAllocatedBlocks(t *testing.T) {
	blocks := []metadata.Block{taken(0, 5), free(5, 50), taken(55, 5)}

	index, found := metadata.StrategyBestFit.Select(blocks, 5)
	require.True(t, found)
	require.Equal(t, 1, index)

	_, found = metadata.StrategyBestFit.Select(blocks, 51)
	require.False(t, found)
}

func TestSelectDoesNotMutate(t *testing.T) {
	blocks := []metadata.Block{free(0, 20), taken(20, 5), free(25, 8)}
	snapshot := append([]metadata.Block(nil), blocks...)

	for _, strategy := range metadata.Strategies() {
		_, found := strategy.Select(blocks, 8)
		require.True(t, found)
		require.Equal(t, snapshot, blocks)
	}
}

func TestUnknownStrategySelectsNothing(t *testing.T) {
	strategy := metadata.Strategy(99)
	require.False(t, strategy.IsValid())
	require.Equal(t, "unknown", strategy.String())

	index, found := strategy.Select([]metadata.Block{free(0, 10)}, 1)
	require.False(t, found)
	require.Equal(t, -1, index)

	_, err := strategy.MarshalText()
	require.True(t, errors.Is(err, memutils.ErrInvalidStrategy))
}

func TestParseStrategy(t *testing.T) {
	for name, expected := range map[string]metadata.Strategy{
		"first-fit": metadata.StrategyFirstFit,
		"FirstFit":  metadata.StrategyFirstFit,
		" first ":   metadata.StrategyFirstFit,
		"best-fit":  metadata.StrategyBestFit,
		"BESTFIT":   metadata.StrategyBestFit,
		"best":      metadata.StrategyBestFit,
	} {
		strategy, err := metadata.ParseStrategy(name)
		require.NoError(t, err, name)
		require.Equal(t, expected, strategy, name)
	}

	_, err := metadata.ParseStrategy("worst-fit")
	require.True(t, errors.Is(err, memutils.ErrInvalidStrategy))

	var strategy metadata.Strategy
	require.NoError(t, strategy.UnmarshalText([]byte("best-fit")))
	require.Equal(t, metadata.StrategyBestFit, strategy)

	text, err := strategy.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "best-fit", string(text))
}

func TestStrategiesOnBlockList(t *testing.T) {
	// Leaves free regions of 20, 5 and 8 cells at increasing addresses
	build := func() *metadata.BlockList {
		list, err := metadata.NewBlockList(40)
		require.NoError(t, err)

		starts := make([]int, 0, 6)
		for _, size := range []int{20, 1, 5, 1, 8, 5} {
			starts = append(starts, allocate(t, list, metadata.StrategyFirstFit, size))
		}
		for _, i := range []int{0, 2, 4} {
			require.NoError(t, list.MarkFree(starts[i]))
		}
		require.NoError(t, list.Validate())
		return list
	}

	list := build()
	require.Equal(t, 21, allocate(t, list, metadata.StrategyBestFit, 5))

	list = build()
	require.Equal(t, 0, allocate(t, list, metadata.StrategyFirstFit, 5))

	list = build()
	require.Equal(t, 27, allocate(t, list, metadata.StrategyBestFit, 6))
}
