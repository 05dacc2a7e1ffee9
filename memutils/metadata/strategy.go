package metadata

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/cellalloc/memutils"
)

// Strategy selects which free block satisfies an allocation request. Selection never mutates
// the blocks it is given; the caller splits the chosen block afterward.
type Strategy uint32

const (
	// StrategyFirstFit chooses the free block with the lowest address that is large enough
	// for the request. The scan stops at the first hit.
	StrategyFirstFit Strategy = iota
	// StrategyBestFit chooses the smallest free block that is large enough for the request,
	// preferring the lowest address among equally-sized candidates. A block that matches the
	// request exactly ends the scan.
	StrategyBestFit
)

var strategyMapping = map[Strategy]string{
	StrategyFirstFit: "first-fit",
	StrategyBestFit:  "best-fit",
}

var strategyAliases = map[string]Strategy{
	"first-fit": StrategyFirstFit,
	"firstfit":  StrategyFirstFit,
	"first":     StrategyFirstFit,
	"best-fit":  StrategyBestFit,
	"bestfit":   StrategyBestFit,
	"best":      StrategyBestFit,
}

func (s Strategy) String() string {
	str, ok := strategyMapping[s]
	if !ok {
		return "unknown"
	}
	return str
}

// IsValid returns true for StrategyFirstFit and StrategyBestFit
func (s Strategy) IsValid() bool {
	_, ok := strategyMapping[s]
	return ok
}

// Strategies lists every placement strategy in a stable order
func Strategies() []Strategy {
	return []Strategy{StrategyFirstFit, StrategyBestFit}
}

// ParseStrategy accepts a strategy name such as "first-fit" or "best", case-insensitively
func ParseStrategy(name string) (Strategy, error) {
	s, ok := strategyAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.Wrapf(memutils.ErrInvalidStrategy, "unrecognized strategy %q", name)
	}

	return s, nil
}

func (s Strategy) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, errors.Wrapf(memutils.ErrInvalidStrategy, "strategy %d", uint32(s))
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

// Select returns the index within blocks of the free block this strategy places a request of
// size cells into. If no free block has at least size cells, or the strategy is unknown,
// (-1, false) is returned.
func (s Strategy) Select(blocks []Block, size int) (int, bool) {
	memutils.DebugCheckSize(size, 0, "selection size")

	switch s {
	case StrategyFirstFit:
		return selectFirstFit(blocks, size)
	case StrategyBestFit:
		return selectBestFit(blocks, size)
	}

	return -1, false
}

func selectFirstFit(blocks []Block, size int) (int, bool) {
	for i := range blocks {
		if blocks[i].IsFree() && blocks[i].Length >= size {
			return i, true
		}
	}

	return -1, false
}

func selectBestFit(blocks []Block, size int) (int, bool) {
	bestIndex := -1
	bestLength := 0

	for i := range blocks {
		block := &blocks[i]
		if !block.IsFree() || block.Length < size {
			continue
		}

		// An exact match cannot be improved on
		if block.Length == size {
			return i, true
		}

		if bestIndex < 0 || block.Length < bestLength {
			bestIndex = i
			bestLength = block.Length
		}
	}

	return bestIndex, bestIndex >= 0
}
