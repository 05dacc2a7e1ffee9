package sim

import "github.com/pkg/errors"

var (
	// ErrInvalidScenario is returned when a scenario cannot be run as written
	ErrInvalidScenario = errors.New("invalid scenario")
	// ErrUnknownName is returned when a step releases a name that was never allocated
	ErrUnknownName = errors.New("unknown allocation name")
	// ErrDuplicateName is returned when a step allocates under a name that is still live
	ErrDuplicateName = errors.New("allocation name is already live")
)
