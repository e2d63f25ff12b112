package rainfall

import (
	"errors"
	"fmt"
)

// Error kinds shared by every computation over a Series.
// Callers match them with errors.Is; messages carry the offending values.
var (
	ErrInvalidRange     = errors.New("invalid range")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrOutOfRange       = errors.New("out of range")
	ErrEmptyClimatology = errors.New("empty climatology")
	ErrInvalidSeries    = errors.New("invalid series")
)

// Errorf wraps kind with a formatted detail message.
func Errorf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
