package compute

import (
	"fmt"

	"github.com/grafana/dskit/errors"
)

const (
	ErrArgumentCount   = errors.Error("invalid argument count")
	ErrUnsupportedType = errors.Error("unsupported type")
)

// ExecutionError is returned when a kernel cannot evaluate its input. Err is
// one of the sentinel errors of this package and can be matched with
// [errors.Is].
type ExecutionError struct {
	Func string
	Err  error
	Msg  string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error: %s", e.Msg)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func execErrorf(fn string, err error, format string, args ...any) error {
	return &ExecutionError{
		Func: fn,
		Err:  err,
		Msg:  fmt.Sprintf(format, args...),
	}
}
