// Package function implements scalar functions over Arrow data and a
// registry to look them up by name.
//
// Functions accept a mix of array and scalar [Datum] arguments. Most
// functions are implemented as an [ArrayFunc] kernel from
// [github.com/grafana/arrowfn/pkg/compute] and adapted with
// [MakeScalarFunction].
package function

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Function is a scalar function: it produces one output value per input
// row.
type Function interface {
	// Name returns the canonical name of the function.
	Name() string

	// Aliases returns additional names the function can be looked up by.
	Aliases() []string

	// Signature returns the arguments accepted by the function.
	Signature() Signature

	// ReturnType returns the type of the result for the given argument
	// types.
	ReturnType(args []arrow.DataType) (arrow.DataType, error)

	// Documentation describes the function for users.
	Documentation() Documentation

	// Invoke evaluates the function. The returned Datum is owned by the
	// caller. args have already been coerced according to Signature.
	Invoke(alloc memory.Allocator, args []Datum) (Datum, error)
}

// Documentation describes a function for users. It has no effect on
// evaluation.
type Documentation struct {
	Section       string
	Description   string
	SyntaxExample string
	SQLExample    string
	Arguments     []ArgumentDoc
}

// ArgumentDoc describes a single function argument.
type ArgumentDoc struct {
	Name        string
	Description string
}
