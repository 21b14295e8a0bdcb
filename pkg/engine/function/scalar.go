package function

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/arrow/scalar"
)

// ArrayFunc is a kernel that operates on whole arrays of equal length.
type ArrayFunc func(alloc memory.Allocator, args ...arrow.Array) (arrow.Array, error)

// DatumFunc evaluates a function against a mix of array and scalar arguments.
type DatumFunc func(alloc memory.Allocator, args []Datum) (Datum, error)

// MakeScalarFunction adapts an [ArrayFunc] into a [DatumFunc].
//
// When every argument is a scalar, each one is expanded into a single-row
// array and the single-row result is returned as a scalar. Otherwise scalars
// are broadcast to the length of the array arguments, which must all have the
// same length, and the result is returned as an array.
func MakeScalarFunction(fn ArrayFunc) DatumFunc {
	return func(alloc memory.Allocator, args []Datum) (Datum, error) {
		rows, allScalars := 1, true
		for _, arg := range args {
			arr, ok := arg.(*Array)
			if !ok {
				continue
			}
			if allScalars {
				rows, allScalars = arr.Len(), false
			} else if arr.Len() != rows {
				return nil, fmt.Errorf("array length mismatch: %d != %d", arr.Len(), rows)
			}
		}

		arrays := make([]arrow.Array, 0, len(args))
		defer func() {
			for _, arr := range arrays {
				arr.Release()
			}
		}()

		for _, arg := range args {
			switch arg := arg.(type) {
			case *Array:
				arg.Retain()
				arrays = append(arrays, arg.Array)
			case *Scalar:
				arr, err := scalar.MakeArrayFromScalar(arg.Scalar, rows, alloc)
				if err != nil {
					return nil, fmt.Errorf("expanding scalar of type %s: %w", arg.DataType(), err)
				}
				arrays = append(arrays, arr)
			default:
				panic(fmt.Sprintf("unexpected datum type %T", arg))
			}
		}

		out, err := fn(alloc, arrays...)
		if err != nil {
			return nil, err
		}
		if !allScalars {
			return NewArray(out), nil
		}

		defer out.Release()
		sc, err := scalar.GetScalar(out, 0)
		if err != nil {
			return nil, fmt.Errorf("reading scalar result: %w", err)
		}
		return NewScalar(sc), nil
	}
}
