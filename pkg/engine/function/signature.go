package function

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/arrow/scalar"
)

// ArgumentKind describes a class of argument types accepted by a function.
type ArgumentKind int

const (
	ArgumentAny   ArgumentKind = iota // Any type.
	ArgumentArray                     // A list, large list or fixed size list.
	ArgumentMap                       // A map.
)

func (k ArgumentKind) String() string {
	switch k {
	case ArgumentAny:
		return "any"
	case ArgumentArray:
		return "array"
	case ArgumentMap:
		return "map"
	default:
		return fmt.Sprintf("ArgumentKind(%d)", int(k))
	}
}

// ListCoercion controls how list arguments are rewritten before a function
// is invoked.
type ListCoercion int

const (
	// NoListCoercion passes list arguments through unchanged.
	NoListCoercion ListCoercion = iota

	// FixedSizeListToList rewrites fixed size list arguments into list
	// arguments with the same values.
	FixedSizeListToList
)

// Volatility describes whether a function returns the same output for the
// same input.
type Volatility int

const (
	Immutable Volatility = iota
	Stable
	Volatile
)

// Signature describes the arguments a function accepts. Each entry of OneOf
// is an alternative list of arguments.
type Signature struct {
	OneOf      [][]ArgumentKind
	Coercion   ListCoercion
	Volatility Volatility
}

// Coerce applies the signature's list coercion to args. The returned datums
// are owned by the caller; args are left untouched.
func (s Signature) Coerce(alloc memory.Allocator, args []Datum) ([]Datum, error) {
	out := make([]Datum, 0, len(args))
	for _, arg := range args {
		coerced, err := s.coerce(alloc, arg)
		if err != nil {
			for _, d := range out {
				d.Release()
			}
			return nil, err
		}
		out = append(out, coerced)
	}
	return out, nil
}

func (s Signature) coerce(alloc memory.Allocator, arg Datum) (Datum, error) {
	if s.Coercion != FixedSizeListToList || arg.DataType().ID() != arrow.FIXED_SIZE_LIST {
		return retainDatum(arg), nil
	}

	switch arg := arg.(type) {
	case *Array:
		return NewArray(fixedSizeListToList(alloc, arg.Array.(*array.FixedSizeList))), nil

	case *Scalar:
		expanded, err := scalar.MakeArrayFromScalar(arg.Scalar, 1, alloc)
		if err != nil {
			return nil, fmt.Errorf("expanding scalar of type %s: %w", arg.DataType(), err)
		}
		defer expanded.Release()

		list := fixedSizeListToList(alloc, expanded.(*array.FixedSizeList))
		defer list.Release()

		sc, err := scalar.GetScalar(list, 0)
		if err != nil {
			return nil, fmt.Errorf("reading coerced scalar: %w", err)
		}
		return NewScalar(sc), nil

	default:
		panic(fmt.Sprintf("unexpected datum type %T", arg))
	}
}

func retainDatum(d Datum) Datum {
	switch d := d.(type) {
	case *Array:
		d.Retain()
	case *Scalar:
		if r, ok := d.Scalar.(interface{ Retain() }); ok {
			r.Retain()
		}
	}
	return d
}

// fixedSizeListToList returns a list array sharing the validity and child
// values of fsl.
func fixedSizeListToList(alloc memory.Allocator, fsl *array.FixedSizeList) arrow.Array {
	var (
		dt     = fsl.DataType().(*arrow.FixedSizeListType)
		data   = fsl.Data()
		size   = int(dt.Len())
		length = data.Offset() + data.Len()
	)

	// Offsets cover the parent's slice offset too, so the validity bitmap and
	// the child values can be shared without copying.
	offsets := memory.NewResizableBuffer(alloc)
	defer offsets.Release()
	offsets.Resize(arrow.Int32Traits.BytesRequired(length + 1))

	values := arrow.Int32Traits.CastFromBytes(offsets.Bytes())
	for i := range values {
		values[i] = int32(i * size)
	}

	listData := array.NewData(
		arrow.ListOfField(dt.ElemField()),
		data.Len(),
		[]*memory.Buffer{data.Buffers()[0], offsets},
		[]arrow.ArrayData{fsl.ListValues().Data()},
		data.NullN(),
		data.Offset(),
	)
	defer listData.Release()

	return array.MakeFromData(listData)
}
