package compute

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Cardinality computes the total number of elements of every value in the
// single input array. The result is always a Uint64 array with the same
// length as the input and must be released by the caller.
//
// Special cases:
//
//   - A null value has a null cardinality.
//   - Every row of a column of type [arrow.Null] has a cardinality of 0.
//   - The cardinality of a list is the product of the sizes of its nesting
//     levels, so [[1, 2, 3, 4], [5, 6, 7, 8]] has a cardinality of 8.
//   - The cardinality of a map is its number of entries.
//
// Cardinality returns [ErrArgumentCount] unless exactly one argument is
// given, and [ErrUnsupportedType] for any input type other than null, list,
// large list or map.
func Cardinality(alloc memory.Allocator, args ...arrow.Array) (arrow.Array, error) {
	if len(args) != 1 {
		return nil, execErrorf("cardinality", ErrArgumentCount, "cardinality function requires 1 argument, got %d", len(args))
	}
	input := args[0]

	switch input.DataType().ID() {
	case arrow.NULL:
		return zeroCardinality(alloc, input.Len()), nil
	case arrow.LIST:
		return listCardinality[int32](alloc, input.(*array.List)), nil
	case arrow.LARGE_LIST:
		return listCardinality[int64](alloc, input.(*array.LargeList)), nil
	case arrow.MAP:
		return mapCardinality(alloc, input.(*array.Map)), nil
	default:
		return nil, execErrorf("cardinality", ErrUnsupportedType, "cardinality does not support type %s", input.DataType())
	}
}

func zeroCardinality(alloc memory.Allocator, rows int) *array.Uint64 {
	builder := array.NewUint64Builder(alloc)
	defer builder.Release()

	builder.AppendValues(make([]uint64, rows), nil)
	return builder.NewUint64Array()
}

// offsetList is a list array whose element offsets are stored as O.
type offsetList[O int32 | int64] interface {
	array.ListLike
	Offsets() []O
}

func listCardinality[O int32 | int64](alloc memory.Allocator, input offsetList[O]) *array.Uint64 {
	builder := array.NewUint64Builder(alloc)
	defer builder.Release()
	builder.Reserve(input.Len())

	var (
		offsets = input.Offsets()
		base    = input.Data().Offset()
		values  = input.ListValues()
	)

	for i := range input.Len() {
		if input.IsNull(i) {
			builder.AppendNull()
			continue
		}

		start, end := offsets[base+i], offsets[base+i+1]
		dims := appendChildDims(Dims{{Size: uint64(end - start), Valid: true}}, values, int64(start), int64(end-start))

		n, ok := dims.Product()
		if !ok {
			builder.AppendNull()
			continue
		}
		builder.Append(n)
	}

	return builder.NewUint64Array()
}

func mapCardinality(alloc memory.Allocator, input *array.Map) *array.Uint64 {
	builder := array.NewUint64Builder(alloc)
	defer builder.Release()
	builder.Reserve(input.Len())

	for i := range input.Len() {
		if input.IsNull(i) {
			builder.AppendNull()
			continue
		}
		start, end := input.ValueOffsets(i)
		builder.Append(uint64(end - start))
	}

	return builder.NewUint64Array()
}
