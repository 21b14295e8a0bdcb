package compute

import (
	"errors"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

var (
	int64List       = arrow.ListOf(arrow.PrimitiveTypes.Int64)
	int64ListOfList = arrow.ListOf(int64List)
	stringToInt64   = arrow.MapOf(arrow.BinaryTypes.String, arrow.PrimitiveTypes.Int64)
)

func TestCardinality(t *testing.T) {
	tt := []struct {
		name   string
		dt     arrow.DataType
		input  string
		expect []any
	}{
		{
			name:   "null type",
			dt:     arrow.Null,
			input:  `[null, null, null]`,
			expect: []any{uint64(0), uint64(0), uint64(0)},
		},
		{
			name:   "empty null type",
			dt:     arrow.Null,
			input:  `[]`,
			expect: []any{},
		},
		{
			name:   "flat list",
			dt:     int64List,
			input:  `[[1, 2, 3], [4], null, []]`,
			expect: []any{uint64(3), uint64(1), nil, uint64(0)},
		},
		{
			name:   "nested list",
			dt:     int64ListOfList,
			input:  `[[[1, 2, 3, 4], [5, 6, 7, 8]], [[1], [2], [3]], null, [], [[]]]`,
			expect: []any{uint64(8), uint64(3), nil, uint64(0), uint64(0)},
		},
		{
			name:   "large list",
			dt:     arrow.LargeListOf(arrow.LargeListOf(arrow.PrimitiveTypes.Int32)),
			input:  `[[[1, 2], [3, 4], [5, 6]], null, []]`,
			expect: []any{uint64(6), nil, uint64(0)},
		},
		{
			name:   "list of large list",
			dt:     arrow.ListOf(arrow.LargeListOf(arrow.BinaryTypes.String)),
			input:  `[[["a", "b"], ["c", "d"]], [["a"]]]`,
			expect: []any{uint64(4), uint64(1)},
		},
		{
			name:   "list of fixed size list",
			dt:     arrow.ListOf(arrow.FixedSizeListOf(3, arrow.PrimitiveTypes.Int64)),
			input:  `[[[1, 2, 3], [4, 5, 6]], []]`,
			expect: []any{uint64(6), uint64(0)},
		},
		{
			name:   "three levels",
			dt:     arrow.ListOf(int64ListOfList),
			input:  `[[[[1, 2], [3, 4]], [[5, 6], [7, 8]]]]`,
			expect: []any{uint64(8)},
		},
		{
			name:   "first child shape wins",
			dt:     int64ListOfList,
			input:  `[[[1, 2], [3, 4, 5]]]`,
			expect: []any{uint64(4)},
		},
		{
			name:   "null first child",
			dt:     int64ListOfList,
			input:  `[[null, [1, 2]], [[1, 2], null]]`,
			expect: []any{nil, uint64(4)},
		},
		{
			name:   "list of maps counts the outer list only",
			dt:     arrow.ListOf(stringToInt64),
			input:  `[[[{"key": "a", "value": 1}, {"key": "b", "value": 2}]]]`,
			expect: []any{uint64(1)},
		},
		{
			name:   "map",
			dt:     stringToInt64,
			input:  `[[{"key": "a", "value": 1}, {"key": "b", "value": 2}], null, [], [{"key": "c", "value": null}]]`,
			expect: []any{uint64(2), nil, uint64(0), uint64(1)},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
			defer alloc.AssertSize(t, 0)

			input := mustFromJSON(t, alloc, tc.dt, tc.input)
			defer input.Release()

			result, err := Cardinality(alloc, input)
			require.NoError(t, err)
			defer result.Release()

			require.Equal(t, arrow.PrimitiveTypes.Uint64, result.DataType())
			require.Equal(t, tc.expect, uint64Values(result))
		})
	}
}

func TestCardinality_SlicedInput(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	input := mustFromJSON(t, alloc, int64ListOfList, `[[[1]], [[1, 2], [3, 4]], null, [[1, 2, 3]], [[9]]]`)
	defer input.Release()

	sliced := array.NewSlice(input, 1, 4)
	defer sliced.Release()

	result, err := Cardinality(alloc, sliced)
	require.NoError(t, err)
	defer result.Release()

	require.Equal(t, []any{uint64(4), nil, uint64(3)}, uint64Values(result))
}

func TestCardinality_SlicedMap(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	input := mustFromJSON(t, alloc, stringToInt64, `[[{"key": "a", "value": 1}], null, [{"key": "a", "value": 1}, {"key": "b", "value": 2}, {"key": "c", "value": 3}]]`)
	defer input.Release()

	sliced := array.NewSlice(input, 1, 3)
	defer sliced.Release()

	result, err := Cardinality(alloc, sliced)
	require.NoError(t, err)
	defer result.Release()

	require.Equal(t, []any{nil, uint64(3)}, uint64Values(result))
}

func TestCardinality_Idempotent(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	input := mustFromJSON(t, alloc, int64ListOfList, `[[[1, 2], [3, 4]], null, []]`)
	defer input.Release()

	first, err := Cardinality(alloc, input)
	require.NoError(t, err)
	defer first.Release()

	second, err := Cardinality(alloc, input)
	require.NoError(t, err)
	defer second.Release()

	require.True(t, array.Equal(first, second))
}

func TestCardinality_Errors(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	list := mustFromJSON(t, alloc, int64List, `[[1]]`)
	defer list.Release()

	t.Run("no arguments", func(t *testing.T) {
		result, err := Cardinality(alloc)
		require.ErrorIs(t, err, ErrArgumentCount)
		require.Nil(t, result)
	})

	t.Run("too many arguments", func(t *testing.T) {
		result, err := Cardinality(alloc, list, list)
		require.ErrorIs(t, err, ErrArgumentCount)
		require.Nil(t, result)
	})

	t.Run("argument count is checked before the type", func(t *testing.T) {
		ints := mustFromJSON(t, alloc, arrow.PrimitiveTypes.Int64, `[1, 2]`)
		defer ints.Release()

		_, err := Cardinality(alloc, ints, ints)
		require.ErrorIs(t, err, ErrArgumentCount)
	})

	for _, dt := range []arrow.DataType{
		arrow.PrimitiveTypes.Int64,
		arrow.BinaryTypes.String,
		arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Int64),
		arrow.StructOf(arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int64, Nullable: true}),
	} {
		t.Run("unsupported "+dt.String(), func(t *testing.T) {
			input := array.MakeArrayOfNull(alloc, dt, 2)
			defer input.Release()

			result, err := Cardinality(alloc, input)
			require.ErrorIs(t, err, ErrUnsupportedType)
			require.Nil(t, result)
			require.Contains(t, err.Error(), dt.String())

			var execErr *ExecutionError
			require.True(t, errors.As(err, &execErr))
			require.Equal(t, "cardinality", execErr.Func)
		})
	}
}

func mustFromJSON(t *testing.T, alloc memory.Allocator, dt arrow.DataType, input string) arrow.Array {
	t.Helper()

	arr, _, err := array.FromJSON(alloc, dt, strings.NewReader(input))
	require.NoError(t, err)
	return arr
}

// uint64Values returns the values of arr, using nil for null slots.
func uint64Values(arr arrow.Array) []any {
	values := arr.(*array.Uint64)

	out := make([]any, values.Len())
	for i := range values.Len() {
		if values.IsNull(i) {
			continue
		}
		out[i] = values.Value(i)
	}
	return out
}
