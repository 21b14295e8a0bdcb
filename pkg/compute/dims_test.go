package compute

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

func TestListDims(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	input := mustFromJSON(t, alloc, arrow.ListOf(int64ListOfList), `[
		[[[1, 2], [3, 4]], [[5, 6], [7, 8]], [[9, 10], [11, 12]]],
		null,
		[],
		[[], [[1]]],
		[[null]]
	]`)
	defer input.Release()

	list := input.(array.ListLike)

	dims, ok := ListDims(list, 0)
	require.True(t, ok)
	require.Equal(t, Dims{{3, true}, {2, true}, {2, true}}, dims)

	_, ok = ListDims(list, 1)
	require.False(t, ok, "null rows have no dimensions")

	dims, ok = ListDims(list, 2)
	require.True(t, ok)
	require.Equal(t, Dims{{0, true}}, dims)

	dims, ok = ListDims(list, 3)
	require.True(t, ok)
	require.Equal(t, Dims{{2, true}, {0, true}}, dims)

	dims, ok = ListDims(list, 4)
	require.True(t, ok)
	require.Equal(t, Dims{{1, true}, {1, true}, {}}, dims)
}

func TestListDims_FixedSizeList(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	input := mustFromJSON(t, alloc, arrow.FixedSizeListOf(2, int64List), `[[[1, 2, 3], [4]], null]`)
	defer input.Release()

	list := input.(array.ListLike)

	dims, ok := ListDims(list, 0)
	require.True(t, ok)
	require.Equal(t, Dims{{2, true}, {3, true}}, dims)

	_, ok = ListDims(list, 1)
	require.False(t, ok)
}

func TestDimsProduct(t *testing.T) {
	tt := []struct {
		name   string
		dims   Dims
		expect uint64
		ok     bool
	}{
		{name: "empty", dims: Dims{}, expect: 1, ok: true},
		{name: "single", dims: Dims{{5, true}}, expect: 5, ok: true},
		{name: "rectangular", dims: Dims{{2, true}, {4, true}}, expect: 8, ok: true},
		{name: "zero factor", dims: Dims{{3, true}, {0, true}, {7, true}}, expect: 0, ok: true},
		{name: "invalid level", dims: Dims{{3, true}, {}}, ok: false},
		{name: "wraps around", dims: Dims{{1 << 32, true}, {1 << 32, true}}, expect: 0, ok: true},
		{name: "max", dims: Dims{{math.MaxUint64, true}, {1, true}}, expect: math.MaxUint64, ok: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := tc.dims.Product()
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.expect, n)
		})
	}
}
