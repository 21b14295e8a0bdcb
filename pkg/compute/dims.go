package compute

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Dim is the element count of one nesting level of a list value. Valid is
// false when the level could not be measured because the value discovered
// at that level is null.
type Dim struct {
	Size  uint64
	Valid bool
}

// Dims holds the per-level element counts of a list value, outermost first.
type Dims []Dim

// Product multiplies all levels together with uint64 wraparound. ok is false
// if any level is invalid.
func (d Dims) Product() (n uint64, ok bool) {
	n = 1
	for _, dim := range d {
		if !dim.Valid {
			return 0, false
		}
		n *= dim.Size
	}
	return n, true
}

// ListDims returns the dimensions of the list value at row i of arr. The
// boolean result is false if the row is null.
//
// The shape is discovered by following the first element of every level:
// a row like [[1, 2], [3]] reports [2, 2]. Descent stops at an empty level or
// at a child that is not a list.
func ListDims(arr array.ListLike, i int) (Dims, bool) {
	if arr.IsNull(i) {
		return nil, false
	}
	start, end := arr.ValueOffsets(i)
	return appendChildDims(Dims{{Size: uint64(end - start), Valid: true}}, arr.ListValues(), start, end-start), true
}

// appendChildDims descends into values starting at the element at index
// first, given that the parent level holds size elements.
func appendChildDims(dims Dims, values arrow.Array, first, size int64) Dims {
	for size > 0 {
		child, ok := asNestedList(values)
		if !ok {
			return dims
		}

		idx := int(first)
		if child.IsNull(idx) {
			return append(dims, Dim{})
		}

		start, end := child.ValueOffsets(idx)
		size = end - start
		dims = append(dims, Dim{Size: uint64(size), Valid: true})

		values, first = child.ListValues(), start
	}
	return dims
}

// asNestedList reports whether values is a list level that shape discovery
// descends into. Maps are list-like but count as leaves.
func asNestedList(values arrow.Array) (array.ListLike, bool) {
	switch values.DataType().ID() {
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST:
		list, ok := values.(array.ListLike)
		return list, ok
	default:
		return nil, false
	}
}
