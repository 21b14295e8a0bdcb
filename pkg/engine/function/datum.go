package function

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/scalar"
)

// Datum is an argument to or a result of a function: either an [*Array]
// holding one value per row, or a [*Scalar] holding a single value that
// applies to every row.
type Datum interface {
	DataType() arrow.DataType
	// Release releases any memory held by the datum.
	Release()
}

// Array is a Datum with one value per row.
type Array struct {
	arrow.Array
}

var _ Datum = (*Array)(nil)

// NewArray wraps arr. Ownership of arr moves to the returned datum.
func NewArray(arr arrow.Array) *Array { return &Array{Array: arr} }

// Scalar is a Datum with a single value.
type Scalar struct {
	scalar.Scalar
}

var _ Datum = (*Scalar)(nil)

// NewScalar wraps sc. Ownership of sc moves to the returned datum.
func NewScalar(sc scalar.Scalar) *Scalar { return &Scalar{Scalar: sc} }

// Release implements Datum. Only nested scalars hold memory.
func (s *Scalar) Release() {
	if r, ok := s.Scalar.(interface{ Release() }); ok {
		r.Release()
	}
}

// datumRows returns the number of rows represented by d. Scalars count as a
// single row.
func datumRows(d Datum) int {
	if arr, ok := d.(*Array); ok {
		return arr.Len()
	}
	return 1
}
