package function

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/grafana/arrowfn/pkg/compute"
)

type cardinality struct {
	invoke DatumFunc
}

// Cardinality returns the cardinality function, which computes the total
// number of elements in an array or map. See [compute.Cardinality].
func Cardinality() Function {
	return &cardinality{invoke: MakeScalarFunction(compute.Cardinality)}
}

func (*cardinality) Name() string      { return "cardinality" }
func (*cardinality) Aliases() []string { return nil }

func (*cardinality) Signature() Signature {
	return Signature{
		OneOf: [][]ArgumentKind{
			{ArgumentArray},
			{ArgumentMap},
		},
		Coercion:   FixedSizeListToList,
		Volatility: Immutable,
	}
}

func (*cardinality) ReturnType([]arrow.DataType) (arrow.DataType, error) {
	return arrow.PrimitiveTypes.Uint64, nil
}

func (*cardinality) Documentation() Documentation {
	return Documentation{
		Section:       "Array Functions",
		Description:   "Returns the total number of elements in the array or map.",
		SyntaxExample: "cardinality(array)",
		SQLExample: `> select cardinality([[1, 2, 3, 4], [5, 6, 7, 8]]);
+--------------------------------------+
| cardinality(List([1,2,3,4,5,6,7,8])) |
+--------------------------------------+
| 8                                    |
+--------------------------------------+`,
		Arguments: []ArgumentDoc{{
			Name:        "array",
			Description: "Array expression. Can be a constant, column, or function, and any combination of array operators.",
		}},
	}
}

func (c *cardinality) Invoke(alloc memory.Allocator, args []Datum) (Datum, error) {
	return c.invoke(alloc, args)
}
