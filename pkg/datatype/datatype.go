// Package datatype parses textual names of Arrow data types, such as
// "list<list<int64>>" or "map<utf8, int64>".
package datatype

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// Primitive maps the names of non-nested types to their Arrow type.
var Primitive = map[string]arrow.DataType{
	"null":    arrow.Null,
	"bool":    arrow.FixedWidthTypes.Boolean,
	"int8":    arrow.PrimitiveTypes.Int8,
	"int16":   arrow.PrimitiveTypes.Int16,
	"int32":   arrow.PrimitiveTypes.Int32,
	"int64":   arrow.PrimitiveTypes.Int64,
	"uint8":   arrow.PrimitiveTypes.Uint8,
	"uint16":  arrow.PrimitiveTypes.Uint16,
	"uint32":  arrow.PrimitiveTypes.Uint32,
	"uint64":  arrow.PrimitiveTypes.Uint64,
	"float32": arrow.PrimitiveTypes.Float32,
	"float64": arrow.PrimitiveTypes.Float64,
	"utf8":    arrow.BinaryTypes.String,
	"string":  arrow.BinaryTypes.String,
	"binary":  arrow.BinaryTypes.Binary,
}

// Parse parses a type name. Nested types are written as list<T>,
// large_list<T>, fixed_size_list<T, N> and map<K, V>, and may be nested
// freely. Names are case-insensitive and may contain whitespace around
// punctuation.
func Parse(s string) (arrow.DataType, error) {
	p := &parser{input: s}
	dt, err := p.parseType()
	if err != nil {
		return nil, fmt.Errorf("parsing type %q: %w", s, err)
	}
	if p.skipSpace(); p.pos != len(p.input) {
		return nil, fmt.Errorf("parsing type %q: unexpected %q at offset %d", s, p.input[p.pos:], p.pos)
	}
	return dt, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) arrow.DataType {
	dt, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return dt
}

type parser struct {
	input string
	pos   int
}

func (p *parser) parseType() (arrow.DataType, error) {
	name := strings.ToLower(p.ident())
	if name == "" {
		return nil, p.errorf("expected type name")
	}

	switch name {
	case "list":
		elem, err := p.parseParams(1)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elem[0]), nil

	case "large_list":
		elem, err := p.parseParams(1)
		if err != nil {
			return nil, err
		}
		return arrow.LargeListOf(elem[0]), nil

	case "fixed_size_list":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		size, err := p.number()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return arrow.FixedSizeListOf(size, elem), nil

	case "map":
		kv, err := p.parseParams(2)
		if err != nil {
			return nil, err
		}
		return arrow.MapOf(kv[0], kv[1]), nil
	}

	dt, ok := Primitive[name]
	if !ok {
		return nil, p.errorf("unknown type %q", name)
	}
	return dt, nil
}

// parseParams parses a bracketed, comma-separated list of n types.
func (p *parser) parseParams(n int) ([]arrow.DataType, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}

	params := make([]arrow.DataType, 0, n)
	for i := range n {
		if i > 0 {
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
		dt, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, dt)
	}

	if err := p.expect('>'); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c != '_' && !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') && !('0' <= c && c <= '9') {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) number() (int32, error) {
	lit := p.ident()
	n, err := strconv.ParseInt(lit, 10, 32)
	if err != nil || n <= 0 {
		return 0, p.errorf("invalid list size %q", lit)
	}
	return int32(n), nil
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s at offset %d", fmt.Sprintf(format, args...), p.pos)
}
