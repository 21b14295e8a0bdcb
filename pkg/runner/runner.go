// Package runner evaluates a registered function over a column read from
// JSON, one batch at a time.
package runner

import (
	"context"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/grafana/arrowfn/pkg/datatype"
	"github.com/grafana/arrowfn/pkg/engine/function"
)

// Stats summarizes a single run.
type Stats struct {
	Rows    int
	Batches int
	Nulls   int
}

// Runner evaluates a single function over JSON encoded columns.
type Runner struct {
	cfg       Config
	inputType arrow.DataType
	registry  *function.Registry
	logger    log.Logger
	alloc     memory.Allocator
}

// New creates a Runner. It returns an error if cfg is invalid or if the
// configured function is not registered.
func New(cfg Config, registry *function.Registry, alloc memory.Allocator, logger log.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid runner config")
	}
	if _, err := registry.Lookup(cfg.Function); err != nil {
		return nil, err
	}

	inputType, err := datatype.Parse(cfg.InputType)
	if err != nil {
		return nil, err
	}

	if alloc == nil {
		alloc = memory.DefaultAllocator
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{
		cfg:       cfg,
		inputType: inputType,
		registry:  registry,
		logger:    log.With(logger, "function", cfg.Function),
		alloc:     alloc,
	}, nil
}

// Run reads a JSON array of values from in, evaluates the function over it
// and writes the result to out.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (Stats, error) {
	start := time.Now()

	input, _, err := array.FromJSON(r.alloc, r.inputType, in)
	if err != nil {
		return Stats{}, errors.Wrapf(err, "reading %s column", r.inputType)
	}
	defer input.Release()

	result, stats, err := r.evaluate(ctx, input)
	if err != nil {
		return stats, err
	}
	defer result.Release()

	if err := r.write(out, input, result); err != nil {
		return stats, errors.Wrap(err, "writing result")
	}

	level.Info(r.logger).Log(
		"msg", "evaluated column",
		"rows", stats.Rows,
		"batches", stats.Batches,
		"nulls", stats.Nulls,
		"duration", time.Since(start),
	)
	return stats, nil
}

// evaluate invokes the function once per batch and concatenates the
// results. An empty column is still evaluated once so that type errors are
// reported.
func (r *Runner) evaluate(ctx context.Context, input arrow.Array) (arrow.Array, Stats, error) {
	var (
		stats   = Stats{Rows: input.Len()}
		results []arrow.Array
	)
	defer func() {
		for _, res := range results {
			res.Release()
		}
	}()

	for offset := 0; offset == 0 || offset < input.Len(); offset += r.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		end := min(offset+r.cfg.BatchSize, input.Len())
		res, err := r.evaluateBatch(input, offset, end)
		if err != nil {
			return nil, stats, errors.Wrapf(err, "evaluating rows [%d, %d)", offset, end)
		}

		stats.Batches++
		stats.Nulls += res.NullN()
		results = append(results, res)

		level.Debug(r.logger).Log("msg", "evaluated batch", "offset", offset, "rows", end-offset)
	}

	if len(results) == 1 {
		results[0].Retain()
		return results[0], stats, nil
	}

	concatenated, err := array.Concatenate(results, r.alloc)
	if err != nil {
		return nil, stats, errors.Wrap(err, "concatenating results")
	}
	return concatenated, stats, nil
}

func (r *Runner) evaluateBatch(input arrow.Array, offset, end int) (arrow.Array, error) {
	batch := function.NewArray(array.NewSlice(input, int64(offset), int64(end)))
	defer batch.Release()

	res, err := r.registry.Invoke(r.alloc, r.cfg.Function, batch)
	if err != nil {
		return nil, err
	}

	arr, ok := res.(*function.Array)
	if !ok {
		res.Release()
		return nil, fmt.Errorf("function %s returned %T, expected an array", r.cfg.Function, res)
	}
	return arr.Array, nil
}

func (r *Runner) write(w io.Writer, input, result arrow.Array) error {
	switch r.cfg.Format {
	case FormatJSON:
		buf, err := result.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", buf)
		return err

	case FormatTable:
		return writeTable(w, input, result)

	default:
		return fmt.Errorf("unsupported format %q", r.cfg.Format)
	}
}

func writeTable(w io.Writer, input, result arrow.Array) error {
	var (
		tw   = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		bold = color.New(color.Bold)
		null = color.New(color.Faint).Sprint("null")
	)

	bold.Fprintln(tw, "ROW\tVALUE\tRESULT")
	for i := range input.Len() {
		value := null
		if input.IsValid(i) {
			value = input.ValueStr(i)
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, value, formatResult(result, i, null))
	}
	return tw.Flush()
}

func formatResult(result arrow.Array, i int, null string) string {
	if result.IsNull(i) {
		return null
	}
	if counts, ok := result.(*array.Uint64); ok && counts.Value(i) <= math.MaxInt64 {
		return humanize.Comma(int64(counts.Value(i)))
	}
	return result.ValueStr(i)
}
