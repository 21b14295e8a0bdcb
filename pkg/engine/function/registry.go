package function

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrFunctionNotFound = errors.New("function not found")
	ErrDuplicateName    = errors.New("duplicate function name")
)

// Registry holds functions by name and alias. Names are case-insensitive.
// A Registry is safe for concurrent use.
type Registry struct {
	logger  log.Logger
	metrics *metrics

	mut       sync.RWMutex
	byName    map[string]Function
	functions []Function
}

// NewRegistry creates an empty Registry. Metrics are registered with r,
// which may be nil.
func NewRegistry(logger log.Logger, r prometheus.Registerer) *Registry {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Registry{
		logger:  logger,
		metrics: newMetrics(r),
		byName:  make(map[string]Function),
	}
}

// Register adds fn to the registry. Register fails if the name or any alias
// of fn is already taken.
func (r *Registry) Register(fn Function) error {
	r.mut.Lock()
	defer r.mut.Unlock()

	names := append([]string{fn.Name()}, fn.Aliases()...)
	for _, name := range names {
		if _, exists := r.byName[strings.ToLower(name)]; exists {
			return errors.Wrapf(ErrDuplicateName, "registering %q", name)
		}
	}

	for _, name := range names {
		r.byName[strings.ToLower(name)] = fn
	}
	r.functions = append(r.functions, fn)
	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Function, error) {
	r.mut.RLock()
	defer r.mut.RUnlock()

	fn, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrFunctionNotFound, "%q", name)
	}
	return fn, nil
}

// Functions returns all registered functions sorted by name.
func (r *Registry) Functions() []Function {
	r.mut.RLock()
	defer r.mut.RUnlock()

	out := slices.Clone(r.functions)
	slices.SortFunc(out, func(a, b Function) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// Invoke looks up the function called name, coerces args according to its
// signature and evaluates it. The caller keeps ownership of args and owns
// the returned Datum.
func (r *Registry) Invoke(alloc memory.Allocator, name string, args ...Datum) (Datum, error) {
	fn, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	var rows int
	if len(args) > 0 {
		rows = datumRows(args[0])
	}

	start := time.Now()
	result, err := r.invoke(alloc, fn, args)
	took := time.Since(start)

	r.metrics.duration.WithLabelValues(fn.Name()).Observe(took.Seconds())
	r.metrics.rows.WithLabelValues(fn.Name()).Add(float64(rows))
	if err != nil {
		r.metrics.invocations.WithLabelValues(fn.Name(), statusFailure).Inc()
		level.Debug(r.logger).Log("msg", "function evaluation failed", "function", fn.Name(), "rows", rows, "err", err)
		return nil, err
	}

	r.metrics.invocations.WithLabelValues(fn.Name(), statusSuccess).Inc()
	level.Debug(r.logger).Log("msg", "evaluated function", "function", fn.Name(), "rows", rows, "duration", took)
	return result, nil
}

func (r *Registry) invoke(alloc memory.Allocator, fn Function, args []Datum) (Datum, error) {
	coerced, err := fn.Signature().Coerce(alloc, args)
	if err != nil {
		return nil, errors.Wrapf(err, "coercing arguments of %s", fn.Name())
	}
	defer func() {
		for _, arg := range coerced {
			arg.Release()
		}
	}()

	return fn.Invoke(alloc, coerced)
}

// RegisterBuiltins registers every function of this package with r.
func RegisterBuiltins(r *Registry) error {
	for _, fn := range []Function{
		Cardinality(),
	} {
		if err := r.Register(fn); err != nil {
			return err
		}
	}
	return nil
}
