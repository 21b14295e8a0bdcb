package runner

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/grafana/dskit/flagext"
	"github.com/grafana/dskit/multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/grafana/arrowfn/pkg/datatype"
	util_log "github.com/grafana/arrowfn/pkg/util/log"
)

const (
	FormatJSON  = "json"
	FormatTable = "table"
)

var formats = []string{FormatJSON, FormatTable}

type Config struct {
	// Function is the name of the function to evaluate.
	Function string `yaml:"function"`
	// InputType is the Arrow type of the input column, see [datatype.Parse].
	InputType string `yaml:"input_type"`
	// BatchSize is the maximum number of rows passed to a single invocation.
	BatchSize int `yaml:"batch_size"`
	// Format is the output format.
	Format   string `yaml:"format"`
	LogLevel string `yaml:"log_level"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("", f)
}

func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Function, prefix+"function", "cardinality", "The function to evaluate.")
	f.StringVar(&cfg.InputType, prefix+"input-type", "", "The Arrow type of the input column, for example list<list<int64>> or map<utf8, int64>.")
	f.IntVar(&cfg.BatchSize, prefix+"batch-size", 1024, "The maximum number of rows evaluated per function invocation.")
	f.StringVar(&cfg.Format, prefix+"format", FormatJSON, fmt.Sprintf("The output format. Supported values: %s.", strings.Join(formats, ", ")))
	f.StringVar(&cfg.LogLevel, prefix+"log.level", "info", fmt.Sprintf("Only log messages with the given severity or above. Supported values: %s.", strings.Join(util_log.Levels, ", ")))
}

func (cfg *Config) Validate() error {
	var errs multierror.MultiError

	if cfg.Function == "" {
		errs.Add(errors.New("function must be set"))
	}
	if cfg.InputType == "" {
		errs.Add(errors.New("input type must be set"))
	} else if _, err := datatype.Parse(cfg.InputType); err != nil {
		errs.Add(errors.Wrap(err, "invalid input type"))
	}
	if cfg.BatchSize <= 0 {
		errs.Add(fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize))
	}
	if !slices.Contains(formats, cfg.Format) {
		errs.Add(fmt.Errorf("unsupported format %q", cfg.Format))
	}
	if !slices.Contains(util_log.Levels, cfg.LogLevel) {
		errs.Add(fmt.Errorf("unsupported log level %q", cfg.LogLevel))
	}

	return errs.Err()
}

// LoadConfig returns the default configuration overridden by the YAML file
// at path. Unknown fields are rejected. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	flagext.DefaultValues(&cfg)

	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "opening config file")
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, errors.Wrapf(err, "parsing config file %s", path)
	}
	return cfg, nil
}
