package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/grafana/arrowfn/pkg/engine/function"
	"github.com/grafana/arrowfn/pkg/runner"
	util_log "github.com/grafana/arrowfn/pkg/util/log"
)

// evalCommand evaluates a function over a JSON encoded column.
type evalCommand struct {
	configFile string
	input      string

	cfg   runner.Config
	isSet struct {
		function, inputType, batchSize, format, logLevel bool
	}
}

func (cmd *evalCommand) run(_ *kingpin.ParseContext) error {
	cfg, err := runner.LoadConfig(cmd.configFile)
	if err != nil {
		return err
	}
	cmd.applyFlags(&cfg)

	logger, err := util_log.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	registry := function.NewRegistry(logger, prometheus.NewRegistry())
	if err := function.RegisterBuiltins(registry); err != nil {
		return err
	}

	r, err := runner.New(cfg, registry, memory.DefaultAllocator, logger)
	if err != nil {
		return err
	}

	in, err := cmd.openInput()
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if _, err := r.Run(ctx, in, os.Stdout); err != nil {
		level.Error(logger).Log("msg", "evaluation failed", "err", err)
		return err
	}
	return nil
}

// applyFlags overrides cfg with the flags given on the command line.
func (cmd *evalCommand) applyFlags(cfg *runner.Config) {
	if cmd.isSet.function {
		cfg.Function = cmd.cfg.Function
	}
	if cmd.isSet.inputType {
		cfg.InputType = cmd.cfg.InputType
	}
	if cmd.isSet.batchSize {
		cfg.BatchSize = cmd.cfg.BatchSize
	}
	if cmd.isSet.format {
		cfg.Format = cmd.cfg.Format
	}
	if cmd.isSet.logLevel {
		cfg.LogLevel = cmd.cfg.LogLevel
	}
}

func (cmd *evalCommand) openInput() (io.ReadCloser, error) {
	if cmd.input == "" || cmd.input == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(cmd.input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open input")
	}
	return f, nil
}

func addEvalCommand(app *kingpin.Application) {
	cmd := &evalCommand{}
	eval := app.Command("eval", "Evaluate a function over a column read as a JSON array.").Action(cmd.run)

	eval.Flag("config.file", "YAML file to load the configuration from.").StringVar(&cmd.configFile)
	eval.Flag("function", "The function to evaluate.").Short('f').IsSetByUser(&cmd.isSet.function).StringVar(&cmd.cfg.Function)
	eval.Flag("input-type", "The Arrow type of the input column, for example list<list<int64>>.").Short('t').IsSetByUser(&cmd.isSet.inputType).StringVar(&cmd.cfg.InputType)
	eval.Flag("batch-size", "The maximum number of rows evaluated per invocation.").IsSetByUser(&cmd.isSet.batchSize).IntVar(&cmd.cfg.BatchSize)
	eval.Flag("format", "The output format.").IsSetByUser(&cmd.isSet.format).EnumVar(&cmd.cfg.Format, runner.FormatJSON, runner.FormatTable)
	eval.Flag("log.level", "Only log messages with the given severity or above.").IsSetByUser(&cmd.isSet.logLevel).EnumVar(&cmd.cfg.LogLevel, util_log.Levels...)
	eval.Arg("input", "File to read the column from. Reads from stdin if omitted or -.").StringVar(&cmd.input)
}
