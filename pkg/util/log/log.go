package log

import (
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Levels lists the accepted values of a log level setting.
var Levels = []string{"debug", "info", "warn", "error"}

// New returns a logfmt logger writing to w that drops messages below lvl.
func New(w io.Writer, lvl string) (log.Logger, error) {
	filter, err := levelFilter(lvl)
	if err != nil {
		return nil, err
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, filter)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.Caller(3)), nil
}

func levelFilter(l string) (level.Option, error) {
	switch l {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("unrecognized log level %q", l)
	}
}
