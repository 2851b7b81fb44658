// Package logging configures the slog logger used by the quadlab CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/san-kum/quadlab/internal/convergence"
)

// New returns a tint-backed logger writing to w.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

// ParseLevel accepts debug, info, warn and error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// RowObserver logs every convergence row at debug level.
func RowObserver(logger *slog.Logger) convergence.Observer {
	return convergence.ObserverFunc(func(rule string, row convergence.Row) {
		logger.Debug("row",
			"rule", rule,
			"n", row.N,
			"diff1", row.Diff1,
			"order", row.Order,
			"extrapolated", row.Extrapolated,
			"finite", row.Finite(),
		)
	})
}
