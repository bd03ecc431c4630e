package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/expand/log"
)

func Example() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelInfo))
	logger.Warn("skipping unknown line", slog.String("line", "garbage"))
	// Output: level=WARN msg="skipping unknown line" line=garbage
}

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelError))

	logger.Warn("suppressed")
	logger.Error("cannot open file", slog.String("file", "missing.cfg"))
	// Output: level=ERROR msg="cannot open file" file=missing.cfg
}
