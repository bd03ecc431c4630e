package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/expand/lang"
)

// stdio names standard input or output on the command line.
const stdio = "-"

// Run expands a template against the configuration.
type Run struct {
	Template   string   `arg:"" help:"Template file, searched like INCLUDE targets, or '-' for stdin."`
	Output     string   `arg:"" help:"Output file, created or truncated, or '-' for stdout."`
	Statements []string `arg:"" help:"Assignments read before the configuration." optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := sessionFrom(ctx)

	cfg, err := s.Load(ctx, r.Statements...)
	if err != nil {
		return err
	}

	lines, err := s.Opener.Open(ctx, r.Template)
	if err != nil {
		return ErrOpenTemplate.Wrap(err).With(slog.String("file", r.Template))
	}

	out, done, err := r.create(s)
	if err != nil {
		return err
	}

	s.logger().DebugContext(ctx, "expanding template",
		slog.String("template", r.Template),
		slog.String("output", r.Output),
		slog.Int("lines", len(lines)),
	)

	err = cfg.Expand(ctx, lines, out)

	return joinClose(err, done())
}

// create opens the output and returns a writer and a function that flushes
// and closes it.
func (r *Run) create(s *Session) (io.Writer, func() error, error) {
	var (
		w      io.Writer = s.stdout()
		closer           = func() error { return nil }
	)

	if r.Output != stdio {
		file, err := os.Create(r.Output)
		if err != nil {
			return nil, nil, ErrWriteOutput.Wrap(err).With(slog.String("file", r.Output))
		}

		w, closer = file, file.Close
	}

	buf := bufio.NewWriter(outputWriter{w: w, name: r.Output})

	return buf, func() error {
		if err := buf.Flush(); err != nil {
			_ = closer()

			return err
		}

		if err := closer(); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("file", r.Output))
		}

		return nil
	}, nil
}

// joinClose returns the first non-nil error.
func joinClose(err, closeErr error) error {
	if err != nil {
		return err
	}

	return closeErr
}

// Get prints the expansion of a single name.
type Get struct {
	Name string `arg:"" help:"Variable name or directive, without the leading $$."`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := sessionFrom(ctx)

	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}

	return cfg.Expand(ctx, lang.SplitLines("$$"+g.Name+"\n"),
		outputWriter{w: s.stdout(), name: stdio})
}
