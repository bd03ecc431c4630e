package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/expand/lang"
)

// Dump prints the resolved variable, instance and alias tables.
type Dump struct {
	Format string `default:"native" enum:"native,json,yaml,toml" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                                   help:"Indent width; 0 selects compact output." short:"i"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := sessionFrom(ctx)

	cfg, err := s.Load(ctx)
	if err != nil {
		return err
	}

	return d.write(ctx, cfg, outputWriter{w: s.stdout(), name: stdio})
}

func (d *Dump) write(ctx context.Context, cfg *lang.Config, w io.Writer) error {
	var format func(context.Context, io.Writer, int) error

	switch d.Format {
	case "", "native":
		format = cfg.Format

	case "json":
		format = cfg.FormatJSON

	case "yaml":
		format = cfg.FormatYAML

	case "toml":
		format = cfg.FormatTOML

	default:
		return ErrUnknownFormat.With(slog.String("format", d.Format))
	}

	return format(ctx, w, d.Indent)
}
