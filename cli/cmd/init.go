package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/expand/lang"
	"github.com/ardnew/expand/log"
	"github.com/ardnew/expand/pkg"
	"github.com/ardnew/expand/profile"
)

// Init writes the current flag values to the settings file.
type Init struct {
	Force bool `help:"Overwrite existing settings file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	path, ok := ktx.Model.Vars()[SettingsIdentifier]
	if !ok {
		panic("internal error: settings path undefined")
	}

	_, err = os.Stat(path)
	if err == nil && !i.Force {
		return ErrWriteSettings.
			With(slog.String("file", path), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(path)
	if err != nil {
		return ErrWriteSettings.With(slog.String("file", path)).Wrap(err)
	}
	defer file.Close()

	if err := i.write(ktx, file); err != nil {
		return ErrWriteSettings.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized settings file", slog.String("path", path))

	return nil
}

// write emits one assignment per global flag that has a value. Flag names
// use underscores so that each line is also a valid variable assignment.
func (i *Init) write(ktx *kong.Context, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# %s settings\n", pkg.Name); err != nil {
		return err
	}

	ignore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		value, ok := flagValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		name := strings.ReplaceAll(flag.Name, "-", "_")
		if _, err := fmt.Fprintln(w, lang.FormatAssignment(name, value)); err != nil {
			return err
		}
	}

	return nil
}

// flagValue renders a flag value the way kong parses it back, or reports
// false for values that carry nothing.
func flagValue(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false

	case string:
		return v, v != ""

	case []string:
		return strings.Join(v, ","), len(v) > 0

	case fmt.Stringer:
		return v.String(), true

	default:
		return fmt.Sprint(v), true
	}
}
