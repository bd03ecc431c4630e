package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/expand/lang"
	"github.com/ardnew/expand/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It writes the resolved tables as
// configuration text to a temporary file, opens the user's editor on it and
// loads the result. On a load error the user is prompted to re-edit;
// declining exits the program.
type editCommand struct {
	cfg     *lang.Config
	loader  Loader
	ctxFunc func() context.Context
	logger  log.Logger
	loaded  *lang.Config
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-load-retry loop. An emptied file cancels the edit
// and leaves loaded nil.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "expand-repl-*.cfg")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	err = c.cfg.Format(ctx, f, 0)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	for {
		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			return nil
		}

		cfg, loadErr := c.loader.LoadDocument(ctx, path)

		c.logger.TraceContext(ctx, "editor load attempt",
			slog.String("path", path),
			slog.Bool("success", loadErr == nil),
		)

		if loadErr == nil {
			c.loaded = cfg

			return nil
		}

		fmt.Fprintf(c.stderr, "\nLoad error: %s\n", loadErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR, or vi, on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
