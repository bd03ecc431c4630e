package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/expand/lang"
	"github.com/ardnew/expand/log"
)

// DefaultConfig is the configuration document loaded when --config is not
// given.
const DefaultConfig = "config"

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Session describes how commands locate and load the configuration
// document.
type Session struct {
	// Config names the configuration document.
	Config string
	// Opener locates the configuration, its includes and templates.
	Opener lang.Opener
	// Logger receives engine diagnostics. The zero value uses the process
	// default logger at load time.
	Logger *log.Logger
	// Stdout receives command output.
	Stdout io.Writer
	// Options are passed to every [lang.New].
	Options []lang.Option
}

// NewSession returns a Session loading config from the file system, trying
// dirs before EXPAND_PATH and the parent directory.
func NewSession(config string, dirs []string) *Session {
	return &Session{
		Config: config,
		Opener: lang.NewFiles(lang.SearchPath(dirs...)...),
		Stdout: os.Stdout,
	}
}

type sessionKey struct{}

// WithSession returns a new context.Context containing s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// sessionFrom returns the Session stored by [WithSession], or one for the
// default configuration.
func sessionFrom(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey{}).(*Session); ok && s != nil {
		return s
	}

	return NewSession(DefaultConfig, nil)
}

func (s *Session) logger() log.Logger {
	if s.Logger != nil {
		return *s.Logger
	}

	return log.Default()
}

func (s *Session) stdout() io.Writer {
	if s.Stdout != nil {
		return s.Stdout
	}

	return os.Stdout
}

// Prelude returns the lines placed before the configuration document:
// CONFIG set to the configuration's base name without a ".cfg" extension
// (empty for the default configuration), then statements.
func (s *Session) Prelude(statements ...string) []string {
	name := ""
	if s.Config != DefaultConfig {
		name = strings.TrimSuffix(filepath.Base(s.Config), ".cfg")
	}

	return append([]string{"CONFIG=" + name}, statements...)
}

// Load reads the configuration document with the prelude for statements.
func (s *Session) Load(ctx context.Context, statements ...string) (*lang.Config, error) {
	return s.load(ctx, s.Config, statements)
}

// Reload drops cached file content and loads the configuration again.
func (s *Session) Reload(ctx context.Context, statements ...string) (*lang.Config, error) {
	s.purge()

	return s.load(ctx, s.Config, statements)
}

// LoadDocument drops cached file content and loads the named document in
// place of the configuration. The prelude still names the configuration.
func (s *Session) LoadDocument(
	ctx context.Context,
	name string,
	statements ...string,
) (*lang.Config, error) {
	s.purge()

	return s.load(ctx, name, statements)
}

func (s *Session) purge() {
	if p, ok := s.Opener.(interface{ Purge() }); ok {
		p.Purge()
	}
}

func (s *Session) load(ctx context.Context, name string, statements []string) (*lang.Config, error) {
	opts := append([]lang.Option{
		lang.WithLogger(s.logger()),
		lang.WithOpener(s.Opener),
	}, s.Options...)

	cfg := lang.New(opts...)

	if err := cfg.ReadConfig(ctx, name, s.Prelude(statements...)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// outputWriter tags write failures with the destination name.
type outputWriter struct {
	w    io.Writer
	name string
}

func (o outputWriter) Write(p []byte) (int, error) {
	n, err := o.w.Write(p)
	if err != nil {
		return n, ErrWriteOutput.Wrap(err).With(slog.String("file", o.name))
	}

	return n, nil
}
