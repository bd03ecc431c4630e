package lang

import (
	"maps"
	"os"
	"strings"

	"github.com/ardnew/expand/log"
)

// DefaultMaxDepth is the default limit on nested expansions. Every
// directive body, argument and included document adds one level.
const DefaultMaxDepth = 256

// Config is a configuration namespace: the variable, instance and alias
// tables plus the state of an expansion in progress.
//
// A Config is not safe for concurrent use.
type Config struct {
	// base holds the variables every load starts from.
	base      Vars
	vars      Vars
	instances Instances
	names     Names
	// derived holds variables the configuration loader synthesized rather
	// than read from an assignment.
	derived map[string]struct{}
	// assigns holds one set of ASSIGN-ed names per active loop level.
	assigns []map[string]struct{}

	opener   Opener
	logger   log.Logger
	maxDepth int
	workDir  string

	depth    int
	deferred bool
}

// Option configures a [Config].
type Option func(*Config)

// WithLogger sets the logger receiving diagnostics.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithOpener sets how INCLUDE targets and configuration documents are
// located. The default is [NewFiles] over [SearchPath].
func WithOpener(opener Opener) Option {
	return func(c *Config) {
		c.opener = opener
	}
}

// WithMaxDepth sets the maximum nesting of expansions.
func WithMaxDepth(depth int) Option {
	return func(c *Config) {
		c.maxDepth = depth
	}
}

// WithWorkingDir sets the directory published as PATH and DIRNAME.
// The default is the process working directory.
func WithWorkingDir(dir string) Option {
	return func(c *Config) {
		c.workDir = dir
	}
}

// WithVars seeds the variable table. Entries override PATH and DIRNAME.
func WithVars(vars Vars) Option {
	return func(c *Config) {
		maps.Copy(c.vars, vars)
	}
}

// New returns a Config whose variable table holds only PATH, DIRNAME and
// any [WithVars] entries. Use [Config.ReadConfig] to load a configuration
// document.
func New(opts ...Option) *Config {
	c := &Config{
		vars:      Vars{},
		instances: Instances{},
		names:     Names{},
		derived:   map[string]struct{}{},
		assigns:   []map[string]struct{}{{}},
		maxDepth:  DefaultMaxDepth,
	}

	if wd, err := os.Getwd(); err == nil {
		c.workDir = wd
	}

	// Options may replace the working directory, which WithVars entries
	// must still override.
	seed := Vars{}
	c.vars = seed

	for _, opt := range opts {
		opt(c)
	}

	c.vars = c.baseVars()
	for name := range c.vars {
		if _, ok := seed[name]; !ok {
			c.derived[name] = struct{}{}
		}
	}

	maps.Copy(c.vars, seed)
	c.base = c.vars.Clone()

	if c.opener == nil {
		c.opener = NewFiles(SearchPath()...)
	}

	return c
}

// baseVars returns the variables every table starts from.
func (c *Config) baseVars() Vars {
	return Vars{
		"PATH":    c.workDir,
		"DIRNAME": c.workDir[strings.LastIndex(c.workDir, "/")+1:],
	}
}

// Vars returns a copy of the variable table.
func (c *Config) Vars() Vars { return c.vars.Clone() }

// Lookup returns the value of a variable.
func (c *Config) Lookup(name string) (string, bool) { return c.vars.Lookup(name) }

// Set defines a variable.
func (c *Config) Set(name, value string) { c.vars[name] = value }

// Instances returns the instance table. It must not be modified.
func (c *Config) Instances() Instances { return c.instances }

// Names returns the alias table. It must not be modified.
func (c *Config) Names() Names { return c.names }

// Derived reports whether name was synthesized by the configuration loader
// (PATH, DIRNAME, per-instance fields and alias keys) rather than assigned.
func (c *Config) Derived(name string) bool {
	_, ok := c.derived[name]

	return ok
}

// Logger returns the logger receiving diagnostics.
func (c *Config) Logger() log.Logger { return c.logger }

// assign defines name and records it in the innermost loop's set so the
// value survives the end of the iteration.
func (c *Config) assign(name, value string) {
	c.vars[name] = value
	c.assigns[len(c.assigns)-1][name] = struct{}{}
}
