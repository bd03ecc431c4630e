package lang

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// resolvePasses limits the preliminary passes that resolve INCLUDE targets
// depending on variables defined by the configuration itself.
const resolvePasses = 5

// Assignment forms, tried in order.
var assignForms = []*regexp.Regexp{
	regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_]*)[ \t]*=[ \t]*'([^']*)'[ \t]*$`),
	regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_]*)[ \t]*=[ \t]*"([^"]*)"[ \t]*$`),
	regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_]*)[ \t]*=[ \t]*(.*?)[ \t]*$`),
	regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_]*)[ \t]+'([^']*)'[ \t]*$`),
	regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_]*)[ \t]+"([^"]*)"[ \t]*$`),
	regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_]*)[ \t]+(.+?)[ \t]*$`),
}

var (
	instRe    = regexp.MustCompile(`^[ \t]*(([A-Za-z_][A-Za-z0-9_]*):[ \t]*)?([A-Za-z_][A-Za-z0-9_]*)\((.*)\)[ \t]*$`)
	declRe    = regexp.MustCompile(`^[ \t]*INSTANCE[ \t]+([A-Za-z_][A-Za-z0-9_]*)[ \t]*([A-Za-z0-9_]*)[ \t]*$`)
	includeRe = regexp.MustCompile(`^\$\$INCLUDE\((.*)\)`)

	tokAssignRe = regexp.MustCompile(`^[ \t]*=`)
	tokSingleRe = regexp.MustCompile(`^[ \t]*'([^']*)'`)
	tokDoubleRe = regexp.MustCompile(`^[ \t]*"([^"]*)"`)
	tokWordRe   = regexp.MustCompile(`^[ \t]*([^ \t=]+)`)

	paramForms = []*regexp.Regexp{
		regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_]*)='([^']*)',`),
		regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_]*)="([^"]*)",`),
		regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_]*)=([^,]*),`),
	}
	paramRefRe = regexp.MustCompile(`^[ \t]*([A-Za-z_][A-Za-z0-9_]*),`)
	ordinalRe  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*?)([0-9_]+)$`)
)

// ParseAssignment parses a one-line assignment in any of the forms
// NAME='v', NAME="v", NAME=v, NAME 'v', NAME "v" and NAME v.
func ParseAssignment(line string) (name, value string, ok bool) {
	line = strings.TrimSpace(line)

	for _, re := range assignForms {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], m[2], true
		}
	}

	return "", "", false
}

// isComment reports whether a trimmed configuration line carries nothing.
func isComment(line string) bool {
	return line == "" || line[0] == '#'
}

// ReadConfig loads the named configuration document, with prelude lines
// placed before it, and replaces the variable, instance and alias tables.
//
// Loading takes two passes. The first repeatedly expands the document,
// leaving unresolvable INCLUDE directives in place, and collects only
// one-line assignments so that include targets named by variables resolve.
// The second expands the document with those variables and builds the
// final tables, including instance declarations.
func (c *Config) ReadConfig(ctx context.Context, name string, prelude []string) error {
	doc, err := c.opener.Open(ctx, name)
	if err != nil {
		return ErrConfigNotFound.Wrap(err).With(slog.String("file", name))
	}

	lines := make([]string, 0, len(prelude)+len(doc))
	for _, line := range prelude {
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}

		lines = append(lines, line)
	}

	lines = append(lines, doc...)

	c.instances = Instances{}
	c.names = Names{}
	c.assigns = []map[string]struct{}{{}}

	if err := c.resolve(ctx, lines); err != nil {
		return err
	}

	return c.declare(ctx, lines)
}

// resolve runs the preliminary passes, leaving their variables in c.vars.
func (c *Config) resolve(ctx context.Context, lines []string) error {
	c.vars = c.base.Clone()

	c.deferred = true
	defer func() { c.deferred = false }()

	for pass := 1; pass <= resolvePasses; pass++ {
		text, err := c.expandLines(ctx, lines)
		if err != nil {
			return err
		}

		p := &prescan{c: c, vars: c.base.Clone()}
		if _, err := p.scan(ctx, strings.Split(text, "\n")); err != nil {
			return err
		}

		c.vars = p.vars

		c.logger.DebugContext(ctx, "resolve pass",
			slog.Int("pass", pass),
			slog.Int("vars", len(p.vars)),
			slog.Any("failed", p.failed),
		)

		if len(p.failed) == 0 {
			break
		}
	}

	return nil
}

func (c *Config) expandLines(ctx context.Context, lines []string) (string, error) {
	var b strings.Builder

	if err := c.Expand(ctx, lines, &b); err != nil {
		return "", err
	}

	return b.String(), nil
}

// prescan collects the assignments of a preliminary pass.
type prescan struct {
	c      *Config
	vars   Vars
	failed []string
	depth  int
}

// scan processes lines and reports whether the pass continues past them.
func (p *prescan) scan(ctx context.Context, lines []string) (bool, error) {
	for _, line := range lines {
		more, err := p.line(ctx, strings.TrimSpace(line))
		if err != nil || !more {
			return false, err
		}
	}

	return true, nil
}

func (p *prescan) line(ctx context.Context, line string) (bool, error) {
	switch {
	case instRe.MatchString(line):
		return true, nil

	case declRe.MatchString(line):
		return false, nil
	}

	if name, value, ok := ParseAssignment(line); ok {
		p.vars[name] = value

		return true, nil
	}

	if m := includeRe.FindStringSubmatch(line); m != nil {
		return p.include(ctx, m[1])
	}

	if !isComment(line) {
		p.c.logger.DebugContext(ctx, "skipping unknown line",
			slog.String("line", line))
	}

	return true, nil
}

func (p *prescan) include(ctx context.Context, arg string) (bool, error) {
	name := strings.TrimSpace(p.vars.valueOr(arg))

	doc, err := p.c.opener.Open(ctx, name)
	if err != nil {
		p.failed = append(p.failed, name)

		return false, nil
	}

	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.c.maxDepth {
		return false, ErrMaxDepthExceeded.With(
			slog.Int("max_depth", p.c.maxDepth),
			slog.String("file", name),
		)
	}

	return p.scan(ctx, doc)
}

// declare runs the final pass, replacing the tables.
func (c *Config) declare(ctx context.Context, lines []string) error {
	text, err := c.expandLines(ctx, lines)
	if err != nil {
		return err
	}

	d := &declParser{
		c:         c,
		vars:      c.base.Clone(),
		instances: Instances{},
		names:     Names{},
		derived:   map[string]struct{}{},
	}

	for name := range c.base {
		if c.Derived(name) {
			d.derived[name] = struct{}{}
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if err := ctx.Err(); err != nil {
			return context.Cause(ctx)
		}

		d.line(ctx, strings.TrimSpace(line))
	}

	d.finish()

	for alias, ref := range d.names {
		typeKey, ordinalKey := aliasKeys(alias)
		d.vars[typeKey] = ref.Type
		d.vars[ordinalKey] = strconv.Itoa(ref.Ordinal)
		d.derived[typeKey] = struct{}{}
		d.derived[ordinalKey] = struct{}{}
	}

	c.vars = d.vars
	c.instances = d.instances
	c.names = d.names
	c.derived = d.derived
	c.assigns = []map[string]struct{}{{}}

	c.logger.DebugContext(ctx, "configuration loaded",
		slog.Int("vars", len(c.vars)),
		slog.Int("types", len(c.instances)),
		slog.Int("aliases", len(c.names)),
	)

	return nil
}

// declParser builds the tables of the final pass.
type declParser struct {
	c         *Config
	vars      Vars
	instances Instances
	names     Names
	derived   map[string]struct{}

	// newStyle is set by the first INSTANCE line and stays set.
	newStyle bool
	// open is the new-style instance receiving parameter lines.
	open *Instance
	seq  int
}

func (d *declParser) line(ctx context.Context, line string) {
	if m := declRe.FindStringSubmatch(line); m != nil {
		d.newStyle = true
		d.finish()
		d.open = d.create(m[1], m[2])

		return
	}

	if d.newStyle {
		if !isComment(line) && d.open != nil {
			d.params(ctx, line)
		}

		return
	}

	if m := instRe.FindStringSubmatch(line); m != nil {
		inst := d.create(m[3], m[2])
		d.oldParams(ctx, inst, m[4])
		d.append(inst)

		return
	}

	if name, value, ok := ParseAssignment(line); ok {
		d.vars[name] = value
		delete(d.derived, name)

		return
	}

	if !isComment(line) {
		d.c.logger.WarnContext(ctx, "skipping unknown line",
			slog.String("line", line))
	}
}

// create starts an instance of typ. Its ordinal counts only the instances
// already finished.
func (d *declParser) create(typ, alias string) *Instance {
	inst := newInstance(typ, alias, len(d.instances[typ]), d.seq)
	d.seq++

	if alias != "" {
		d.names[alias] = Ref{Type: typ, Ordinal: inst.Ordinal}
	}

	return inst
}

func (d *declParser) append(inst *Instance) {
	d.instances[inst.Type] = append(d.instances[inst.Type], inst)
}

// finish appends the open new-style instance, if any.
func (d *declParser) finish() {
	if d.open != nil {
		d.append(d.open)
		d.open = nil
	}
}

// set records a parameter of inst and mirrors it in the flat table.
func (d *declParser) set(inst *Instance, key, value string) {
	inst.setParam(key, value)

	flat := inst.flatKey(key)
	d.vars[flat] = value
	d.derived[flat] = struct{}{}
}

// lookupRef resolves an alias or a TypeN shorthand to a finished instance.
func (d *declParser) lookupRef(name string) (*Instance, bool) {
	if ref, ok := d.names[name]; ok {
		return d.instances.Get(ref.Type, ref.Ordinal)
	}

	m := ordinalRe.FindStringSubmatch(name)
	if m == nil {
		return nil, false
	}

	n, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, false
	}

	return d.instances.Get(m[1], n)
}

// params parses a new-style parameter line: words and quoted values paired
// as key and value, with optional "=" between them. A key that names an
// instance copies that instance's fields instead.
func (d *declParser) params(ctx context.Context, line string) {
	var (
		key    string
		hasKey bool
		haveEq bool
	)

	for loc := 0; loc < len(line); {
		rest := line[loc:]

		if m := tokAssignRe.FindStringIndex(rest); m != nil {
			loc += m[1]

			if haveEq {
				d.c.logger.WarnContext(ctx, "double equal sign",
					slog.String("line", line))
			}

			haveEq = true

			continue
		}

		var m []int

		switch {
		case tokSingleRe.MatchString(rest):
			m = tokSingleRe.FindStringSubmatchIndex(rest)
			loc += m[1]

		case tokDoubleRe.MatchString(rest):
			m = tokDoubleRe.FindStringSubmatchIndex(rest)
			loc += m[1] + 1

		case tokWordRe.MatchString(rest):
			m = tokWordRe.FindStringSubmatchIndex(rest)
			loc += m[1] + 1

		default:
			return
		}

		loc = min(loc, len(line))
		value := rest[m[2]:m[3]]

		if hasKey {
			d.set(d.open, key, value)
			hasKey = false

			continue
		}

		if ref, ok := d.lookupRef(value); ok {
			d.open.copyFrom(ref)

			continue
		}

		key, hasKey, haveEq = value, true, false
	}
}

// oldParams parses the comma-separated parameter list of an old-style
// instance line into inst. An unrecognized parameter abandons the rest of
// the list.
func (d *declParser) oldParams(ctx context.Context, inst *Instance, list string) {
	if strings.TrimSpace(list) == "" {
		return
	}

	params := list + ","

next:
	for strings.TrimSpace(params) != "" {
		for _, re := range paramForms {
			if m := re.FindStringSubmatch(params); m != nil {
				d.set(inst, m[1], m[2])
				params = params[len(m[0]):]

				continue next
			}
		}

		if m := paramRefRe.FindStringSubmatch(params); m != nil {
			if ref, ok := d.lookupRef(m[1]); ok {
				inst.copyFrom(ref)
				params = params[len(m[0]):]

				continue
			}
		}

		d.c.logger.WarnContext(ctx, "unknown instance parameter",
			slog.String("type", inst.Type),
			slog.String("params", strings.TrimSuffix(params, ",")),
		)

		return
	}
}
