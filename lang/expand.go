package lang

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// sink is a writer that remembers its first error.
type sink struct {
	w   io.Writer
	err error
}

func (s *sink) write(text string) {
	if s.err != nil || text == "" {
		return
	}

	_, s.err = io.WriteString(s.w, text)
}

// Expand writes lines to w with every directive and variable reference
// substituted. Lines are expected to keep their trailing newlines.
func (c *Config) Expand(ctx context.Context, lines []string, w io.Writer) error {
	out := &sink{w: w}

	if err := c.expand(ctx, lines, out); err != nil {
		return err
	}

	return out.err
}

// ExpandString expands a single piece of text.
func (c *Config) ExpandString(ctx context.Context, text string) (string, error) {
	var b strings.Builder

	err := c.Expand(ctx, SplitLines(text), &b)

	return b.String(), err
}

// expandText expands text that is not split into lines, such as a
// directive argument.
func (c *Config) expandText(ctx context.Context, text string) (string, error) {
	var b strings.Builder

	err := c.expand(ctx, []string{text}, &sink{w: &b})

	return b.String(), err
}

func (c *Config) expand(ctx context.Context, lines []string, out *sink) error {
	c.depth++
	defer func() { c.depth-- }()

	if c.depth > c.maxDepth {
		return ErrMaxDepthExceeded.With(slog.Int("max_depth", c.maxDepth))
	}

	at := cursor{}

	for at.line < len(lines) {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		if out.err != nil {
			return out.err
		}

		text := lines[at.line][at.col:]

		i := strings.Index(text, sentinel)
		if i < 0 {
			out.write(text)
			at = cursor{line: at.line + 1}

			continue
		}

		out.write(text[:i])

		pos := at.col + i
		at.col = pos + len(sentinel)

		next, err := c.directive(ctx, lines, at, pos, out)
		if err != nil {
			return err
		}

		at = next
	}

	return nil
}

// directive handles the text after a sentinel found at column pos and
// returns the cursor where expansion resumes.
func (c *Config) directive(
	ctx context.Context,
	lines []string,
	at cursor,
	pos int,
	out *sink,
) (cursor, error) {
	line := lines[at.line]

	d, kw, ok := parseCall(line[at.col:])
	if !ok {
		if kw != "" {
			return at, ErrMalformedDirective.With(
				slog.String("directive", kw),
				slog.String("text", strings.TrimRight(line[pos:], "\n")),
			)
		}

		return c.reference(lines, at, out), nil
	}

	at.col += d.size

	if d.wholeLine && pos == 0 && strings.TrimSpace(line[at.col:]) == "" {
		at = cursor{line: at.line + 1}
	}

	c.logger.TraceContext(ctx, "directive",
		slog.String("kind", d.kind.String()),
		slog.Any("args", d.args),
		slog.Int("line", at.line),
	)

	switch d.kind {
	case Loop:
		return c.loop(ctx, lines, at, d.args[0], out)

	case If, IfEqual, IfCalc:
		return c.conditional(ctx, lines, at, d, out)

	case IfInline:
		return at, c.inline(ctx, d.args, out)

	case Include:
		return at, c.include(ctx, d.args[0], out)

	case Translate:
		if v, ok := c.vars.Lookup(d.args[0]); ok {
			if s, ok := translate(v, d.args[1], d.args[2]); ok {
				out.write(s)
			}
		}

		return at, nil

	case Count:
		out.write(strconv.Itoa(c.instances.Count(d.args[0])))

		return at, nil

	case Calc:
		return at, c.calc(ctx, d.args[0], out)

	case Assign:
		if err := c.assignExpr(ctx, d.args[0]); err != nil {
			return at, err
		}

		if at.col < len(line) && line[at.col] == '\n' {
			at.col++
		}

		return at, nil

	case Up:
		s := c.vars.valueOr(d.args[0])
		if i := strings.LastIndex(s, "/"); i >= 0 {
			out.write(s[:i])
		}

		return at, nil

	case Root:
		s := c.vars.valueOr(d.args[0])
		if i := strings.Index(s, "."); i >= 0 {
			s = s[:i]
		}

		out.write(s)

		return at, nil

	case Substr, Tail:
		return at, c.substr(ctx, d.args, out)

	case Name:
		return at, c.name(d.args[0], out)
	}

	return at, ErrMalformedDirective.With(slog.String("directive", kw))
}

// reference emits the value of a variable reference after a sentinel.
func (c *Config) reference(lines []string, at cursor, out *sink) cursor {
	name, n, ok := parseReference(lines[at.line][at.col:])
	if !ok {
		c.logger.Warn("missing variable name",
			slog.String("text", strings.TrimRight(lines[at.line][at.col:], "\n")))

		return at
	}

	if v, ok := c.vars.Lookup(name); ok {
		out.write(v)
	}

	at.col += n

	return at
}

// iterations returns the number of passes of a loop over name and the
// variable overlay of each pass: the instances of a declared type, or count
// synthetic instances holding only INDEX when name is a number or a variable
// holding one. Synthetic overlays are built as the loop reaches them.
func (c *Config) iterations(name string) (int, iter.Seq[Vars]) {
	if list, ok := c.instances[name]; ok && (name[0] < '0' || name[0] > '9') {
		return len(list), func(yield func(Vars) bool) {
			for _, inst := range list {
				if !yield(inst.Fields) {
					return
				}
			}
		}
	}

	count := name
	if name[0] < '0' || name[0] > '9' {
		count = strings.TrimSpace(c.vars[name])
	}

	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return 0, func(func(Vars) bool) {}
	}

	return n, func(yield func(Vars) bool) {
		for i := range n {
			if !yield(Vars{indexKey: strconv.Itoa(i)}) {
				return
			}
		}
	}
}

func (c *Config) loop(
	ctx context.Context,
	lines []string,
	at cursor,
	name string,
	out *sink,
) (cursor, error) {
	if name == "" {
		return at, ErrMalformedDirective.With(slog.String("directive", "LOOP"))
	}

	closer := literal(sentinel + "ENDLOOP(" + name + ")")

	body, next, ok := scanRegion(lines, at,
		closer, literal(sentinel+"LOOP("+name+")"), closer)
	if !ok {
		return at, ErrUnmatchedCloser.With(
			slog.String("directive", "LOOP("+name+")"),
			slog.String("closer", sentinel+"ENDLOOP("+name+")"),
		)
	}

	count, items := c.iterations(name)

	c.logger.DebugContext(ctx, "loop",
		slog.String("name", name),
		slog.Int("iterations", count),
	)

	outer := c.vars
	touched := map[string]struct{}{}

	c.assigns = append(c.assigns, map[string]struct{}{})

	defer func() {
		c.assigns = c.assigns[:len(c.assigns)-1]
		// Names assigned anywhere in the loop stay visible to enclosing
		// loops, which fold them into their own scope in turn.
		maps.Copy(c.assigns[len(c.assigns)-1], touched)
		c.vars = outer
	}()

	for item := range items {
		c.vars = renameIndex(outer.Clone())
		maps.Copy(c.vars, item)

		err := c.expand(ctx, body, out)

		top := c.assigns[len(c.assigns)-1]
		for name := range top {
			outer[name] = c.vars[name]
			touched[name] = struct{}{}
		}

		clear(top)

		if err != nil {
			return at, err
		}
	}

	return next, nil
}

func (c *Config) conditional(
	ctx context.Context,
	lines []string,
	at cursor,
	d call,
	out *sink,
) (cursor, error) {
	name := d.args[0]
	opener := ifOpener(name)

	var truth bool

	switch d.kind {
	case IfCalc:
		name, opener = "CALC", calcOpener

		expr, err := c.expandText(ctx, d.args[0])
		if err != nil {
			return at, err
		}

		v, err := Eval(expr, c.vars.Lookup)
		if err != nil {
			c.logger.DebugContext(ctx, "condition is false",
				slog.Any("error", err))
		}

		truth = err == nil && v != 0

	case IfEqual:
		truth = c.vars[name] == d.args[1]

	default:
		truth = c.vars[name] != ""
	}

	closer := literal(sentinel + "ENDIF(" + name + ")")

	body, next, ok := scanRegion(lines, at, closer, opener, closer)
	if !ok {
		return at, ErrUnmatchedCloser.With(
			slog.String("directive", d.kind.String()+"("+name+")"),
			slog.String("closer", sentinel+"ENDIF("+name+")"),
		)
	}

	then, elseAt, hasElse := scanRegion(body, cursor{},
		literal(sentinel+"ELSE("+name+")"), opener, closer)

	switch {
	case truth && hasElse:
		return next, c.expand(ctx, then, out)

	case truth:
		return next, c.expand(ctx, body, out)

	case hasElse && elseAt.line < len(body):
		rest := slices.Clone(body[elseAt.line:])
		rest[0] = rest[0][elseAt.col:]

		return next, c.expand(ctx, rest, out)
	}

	return next, nil
}

func (c *Config) inline(ctx context.Context, args []string, out *sink) error {
	name := args[0]

	if strings.Contains(name, sentinel) {
		var err error
		if name, err = c.expandText(ctx, name); err != nil {
			return err
		}
	}

	branch := args[2]
	if c.vars[name] != "" {
		branch = args[1]
	}

	return c.expand(ctx, []string{branch}, out)
}

func (c *Config) include(ctx context.Context, arg string, out *sink) error {
	name, err := c.expandText(ctx, c.vars.valueOr(arg))
	if err != nil {
		return err
	}

	name = strings.TrimSpace(name)

	doc, err := c.opener.Open(ctx, name)
	if err != nil {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		if c.deferred {
			out.write(sentinel + "INCLUDE(" + arg + ")\n")

			return nil
		}

		c.logger.WarnContext(ctx, "cannot open file",
			slog.String("file", name),
			slog.Any("error", err),
		)

		return nil
	}

	c.logger.DebugContext(ctx, "include",
		slog.String("file", name),
		slog.Int("lines", len(doc)),
	)

	return c.expand(ctx, doc, out)
}

func (c *Config) calc(ctx context.Context, arg string, out *sink) error {
	parts := strings.Split(arg, ",")
	if strings.Contains(parts[0], "(") {
		parts = []string{arg}
	}

	format := "%d"
	if len(parts) > 1 {
		format = parts[1]
	}

	expr, err := c.expandText(ctx, parts[0])
	if err != nil {
		return err
	}

	v, err := Eval(expr, c.vars.Lookup)
	if err != nil {
		c.logger.DebugContext(ctx, "calculation defaults to 0",
			slog.Any("error", err))

		v = 0
	}

	s, err := formatValue(format, v)
	if err != nil {
		return err
	}

	out.write(s)

	return nil
}

func (c *Config) assignExpr(ctx context.Context, arg string) error {
	name, expr, ok := strings.Cut(arg, ",")
	if !ok {
		return ErrMalformedDirective.With(
			slog.String("directive", "ASSIGN"),
			slog.String("args", arg),
		)
	}

	// Only the text up to a second comma is the expression.
	expr, _, _ = strings.Cut(expr, ",")

	expr, err := c.expandText(ctx, expr)
	if err != nil {
		return err
	}

	v, err := Eval(expr, c.vars.Lookup)
	if err != nil {
		return WrapError(err).With(slog.String("assign", name))
	}

	c.assign(name, strconv.FormatInt(v, 10))

	return nil
}

func (c *Config) substr(ctx context.Context, args []string, out *sink) error {
	value, err := c.expandText(ctx, args[0])
	if err != nil {
		return err
	}

	bound := func(arg string) (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(c.vars.valueOr(arg)))
		if err != nil {
			return 0, ErrMalformedDirective.Wrap(err).With(
				slog.String("directive", "SUBSTR"),
				slog.String("bound", arg),
			)
		}

		return n, nil
	}

	runes := []rune(value)

	start, err := bound(args[1])
	if err != nil {
		return err
	}

	end := len(runes)
	if len(args) > 2 {
		if end, err = bound(args[2]); err != nil {
			return err
		}
	}

	lo, hi := sliceBounds(len(runes), start, end)
	out.write(string(runes[lo:hi]))

	return nil
}

// sliceBounds resolves start and end against a sequence of length n the way
// slice expressions with negative indices do in scripting languages:
// negative values count from the end and out-of-range values are clamped.
func sliceBounds(n, start, end int) (int, int) {
	clamp := func(i int) int {
		switch {
		case i < 0:
			return max(i+n, 0)
		case i > n:
			return n
		}

		return i
	}

	lo, hi := clamp(start), clamp(end)

	return min(lo, hi), hi
}

func (c *Config) name(arg string, out *sink) error {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return ErrMalformedDirective.With(
			slog.String("directive", "NAME"),
			slog.String("args", arg),
			slog.String("issue", "want two arguments"),
		)
	}

	alias := c.vars.valueOr(parts[0])
	typeKey, ordinalKey := aliasKeys(alias)

	typ, okType := c.vars[typeKey]
	ordinal, okIndex := c.vars[ordinalKey]

	if !okType || !okIndex {
		return ErrUnknownAlias.With(
			slog.String("alias", alias),
			slog.String("args", arg),
		)
	}

	if v, ok := c.vars[typ+parts[1]+ordinal]; ok {
		out.write(v)
	}

	return nil
}
