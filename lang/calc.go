package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Lookup resolves a variable name to its value.
type Lookup func(name string) (string, bool)

// Eval evaluates an integer expression. Identifiers are resolved through
// lookup; undefined or non-numeric values count as 0.
//
// The grammar, loosest binding first:
//
//	cond   := or [ "if" or "else" cond ] | or [ "?" cond ":" cond ]
//	or     := xor { "|" xor }
//	xor    := and { "^" and }
//	and    := shift { "&" shift }
//	shift  := sum { ("<<" | ">>") sum }
//	sum    := term { ("+" | "-") term }
//	term   := unary { ("*" | "/" | "//" | "%") unary }
//	unary  := ("-" | "~") unary | power
//	power  := atom [ "**" unary ]
//	atom   := number | identifier | "(" cond ")"
//
// "/" truncates toward zero, "//" and "%" round toward negative infinity,
// and "~" is logical negation.
func Eval(expr string, lookup Lookup) (int64, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return 0, ErrEvaluate.Wrap(err).With(slog.String("expr", expr))
	}

	p := &calc{toks: toks, lookup: lookup}

	v, err := p.cond()
	if err == nil && p.peek().kind != tokEOF {
		err = fmt.Errorf("unexpected %s", p.peek())
	}

	if err != nil {
		return 0, ErrEvaluate.Wrap(err).With(slog.String("expr", expr))
	}

	return v, nil
}

// parseValue converts a variable value to an integer. A "0x" prefix selects
// base 16 and any other leading zero selects base 8.
func parseValue(s string) (int64, bool) {
	var (
		v   int64
		err error
	)

	switch {
	case strings.HasPrefix(s, "0x"):
		v, err = strconv.ParseInt(strings.TrimSpace(s[2:]), 16, 64)

	case strings.HasPrefix(s, "0"):
		digits := strings.TrimSpace(s)
		if len(digits) > 1 && (digits[1] == 'o' || digits[1] == 'O') {
			digits = digits[2:]
		}

		v, err = strconv.ParseInt(digits, 8, 64)

	default:
		v, err = strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}

	return v, err == nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
)

type token struct {
	kind tokKind
	text string
	num  int64
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of expression"
	}

	return strconv.Quote(t.text)
}

var errDivideByZero = errors.New("division by zero")

// operators lists the operator tokens, longest first.
var operators = []string{
	"**", "//", "<<", ">>",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "(", ")", "?", ":",
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func tokenize(expr string) ([]token, error) {
	var toks []token

	for i := 0; i < len(expr); {
		b := expr[i]

		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			i++

		case b >= '0' && b <= '9':
			j := i
			for j < len(expr) && isIdentChar(expr[j]) {
				j++
			}

			n, err := parseLiteral(expr[i:j])
			if err != nil {
				return nil, err
			}

			toks = append(toks, token{kind: tokNum, text: expr[i:j], num: n})
			i = j

		case isIdentStart(b):
			j := i
			for j < len(expr) && isIdentChar(expr[j]) {
				j++
			}

			toks = append(toks, token{kind: tokIdent, text: expr[i:j]})
			i = j

		default:
			op := ""

			for _, o := range operators {
				if strings.HasPrefix(expr[i:], o) {
					op = o

					break
				}
			}

			if op == "" {
				return nil, fmt.Errorf("unexpected character %q", b)
			}

			toks = append(toks, token{kind: tokOp, text: op})
			i += len(op)
		}
	}

	return append(toks, token{kind: tokEOF}), nil
}

// parseLiteral parses an integer literal: decimal without leading zeros, or
// prefixed 0x, 0o or 0b, with optional underscores between digits.
func parseLiteral(s string) (int64, error) {
	if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' ||
		len(s) > 1 && s[0] == '0' && s[1] == '_' {
		if strings.Trim(s, "0_") == "" {
			return 0, nil
		}

		return 0, fmt.Errorf("invalid number %q", s)
	}

	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}

	return n, nil
}

// calc is a recursive-descent evaluator over a token slice.
type calc struct {
	toks   []token
	pos    int
	lookup Lookup
}

func (p *calc) peek() token { return p.toks[p.pos] }

func (p *calc) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}

	return t
}

// accept consumes the next token if it is an operator or keyword in ops.
func (p *calc) accept(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokOp && t.kind != tokIdent {
		return "", false
	}

	for _, op := range ops {
		if t.text == op {
			p.pos++

			return op, true
		}
	}

	return "", false
}

func (p *calc) expect(op string) error {
	if _, ok := p.accept(op); !ok {
		return fmt.Errorf("expected %q, found %s", op, p.peek())
	}

	return nil
}

func (p *calc) cond() (int64, error) {
	v, err := p.binary(0)
	if err != nil {
		return 0, err
	}

	if _, ok := p.accept("if"); ok {
		test, err := p.binary(0)
		if err != nil {
			return 0, err
		}

		if err := p.expect("else"); err != nil {
			return 0, err
		}

		alt, err := p.cond()
		if err != nil {
			return 0, err
		}

		if test != 0 {
			return v, nil
		}

		return alt, nil
	}

	if _, ok := p.accept("?"); ok {
		yes, err := p.cond()
		if err != nil {
			return 0, err
		}

		if err := p.expect(":"); err != nil {
			return 0, err
		}

		no, err := p.cond()
		if err != nil {
			return 0, err
		}

		if v != 0 {
			return yes, nil
		}

		return no, nil
	}

	return v, nil
}

// levels lists binary operators by precedence, loosest first.
var levels = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "//", "%"},
}

func (p *calc) binary(level int) (int64, error) {
	if level == len(levels) {
		return p.unary()
	}

	lhs, err := p.binary(level + 1)
	if err != nil {
		return 0, err
	}

	for {
		if p.peek().kind != tokOp {
			return lhs, nil
		}

		op, ok := p.accept(levels[level]...)
		if !ok {
			return lhs, nil
		}

		rhs, err := p.binary(level + 1)
		if err != nil {
			return 0, err
		}

		lhs, err = apply(op, lhs, rhs)
		if err != nil {
			return 0, err
		}
	}
}

func (p *calc) unary() (int64, error) {
	if p.peek().kind == tokOp {
		switch op, _ := p.accept("-", "~", "+"); op {
		case "-":
			v, err := p.unary()

			return -v, err

		case "~":
			v, err := p.unary()
			if v == 0 {
				return 1, err
			}

			return 0, err

		case "+":
			return 0, errors.New("unsupported unary operator \"+\"")
		}
	}

	return p.power()
}

func (p *calc) power() (int64, error) {
	base, err := p.atom()
	if err != nil {
		return 0, err
	}

	if _, ok := p.accept("**"); !ok {
		return base, nil
	}

	exp, err := p.unary()
	if err != nil {
		return 0, err
	}

	return pow(base, exp)
}

func (p *calc) atom() (int64, error) {
	t := p.next()

	switch t.kind {
	case tokNum:
		return t.num, nil

	case tokIdent:
		if t.text == "if" || t.text == "else" {
			return 0, fmt.Errorf("unexpected %s", t)
		}

		if p.lookup == nil {
			return 0, nil
		}

		s, ok := p.lookup(t.text)
		if !ok {
			return 0, nil
		}

		v, _ := parseValue(s)

		return v, nil

	case tokOp:
		if t.text == "(" {
			v, err := p.cond()
			if err != nil {
				return 0, err
			}

			return v, p.expect(")")
		}
	}

	return 0, fmt.Errorf("unexpected %s", t)
}

func apply(op string, a, b int64) (int64, error) {
	switch op {
	case "|":
		return a | b, nil
	case "^":
		return a ^ b, nil
	case "&":
		return a & b, nil
	case "<<", ">>":
		if b < 0 {
			return 0, errors.New("negative shift count")
		}

		if op == "<<" {
			return a << uint64(b), nil
		}

		return a >> uint64(b), nil
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	}

	if b == 0 {
		return 0, errDivideByZero
	}

	switch op {
	case "/":
		return a / b, nil
	case "//":
		q := a / b
		if (a%b != 0) && ((a < 0) != (b < 0)) {
			q--
		}

		return q, nil
	default: // "%"
		m := a % b
		if m != 0 && ((m < 0) != (b < 0)) {
			m += b
		}

		return m, nil
	}
}

// pow raises base to exp. A negative exponent yields the integer part of
// the real result.
func pow(base, exp int64) (int64, error) {
	if exp < 0 {
		switch base {
		case 0:
			return 0, errDivideByZero
		case 1:
			return 1, nil
		case -1:
			if exp%2 == 0 {
				return 1, nil
			}

			return -1, nil
		default:
			return 0, nil
		}
	}

	result := int64(1)

	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}

		base *= base
		exp >>= 1
	}

	return result, nil
}

// formatValue renders v with a printf-style format holding exactly one
// conversion. Integer conversions (d, i, u, o, x, X, c), floating-point
// conversions (e, E, f, F, g, G) and string conversions (s, r, a) are
// accepted, with optional flags, width, precision and length modifiers.
func formatValue(format string, v int64) (string, error) {
	var b strings.Builder

	converted := false

	invalid := func(issue string) (string, error) {
		return "", ErrInvalidFormat.With(
			slog.String("format", format),
			slog.String("issue", issue),
		)
	}

	for i := 0; i < len(format); {
		if format[i] != '%' {
			b.WriteByte(format[i])
			i++

			continue
		}

		j := i + 1
		for j < len(format) && strings.IndexByte("-+ #0", format[j]) >= 0 {
			j++
		}

		flags := format[i+1 : j]

		k := j
		for k < len(format) && format[k] >= '0' && format[k] <= '9' {
			k++
		}

		if k < len(format) && format[k] == '.' {
			k++
			for k < len(format) && format[k] >= '0' && format[k] <= '9' {
				k++
			}
		}

		spec := "%" + format[i+1:k]

		for k < len(format) && strings.IndexByte("hlL", format[k]) >= 0 {
			k++
		}

		if k >= len(format) {
			return invalid("incomplete conversion")
		}

		verb := format[k]
		i = k + 1

		if verb == '%' {
			b.WriteByte('%')

			continue
		}

		if converted {
			return invalid("more than one conversion")
		}

		converted = true

		switch verb {
		case 'd', 'i', 'u':
			fmt.Fprintf(&b, spec+"d", v)

		case 'o':
			if strings.Contains(flags, "#") {
				fmt.Fprintf(&b, strings.Replace(spec, "#", "", 1)+"O", v)
			} else {
				fmt.Fprintf(&b, spec+"o", v)
			}

		case 'x', 'X':
			fmt.Fprintf(&b, spec+string(verb), v)

		case 'e', 'E', 'f', 'F', 'g', 'G':
			fmt.Fprintf(&b, spec+string(verb), float64(v))

		case 'c':
			fmt.Fprintf(&b, spec+"c", rune(v))

		case 's', 'r', 'a':
			fmt.Fprintf(&b, spec+"s", strconv.FormatInt(v, 10))

		default:
			return invalid("unsupported conversion %" + string(verb))
		}
	}

	if !converted {
		return invalid("no conversion")
	}

	return b.String(), nil
}
