package lang

import (
	"regexp"
	"strings"
)

// sentinel introduces every directive and variable reference.
const sentinel = "$$"

// Directive identifies the kind of a directive.
type Directive int

const (
	Loop      Directive = iota // LOOP(n)
	If                         // IF(n)
	IfEqual                    // IF(n,v)
	IfInline                   // IF(n,t,f)
	IfCalc                     // IFCALC{e}
	Include                    // INCLUDE(n)
	Translate                  // TRANSLATE(n,"from","to")
	Count                      // COUNT(t)
	Calc                       // CALC{e[,fmt]}
	Assign                     // ASSIGN{n,e}
	Up                         // UP(n)
	Root                       // ROOT(n)
	Substr                     // SUBSTR(n,s,e)
	Tail                       // SUBSTR(n,s)
	Name                       // NAME(ref,field)
)

var directiveName = [...]string{
	Loop:      "LOOP",
	If:        "IF",
	IfEqual:   "IF",
	IfInline:  "IF",
	IfCalc:    "IFCALC",
	Include:   "INCLUDE",
	Translate: "TRANSLATE",
	Count:     "COUNT",
	Calc:      "CALC",
	Assign:    "ASSIGN",
	Up:        "UP",
	Root:      "ROOT",
	Substr:    "SUBSTR",
	Tail:      "SUBSTR",
	Name:      "NAME",
}

// String returns the keyword that introduces d.
func (d Directive) String() string {
	if d < 0 || int(d) >= len(directiveName) {
		return "Directive(?)"
	}

	return directiveName[d]
}

// Keywords returns the directive keywords with their opening delimiter, in
// the form they follow the sentinel.
func Keywords() []string {
	return []string{
		"ASSIGN{", "CALC{", "COUNT(", "ELSE(", "ENDIF(", "ENDLOOP(",
		"IF(", "IFCALC{", "INCLUDE(", "LOOP(", "NAME(", "ROOT(",
		"SUBSTR(", "TRANSLATE(", "UP(",
	}
}

var (
	keywordRe  = regexp.MustCompile(`^(?:(ROOT|SUBSTR|UP|LOOP|IF|INCLUDE|TRANSLATE|COUNT|NAME)\(|(ASSIGN|CALC|IFCALC)\{)`)
	parensRe   = regexp.MustCompile(`^\(([^)]*?)\)`)
	bracketsRe = regexp.MustCompile(`^\{([^}]*?)\}`)
	trargsRe   = regexp.MustCompile(`^\(([^,]*?),"([^"]*?)","([^"]*?)"\)`)
	dbargsRe   = regexp.MustCompile(`^\(([^,)]*?),([^,)]*?)\)`)
	ifargsRe   = regexp.MustCompile(`^\(([^,)]*?),([^,)]*?),([^,)]*?)\)`)
	wordRe     = regexp.MustCompile(`^[A-Za-z0-9_]*`)
)

// keywordKind maps the keywords that have a single form to their kind.
var keywordKind = map[string]Directive{
	"ASSIGN":  Assign,
	"CALC":    Calc,
	"COUNT":   Count,
	"IFCALC":  IfCalc,
	"INCLUDE": Include,
	"LOOP":    Loop,
	"NAME":    Name,
	"ROOT":    Root,
	"UP":      Up,
}

// call is a directive parsed from the text following a sentinel.
type call struct {
	kind Directive
	args []string
	// size is the length of the keyword and its arguments.
	size int
	// wholeLine is set for directives that swallow the rest of their line
	// when they occupy it alone.
	wholeLine bool
}

// parseCall parses the directive at the start of s. It returns the keyword
// and false when s starts with a keyword whose arguments are malformed, and
// an empty keyword when s does not start with a keyword at all.
func parseCall(s string) (call, string, bool) {
	m := keywordRe.FindStringSubmatch(s)
	if m == nil {
		return call{}, "", false
	}

	kw := m[1] + m[2]
	rest := s[len(kw):]

	match := func(re *regexp.Regexp) ([]string, int) {
		sub := re.FindStringSubmatch(rest)
		if sub == nil {
			return nil, 0
		}

		return sub[1:], len(sub[0])
	}

	c := call{}

	var args []string

	switch kw {
	case "TRANSLATE":
		c.kind = Translate
		args, c.size = match(trargsRe)

	case "CALC", "IFCALC", "ASSIGN":
		c.kind = keywordKind[kw]
		args, c.size = match(bracketsRe)

	case "IF":
		c.kind = IfInline
		if args, c.size = match(ifargsRe); args == nil {
			c.kind, c.wholeLine = IfEqual, true
			if args, c.size = match(dbargsRe); args == nil {
				c.kind = If
				args, c.size = match(parensRe)
			}
		}

	case "SUBSTR":
		c.kind = Substr
		if args, c.size = match(ifargsRe); args == nil {
			c.kind = Tail
			args, c.size = match(dbargsRe)
		}

	default:
		c.kind = keywordKind[kw]
		c.wholeLine = true
		args, c.size = match(parensRe)
	}

	if args == nil {
		return call{}, kw, false
	}

	c.args = args
	c.size += len(kw)

	return c, kw, true
}

// parseReference parses a variable reference, $$(name) or $$name, at the
// start of s. It returns the name and the length of the reference, or false
// for an unterminated parenthesized name.
func parseReference(s string) (string, int, bool) {
	if strings.HasPrefix(s, "(") {
		m := parensRe.FindStringSubmatch(s)
		if m == nil {
			return "", 0, false
		}

		return m[1], len(m[0]), true
	}

	name := wordRe.FindString(s)

	return name, len(name), true
}
