package cli

import (
	"bufio"
	"io"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/expand/lang"
)

// resolve is a [kong.ConfigurationLoader] for settings files written in the
// configuration language's assignment syntax:
//
//	# ~/.config/expand/config
//	log_level=debug
//	log_pretty false
//	path="/opt/templates,/srv/templates"
//
// Each line is parsed with [lang.ParseAssignment]; comments, blank lines
// and anything that is not an assignment are ignored. Names may spell flag
// hyphens as underscores. Values stay strings and kong converts them to the
// flag's type, splitting lists on commas. Command-line flags override the
// file.
func resolve(r io.Reader) (kong.Resolver, error) {
	settings := config{}

	scan := bufio.NewScanner(r)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if name, value, ok := lang.ParseAssignment(line); ok {
			settings[name] = value
		}
	}

	if err := scan.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}

// config implements [kong.Resolver] over a flat settings table.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. It returns nil for flags the table
// does not name, which leaves kong's default in place.
func (r config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	for _, name := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := r[name]; ok {
			return value, nil
		}
	}

	return nil, nil //nolint:nilnil
}
