package lang

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Snapshot is a copy of the resolved tables.
type Snapshot struct {
	Vars      Vars      `json:"vars"      toml:"vars"      yaml:"vars"`
	Instances Instances `json:"instances" toml:"instances" yaml:"instances"`
	Names     Names     `json:"names"     toml:"names"     yaml:"names"`
}

// Snapshot returns a copy of the variable, instance and alias tables that
// shares nothing with c.
func (c *Config) Snapshot() Snapshot {
	return Snapshot{
		Vars:      c.vars.Clone(),
		Instances: c.instances.Clone(),
		Names:     maps.Clone(c.names),
	}
}

// Format writes the tables as configuration text that [Config.ReadConfig]
// reads back: one assignment per variable that was not synthesized by the
// loader, then one old-style declaration per instance in declaration order.
func (c *Config) Format(_ context.Context, w io.Writer, _ int) error {
	var b strings.Builder

	for _, name := range slices.Sorted(maps.Keys(c.vars)) {
		if c.Derived(name) || isAliasKey(name) {
			continue
		}

		b.WriteString(FormatAssignment(name, c.vars[name]))
		b.WriteByte('\n')
	}

	for _, inst := range c.declared() {
		b.WriteString(c.formatInstance(inst))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// declared returns every instance in declaration order.
func (c *Config) declared() []*Instance {
	var all []*Instance
	for _, list := range c.instances {
		all = append(all, list...)
	}

	slices.SortFunc(all, func(a, b *Instance) int {
		return cmp.Or(cmp.Compare(a.seq, b.seq), cmp.Compare(a.Type, b.Type),
			cmp.Compare(a.Ordinal, b.Ordinal))
	})

	return all
}

func (c *Config) formatInstance(inst *Instance) string {
	params := make([]string, 0, len(inst.Refs)+len(inst.params))

	for _, ref := range inst.Refs {
		if r, ok := c.instances.Get(ref.Type, ref.Ordinal); ok && r.Alias != "" {
			params = append(params, r.Alias)
		} else {
			params = append(params, ref.Type+strconv.Itoa(ref.Ordinal))
		}
	}

	for _, key := range inst.params {
		params = append(params, key+"="+quote(inst.Fields[key]))
	}

	decl := inst.Type + "(" + strings.Join(params, ",") + ")"
	if inst.Alias != "" {
		decl = inst.Alias + ":" + decl
	}

	return decl
}

// FormatAssignment returns a one-line assignment that [ParseAssignment]
// reads back as name and value. A value holding both quote characters
// cannot be quoted and is written bare.
func FormatAssignment(name, value string) string {
	return name + "=" + quote(value)
}

// quote wraps s in whichever quote character it does not contain.
func quote(s string) string {
	switch {
	case !strings.Contains(s, `"`):
		return `"` + s + `"`

	case !strings.Contains(s, "'"):
		return "'" + s + "'"
	}

	return s
}

// FormatJSON writes the tables as JSON to the writer.
func (c *Config) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(c.Snapshot(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(c.Snapshot())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the tables as YAML to the writer.
func (c *Config) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, c.Snapshot(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// FormatTOML writes the tables as TOML to the writer.
func (c *Config) FormatTOML(_ context.Context, w io.Writer, indent int) error {
	enc := toml.NewEncoder(w)
	if indent > 0 {
		enc.SetIndentTables(true)
		enc.SetIndentSymbol(strings.Repeat(" ", indent))
	}

	return enc.Encode(c.Snapshot())
}
