package lang

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Vars maps variable names to their string values.
type Vars map[string]string

// Lookup returns the value of name and whether it is defined.
func (v Vars) Lookup(name string) (string, bool) {
	s, ok := v[name]

	return s, ok
}

// Clone returns a shallow copy of v that is never nil.
func (v Vars) Clone() Vars {
	if v == nil {
		return Vars{}
	}

	return maps.Clone(v)
}

// valueOr returns the value of name, or name itself when it is undefined.
// Directives use this to accept either a variable or a literal argument.
func (v Vars) valueOr(name string) string {
	if s, ok := v[name]; ok {
		return s
	}

	return name
}

// Instance is one declared, parameterized object of a named type.
type Instance struct {
	Type    string `json:"type"            toml:"type"            yaml:"type"`
	Alias   string `json:"alias,omitempty" toml:"alias,omitempty" yaml:"alias,omitempty"`
	Ordinal int    `json:"ordinal"         toml:"ordinal"         yaml:"ordinal"`
	// Fields always contains INDEX, the decimal ordinal.
	Fields Vars `json:"fields" toml:"fields" yaml:"fields"`
	// Refs lists the instances whose fields were copied into Fields.
	Refs []Ref `json:"refs,omitempty" toml:"refs,omitempty" yaml:"refs,omitempty"`

	// params holds the declared parameter names in first-seen order.
	params []string
	// seq orders instances across types by declaration.
	seq int
}

func newInstance(typ, alias string, ordinal, seq int) *Instance {
	return &Instance{
		Type:    typ,
		Alias:   alias,
		Ordinal: ordinal,
		Fields:  Vars{indexKey: strconv.Itoa(ordinal)},
		seq:     seq,
	}
}

// setParam records a declared parameter.
func (i *Instance) setParam(key, value string) {
	if !slices.Contains(i.params, key) {
		i.params = append(i.params, key)
	}

	i.Fields[key] = value
}

// copyFrom copies the fields of ref into i, each prefixed by the type of
// ref.
func (i *Instance) copyFrom(ref *Instance) {
	for k, v := range ref.Fields {
		i.Fields[ref.Type+k] = v
	}

	i.Refs = append(i.Refs, Ref{Type: ref.Type, Ordinal: ref.Ordinal})
}

// clone returns a copy of i that shares no maps or slices with it.
func (i *Instance) clone() *Instance {
	c := *i
	c.Fields = i.Fields.Clone()
	c.Refs = slices.Clone(i.Refs)
	c.params = slices.Clone(i.params)

	return &c
}

// flatKey returns the variable name that mirrors field in the flat table.
func (i *Instance) flatKey(field string) string {
	return i.Type + field + strconv.Itoa(i.Ordinal)
}

// Instances maps a type name to its instances in declaration order.
// The position of each instance equals its ordinal.
type Instances map[string][]*Instance

// Clone returns a deep copy of t.
func (t Instances) Clone() Instances {
	c := make(Instances, len(t))
	for typ, list := range t {
		insts := make([]*Instance, len(list))
		for i, inst := range list {
			insts[i] = inst.clone()
		}

		c[typ] = insts
	}

	return c
}

// Count returns the number of instances of typ.
func (t Instances) Count(typ string) int { return len(t[typ]) }

// Get returns the instance of typ with the given ordinal.
func (t Instances) Get(typ string, ordinal int) (*Instance, bool) {
	list := t[typ]
	if ordinal < 0 || ordinal >= len(list) {
		return nil, false
	}

	return list[ordinal], true
}

// Ref identifies an instance by type and ordinal.
type Ref struct {
	Type    string `json:"type"    toml:"type"    yaml:"type"`
	Ordinal int    `json:"ordinal" toml:"ordinal" yaml:"ordinal"`
}

// Names maps instance aliases to the instance they name.
type Names map[string]Ref

// aliasKeys returns the two variable names an alias publishes.
func aliasKeys(alias string) (typ, index string) {
	return alias + aliasTypeSuffix, alias + aliasIndexSuffix
}

const (
	indexKey         = "INDEX"
	aliasTypeSuffix  = ":TYPE"
	aliasIndexSuffix = ":INDEX"
)

// isAliasKey reports whether name is one of the keys published for an
// alias.
func isAliasKey(name string) bool {
	return strings.HasSuffix(name, aliasTypeSuffix) ||
		strings.HasSuffix(name, aliasIndexSuffix)
}
