package object

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/shrimp-lang/shrimp/bytecode"
)

// Number is a float64 value.
type Number struct {
	value float64
}

func NewNumber(value float64) *Number {
	return &Number{value: value}
}

func (n *Number) Value() float64 {
	return n.value
}

func (n *Number) Type() Type {
	return NUMBER
}

func (n *Number) Inspect() string {
	return bytecode.FormatNumber(n.value)
}

func (n *Number) String() string {
	return n.Inspect()
}

func (n *Number) Interface() any {
	return n.value
}

func (n *Number) IsTruthy() bool {
	return true
}

func (n *Number) Equals(other Object) bool {
	o, ok := other.(*Number)
	return ok && o.value == n.value
}

// String is a text value.
type String struct {
	value string
}

func NewString(value string) *String {
	return &String{value: value}
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Inspect() string {
	return s.value
}

func (s *String) String() string {
	return fmt.Sprintf("%q", s.value)
}

func (s *String) Interface() any {
	return s.value
}

func (s *String) IsTruthy() bool {
	return true
}

func (s *String) Equals(other Object) bool {
	o, ok := other.(*String)
	return ok && o.value == s.value
}

// Regex is a compiled regular expression literal. Flags the Go engine has
// no equivalent for are kept for display only.
type Regex struct {
	pattern string
	flags   string
	re      *regexp.Regexp
}

// NewRegex compiles pattern with the given flags.
func NewRegex(pattern, flags string) (*Regex, error) {
	var inline strings.Builder
	for _, f := range "ims" {
		if strings.ContainsRune(flags, f) {
			inline.WriteRune(f)
		}
	}
	expr := pattern
	if inline.Len() > 0 {
		expr = "(?" + inline.String() + ")" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Regex{pattern: pattern, flags: flags, re: re}, nil
}

func (r *Regex) Pattern() string {
	return r.pattern
}

func (r *Regex) Flags() string {
	return r.flags
}

// Regexp returns the compiled expression.
func (r *Regex) Regexp() *regexp.Regexp {
	return r.re
}

func (r *Regex) Type() Type {
	return REGEX
}

func (r *Regex) Inspect() string {
	return "//" + r.pattern + "//" + r.flags
}

func (r *Regex) Interface() any {
	return r.re
}

func (r *Regex) IsTruthy() bool {
	return true
}

func (r *Regex) Equals(other Object) bool {
	o, ok := other.(*Regex)
	return ok && o.pattern == r.pattern && o.flags == r.flags
}

// Map is a read only record of named fields, reachable with `name.field`.
type Map struct {
	items map[string]Object
}

func NewMap(items map[string]Object) *Map {
	if items == nil {
		items = map[string]Object{}
	}
	return &Map{items: items}
}

func (m *Map) Type() Type {
	return MAP
}

func (m *Map) GetAttr(name string) (Object, bool) {
	v, ok := m.items[name]
	return v, ok
}

// Keys returns the field names in sorted order.
func (m *Map) Keys() []string {
	return slices.Sorted(maps.Keys(m.items))
}

func (m *Map) Len() int {
	return len(m.items)
}

func (m *Map) Inspect() string {
	var b strings.Builder
	b.WriteString("{")
	for i, k := range m.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", k, m.items[k].Inspect())
	}
	b.WriteString("}")
	return b.String()
}

func (m *Map) Interface() any {
	out := make(map[string]any, len(m.items))
	for k, v := range m.items {
		out[k] = v.Interface()
	}
	return out
}

func (m *Map) IsTruthy() bool {
	return true
}

func (m *Map) Equals(other Object) bool {
	o, ok := other.(*Map)
	if !ok || len(o.items) != len(m.items) {
		return false
	}
	for k, v := range m.items {
		ov, ok := o.items[k]
		if !ok || !v.Equals(ov) {
			return false
		}
	}
	return true
}
