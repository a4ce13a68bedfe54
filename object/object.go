// Package object provides the runtime values of Shrimp programs.
//
// For users embedding Shrimp, an object.Object is usually type asserted to a
// concrete type:
//
//	switch obj := obj.(type) {
//	case *object.String:
//		// do something with obj.Value()
//	case *object.Number:
//		// do something with obj.Value()
//	}
package object

// Type of an object as a string.
type Type string

// Type constants
const (
	NULL     Type = "null"
	BOOL     Type = "boolean"
	NUMBER   Type = "number"
	STRING   Type = "string"
	REGEX    Type = "regex"
	MAP      Type = "map"
	FUNCTION Type = "function"
	BUILTIN  Type = "builtin"
)

var (
	Nil   = &NullType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface that all runtime values implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns the text of the object as string interpolation and
	// echo show it.
	Inspect() string

	// Interface converts the object to a native Go value.
	Interface() any

	// Equals reports whether other holds the same value.
	Equals(other Object) bool

	// IsTruthy reports whether the object counts as true in a condition.
	IsTruthy() bool
}

// AttrGetter is implemented by objects with named fields.
type AttrGetter interface {
	GetAttr(name string) (Object, bool)
}

// NewBool returns True or False.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

// NullType is the type of Nil.
type NullType struct{}

func (n *NullType) Type() Type           { return NULL }
func (n *NullType) Inspect() string      { return "null" }
func (n *NullType) Interface() any       { return nil }
func (n *NullType) IsTruthy() bool       { return false }
func (n *NullType) String() string       { return n.Inspect() }
func (n *NullType) Equals(o Object) bool { return o.Type() == NULL }

// Bool is a boolean value.
type Bool struct {
	value bool
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Inspect() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Interface() any {
	return b.value
}

func (b *Bool) IsTruthy() bool {
	return b.value
}

func (b *Bool) Equals(other Object) bool {
	o, ok := other.(*Bool)
	return ok && o.value == b.value
}
