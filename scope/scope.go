// Package scope tracks which names are bound while a source unit is parsed.
//
// Scopes are immutable records stored in an append-only Arena and addressed
// by ID. Adding a name, entering a function or leaving one never changes an
// existing record; it returns the ID of a new (or already existing) record.
// This lets speculative parse paths hold different IDs into the same Arena
// without seeing each other's bindings.
//
// The tracker exists only to steer the tokenizer (for example to decide
// whether `obj.prop` is a property access or a file name). The compiler does
// not consult it.
package scope

import (
	"encoding/binary"
	"sort"

	"github.com/zeebo/xxh3"
)

// ID addresses a scope record within an Arena.
type ID int32

// Root is the ID of the empty top-level scope of every Arena.
const Root ID = 0

// none marks the absence of a parent.
const none ID = -1

type record struct {
	parent ID
	names  []string // sorted and unique
	hash   uint64
}

// Arena owns the scope records created during one parse. It is not safe for
// concurrent use; each parse creates its own.
type Arena struct {
	records []record
}

// NewArena returns an Arena holding only the empty Root scope.
func NewArena() *Arena {
	a := &Arena{}
	a.records = append(a.records, record{parent: none, hash: hashRecord(nil, none, 0)})
	return a
}

// Len returns the number of records allocated so far.
func (a *Arena) Len() int {
	return len(a.records)
}

func (a *Arena) get(id ID) record {
	if id < 0 || int(id) >= len(a.records) {
		panic("scope: invalid id")
	}
	return a.records[id]
}

func (a *Arena) alloc(r record) ID {
	a.records = append(a.records, r)
	return ID(len(a.records) - 1)
}

// Has reports whether name is bound in the scope or any of its ancestors.
func (a *Arena) Has(id ID, name string) bool {
	for id != none {
		r := a.get(id)
		i := sort.SearchStrings(r.names, name)
		if i < len(r.names) && r.names[i] == name {
			return true
		}
		id = r.parent
	}
	return false
}

// Add returns a scope with the same parent as id whose bindings are those of
// id plus names. If every name is already bound directly in id, id itself is
// returned.
func (a *Arena) Add(id ID, names ...string) ID {
	r := a.get(id)
	merged := make([]string, len(r.names), len(r.names)+len(names))
	copy(merged, r.names)
	changed := false
	for _, name := range names {
		i := sort.SearchStrings(merged, name)
		if i < len(merged) && merged[i] == name {
			continue
		}
		merged = append(merged, "")
		copy(merged[i+1:], merged[i:])
		merged[i] = name
		changed = true
	}
	if !changed {
		return id
	}
	var parentHash uint64
	if r.parent != none {
		parentHash = a.get(r.parent).hash
	}
	return a.alloc(record{
		parent: r.parent,
		names:  merged,
		hash:   hashRecord(merged, r.parent, parentHash),
	})
}

// Push returns a new child scope of id with no bindings of its own.
func (a *Arena) Push(id ID) ID {
	parent := a.get(id)
	return a.alloc(record{parent: id, hash: hashRecord(nil, id, parent.hash)})
}

// Pop returns the parent of id, or id itself when it is a root scope.
func (a *Arena) Pop(id ID) ID {
	r := a.get(id)
	if r.parent == none {
		return id
	}
	return r.parent
}

// Names returns the names bound directly in id, sorted.
func (a *Arena) Names(id ID) []string {
	r := a.get(id)
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Depth returns the number of ancestors of id.
func (a *Arena) Depth(id ID) int {
	depth := 0
	for r := a.get(id); r.parent != none; r = a.get(r.parent) {
		depth++
	}
	return depth
}

// Hash returns a structural hash of the scope: a function of its own bound
// names and, transitively, those of its ancestors. Two scopes with equal
// bindings along the whole chain hash equally regardless of how they were
// built.
func (a *Arena) Hash(id ID) uint64 {
	return a.get(id).hash
}

// Equal reports whether two scopes bind the same names along their whole
// parent chains.
func (a *Arena) Equal(x, y ID) bool {
	for {
		if x == y {
			return true
		}
		if x == none || y == none {
			return false
		}
		rx, ry := a.get(x), a.get(y)
		if rx.hash != ry.hash || len(rx.names) != len(ry.names) {
			return false
		}
		for i := range rx.names {
			if rx.names[i] != ry.names[i] {
				return false
			}
		}
		x, y = rx.parent, ry.parent
	}
}

func hashRecord(names []string, parent ID, parentHash uint64) uint64 {
	h := xxh3.New()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	if parent != none {
		var buf [9]byte
		buf[0] = 1
		binary.LittleEndian.PutUint64(buf[1:], parentHash)
		h.Write(buf[:])
	}
	return h.Sum64()
}
