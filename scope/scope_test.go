package scope

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaAdd(t *testing.T) {
	a := NewArena()
	require.False(t, a.Has(Root, "x"))

	withX := a.Add(Root, "x")
	require.NotEqual(t, Root, withX)
	require.True(t, a.Has(withX, "x"))
	require.False(t, a.Has(Root, "x"), "root must not change")

	require.Equal(t, withX, a.Add(withX, "x"), "re-adding a bound name is a no-op")

	both := a.Add(withX, "b", "a")
	require.Equal(t, []string{"a", "b", "x"}, a.Names(both))
}

func TestArenaPushPop(t *testing.T) {
	a := NewArena()
	outer := a.Add(Root, "outer")
	inner := a.Add(a.Push(outer), "param")

	require.True(t, a.Has(inner, "outer"))
	require.True(t, a.Has(inner, "param"))
	require.Equal(t, 1, a.Depth(inner))

	back := a.Pop(inner)
	require.Equal(t, outer, back)
	require.False(t, a.Has(back, "param"))

	require.Equal(t, Root, a.Pop(Root))
	require.Equal(t, 0, a.Depth(Root))
}

func TestArenaHash(t *testing.T) {
	a := NewArena()
	one := a.Add(a.Add(Root, "a"), "b")
	two := a.Add(a.Add(Root, "b"), "a")
	require.NotEqual(t, one, two)
	require.Equal(t, a.Hash(one), a.Hash(two))
	require.True(t, a.Equal(one, two))

	other := a.Add(Root, "c")
	require.NotEqual(t, a.Hash(one), a.Hash(other))
	require.False(t, a.Equal(one, other))

	// The same names one level down are a different scope.
	nested := a.Add(a.Push(Root), "a", "b")
	require.NotEqual(t, a.Hash(one), a.Hash(nested))
	require.False(t, a.Equal(one, nested))
}

func TestArenaInvalidID(t *testing.T) {
	a := NewArena()
	require.Panics(t, func() { a.Has(ID(42), "x") })
}
