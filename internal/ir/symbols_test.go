package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "apple", "apple"},
		{"trailing space", "apple ", "apple"},
		{"leading space", "  apple", "apple"},
		{"inner run", "big \t\n apple", "big apple"},
		{"control bytes", "a\x01\x02b", "a b"},
		{"only whitespace", " \t\n", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestInternStable(t *testing.T) {
	st := NewSymbolTable(DefaultLimits())

	apple, err := st.Intern("apple")
	require.NoError(t, err)
	again, err := st.Intern("apple")
	require.NoError(t, err)
	spaced, err := st.Intern("apple ")
	require.NoError(t, err)
	sauce, err := st.Intern("applesauce")
	require.NoError(t, err)

	assert.Equal(t, apple, again)
	assert.Equal(t, apple, spaced)
	assert.NotEqual(t, apple, sauce)
	assert.Equal(t, 2, st.Len())
	assert.Equal(t, []string{"apple", "applesauce"}, st.Names())
}

func TestInternDenseIDs(t *testing.T) {
	st := NewSymbolTable(Unlimited())
	for i, name := range []string{"a", "b", "c"} {
		id, err := st.Intern(name)
		require.NoError(t, err)
		assert.Equal(t, SymbolID(i), id)
		assert.Equal(t, name, st.Name(id))
	}
}

func TestInternSymbolCapacity(t *testing.T) {
	st := NewSymbolTable(Limits{MaxSymbols: 2})

	_, err := st.Intern("a")
	require.NoError(t, err)
	_, err = st.Intern("b")
	require.NoError(t, err)

	// Re-interning a known name never counts against the limit.
	_, err = st.Intern("a")
	require.NoError(t, err)

	_, err = st.Intern("c")
	require.Error(t, err)
	assert.True(t, IsCapacityError(err))

	var ce *CapacityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ResourceSymbols, ce.Resource)
	assert.Equal(t, 2, ce.Limit)
	assert.Equal(t, 2, st.Len())
}

func TestInternNameBytesCapacity(t *testing.T) {
	st := NewSymbolTable(Limits{MaxNameBytes: 8})

	_, err := st.Intern("abcd")
	require.NoError(t, err)
	_, err = st.Intern("efgh")
	require.NoError(t, err)

	_, err = st.Intern("i")
	var ce *CapacityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ResourceNameBytes, ce.Resource)
}

func TestLookup(t *testing.T) {
	st := NewSymbolTable(DefaultLimits())
	id, err := st.Intern("x")
	require.NoError(t, err)

	got, ok := st.Lookup(" x ")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	got, ok = st.Lookup("y")
	assert.False(t, ok)
	assert.Equal(t, NoSymbol, got)
	assert.Equal(t, 1, st.Len(), "lookup must not register")
}

func TestSymbolTableClone(t *testing.T) {
	st := NewSymbolTable(DefaultLimits())
	_, err := st.Intern("a")
	require.NoError(t, err)

	c := st.Clone()
	_, err = c.Intern("b")
	require.NoError(t, err)

	assert.Equal(t, 1, st.Len())
	assert.Equal(t, 2, c.Len())
	_, ok := st.Lookup("b")
	assert.False(t, ok)
}
