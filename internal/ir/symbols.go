package ir

import "strings"

// SymbolID is a dense 0-based symbol index.
type SymbolID int

// NoSymbol is returned by lookups that find nothing.
const NoSymbol SymbolID = -1

// SymbolTable interns symbol names.
//
// Two texts denote the same symbol iff they are equal after NormalizeName.
// The first occurrence of a name fixes its id; names are never renamed or
// removed.
type SymbolTable struct {
	names     []string
	index     map[string]SymbolID
	nameBytes int
	limits    Limits
}

// NewSymbolTable creates an empty table bounded by limits.
func NewSymbolTable(limits Limits) *SymbolTable {
	return &SymbolTable{
		index:  make(map[string]SymbolID),
		limits: limits,
	}
}

// IsSpace reports whether b counts as whitespace in Vera source
// (space and every control character below it).
func IsSpace(b byte) bool {
	return b <= 0x20
}

// NormalizeName collapses each whitespace run to a single space and trims
// whitespace from both ends.
func NormalizeName(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if IsSpace(c) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Intern returns the id of text, registering it if it has not been seen.
func (t *SymbolTable) Intern(text string) (SymbolID, error) {
	name := NormalizeName(text)
	if id, ok := t.index[name]; ok {
		return id, nil
	}
	if t.limits.MaxSymbols > 0 && len(t.names) >= t.limits.MaxSymbols {
		return NoSymbol, &CapacityError{Resource: ResourceSymbols, Limit: t.limits.MaxSymbols}
	}
	if t.limits.MaxNameBytes > 0 && t.nameBytes+len(name) > t.limits.MaxNameBytes {
		return NoSymbol, &CapacityError{Resource: ResourceNameBytes, Limit: t.limits.MaxNameBytes}
	}
	id := SymbolID(len(t.names))
	t.names = append(t.names, name)
	t.index[name] = id
	t.nameBytes += len(name)
	return id, nil
}

// Lookup returns the id of text without registering it.
func (t *SymbolTable) Lookup(text string) (SymbolID, bool) {
	id, ok := t.index[NormalizeName(text)]
	if !ok {
		return NoSymbol, false
	}
	return id, true
}

// Name returns the interned name of id. It panics if id was never issued.
func (t *SymbolTable) Name(id SymbolID) string {
	return t.names[id]
}

// Len returns the number of interned symbols.
func (t *SymbolTable) Len() int {
	return len(t.names)
}

// Names returns a copy of all names in id order.
func (t *SymbolTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Limits returns the table's capacity bounds.
func (t *SymbolTable) Limits() Limits {
	return t.limits
}

// Clone returns an independent copy of the table.
func (t *SymbolTable) Clone() *SymbolTable {
	c := &SymbolTable{
		names:     t.Names(),
		index:     make(map[string]SymbolID, len(t.index)),
		nameBytes: t.nameBytes,
		limits:    t.limits,
	}
	for k, v := range t.index {
		c.index[k] = v
	}
	return c
}
