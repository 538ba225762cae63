package ir

import "slices"

// Term is one entry of a Multiset: a symbol and its multiplicity.
type Term struct {
	Symbol SymbolID `json:"symbol"`
	Count  int      `json:"count"`
}

// Multiset is a sparse symbol -> count map kept sorted by symbol id.
// The zero value is an empty multiset. Zero counts are never stored.
type Multiset struct {
	terms []Term
}

// MultisetOf builds a multiset, summing repeated symbols.
func MultisetOf(terms ...Term) Multiset {
	var m Multiset
	for _, t := range terms {
		m.Add(t.Symbol, t.Count)
	}
	return m
}

// Add increases the count of id by n, saturating at MaxCount. Non-positive
// n is ignored.
func (m *Multiset) Add(id SymbolID, n int) {
	if n <= 0 {
		return
	}
	i, found := slices.BinarySearchFunc(m.terms, id, func(t Term, id SymbolID) int {
		return int(t.Symbol) - int(id)
	})
	if found {
		m.terms[i].Count, _ = AddCount(m.terms[i].Count, n)
		return
	}
	m.terms = slices.Insert(m.terms, i, Term{Symbol: id, Count: n})
}

// Count returns the multiplicity of id (0 if absent).
func (m Multiset) Count(id SymbolID) int {
	i, found := slices.BinarySearchFunc(m.terms, id, func(t Term, id SymbolID) int {
		return int(t.Symbol) - int(id)
	})
	if !found {
		return 0
	}
	return m.terms[i].Count
}

// Has reports whether id has a nonzero count.
func (m Multiset) Has(id SymbolID) bool {
	return m.Count(id) > 0
}

// Terms returns the entries in ascending symbol order.
// The returned slice must not be modified.
func (m Multiset) Terms() []Term {
	return m.terms
}

// Support returns the symbols with nonzero count, ascending.
func (m Multiset) Support() []SymbolID {
	out := make([]SymbolID, len(m.terms))
	for i, t := range m.terms {
		out[i] = t.Symbol
	}
	return out
}

// Len returns the number of distinct symbols.
func (m Multiset) Len() int {
	return len(m.terms)
}

// IsEmpty reports whether the multiset has no symbols.
func (m Multiset) IsEmpty() bool {
	return len(m.terms) == 0
}

// Total returns the sum of all counts, saturating at MaxCount.
func (m Multiset) Total() int {
	total := 0
	for _, t := range m.terms {
		total, _ = AddCount(total, t.Count)
	}
	return total
}

// Equal reports whether both multisets hold the same counts.
func (m Multiset) Equal(o Multiset) bool {
	return slices.Equal(m.terms, o.terms)
}

// Clone returns an independent copy.
func (m Multiset) Clone() Multiset {
	return Multiset{terms: slices.Clone(m.terms)}
}
