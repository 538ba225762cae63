package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/vera/internal/ir"
)

// Accumulator is the live bag of facts: a count per symbol id.
type Accumulator struct {
	symbols *ir.SymbolTable
	counts  []int
}

// NewAccumulator returns an all-zero accumulator sized for symbols.
func NewAccumulator(symbols *ir.SymbolTable) *Accumulator {
	return &Accumulator{
		symbols: symbols,
		counts:  make([]int, symbols.Len()),
	}
}

// Count returns the count of id.
func (a *Accumulator) Count(id ir.SymbolID) int {
	return a.counts[id]
}

// CountOf returns the count of the named symbol, or 0 if it is unknown.
func (a *Accumulator) CountOf(name string) int {
	id, ok := a.symbols.Lookup(name)
	if !ok {
		return 0
	}
	return a.counts[id]
}

// Len returns the number of symbols tracked.
func (a *Accumulator) Len() int {
	return len(a.counts)
}

// Counts returns a copy of every count in symbol id order.
func (a *Accumulator) Counts() []int {
	out := make([]int, len(a.counts))
	copy(out, a.counts)
	return out
}

// Snapshot returns every nonzero count keyed by symbol name.
func (a *Accumulator) Snapshot() map[string]int {
	out := make(map[string]int)
	for i, n := range a.counts {
		if n != 0 {
			out[a.symbols.Name(ir.SymbolID(i))] = n
		}
	}
	return out
}

// Values returns every count keyed by symbol name, zeros included.
func (a *Accumulator) Values() map[string]int {
	out := make(map[string]int, len(a.counts))
	for i, n := range a.counts {
		out[a.symbols.Name(ir.SymbolID(i))] = n
	}
	return out
}

// Restore overwrites the counts of the named symbols, e.g. with values read
// back from compiled code. Symbols not in values keep their count.
func (a *Accumulator) Restore(values map[string]int) error {
	for name, n := range values {
		id, ok := a.symbols.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown symbol %q", name)
		}
		a.counts[id] = n
	}
	return nil
}

// add adds m scaled by times. Counts saturate at ir.MaxCount; the result
// reports whether any count did.
func (a *Accumulator) add(m ir.Multiset, times int) bool {
	saturated := false
	for _, t := range m.Terms() {
		n, mulOver := ir.MulCount(t.Count, times)
		sum, addOver := ir.AddCount(a.counts[t.Symbol], n)
		a.counts[t.Symbol] = sum
		if mulOver || addOver {
			saturated = true
		}
	}
	return saturated
}

// Render writes one line per nonzero symbol in id order: the bare name for
// a count of 1, "name:count" otherwise.
func (a *Accumulator) Render(w io.Writer) error {
	for i, n := range a.counts {
		if n <= 0 {
			continue
		}
		name := a.symbols.Name(ir.SymbolID(i))
		var err error
		if n == 1 {
			_, err = fmt.Fprintln(w, name)
		} else {
			_, err = fmt.Fprintf(w, "%s:%d\n", name, n)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// String renders the accumulator like Render.
func (a *Accumulator) String() string {
	var b strings.Builder
	_ = a.Render(&b)
	return b.String()
}
