package hilbert

import "fmt"

// LocalBasis is the ordered, finite set of eigenvalues a single site may
// take, or the unbounded sentinel for sites with infinitely many local
// states. The construction order is fixed and used consistently by the index
// engines: eigenvalue k of the basis is digit k of the mixed-radix encoding.
//
// LocalBasis is immutable after construction and safe for concurrent use.
type LocalBasis struct {
	states  []float64
	lookup  map[float64]int
	bounded bool
}

// NewLocalBasis builds a finite local basis from the given eigenvalues.
// The slice is copied; its order is preserved and becomes the digit order of
// the index arithmetic.
//
// Returns ErrEmptyBasis if states is empty, and ErrDuplicateState (wrapped
// with the offending value) if two eigenvalues coincide.
func NewLocalBasis(states []float64) (LocalBasis, error) {
	// 1) Reject the empty basis outright: a site must have at least one state.
	if len(states) == 0 {
		return LocalBasis{}, ErrEmptyBasis
	}

	// 2) Copy the eigenvalues and build the value→digit lookup, detecting
	//    duplicates as we go.
	vals := make([]float64, len(states))
	lookup := make(map[float64]int, len(states))
	for i, v := range states {
		if _, seen := lookup[v]; seen {
			return LocalBasis{}, fmt.Errorf("%w: eigenvalue %g appears twice", ErrDuplicateState, v)
		}
		vals[i] = v
		lookup[v] = i
	}

	return LocalBasis{states: vals, lookup: lookup, bounded: true}, nil
}

// UnboundedBasis returns the sentinel basis of a site with infinitely many
// local states. Spaces built from it are never finite and never indexable.
func UnboundedBasis() LocalBasis {
	return LocalBasis{bounded: false}
}

// IsFinite reports whether the basis holds finitely many eigenvalues.
func (b LocalBasis) IsFinite() bool { return b.bounded }

// Size returns the number of local eigenvalues. For an unbounded basis it
// returns MaxStates + 1, which no indexable shape can accommodate.
func (b LocalBasis) Size() int {
	if !b.bounded {
		return MaxStates + 1
	}

	return len(b.states)
}

// Contains reports whether v is one of the local eigenvalues.
// An unbounded basis contains every real value.
func (b LocalBasis) Contains(v float64) bool {
	if !b.bounded {
		return true
	}
	_, ok := b.lookup[v]

	return ok
}

// States returns an order-preserving copy of the eigenvalues, or nil for an
// unbounded basis.
func (b LocalBasis) States() []float64 {
	if !b.bounded {
		return nil
	}
	out := make([]float64, len(b.states))
	copy(out, b.states)

	return out
}

// digit returns the position of eigenvalue v in the basis order.
func (b LocalBasis) digit(v float64) (int, bool) {
	i, ok := b.lookup[v]

	return i, ok
}

// value returns eigenvalue number i in basis order. The caller guarantees
// 0 ≤ i < Size on a finite basis.
func (b LocalBasis) value(i int) float64 { return b.states[i] }
