package hilbert

import (
	"fmt"
	"iter"
	"math"
	"sync"
)

// Space is the capability interface of a discrete Hilbert space. It exposes
// exactly the primitive operations a variational algorithm needs: the shape
// of the product space, its indexability, and the bijection between dense
// integer numbers and basis configurations.
//
// All implementations are immutable after construction and safe for
// concurrent readers; expensive enumerations are materialized lazily, at
// most once, on first need.
type Space interface {
	// Size returns the number of sites (degrees of freedom).
	Size() int

	// Shape returns the per-site local dimensions. Every call returns a
	// fresh copy.
	Shape() []int

	// StatesAt returns the ordered local eigenvalues of site i, or nil if
	// the site's local space is infinite.
	StatesAt(i int) []float64

	// IsFinite reports whether every site has finitely many local states.
	IsFinite() bool

	// Constrained reports whether the space holds fewer than product(shape)
	// configurations due to a constraint predicate.
	Constrained() bool

	// IsIndexable reports whether the space is finite and small enough
	// (≤ MaxStates configurations in the unconstrained envelope) to admit a
	// dense integer enumeration.
	IsIndexable() bool

	// NStates returns the total number of valid configurations.
	// Fails with ErrNotIndexable (or ErrCapacity for a constrained space
	// whose envelope overflows) if the space cannot be enumerated.
	NStates() (int, error)

	// NumbersToStates decodes a batch of numbers into configurations, one
	// row per number, in input order.
	NumbersToStates(numbers []int) ([][]float64, error)

	// StatesToNumbers encodes a batch of configurations into their numbers,
	// in input order. Round trip with NumbersToStates is exact.
	StatesToNumbers(states [][]float64) ([]int, error)

	// AllStates returns every valid configuration in increasing number
	// order: exactly NStates rows, all distinct.
	AllStates() ([][]float64, error)

	// States returns a single-use iterator over the enumeration in
	// increasing number order. Prefer AllStates when the whole batch is
	// needed anyway.
	States() (iter.Seq[[]float64], error)
}

// Homogeneous is a uniform discrete space: every site carries the same
// LocalBasis, and an optional Constraint restricts the product space.
// It implements Space.
//
// The index engine is built on first need, guarded by a single-initialization
// check: constrained construction costs O(product(shape)·sites), so spaces
// that are only sampled, never enumerated, never pay it. The result is
// value-identical no matter which reader triggers it.
type Homogeneous struct {
	basis LocalBasis
	sites int
	opts  Options

	indexOnce sync.Once
	index     hilbertIndex
	indexErr  error
}

// NewHomogeneous constructs a uniform space of n sites over the given local
// basis. Use WithConstraint to restrict it.
//
// Returns ErrBadSites if n < 1. Basis validity is established by the
// LocalBasis constructor; constraint validity is only observable when the
// index is materialized.
func NewHomogeneous(basis LocalBasis, n int, opts ...Option) (*Homogeneous, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadSites, n)
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Homogeneous{basis: basis, sites: n, opts: cfg}, nil
}

// NewSpin constructs the Hilbert space of n spin-s degrees of freedom.
// Local eigenvalues are the 2s+1 magnetization projections in units of 1/2,
// ordered −2s, −2s+2, …, +2s (so spin-1/2 sites take values ∓1).
//
// Returns ErrBadSpin unless 2s is a positive integer, and ErrBadSites if
// n < 1.
func NewSpin(s float64, n int, opts ...Option) (*Homogeneous, error) {
	twoS := 2 * s
	if twoS < 1 || twoS != math.Trunc(twoS) {
		return nil, fmt.Errorf("%w: got s=%g", ErrBadSpin, s)
	}
	local := make([]float64, int(twoS)+1)
	for i := range local {
		local[i] = -twoS + 2*float64(i)
	}
	basis, err := NewLocalBasis(local)
	if err != nil {
		return nil, err
	}

	return NewHomogeneous(basis, n, opts...)
}

// NewFock constructs the Hilbert space of n occupation-number degrees of
// freedom with at most nMax particles per site (local states 0, 1, …, nMax).
//
// Returns ErrBadOccupation if nMax < 1 and ErrBadSites if n < 1.
func NewFock(nMax, n int, opts ...Option) (*Homogeneous, error) {
	if nMax < 1 {
		return nil, fmt.Errorf("%w: nMax %d", ErrBadOccupation, nMax)
	}
	local := make([]float64, nMax+1)
	for i := range local {
		local[i] = float64(i)
	}
	basis, err := NewLocalBasis(local)
	if err != nil {
		return nil, err
	}

	return NewHomogeneous(basis, n, opts...)
}

// LocalStates returns an order-preserving copy of the shared local
// eigenvalues, or nil if the local basis is unbounded.
func (h *Homogeneous) LocalStates() []float64 { return h.basis.States() }

// LocalSize returns the shared local dimension.
func (h *Homogeneous) LocalSize() int { return h.basis.Size() }

// Size returns the number of sites.
func (h *Homogeneous) Size() int { return h.sites }

// Shape returns the per-site local dimensions; every entry equals LocalSize.
func (h *Homogeneous) Shape() []int {
	shape := make([]int, h.sites)
	d := h.basis.Size()
	for i := range shape {
		shape[i] = d
	}

	return shape
}

// StatesAt returns the local eigenvalues of site i (identical at every site).
func (h *Homogeneous) StatesAt(i int) []float64 { return h.basis.States() }

// IsFinite reports whether the local basis is finite.
func (h *Homogeneous) IsFinite() bool { return h.basis.IsFinite() }

// Constrained reports whether a constraint predicate restricts the space.
func (h *Homogeneous) Constrained() bool { return h.opts.Constraint != nil }

// CheckConstraint reports, row by row, whether each configuration satisfies
// the space's constraint. Unconstrained spaces accept every row. Unlike the
// indexing operations this never materializes the enumeration, so it works
// on spaces of any size.
func (h *Homogeneous) CheckConstraint(states [][]float64) []bool {
	if h.opts.Constraint == nil {
		ok := make([]bool, len(states))
		for i := range ok {
			ok[i] = true
		}

		return ok
	}

	return h.opts.Constraint(states)
}

// IsIndexable reports whether the full product space fits below MaxStates.
// The check runs in log-space, so huge shapes do not overflow.
func (h *Homogeneous) IsIndexable() bool {
	return h.basis.IsFinite() && indexableShape(h.Shape())
}

// NStates returns the number of valid configurations.
//
// For an unconstrained space this is the closed-form product of the shape.
// For a constrained space it forces materialization of the filtered
// enumeration (O(product(shape)·sites) on first call, cached afterwards).
func (h *Homogeneous) NStates() (int, error) {
	idx, err := h.hilbertIndex()
	if err != nil {
		return 0, err
	}

	return idx.nStates(), nil
}

// NumbersToStates decodes a batch of basis-state numbers.
//
// Fails with ErrNotIndexable/ErrCapacity on an unindexable space and with
// ErrNumberOutOfRange (carrying the offending number) if any input is not in
// [0, NStates).
func (h *Homogeneous) NumbersToStates(numbers []int) ([][]float64, error) {
	idx, err := h.hilbertIndex()
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(numbers))
	for k, n := range numbers {
		row := make([]float64, h.sites)
		if err = idx.numberToState(n, row); err != nil {
			return nil, err
		}
		out[k] = row
	}

	return out, nil
}

// StatesToNumbers encodes a batch of configurations.
//
// Fails with ErrSizeMismatch if a row has the wrong width and with
// ErrStateNotFound if a row is not a valid configuration of this space.
func (h *Homogeneous) StatesToNumbers(states [][]float64) ([]int, error) {
	idx, err := h.hilbertIndex()
	if err != nil {
		return nil, err
	}
	out := make([]int, len(states))
	for k, row := range states {
		if len(row) != h.sites {
			return nil, fmt.Errorf("%w: row %d has %d sites, space has %d", ErrSizeMismatch, k, len(row), h.sites)
		}
		if out[k], err = idx.stateToNumber(row); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// StatesToLocalIndices converts a batch of configurations into per-site
// digit indices in [0, LocalSize): the position of each eigenvalue within
// the local basis. The output has the same shape as the input. Unlike the
// numbering operations it needs no index materialization, so it works on
// spaces of any size, constrained or not.
//
// Fails with ErrSizeMismatch if a row has the wrong width and with
// ErrStateNotFound if a value is not a local eigenvalue.
func (h *Homogeneous) StatesToLocalIndices(states [][]float64) ([][]int, error) {
	out := make([][]int, len(states))
	for k, row := range states {
		if len(row) != h.sites {
			return nil, fmt.Errorf("%w: row %d has %d sites, space has %d", ErrSizeMismatch, k, len(row), h.sites)
		}
		digits := make([]int, h.sites)
		for i, v := range row {
			d, ok := h.basis.digit(v)
			if !ok {
				return nil, fmt.Errorf("%w: value %g at site %d is not a local eigenvalue", ErrStateNotFound, v, i)
			}
			digits[i] = d
		}
		out[k] = digits
	}

	return out, nil
}

// AllStates returns the full enumeration in increasing number order.
func (h *Homogeneous) AllStates() ([][]float64, error) {
	idx, err := h.hilbertIndex()
	if err != nil {
		return nil, err
	}

	return idx.allStates(), nil
}

// States returns a single-use iterator over the enumeration. Rows are
// decoded on demand; each yielded slice is owned by the consumer.
func (h *Homogeneous) States() (iter.Seq[[]float64], error) {
	idx, err := h.hilbertIndex()
	if err != nil {
		return nil, err
	}

	return func(yield func([]float64) bool) {
		total := idx.nStates()
		for n := 0; n < total; n++ {
			row := make([]float64, h.sites)
			_ = idx.numberToState(n, row)
			if !yield(row) {
				return
			}
		}
	}, nil
}

// hilbertIndex materializes the index engine on first need. The sync.Once
// guard makes concurrent first calls safe; the cached engine (or error) is
// immutable afterwards, for the lifetime of the space.
func (h *Homogeneous) hilbertIndex() (hilbertIndex, error) {
	h.indexOnce.Do(func() {
		// 1) Infinite local spaces can never be enumerated.
		if !h.basis.IsFinite() {
			h.indexErr = fmt.Errorf("%w: local basis is infinite", ErrNotIndexable)

			return
		}
		// 2) The unconstrained envelope must fit below MaxStates even for a
		//    constrained space: construction walks the full enumeration.
		if !indexableShape(h.Shape()) {
			if h.Constrained() {
				h.indexErr = fmt.Errorf("%w: shape %d^%d", ErrCapacity, h.basis.Size(), h.sites)
			} else {
				h.indexErr = fmt.Errorf("%w: shape %d^%d exceeds %d states", ErrNotIndexable, h.basis.Size(), h.sites, MaxStates)
			}

			return
		}
		// 3) Build the cheap closed-form engine, then filter it if needed.
		uniform := newUniformIndex(h.basis, h.sites)
		if !h.Constrained() {
			h.index = uniform

			return
		}
		h.index, h.indexErr = newConstrainedIndex(uniform, h.opts.Constraint, h.opts.FilterBlock, h.opts.FilterDegree)
	})

	return h.index, h.indexErr
}
