package hilbert

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// hilbertIndex is the primitive bidirectional mapping between dense integer
// numbers in [0, nStates) and basis configurations. Concrete engines only
// implement these primitives; validation and batching live in the Space
// wrappers.
type hilbertIndex interface {
	// nStates returns the total number of enumerable configurations.
	nStates() int
	// numberToState decodes number n into out (len(out) == sites).
	numberToState(n int, out []float64) error
	// stateToNumber encodes a configuration into its number.
	stateToNumber(s []float64) (int, error)
	// allStates returns the full enumeration in increasing number order.
	allStates() [][]float64
}

// indexableShape reports whether a shape's total state count fits below
// MaxStates. The product is tested in log-space so that enormous shapes do
// not overflow before the comparison.
func indexableShape(shape []int) bool {
	logMax := math.Log(float64(MaxStates))
	var sum float64
	for _, d := range shape {
		sum += math.Log(float64(d))
	}

	return sum <= logMax
}

// uniformIndex is the unconstrained engine: a pure positional (mixed-radix)
// encoding over LocalBasis^sites. Site 0 is the most significant digit.
// Encode and decode are closed-form, O(sites) per configuration, and the
// engine materializes nothing.
type uniformIndex struct {
	basis LocalBasis
	sites int
	total int
}

// newUniformIndex builds the mixed-radix engine. The caller has already
// verified that the shape is indexable, so the product fits in an int.
func newUniformIndex(basis LocalBasis, sites int) *uniformIndex {
	total := 1
	for i := 0; i < sites; i++ {
		total *= basis.Size()
	}

	return &uniformIndex{basis: basis, sites: sites, total: total}
}

func (u *uniformIndex) nStates() int { return u.total }

func (u *uniformIndex) numberToState(n int, out []float64) error {
	if n < 0 || n >= u.total {
		return fmt.Errorf("%w: number %d, n_states %d", ErrNumberOutOfRange, n, u.total)
	}
	// Peel digits from least significant (last site) to most significant.
	d := u.basis.Size()
	for i := u.sites - 1; i >= 0; i-- {
		out[i] = u.basis.value(n % d)
		n /= d
	}

	return nil
}

func (u *uniformIndex) stateToNumber(s []float64) (int, error) {
	d := u.basis.Size()
	n := 0
	for i, v := range s {
		digit, ok := u.basis.digit(v)
		if !ok {
			return 0, fmt.Errorf("%w: value %g at site %d is not a local eigenvalue", ErrStateNotFound, v, i)
		}
		n = n*d + digit
	}

	return n, nil
}

func (u *uniformIndex) allStates() [][]float64 {
	out := make([][]float64, u.total)
	for n := 0; n < u.total; n++ {
		row := make([]float64, u.sites)
		// Error impossible: n is within range by construction.
		_ = u.numberToState(n, row)
		out[n] = row
	}

	return out
}

// constrainedIndex is the filtered engine: the unconstrained enumeration is
// walked once in increasing number order, the Constraint retains a subset,
// and the survivors are stored contiguously. Because blocks are merged in
// enumeration order, compacted numbers preserve the relative order of the
// underlying unconstrained numbers (stable filter).
//
// Decoding is a table lookup. Encoding re-uses the mixed-radix closed form
// to find the unconstrained number, then a compressed-bitmap rank over the
// surviving numbers yields the compacted number without any hash map.
type constrainedIndex struct {
	uniform *uniformIndex
	valid   *roaring.Bitmap
	table   [][]float64
}

// filterBlock carries one block's worth of candidate configurations and the
// Constraint verdicts for them, pending the ordered merge.
type filterBlock struct {
	states [][]float64
	keep   []bool
}

// newConstrainedIndex materializes the constrained enumeration.
//
// The unconstrained range [0, D) is split into fixed-size blocks; each block
// is decoded and handed to the Constraint as one batch, with up to degree
// blocks in flight concurrently. The Constraint is pure and deterministic by
// contract, so concurrent evaluation cannot change the result; the merge
// walks blocks strictly in order to keep the filter stable.
//
// Cost is O(D·sites) time and memory. The caller has already verified the
// unconstrained envelope is indexable (ErrCapacity otherwise).
func newConstrainedIndex(uniform *uniformIndex, c Constraint, block, degree int) (*constrainedIndex, error) {
	total := uniform.nStates()
	nBlocks := (total + block - 1) / block
	blocks := make([]filterBlock, nBlocks)

	// 1) Decode and test each block concurrently. Block b covers numbers
	//    [b·block, min((b+1)·block, D)).
	var g errgroup.Group
	g.SetLimit(degree)
	for b := 0; b < nBlocks; b++ {
		g.Go(func() error {
			lo := b * block
			hi := min(lo+block, total)
			states := make([][]float64, hi-lo)
			for n := lo; n < hi; n++ {
				row := make([]float64, uniform.sites)
				_ = uniform.numberToState(n, row)
				states[n-lo] = row
			}
			keep := c(states)
			if len(keep) != len(states) {
				return fmt.Errorf("%w: got %d, want %d", ErrConstraintMask, len(keep), len(states))
			}
			blocks[b] = filterBlock{states: states, keep: keep}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 2) Merge blocks in enumeration order: surviving unconstrained numbers
	//    go into the bitmap, their configurations into the compacted table.
	idx := &constrainedIndex{uniform: uniform, valid: roaring.New()}
	for b, fb := range blocks {
		lo := b * block
		for i, ok := range fb.keep {
			if !ok {
				continue
			}
			idx.valid.Add(uint32(lo + i))
			idx.table = append(idx.table, fb.states[i])
		}
	}

	return idx, nil
}

func (ci *constrainedIndex) nStates() int { return len(ci.table) }

func (ci *constrainedIndex) numberToState(n int, out []float64) error {
	if n < 0 || n >= len(ci.table) {
		return fmt.Errorf("%w: number %d, n_states %d", ErrNumberOutOfRange, n, len(ci.table))
	}
	copy(out, ci.table[n])

	return nil
}

func (ci *constrainedIndex) stateToNumber(s []float64) (int, error) {
	// Encode against the unconstrained envelope first.
	u, err := ci.uniform.stateToNumber(s)
	if err != nil {
		return 0, err
	}
	if !ci.valid.Contains(uint32(u)) {
		return 0, fmt.Errorf("%w: configuration %v rejected by constraint", ErrStateNotFound, s)
	}
	// Rank counts surviving numbers ≤ u; the compacted number is rank-1.
	return int(ci.valid.Rank(uint32(u))) - 1, nil
}

func (ci *constrainedIndex) allStates() [][]float64 {
	out := make([][]float64, len(ci.table))
	for i, row := range ci.table {
		cp := make([]float64, len(row))
		copy(cp, row)
		out[i] = cp
	}

	return out
}
