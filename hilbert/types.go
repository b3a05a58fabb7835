package hilbert

import (
	"errors"
	"math"
	"runtime"
)

// Sentinel errors returned by the hilbert package.
var (
	// ErrEmptyBasis indicates that a local basis was constructed with no eigenvalues.
	ErrEmptyBasis = errors.New("hilbert: local basis must contain at least one eigenvalue")

	// ErrDuplicateState indicates that a local basis contains the same eigenvalue twice.
	ErrDuplicateState = errors.New("hilbert: local basis eigenvalues must be distinct")

	// ErrBadSpin indicates that a spin quantum number is not a positive multiple of 1/2.
	ErrBadSpin = errors.New("hilbert: spin must be a positive multiple of 1/2")

	// ErrBadSites indicates that a space was requested with fewer than one site.
	ErrBadSites = errors.New("hilbert: number of sites must be at least 1")

	// ErrBadOccupation indicates a Fock space with a non-positive maximum
	// occupation number.
	ErrBadOccupation = errors.New("hilbert: maximum occupation must be at least 1")

	// ErrNilSpace indicates that a nil Space operand was passed to a composition.
	ErrNilSpace = errors.New("hilbert: space operand is nil")

	// ErrBadPower indicates that Pow was called with an exponent below 1.
	ErrBadPower = errors.New("hilbert: tensor power must be at least 1")

	// ErrNotIndexable indicates an indexing operation on a space that is
	// infinite, or whose state count exceeds the indexing ceiling.
	ErrNotIndexable = errors.New("hilbert: space is not indexable")

	// ErrCapacity indicates that the unconstrained envelope of a constrained
	// space exceeds MaxStates, so its enumeration cannot be materialized even
	// if the constrained count itself would be small.
	ErrCapacity = errors.New("hilbert: unconstrained envelope exceeds indexing capacity")

	// ErrNumberOutOfRange indicates that a basis-state number is negative or
	// not below NStates.
	ErrNumberOutOfRange = errors.New("hilbert: basis-state number out of range")

	// ErrStateNotFound indicates that a configuration does not belong to the
	// space (unknown local value, or rejected by the constraint).
	ErrStateNotFound = errors.New("hilbert: configuration not in space")

	// ErrSizeMismatch indicates that a configuration row has the wrong number
	// of sites for this space.
	ErrSizeMismatch = errors.New("hilbert: configuration size does not match space size")

	// ErrConstraintMask indicates that a Constraint returned a boolean mask
	// whose length differs from the batch it was given.
	ErrConstraintMask = errors.New("hilbert: constraint returned mask of wrong length")
)

// MaxStates is the indexing capacity ceiling: the largest number of basis
// states a space may have and still admit a dense integer enumeration.
const MaxStates = math.MaxInt32

// ConstraintChecker is the optional capability of spaces that can test
// configurations against their constraint without materializing the
// enumeration. Homogeneous and TensorProduct both implement it; samplers
// use it to draw valid initial chain configurations on constrained spaces.
type ConstraintChecker interface {
	// CheckConstraint reports, row by row, whether each configuration
	// belongs to the space. Row width must equal the space size.
	CheckConstraint(states [][]float64) []bool
}

// Constraint is a pure batch predicate over configurations. Given a batch of
// candidate configurations (one row per configuration, one column per site)
// it reports, row by row, whether each configuration belongs to the space.
//
// A Constraint must be deterministic and side-effect free: index engines
// cache the enumeration it produces, so the same input must always yield the
// same output. Callers batch invocations; a Constraint should therefore be
// written to vectorize over its rows rather than assume per-row calls.
type Constraint func(states [][]float64) []bool

// WithTotalSum returns a Constraint accepting configurations whose site
// values sum to total (within a small absolute tolerance). This expresses the
// usual population constraints: fixed magnetization for spin spaces, fixed
// particle number for occupation-number spaces.
func WithTotalSum(total float64) Constraint {
	return func(states [][]float64) []bool {
		ok := make([]bool, len(states))
		var sum float64
		for i, row := range states {
			sum = 0
			for _, v := range row {
				sum += v
			}
			ok[i] = math.Abs(sum-total) <= sumTolerance
		}

		return ok
	}
}

// sumTolerance absorbs float accumulation error in WithTotalSum.
const sumTolerance = 1e-9

// defaultFilterBlock is the number of unconstrained indices decoded and
// tested per Constraint call while building a constrained index.
const defaultFilterBlock = 4096

// Options configures construction of a Homogeneous space.
//
// Constraint   – optional batch predicate restricting the space (nil = unconstrained).
// FilterBlock  – batch size per Constraint call during index construction.
// Filterdegree – number of concurrent filter workers (defaults to GOMAXPROCS).
type Options struct {
	Constraint   Constraint
	FilterBlock  int
	FilterDegree int
}

// Option represents a functional option for configuring a Homogeneous space.
type Option func(*Options)

// WithConstraint restricts the space to configurations accepted by c.
// Passing a nil Constraint is a programming error and panics immediately.
func WithConstraint(c Constraint) Option {
	return func(o *Options) {
		if c == nil {
			panic("hilbert: WithConstraint requires a non-nil Constraint")
		}
		o.Constraint = c
	}
}

// WithFilterBlock sets the batch size used per Constraint call while the
// constrained enumeration is built. Must be positive; invalid values panic.
func WithFilterBlock(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic("hilbert: WithFilterBlock requires a positive block size")
		}
		o.FilterBlock = n
	}
}

// WithFilterDegree caps the number of concurrent workers evaluating the
// Constraint during index construction. Must be positive; invalid values panic.
func WithFilterDegree(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic("hilbert: WithFilterDegree requires a positive worker count")
		}
		o.FilterDegree = n
	}
}

// DefaultOptions returns the Options used when no functional options are
// supplied: unconstrained, defaultFilterBlock rows per predicate call, and
// one filter worker per available CPU.
func DefaultOptions() Options {
	return Options{
		Constraint:   nil,
		FilterBlock:  defaultFilterBlock,
		FilterDegree: runtime.GOMAXPROCS(0),
	}
}
