// Package hilbert models finite, discrete many-body Hilbert spaces and the
// combinatorial bijection between basis configurations and dense integer
// indices.
//
// What:
//
//   - LocalBasis: the ordered set of eigenvalues available at every site.
//   - Homogeneous: a product space LocalBasis^N, optionally restricted by a
//     Constraint predicate (fixed magnetization, fixed particle number, …).
//   - Space: the capability interface shared by all discrete spaces
//     (shape, indexability, enumeration, number↔state conversion).
//   - TensorProduct / Mul / Pow: composition of spaces with row-major
//     composite numbering.
//
// Why:
//
//   - Exact summation: variational Monte Carlo codes need the full basis
//     enumeration to compute expectation values without sampling noise.
//   - Operator matrices: building a Hamiltonian matrix requires mapping each
//     basis configuration to a dense row index and back.
//   - Constrained physics: conservation laws (total spin, particle number)
//     restrict the physical space to a thin slice of the full product space.
//
// Complexity:
//
//   - NumbersToStates / StatesToNumbers (unconstrained): O(N) per row
//     via mixed-radix arithmetic, no materialization.
//   - Constrained index construction: O(D·N) time and memory where
//     D = product(shape) is the unconstrained envelope; performed once,
//     on first need, and cached for the lifetime of the space.
//   - StatesToNumbers (constrained): O(N + log D) per row
//     (mixed-radix encode + compressed-bitmap rank).
//   - AllStates: O(n_states·N).
//   - StatesToLocalIndices: O(N) per row, no materialization.
//
// Options:
//
//   - WithConstraint: restrict a Homogeneous space to configurations
//     accepted by a batch predicate.
//   - WithFilterBlock: block size used when the constrained enumeration is
//     filtered (predicate calls are batched per block).
//
// Errors:
//
//   - ErrEmptyBasis, ErrDuplicateState, ErrBadSpin, ErrBadSites,
//     ErrBadOccupation: malformed construction arguments.
//   - ErrCapacity: the unconstrained envelope exceeds the 2^31-1 indexing
//     ceiling, so no enumeration can be materialized.
//   - ErrNotIndexable: an indexing operation was attempted on a space that
//     is infinite or too large to index.
//   - ErrNumberOutOfRange, ErrStateNotFound, ErrSizeMismatch: invalid
//     arguments to encode/decode calls.
//   - ErrConstraintMask: a Constraint returned a mask of the wrong length.
//
// Indexing convention: site 0 is the most significant digit, so for an
// unconstrained space the configuration (v_0, …, v_{N-1}) maps to
// idx(v_0)·d^(N-1) + … + idx(v_{N-1}), with d the local dimension. A
// constrained space keeps the relative order of the surviving unconstrained
// indices (stable filter), so enumeration order is reproducible.
package hilbert
