// Package sampler implements chain-based Monte Carlo sampling of discrete
// Hilbert spaces against an externally supplied log-density.
//
// What:
//
//   - Sampler: the capability interface of all samplers, an immutable
//     configuration (space, chain count, density exponent) driving any
//     number of independent State instances.
//   - State: the opaque, exclusively-owned mutable progress of one chain
//     group (configurations, generator, counters).
//   - Metropolis: Metropolis–Hastings chains with pluggable transition
//     rules (LocalRule, ExchangeRule).
//   - Exact: i.i.d. draws from the normalized density of an indexable
//     space, for validating Markov-chain results without autocorrelation.
//   - Init / Reset / Sample / Samples: free functions carrying the shared
//     lifecycle logic; samplers only implement the primitives.
//
// Why:
//
//   - Variational Monte Carlo estimates expectation values over |ψ|^p;
//     direct enumeration is exponential, so configurations are drawn from
//     Markov chains whose stationary distribution is the density.
//   - The density's parameters change every optimization step; the state
//     lifecycle (init → reset → sample…) makes the staleness contract
//     explicit instead of silently sampling a dead distribution.
//
// Lifecycle:
//
//	Init    → State in PhaseInitialized: chains allocated and seeded, not
//	          yet statistically valid.
//	Reset   → State in PhaseReady: configurations freshly drawn, cached
//	          densities consistent with the current parameters. Required
//	          after every parameter change; this is a correctness contract,
//	          not an optimization.
//	Sample  → advances every chain, returns a chainLength × chains × sites
//	          batch plus the updated state; self-loop on PhaseReady.
//
// Complexity (Metropolis): O(chainLength · sweepSize) density evaluations
// per Sample call, each over one chains × sites batch. Exact pays one
// enumeration-sized density evaluation per Reset, then O(log n_states) per
// draw.
//
// Options:
//
//   - WithMachinePow: exponent applied to the density (default 2, |ψ|²).
//   - WithChains / WithChainsPerWorker / WithChainsRounded: chain budget,
//     either total or per cooperating worker.
//   - WithSweepSize: proposals per returned Metropolis sample
//     (default = number of sites).
//   - WithDistContext: explicit rank/worker-count pair for multi-worker
//     runs; defaults to a single worker, so everything is testable without
//     any distributed runtime.
//
// Errors:
//
//   - ErrNilHilbert, ErrNilRule, ErrNilLogPDF, ErrMachinePow, ErrChains:
//     invalid construction arguments, reported at construction, never at
//     sample time.
//   - ErrChainsNotDivisible: total chain count not divisible among workers,
//     reported when the per-worker count is accessed.
//   - ErrInfiniteSpace: Metropolis needs finite local bases to draw initial
//     configurations.
//   - ErrNoConstraintCheck: a constrained space offers no membership check,
//     so Metropolis could not draw valid initial configurations.
//   - ErrBadEdge: an ExchangeRule edge list references a site outside the
//     sampled space.
//   - ErrForeignState: a State sized for a different sampler was passed in.
//   - ErrBadChainLength, ErrBadDensity, ErrEmptySpace, ErrResetExhausted:
//     invalid call arguments or unusable densities, reported synchronously
//     by the call that detects them.
//
// Reproducibility: all randomness flows from the State's own PCG generator.
// Identical seed, parameters and call sequence give bit-identical batches;
// per-worker seeds are derived deterministically from the one logical seed,
// so distributed restarts reproduce every worker's trajectory.
package sampler
