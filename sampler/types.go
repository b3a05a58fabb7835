package sampler

import (
	"errors"

	"github.com/hilmc/hilmc/hilbert"
)

// Sentinel errors returned by the sampler package.
var (
	// ErrNilHilbert indicates that a sampler was constructed without a space.
	ErrNilHilbert = errors.New("sampler: hilbert space is nil")

	// ErrNilRule indicates that a Metropolis sampler was constructed without
	// a transition rule.
	ErrNilRule = errors.New("sampler: transition rule is nil")

	// ErrNilLogPDF indicates that a lifecycle call received a nil density.
	ErrNilLogPDF = errors.New("sampler: log-density function is nil")

	// ErrMachinePow indicates a non-positive density exponent.
	ErrMachinePow = errors.New("sampler: machine power must be a positive integer")

	// ErrChains indicates a non-positive chain count.
	ErrChains = errors.New("sampler: chain count must be at least 1")

	// ErrChainsNotDivisible indicates that the total chain count cannot be
	// split evenly among the cooperating workers.
	ErrChainsNotDivisible = errors.New("sampler: chain count not divisible among workers")

	// ErrInfiniteSpace indicates a Metropolis sampler over a space whose
	// local bases are infinite, so initial configurations cannot be drawn.
	ErrInfiniteSpace = errors.New("sampler: space has infinite local bases")

	// ErrForeignState indicates a State whose shape does not match the
	// sampler it was passed to.
	ErrForeignState = errors.New("sampler: state does not belong to this sampler")

	// ErrBadChainLength indicates a Sample call with chainLength < 1.
	ErrBadChainLength = errors.New("sampler: chain length must be at least 1")

	// ErrBadDensity indicates that the density returned a batch of the wrong
	// length, or values from which no distribution can be formed.
	ErrBadDensity = errors.New("sampler: invalid log-density output")

	// ErrEmptySpace indicates an exact sampler over a space with zero valid
	// configurations.
	ErrEmptySpace = errors.New("sampler: space holds no valid configurations")

	// ErrNoConstraintCheck indicates a constrained space that cannot verify
	// configuration membership, so valid initial draws cannot be produced.
	ErrNoConstraintCheck = errors.New("sampler: constrained space provides no constraint check")

	// ErrBadEdge indicates a transition rule carrying an edge whose site
	// indices do not address the sampled space.
	ErrBadEdge = errors.New("sampler: rule edge references an invalid site")

	// ErrResetExhausted indicates that rejection sampling of an initial
	// configuration failed too many times; the constraint is likely too
	// tight for uniform draws, and the caller should seed chains explicitly.
	ErrResetExhausted = errors.New("sampler: could not draw a valid initial configuration")
)

// LogPDF is the external density contract: given the variational parameters
// and a batch of configurations it returns the batch of log-densities, one
// per row, in row order. It must be pure (no hidden state) and batchable;
// the sampler applies its machine power on top of the returned values.
type LogPDF func(params []float64, states [][]float64) []float64

// DistContext identifies this worker within a group of cooperating workers.
// It is passed explicitly instead of read from ambient global state, so the
// sampler core is testable single-process without any distributed runtime.
// Each worker owns an independent, non-overlapping subset of chains; the
// final sample reduction belongs to the caller.
type DistContext struct {
	// Rank is this worker's index, 0 ≤ Rank < Workers.
	Rank int
	// Workers is the total number of cooperating workers, ≥ 1.
	Workers int
}

// SingleWorker returns the DistContext of a non-distributed run.
func SingleWorker() DistContext { return DistContext{Rank: 0, Workers: 1} }

// valid reports whether the context describes a coherent worker group.
func (c DistContext) valid() bool {
	return c.Workers >= 1 && c.Rank >= 0 && c.Rank < c.Workers
}

// defaultMachinePow is the density exponent of Born-rule sampling (|ψ|²).
const defaultMachinePow = 2

// Options configures sampler construction.
//
// MachinePow      – exponent applied to the supplied log-density.
// Chains          – requested total chain count across all workers.
// ChainsPerWorker – per-worker chain count; mutually exclusive with Chains.
// RoundChains     – round a non-divisible total up instead of failing.
// SweepSize       – Metropolis proposals per returned sample (0 = one per site).
// Ctx             – worker identity, defaults to SingleWorker.
type Options struct {
	MachinePow      int
	Chains          int
	ChainsPerWorker int
	RoundChains     bool
	SweepSize       int
	Ctx             DistContext
}

// Option represents a functional option for configuring a sampler.
type Option func(*Options)

// WithMachinePow sets the exponent applied to the density. The default of 2
// samples |ψ|²; 1 samples |ψ| (used by some estimators). Validated at
// sampler construction: non-positive values fail with ErrMachinePow.
func WithMachinePow(p int) Option {
	return func(o *Options) {
		o.MachinePow = p
	}
}

// WithChains requests n chains in total across all cooperating workers.
// If n is not divisible by the worker count, accessing the per-worker count
// fails with ErrChainsNotDivisible; use WithChainsRounded for the rounding
// fallback, or WithChainsPerWorker for direct per-worker control.
func WithChains(n int) Option {
	return func(o *Options) {
		o.Chains = n
		o.ChainsPerWorker = 0
		o.RoundChains = false
	}
}

// WithChainsRounded requests n chains in total, rounding up to the next
// multiple of the worker count when n is not evenly divisible. The effective
// total is visible through NChains.
func WithChainsRounded(n int) Option {
	return func(o *Options) {
		o.Chains = n
		o.ChainsPerWorker = 0
		o.RoundChains = true
	}
}

// WithChainsPerWorker requests exactly n chains on every worker, for a total
// of n × workers. This never fails the divisibility check.
func WithChainsPerWorker(n int) Option {
	return func(o *Options) {
		o.ChainsPerWorker = n
		o.Chains = 0
		o.RoundChains = false
	}
}

// WithSweepSize sets how many Metropolis proposals are attempted between two
// returned samples. Must be positive; invalid values panic when applied.
// Defaults to the number of sites, so consecutive samples differ by roughly
// one attempted move per site.
func WithSweepSize(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic("sampler: WithSweepSize requires a positive sweep size")
		}
		o.SweepSize = n
	}
}

// WithDistContext sets the worker identity for multi-worker runs.
// An incoherent context (Workers < 1 or Rank outside [0, Workers)) panics
// when applied.
func WithDistContext(ctx DistContext) Option {
	return func(o *Options) {
		if !ctx.valid() {
			panic("sampler: WithDistContext requires 0 <= Rank < Workers")
		}
		o.Ctx = ctx
	}
}

// DefaultOptions returns the Options used when no functional options are
// supplied: machine power 2, one chain per worker, single worker, sweep size
// derived from the space.
func DefaultOptions() Options {
	return Options{
		MachinePow:      defaultMachinePow,
		Chains:          0,
		ChainsPerWorker: 1,
		RoundChains:     false,
		SweepSize:       0,
		Ctx:             SingleWorker(),
	}
}

// Sampler is the capability interface of all chain-group descriptors.
// A Sampler is immutable configuration: it owns no mutable progress, so one
// descriptor may drive many independent State instances. Implementations
// provide the three lifecycle primitives; the shared pre/post-processing
// lives in the free functions Init, Reset, Sample and Samples.
type Sampler interface {
	// Hilbert returns the sampled space.
	Hilbert() hilbert.Space

	// NChains returns the total chain count across all workers.
	NChains() int

	// ChainsPerWorker returns this worker's chain count, or
	// ErrChainsNotDivisible if the total cannot be split evenly.
	ChainsPerWorker() (int, error)

	// MachinePow returns the exponent applied to the density.
	MachinePow() int

	// IsExact reports whether every batch is i.i.d. according to the chosen
	// power of the density, with no correlation between samples. Markov
	// chain samplers return false.
	IsExact() bool

	// context returns the worker identity the sampler was built with.
	context() DistContext

	// initState allocates this worker's chain state from a derived seed.
	initState(logpdf LogPDF, params []float64, seed uint64) (*State, error)

	// reset redraws the chain configurations and refreshes every cached
	// quantity so the state is consistent with the current parameters.
	reset(logpdf LogPDF, params []float64, st *State) error

	// sampleChain advances every chain chainLength steps, appending nothing:
	// it returns the chainLength × chains × sites batch and mutates st.
	sampleChain(logpdf LogPDF, params []float64, st *State, chainLength int) ([][][]float64, error)
}
