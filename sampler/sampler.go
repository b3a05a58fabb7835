package sampler

import (
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/hilmc/hilmc/hilbert"
)

// config carries the immutable descriptor fields common to every sampler:
// the space, the density exponent and the chain budget. Concrete samplers
// embed it and add their own knobs.
type config struct {
	hi          hilbert.Space
	machinePow  int
	totalChains int
	ctx         DistContext
}

// newConfig validates the shared construction arguments. Every failure is
// reported here, at construction, never lazily at sample time.
func newConfig(hi hilbert.Space, cfg Options) (config, error) {
	// 1) The space is the one mandatory collaborator.
	if hi == nil {
		return config{}, ErrNilHilbert
	}

	// 2) The density exponent must be a positive integer.
	if cfg.MachinePow < 1 {
		return config{}, fmt.Errorf("%w: got %d", ErrMachinePow, cfg.MachinePow)
	}

	// 3) Resolve the chain budget. Per-worker counts multiply out to the
	//    total; requested totals are kept as-is (divisibility is checked at
	//    ChainsPerWorker access) unless the rounding fallback was chosen.
	total := 0
	switch {
	case cfg.ChainsPerWorker > 0:
		total = cfg.ChainsPerWorker * cfg.Ctx.Workers
	case cfg.Chains > 0:
		total = cfg.Chains
		if cfg.RoundChains {
			w := cfg.Ctx.Workers
			total = (total + w - 1) / w * w
		}
	default:
		return config{}, fmt.Errorf("%w: got %d", ErrChains, max(cfg.Chains, cfg.ChainsPerWorker))
	}

	return config{hi: hi, machinePow: cfg.MachinePow, totalChains: total, ctx: cfg.Ctx}, nil
}

// Hilbert returns the sampled space.
func (c *config) Hilbert() hilbert.Space { return c.hi }

// NChains returns the total chain count across all workers.
func (c *config) NChains() int { return c.totalChains }

// MachinePow returns the exponent applied to the density.
func (c *config) MachinePow() int { return c.machinePow }

// ChainsPerWorker returns this worker's share of the chains.
// Fails with ErrChainsNotDivisible if the total does not split evenly;
// detected here, at the access, because the total may have been requested
// directly via WithChains.
func (c *config) ChainsPerWorker() (int, error) {
	per, rem := c.totalChains/c.ctx.Workers, c.totalChains%c.ctx.Workers
	if rem != 0 {
		return 0, fmt.Errorf("%w: %d chains among %d workers", ErrChainsNotDivisible, c.totalChains, c.ctx.Workers)
	}

	return per, nil
}

func (c *config) context() DistContext { return c.ctx }

// Init creates the structure holding the state of the sampler.
//
// If a seed is given, runs are reproducible: the logical seed is mixed with
// the worker rank, so every cooperating worker derives a distinct but
// deterministic generator. Without a seed, one is drawn from process
// entropy.
//
// The returned state is in PhaseInitialized; it is not guaranteed to be a
// statistically valid starting point until Reset is called.
func Init(s Sampler, logpdf LogPDF, params []float64, seed ...uint64) (*State, error) {
	if logpdf == nil {
		return nil, ErrNilLogPDF
	}
	root := rand.Uint64()
	if len(seed) > 0 {
		root = seed[0]
	}

	return s.initState(logpdf, params, deriveSeed(root, s.context().Rank))
}

// Reset produces a PhaseReady state whose chain configurations are valid
// draws consistent with the current parameters. It must be called whenever
// the density's parameters change: the chain positions and cached
// log-densities are stale otherwise, which corrupts every subsequent sample.
// This is a correctness contract, not an optimization.
//
// If st is nil, a fresh state is initialized first (with an entropy seed).
func Reset(s Sampler, logpdf LogPDF, params []float64, st *State) (*State, error) {
	if logpdf == nil {
		return nil, ErrNilLogPDF
	}
	if st == nil {
		var err error
		if st, err = Init(s, logpdf, params); err != nil {
			return nil, err
		}
	}
	if err := s.reset(logpdf, params, st); err != nil {
		return nil, err
	}

	return st, nil
}

// Sample advances every chain by chainLength steps and returns the sampled
// batch, shaped chainLength × chains × sites, together with the updated
// state.
//
// If st is nil the sampler transparently resets first, a documented
// convenience for one-shot sampling rather than error masking: any reset
// failure is returned as-is. Given the same density, parameters, state and chain
// length, the output is fully determined by the state's own generator.
func Sample(s Sampler, logpdf LogPDF, params []float64, st *State, chainLength int) ([][][]float64, *State, error) {
	if logpdf == nil {
		return nil, nil, ErrNilLogPDF
	}
	if chainLength < 1 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrBadChainLength, chainLength)
	}
	if st == nil {
		var err error
		if st, err = Reset(s, logpdf, params, nil); err != nil {
			return nil, nil, err
		}
	}
	batch, err := s.sampleChain(logpdf, params, st, chainLength)
	if err != nil {
		return nil, nil, err
	}

	return batch, st, nil
}

// Samples returns a lazy, single-pass sequence of chainLength single-step
// batches (each chains × sites). Advancing the sequence consumes one chain
// step; it cannot be rewound, so call Sample or Reset again to start over.
// A failure is yielded once as the final element.
func Samples(s Sampler, logpdf LogPDF, params []float64, st *State, chainLength int) iter.Seq2[[][]float64, error] {
	return func(yield func([][]float64, error) bool) {
		state := st
		if state == nil {
			var err error
			if state, err = Reset(s, logpdf, params, nil); err != nil {
				yield(nil, err)

				return
			}
		}
		for i := 0; i < chainLength; i++ {
			batch, _, err := Sample(s, logpdf, params, state, 1)
			if err != nil {
				yield(nil, err)

				return
			}
			if !yield(batch[0], nil) {
				return
			}
		}
	}
}
