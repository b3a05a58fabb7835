// Package sampler_test contains unit tests for the sampler lifecycle,
// construction validation, chain accounting and reproducibility guarantees.
package sampler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hilmc/hilmc/hilbert"
	"github.com/hilmc/hilmc/sampler"
)

// flatLogPDF is the uniform density: every configuration gets log-weight 0.
func flatLogPDF(params []float64, states [][]float64) []float64 {
	return make([]float64, len(states))
}

// fieldLogPDF weights each configuration by params[0] times its site sum,
// a toy "machine" whose parameter tilts the magnetization.
func fieldLogPDF(params []float64, states [][]float64) []float64 {
	out := make([]float64, len(states))
	for i, row := range states {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		out[i] = params[0] * sum
	}

	return out
}

func spinChain(t *testing.T, n int) *hilbert.Homogeneous {
	t.Helper()
	h, err := hilbert.NewSpin(0.5, n)
	require.NoError(t, err)

	return h
}

// ------------------------------------------------------------------------
// 1. Construction validation: all failures are immediate, never deferred.
// ------------------------------------------------------------------------

func TestNewMetropolis_Validation(t *testing.T) {
	h := spinChain(t, 4)

	_, err := sampler.NewMetropolis(nil, sampler.LocalRule{})
	require.ErrorIs(t, err, sampler.ErrNilHilbert)

	_, err = sampler.NewMetropolis(h, nil)
	require.ErrorIs(t, err, sampler.ErrNilRule)

	_, err = sampler.NewMetropolis(h, sampler.LocalRule{}, sampler.WithMachinePow(0))
	require.ErrorIs(t, err, sampler.ErrMachinePow)

	_, err = sampler.NewMetropolis(h, sampler.LocalRule{}, sampler.WithChains(-2))
	require.ErrorIs(t, err, sampler.ErrChains)

	inf, err := hilbert.NewHomogeneous(hilbert.UnboundedBasis(), 3)
	require.NoError(t, err)
	_, err = sampler.NewMetropolis(inf, sampler.LocalRule{})
	require.ErrorIs(t, err, sampler.ErrInfiniteSpace)
}

func TestNewExact_RequiresIndexable(t *testing.T) {
	big := spinChain(t, 40) // 2^40 states, over the ceiling
	_, err := sampler.NewExact(big)
	require.ErrorIs(t, err, hilbert.ErrNotIndexable)
}

func TestOptionPanics(t *testing.T) {
	h := spinChain(t, 2)
	require.Panics(t, func() {
		_, _ = sampler.NewMetropolis(h, sampler.LocalRule{}, sampler.WithSweepSize(0))
	})
	require.Panics(t, func() {
		_, _ = sampler.NewMetropolis(h, sampler.LocalRule{},
			sampler.WithDistContext(sampler.DistContext{Rank: 3, Workers: 2}))
	})
}

// ------------------------------------------------------------------------
// 2. Chain accounting across workers.
// ------------------------------------------------------------------------

func TestChainsPerWorker_Divisible(t *testing.T) {
	h := spinChain(t, 2)
	s, err := sampler.NewMetropolis(h, sampler.LocalRule{},
		sampler.WithChains(6),
		sampler.WithDistContext(sampler.DistContext{Rank: 1, Workers: 2}))
	require.NoError(t, err)
	require.Equal(t, 6, s.NChains())

	per, err := s.ChainsPerWorker()
	require.NoError(t, err)
	require.Equal(t, 3, per)
}

func TestChainsPerWorker_NotDivisible(t *testing.T) {
	// The divisibility failure surfaces at the per-worker access, and through
	// Init, which needs the per-worker count to allocate chains.
	h := spinChain(t, 2)
	s, err := sampler.NewMetropolis(h, sampler.LocalRule{},
		sampler.WithChains(5),
		sampler.WithDistContext(sampler.DistContext{Rank: 0, Workers: 2}))
	require.NoError(t, err)

	_, err = s.ChainsPerWorker()
	require.ErrorIs(t, err, sampler.ErrChainsNotDivisible)

	_, err = sampler.Init(s, flatLogPDF, nil, 7)
	require.ErrorIs(t, err, sampler.ErrChainsNotDivisible)
}

func TestChainsRounded_Fallback(t *testing.T) {
	// The documented fallback rounds the requested total up to a worker
	// multiple instead of failing.
	h := spinChain(t, 2)
	s, err := sampler.NewMetropolis(h, sampler.LocalRule{},
		sampler.WithChainsRounded(5),
		sampler.WithDistContext(sampler.DistContext{Rank: 0, Workers: 2}))
	require.NoError(t, err)
	require.Equal(t, 6, s.NChains())

	per, err := s.ChainsPerWorker()
	require.NoError(t, err)
	require.Equal(t, 3, per)
}

func TestChainsPerWorker_Explicit(t *testing.T) {
	h := spinChain(t, 2)
	s, err := sampler.NewMetropolis(h, sampler.LocalRule{},
		sampler.WithChainsPerWorker(4),
		sampler.WithDistContext(sampler.DistContext{Rank: 0, Workers: 3}))
	require.NoError(t, err)
	require.Equal(t, 12, s.NChains())

	per, err := s.ChainsPerWorker()
	require.NoError(t, err)
	require.Equal(t, 4, per)
}

// ------------------------------------------------------------------------
// 3. Lifecycle: phases, auto-reset, ownership.
// ------------------------------------------------------------------------

func TestLifecycle_Phases(t *testing.T) {
	h := spinChain(t, 4)
	s, err := sampler.NewMetropolis(h, sampler.LocalRule{}, sampler.WithChainsPerWorker(2))
	require.NoError(t, err)

	st, err := sampler.Init(s, flatLogPDF, nil, 42)
	require.NoError(t, err)
	require.Equal(t, sampler.PhaseInitialized, st.Phase())
	require.Equal(t, 2, st.NChains())

	st, err = sampler.Reset(s, flatLogPDF, nil, st)
	require.NoError(t, err)
	require.Equal(t, sampler.PhaseReady, st.Phase())

	batch, st2, err := sampler.Sample(s, flatLogPDF, nil, st, 3)
	require.NoError(t, err)
	require.Same(t, st, st2)
	require.Len(t, batch, 3)
	require.Len(t, batch[0], 2)
	require.Len(t, batch[0][0], 4)
}

func TestSample_NilStateAutoResets(t *testing.T) {
	h := spinChain(t, 3)
	s, err := sampler.NewMetropolis(h, sampler.LocalRule{})
	require.NoError(t, err)

	batch, st, err := sampler.Sample(s, flatLogPDF, nil, nil, 2)
	require.NoError(t, err)
	require.NotNil(t, st)
	require.Equal(t, sampler.PhaseReady, st.Phase())
	require.Len(t, batch, 2)
}

func TestSample_Validation(t *testing.T) {
	h := spinChain(t, 3)
	s, err := sampler.NewMetropolis(h, sampler.LocalRule{})
	require.NoError(t, err)

	_, _, err = sampler.Sample(s, nil, nil, nil, 1)
	require.ErrorIs(t, err, sampler.ErrNilLogPDF)
	_, _, err = sampler.Sample(s, flatLogPDF, nil, nil, 0)
	require.ErrorIs(t, err, sampler.ErrBadChainLength)
}

func TestForeignState(t *testing.T) {
	h := spinChain(t, 3)
	two, err := sampler.NewMetropolis(h, sampler.LocalRule{}, sampler.WithChainsPerWorker(2))
	require.NoError(t, err)
	four, err := sampler.NewMetropolis(h, sampler.LocalRule{}, sampler.WithChainsPerWorker(4))
	require.NoError(t, err)

	st, err := sampler.Init(two, flatLogPDF, nil, 1)
	require.NoError(t, err)
	_, _, err = sampler.Sample(four, flatLogPDF, nil, st, 1)
	require.ErrorIs(t, err, sampler.ErrForeignState)
}

func TestBadDensityLength(t *testing.T) {
	h := spinChain(t, 3)
	s, err := sampler.NewMetropolis(h, sampler.LocalRule{}, sampler.WithChainsPerWorker(2))
	require.NoError(t, err)

	short := func(params []float64, states [][]float64) []float64 { return []float64{0} }
	_, err = sampler.Reset(s, short, nil, nil)
	require.ErrorIs(t, err, sampler.ErrBadDensity)
}

// ------------------------------------------------------------------------
// 4. Reproducibility and worker seed diversification.
// ------------------------------------------------------------------------

func TestReproducibility_SameSeedSameBatches(t *testing.T) {
	h := spinChain(t, 5)
	s, err := sampler.NewMetropolis(h, sampler.LocalRule{}, sampler.WithChainsPerWorker(3))
	require.NoError(t, err)

	run := func() [][][]float64 {
		st, err := sampler.Init(s, fieldLogPDF, []float64{0.3}, 12345)
		require.NoError(t, err)
		st, err = sampler.Reset(s, fieldLogPDF, []float64{0.3}, st)
		require.NoError(t, err)
		batch, _, err := sampler.Sample(s, fieldLogPDF, []float64{0.3}, st, 10)
		require.NoError(t, err)

		return batch
	}

	require.Equal(t, run(), run(), "identical seed and call sequence must be bit-identical")
}

func TestSeedDiversification_PerWorker(t *testing.T) {
	h := spinChain(t, 5)
	batchFor := func(rank int) [][][]float64 {
		s, err := sampler.NewMetropolis(h, sampler.LocalRule{},
			sampler.WithChainsPerWorker(2),
			sampler.WithDistContext(sampler.DistContext{Rank: rank, Workers: 2}))
		require.NoError(t, err)
		st, err := sampler.Init(s, flatLogPDF, nil, 99)
		require.NoError(t, err)
		st, err = sampler.Reset(s, flatLogPDF, nil, st)
		require.NoError(t, err)
		batch, _, err := sampler.Sample(s, flatLogPDF, nil, st, 5)
		require.NoError(t, err)

		return batch
	}

	// Same nominal seed: each rank deterministic, ranks mutually distinct.
	require.Equal(t, batchFor(0), batchFor(0))
	require.Equal(t, batchFor(1), batchFor(1))
	require.NotEqual(t, batchFor(0), batchFor(1))
}

// ------------------------------------------------------------------------
// 5. The lazy Samples sequence.
// ------------------------------------------------------------------------

func TestSamples_YieldsSingleStepBatches(t *testing.T) {
	h := spinChain(t, 4)
	s, err := sampler.NewMetropolis(h, sampler.LocalRule{}, sampler.WithChainsPerWorker(2))
	require.NoError(t, err)
	st, err := sampler.Reset(s, flatLogPDF, nil, nil)
	require.NoError(t, err)

	count := 0
	for batch, err := range sampler.Samples(s, flatLogPDF, nil, st, 7) {
		require.NoError(t, err)
		require.Len(t, batch, 2)
		require.Len(t, batch[0], 4)
		count++
	}
	require.Equal(t, 7, count)
}

func TestSamples_ConsumesSharedState(t *testing.T) {
	// The generator advances the caller's state: a Samples loop of 3 steps
	// followed by Sample(2) must replay exactly as a single Sample(5).
	h := spinChain(t, 4)
	s, err := sampler.NewMetropolis(h, sampler.LocalRule{})
	require.NoError(t, err)

	prepare := func() *sampler.State {
		st, err := sampler.Init(s, flatLogPDF, nil, 2024)
		require.NoError(t, err)
		st, err = sampler.Reset(s, flatLogPDF, nil, st)
		require.NoError(t, err)

		return st
	}

	st := prepare()
	var split [][][]float64
	for batch, err := range sampler.Samples(s, flatLogPDF, nil, st, 3) {
		require.NoError(t, err)
		split = append(split, batch)
	}
	tail, _, err := sampler.Sample(s, flatLogPDF, nil, st, 2)
	require.NoError(t, err)
	split = append(split, tail...)

	whole, _, err := sampler.Sample(s, flatLogPDF, nil, prepare(), 5)
	require.NoError(t, err)
	require.Equal(t, whole, split)
}
