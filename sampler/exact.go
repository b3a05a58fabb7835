package sampler

import (
	"fmt"
	"math"
	"sort"

	"github.com/hilmc/hilmc/hilbert"
)

// Exact samples an indexable space exactly: every draw is independent and
// distributed according to the normalized machine-power density over the
// full enumeration. There is no autocorrelation and no equilibration
// (IsExact is true), at the cost of one enumeration-sized density
// evaluation per Reset and memory linear in the number of states.
//
// Exact is the reference against which Markov-chain samplers are validated,
// and a practical sampler in its own right on small spaces.
type Exact struct {
	config
}

// NewExact constructs an exact sampler over hi.
//
// The space must satisfy the full indexing capability set: construction
// fails immediately with hilbert.ErrNotIndexable (wrapped) when hi cannot
// be enumerated, with ErrNilHilbert, ErrMachinePow or ErrChains for the
// other invalid arguments.
func NewExact(hi hilbert.Space, opts ...Option) (*Exact, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	base, err := newConfig(hi, cfg)
	if err != nil {
		return nil, err
	}
	if !hi.IsIndexable() {
		return nil, fmt.Errorf("sampler: exact sampling requires enumeration: %w", hilbert.ErrNotIndexable)
	}

	return &Exact{config: base}, nil
}

// IsExact reports true: every sample is an i.i.d. draw from the normalized
// density.
func (e *Exact) IsExact() bool { return true }

// initState allocates this worker's chain slots and generator. The
// distribution caches are left empty: they depend on the parameters and are
// built by Reset.
func (e *Exact) initState(logpdf LogPDF, params []float64, seed uint64) (*State, error) {
	chains, err := e.ChainsPerWorker()
	if err != nil {
		return nil, err
	}
	st := &State{
		configs: make([][]float64, chains),
		logp:    make([]float64, chains),
		rng:     newStateRNG(seed),
		phase:   PhaseInitialized,
	}
	for c := range st.configs {
		st.configs[c] = make([]float64, e.hi.Size())
	}

	return st, nil
}

// reset rebuilds the sampling distribution for the current parameters:
// the full enumeration is evaluated in one density batch, exponentiated at
// the machine power and accumulated into a normalized CDF.
func (e *Exact) reset(logpdf LogPDF, params []float64, st *State) error {
	if err := e.ownState(st); err != nil {
		return err
	}

	// 1) Materialize the enumeration (cached inside the space after the
	//    first call).
	table, err := e.hi.AllStates()
	if err != nil {
		return err
	}
	if len(table) == 0 {
		return fmt.Errorf("%w: nothing to sample", ErrEmptySpace)
	}

	// 2) One density evaluation over the whole basis.
	lp := logpdf(params, table)
	if len(lp) != len(table) {
		return fmt.Errorf("%w: got %d values for %d states", ErrBadDensity, len(lp), len(table))
	}

	// 3) Exponentiate at the machine power, shifted by the maximum so the
	//    largest weight is exactly 1 and nothing underflows to all-zero.
	maxLP := lp[0]
	for _, v := range lp[1:] {
		if v > maxLP {
			maxLP = v
		}
	}
	pow := float64(e.machinePow)
	cdf := make([]float64, len(lp))
	total := 0.0
	for i, v := range lp {
		total += math.Exp(pow * (v - maxLP))
		cdf[i] = total
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return fmt.Errorf("%w: distribution mass %g", ErrBadDensity, total)
	}
	for i := range cdf {
		cdf[i] /= total
	}

	// 4) Install the caches and draw fresh positions for every chain slot.
	st.table = table
	st.cdf = cdf
	for c := range st.configs {
		copy(st.configs[c], table[e.draw(st)])
	}
	st.accepted, st.proposed = 0, 0
	st.phase = PhaseReady

	return nil
}

// sampleChain fills a chainLength × chains × sites batch with independent
// draws. The chain abstraction is kept for interface symmetry; rows share
// nothing but the generator.
func (e *Exact) sampleChain(logpdf LogPDF, params []float64, st *State, chainLength int) ([][][]float64, error) {
	if err := e.ownState(st); err != nil {
		return nil, err
	}
	// The CDF depends on the parameters, so an unreset state cannot be
	// sampled; build it now from the current parameters.
	if st.phase != PhaseReady {
		if err := e.reset(logpdf, params, st); err != nil {
			return nil, err
		}
	}

	sites := e.hi.Size()
	out := make([][][]float64, chainLength)
	for t := range out {
		batch := make([][]float64, len(st.configs))
		for c := range batch {
			row := make([]float64, sites)
			copy(row, st.table[e.draw(st)])
			batch[c] = row
			copy(st.configs[c], row)
		}
		out[t] = batch
	}

	return out, nil
}

// draw returns the index of one inverse-CDF sample.
func (e *Exact) draw(st *State) int {
	u := st.rng.Float64()
	i := sort.SearchFloat64s(st.cdf, u)
	if i == len(st.cdf) {
		// Guard against u landing above the final rounded cumulative value.
		i = len(st.cdf) - 1
	}

	return i
}

// ownState verifies that st was produced by a sampler of this shape.
func (e *Exact) ownState(st *State) error {
	chains, err := e.ChainsPerWorker()
	if err != nil {
		return err
	}
	if st.NChains() != chains || (chains > 0 && len(st.configs[0]) != e.hi.Size()) {
		return fmt.Errorf("%w: state has %d chains, sampler expects %d", ErrForeignState, st.NChains(), chains)
	}

	return nil
}
