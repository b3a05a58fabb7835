package sampler

import (
	"fmt"
	"math"

	"github.com/hilmc/hilmc/hilbert"
)

// maxResetDraws bounds rejection sampling of initial configurations on
// constrained spaces before Reset gives up with ErrResetExhausted.
const maxResetDraws = 10000

// Metropolis samples a discrete space with Metropolis–Hastings chains.
// Each chain holds one configuration; every step, the transition Rule
// proposes a move and the chain accepts it with probability
//
//	min(1, exp(machinePow·(logψ(σ') − logψ(σ)) + correction)).
//
// Between two returned samples every chain attempts sweepSize proposals, so
// consecutive samples are decorrelated by roughly one move per site.
//
// Metropolis works on spaces of any size, since nothing is enumerated; this
// is the usual regime for variational Monte Carlo. Samples are correlated
// along each chain; IsExact is false.
type Metropolis struct {
	config
	rule      Rule
	sweepSize int
}

// NewMetropolis constructs a Metropolis–Hastings sampler over hi using the
// given transition rule.
//
// Fails at construction (never at sample time) with ErrNilHilbert,
// ErrNilRule, ErrInfiniteSpace (initial configurations require finite local
// bases), ErrNoConstraintCheck (constrained spaces must expose membership
// checks), ErrBadEdge, ErrMachinePow or ErrChains.
func NewMetropolis(hi hilbert.Space, rule Rule, opts ...Option) (*Metropolis, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	base, err := newConfig(hi, cfg)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrNilRule
	}
	if !hi.IsFinite() {
		return nil, fmt.Errorf("%w: cannot draw initial configurations", ErrInfiniteSpace)
	}
	// Constrained spaces must expose membership checks, or Reset could only
	// start chains off the constraint manifold.
	if hi.Constrained() {
		if _, ok := hi.(hilbert.ConstraintChecker); !ok {
			return nil, fmt.Errorf("%w: %T", ErrNoConstraintCheck, hi)
		}
	}
	// Rules that carry site indices of their own get a chance to check them
	// against the space before any chain runs.
	if v, ok := rule.(interface{ validate(hilbert.Space) error }); ok {
		if err := v.validate(hi); err != nil {
			return nil, err
		}
	}
	sweep := cfg.SweepSize
	if sweep == 0 {
		sweep = hi.Size()
	}

	return &Metropolis{config: base, rule: rule, sweepSize: sweep}, nil
}

// SweepSize returns the number of proposals attempted per returned sample.
func (m *Metropolis) SweepSize() int { return m.sweepSize }

// IsExact reports false: Markov-chain samples are correlated.
func (m *Metropolis) IsExact() bool { return false }

// initState allocates this worker's chains with uniformly drawn
// configurations. The state is PhaseInitialized: positions are placeholders
// until Reset draws valid ones.
func (m *Metropolis) initState(logpdf LogPDF, params []float64, seed uint64) (*State, error) {
	chains, err := m.ChainsPerWorker()
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
		st.configs[c] = make([]float64, m.hi.Size())
		m.drawUniform(st, st.configs[c])
	}

	return st, nil
}

// reset redraws every chain's configuration and refreshes the cached
// log-densities. On constrained spaces, uniform draws are filtered through
// the space's constraint check; chains whose draws are rejected too many
// times fail with ErrResetExhausted.
func (m *Metropolis) reset(logpdf LogPDF, params []float64, st *State) error {
	if err := m.ownState(st); err != nil {
		return err
	}

	// 1) Fresh positions for every chain. Construction guarantees the
	//    checker exists whenever the space is constrained.
	checker, _ := m.hi.(hilbert.ConstraintChecker)
	for c := range st.configs {
		if !m.hi.Constrained() {
			m.drawUniform(st, st.configs[c])

			continue
		}
		if err := m.drawConstrained(st, checker, st.configs[c]); err != nil {
			return err
		}
	}

	// 2) One batched density evaluation refreshes every cached value.
	lp := logpdf(params, st.configs)
	if len(lp) != len(st.configs) {
		return fmt.Errorf("%w: got %d values for %d chains", ErrBadDensity, len(lp), len(st.configs))
	}
	copy(st.logp, lp)

	// 3) Counters restart with the new trajectory.
	st.accepted, st.proposed = 0, 0
	st.phase = PhaseReady

	return nil
}

// sampleChain advances every chain chainLength steps. Each step performs
// sweepSize proposal rounds; one round proposes a move on every chain and
// evaluates the density once over the whole candidate batch.
func (m *Metropolis) sampleChain(logpdf LogPDF, params []float64, st *State, chainLength int) ([][][]float64, error) {
	if err := m.ownState(st); err != nil {
		return nil, err
	}
	// An initialized-but-unreset state has no cached densities yet; fill
	// them for the current positions without redrawing.
	if st.phase != PhaseReady {
		lp := logpdf(params, st.configs)
		if len(lp) != len(st.configs) {
			return nil, fmt.Errorf("%w: got %d values for %d chains", ErrBadDensity, len(lp), len(st.configs))
		}
		copy(st.logp, lp)
		st.phase = PhaseReady
	}

	chains := len(st.configs)
	sites := m.hi.Size()
	pow := float64(m.machinePow)

	// Candidate buffers are reused across every proposal round.
	cand := make([][]float64, chains)
	for c := range cand {
		cand[c] = make([]float64, sites)
	}
	corr := make([]float64, chains)

	out := make([][][]float64, chainLength)
	for t := 0; t < chainLength; t++ {
		for sweep := 0; sweep < m.sweepSize; sweep++ {
			// 1) Propose one move per chain.
			for c := range cand {
				copy(cand[c], st.configs[c])
				corr[c] = m.rule.Propose(st.rng, m.hi, cand[c])
			}

			// 2) One batched density evaluation for all candidates.
			lp := logpdf(params, cand)
			if len(lp) != chains {
				return nil, fmt.Errorf("%w: got %d values for %d chains", ErrBadDensity, len(lp), chains)
			}

			// 3) Accept or reject chain by chain.
			for c := 0; c < chains; c++ {
				st.proposed++
				logRatio := pow*(lp[c]-st.logp[c]) + corr[c]
				if logRatio >= 0 || math.Log(st.rng.Float64()) < logRatio {
					copy(st.configs[c], cand[c])
					st.logp[c] = lp[c]
					st.accepted++
				}
			}
		}

		// 4) Record the post-sweep positions as sample t.
		batch := make([][]float64, chains)
		for c := range batch {
			row := make([]float64, sites)
			copy(row, st.configs[c])
			batch[c] = row
		}
		out[t] = batch
	}

	return out, nil
}

// drawUniform fills out with an independent uniform draw per site.
func (m *Metropolis) drawUniform(st *State, out []float64) {
	for i := range out {
		local := m.hi.StatesAt(i)
		out[i] = local[st.rng.IntN(len(local))]
	}
}

// drawConstrained rejection-samples a configuration satisfying the space's
// constraint. For constraints too tight for uniform draws (acceptance below
// ~1/maxResetDraws) the caller should seed chains by hand instead.
func (m *Metropolis) drawConstrained(st *State, checker hilbert.ConstraintChecker, out []float64) error {
	probe := [][]float64{out}
	for try := 0; try < maxResetDraws; try++ {
		m.drawUniform(st, out)
		if checker.CheckConstraint(probe)[0] {
			return nil
		}
	}

	return fmt.Errorf("%w: %d uniform draws rejected", ErrResetExhausted, maxResetDraws)
}

// ownState verifies that st was produced by a sampler of this shape.
func (m *Metropolis) ownState(st *State) error {
	chains, err := m.ChainsPerWorker()
	if err != nil {
		return err
	}
	if st.NChains() != chains || (chains > 0 && len(st.configs[0]) != m.hi.Size()) {
		return fmt.Errorf("%w: state has %d chains, sampler expects %d", ErrForeignState, st.NChains(), chains)
	}

	return nil
}
