package sampler

import (
	"math/rand/v2"
)

// Phase is the lifecycle position of a State. The uninitialized phase has no
// State object at all: Init is what brings a state into existence.
type Phase int

const (
	// PhaseInitialized marks a freshly allocated state: chains exist and are
	// seeded, but their configurations are not yet valid draws.
	PhaseInitialized Phase = iota

	// PhaseReady marks a state whose configurations and cached densities are
	// consistent with the parameters last passed to Reset or Sample.
	PhaseReady
)

// State holds the mutable progress of one worker's chain group: current
// configurations, cached log-densities, the pseudo-random generator and
// diagnostic counters. It is exclusively owned by the call site driving the
// chains and must never be shared across concurrent chain groups.
//
// A State is opaque to algorithms: only the owning sampler interprets its
// fields. The exported accessors expose read-only diagnostics.
type State struct {
	configs [][]float64 // chains × sites, current position of every chain
	logp    []float64   // cached log-density of configs (un-powered)
	rng     *rand.Rand  // per-state PCG generator; sole source of randomness
	phase   Phase

	accepted uint64 // accepted Metropolis proposals
	proposed uint64 // total Metropolis proposals

	// exact-sampler caches, rebuilt on every Reset
	table [][]float64 // full enumeration of the space
	cdf   []float64   // normalized cumulative distribution over table
}

// Phase returns the lifecycle position of the state.
func (s *State) Phase() Phase { return s.phase }

// NChains returns the number of chains this state carries.
func (s *State) NChains() int { return len(s.configs) }

// Configurations returns a copy of the current chain configurations,
// one row per chain.
func (s *State) Configurations() [][]float64 {
	out := make([][]float64, len(s.configs))
	for i, row := range s.configs {
		cp := make([]float64, len(row))
		copy(cp, row)
		out[i] = cp
	}

	return out
}

// AcceptanceRate returns the fraction of accepted Metropolis proposals since
// the last Reset, or 0 before any proposal was made. Exact samplers keep it
// at zero.
func (s *State) AcceptanceRate() float64 {
	if s.proposed == 0 {
		return 0
	}

	return float64(s.accepted) / float64(s.proposed)
}

// goldenGamma is the splitmix64 increment, used to decorrelate worker seeds.
const goldenGamma = 0x9E3779B97F4A7C15

// deriveSeed mixes one logical seed with a worker rank, so that cooperating
// workers get distinct but deterministic generators: restarting a run with
// the same nominal seed reproduces every worker's trajectory.
func deriveSeed(seed uint64, rank int) uint64 {
	z := seed + uint64(rank+1)*goldenGamma
	z ^= z >> 30
	z *= 0xBF58476D1CE4E5B9
	z ^= z >> 27
	z *= 0x94D049BB133111EB
	z ^= z >> 31

	return z
}

// newStateRNG builds the state's generator from a derived seed. PCG keeps
// the whole generator state in two words, so identical seeds give
// bit-identical streams on every platform.
func newStateRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^goldenGamma))
}
