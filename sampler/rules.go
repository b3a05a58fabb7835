package sampler

import (
	"math/rand/v2"

	"github.com/hilmc/hilmc/hilbert"
)

// Rule proposes Metropolis transitions. Propose reads the current
// configuration from candidate (pre-filled with a copy of the chain's
// position), mutates it in place into the proposed configuration, and
// returns the log proposal correction log[g(σ'→σ)/g(σ→σ')], which is zero
// for symmetric rules.
//
// A Rule must draw all randomness from the supplied generator; this is what
// makes whole chains reproducible from one seed.
type Rule interface {
	Propose(rng *rand.Rand, space hilbert.Space, candidate []float64) float64
}

// LocalRule proposes single-site moves: a uniformly chosen site is set to a
// uniformly chosen different local eigenvalue. The proposal is symmetric,
// so the correction is always zero.
//
// LocalRule explores the full product space; it does not preserve population
// constraints. Use ExchangeRule on fixed-sum spaces.
type LocalRule struct{}

// Propose implements Rule.
func (LocalRule) Propose(rng *rand.Rand, space hilbert.Space, candidate []float64) float64 {
	site := rng.IntN(len(candidate))
	local := space.StatesAt(site)
	if len(local) < 2 {
		// A frozen site has nowhere to move; propose the identity.
		return 0
	}
	// Draw among the other d-1 eigenvalues: if the draw lands on the current
	// value, remap it to the last one, which the draw can never produce.
	pick := local[rng.IntN(len(local)-1)]
	if pick == candidate[site] {
		pick = local[len(local)-1]
	}
	candidate[site] = pick

	return 0
}

// ExchangeRule proposes two-site swaps. With a nil Edges list the two sites
// are distinct and uniformly chosen; with Edges set, a uniformly chosen edge
// selects the pair, restricting exchanges to neighbors of a lattice. Swaps
// conserve every symmetric function of the configuration (total
// magnetization, particle number), so chains started inside a fixed-sum
// constraint stay inside it. The proposal is symmetric; the correction is
// always zero.
type ExchangeRule struct {
	// Edges optionally restricts swap pairs. Each entry holds two distinct
	// site indices; lattice.Lattice.Edges produces a compatible list.
	Edges [][2]int
}

// Propose implements Rule.
func (r ExchangeRule) Propose(rng *rand.Rand, space hilbert.Space, candidate []float64) float64 {
	n := len(candidate)
	if n < 2 {
		return 0
	}
	var i, j int
	if len(r.Edges) > 0 {
		e := r.Edges[rng.IntN(len(r.Edges))]
		i, j = e[0], e[1]
	} else {
		i = rng.IntN(n)
		j = rng.IntN(n - 1)
		if j >= i {
			j++
		}
	}
	candidate[i], candidate[j] = candidate[j], candidate[i]

	return 0
}

// validate is consulted by NewMetropolis when the rule carries site indices
// of its own.
func (r ExchangeRule) validate(space hilbert.Space) error {
	n := space.Size()
	for _, e := range r.Edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n || e[0] == e[1] {
			return ErrBadEdge
		}
	}

	return nil
}
