package lattice

import (
	"errors"
	"math"
)

var (
	// ErrBadExtent indicates a side length below one site.
	ErrBadExtent = errors.New("lattice: side length must be at least 1")
	// ErrBadDim indicates a hypercube dimension below one.
	ErrBadDim = errors.New("lattice: dimension must be at least 1")
	// ErrTooManySites indicates a geometry whose site count overflows int.
	ErrTooManySites = errors.New("lattice: site count overflows")
)

// Lattice is an undirected site graph: a site count plus an edge list over
// site indices. The zero value is an empty lattice with no sites.
type Lattice struct {
	nSites int
	edges  [][2]int
}

// NewChain constructs a 1D chain of n sites with nearest-neighbor edges.
// With periodic set, the chain closes into a ring by the extra edge
// (n-1, 0); a ring needs at least three sites, shorter chains stay open so
// no edge is duplicated.
// Returns ErrBadExtent when n < 1.
// Complexity: O(n) time and memory.
func NewChain(n int, periodic bool) (*Lattice, error) {
	if n < 1 {
		return nil, ErrBadExtent
	}
	edges := make([][2]int, 0, n)
	for i := 0; i+1 < n; i++ {
		edges = append(edges, [2]int{i, i + 1})
	}
	if periodic && n > 2 {
		edges = append(edges, [2]int{n - 1, 0})
	}

	return &Lattice{nSites: n, edges: edges}, nil
}

// NewHypercube constructs a hypercubic grid with `length` sites per side in
// `dim` dimensions. Sites are numbered row-major: the coordinate of
// dimension 0 varies fastest. Each site connects to its forward neighbor in
// every dimension; with periodic set, the last site of a dimension also
// connects back to the first (only when the side holds at least three
// sites).
// Returns ErrBadExtent, ErrBadDim or ErrTooManySites.
// Complexity: O(length^dim · dim) time and memory.
func NewHypercube(length, dim int, periodic bool) (*Lattice, error) {
	if length < 1 {
		return nil, ErrBadExtent
	}
	if dim < 1 {
		return nil, ErrBadDim
	}
	// 1. Guard the total site count before allocating anything.
	if float64(dim)*math.Log(float64(length)) > math.Log(float64(math.MaxInt32)) {
		return nil, ErrTooManySites
	}
	n := 1
	for d := 0; d < dim; d++ {
		n *= length
	}

	// 2. Walk every site and emit its forward edge per dimension. The stride
	// of dimension d is length^d under row-major numbering.
	edges := make([][2]int, 0, n*dim)
	stride := 1
	for d := 0; d < dim; d++ {
		for site := 0; site < n; site++ {
			coord := (site / stride) % length
			switch {
			case coord+1 < length:
				edges = append(edges, [2]int{site, site + stride})
			case periodic && length > 2:
				edges = append(edges, [2]int{site, site - (length-1)*stride})
			}
		}
		stride *= length
	}

	return &Lattice{nSites: n, edges: edges}, nil
}

// NSites returns the number of sites.
func (l *Lattice) NSites() int { return l.nSites }

// NEdges returns the number of undirected edges.
func (l *Lattice) NEdges() int { return len(l.edges) }

// Edges returns a copy of the edge list, each entry holding the two site
// indices of one undirected edge. The copy is safe to hand to a sampler
// rule or to mutate.
func (l *Lattice) Edges() [][2]int {
	out := make([][2]int, len(l.edges))
	copy(out, l.edges)

	return out
}

// Coordinate converts a row-major site index on a hypercube of the given
// side length into its per-dimension coordinates.
// Complexity: O(dim).
func Coordinate(site, length, dim int) []int {
	coords := make([]int, dim)
	for d := 0; d < dim; d++ {
		coords[d] = site % length
		site /= length
	}

	return coords
}

// Site converts per-dimension coordinates back into the row-major index.
// Complexity: O(dim).
func Site(coords []int, length int) int {
	site := 0
	for d := len(coords) - 1; d >= 0; d-- {
		site = site*length + coords[d]
	}

	return site
}
