// Package lattice builds the site graphs that discrete quantum systems live
// on: chains, rings and hypercubic grids with open or periodic boundaries.
//
// What:
//
//   - Lattice holds a site count and an undirected edge list over sites.
//   - NewChain builds a 1D chain of n sites, optionally closed into a ring.
//   - NewHypercube builds a length^dim grid with 4-, 6-, ... connectivity.
//   - Edges feeds sampler transition rules that move along neighbor pairs.
//
// Why:
//
//   - Spin models: nearest-neighbor exchange moves on a chain or square grid.
//   - Particle models: hopping between adjacent sites only.
//   - Site bookkeeping: one row-major convention shared with hilbert spaces.
//
// Complexity:
//
//   - NewChain:     O(n) time and memory.
//   - NewHypercube: O(n·dim) time and memory (n = length^dim sites).
//   - Edges:        O(E) copy.
//
// Options:
//
//   - Periodic: wrap every dimension around, so each site keeps full degree.
//
// Errors:
//
//   - ErrBadExtent: a chain or hypercube with fewer than one site per side.
//   - ErrBadDim: a hypercube with dimension < 1.
//   - ErrTooManySites: the site count overflows the int range.
//
// Sites are numbered row-major: on a grid of side L, site (x, y) has index
// y*L + x, and higher dimensions nest the same way. This matches the site
// order of hilbert spaces built over the same geometry.
package lattice
