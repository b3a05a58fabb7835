// Package hilmc is your in-memory toolkit for discrete quantum Monte Carlo:
// finite Hilbert spaces, integer state indexing and Markov-chain or exact
// samplers over them.
//
// 🚀 What is hilmc?
//
//	A compact library for variational Monte Carlo groundwork:
//		• Hilbert spaces: homogeneous spin and Fock spaces, tensor products
//		• Constraints: fixed-magnetization / fixed-number sectors, custom filters
//		• Indexing: bijective state ↔ integer numbering, full enumeration
//		• Lattices: chains, rings and hypercubic grids feeding move rules
//		• Samplers: Metropolis–Hastings chains and exact inverse-CDF draws
//
// ✨ Why choose hilmc?
//
//   - Deterministic – one seed reproduces whole chains, bit for bit
//   - Batched – densities are evaluated on whole configuration batches
//   - Explicit failure – sentinel errors at construction, never deep inside a run
//   - Pure Go – no cgo, numerics on plain float64 slices
//
// Under the hood, everything is organized in three subpackages:
//
//	hilbert/ — spaces, local bases, constraints & state numbering
//	lattice/ — site graphs: chains, rings, hypercubes
//	sampler/ — Metropolis and exact samplers, transition rules, chain state
//
// Quick ASCII example:
//
//	    ↑───↓
//	    │   │
//	    ↓───↑
//
//	four spin-1/2 sites on a plaquette, one configuration of sixteen.
//
// Dive into the per-package docs for full examples and the error contracts.
//
//	go get github.com/hilmc/hilmc
package hilmc
