package lattice_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hilmc/hilmc/lattice"
)

func TestNewChain_Open(t *testing.T) {
	l, err := lattice.NewChain(4, false)
	require.NoError(t, err)
	require.Equal(t, 4, l.NSites())
	require.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}}, l.Edges())
}

func TestNewChain_Ring(t *testing.T) {
	l, err := lattice.NewChain(4, true)
	require.NoError(t, err)
	require.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}, l.Edges())
}

func TestNewChain_ShortStaysOpen(t *testing.T) {
	// Closing a 2-site chain would duplicate the single edge.
	l, err := lattice.NewChain(2, true)
	require.NoError(t, err)
	require.Equal(t, 1, l.NEdges())

	single, err := lattice.NewChain(1, true)
	require.NoError(t, err)
	require.Equal(t, 0, single.NEdges())
}

func TestNewChain_BadExtent(t *testing.T) {
	_, err := lattice.NewChain(0, false)
	require.ErrorIs(t, err, lattice.ErrBadExtent)
}

func TestNewHypercube_SquareOpen(t *testing.T) {
	// 3x3 open grid: 2 forward edges per row and column line, 12 total.
	l, err := lattice.NewHypercube(3, 2, false)
	require.NoError(t, err)
	require.Equal(t, 9, l.NSites())
	require.Equal(t, 12, l.NEdges())
}

func TestNewHypercube_SquarePeriodic(t *testing.T) {
	// Periodic square: every site has exactly one forward edge per dimension.
	l, err := lattice.NewHypercube(3, 2, true)
	require.NoError(t, err)
	require.Equal(t, 18, l.NEdges())
}

func TestNewHypercube_DegenerateDim(t *testing.T) {
	l, err := lattice.NewHypercube(5, 1, false)
	require.NoError(t, err)
	require.Equal(t, 5, l.NSites())
	require.Equal(t, 4, l.NEdges())

	_, err = lattice.NewHypercube(5, 0, false)
	require.ErrorIs(t, err, lattice.ErrBadDim)
	_, err = lattice.NewHypercube(0, 2, false)
	require.ErrorIs(t, err, lattice.ErrBadExtent)
	_, err = lattice.NewHypercube(2, 64, false)
	require.ErrorIs(t, err, lattice.ErrTooManySites)
}

func TestEdges_ReturnsCopy(t *testing.T) {
	l, err := lattice.NewChain(3, false)
	require.NoError(t, err)
	edges := l.Edges()
	edges[0] = [2]int{9, 9}
	require.Equal(t, [2]int{0, 1}, l.Edges()[0])
}

func TestCoordinateRoundTrip(t *testing.T) {
	const length, dim = 4, 3
	for site := 0; site < length*length*length; site++ {
		coords := lattice.Coordinate(site, length, dim)
		require.Equal(t, site, lattice.Site(coords, length))
	}
	require.Equal(t, []int{1, 2, 0}, lattice.Coordinate(9, 4, 3))
}
