// Package hilbert_test contains unit tests for local basis construction and
// the basic descriptors of homogeneous spaces.
package hilbert_test

import (
	"errors"
	"testing"

	"github.com/hilmc/hilmc/hilbert"
)

// ------------------------------------------------------------------------
// 1. Validation: malformed bases must fail at construction.
// ------------------------------------------------------------------------

func TestNewLocalBasis_Empty(t *testing.T) {
	// An empty eigenvalue list has no physical meaning.
	_, err := hilbert.NewLocalBasis(nil)
	if !errors.Is(err, hilbert.ErrEmptyBasis) {
		t.Fatalf("expected ErrEmptyBasis, got %v", err)
	}
}

func TestNewLocalBasis_Duplicate(t *testing.T) {
	// Duplicate eigenvalues would break the value→digit bijection.
	_, err := hilbert.NewLocalBasis([]float64{-1, 0, -1})
	if !errors.Is(err, hilbert.ErrDuplicateState) {
		t.Fatalf("expected ErrDuplicateState, got %v", err)
	}
}

func TestNewLocalBasis_OrderPreserved(t *testing.T) {
	// Construction order is the digit order; States must preserve it.
	b, err := hilbert.NewLocalBasis([]float64{2, -2, 0})
	if err != nil {
		t.Fatal(err)
	}
	got := b.States()
	want := []float64{2, -2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("States() = %v; want %v", got, want)
		}
	}
	if b.Size() != 3 {
		t.Errorf("Size() = %d; want 3", b.Size())
	}
	if !b.Contains(-2) || b.Contains(1) {
		t.Errorf("membership test wrong: Contains(-2)=%v, Contains(1)=%v", b.Contains(-2), b.Contains(1))
	}
}

func TestLocalBasis_StatesReturnsCopy(t *testing.T) {
	// Mutating the returned slice must not corrupt the basis.
	b, err := hilbert.NewLocalBasis([]float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	b.States()[0] = 99
	if got := b.States()[0]; got != 0 {
		t.Fatalf("basis mutated through States() copy: got %g", got)
	}
}

// ------------------------------------------------------------------------
// 2. Unbounded basis: never finite, never indexable.
// ------------------------------------------------------------------------

func TestUnboundedBasis(t *testing.T) {
	b := hilbert.UnboundedBasis()
	if b.IsFinite() {
		t.Fatal("unbounded basis must not be finite")
	}
	if b.States() != nil {
		t.Fatal("unbounded basis must return nil States()")
	}
	if !b.Contains(3.14159) {
		t.Fatal("unbounded basis contains every value")
	}

	h, err := hilbert.NewHomogeneous(b, 4)
	if err != nil {
		t.Fatal(err)
	}
	if h.IsFinite() || h.IsIndexable() {
		t.Fatal("space over an unbounded basis must be neither finite nor indexable")
	}
	if _, err = h.NStates(); !errors.Is(err, hilbert.ErrNotIndexable) {
		t.Fatalf("expected ErrNotIndexable, got %v", err)
	}
}

// ------------------------------------------------------------------------
// 3. Convenience constructors.
// ------------------------------------------------------------------------

func TestNewSpin_HalfInteger(t *testing.T) {
	// Spin-1/2 sites take values −1, +1 (magnetization in units of 1/2).
	h, err := hilbert.NewSpin(0.5, 3)
	if err != nil {
		t.Fatal(err)
	}
	got := h.LocalStates()
	if len(got) != 2 || got[0] != -1 || got[1] != 1 {
		t.Fatalf("spin-1/2 local states = %v; want [-1 1]", got)
	}
	if h.Size() != 3 {
		t.Errorf("Size() = %d; want 3", h.Size())
	}
}

func TestNewSpin_SpinOne(t *testing.T) {
	h, err := hilbert.NewSpin(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	got := h.LocalStates()
	if len(got) != 3 || got[0] != -2 || got[1] != 0 || got[2] != 2 {
		t.Fatalf("spin-1 local states = %v; want [-2 0 2]", got)
	}
}

func TestNewSpin_Invalid(t *testing.T) {
	for _, s := range []float64{0, -0.5, 0.75} {
		if _, err := hilbert.NewSpin(s, 2); !errors.Is(err, hilbert.ErrBadSpin) {
			t.Errorf("NewSpin(%g, 2): expected ErrBadSpin, got %v", s, err)
		}
	}
}

func TestNewFock(t *testing.T) {
	h, err := hilbert.NewFock(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	got := h.LocalStates()
	want := []float64{0, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("fock local states = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fock local states = %v; want %v", got, want)
		}
	}
}

func TestNewFock_BadOccupation(t *testing.T) {
	if _, err := hilbert.NewFock(0, 2); !errors.Is(err, hilbert.ErrBadOccupation) {
		t.Fatalf("NewFock(0, 2): expected ErrBadOccupation, got %v", err)
	}
	if _, err := hilbert.NewFock(3, 0); !errors.Is(err, hilbert.ErrBadSites) {
		t.Fatalf("NewFock(3, 0): expected ErrBadSites, got %v", err)
	}
}

func TestStatesToLocalIndices(t *testing.T) {
	h, err := hilbert.NewSpin(0.5, 3)
	if err != nil {
		t.Fatal(err)
	}
	// Spin-1/2 eigenvalues are {-1, +1}; their digit indices are {0, 1}.
	got, err := h.StatesToLocalIndices([][]float64{
		{-1, -1, 1},
		{1, -1, 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{{0, 0, 1}, {1, 0, 1}}
	for k := range want {
		for i := range want[k] {
			if got[k][i] != want[k][i] {
				t.Fatalf("local indices = %v; want %v", got, want)
			}
		}
	}

	if _, err := h.StatesToLocalIndices([][]float64{{-1, 1}}); !errors.Is(err, hilbert.ErrSizeMismatch) {
		t.Fatalf("short row: expected ErrSizeMismatch, got %v", err)
	}
	if _, err := h.StatesToLocalIndices([][]float64{{-1, 0.5, 1}}); !errors.Is(err, hilbert.ErrStateNotFound) {
		t.Fatalf("foreign value: expected ErrStateNotFound, got %v", err)
	}
}

func TestNewHomogeneous_BadSites(t *testing.T) {
	b, _ := hilbert.NewLocalBasis([]float64{0, 1})
	if _, err := hilbert.NewHomogeneous(b, 0); !errors.Is(err, hilbert.ErrBadSites) {
		t.Fatalf("expected ErrBadSites, got %v", err)
	}
}
