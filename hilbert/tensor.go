package hilbert

import (
	"fmt"
	"iter"
)

// TensorProduct composes two discrete spaces into their product space.
// The composite shape is the concatenation of the operand shapes, and the
// composite numbering is row-major over the operand numbers:
//
//	number = number_a · n_states_b + number_b
//
// so the enumeration varies the right operand fastest. The operands are
// treated as independent sub-indices: any pair of Space implementations
// composes, constrained or not.
//
// TensorProduct implements Space. Prefer Mul, which picks the specialized
// combiner when both operands are compatible Homogeneous spaces.
type TensorProduct struct {
	a, b Space
}

// NewTensorProduct composes spaces a and b. Returns ErrNilSpace if either
// operand is nil.
func NewTensorProduct(a, b Space) (*TensorProduct, error) {
	if a == nil || b == nil {
		return nil, ErrNilSpace
	}

	return &TensorProduct{a: a, b: b}, nil
}

// Mul combines two spaces into their tensor product.
//
// When both operands are unconstrained Homogeneous spaces over the same
// local basis, the result is a single Homogeneous space with the summed site
// count (the specialized combiner); otherwise a generic TensorProduct wraps
// the pair. Returns ErrNilSpace if either operand is nil.
func Mul(a, b Space) (Space, error) {
	if a == nil || b == nil {
		return nil, ErrNilSpace
	}
	ha, okA := a.(*Homogeneous)
	hb, okB := b.(*Homogeneous)
	if okA && okB && !ha.Constrained() && !hb.Constrained() && sameBasis(ha.basis, hb.basis) {
		return NewHomogeneous(ha.basis, ha.sites+hb.sites)
	}

	return NewTensorProduct(a, b)
}

// Pow returns the n-fold tensor power of s, built as a left fold:
// Pow(s, 3) == Mul(Mul(s, s), s). Returns ErrBadPower if n < 1.
func Pow(s Space, n int) (Space, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadPower, n)
	}
	out := s
	var err error
	for i := 1; i < n; i++ {
		if out, err = Mul(out, s); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// sameBasis reports whether two finite bases list the same eigenvalues in
// the same order.
func sameBasis(a, b LocalBasis) bool {
	if !a.IsFinite() || !b.IsFinite() || a.Size() != b.Size() {
		return false
	}
	for i, v := range a.states {
		if b.states[i] != v {
			return false
		}
	}

	return true
}

// Size returns the summed site count of the operands.
func (t *TensorProduct) Size() int { return t.a.Size() + t.b.Size() }

// Shape returns the concatenated operand shapes.
func (t *TensorProduct) Shape() []int {
	return append(t.a.Shape(), t.b.Shape()...)
}

// StatesAt returns the local eigenvalues of composite site i.
func (t *TensorProduct) StatesAt(i int) []float64 {
	if i < t.a.Size() {
		return t.a.StatesAt(i)
	}

	return t.b.StatesAt(i - t.a.Size())
}

// IsFinite reports whether both operands are finite.
func (t *TensorProduct) IsFinite() bool { return t.a.IsFinite() && t.b.IsFinite() }

// Constrained reports whether either operand is constrained.
func (t *TensorProduct) Constrained() bool { return t.a.Constrained() || t.b.Constrained() }

// CheckConstraint splits each row at the operand boundary and accepts it only
// if both halves satisfy their operand's constraint. Operands that do not
// expose a batch check (no known implementation) accept every row.
func (t *TensorProduct) CheckConstraint(states [][]float64) []bool {
	aSites := t.a.Size()
	aRows := make([][]float64, len(states))
	bRows := make([][]float64, len(states))
	for k, row := range states {
		aRows[k] = row[:aSites]
		bRows[k] = row[aSites:]
	}
	ok := make([]bool, len(states))
	for i := range ok {
		ok[i] = true
	}
	if ca, has := t.a.(ConstraintChecker); has {
		for i, v := range ca.CheckConstraint(aRows) {
			ok[i] = ok[i] && v
		}
	}
	if cb, has := t.b.(ConstraintChecker); has {
		for i, v := range cb.CheckConstraint(bRows) {
			ok[i] = ok[i] && v
		}
	}

	return ok
}

// IsIndexable reports whether both operands are indexable and the combined
// shape still fits below MaxStates.
func (t *TensorProduct) IsIndexable() bool {
	return t.a.IsIndexable() && t.b.IsIndexable() && indexableShape(t.Shape())
}

// NStates returns n_states_a · n_states_b.
func (t *TensorProduct) NStates() (int, error) {
	na, nb, err := t.operandStates()
	if err != nil {
		return 0, err
	}

	return na * nb, nil
}

// NumbersToStates decodes composite numbers by splitting each into the
// row-major pair (n / n_states_b, n mod n_states_b) and delegating the
// halves to the operand engines in one batch each.
func (t *TensorProduct) NumbersToStates(numbers []int) ([][]float64, error) {
	na, nb, err := t.operandStates()
	if err != nil {
		return nil, err
	}
	total := na * nb

	// 1) Split every composite number; range-check against the product.
	aNums := make([]int, len(numbers))
	bNums := make([]int, len(numbers))
	for k, n := range numbers {
		if n < 0 || n >= total {
			return nil, fmt.Errorf("%w: number %d, n_states %d", ErrNumberOutOfRange, n, total)
		}
		aNums[k] = n / nb
		bNums[k] = n % nb
	}

	// 2) Decode both halves batchwise and stitch rows back together.
	aStates, err := t.a.NumbersToStates(aNums)
	if err != nil {
		return nil, err
	}
	bStates, err := t.b.NumbersToStates(bNums)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(numbers))
	for k := range numbers {
		row := make([]float64, 0, t.Size())
		row = append(row, aStates[k]...)
		row = append(row, bStates[k]...)
		out[k] = row
	}

	return out, nil
}

// StatesToNumbers encodes composite configurations by splitting each row at
// the operand boundary and recombining the operand numbers row-major.
func (t *TensorProduct) StatesToNumbers(states [][]float64) ([]int, error) {
	_, nb, err := t.operandStates()
	if err != nil {
		return nil, err
	}
	aSites := t.a.Size()

	aRows := make([][]float64, len(states))
	bRows := make([][]float64, len(states))
	for k, row := range states {
		if len(row) != t.Size() {
			return nil, fmt.Errorf("%w: row %d has %d sites, space has %d", ErrSizeMismatch, k, len(row), t.Size())
		}
		aRows[k] = row[:aSites]
		bRows[k] = row[aSites:]
	}

	aNums, err := t.a.StatesToNumbers(aRows)
	if err != nil {
		return nil, err
	}
	bNums, err := t.b.StatesToNumbers(bRows)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(states))
	for k := range states {
		out[k] = aNums[k]*nb + bNums[k]
	}

	return out, nil
}

// AllStates returns the composite enumeration: operand a's enumeration in
// outer order, operand b's in inner order, matching the row-major numbering.
func (t *TensorProduct) AllStates() ([][]float64, error) {
	aAll, err := t.a.AllStates()
	if err != nil {
		return nil, err
	}
	bAll, err := t.b.AllStates()
	if err != nil {
		return nil, err
	}
	out := make([][]float64, 0, len(aAll)*len(bAll))
	for _, ra := range aAll {
		for _, rb := range bAll {
			row := make([]float64, 0, t.Size())
			row = append(row, ra...)
			row = append(row, rb...)
			out = append(out, row)
		}
	}

	return out, nil
}

// States returns a single-use iterator over the composite enumeration.
// Operand b's table is materialized once; operand a streams lazily.
func (t *TensorProduct) States() (iter.Seq[[]float64], error) {
	aSeq, err := t.a.States()
	if err != nil {
		return nil, err
	}
	bAll, err := t.b.AllStates()
	if err != nil {
		return nil, err
	}

	return func(yield func([]float64) bool) {
		for ra := range aSeq {
			for _, rb := range bAll {
				row := make([]float64, 0, t.Size())
				row = append(row, ra...)
				row = append(row, rb...)
				if !yield(row) {
					return
				}
			}
		}
	}, nil
}

// operandStates fetches both operand counts, surfacing the first
// indexability failure. The combined envelope is re-checked: two individually
// indexable operands can still overflow MaxStates together.
func (t *TensorProduct) operandStates() (na, nb int, err error) {
	if !indexableShape(t.Shape()) {
		return 0, 0, fmt.Errorf("%w: combined shape exceeds %d states", ErrNotIndexable, MaxStates)
	}
	if na, err = t.a.NStates(); err != nil {
		return 0, 0, err
	}
	if nb, err = t.b.NStates(); err != nil {
		return 0, 0, err
	}

	return na, nb, nil
}
