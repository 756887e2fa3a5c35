package window

import "math"

// defaultTableSize gives better than -80 dB envelope error with linear
// interpolation, at 16 KiB per table.
const defaultTableSize = 2048

// Table is a precomputed window evaluated by normalized phase in [0,1].
//
// Lookups interpolate linearly between adjacent entries, which is far
// cheaper than evaluating cosines per grain per sample.
type Table struct {
	coeffs []float64
}

// NewTable precomputes a lookup table for the given window type.
// size <= 0 selects the default table size.
func NewTable(t Type, size int) *Table {
	if size <= 0 {
		size = defaultTableSize
	}

	coeffs := make([]float64, size+1)
	for i := 0; i <= size; i++ {
		coeffs[i] = evalWindow(t, float64(i)/float64(size))
	}

	return &Table{coeffs: coeffs}
}

// NewHannTable precomputes a Hann table of the default size.
func NewHannTable() *Table {
	return NewTable(TypeHann, defaultTableSize)
}

// At returns the window value at normalized phase in [0,1].
// Phases outside the range are clamped.
func (t *Table) At(phase float64) float64 {
	if phase <= 0 {
		return t.coeffs[0]
	}
	if phase >= 1 {
		return t.coeffs[len(t.coeffs)-1]
	}

	pos := phase * float64(len(t.coeffs)-1)
	i := int(math.Floor(pos))
	frac := pos - float64(i)

	return t.coeffs[i] + frac*(t.coeffs[i+1]-t.coeffs[i])
}
