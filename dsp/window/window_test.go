package window

import (
	"math"
	"testing"
)

func TestGenerateAllTypesFinite(t *testing.T) {
	types := []Type{
		TypeRectangular,
		TypeHann,
		TypeHamming,
		TypeBlackman,
	}

	for _, typ := range types {
		w := Generate(typ, 64)
		if len(w) != 64 {
			t.Fatalf("type %d: len=%d, want 64", typ, len(w))
		}

		for i, v := range w {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("type %d: coefficient[%d] invalid: %v", typ, i, v)
			}
		}
	}
}

func TestHannEdgesAndPeak(t *testing.T) {
	w, err := Hann(65)
	if err != nil {
		t.Fatal(err)
	}

	if w[0] != 0 {
		t.Fatalf("hann[0] = %v, want 0", w[0])
	}
	if math.Abs(w[64]) > 1e-12 {
		t.Fatalf("hann[last] = %v, want 0", w[64])
	}
	if math.Abs(w[32]-1) > 1e-12 {
		t.Fatalf("hann[mid] = %v, want 1", w[32])
	}
}

func TestGenerateDegenerateLengths(t *testing.T) {
	if got := Generate(TypeHann, 0); got != nil {
		t.Fatalf("Generate(len=0) = %v, want nil", got)
	}
	if got := Generate(TypeHann, 1); len(got) != 1 || got[0] != 1 {
		t.Fatalf("Generate(len=1) = %v, want [1]", got)
	}
}

func TestHannRejectsInvalidSize(t *testing.T) {
	if _, err := Hann(0); err == nil {
		t.Fatal("expected error for size=0")
	}
}

func TestApplyCoefficients(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	coeffs := []float64{0.5, 0.5, 0.5, 0.5}

	out, err := ApplyCoefficients(samples, coeffs)
	if err != nil {
		t.Fatal(err)
	}

	for i := range out {
		want := samples[i] * 0.5
		if out[i] != want {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}

	if _, err := ApplyCoefficients(samples, coeffs[:2]); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestApplyMatchesGenerate(t *testing.T) {
	buf := make([]float64, 32)
	for i := range buf {
		buf[i] = 1
	}

	Apply(TypeHamming, buf)
	want := Generate(TypeHamming, 32)

	for i := range buf {
		if math.Abs(buf[i]-want[i]) > 1e-12 {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestTableMatchesExactHann(t *testing.T) {
	table := NewHannTable()

	for _, phase := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		want := 0.5 * (1 - math.Cos(2*math.Pi*phase))
		got := table.At(phase)
		if math.Abs(got-want) > 1e-5 {
			t.Fatalf("At(%v) = %v, want %v", phase, got, want)
		}
	}
}

func TestTableEdges(t *testing.T) {
	table := NewHannTable()

	if got := table.At(0); got != 0 {
		t.Fatalf("At(0) = %v, want 0", got)
	}
	if got := table.At(0.5); math.Abs(got-1) > 1e-9 {
		t.Fatalf("At(0.5) = %v, want 1", got)
	}
	if got := table.At(1); math.Abs(got) > 1e-12 {
		t.Fatalf("At(1) = %v, want 0", got)
	}
	if got := table.At(-3); got != table.At(0) {
		t.Fatalf("At(-3) = %v, want clamp to At(0)", got)
	}
	if got := table.At(7); got != table.At(1) {
		t.Fatalf("At(7) = %v, want clamp to At(1)", got)
	}
}

func BenchmarkTableAt(b *testing.B) {
	table := NewHannTable()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		table.At(float64(i%1000) / 1000)
	}
}
