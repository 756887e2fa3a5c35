package reverb

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ambient/measure/decay"
)

func TestNewRejectsInvalidSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -44100, math.NaN(), math.Inf(1)} {
		if _, err := New(sr); err == nil {
			t.Fatalf("New(%v) expected error", sr)
		}
	}
}

func TestCathedralFeedbackGainClamped(t *testing.T) {
	r, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	p := DefaultParams()
	p.Type = TypeCathedral
	p.Decay = 1.0
	p.Size = 1.0
	r.SetParams(p)

	// 0.96 + (1-0.96)*1.0*0.9 = 0.996, clamped to the stability bound.
	if got := r.FeedbackGain(); got != 0.995 {
		t.Fatalf("feedback gain = %v, want 0.995", got)
	}
}

func TestFeedbackGainFormula(t *testing.T) {
	r, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	p := DefaultParams()
	p.Type = TypePlate
	p.Decay = 0.5
	r.SetParams(p)

	want := 0.88 + (1-0.88)*0.5*0.9
	if got := r.FeedbackGain(); math.Abs(got-want) > 1e-12 {
		t.Fatalf("feedback gain = %v, want %v", got, want)
	}
}

func TestParamsClamped(t *testing.T) {
	r, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	r.SetParams(Params{
		Type:       TypeHall,
		Decay:      7,
		Size:       100,
		Modulation: -3,
		PredelayMs: 5000,
		Damping:    2,
		Width:      -1,
		Diffusion:  9,
	})

	p := r.Params()
	if p.Decay != 1 || p.Size != 3 || p.Modulation != 0 ||
		p.PredelayMs != 300 || p.Damping != 1 || p.Width != 0 || p.Diffusion != 1 {
		t.Fatalf("params not clamped: %+v", p)
	}

	if got := r.FeedbackGain(); got > 0.995 {
		t.Fatalf("feedback gain %v exceeds stability bound", got)
	}
}

// Thirty seconds of tail from a unit impulse must stay bounded and finite
// for every preset at full decay.
func TestImpulseStability(t *testing.T) {
	const sampleRate = 48000
	const blockSize = 128
	const seconds = 30

	for _, typ := range []Type{TypePlate, TypeHall, TypeCathedral, TypeDarkHall} {
		r, err := New(sampleRate)
		if err != nil {
			t.Fatal(err)
		}

		p := DefaultParams()
		p.Type = typ
		p.Decay = 1.0
		p.Size = 3.0
		p.Modulation = 1.0
		p.Diffusion = 1.0
		p.Damping = 0.0
		r.SetParams(p)

		inL := make([]float64, blockSize)
		inR := make([]float64, blockSize)
		outL := make([]float64, blockSize)
		outR := make([]float64, blockSize)

		inL[0] = 1
		inR[0] = 1

		blocks := seconds * sampleRate / blockSize
		for b := 0; b < blocks; b++ {
			r.ProcessBlock(inL, inR, outL, outR)
			if b == 0 {
				inL[0] = 0
				inR[0] = 0
			}

			for i := 0; i < blockSize; i++ {
				if math.IsNaN(outL[i]) || math.IsInf(outL[i], 0) ||
					math.IsNaN(outR[i]) || math.IsInf(outR[i], 0) {
					t.Fatalf("type %d: non-finite output in block %d", typ, b)
				}
				if math.Abs(outL[i]) > 1.0 || math.Abs(outR[i]) > 1.0 {
					t.Fatalf("type %d: output %v/%v exceeds 1.0 in block %d",
						typ, outL[i], outR[i], b)
				}
			}
		}
	}
}

func TestImpulseProducesTail(t *testing.T) {
	r, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	p := DefaultParams()
	p.PredelayMs = 0
	r.SetParams(p)

	const n = 48000
	inL := make([]float64, n)
	inR := make([]float64, n)
	outL := make([]float64, n)
	outR := make([]float64, n)
	inL[0] = 1
	inR[0] = 1

	r.ProcessBlock(inL, inR, outL, outR)

	energy := 0.0
	for i := range outL {
		energy += outL[i]*outL[i] + outR[i]*outR[i]
	}

	if energy == 0 {
		t.Fatal("impulse produced no reverb tail")
	}

	// Tail must persist well past the first 100 ms.
	late := 0.0
	for i := 24000; i < n; i++ {
		late += outL[i]*outL[i] + outR[i]*outR[i]
	}
	if late == 0 {
		t.Fatal("reverb tail died within half a second")
	}
}

func TestResetReproducible(t *testing.T) {
	r, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	render := func() []float64 {
		r.Reset(0)
		inL := make([]float64, 4096)
		inR := make([]float64, 4096)
		outL := make([]float64, 4096)
		outR := make([]float64, 4096)
		inL[0] = 1
		inR[0] = 0.5
		r.ProcessBlock(inL, inR, outL, outR)
		return append(outL, outR...)
	}

	first := render()
	second := render()

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after reset: %v != %v", i, first[i], second[i])
		}
	}
}

func TestWidthZeroIsMono(t *testing.T) {
	r, err := New(48000)
	if err != nil {
		t.Fatal(err)
	}

	p := DefaultParams()
	p.Width = 0
	r.SetParams(p)

	const n = 8192
	inL := make([]float64, n)
	inR := make([]float64, n)
	outL := make([]float64, n)
	outR := make([]float64, n)
	for i := range inL {
		inL[i] = math.Sin(2 * math.Pi * 220 * float64(i) / 48000)
		// Asymmetric input: only width can make the channels differ.
		inR[i] = 0
	}

	r.ProcessBlock(inL, inR, outL, outR)

	for i := range outL {
		if outL[i] != outR[i] {
			t.Fatalf("sample %d: width=0 output not mono: %v != %v", i, outL[i], outR[i])
		}
	}
}

func TestQualityTiers(t *testing.T) {
	for _, q := range []Quality{QualityUltra, QualityBalanced, QualityLite} {
		r, err := New(48000, WithQuality(q))
		if err != nil {
			t.Fatal(err)
		}

		// No predelay, and room for the shortest FDN line (37.3 ms at
		// 48 kHz is 1790 samples) to deliver its first tap.
		p := DefaultParams()
		p.PredelayMs = 0
		r.SetParams(p)

		const n = 8192
		inL := make([]float64, n)
		inR := make([]float64, n)
		outL := make([]float64, n)
		outR := make([]float64, n)
		inL[0] = 1
		inR[0] = 1

		r.ProcessBlock(inL, inR, outL, outR)

		energy := 0.0
		for i := range outL {
			if math.IsNaN(outL[i]) || math.IsInf(outL[i], 0) {
				t.Fatalf("quality %d: non-finite output", q)
			}
			energy += outL[i] * outL[i]
		}
		if energy == 0 {
			t.Fatalf("quality %d: no output", q)
		}
	}
}

func TestBlockSizeIndependence(t *testing.T) {
	render := func(blockSize int) []float64 {
		r, err := New(48000)
		if err != nil {
			t.Fatal(err)
		}

		const n = 4096
		inL := make([]float64, n)
		inR := make([]float64, n)
		out := make([]float64, n)
		outR := make([]float64, n)
		for i := range inL {
			inL[i] = math.Sin(2 * math.Pi * 330 * float64(i) / 48000)
			inR[i] = inL[i]
		}

		for start := 0; start < n; start += blockSize {
			end := start + blockSize
			if end > n {
				end = n
			}
			r.ProcessBlock(inL[start:end], inR[start:end], out[start:end], outR[start:end])
		}
		return out
	}

	a := render(128)
	b := render(512)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs across block sizes: %v != %v", i, a[i], b[i])
		}
	}
}

// renderImpulse captures a mono impulse response of the left channel.
func renderImpulse(r *Reverb, sampleRate, seconds int) []float64 {
	const blockSize = 128
	n := seconds * sampleRate
	resp := make([]float64, 0, n)

	inL := make([]float64, blockSize)
	inR := make([]float64, blockSize)
	outL := make([]float64, blockSize)
	outR := make([]float64, blockSize)
	inL[0] = 1
	inR[0] = 1

	for len(resp) < n {
		r.ProcessBlock(inL, inR, outL, outR)
		inL[0] = 0
		inR[0] = 0
		resp = append(resp, outL...)
	}
	return resp[:n]
}

func TestDecayTimeTracksPreset(t *testing.T) {
	const sampleRate = 48000

	measure := func(typ Type, decayAmt float64) float64 {
		r, err := New(sampleRate)
		if err != nil {
			t.Fatal(err)
		}
		p := DefaultParams()
		p.Type = typ
		p.Decay = decayAmt
		p.Modulation = 0
		r.SetParams(p)

		a, err := decay.NewAnalyzer(sampleRate)
		if err != nil {
			t.Fatal(err)
		}
		rt, err := a.RT60(renderImpulse(r, sampleRate, 12))
		if err != nil {
			t.Fatalf("type %d: %v", typ, err)
		}
		return rt
	}

	plate := measure(TypePlate, 0.3)
	cathedral := measure(TypeCathedral, 0.9)
	if cathedral <= plate {
		t.Fatalf("cathedral RT60 %g not longer than plate RT60 %g", cathedral, plate)
	}
}

func BenchmarkProcessBlock(b *testing.B) {
	r, _ := New(48000)
	inL := make([]float64, 128)
	inR := make([]float64, 128)
	outL := make([]float64, 128)
	outR := make([]float64, 128)
	for i := range inL {
		inL[i] = math.Sin(0.05 * float64(i))
		inR[i] = inL[i]
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.ProcessBlock(inL, inR, outL, outR)
	}
}
