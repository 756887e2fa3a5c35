package decay

import (
	"math"
	"testing"
)

// exponentialTail synthesizes a response whose amplitude falls 60 dB
// in rt seconds.
func exponentialTail(sampleRate, rt, lengthSeconds float64) []float64 {
	n := int(sampleRate * lengthSeconds)
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / sampleRate
		out[i] = math.Pow(10, -3*t/rt)
	}
	return out
}

func TestNewAnalyzerValidation(t *testing.T) {
	if _, err := NewAnalyzer(0); err != ErrInvalidSampleRate {
		t.Fatalf("err = %v, want ErrInvalidSampleRate", err)
	}
	if _, err := NewAnalyzer(-1); err != ErrInvalidSampleRate {
		t.Fatalf("err = %v, want ErrInvalidSampleRate", err)
	}
}

func TestRT60SyntheticDecay(t *testing.T) {
	tests := []struct {
		name string
		rt   float64
	}{
		{"short", 0.5},
		{"medium", 1.2},
		{"long", 2.5},
	}

	a, err := NewAnalyzer(48000)
	if err != nil {
		t.Fatal(err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := exponentialTail(48000, tt.rt, tt.rt*1.5)
			got, err := a.RT60(resp)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.rt)/tt.rt > 0.05 {
				t.Fatalf("RT60 = %g, want %g within 5%%", got, tt.rt)
			}
		})
	}
}

func TestRT60Errors(t *testing.T) {
	a, _ := NewAnalyzer(48000)

	if _, err := a.RT60(nil); err != ErrEmptyResponse {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}

	// Constant signal never decays.
	flat := make([]float64, 48000)
	for i := range flat {
		flat[i] = 1
	}
	if _, err := a.RT60(flat); err != ErrNoDecay {
		t.Fatalf("err = %v, want ErrNoDecay", err)
	}
}

func TestCurveShape(t *testing.T) {
	a, _ := NewAnalyzer(48000)
	curve, err := a.Curve(exponentialTail(48000, 1.0, 1.0))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(curve[0]) > 1e-9 {
		t.Fatalf("curve starts at %g dB, want 0", curve[0])
	}
	for i := 1; i < len(curve); i++ {
		if curve[i] > curve[i-1]+1e-9 {
			t.Fatalf("curve not monotone at %d: %g > %g", i, curve[i], curve[i-1])
		}
	}
}

func TestPeak(t *testing.T) {
	a, _ := NewAnalyzer(48000)
	idx, peak := a.Peak([]float64{0.1, -0.9, 0.5, 0.3})
	if idx != 1 || peak != 0.9 {
		t.Fatalf("Peak = (%d,%g), want (1,0.9)", idx, peak)
	}
}

func TestBandEnergyLocatesTone(t *testing.T) {
	const sampleRate = 48000
	a, _ := NewAnalyzer(sampleRate)

	n := 8192
	tone := make([]float64, n)
	for i := range tone {
		tone[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / sampleRate)
	}

	bands, err := a.BandEnergy(tone, []float64{100, 500, 1500, 4000})
	if err != nil {
		t.Fatal(err)
	}
	if len(bands) != 3 {
		t.Fatalf("got %d bands, want 3", len(bands))
	}
	if bands[1] <= bands[0]*10 || bands[1] <= bands[2]*10 {
		t.Fatalf("1 kHz tone not concentrated in its band: %v", bands)
	}
}

func TestBandEnergyValidation(t *testing.T) {
	a, _ := NewAnalyzer(48000)

	if _, err := a.BandEnergy(nil, []float64{100, 200}); err != ErrEmptyResponse {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
	if _, err := a.BandEnergy([]float64{1}, []float64{100}); err != ErrInvalidBands {
		t.Fatalf("err = %v, want ErrInvalidBands", err)
	}
	if _, err := a.BandEnergy([]float64{1}, []float64{200, 100}); err != ErrInvalidBands {
		t.Fatalf("err = %v, want ErrInvalidBands", err)
	}
}
