package ocean

import "math"

// waveEnvelope shapes a single swell over its normalized lifetime.
// Quadratic build-up, short plateau, then a slow power-law release.
func waveEnvelope(phase float64) float64 {
	switch {
	case phase <= 0:
		return 0
	case phase >= 1:
		return 0
	case phase < 0.25:
		t := phase / 0.25
		return t * t
	case phase < 0.35:
		return 1
	default:
		t := (phase - 0.35) / 0.65
		return math.Pow(1-t, 1.5)
	}
}

// foamEnvelope gates the bright spray layer around the crest,
// a half sine over phase [0.2, 0.6].
func foamEnvelope(phase float64) float64 {
	if phase < 0.2 || phase > 0.6 {
		return 0
	}
	return math.Sin(math.Pi * (phase - 0.2) / 0.4)
}

// rockDensityBreakpoints traces pebble activity across the wave:
// silent approach, a crash peak, a dragging plateau as the water
// pulls back, and a tail that dies before the wave does.
var rockDensityBreakpoints = [...][2]float64{
	{0.35, 0.0},
	{0.425, 1.0},
	{0.50, 0.6},
	{0.85, 0.5},
	{0.98, 0.0},
}

func rockDensityEnvelope(phase float64) float64 {
	bp := rockDensityBreakpoints[:]
	if phase <= bp[0][0] || phase >= bp[len(bp)-1][0] {
		return 0
	}
	for i := 1; i < len(bp); i++ {
		if phase < bp[i][0] {
			t := (phase - bp[i-1][0]) / (bp[i][0] - bp[i-1][0])
			return bp[i-1][1] + t*(bp[i][1]-bp[i-1][1])
		}
	}
	return 0
}
