package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ambient/dsp/interp"
)

// guard is the number of samples kept clear of the write head so the
// 4-point cubic read never straddles freshly written data.
const guard = 3

// Line is a circular delay line.
//
// Capacity is fixed at construction; processing never allocates. Fractional
// reads clamp the requested delay to [0, size-guard], so a modulated delay
// time can never read past the buffer.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line holding size samples.
func New(size int) (*Line, error) {
	if size <= guard {
		return nil, fmt.Errorf("delay size must be > %d: %d", guard, size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the largest delay readable without hitting the guard.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - guard)
}

// Write writes one sample and advances the write cursor.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples relative to the last written sample.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if delay < 0 {
		delay = 0
	}
	if delay >= size {
		delay = size - 1
	}

	idx := d.writePos - 1 - delay
	if idx < 0 {
		idx += size
	}
	return d.buffer[idx]
}

// ReadLinear reads a fractional delay with 2-point linear interpolation.
func (d *Line) ReadLinear(delay float64) float64 {
	delay = d.clampDelay(delay)

	p := int(math.Floor(delay))
	t := delay - float64(p)

	return interp.Linear2(t, d.Read(p), d.Read(p+1))
}

// ReadCubic reads a fractional delay with 4-point cubic Hermite interpolation.
func (d *Line) ReadCubic(delay float64) float64 {
	delay = d.clampDelay(delay)

	p := int(math.Floor(delay))
	t := delay - float64(p)

	xm1 := d.Read(maxInt(0, p-1))
	x0 := d.Read(p)
	x1 := d.Read(p + 1)
	x2 := d.Read(p + 2)
	return interp.Hermite4(t, xm1, x0, x1, x2)
}

// ReadFractional reads a fractional delay using the requested mode.
func (d *Line) ReadFractional(delay float64, mode interp.Mode) float64 {
	if mode == interp.ModeLinear {
		return d.ReadLinear(delay)
	}
	return d.ReadCubic(delay)
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

func (d *Line) clampDelay(delay float64) float64 {
	if delay < 0 {
		return 0
	}
	if maxDelay := float64(len(d.buffer) - guard); delay > maxDelay {
		return maxDelay
	}
	return delay
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
