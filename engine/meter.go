package engine

import (
	"fmt"
	"time"
)

// Telemetry is one metering report covering roughly one second of
// rendered audio.
type Telemetry struct {
	Engine     string
	CPUPercent float64
	AvgTimeMs  float64
}

// Meter accumulates per-block render timings and emits a Telemetry
// report about once per second of audio. Sends never block: when the
// receiver falls behind, reports are dropped.
type Meter struct {
	engine     string
	sampleRate float64
	out        chan<- Telemetry

	samples int
	spent   time.Duration
	blocks  int
}

// NewMeter creates a meter reporting on the named engine.
func NewMeter(engine string, sampleRate float64, out chan<- Telemetry) (*Meter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}
	if out == nil {
		return nil, fmt.Errorf("telemetry channel must not be nil")
	}
	return &Meter{engine: engine, sampleRate: sampleRate, out: out}, nil
}

// Add records one rendered block and its wall-clock cost.
func (m *Meter) Add(blockLen int, elapsed time.Duration) {
	if blockLen <= 0 {
		return
	}
	m.samples += blockLen
	m.spent += elapsed
	m.blocks++

	if float64(m.samples) < m.sampleRate {
		return
	}

	audioSeconds := float64(m.samples) / m.sampleRate
	report := Telemetry{
		Engine:     m.engine,
		CPUPercent: m.spent.Seconds() / audioSeconds * 100,
		AvgTimeMs:  m.spent.Seconds() * 1000 / float64(m.blocks),
	}
	select {
	case m.out <- report:
	default:
	}

	m.samples = 0
	m.spent = 0
	m.blocks = 0
}
