// Command ambientgen renders a procedural shoreline scene: ocean surf
// feeding a granular shimmer layer, the mix washed through the reverb.
//
// Usage:
//
//	ambientgen [flags]
//
// Examples:
//
//	ambientgen                          play live until interrupted
//	ambientgen -duration 30s            play live for 30 seconds
//	ambientgen -out scene.f32 -duration 60s
//	ambientgen -seed 12345 -reverb cathedral -pebbles 0.8
//
// The -out file holds raw interleaved stereo float32 little-endian
// samples at the configured rate.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/granular"
	"github.com/cwbudde/algo-ambient/dsp/ocean"
	"github.com/cwbudde/algo-ambient/dsp/reverb"
	"github.com/cwbudde/algo-ambient/engine"
)

const (
	blockSize = 256
	dryLevel  = 0.65
	wetLevel  = 0.35
)

var reverbTypes = map[string]reverb.Type{
	"plate":     reverb.TypePlate,
	"hall":      reverb.TypeHall,
	"cathedral": reverb.TypeCathedral,
	"darkhall":  reverb.TypeDarkHall,
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("ambientgen: ")

	var (
		seed     = flag.Uint("seed", 1, "random seed (same seed, same ocean)")
		rate     = flag.Int("rate", 48000, "sample rate in Hz")
		duration = flag.Duration("duration", 0, "render length; 0 plays until interrupted")
		outPath  = flag.String("out", "", "write raw float32 stereo to this file instead of playing")
		verbName = flag.String("reverb", "hall", "reverb preset: plate, hall, cathedral, darkhall")
		pebbles  = flag.Float64("pebbles", 0.5, "rock transient amount, 0..1")
		shimmer  = flag.Float64("shimmer", 0.35, "granular layer level, 0..1")
	)
	flag.Parse()

	verbType, ok := reverbTypes[*verbName]
	if !ok {
		log.Fatalf("unknown reverb preset %q", *verbName)
	}

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(*rate)),
		core.WithBlockSize(blockSize),
	)

	s, err := newScene(cfg, uint32(*seed), verbType, *pebbles, *shimmer)
	if err != nil {
		log.Fatal(err)
	}

	reports := make(chan engine.Telemetry, 8)
	s.meter, err = engine.NewMeter("scene", float64(*rate), reports)
	if err != nil {
		log.Fatal(err)
	}
	go func() {
		for r := range reports {
			log.Printf("%s: %.1f%% cpu, %.3f ms/block", r.Engine, r.CPUPercent, r.AvgTimeMs)
		}
	}()

	if *outPath != "" {
		if *duration <= 0 {
			log.Fatal("-out requires a positive -duration")
		}
		if err := renderToFile(s, *outPath, *rate, *duration); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s of audio to %s", *duration, *outPath)
		return
	}

	if err := playLive(s, *rate, *duration); err != nil {
		log.Fatal(err)
	}
}

// scene wires the three engines into one render chain. Parameter
// changes from the control goroutine arrive through verbParams and are
// applied at block boundaries.
type scene struct {
	surf   *ocean.Ocean
	grains *granular.Granulator
	verb   *reverb.Reverb
	meter  *engine.Meter

	verbParams engine.Slot[reverb.Params]
	shimmer    float64

	surfL, surfR   []float64
	grainL, grainR []float64
	wetL, wetR     []float64
}

func newScene(cfg core.ProcessorConfig, seed uint32, verbType reverb.Type, pebbles, shimmer float64) (*scene, error) {
	sampleRate := cfg.SampleRate

	surf, err := ocean.New(sampleRate)
	if err != nil {
		return nil, err
	}
	op := ocean.DefaultParams()
	op.Pebbles = pebbles
	surf.SetParams(op)

	grains, err := granular.New(sampleRate)
	if err != nil {
		return nil, err
	}
	gp := granular.DefaultParams()
	gp.PitchMode = granular.PitchHarmonic
	gp.Density = 14
	gp.GrainSizeMinMs = 120
	gp.GrainSizeMaxMs = 350
	gp.WetMix = 1
	grains.SetParams(gp)

	verb, err := reverb.New(sampleRate)
	if err != nil {
		return nil, err
	}
	vp := reverb.DefaultParams()
	vp.Type = verbType
	verb.SetParams(vp)

	surf.Reset(seed)
	grains.Reset(seed)
	verb.Reset(seed)

	return &scene{
		surf:    surf,
		grains:  grains,
		verb:    verb,
		shimmer: shimmer,
		surfL:   make([]float64, cfg.BlockSize),
		surfR:   make([]float64, cfg.BlockSize),
		grainL:  make([]float64, cfg.BlockSize),
		grainR:  make([]float64, cfg.BlockSize),
		wetL:    make([]float64, cfg.BlockSize),
		wetR:    make([]float64, cfg.BlockSize),
	}, nil
}

// renderBlock fills outL/outR (length blockSize) with the next chunk.
func (s *scene) renderBlock(outL, outR []float64) {
	start := time.Now()

	if p, ok := s.verbParams.Take(); ok {
		s.verb.SetParams(p)
	}

	s.surf.ProcessBlock(s.surfL, s.surfR)
	s.grains.ProcessBlock(s.surfL, s.surfR, s.grainL, s.grainR)

	core.CopyInto(outL, s.surfL)
	core.CopyInto(outR, s.surfR)
	core.ScaleInPlace(s.grainL, s.shimmer)
	core.ScaleInPlace(s.grainR, s.shimmer)
	core.AddInto(outL, s.grainL)
	core.AddInto(outR, s.grainR)

	s.verb.ProcessBlock(outL, outR, s.wetL, s.wetR)
	core.ScaleInPlace(outL, dryLevel)
	core.ScaleInPlace(outR, dryLevel)
	core.ScaleInPlace(s.wetL, wetLevel)
	core.ScaleInPlace(s.wetR, wetLevel)
	core.AddInto(outL, s.wetL)
	core.AddInto(outR, s.wetR)

	if s.meter != nil {
		s.meter.Add(len(outL), time.Since(start))
	}
}

// streamReader adapts the scene to the io.Reader contract oto expects:
// interleaved stereo float32 little-endian.
type streamReader struct {
	scene *scene
	outL  []float64
	outR  []float64
	buf   []byte
	rest  []byte
}

func newStreamReader(s *scene) *streamReader {
	return &streamReader{
		scene: s,
		outL:  make([]float64, blockSize),
		outR:  make([]float64, blockSize),
		buf:   make([]byte, blockSize*8),
	}
}

func (sr *streamReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(sr.rest) == 0 {
			sr.scene.renderBlock(sr.outL, sr.outR)
			encodeStereo(sr.buf, sr.outL, sr.outR)
			sr.rest = sr.buf
		}
		c := copy(p[n:], sr.rest)
		sr.rest = sr.rest[c:]
		n += c
	}
	return n, nil
}

func encodeStereo(dst []byte, outL, outR []float64) {
	for i := range outL {
		binary.LittleEndian.PutUint32(dst[i*8:], math.Float32bits(float32(outL[i])))
		binary.LittleEndian.PutUint32(dst[i*8+4:], math.Float32bits(float32(outR[i])))
	}
}

func playLive(s *scene, rate int, duration time.Duration) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(newStreamReader(s))
	player.Play()
	defer player.Close()

	if duration > 0 {
		log.Printf("playing for %s", duration)
		time.Sleep(duration)
		return nil
	}

	log.Print("playing, enter cycles the reverb preset, ctrl-c to stop")
	go cyclePresets(s)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	return nil
}

// cyclePresets advances the reverb preset on every line of input.
func cyclePresets(s *scene) {
	order := []struct {
		name string
		typ  reverb.Type
	}{
		{"hall", reverb.TypeHall},
		{"cathedral", reverb.TypeCathedral},
		{"darkhall", reverb.TypeDarkHall},
		{"plate", reverb.TypePlate},
	}

	next := 0
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		p := reverb.DefaultParams()
		p.Type = order[next].typ
		s.verbParams.Store(p)
		log.Printf("reverb: %s", order[next].name)
		next = (next + 1) % len(order)
	}
}

func renderToFile(s *scene, path string, rate int, duration time.Duration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	outL := make([]float64, blockSize)
	outR := make([]float64, blockSize)
	buf := make([]byte, blockSize*8)

	total := int(duration.Seconds() * float64(rate))
	for rendered := 0; rendered < total; rendered += blockSize {
		s.renderBlock(outL, outR)
		encodeStereo(buf, outL, outR)

		n := blockSize
		if total-rendered < n {
			n = total - rendered
		}
		if _, err := w.Write(buf[:n*8]); err != nil {
			return err
		}
	}
	return w.Flush()
}
