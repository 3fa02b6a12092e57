package noisemaster

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gekko3d/noisemaster/noise"
	"github.com/gocarina/gocsv"
)

// Sample is one timed dispatch. ElapsedMs covers binding and submission;
// RoundTripMs also waits for a readback of the result, so it includes the
// GPU work.
type Sample struct {
	Kernel      string  `csv:"kernel"`
	Space       string  `csv:"space"`
	NoiseType   string  `csv:"noise_type"`
	Resolution  int     `csv:"resolution"`
	Run         int     `csv:"run"`
	ElapsedMs   float64 `csv:"elapsed_ms"`
	RoundTripMs float64 `csv:"round_trip_ms"`
}

type Profiler struct {
	mu      sync.Mutex
	samples []*Sample
}

func (p *Profiler) Record(s Sample) {
	p.mu.Lock()
	p.samples = append(p.samples, &s)
	p.mu.Unlock()
}

func (p *Profiler) Samples() []Sample {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Sample, len(p.samples))
	for i, s := range p.samples {
		out[i] = *s
	}
	return out
}

func (p *Profiler) Reset() {
	p.mu.Lock()
	p.samples = nil
	p.mu.Unlock()
}

// WriteCSV writes every sample with a header row.
func (p *Profiler) WriteCSV(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := gocsv.Marshal(p.samples, w); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

func (p *Profiler) WriteCSVFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := p.WriteCSV(file); err != nil {
		return err
	}
	return file.Close()
}

// Measure plays h once and records the timing as run number run.
func (p *Profiler) Measure(h *noise.Handler, run int) error {
	start := time.Now()
	if err := h.Play(true); err != nil {
		return err
	}
	// A readback of one layer is enough to wait for the dispatch.
	if _, err := h.Device().ReadTexture(h.Result(), 0); err != nil {
		return err
	}
	roundTrip := time.Since(start)

	p.Record(Sample{
		Kernel:      h.KernelName(),
		Space:       SpaceOf(h).String(),
		NoiseType:   h.Configuration().NoiseType().String(),
		Resolution:  h.Resolution(),
		Run:         run,
		ElapsedMs:   h.ElapsedMs(),
		RoundTripMs: float64(roundTrip.Microseconds()) / 1000,
	})
	return nil
}

// Benchmark creates one handler per resolution with settings and measures
// runs plays of each.
func Benchmark(f *NoiseFactory, p *Profiler, space NoiseSpace, settings noise.Settings, resolutions []int, runs int) error {
	for _, res := range resolutions {
		h, err := f.Create(space, res)
		if err != nil {
			return err
		}
		h.AutoUpdate = false
		h.Configuration().SetSettings(settings)
		for run := 0; run < runs; run++ {
			if err := p.Measure(h, run); err != nil {
				f.Dispose(h)
				return fmt.Errorf("benchmark %s at %d: %w", space, res, err)
			}
		}
		f.Dispose(h)
	}
	return nil
}
