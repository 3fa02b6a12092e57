package noisemaster

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/logging"
	"github.com/gekko3d/noisemaster/noise"
)

type NoiseSpace int

const (
	Noise2D NoiseSpace = iota
	Noise3D
)

func (s NoiseSpace) String() string {
	if s == Noise3D {
		return "3d"
	}
	return "2d"
}

func (s NoiseSpace) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *NoiseSpace) UnmarshalText(b []byte) error {
	v, err := ParseNoiseSpace(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func ParseNoiseSpace(s string) (NoiseSpace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2d", "noise2d":
		return Noise2D, nil
	case "3d", "noise3d":
		return Noise3D, nil
	}
	return Noise2D, fmt.Errorf("unknown noise space %q", s)
}

// SpaceOf reports which space a handler generates in.
func SpaceOf(h *noise.Handler) NoiseSpace {
	if h.Kind() == compute.Volume3D {
		return Noise3D
	}
	return Noise2D
}

// NoiseModule installs a NoiseFactory. A backend must be installed first.
type NoiseModule struct {
	// AutoUpdate is applied to every handler the factory creates.
	AutoUpdate bool
}

func (m NoiseModule) Install(app *App) error {
	backend, ok := Resource[Backend](app)
	if !ok {
		return errors.New("noise module needs a backend; install one first")
	}
	f := &NoiseFactory{
		backend:    backend,
		logger:     app.Logger(),
		autoUpdate: m.AutoUpdate,
		programs:   make(map[*noise.Handler]compute.Program),
	}
	app.addResources(f)
	app.onRelease(f.release)
	return nil
}

// NoiseFactory creates noise handlers on the installed backend and owns
// the programs it loads for them.
type NoiseFactory struct {
	backend    *Backend
	logger     logging.Logger
	autoUpdate bool

	mu       sync.Mutex
	programs map[*noise.Handler]compute.Program
}

func (f *NoiseFactory) Backend() *Backend { return f.backend }

// CreateNoise2DGenHandler returns a handler that writes a resolution^2
// texture through the Noise2DGen kernel.
func (f *NoiseFactory) CreateNoise2DGenHandler(resolution int) (*noise.Handler, error) {
	return f.Create(Noise2D, resolution)
}

// CreateNoise3DGenHandler returns a handler that writes a resolution^3
// volume through the Noise3DGen kernel.
func (f *NoiseFactory) CreateNoise3DGenHandler(resolution int) (*noise.Handler, error) {
	return f.Create(Noise3D, resolution)
}

func (f *NoiseFactory) Create(space NoiseSpace, resolution int) (*noise.Handler, error) {
	program, err := f.backend.LoadNoiseProgram()
	if err != nil {
		return nil, err
	}
	var h *noise.Handler
	switch space {
	case Noise3D:
		h = noise.NewNoise3DHandler(f.backend.Device, program, f.backend.Copier, resolution, f.logger)
	default:
		h = noise.NewNoise2DHandler(f.backend.Device, program, resolution, f.logger)
	}
	h.AutoUpdate = f.autoUpdate

	f.mu.Lock()
	f.programs[h] = program
	f.mu.Unlock()
	f.logger.Debugf("created %s noise handler %s at %d", space, h.ID(), h.Resolution())
	return h, nil
}

// Dispose disposes h and releases the program the factory loaded for it.
func (f *NoiseFactory) Dispose(h *noise.Handler) {
	h.Dispose()
	f.mu.Lock()
	program, ok := f.programs[h]
	delete(f.programs, h)
	f.mu.Unlock()
	if ok {
		program.Release()
	}
}

// Live reports how many handlers the factory still owns.
func (f *NoiseFactory) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.programs)
}

func (f *NoiseFactory) release() {
	f.mu.Lock()
	handlers := make([]*noise.Handler, 0, len(f.programs))
	for h := range f.programs {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()
	for _, h := range handlers {
		f.Dispose(h)
	}
}
