package softgpu

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/logging"
)

// KernelFunc runs one invocation of a kernel.
type KernelFunc func(ctx *KernelContext)

// Kernel is one entry point of a registered program. Group is the
// workgroup size the kernel behaves as if compiled with.
type Kernel struct {
	Name  string
	Group compute.ThreadGroupShape
	Fn    KernelFunc
}

// ProgramDef is what LoadProgram instantiates, looked up by Name.
type ProgramDef struct {
	Name    string
	Kernels []Kernel
}

type Device struct {
	mu       sync.Mutex
	defs     map[string]ProgramDef
	live     map[*Texture]struct{}
	created  int
	programs []*Program
	logger   logging.Logger
}

var _ compute.Device = (*Device)(nil)

// NewDevice returns a device with the layer copy program registered.
func NewDevice(logger logging.Logger) *Device {
	d := &Device{
		defs:   make(map[string]ProgramDef),
		live:   make(map[*Texture]struct{}),
		logger: logging.OrNop(logger),
	}
	d.Register(CopyLayerProgram())
	return d
}

// Register adds or replaces a program definition.
func (d *Device) Register(def ProgramDef) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.defs[def.Name] = def
}

func (d *Device) CreateTexture(desc compute.TextureDescriptor) (compute.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("softgpu: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	if desc.Dimension == compute.TextureDimension3D && desc.Depth <= 0 {
		return nil, fmt.Errorf("softgpu: invalid volume depth %d", desc.Depth)
	}
	t := newTexture(d, desc)
	d.mu.Lock()
	d.live[t] = struct{}{}
	d.created++
	d.mu.Unlock()
	return t, nil
}

func (d *Device) untrack(t *Texture) {
	d.mu.Lock()
	delete(d.live, t)
	d.mu.Unlock()
}

// LiveTextures counts textures created and not yet released.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

// CreatedTextures counts every texture ever created on the device.
func (d *Device) CreatedTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created
}

func (d *Device) ReadTexture(tex compute.Texture, layer int) (*image.RGBA, error) {
	t, ok := tex.(*Texture)
	if !ok || t.device != d {
		return nil, fmt.Errorf("softgpu: texture %q does not belong to this device", tex.Label())
	}
	if t.released {
		return nil, fmt.Errorf("softgpu: texture %q already released", t.Label())
	}
	if layer < 0 || layer >= t.Depth() {
		return nil, fmt.Errorf("softgpu: layer %d out of range [0,%d)", layer, t.Depth())
	}
	return t.Layer(layer), nil
}

func (d *Device) LoadProgram(src compute.ProgramSource) (compute.Program, error) {
	d.mu.Lock()
	def, ok := d.defs[src.Name]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("softgpu: no program registered as %q", src.Name)
	}
	p := newProgram(def, d.logger)
	d.mu.Lock()
	d.programs = append(d.programs, p)
	d.mu.Unlock()
	d.logger.Debugf("softgpu: loaded program %q (%d kernels)", def.Name, len(def.Kernels))
	return p, nil
}

// Programs returns every program loaded from the device, in load order.
func (d *Device) Programs() []*Program {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Program(nil), d.programs...)
}

// ProgramNames lists registered definitions.
func (d *Device) ProgramNames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, 0, len(d.defs))
	for n := range d.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
