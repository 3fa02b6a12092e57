package softgpu

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/logging"
	"github.com/go-gl/mathgl/mgl32"
)

// DispatchRecord is one call to Dispatch as the program saw it.
type DispatchRecord struct {
	Kernel   string
	Grid     compute.ThreadGroupShape
	Group    compute.ThreadGroupShape
	Keywords []string
}

// Program holds binding and keyword state for one loaded ProgramDef.
// Like a real GPU program it is not safe for concurrent use.
type Program struct {
	def      ProgramDef
	ints     map[compute.PropertyID]int32
	floats   map[compute.PropertyID]float32
	vectors  map[compute.PropertyID]mgl32.Vec4
	textures map[int]map[compute.PropertyID]compute.Texture
	keywords map[string]bool
	records  []DispatchRecord
	released bool
	logger   logging.Logger
}

var _ compute.Program = (*Program)(nil)

func newProgram(def ProgramDef, logger logging.Logger) *Program {
	return &Program{
		def:      def,
		ints:     make(map[compute.PropertyID]int32),
		floats:   make(map[compute.PropertyID]float32),
		vectors:  make(map[compute.PropertyID]mgl32.Vec4),
		textures: make(map[int]map[compute.PropertyID]compute.Texture),
		keywords: make(map[string]bool),
		logger:   logger,
	}
}

func (p *Program) Name() string { return p.def.Name }

func (p *Program) FindKernel(name string) (int, error) {
	for i, k := range p.def.Kernels {
		if k.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q in %s", compute.ErrKernelNotFound, name, p.def.Name)
}

func (p *Program) SetInt(id compute.PropertyID, v int32)        { p.ints[id] = v }
func (p *Program) SetFloat(id compute.PropertyID, v float32)    { p.floats[id] = v }
func (p *Program) SetVector(id compute.PropertyID, v mgl32.Vec4) { p.vectors[id] = v }

func (p *Program) SetTexture(kernel int, id compute.PropertyID, tex compute.Texture) {
	m, ok := p.textures[kernel]
	if !ok {
		m = make(map[compute.PropertyID]compute.Texture)
		p.textures[kernel] = m
	}
	m[id] = tex
}

func (p *Program) EnableKeyword(keyword string)          { p.keywords[keyword] = true }
func (p *Program) DisableKeyword(keyword string)         { delete(p.keywords, keyword) }
func (p *Program) IsKeywordEnabled(keyword string) bool { return p.keywords[keyword] }

// EnabledKeywords returns the enabled keywords in sorted order.
func (p *Program) EnabledKeywords() []string {
	out := make([]string, 0, len(p.keywords))
	for kw := range p.keywords {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// Int returns the value last bound to name.
func (p *Program) Int(name string) (int32, bool) {
	v, ok := p.ints[compute.PropertyToID(name)]
	return v, ok
}

func (p *Program) Float(name string) (float32, bool) {
	v, ok := p.floats[compute.PropertyToID(name)]
	return v, ok
}

func (p *Program) Vector(name string) (mgl32.Vec4, bool) {
	v, ok := p.vectors[compute.PropertyToID(name)]
	return v, ok
}

// BoundTexture returns the texture bound to name on kernel.
func (p *Program) BoundTexture(kernel int, name string) compute.Texture {
	return p.textures[kernel][compute.PropertyToID(name)]
}

// Dispatches returns every dispatch recorded so far.
func (p *Program) Dispatches() []DispatchRecord {
	return append([]DispatchRecord(nil), p.records...)
}

// LastDispatch returns the most recent dispatch record.
func (p *Program) LastDispatch() (DispatchRecord, bool) {
	if len(p.records) == 0 {
		return DispatchRecord{}, false
	}
	return p.records[len(p.records)-1], true
}

func (p *Program) Released() bool { return p.released }

func (p *Program) Release() {
	p.released = true
	p.textures = make(map[int]map[compute.PropertyID]compute.Texture)
}

// Dispatch records the call and then runs the kernel once per invocation
// of an x*y*z grid of workgroups. Layers along Z are spread over workers;
// kernels must only write texels derived from their own invocation id.
func (p *Program) Dispatch(kernel int, x, y, z int) error {
	if p.released {
		return fmt.Errorf("softgpu: program %s released", p.def.Name)
	}
	if kernel < 0 || kernel >= len(p.def.Kernels) {
		return fmt.Errorf("%w: index %d in %s", compute.ErrKernelNotFound, kernel, p.def.Name)
	}
	k := p.def.Kernels[kernel]
	grid := compute.ThreadGroupShape{X: x, Y: y, Z: z}
	p.records = append(p.records, DispatchRecord{
		Kernel:   k.Name,
		Grid:     grid,
		Group:    k.Group,
		Keywords: p.EnabledKeywords(),
	})
	if k.Fn == nil || x <= 0 || y <= 0 || z <= 0 {
		return nil
	}

	snap := p.snapshot(kernel)
	sx, sy, sz := x*k.Group.X, y*k.Group.Y, z*k.Group.Z
	layers := make(chan int, sz)
	for gz := 0; gz < sz; gz++ {
		layers <- gz
	}
	close(layers)

	workers := runtime.GOMAXPROCS(0)
	if workers > sz {
		workers = sz
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := &KernelContext{bindings: snap}
			for gz := range layers {
				for gy := 0; gy < sy; gy++ {
					for gx := 0; gx < sx; gx++ {
						ctx.ID = [3]int{gx, gy, gz}
						k.Fn(ctx)
					}
				}
			}
		}()
	}
	wg.Wait()
	return nil
}

func (p *Program) snapshot(kernel int) *bindings {
	b := &bindings{
		ints:     make(map[compute.PropertyID]int32, len(p.ints)),
		floats:   make(map[compute.PropertyID]float32, len(p.floats)),
		vectors:  make(map[compute.PropertyID]mgl32.Vec4, len(p.vectors)),
		textures: make(map[compute.PropertyID]*Texture),
		keywords: make(map[string]bool, len(p.keywords)),
	}
	for k, v := range p.ints {
		b.ints[k] = v
	}
	for k, v := range p.floats {
		b.floats[k] = v
	}
	for k, v := range p.vectors {
		b.vectors[k] = v
	}
	for k, v := range p.keywords {
		b.keywords[k] = v
	}
	for id, tex := range p.textures[kernel] {
		if t, ok := tex.(*Texture); ok && !t.released {
			b.textures[id] = t
		} else if tex != nil {
			p.logger.Warnf("softgpu: %s binding %q is not a live softgpu texture", p.def.Name, compute.PropertyName(id))
		}
	}
	return b
}
