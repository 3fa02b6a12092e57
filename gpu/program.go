package gpu

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/logging"
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a WGSL module with an explicit layout: the uniform block at
// group 0 binding 0 and the declared texture slots after it. Each distinct
// set of enabled keywords compiles its own shader module; pipelines are
// built per kernel and cached with the variant.
type Program struct {
	device *Device
	src    compute.ProgramSource
	layout uniformLayout
	logger logging.Logger

	ints     map[compute.PropertyID]int32
	floats   map[compute.PropertyID]float32
	vectors  map[compute.PropertyID]mgl32.Vec4
	textures map[int]map[compute.PropertyID]*Texture
	keywords map[string]bool

	uniform         *wgpu.Buffer
	bindLayouts     []*wgpu.BindGroupLayout
	pipelineLayouts []*wgpu.PipelineLayout

	mu       sync.Mutex
	variants map[string]*variant
	released bool
}

type variant struct {
	module    *wgpu.ShaderModule
	pipelines map[int]*wgpu.ComputePipeline
}

var _ compute.Program = (*Program)(nil)

func (d *Device) LoadProgram(src compute.ProgramSource) (compute.Program, error) {
	if src.Code == "" {
		return nil, fmt.Errorf("gpu: program %q has no source", src.Name)
	}
	p := &Program{
		device:   d,
		src:      src,
		layout:   packUniforms(src.Uniforms),
		logger:   d.logger,
		ints:     make(map[compute.PropertyID]int32),
		floats:   make(map[compute.PropertyID]float32),
		vectors:  make(map[compute.PropertyID]mgl32.Vec4),
		textures: make(map[int]map[compute.PropertyID]*Texture),
		keywords: make(map[string]bool),
		variants: make(map[string]*variant),
	}

	var err error
	p.uniform, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: src.Name + " uniforms",
		Size:  uint64(p.layout.size),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create uniform buffer for %s: %w", src.Name, err)
	}

	for _, kernel := range src.Kernels {
		bgl, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   src.Name + " " + kernel,
			Entries: p.layoutEntries(kernel),
		})
		if err != nil {
			p.Release()
			return nil, fmt.Errorf("gpu: bind group layout for %s.%s: %w", src.Name, kernel, err)
		}
		p.bindLayouts = append(p.bindLayouts, bgl)

		pl, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
			Label:            src.Name + " " + kernel,
			BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
		})
		if err != nil {
			p.Release()
			return nil, fmt.Errorf("gpu: pipeline layout for %s.%s: %w", src.Name, kernel, err)
		}
		p.pipelineLayouts = append(p.pipelineLayouts, pl)
	}
	return p, nil
}

func (p *Program) layoutEntries(kernel string) []wgpu.BindGroupLayoutEntry {
	entries := []wgpu.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: wgpu.ShaderStageCompute,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: uint64(p.layout.size),
		},
	}}
	for _, slot := range p.src.SlotsFor(kernel) {
		e := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(slot.Binding),
			Visibility: wgpu.ShaderStageCompute,
		}
		if slot.Access == compute.TextureRead {
			e.Texture = wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
				ViewDimension: viewDimension(slot.Dimension),
			}
		} else {
			e.StorageTexture = wgpu.StorageTextureBindingLayout{
				Access:        wgpu.StorageTextureAccessWriteOnly,
				Format:        TextureFormat,
				ViewDimension: viewDimension(slot.Dimension),
			}
		}
		entries = append(entries, e)
	}
	return entries
}

func (p *Program) Name() string { return p.src.Name }

func (p *Program) FindKernel(name string) (int, error) {
	for i, k := range p.src.Kernels {
		if k == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q in %s", compute.ErrKernelNotFound, name, p.src.Name)
}

func (p *Program) SetInt(id compute.PropertyID, v int32)        { p.ints[id] = v }
func (p *Program) SetFloat(id compute.PropertyID, v float32)    { p.floats[id] = v }
func (p *Program) SetVector(id compute.PropertyID, v mgl32.Vec4) { p.vectors[id] = v }

// SetTexture binds tex to the slot named by id. Textures from another
// backend are ignored and reported when the kernel is dispatched.
func (p *Program) SetTexture(kernel int, id compute.PropertyID, tex compute.Texture) {
	m, ok := p.textures[kernel]
	if !ok {
		m = make(map[compute.PropertyID]*Texture)
		p.textures[kernel] = m
	}
	t, _ := tex.(*Texture)
	m[id] = t
}

func (p *Program) EnableKeyword(keyword string)          { p.keywords[keyword] = true }
func (p *Program) DisableKeyword(keyword string)         { delete(p.keywords, keyword) }
func (p *Program) IsKeywordEnabled(keyword string) bool { return p.keywords[keyword] }

// pipeline returns the compiled pipeline for kernel under the current
// keyword set, compiling the variant on first use.
func (p *Program) pipeline(kernel int) (*wgpu.ComputePipeline, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := variantKey(p.keywords)
	v, ok := p.variants[key]
	if !ok {
		code, err := Preprocess(p.src.Code, p.keywords)
		if err != nil {
			return nil, fmt.Errorf("gpu: preprocess %s [%s]: %w", p.src.Name, key, err)
		}
		if p.device.validate {
			if err := ValidateWGSL(code); err != nil {
				return nil, fmt.Errorf("%s [%s]: %w", p.src.Name, key, err)
			}
		}
		module, err := p.device.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          p.src.Name + " [" + key + "]",
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
		})
		if err != nil {
			return nil, fmt.Errorf("gpu: compile %s [%s]: %w", p.src.Name, key, err)
		}
		v = &variant{module: module, pipelines: make(map[int]*wgpu.ComputePipeline)}
		p.variants[key] = v
		p.logger.Debugf("gpu: compiled %s variant [%s]", p.src.Name, key)
	}
	if pl, ok := v.pipelines[kernel]; ok {
		return pl, nil
	}
	entry := p.src.Kernels[kernel]
	pl, err := p.device.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  p.src.Name + "." + entry,
		Layout: p.pipelineLayouts[kernel],
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     v.module,
			EntryPoint: entry,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: pipeline %s.%s [%s]: %w", p.src.Name, entry, key, err)
	}
	v.pipelines[kernel] = pl
	return pl, nil
}

// Dispatch uploads the uniforms, binds the kernel's texture slots and
// submits one compute pass. It does not wait for the GPU.
func (p *Program) Dispatch(kernel int, x, y, z int) error {
	if p.released {
		return fmt.Errorf("gpu: program %s released", p.src.Name)
	}
	if kernel < 0 || kernel >= len(p.src.Kernels) {
		return fmt.Errorf("%w: index %d in %s", compute.ErrKernelNotFound, kernel, p.src.Name)
	}
	pipeline, err := p.pipeline(kernel)
	if err != nil {
		return err
	}

	dev := p.device
	if err := dev.queue.WriteBuffer(p.uniform, 0, p.layout.encode(p.ints, p.floats, p.vectors)); err != nil {
		return fmt.Errorf("gpu: upload %s uniforms: %w", p.src.Name, err)
	}

	entries := []wgpu.BindGroupEntry{{
		Binding: 0,
		Buffer:  p.uniform,
		Size:    uint64(p.layout.size),
	}}
	for _, slot := range p.src.SlotsFor(p.src.Kernels[kernel]) {
		tex := p.textures[kernel][compute.PropertyToID(slot.Name)]
		if tex == nil || tex.released {
			return fmt.Errorf("gpu: %s.%s: texture %q not bound", p.src.Name, p.src.Kernels[kernel], slot.Name)
		}
		entries = append(entries, wgpu.BindGroupEntry{
			Binding:     uint32(slot.Binding),
			TextureView: tex.view,
		})
	}
	bindGroup, err := dev.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.src.Name + " bind group",
		Layout:  p.bindLayouts[kernel],
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("gpu: bind group for %s: %w", p.src.Name, err)
	}
	defer bindGroup.Release()

	encoder, err := dev.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	defer encoder.Release()
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(uint32(x), uint32(y), uint32(z))
	err = pass.End()
	pass.Release()
	if err != nil {
		return fmt.Errorf("gpu: end compute pass: %w", err)
	}

	commands, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: finish dispatch: %w", err)
	}
	defer commands.Release()
	dev.queue.Submit(commands)
	return nil
}

// Variants reports how many keyword variants have been compiled.
func (p *Program) Variants() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.variants)
}

func (p *Program) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	p.released = true
	for _, v := range p.variants {
		for _, pl := range v.pipelines {
			pl.Release()
		}
		v.module.Release()
	}
	p.variants = nil
	for _, pl := range p.pipelineLayouts {
		pl.Release()
	}
	for _, bgl := range p.bindLayouts {
		bgl.Release()
	}
	if p.uniform != nil {
		p.uniform.Release()
	}
}
