package compute

import (
	"fmt"
	"sync"

	"github.com/gekko3d/noisemaster/logging"
)

// Binding contract of the layer copy kernel.
const (
	CopyLayerProgram       = "CopyTexture3D"
	CopyLayerKernel        = "CopyLayer"
	CopySourceBinding      = "Source"
	CopyDestinationBinding = "Destination"
	CopyLayerBinding       = "layer"
)

// CopyLayerThreadGroup is the workgroup size the copy kernel is compiled with.
var CopyLayerThreadGroup = ThreadGroupShape{X: 8, Y: 8, Z: 1}

// ProgramLoader builds a program on first use.
type ProgramLoader func() (Program, error)

// LayerCopier extracts one layer of a volume into a 2D texture with the
// auxiliary copy kernel. The kernel program is loaded once, on the first
// copy, and shared by every handler holding the copier.
type LayerCopier struct {
	device Device
	load   ProgramLoader

	mu      sync.Mutex
	program Program
	loadErr error
	loaded  bool
}

func NewLayerCopier(device Device, load ProgramLoader) *LayerCopier {
	return &LayerCopier{device: device, load: load}
}

// Program returns the copy program, loading it on the first call. A failed
// load is remembered and returned on every later call.
func (c *LayerCopier) Program() (Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.loaded = true
		if c.load == nil {
			c.loadErr = fmt.Errorf("%w: no loader for %s", ErrNotReady, CopyLayerProgram)
		} else {
			c.program, c.loadErr = c.load()
		}
	}
	return c.program, c.loadErr
}

// CopyLayer copies layer of the volume source into dest and returns dest.
// A nil dest, or one whose size does not match, is (re)created at the
// source's width. CopyLayer panics if source is not a volume.
func (c *LayerCopier) CopyLayer(source, dest Texture, layer int) (Texture, error) {
	if source.Dimension() != TextureDimension3D {
		panic(fmt.Errorf("%w: CopyLayer source %q is %s, want 3D", ErrDimensionMismatch, source.Label(), source.Dimension()))
	}
	program, err := c.Program()
	if err != nil {
		return dest, err
	}
	resolution := source.Width()
	if dest != nil && (dest.Dimension() != TextureDimension2D || dest.Width() != resolution) {
		dest.Release()
		dest = nil
	}
	if dest == nil {
		dest, err = c.device.CreateTexture(Texture2DDescriptor(source.Label()+"-layer", resolution))
		if err != nil {
			return nil, fmt.Errorf("create layer texture: %w", err)
		}
	}
	kernel, err := program.FindKernel(CopyLayerKernel)
	if err != nil {
		return dest, err
	}
	program.SetTexture(kernel, PropertyToID(CopySourceBinding), source)
	program.SetInt(PropertyToID(CopyLayerBinding), int32(layer))
	program.SetTexture(kernel, PropertyToID(CopyDestinationBinding), dest)
	g := CopyLayerThreadGroup
	if err := program.Dispatch(kernel, ceilDiv(resolution, g.X), ceilDiv(resolution, g.Y), 1); err != nil {
		return dest, fmt.Errorf("dispatch %s: %w", CopyLayerKernel, err)
	}
	return dest, nil
}

// Release frees the copy program if it was loaded.
func (c *LayerCopier) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.program != nil {
		c.program.Release()
		c.program = nil
	}
	c.loaded = false
	c.loadErr = nil
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

type volumePreview struct {
	copier    *LayerCopier
	enabled   bool
	showLayer int
	texture   Texture
}

func (v *volumePreview) refresh(source Texture, logger logging.Logger) error {
	if v.copier == nil {
		return fmt.Errorf("%w: preview requested without a layer copier", ErrNotReady)
	}
	layer := v.showLayer
	if max := source.Depth() - 1; layer > max {
		logger.Warnf("preview layer %d out of range, using %d", layer, max)
		layer = max
	}
	if layer < 0 {
		layer = 0
	}
	tex, err := v.copier.CopyLayer(source, v.texture, layer)
	v.texture = tex
	return err
}

func (v *volumePreview) release() {
	if v.texture != nil {
		v.texture.Release()
		v.texture = nil
	}
}

// PreviewEnabled reports whether Play refreshes the layer preview.
func (h *TextureHandler) PreviewEnabled() bool {
	return h.volume != nil && h.volume.enabled
}

// SetPreviewEnabled turns the layer preview on or off. Turning it off
// releases the preview texture. It is a no-op on 2D handlers.
func (h *TextureHandler) SetPreviewEnabled(enabled bool) {
	if h.volume == nil {
		return
	}
	h.volume.enabled = enabled
	if !enabled {
		h.volume.release()
	}
}

// ShowLayer is the volume layer the preview extracts.
func (h *TextureHandler) ShowLayer() int {
	if h.volume == nil {
		return 0
	}
	return h.volume.showLayer
}

func (h *TextureHandler) SetShowLayer(layer int) {
	if h.volume != nil {
		h.volume.showLayer = layer
	}
}

// Get2DResult returns the preview texture, or nil when there is none.
func (h *TextureHandler) Get2DResult() Texture {
	if h.volume == nil {
		return nil
	}
	return h.volume.texture
}

// RefreshPreview extracts ShowLayer again without re-dispatching the
// noise kernel. It fails with ErrPreviewDisabled unless the preview is on.
func (h *TextureHandler) RefreshPreview() error {
	if h.volume == nil {
		return fmt.Errorf("%w: %s handler has no preview", ErrDimensionMismatch, h.kind)
	}
	if !h.volume.enabled {
		return ErrPreviewDisabled
	}
	if h.texture == nil {
		return fmt.Errorf("%w: nothing generated yet", ErrNotReady)
	}
	return h.volume.refresh(h.texture, h.Logger())
}
