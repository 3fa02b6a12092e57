package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/noisemaster/compute"
)

// TextureFormat is the only format kernels write: 8 bit RGBA, matching
// the storage texture declarations of the shipped kernels.
const TextureFormat = wgpu.TextureFormatRGBA8Unorm

type Texture struct {
	desc     compute.TextureDescriptor
	texture  *wgpu.Texture
	view     *wgpu.TextureView
	released bool
}

func (t *Texture) Label() string                       { return t.desc.Label }
func (t *Texture) Width() int                          { return t.desc.Width }
func (t *Texture) Height() int                         { return t.desc.Height }
func (t *Texture) Depth() int                          { return t.desc.Depth }
func (t *Texture) Dimension() compute.TextureDimension { return t.desc.Dimension }

func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.view.Release()
	t.texture.Release()
}

func viewDimension(d compute.TextureDimension) wgpu.TextureViewDimension {
	if d == compute.TextureDimension3D {
		return wgpu.TextureViewDimension3D
	}
	return wgpu.TextureViewDimension2D
}

func (d *Device) CreateTexture(desc compute.TextureDescriptor) (compute.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("gpu: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	dim := wgpu.TextureDimension2D
	depth := 1
	if desc.Dimension == compute.TextureDimension3D {
		dim = wgpu.TextureDimension3D
		depth = desc.Depth
	}
	desc.Depth = depth

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         desc.Label,
		Size:          wgpu.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), DepthOrArrayLayers: uint32(depth)},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     dim,
		Format:        TextureFormat,
		Usage: wgpu.TextureUsageStorageBinding | wgpu.TextureUsageTextureBinding |
			wgpu.TextureUsageCopySrc | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %q: %w", desc.Label, err)
	}
	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           desc.Label,
		Format:          TextureFormat,
		Dimension:       viewDimension(desc.Dimension),
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
	})
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("gpu: create view %q: %w", desc.Label, err)
	}
	return &Texture{desc: desc, texture: tex, view: view}, nil
}
