package softgpu

import (
	"image"
	"image/color"

	"github.com/gekko3d/noisemaster/compute"
)

// Texture is an RGBA8 image held in host memory. Volumes store their
// layers back to back.
type Texture struct {
	desc     compute.TextureDescriptor
	pix      []uint8
	device   *Device
	released bool
}

func newTexture(d *Device, desc compute.TextureDescriptor) *Texture {
	if desc.Depth < 1 {
		desc.Depth = 1
	}
	return &Texture{
		desc:   desc,
		pix:    make([]uint8, desc.Width*desc.Height*desc.Depth*4),
		device: d,
	}
}

func (t *Texture) Label() string                       { return t.desc.Label }
func (t *Texture) Width() int                          { return t.desc.Width }
func (t *Texture) Height() int                         { return t.desc.Height }
func (t *Texture) Depth() int                          { return t.desc.Depth }
func (t *Texture) Dimension() compute.TextureDimension { return t.desc.Dimension }
func (t *Texture) Released() bool                      { return t.released }

func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.pix = nil
	t.device.untrack(t)
}

func (t *Texture) offset(x, y, z int) (int, bool) {
	if t.released || x < 0 || y < 0 || z < 0 || x >= t.desc.Width || y >= t.desc.Height || z >= t.desc.Depth {
		return 0, false
	}
	return ((z*t.desc.Height+y)*t.desc.Width + x) * 4, true
}

// At returns the texel at (x, y, z). Out of range reads return zero, like
// an unbound storage texture.
func (t *Texture) At(x, y, z int) color.RGBA {
	i, ok := t.offset(x, y, z)
	if !ok {
		return color.RGBA{}
	}
	p := t.pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set writes the texel at (x, y, z). Out of range writes are discarded.
func (t *Texture) Set(x, y, z int, c color.RGBA) {
	i, ok := t.offset(x, y, z)
	if !ok {
		return
	}
	p := t.pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Layer copies layer z into a new image.
func (t *Texture) Layer(z int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.desc.Width, t.desc.Height))
	start, _ := t.offset(0, 0, z)
	copy(img.Pix, t.pix[start:start+len(img.Pix)])
	return img
}
