package softgpu

import (
	"image/color"
	"testing"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevice_TextureTracking(t *testing.T) {
	d := NewDevice(nil)

	a, err := d.CreateTexture(compute.Texture2DDescriptor("a", 16))
	require.NoError(t, err)
	b, err := d.CreateTexture(compute.Texture3DDescriptor("b", 8))
	require.NoError(t, err)
	assert.Equal(t, 2, d.LiveTextures())
	assert.Equal(t, 8, b.Depth())

	a.Release()
	a.Release()
	assert.Equal(t, 1, d.LiveTextures())
	assert.Equal(t, 2, d.CreatedTextures())

	_, err = d.CreateTexture(compute.Texture2DDescriptor("bad", 0))
	assert.Error(t, err)
}

func TestDevice_ReadTexture(t *testing.T) {
	d := NewDevice(nil)
	tex, err := d.CreateTexture(compute.Texture3DDescriptor("vol", 4))
	require.NoError(t, err)
	vol := tex.(*Texture)
	vol.Set(1, 2, 3, color.RGBA{R: 9, G: 8, B: 7, A: 6})

	img, err := d.ReadTexture(tex, 3)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 9, G: 8, B: 7, A: 6}, img.RGBAAt(1, 2))

	_, err = d.ReadTexture(tex, 4)
	assert.Error(t, err)

	other := NewDevice(nil)
	_, err = other.ReadTexture(tex, 0)
	assert.Error(t, err)

	tex.Release()
	_, err = d.ReadTexture(tex, 0)
	assert.Error(t, err)
}

func TestProgram_FindKernelAndDispatch(t *testing.T) {
	d := NewDevice(nil)
	d.Register(ProgramDef{Name: "probe", Kernels: []Kernel{
		ProbeKernel("Fill", "Out", compute.ThreadGroupShape{X: 4, Y: 4, Z: 1}, "", "_INVERT"),
	}})
	prog, err := d.LoadProgram(compute.ProgramSource{Name: "probe"})
	require.NoError(t, err)

	_, err = prog.FindKernel("Missing")
	assert.ErrorIs(t, err, compute.ErrKernelNotFound)

	k, err := prog.FindKernel("Fill")
	require.NoError(t, err)
	tex, err := d.CreateTexture(compute.Texture2DDescriptor("out", 8))
	require.NoError(t, err)
	prog.SetTexture(k, compute.PropertyToID("Out"), tex)
	prog.EnableKeyword("_INVERT")
	require.NoError(t, prog.Dispatch(k, 2, 2, 1))

	p := prog.(*Program)
	rec, ok := p.LastDispatch()
	require.True(t, ok)
	assert.Equal(t, compute.ThreadGroupShape{X: 2, Y: 2, Z: 1}, rec.Grid)
	assert.Equal(t, []string{"_INVERT"}, rec.Keywords)

	out := tex.(*Texture)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.At(0, 0, 0))
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 255, A: 255}, out.At(7, 7, 0))

	assert.ErrorIs(t, prog.Dispatch(5, 1, 1, 1), compute.ErrKernelNotFound)
	prog.Release()
	assert.Error(t, prog.Dispatch(k, 1, 1, 1))
}

func TestProgram_Bindings(t *testing.T) {
	d := NewDevice(nil)
	prog, err := d.LoadProgram(compute.ProgramSource{Name: compute.CopyLayerProgram})
	require.NoError(t, err)
	p := prog.(*Program)

	p.SetInt(compute.PropertyToID("layer"), 3)
	p.SetFloat(compute.PropertyToID("gain"), 0.5)
	v, ok := p.Int("layer")
	assert.True(t, ok)
	assert.EqualValues(t, 3, v)
	f, ok := p.Float("gain")
	assert.True(t, ok)
	assert.EqualValues(t, 0.5, f)
	_, ok = p.Vector("nothing")
	assert.False(t, ok)

	_, err = d.LoadProgram(compute.ProgramSource{Name: "unknown"})
	assert.Error(t, err)
}

func TestCopyLayerProgram(t *testing.T) {
	d := NewDevice(nil)
	src, err := d.CreateTexture(compute.Texture3DDescriptor("vol", 8))
	require.NoError(t, err)
	vol := src.(*Texture)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			vol.Set(x, y, 5, color.RGBA{R: uint8(x), G: uint8(y), B: 5, A: 255})
		}
	}
	copier := compute.NewLayerCopier(d, func() (compute.Program, error) {
		return d.LoadProgram(compute.ProgramSource{Name: compute.CopyLayerProgram})
	})
	dst, err := copier.CopyLayer(src, nil, 5)
	require.NoError(t, err)
	require.Equal(t, compute.TextureDimension2D, dst.Dimension())

	layer := dst.(*Texture)
	assert.Equal(t, color.RGBA{R: 3, G: 6, B: 5, A: 255}, layer.At(3, 6, 0))
	assert.Equal(t, color.RGBA{R: 7, G: 7, B: 5, A: 255}, layer.At(7, 7, 0))
}
