package noisemaster

import (
	"testing"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/noise"
	"github.com/gekko3d/noisemaster/softgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoiseSpace(t *testing.T) {
	s, err := ParseNoiseSpace("3D")
	require.NoError(t, err)
	assert.Equal(t, Noise3D, s)
	s, err = ParseNoiseSpace("noise2d")
	require.NoError(t, err)
	assert.Equal(t, Noise2D, s)
	_, err = ParseNoiseSpace("4d")
	assert.Error(t, err)

	var back NoiseSpace
	text, err := Noise3D.MarshalText()
	require.NoError(t, err)
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, Noise3D, back)
}

func TestNoiseFactory_2D(t *testing.T) {
	_, factory, dev, _ := newSoftApp(t, false)

	h, err := factory.CreateNoise2DGenHandler(256)
	require.NoError(t, err)
	assert.Equal(t, Noise2D, SpaceOf(h))
	assert.Equal(t, "Noise2DGen", h.KernelName())
	assert.Equal(t, "Result", h.OutputName())
	assert.Equal(t, compute.ThreadGroupShape{X: 8, Y: 8, Z: 1}, h.ThreadGroup())

	require.NoError(t, h.Play(true))
	prog := h.Program().(*softgpu.Program)
	rec, ok := prog.LastDispatch()
	require.True(t, ok)
	assert.Equal(t, compute.ThreadGroupShape{X: 32, Y: 32, Z: 1}, rec.Grid)
	assert.Equal(t, 256, h.Result().Width())
	assert.Equal(t, 1, dev.LiveTextures())

	img, err := dev.ReadTexture(h.Result(), 0)
	require.NoError(t, err)
	assert.Equal(t, softgpu.ProbeValue(100, 256), img.RGBAAt(100, 7).R)
}

func TestNoiseFactory_3DPreview(t *testing.T) {
	_, factory, dev, _ := newSoftApp(t, false)

	h, err := factory.CreateNoise3DGenHandler(64)
	require.NoError(t, err)
	assert.Equal(t, Noise3D, SpaceOf(h))
	assert.Equal(t, "Result3D", h.OutputName())
	h.SetPreviewEnabled(true)
	h.SetShowLayer(10)

	require.NoError(t, h.Play(false))
	preview := h.Get2DResult()
	require.NotNil(t, preview)
	img, err := dev.ReadTexture(preview, 0)
	require.NoError(t, err)
	assert.Equal(t, softgpu.ProbeValue(10, 64), img.RGBAAt(3, 3).B)
	assert.Equal(t, 2, dev.LiveTextures())
}

func TestNoiseFactory_ClampsVolume(t *testing.T) {
	_, factory, _, rec := newSoftApp(t, false)

	h, err := factory.CreateNoise3DGenHandler(1024)
	require.NoError(t, err)
	assert.Equal(t, compute.MaxVolumeResolution, h.Resolution())
	assert.NotEmpty(t, rec.Entries("WARN"))
}

func TestNoiseFactory_AutoUpdate(t *testing.T) {
	_, factory, _, _ := newSoftApp(t, true)

	h, err := factory.CreateNoise2DGenHandler(16)
	require.NoError(t, err)
	assert.True(t, h.AutoUpdate)
	prog := h.Program().(*softgpu.Program)

	h.Configuration().SetSeed(5)
	h.Configuration().SetNoiseType(noise.Cellular)
	assert.Len(t, prog.Dispatches(), 2)
	assert.True(t, prog.IsKeywordEnabled("_CELLULAR"))
}

func TestNoiseFactory_HandlersOwnTheirProgram(t *testing.T) {
	_, factory, _, _ := newSoftApp(t, false)

	a, err := factory.CreateNoise2DGenHandler(16)
	require.NoError(t, err)
	b, err := factory.CreateNoise2DGenHandler(16)
	require.NoError(t, err)
	assert.NotSame(t, a.Program(), b.Program())

	a.Configuration().SetNoiseType(noise.Value)
	require.NoError(t, a.Play(false))
	require.NoError(t, b.Play(false))
	assert.True(t, a.Program().IsKeywordEnabled("_VALUE"))
	assert.False(t, b.Program().IsKeywordEnabled("_VALUE"))
}

func TestNoiseFactory_DisposeAndRelease(t *testing.T) {
	app, factory, dev, _ := newSoftApp(t, false)

	a, err := factory.CreateNoise2DGenHandler(16)
	require.NoError(t, err)
	b, err := factory.CreateNoise3DGenHandler(16)
	require.NoError(t, err)
	require.NoError(t, a.Play(false))
	require.NoError(t, b.Play(false))
	assert.Equal(t, 2, factory.Live())

	factory.Dispose(a)
	assert.Equal(t, 1, factory.Live())
	assert.True(t, a.Disposed())
	assert.True(t, a.Program().(*softgpu.Program).Released())
	assert.ErrorIs(t, a.Play(false), compute.ErrDisposed)

	app.Release()
	assert.Zero(t, factory.Live())
	assert.True(t, b.Disposed())
	assert.Zero(t, dev.LiveTextures())
}
