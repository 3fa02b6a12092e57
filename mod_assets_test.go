package noisemaster

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/noise"
	"github.com/gekko3d/noisemaster/softgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func decodeFile(t *testing.T, path string, decode func(f *os.File) (image.Image, error)) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := decode(f)
	require.NoError(t, err)
	return img
}

func TestParseImageFormat(t *testing.T) {
	for in, want := range map[string]ImageFormat{"png": ImageFormatPNG, ".BMP": ImageFormatBMP, "tif": ImageFormatTIFF, "tiff": ImageFormatTIFF} {
		got, err := ParseImageFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseImageFormat("gif")
	assert.Error(t, err)
}

func TestExportTexture_2D(t *testing.T) {
	_, factory, _, _ := newSoftApp(t, false)
	h, err := factory.CreateNoise2DGenHandler(16)
	require.NoError(t, err)
	h.Configuration().SetNoiseType(noise.Cellular)

	_, err = ExportTexture(h, t.TempDir(), "", ImageFormatPNG)
	assert.ErrorIs(t, err, compute.ErrNotReady, "nothing to export before the first play")

	require.NoError(t, h.Play(false))
	dir := t.TempDir()

	asset, err := ExportTexture(h, dir, "", ImageFormatPNG)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Noise_Cellular_2D.png"), asset.Path)
	assert.NotEmpty(t, asset.ID)
	assert.Equal(t, 16, asset.Width)
	assert.Equal(t, 16, asset.Height)

	img := decodeFile(t, asset.Path, func(f *os.File) (image.Image, error) { return png.Decode(f) })
	r, _, _, _ := img.At(15, 0).RGBA()
	assert.EqualValues(t, 0xffff, r)

	asset, err = ExportTexture(h, dir, "custom", ImageFormatBMP)
	require.NoError(t, err)
	img = decodeFile(t, asset.Path, func(f *os.File) (image.Image, error) { return bmp.Decode(f) })
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())

	asset, err = ExportTexture(h, dir, "custom", ImageFormatTIFF)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom.tiff"), asset.Path)
	img = decodeFile(t, asset.Path, func(f *os.File) (image.Image, error) { return tiff.Decode(f) })
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
}

func TestReadResult_VolumeAtlas(t *testing.T) {
	_, factory, _, _ := newSoftApp(t, false)
	h, err := factory.CreateNoise3DGenHandler(8)
	require.NoError(t, err)
	require.NoError(t, h.Play(false))

	atlas, err := ReadResult(h.TextureHandler)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 64), atlas.Bounds())
	for z := 0; z < 8; z++ {
		assert.Equal(t, softgpu.ProbeValue(z, 8), atlas.RGBAAt(2, z*8+5).B, "layer %d", z)
	}
	assert.Equal(t, "Noise_Perlin_3D", DefaultExportName(h))
}

func TestReadPreview(t *testing.T) {
	_, factory, dev, _ := newSoftApp(t, false)
	h, err := factory.CreateNoise3DGenHandler(8)
	require.NoError(t, err)
	h.SetPreviewEnabled(true)
	h.SetShowLayer(3)

	_, err = ReadPreview(h.TextureHandler)
	assert.ErrorIs(t, err, compute.ErrNotReady)

	require.NoError(t, h.Play(false))
	img, err := ReadPreview(h.TextureHandler)
	require.NoError(t, err)
	assert.Equal(t, softgpu.ProbeValue(3, 8), img.RGBAAt(0, 0).B)
	require.NotNil(t, h.Get2DResult())
	assert.Equal(t, 2, dev.LiveTextures())
	factory.Dispose(h)

	flat, err := factory.CreateNoise2DGenHandler(8)
	require.NoError(t, err)
	require.NoError(t, flat.Play(false))
	img, err = ReadPreview(flat.TextureHandler)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestReadPreview_PreviewOffCreatesNoTexture(t *testing.T) {
	_, factory, dev, _ := newSoftApp(t, false)
	h, err := factory.CreateNoise3DGenHandler(16)
	require.NoError(t, err)
	h.SetShowLayer(5)
	require.NoError(t, h.Play(false))

	img, err := ReadPreview(h.TextureHandler)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
	assert.Equal(t, softgpu.ProbeValue(5, 16), img.RGBAAt(1, 1).B)
	assert.Nil(t, h.Get2DResult())
	assert.Equal(t, 1, dev.LiveTextures())

	h.SetShowLayer(40)
	img, err = ReadPreview(h.TextureHandler)
	require.NoError(t, err)
	assert.Equal(t, softgpu.ProbeValue(15, 16), img.RGBAAt(1, 1).B)
}

func TestScalePreview(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, src, ScalePreview(src, 0))
	assert.Same(t, src, ScalePreview(src, 4))

	scaled := ScalePreview(src, 32)
	assert.Equal(t, image.Rect(0, 0, 32, 32), scaled.Bounds())
}
