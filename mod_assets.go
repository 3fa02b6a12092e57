package noisemaster

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/noise"
	"github.com/google/uuid"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "png"
	ImageFormatBMP  ImageFormat = "bmp"
	ImageFormatTIFF ImageFormat = "tiff"
)

func ParseImageFormat(s string) (ImageFormat, error) {
	switch f := ImageFormat(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case ImageFormatPNG, ImageFormatBMP, ImageFormatTIFF:
		return f, nil
	case "tif":
		return ImageFormatTIFF, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// EncodeImage writes img to w in format.
func EncodeImage(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case ImageFormatPNG:
		return png.Encode(w, img)
	case ImageFormatBMP:
		return bmp.Encode(w, img)
	case ImageFormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// DefaultExportName is Noise_<NoiseType>_2D or Noise_<NoiseType>_3D.
func DefaultExportName(h *noise.Handler) string {
	return fmt.Sprintf("Noise_%s_%s", h.Configuration().NoiseType(), strings.ToUpper(SpaceOf(h).String()))
}

// ReadResult copies a handler's result to the CPU. A 2D result reads back
// as is. A volume reads back as a vertical atlas of its layers, layer 0 at
// the top, resolution wide and resolution^2 tall.
func ReadResult(h *compute.TextureHandler) (*image.RGBA, error) {
	tex := h.Result()
	if tex == nil {
		return nil, fmt.Errorf("%w: %s has not been generated", compute.ErrNotReady, h.OutputName())
	}
	device := h.Device()
	if tex.Dimension() != compute.TextureDimension3D {
		return device.ReadTexture(tex, 0)
	}

	w, hgt, depth := tex.Width(), tex.Height(), tex.Depth()
	atlas := image.NewRGBA(image.Rect(0, 0, w, hgt*depth))
	for z := 0; z < depth; z++ {
		layer, err := device.ReadTexture(tex, z)
		if err != nil {
			return nil, fmt.Errorf("read layer %d: %w", z, err)
		}
		draw.Draw(atlas, image.Rect(0, z*hgt, w, (z+1)*hgt), layer, image.Point{}, draw.Src)
	}
	return atlas, nil
}

// ReadPreview reads back the 2D view of a handler: the result itself for
// 2D handlers, the preview layer for volumes. A volume with its preview off
// reads ShowLayer straight from the result and creates no texture.
func ReadPreview(h *compute.TextureHandler) (*image.RGBA, error) {
	if h.Kind() == compute.Texture2D {
		return ReadResult(h)
	}
	if !h.PreviewEnabled() {
		tex := h.Result()
		if tex == nil {
			return nil, fmt.Errorf("%w: %s has not been generated", compute.ErrNotReady, h.OutputName())
		}
		layer := min(max(h.ShowLayer(), 0), tex.Depth()-1)
		return h.Device().ReadTexture(tex, layer)
	}
	if err := h.RefreshPreview(); err != nil {
		return nil, err
	}
	return h.Device().ReadTexture(h.Get2DResult(), 0)
}

// ScalePreview resamples img to size x size for display. A size that is
// not positive, or equal to the image width, returns img unchanged.
func ScalePreview(img *image.RGBA, size int) *image.RGBA {
	if size <= 0 || size == img.Bounds().Dx() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// ExportedAsset describes one written texture file.
type ExportedAsset struct {
	ID     AssetId
	Path   string
	Format ImageFormat
	Width  int
	Height int
}

// ExportTexture writes the handler's result to dir. An empty name uses
// DefaultExportName. The extension follows the format.
func ExportTexture(h *noise.Handler, dir, name string, format ImageFormat) (ExportedAsset, error) {
	img, err := ReadResult(h.TextureHandler)
	if err != nil {
		return ExportedAsset{}, err
	}
	if name == "" {
		name = DefaultExportName(h)
	}
	path := filepath.Join(dir, name+"."+string(format))
	if err := writeImageFile(path, img, format); err != nil {
		return ExportedAsset{}, err
	}
	b := img.Bounds()
	return ExportedAsset{
		ID:     makeAssetId(),
		Path:   path,
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

func writeImageFile(path string, img image.Image, format ImageFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := EncodeImage(w, img, format); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return file.Close()
}
