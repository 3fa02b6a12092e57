package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/noisemaster/compute"
)

// bytesPerRow pads a row of RGBA8 texels to the 256 byte copy alignment.
func bytesPerRow(width int) uint32 {
	return (uint32(width)*4 + 255) &^ 255
}

// ReadTexture copies one layer to the host. It waits for all queued work,
// so it is the point where earlier dispatches are known to have finished.
func (d *Device) ReadTexture(tex compute.Texture, layer int) (*image.RGBA, error) {
	t, ok := tex.(*Texture)
	if !ok {
		return nil, fmt.Errorf("gpu: texture %q was not created by this backend", tex.Label())
	}
	if t.released {
		return nil, fmt.Errorf("gpu: texture %q already released", t.Label())
	}
	if layer < 0 || layer >= t.Depth() {
		return nil, fmt.Errorf("gpu: layer %d out of range [0,%d)", layer, t.Depth())
	}
	w, h := t.Width(), t.Height()
	stride := bytesPerRow(w)
	size := uint64(stride) * uint64(h)

	staging, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "readback " + t.Label(),
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer staging.Release()

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: create command encoder: %w", err)
	}
	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  t.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: uint32(layer)},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: staging,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  stride,
				RowsPerImage: uint32(h),
			},
		},
		&wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	commands, err := encoder.Finish(nil)
	encoder.Release()
	if err != nil {
		return nil, fmt.Errorf("gpu: finish readback: %w", err)
	}
	d.queue.Submit(commands)
	commands.Release()

	done := make(chan error, 1)
	err = staging.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			done <- fmt.Errorf("gpu: map readback buffer: %v", status)
			return
		}
		done <- nil
	})
	if err != nil {
		return nil, err
	}
	d.device.Poll(true, nil)
	if err := <-done; err != nil {
		return nil, err
	}

	mapped := staging.GetMappedRange(0, uint(size))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := mapped[y*int(stride) : y*int(stride)+w*4]
		copy(img.Pix[y*img.Stride:], src)
	}
	staging.Unmap()
	return img, nil
}
