package noise_test

import (
	"testing"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/logging"
	"github.com/gekko3d/noisemaster/noise"
	"github.com/gekko3d/noisemaster/softgpu"
	"github.com/stretchr/testify/require"
)

func newDevice() *softgpu.Device {
	d := softgpu.NewDevice(nil)
	d.Register(softgpu.ProgramDef{Name: noise.ProgramName, Kernels: []softgpu.Kernel{
		softgpu.ProbeKernel(noise.Kernel2D, noise.Output2D, noise.ThreadGroup2D, noise.OffsetResolutionBinding, noise.InvertValueKeyword),
		softgpu.ProbeKernel(noise.Kernel3D, noise.Output3D, noise.ThreadGroup3D, noise.OffsetResolutionBinding, noise.InvertValueKeyword),
	}})
	return d
}

func loadNoise(t *testing.T, d *softgpu.Device) *softgpu.Program {
	t.Helper()
	p, err := d.LoadProgram(noise.ProgramSource(""))
	require.NoError(t, err)
	return p.(*softgpu.Program)
}

func new2DHandler(t *testing.T, resolution int, logger logging.Logger) (*noise.Handler, *softgpu.Program, *softgpu.Device) {
	t.Helper()
	d := newDevice()
	prog := loadNoise(t, d)
	return noise.NewNoise2DHandler(d, prog, resolution, logger), prog, d
}

func copierFor(d *softgpu.Device) *compute.LayerCopier {
	return compute.NewLayerCopier(d, func() (compute.Program, error) {
		return d.LoadProgram(compute.ProgramSource{Name: compute.CopyLayerProgram})
	})
}
