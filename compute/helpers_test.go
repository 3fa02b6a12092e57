package compute_test

import (
	"testing"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/logging"
	"github.com/gekko3d/noisemaster/softgpu"
	"github.com/stretchr/testify/require"
)

var (
	group2D = compute.ThreadGroupShape{X: 8, Y: 8, Z: 1}
	group3D = compute.ThreadGroupShape{X: 8, Y: 8, Z: 8}
)

func newTestDevice() *softgpu.Device {
	d := softgpu.NewDevice(nil)
	d.Register(softgpu.ProgramDef{Name: "probe", Kernels: []softgpu.Kernel{
		softgpu.ProbeKernel("Gen2D", "Result", group2D, "", ""),
		softgpu.ProbeKernel("Gen3D", "Result3D", group3D, "", ""),
	}})
	return d
}

func loadProbe(t *testing.T, d *softgpu.Device) *softgpu.Program {
	t.Helper()
	p, err := d.LoadProgram(compute.ProgramSource{Name: "probe"})
	require.NoError(t, err)
	return p.(*softgpu.Program)
}

func newCopier(d *softgpu.Device) *compute.LayerCopier {
	return compute.NewLayerCopier(d, func() (compute.Program, error) {
		return d.LoadProgram(compute.ProgramSource{Name: compute.CopyLayerProgram})
	})
}

func new2D(t *testing.T, d *softgpu.Device, resolution int, logger logging.Logger) (*compute.TextureHandler, *softgpu.Program) {
	t.Helper()
	prog := loadProbe(t, d)
	h := compute.NewTexture2DHandler(compute.HandlerConfig{
		Device:      d,
		Program:     prog,
		KernelName:  "Gen2D",
		ThreadGroup: group2D,
		OutputName:  "Result",
		Resolution:  resolution,
		Logger:      logger,
	})
	return h, prog
}

func new3D(t *testing.T, d *softgpu.Device, resolution int, logger logging.Logger) (*compute.TextureHandler, *softgpu.Program) {
	t.Helper()
	prog := loadProbe(t, d)
	h := compute.NewVolumeHandler(compute.HandlerConfig{
		Device:      d,
		Program:     prog,
		KernelName:  "Gen3D",
		ThreadGroup: group3D,
		OutputName:  "Result3D",
		Resolution:  resolution,
		Logger:      logger,
	}, newCopier(d))
	return h, prog
}
