package noisemaster

import (
	"fmt"
	"os"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/gpu"
	"github.com/gekko3d/noisemaster/noise"
	"github.com/gekko3d/noisemaster/softgpu"
)

// Backend is the resource a backend module installs: the device, the shared
// layer copier for volume previews and the noise program source.
type Backend struct {
	Name   BackendName
	Device compute.Device
	Copier *compute.LayerCopier

	noiseSource compute.ProgramSource
}

// LoadNoiseProgram compiles a fresh noise program. Keyword state lives on
// the program, so every handler gets its own.
func (b *Backend) LoadNoiseProgram() (compute.Program, error) {
	p, err := b.Device.LoadProgram(b.noiseSource)
	if err != nil {
		return nil, fmt.Errorf("load %s program on %s: %w", b.noiseSource.Name, b.Name, err)
	}
	return p, nil
}

// SoftNoiseProgram is the CPU stand-in for the noise program. Its kernels
// honor the noise program's bindings and grid but write a coordinate ramp
// instead of noise, which is enough to verify dispatch and readback.
func SoftNoiseProgram() softgpu.ProgramDef {
	return softgpu.ProgramDef{Name: noise.ProgramName, Kernels: []softgpu.Kernel{
		softgpu.ProbeKernel(noise.Kernel2D, noise.Output2D, noise.ThreadGroup2D, noise.OffsetResolutionBinding, noise.InvertValueKeyword),
		softgpu.ProbeKernel(noise.Kernel3D, noise.Output3D, noise.ThreadGroup3D, noise.OffsetResolutionBinding, noise.InvertValueKeyword),
	}}
}

// SoftBackendModule installs the CPU backend.
type SoftBackendModule struct{}

func (SoftBackendModule) Install(app *App) error {
	if ensureSingleBackend(app, BackendSoft) {
		app.Logger().Warnf("backend %s already installed", BackendSoft)
		return nil
	}
	dev := softgpu.NewDevice(app.Logger())
	dev.Register(SoftNoiseProgram())
	copier := compute.NewLayerCopier(dev, func() (compute.Program, error) {
		return dev.LoadProgram(compute.ProgramSource{Name: compute.CopyLayerProgram})
	})
	app.addResources(&Backend{
		Name:        BackendSoft,
		Device:      dev,
		Copier:      copier,
		noiseSource: noise.ProgramSource(""),
	})
	app.onRelease(copier.Release)
	app.Logger().Infof("Backend selected: %s", BackendSoft)
	return nil
}

// WgpuBackendModule installs the WebGPU backend. NoiseKernelPath points at
// the WGSL source of the noise program.
type WgpuBackendModule struct {
	NoiseKernelPath string
	Validate        bool
}

func (m WgpuBackendModule) Install(app *App) error {
	if ensureSingleBackend(app, BackendWGPU) {
		app.Logger().Warnf("backend %s already installed", BackendWGPU)
		return nil
	}
	if m.NoiseKernelPath == "" {
		return fmt.Errorf("%s backend needs a noise kernel path", BackendWGPU)
	}
	code, err := os.ReadFile(m.NoiseKernelPath)
	if err != nil {
		return fmt.Errorf("reading noise kernel: %w", err)
	}
	if _, err := gpu.Preprocess(string(code), nil); err != nil {
		return fmt.Errorf("preprocessing noise kernel %s: %w", m.NoiseKernelPath, err)
	}

	dev, err := gpu.NewDevice(gpu.Options{Validate: m.Validate, Logger: app.Logger()})
	if err != nil {
		return err
	}
	copier := compute.NewLayerCopier(dev, func() (compute.Program, error) {
		return dev.LoadProgram(gpu.CopyLayerSource())
	})
	app.addResources(&Backend{
		Name:        BackendWGPU,
		Device:      dev,
		Copier:      copier,
		noiseSource: noise.ProgramSource(string(code)),
	})
	app.onRelease(dev.Release)
	app.onRelease(copier.Release)
	app.Logger().Infof("Backend selected: %s (%s)", BackendWGPU, dev.AdapterName())
	return nil
}
