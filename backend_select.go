package noisemaster

import "fmt"

// BackendName identifies a compute backend module.
// Keep names aligned with ensureSingleBackend tags.
type BackendName string

const (
	BackendSoft BackendName = "soft"
	BackendWGPU BackendName = "wgpu"
)

// BackendOptions carries what SelectBackend needs to configure either
// backend. Fields a backend does not use are ignored.
type BackendOptions struct {
	NoiseKernelPath string
	Validate        bool
}

// SelectBackend returns the backend module registered under name.
// Usage:
//
//	mod, err := SelectBackend("wgpu", BackendOptions{NoiseKernelPath: "noise.wgsl"})
//	app, err := NewAppBuilder().UseModule(LoggingModule{}, mod, NoiseModule{}).Build()
func SelectBackend(name string, opts BackendOptions) (Module, error) {
	switch BackendName(name) {
	case BackendSoft:
		return SoftBackendModule{}, nil
	case BackendWGPU:
		return WgpuBackendModule{
			NoiseKernelPath: opts.NoiseKernelPath,
			Validate:        opts.Validate,
		}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}
