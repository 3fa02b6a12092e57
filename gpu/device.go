package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/logging"
)

type Options struct {
	PowerPreference wgpu.PowerPreference
	// Validate runs every keyword variant through naga before handing it to
	// the driver, which gives readable errors for broken kernels.
	Validate bool
	Logger   logging.Logger
}

// Device is a headless WebGPU device.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	validate bool
	logger   logging.Logger
}

var _ compute.Device = (*Device)(nil)

func NewDevice(opts Options) (*Device, error) {
	logger := logging.OrNop(opts.Logger)
	pref := opts.PowerPreference
	if pref == 0 {
		pref = wgpu.PowerPreferenceHighPerformance
	}

	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: pref,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}

	info := adapter.GetInfo()
	logger.Infof("gpu: using %s (%s, %s)", info.Name, info.BackendType, info.AdapterType)
	return &Device{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
		validate: opts.Validate,
		logger:   logger,
	}, nil
}

// AdapterName reports the adapter the device runs on.
func (d *Device) AdapterName() string {
	return d.adapter.GetInfo().Name
}

// Release frees the device. Textures and programs created from it must be
// released first.
func (d *Device) Release() {
	if d.device == nil {
		return
	}
	d.queue.Release()
	d.device.Release()
	d.adapter.Release()
	d.instance.Release()
	d.device = nil
}
