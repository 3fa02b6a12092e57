package noisemaster

import (
	"path/filepath"
	"testing"

	"github.com/gekko3d/noisemaster/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSingleBackend(t *testing.T) {
	app := NewApp()
	assert.False(t, ensureSingleBackend(app, BackendSoft))
	assert.True(t, ensureSingleBackend(app, BackendSoft))

	assert.PanicsWithValue(t, "Multiple backends installed: soft and wgpu", func() {
		ensureSingleBackend(app, BackendWGPU)
	})
	assert.Panics(t, func() { ensureSingleBackend(nil, BackendSoft) })
}

func TestSoftBackendModule_RepeatInstall(t *testing.T) {
	rec := logging.NewRecorder()
	app, err := NewAppBuilder().
		UseModule(RecorderModule{Recorder: rec}, SoftBackendModule{}, SoftBackendModule{}, NoiseModule{}).
		Build()
	require.NoError(t, err)
	defer app.Release()

	assert.Equal(t, BackendSoft, MustResource[Backend](app).Name)
	warns := rec.Entries("WARN")
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "already installed")
}

func TestSelectBackend(t *testing.T) {
	mod, err := SelectBackend("soft", BackendOptions{})
	require.NoError(t, err)
	assert.IsType(t, SoftBackendModule{}, mod)

	mod, err = SelectBackend("wgpu", BackendOptions{NoiseKernelPath: "noise.wgsl", Validate: true})
	require.NoError(t, err)
	assert.Equal(t, WgpuBackendModule{NoiseKernelPath: "noise.wgsl", Validate: true}, mod)

	_, err = SelectBackend("metal", BackendOptions{})
	assert.Error(t, err)
}

func TestSoftBackendModule(t *testing.T) {
	app, factory, dev, rec := newSoftApp(t, false)

	backend := MustResource[Backend](app)
	assert.Equal(t, BackendSoft, backend.Name)
	assert.Same(t, backend, factory.Backend())
	assert.Contains(t, dev.ProgramNames(), "NoiseLit")
	assert.NotEmpty(t, rec.Entries("INFO"))

	p1, err := backend.LoadNoiseProgram()
	require.NoError(t, err)
	p2, err := backend.LoadNoiseProgram()
	require.NoError(t, err)
	assert.NotSame(t, p1, p2, "each load is a separate program")
}

func TestWgpuBackendModule_MissingKernel(t *testing.T) {
	_, err := NewAppBuilder().UseModule(WgpuBackendModule{}).Build()
	assert.Error(t, err)

	_, err = NewAppBuilder().
		UseModule(WgpuBackendModule{NoiseKernelPath: filepath.Join(t.TempDir(), "missing.wgsl")}).
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading noise kernel")
}

func TestNoiseModule_NeedsBackend(t *testing.T) {
	_, err := NewAppBuilder().UseModule(NoiseModule{}).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a backend")
}
