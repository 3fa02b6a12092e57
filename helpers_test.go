package noisemaster

import (
	"testing"

	"github.com/gekko3d/noisemaster/logging"
	"github.com/gekko3d/noisemaster/softgpu"
	"github.com/stretchr/testify/require"
)

// newSoftApp builds an app on the CPU backend with a recording logger.
func newSoftApp(t *testing.T, autoUpdate bool) (*App, *NoiseFactory, *softgpu.Device, *logging.Recorder) {
	t.Helper()
	rec := logging.NewRecorder()
	app, err := NewAppBuilder().
		UseModule(RecorderModule{Recorder: rec}, SoftBackendModule{}, NoiseModule{AutoUpdate: autoUpdate}).
		Build()
	require.NoError(t, err)
	t.Cleanup(app.Release)

	factory := MustResource[NoiseFactory](app)
	dev, ok := factory.Backend().Device.(*softgpu.Device)
	require.True(t, ok)
	return app, factory, dev, rec
}
