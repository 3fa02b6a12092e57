package noisemaster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/noise"
	"github.com/gekko3d/noisemaster/softgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetSerialization(t *testing.T) {
	for _, name := range []string{"preset.json", "preset.yaml"} {
		t.Run(name, func(t *testing.T) {
			_, factory, _, _ := newSoftApp(t, false)

			h, err := factory.CreateNoise3DGenHandler(32)
			require.NoError(t, err)
			h.AutoUpdate = true
			h.SetPreviewEnabled(true)
			h.SetShowLayer(4)
			cfg := h.Configuration()
			cfg.SetNoiseType(noise.Cellular)
			cfg.SetFractalType(noise.FractalRidged)
			cfg.SetFrequency(0.05)
			cfg.SetOffset(mgl32.Vec3{1, 2, 3})
			h.Parameters = append(h.Parameters, compute.NewFloatParameter("gain", 0.75))

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SavePreset(h, path))

			loaded, err := LoadPreset(factory, path)
			require.NoError(t, err)
			assert.NotSame(t, h, loaded)
			assert.Equal(t, Noise3D, SpaceOf(loaded))
			assert.Equal(t, 32, loaded.Resolution())
			assert.True(t, loaded.AutoUpdate)
			assert.True(t, loaded.PreviewEnabled())
			assert.Equal(t, 4, loaded.ShowLayer())
			assert.Equal(t, cfg.Settings(), loaded.Configuration().Settings())
			require.Len(t, loaded.Parameters, 1)
			assert.Equal(t, "gain", loaded.Parameters[0].BindingName())

			prog := loaded.Program().(*softgpu.Program)
			assert.Empty(t, prog.Dispatches(), "loading does not dispatch")

			// Observers are live on the loaded handler.
			loaded.Configuration().SetSeed(9)
			assert.Len(t, prog.Dispatches(), 1)
			value, keywords := loaded.Configuration().ListenerCount()
			assert.Equal(t, 1, value)
			assert.Equal(t, 1, keywords)
		})
	}
}

func TestSavePreset_FormatByExtension(t *testing.T) {
	_, factory, _, _ := newSoftApp(t, false)
	h, err := factory.CreateNoise2DGenHandler(64)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, SavePreset(h, filepath.Join(dir, "a.json")))
	require.NoError(t, SavePreset(h, filepath.Join(dir, "a.yml")))

	j, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.Contains(t, string(j), `"noise_type": "Perlin"`)
	assert.Contains(t, string(j), `"space": "2d"`)

	y, err := os.ReadFile(filepath.Join(dir, "a.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(y), "noise_type: Perlin")
	assert.Contains(t, string(y), "thread_group: {x: 8, y: 8, z: 1}")
}

func TestLoadPreset_Errors(t *testing.T) {
	_, factory, _, rec := newSoftApp(t, false)
	dir := t.TempDir()

	_, err := LoadPreset(factory, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadPreset(factory, bad)
	assert.Error(t, err)

	odd := filepath.Join(dir, "odd.json")
	require.NoError(t, os.WriteFile(odd, []byte(`{"space":"2d","resolution":16,"kernel":"Other","parameters":"Float_{oops"}`), 0644))
	h, err := LoadPreset(factory, odd)
	require.NoError(t, err)
	assert.Equal(t, "Noise2DGen", h.KernelName())
	assert.Empty(t, h.Parameters)
	assert.Len(t, rec.Entries("WARN"), 2, "kernel mismatch and dropped parameter")
}

func TestReadPreset_MissingNoiseKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bare.yaml")
	require.NoError(t, os.WriteFile(path, []byte("space: 3d\nresolution: 16\n"), 0644))

	preset, err := ReadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, Noise3D, preset.Space)
	assert.Equal(t, noise.DefaultSettings(), preset.Noise)

	partial := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(partial, []byte(`{"space":"2d","resolution":16,"noise":{"octaves":5}}`), 0644))
	preset, err = ReadPreset(partial)
	require.NoError(t, err)
	want := noise.DefaultSettings()
	want.Octaves = 5
	assert.Equal(t, want, preset.Noise)
}

func TestFromPreset_ThreadGroupMismatchWarns(t *testing.T) {
	_, factory, _, rec := newSoftApp(t, false)

	h, err := factory.FromPreset(PresetData{
		Space:       Noise2D,
		Resolution:  16,
		ThreadGroup: compute.ThreadGroupShape{X: 16, Y: 16, Z: 1},
		Noise:       noise.DefaultSettings(),
	})
	require.NoError(t, err)
	assert.Equal(t, compute.ThreadGroupShape{X: 8, Y: 8, Z: 1}, h.ThreadGroup())
	warns := rec.Entries("WARN")
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "thread group")
}
