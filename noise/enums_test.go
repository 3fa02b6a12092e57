package noise_test

import (
	"encoding/json"
	"testing"

	"github.com/gekko3d/noisemaster/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEnumValues(t *testing.T) {
	assert.EqualValues(t, 0, noise.OpenSimplex2)
	assert.EqualValues(t, 3, noise.Perlin)
	assert.EqualValues(t, 5, noise.Value)
	assert.EqualValues(t, 2, noise.RotationImproveXZPlanes)
	assert.EqualValues(t, 5, noise.FractalDomainWarpIndependent)
	assert.EqualValues(t, 3, noise.DistanceHybrid)
	assert.EqualValues(t, 6, noise.ReturnDistance2Div)
	assert.EqualValues(t, 2, noise.WarpBasicGrid)
	assert.Len(t, noise.NoiseTypes(), 6)
}

func TestEnumText(t *testing.T) {
	assert.Equal(t, "ValueCubic", noise.ValueCubic.String())
	assert.Equal(t, "NoiseType(42)", noise.NoiseType(42).String())

	var nt noise.NoiseType
	require.NoError(t, nt.UnmarshalText([]byte("open_simplex_2s")))
	assert.Equal(t, noise.OpenSimplex2S, nt)
	require.NoError(t, nt.UnmarshalText([]byte("2")))
	assert.Equal(t, noise.Cellular, nt)
	assert.Error(t, nt.UnmarshalText([]byte("marble")))
	assert.Equal(t, noise.Cellular, nt, "failed parse leaves the value alone")

	var ft noise.FractalType
	require.NoError(t, ft.UnmarshalText([]byte("domain-warp-progressive")))
	assert.Equal(t, noise.FractalDomainWarpProgressive, ft)

	_, err := noise.DomainWarpType(9).MarshalText()
	assert.Error(t, err)
}

func TestSettings_JSONAndYAML(t *testing.T) {
	s := noise.DefaultSettings()
	s.NoiseType = noise.Cellular
	s.CellularReturnType = noise.ReturnDistance2Mul
	s.Offset[1] = 4

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"noise_type":"Cellular"`)
	var back noise.Settings
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s, back)

	y, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(y), "cellular_return_type: Distance2Mul")
	var yback noise.Settings
	require.NoError(t, yaml.Unmarshal(y, &yback))
	assert.Equal(t, s, yback)
}
