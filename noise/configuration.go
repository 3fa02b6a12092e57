package noise

import (
	"encoding/json"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/go-gl/mathgl/mgl32"
)

// Settings is a plain snapshot of every Configuration field. It is the
// persisted form of a configuration.
type Settings struct {
	Seed                 int32                `json:"seed" yaml:"seed"`
	Frequency            float32              `json:"frequency" yaml:"frequency"`
	Octaves              int32                `json:"octaves" yaml:"octaves"`
	Lacunarity           float32              `json:"lacunarity" yaml:"lacunarity"`
	Gain                 float32              `json:"gain" yaml:"gain"`
	WeightedStrength     float32              `json:"weighted_strength" yaml:"weighted_strength"`
	PingPongStrength     float32              `json:"ping_pong_strength" yaml:"ping_pong_strength"`
	CellularJitterMod    float32              `json:"cellular_jitter_mod" yaml:"cellular_jitter_mod"`
	DomainWarpAmp        float32              `json:"domain_warp_amp" yaml:"domain_warp_amp"`
	NoiseType            NoiseType            `json:"noise_type" yaml:"noise_type"`
	RotationType         RotationType         `json:"rotation_type" yaml:"rotation_type"`
	FractalType          FractalType          `json:"fractal_type" yaml:"fractal_type"`
	CellularDistanceType CellularDistanceType `json:"cellular_distance_type" yaml:"cellular_distance_type"`
	CellularReturnType   CellularReturnType   `json:"cellular_return_type" yaml:"cellular_return_type"`
	DomainWarpType       DomainWarpType       `json:"domain_warp_type" yaml:"domain_warp_type"`
	InvertColor          bool                 `json:"invert_color" yaml:"invert_color"`
	Offset               mgl32.Vec3           `json:"offset" yaml:"offset,flow"`
}

func DefaultSettings() Settings {
	return Settings{
		Frequency:            0.01,
		Octaves:              3,
		Lacunarity:           2,
		Gain:                 0.5,
		PingPongStrength:     2,
		CellularJitterMod:    1,
		DomainWarpAmp:        30,
		NoiseType:            Perlin,
		RotationType:         RotationNone,
		FractalType:          FractalNone,
		CellularDistanceType: DistanceEuclideanSq,
		CellularReturnType:   ReturnDistance,
		DomainWarpType:       WarpOpenSimplex2,
	}
}

// structural reports whether moving from s to o changes kernel keywords.
func (s Settings) structural(o Settings) bool {
	return s.NoiseType != o.NoiseType ||
		s.FractalType != o.FractalType ||
		s.CellularDistanceType != o.CellularDistanceType ||
		s.InvertColor != o.InvertColor
}

// Configuration is the noise parameter bundle bound to the noise kernel.
// Every setter compares before it writes; an actual change notifies value
// listeners, and changes to the noise type, fractal type, cellular
// distance or invert flag also notify keyword listeners afterwards.
// Listeners run synchronously before the setter returns.
//
// A Configuration belongs to one handler. It is not safe for concurrent
// mutation.
type Configuration struct {
	s Settings

	valueListeners   listenerSet
	keywordListeners listenerSet
}

var (
	_ compute.Parameter = (*Configuration)(nil)
	_ json.Marshaler    = (*Configuration)(nil)
)

func init() {
	compute.DefaultRegistry.Register("Noise", func() compute.Parameter { return NewConfiguration() })
}

func NewConfiguration() *Configuration {
	return &Configuration{s: DefaultSettings()}
}

// NewConfigurationFrom returns a configuration holding s. No listener is
// registered yet, so nothing is notified.
func NewConfigurationFrom(s Settings) *Configuration {
	return &Configuration{s: s}
}

// OnValueChanged registers fn for every confirmed field change.
func (c *Configuration) OnValueChanged(fn func()) Subscription {
	return Subscription{set: &c.valueListeners, id: c.valueListeners.add(fn)}
}

// OnKeywordsChanged registers fn for changes to keyword-selecting fields.
func (c *Configuration) OnKeywordsChanged(fn func()) Subscription {
	return Subscription{set: &c.keywordListeners, id: c.keywordListeners.add(fn)}
}

// ListenerCount returns the number of value and keyword listeners.
func (c *Configuration) ListenerCount() (value, keywords int) {
	return c.valueListeners.len(), c.keywordListeners.len()
}

func (c *Configuration) changed(structural bool) {
	c.valueListeners.notify()
	if structural {
		c.keywordListeners.notify()
	}
}

func set[T comparable](c *Configuration, field *T, v T, structural bool) {
	if *field == v {
		return
	}
	*field = v
	c.changed(structural)
}

func (c *Configuration) Seed() int32                { return c.s.Seed }
func (c *Configuration) Frequency() float32         { return c.s.Frequency }
func (c *Configuration) Octaves() int32             { return c.s.Octaves }
func (c *Configuration) Lacunarity() float32        { return c.s.Lacunarity }
func (c *Configuration) Gain() float32              { return c.s.Gain }
func (c *Configuration) WeightedStrength() float32  { return c.s.WeightedStrength }
func (c *Configuration) PingPongStrength() float32  { return c.s.PingPongStrength }
func (c *Configuration) CellularJitterMod() float32 { return c.s.CellularJitterMod }
func (c *Configuration) DomainWarpAmp() float32     { return c.s.DomainWarpAmp }
func (c *Configuration) NoiseType() NoiseType       { return c.s.NoiseType }
func (c *Configuration) RotationType() RotationType { return c.s.RotationType }
func (c *Configuration) FractalType() FractalType   { return c.s.FractalType }
func (c *Configuration) InvertColor() bool          { return c.s.InvertColor }
func (c *Configuration) Offset() mgl32.Vec3         { return c.s.Offset }

func (c *Configuration) CellularDistanceType() CellularDistanceType {
	return c.s.CellularDistanceType
}

func (c *Configuration) CellularReturnType() CellularReturnType {
	return c.s.CellularReturnType
}

func (c *Configuration) DomainWarpType() DomainWarpType { return c.s.DomainWarpType }

func (c *Configuration) SetSeed(v int32)                { set(c, &c.s.Seed, v, false) }
func (c *Configuration) SetFrequency(v float32)         { set(c, &c.s.Frequency, v, false) }
func (c *Configuration) SetOctaves(v int32)             { set(c, &c.s.Octaves, v, false) }
func (c *Configuration) SetLacunarity(v float32)        { set(c, &c.s.Lacunarity, v, false) }
func (c *Configuration) SetGain(v float32)              { set(c, &c.s.Gain, v, false) }
func (c *Configuration) SetWeightedStrength(v float32)  { set(c, &c.s.WeightedStrength, v, false) }
func (c *Configuration) SetPingPongStrength(v float32)  { set(c, &c.s.PingPongStrength, v, false) }
func (c *Configuration) SetCellularJitterMod(v float32) { set(c, &c.s.CellularJitterMod, v, false) }
func (c *Configuration) SetDomainWarpAmp(v float32)     { set(c, &c.s.DomainWarpAmp, v, false) }
func (c *Configuration) SetRotationType(v RotationType) { set(c, &c.s.RotationType, v, false) }
func (c *Configuration) SetOffset(v mgl32.Vec3)         { set(c, &c.s.Offset, v, false) }

func (c *Configuration) SetCellularReturnType(v CellularReturnType) {
	set(c, &c.s.CellularReturnType, v, false)
}

func (c *Configuration) SetDomainWarpType(v DomainWarpType) { set(c, &c.s.DomainWarpType, v, false) }

func (c *Configuration) SetNoiseType(v NoiseType)     { set(c, &c.s.NoiseType, v, true) }
func (c *Configuration) SetFractalType(v FractalType) { set(c, &c.s.FractalType, v, true) }
func (c *Configuration) SetInvertColor(v bool)        { set(c, &c.s.InvertColor, v, true) }

func (c *Configuration) SetCellularDistanceType(v CellularDistanceType) {
	set(c, &c.s.CellularDistanceType, v, true)
}

// Settings returns a copy of the current field values.
func (c *Configuration) Settings() Settings { return c.s }

// SetSettings replaces every field at once. Listeners see at most one value
// notification and one keyword notification, and none if nothing changed.
func (c *Configuration) SetSettings(s Settings) {
	if c.s == s {
		return
	}
	structural := c.s.structural(s)
	c.s = s
	c.changed(structural)
}

func (c *Configuration) BindingName() string { return StateBinding }

// SetKeywords selects one keyword per family from the enum fields and
// toggles the invert keyword.
func (c *Configuration) SetKeywords(p compute.Program) {
	compute.SetKeywordsByArray(p, NoiseTypeKeywords, int(c.s.NoiseType)-1)
	compute.SetKeywordsByArray(p, FractalTypeKeywords, int(c.s.FractalType)-1)
	compute.SetKeywordsByArray(p, CellularDistanceTypeKeywords, int(c.s.CellularDistanceType)-1)
	compute.SetKeyword(p, InvertValueKeyword, c.s.InvertColor)
}

// Apply sets keywords and then every binding. The offset and resolution
// share one vector: xyz is the offset, w the resolution.
func (c *Configuration) Apply(kernel int, p compute.Program, resolution int) {
	c.SetKeywords(p)
	s := c.s
	p.SetInt(seedID, s.Seed)
	p.SetFloat(frequencyID, s.Frequency)
	p.SetInt(octavesID, s.Octaves)
	p.SetFloat(lacunarityID, s.Lacunarity)
	p.SetFloat(gainID, s.Gain)
	p.SetFloat(weightedStrengthID, s.WeightedStrength)
	p.SetFloat(pingPongStrengthID, s.PingPongStrength)
	p.SetInt(rotationTypeID, int32(s.RotationType))
	p.SetInt(cellularReturnTypeID, int32(s.CellularReturnType))
	p.SetFloat(cellularJitterModID, s.CellularJitterMod)
	p.SetInt(domainWarpTypeID, int32(s.DomainWarpType))
	p.SetFloat(domainWarpAmpID, s.DomainWarpAmp)
	p.SetVector(offsetResolutionID, s.Offset.Vec4(float32(resolution)))
}

func (c *Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.s)
}

// UnmarshalJSON replaces the fields without notifying. A decoded
// configuration has no listeners until its owner registers them.
func (c *Configuration) UnmarshalJSON(b []byte) error {
	s := DefaultSettings()
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	c.s = s
	return nil
}
