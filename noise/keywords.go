package noise

import "github.com/gekko3d/noisemaster/compute"

// Keyword families. The keyword selected for an enum value v is entry v-1;
// value 0 is the kernel's fallback path and enables none of them.
var (
	NoiseTypeKeywords            = []string{"_OPENSIMPLEX2S", "_CELLULAR", "_PERLIN", "_VALUE_CUBIC", "_VALUE"}
	FractalTypeKeywords          = []string{"_FractalFBM", "_FractalRIDGED", "_FractalPINGPONG", "_Fractal_DOMAIN_WARP_PROGRESSIVE", "_Fractal_DOMAIN_WARP_INDEPENDENT"}
	CellularDistanceTypeKeywords = []string{"_CELLULAR_EUCLIDEANSQ", "_CELLULAR_MANHATTAN", "_CELLULAR_HYBRID"}
)

const InvertValueKeyword = "_InvertValue"

// Binding names the noise kernel exposes.
const (
	SeedBinding               = "seed"
	FrequencyBinding          = "frequency"
	OctavesBinding            = "octaves"
	LacunarityBinding         = "lacunarity"
	GainBinding               = "gain"
	WeightedStrengthBinding   = "weightedStrength"
	PingPongStrengthBinding   = "pingPongStrength"
	RotationTypeBinding       = "rotationType"
	CellularReturnTypeBinding = "cellularReturnType"
	CellularJitterModBinding  = "cellularJitterMod"
	DomainWarpTypeBinding     = "domainWarpType"
	DomainWarpAmpBinding      = "domainWarpAmp"
	// OffsetResolutionBinding packs the offset in xyz and the resolution in w.
	OffsetResolutionBinding = "noiseOffsetWithResolution"
)

// Program and kernel contract.
const (
	ProgramName  = "NoiseLit"
	Kernel2D     = "Noise2DGen"
	Kernel3D     = "Noise3DGen"
	Output2D     = "Result"
	Output3D     = "Result3D"
	StateBinding = "NoiseState"
)

var (
	ThreadGroup2D = compute.ThreadGroupShape{X: 8, Y: 8, Z: 1}
	ThreadGroup3D = compute.ThreadGroupShape{X: 8, Y: 8, Z: 8}
)

var (
	seedID               = compute.PropertyToID(SeedBinding)
	frequencyID          = compute.PropertyToID(FrequencyBinding)
	octavesID            = compute.PropertyToID(OctavesBinding)
	lacunarityID         = compute.PropertyToID(LacunarityBinding)
	gainID               = compute.PropertyToID(GainBinding)
	weightedStrengthID   = compute.PropertyToID(WeightedStrengthBinding)
	pingPongStrengthID   = compute.PropertyToID(PingPongStrengthBinding)
	rotationTypeID       = compute.PropertyToID(RotationTypeBinding)
	cellularReturnTypeID = compute.PropertyToID(CellularReturnTypeBinding)
	cellularJitterModID  = compute.PropertyToID(CellularJitterModBinding)
	domainWarpTypeID     = compute.PropertyToID(DomainWarpTypeBinding)
	domainWarpAmpID      = compute.PropertyToID(DomainWarpAmpBinding)
	offsetResolutionID   = compute.PropertyToID(OffsetResolutionBinding)
)

// ProgramSource describes the noise program for a backend. code is the
// kernel text for backends that compile it and may be empty otherwise.
// Uniforms are listed in the order the kernel declares them.
func ProgramSource(code string) compute.ProgramSource {
	return compute.ProgramSource{
		Name:    ProgramName,
		Code:    code,
		Kernels: []string{Kernel2D, Kernel3D},
		Uniforms: []compute.UniformField{
			{Name: SeedBinding, Kind: compute.UniformInt},
			{Name: FrequencyBinding, Kind: compute.UniformFloat},
			{Name: OctavesBinding, Kind: compute.UniformInt},
			{Name: LacunarityBinding, Kind: compute.UniformFloat},
			{Name: GainBinding, Kind: compute.UniformFloat},
			{Name: WeightedStrengthBinding, Kind: compute.UniformFloat},
			{Name: PingPongStrengthBinding, Kind: compute.UniformFloat},
			{Name: RotationTypeBinding, Kind: compute.UniformInt},
			{Name: CellularReturnTypeBinding, Kind: compute.UniformInt},
			{Name: CellularJitterModBinding, Kind: compute.UniformFloat},
			{Name: DomainWarpTypeBinding, Kind: compute.UniformInt},
			{Name: DomainWarpAmpBinding, Kind: compute.UniformFloat},
			{Name: OffsetResolutionBinding, Kind: compute.UniformVec4},
		},
		Textures: []compute.TextureSlot{
			{Name: Output2D, Binding: 1, Dimension: compute.TextureDimension2D, Access: compute.TextureWrite, Kernel: Kernel2D},
			{Name: Output3D, Binding: 2, Dimension: compute.TextureDimension3D, Access: compute.TextureWrite, Kernel: Kernel3D},
		},
	}
}
