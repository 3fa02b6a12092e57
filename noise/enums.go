package noise

import (
	"fmt"
	"strconv"
	"strings"
)

type NoiseType int32

const (
	OpenSimplex2 NoiseType = iota
	OpenSimplex2S
	Cellular
	Perlin
	ValueCubic
	Value
)

var noiseTypeNames = []string{"OpenSimplex2", "OpenSimplex2S", "Cellular", "Perlin", "ValueCubic", "Value"}

func (t NoiseType) String() string { return enumName(noiseTypeNames, int(t), "NoiseType") }

func (t NoiseType) MarshalText() ([]byte, error) { return marshalEnum(noiseTypeNames, int(t), "NoiseType") }

func (t *NoiseType) UnmarshalText(b []byte) error {
	v, err := parseEnum(noiseTypeNames, string(b), "NoiseType")
	if err != nil {
		return err
	}
	*t = NoiseType(v)
	return nil
}

// RotationType picks the 3D domain rotation applied before sampling.
type RotationType int32

const (
	RotationNone RotationType = iota
	RotationImproveXYPlanes
	RotationImproveXZPlanes
)

var rotationTypeNames = []string{"None", "ImproveXYPlanes", "ImproveXZPlanes"}

func (t RotationType) String() string { return enumName(rotationTypeNames, int(t), "RotationType") }

func (t RotationType) MarshalText() ([]byte, error) {
	return marshalEnum(rotationTypeNames, int(t), "RotationType")
}

func (t *RotationType) UnmarshalText(b []byte) error {
	v, err := parseEnum(rotationTypeNames, string(b), "RotationType")
	if err != nil {
		return err
	}
	*t = RotationType(v)
	return nil
}

type FractalType int32

const (
	FractalNone FractalType = iota
	FractalFBM
	FractalRidged
	FractalPingPong
	FractalDomainWarpProgressive
	FractalDomainWarpIndependent
)

var fractalTypeNames = []string{"None", "FBM", "Ridged", "PingPong", "DomainWarpProgressive", "DomainWarpIndependent"}

func (t FractalType) String() string { return enumName(fractalTypeNames, int(t), "FractalType") }

func (t FractalType) MarshalText() ([]byte, error) {
	return marshalEnum(fractalTypeNames, int(t), "FractalType")
}

func (t *FractalType) UnmarshalText(b []byte) error {
	v, err := parseEnum(fractalTypeNames, string(b), "FractalType")
	if err != nil {
		return err
	}
	*t = FractalType(v)
	return nil
}

type CellularDistanceType int32

const (
	DistanceEuclidean CellularDistanceType = iota
	DistanceEuclideanSq
	DistanceManhattan
	DistanceHybrid
)

var cellularDistanceNames = []string{"Euclidean", "EuclideanSq", "Manhattan", "Hybrid"}

func (t CellularDistanceType) String() string {
	return enumName(cellularDistanceNames, int(t), "CellularDistanceType")
}

func (t CellularDistanceType) MarshalText() ([]byte, error) {
	return marshalEnum(cellularDistanceNames, int(t), "CellularDistanceType")
}

func (t *CellularDistanceType) UnmarshalText(b []byte) error {
	v, err := parseEnum(cellularDistanceNames, string(b), "CellularDistanceType")
	if err != nil {
		return err
	}
	*t = CellularDistanceType(v)
	return nil
}

type CellularReturnType int32

const (
	ReturnCellValue CellularReturnType = iota
	ReturnDistance
	ReturnDistance2
	ReturnDistance2Add
	ReturnDistance2Sub
	ReturnDistance2Mul
	ReturnDistance2Div
)

var cellularReturnNames = []string{"CellValue", "Distance", "Distance2", "Distance2Add", "Distance2Sub", "Distance2Mul", "Distance2Div"}

func (t CellularReturnType) String() string {
	return enumName(cellularReturnNames, int(t), "CellularReturnType")
}

func (t CellularReturnType) MarshalText() ([]byte, error) {
	return marshalEnum(cellularReturnNames, int(t), "CellularReturnType")
}

func (t *CellularReturnType) UnmarshalText(b []byte) error {
	v, err := parseEnum(cellularReturnNames, string(b), "CellularReturnType")
	if err != nil {
		return err
	}
	*t = CellularReturnType(v)
	return nil
}

type DomainWarpType int32

const (
	WarpOpenSimplex2 DomainWarpType = iota
	WarpOpenSimplex2Reduced
	WarpBasicGrid
)

var domainWarpNames = []string{"OpenSimplex2", "OpenSimplex2Reduced", "BasicGrid"}

func (t DomainWarpType) String() string { return enumName(domainWarpNames, int(t), "DomainWarpType") }

func (t DomainWarpType) MarshalText() ([]byte, error) {
	return marshalEnum(domainWarpNames, int(t), "DomainWarpType")
}

func (t *DomainWarpType) UnmarshalText(b []byte) error {
	v, err := parseEnum(domainWarpNames, string(b), "DomainWarpType")
	if err != nil {
		return err
	}
	*t = DomainWarpType(v)
	return nil
}

// NoiseTypes lists every noise type in declaration order.
func NoiseTypes() []NoiseType {
	out := make([]NoiseType, len(noiseTypeNames))
	for i := range out {
		out[i] = NoiseType(i)
	}
	return out
}

func enumName(names []string, v int, kind string) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

func marshalEnum(names []string, v int, kind string) ([]byte, error) {
	if v < 0 || v >= len(names) {
		return nil, fmt.Errorf("noise: invalid %s %d", kind, v)
	}
	return []byte(names[v]), nil
}

// parseEnum accepts a name, case and underscore insensitive, or the
// numeric value.
func parseEnum(names []string, text, kind string) (int, error) {
	want := normalizeName(text)
	for i, n := range names {
		if normalizeName(n) == want {
			return i, nil
		}
	}
	if v, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && v >= 0 && v < len(names) {
		return v, nil
	}
	return 0, fmt.Errorf("noise: unknown %s %q", kind, text)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(s)))
}
