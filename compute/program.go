package compute

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

type TextureDimension int

const (
	TextureDimension2D TextureDimension = iota + 2
	TextureDimension3D
)

func (d TextureDimension) String() string {
	switch d {
	case TextureDimension2D:
		return "2D"
	case TextureDimension3D:
		return "3D"
	default:
		return fmt.Sprintf("TextureDimension(%d)", int(d))
	}
}

// TextureDescriptor describes an RGBA8 texture that kernels can write to
// and read from. Depth is 1 for 2D textures.
type TextureDescriptor struct {
	Label     string
	Width     int
	Height    int
	Depth     int
	Dimension TextureDimension
}

// Texture2DDescriptor describes a square resolution x resolution texture.
func Texture2DDescriptor(label string, resolution int) TextureDescriptor {
	return TextureDescriptor{
		Label:     label,
		Width:     resolution,
		Height:    resolution,
		Depth:     1,
		Dimension: TextureDimension2D,
	}
}

// Texture3DDescriptor describes a cubic volume of resolution^3 texels.
func Texture3DDescriptor(label string, resolution int) TextureDescriptor {
	return TextureDescriptor{
		Label:     label,
		Width:     resolution,
		Height:    resolution,
		Depth:     resolution,
		Dimension: TextureDimension3D,
	}
}

// Texture is a GPU resident image owned by exactly one handler.
// Release frees device memory and is safe to call more than once.
type Texture interface {
	Label() string
	Width() int
	Height() int
	Depth() int
	Dimension() TextureDimension
	Release()
}

// ThreadGroupShape is either the per-workgroup size compiled into a kernel
// or a dispatch grid measured in workgroups.
type ThreadGroupShape struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

func (s ThreadGroupShape) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.X, s.Y, s.Z)
}

type UniformKind int

const (
	UniformInt UniformKind = iota
	UniformFloat
	UniformVec4
)

// UniformField is one named scalar or vector binding of a program.
type UniformField struct {
	Name string
	Kind UniformKind
}

type TextureAccess int

const (
	TextureWrite TextureAccess = iota
	TextureRead
)

// TextureSlot is one named texture binding of a program. Kernel restricts
// the slot to one entry point; empty means every kernel uses it.
type TextureSlot struct {
	Name      string
	Binding   int
	Dimension TextureDimension
	Access    TextureAccess
	Kernel    string
}

// SlotsFor returns the texture slots kernel binds.
func (s ProgramSource) SlotsFor(kernel string) []TextureSlot {
	var out []TextureSlot
	for _, slot := range s.Textures {
		if slot.Kernel == "" || slot.Kernel == kernel {
			out = append(out, slot)
		}
	}
	return out
}

// ProgramSource is everything a Device needs to build a Program.
// Backends that compile kernels from text use Code; the CPU backend looks
// programs up by Name instead.
type ProgramSource struct {
	Name     string
	Code     string
	Kernels  []string
	Uniforms []UniformField
	Textures []TextureSlot
}

// Device creates textures and programs and reads textures back.
type Device interface {
	CreateTexture(desc TextureDescriptor) (Texture, error)
	// ReadTexture copies a 2D texture, or one layer of a volume, to the CPU.
	// It is a GPU sync point.
	ReadTexture(tex Texture, layer int) (*image.RGBA, error)
	LoadProgram(src ProgramSource) (Program, error)
}

// Program is a compiled compute program. Bindings are addressed by
// PropertyID. Keyword state is global to the program object, so a Program
// must not be shared by handlers running concurrently.
type Program interface {
	Name() string
	FindKernel(name string) (int, error)
	SetInt(id PropertyID, v int32)
	SetFloat(id PropertyID, v float32)
	SetVector(id PropertyID, v mgl32.Vec4)
	SetTexture(kernel int, id PropertyID, tex Texture)
	EnableKeyword(keyword string)
	DisableKeyword(keyword string)
	IsKeywordEnabled(keyword string) bool
	// Dispatch submits x*y*z workgroups and returns without waiting for
	// the GPU to finish.
	Dispatch(kernel int, x, y, z int) error
	Release()
}
