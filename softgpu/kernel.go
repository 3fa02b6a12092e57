package softgpu

import (
	"image/color"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/go-gl/mathgl/mgl32"
)

type bindings struct {
	ints     map[compute.PropertyID]int32
	floats   map[compute.PropertyID]float32
	vectors  map[compute.PropertyID]mgl32.Vec4
	textures map[compute.PropertyID]*Texture
	keywords map[string]bool
}

// KernelContext is what a kernel sees for one invocation: its global id
// and the bindings captured when the dispatch was issued.
type KernelContext struct {
	ID       [3]int
	bindings *bindings
}

func (c *KernelContext) Int(name string) int32 {
	return c.bindings.ints[compute.PropertyToID(name)]
}

func (c *KernelContext) Float(name string) float32 {
	return c.bindings.floats[compute.PropertyToID(name)]
}

func (c *KernelContext) Vector(name string) mgl32.Vec4 {
	return c.bindings.vectors[compute.PropertyToID(name)]
}

// Texture returns the texture bound to name, or nil.
func (c *KernelContext) Texture(name string) *Texture {
	return c.bindings.textures[compute.PropertyToID(name)]
}

func (c *KernelContext) Keyword(keyword string) bool {
	return c.bindings.keywords[keyword]
}

// CopyLayerProgram copies layer `layer` of Source into the 2D Destination.
func CopyLayerProgram() ProgramDef {
	return ProgramDef{
		Name: compute.CopyLayerProgram,
		Kernels: []Kernel{{
			Name:  compute.CopyLayerKernel,
			Group: compute.CopyLayerThreadGroup,
			Fn: func(ctx *KernelContext) {
				src := ctx.Texture(compute.CopySourceBinding)
				dst := ctx.Texture(compute.CopyDestinationBinding)
				if src == nil || dst == nil {
					return
				}
				x, y := ctx.ID[0], ctx.ID[1]
				if x >= dst.Width() || y >= dst.Height() {
					return
				}
				dst.Set(x, y, 0, src.At(x, y, int(ctx.Int(compute.CopyLayerBinding))))
			},
		}},
	}
}

// ProbeKernel returns a kernel that writes each invocation's coordinates
// into the texture bound to output: R, G and B hold x, y and z scaled to
// the bound resolution, alpha is opaque. If invertKeyword is enabled the
// colour channels are inverted. It stands in for kernels whose math is
// not available on the CPU and makes binding and dispatch effects visible.
func ProbeKernel(name, output string, group compute.ThreadGroupShape, resolutionVector, invertKeyword string) Kernel {
	return Kernel{
		Name:  name,
		Group: group,
		Fn: func(ctx *KernelContext) {
			tex := ctx.Texture(output)
			if tex == nil {
				return
			}
			res := tex.Width()
			if resolutionVector != "" {
				if w := int(ctx.Vector(resolutionVector)[3]); w > 0 {
					res = w
				}
			}
			x, y, z := ctx.ID[0], ctx.ID[1], ctx.ID[2]
			c := color.RGBA{R: scale(x, res), G: scale(y, res), B: scale(z, res), A: 255}
			if invertKeyword != "" && ctx.Keyword(invertKeyword) {
				c.R, c.G, c.B = 255-c.R, 255-c.G, 255-c.B
			}
			tex.Set(x, y, z, c)
		},
	}
}

// ProbeValue is the channel value ProbeKernel writes for coordinate v.
func ProbeValue(v, resolution int) uint8 { return scale(v, resolution) }

func scale(v, res int) uint8 {
	if res <= 1 || v <= 0 {
		return 0
	}
	if v >= res-1 {
		return 255
	}
	return uint8(v * 255 / (res - 1))
}
