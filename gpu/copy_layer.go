package gpu

import (
	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/gpu/shaders"
)

// CopyLayerSource is the layer copy program with its binding layout.
func CopyLayerSource() compute.ProgramSource {
	return compute.ProgramSource{
		Name:    compute.CopyLayerProgram,
		Code:    shaders.CopyLayerWGSL,
		Kernels: []string{compute.CopyLayerKernel},
		Uniforms: []compute.UniformField{
			{Name: compute.CopyLayerBinding, Kind: compute.UniformInt},
		},
		Textures: []compute.TextureSlot{
			{Name: compute.CopySourceBinding, Binding: 1, Dimension: compute.TextureDimension3D, Access: compute.TextureRead},
			{Name: compute.CopyDestinationBinding, Binding: 2, Dimension: compute.TextureDimension2D, Access: compute.TextureWrite},
		},
	}
}
