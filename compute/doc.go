// Package compute binds typed parameters to GPU compute kernels, sizes
// dispatch grids from a texture resolution, and owns the textures a
// dispatch writes into.
//
// The GPU itself is reached through the Device and Program interfaces.
// Two implementations ship with the module: a WebGPU backend in package gpu
// and a CPU backend in package softgpu.
package compute
