// Package softgpu is a CPU implementation of compute.Device. Kernels are Go
// functions registered by program name; every dispatch runs them once per
// invocation and is recorded so tests can inspect grids and keyword state.
package softgpu
