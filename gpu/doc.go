// Package gpu implements compute.Device on WebGPU. It runs headless: no
// window or surface is created. Programs are WGSL modules whose keyword
// variants are produced by an #ifdef preprocessor and compiled on demand.
package gpu
