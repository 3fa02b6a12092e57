package shaders

import (
	_ "embed"
)

//go:embed copy_layer.wgsl
var CopyLayerWGSL string
