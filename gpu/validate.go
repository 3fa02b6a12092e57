package gpu

import (
	"fmt"

	"github.com/gogpu/naga"
)

// ValidateWGSL compiles src with naga and reports the first error. The
// SPIR-V output is discarded; the driver compiles the WGSL itself.
func ValidateWGSL(src string) error {
	spirv, err := naga.Compile(src)
	if err != nil {
		return fmt.Errorf("gpu: invalid WGSL: %w", err)
	}
	if len(spirv) == 0 {
		return fmt.Errorf("gpu: naga produced no output")
	}
	return nil
}
