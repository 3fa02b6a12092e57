package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/go-gl/mathgl/mgl32"
)

type uniformSlot struct {
	offset int
	kind   compute.UniformKind
}

// uniformLayout places named uniforms in one buffer the way WGSL lays out
// a struct of i32, f32 and vec4<f32> members: scalars take 4 bytes at 4
// byte alignment, vectors 16 bytes at 16, and the total is a multiple of 16.
type uniformLayout struct {
	slots map[compute.PropertyID]uniformSlot
	size  int
}

func packUniforms(fields []compute.UniformField) uniformLayout {
	l := uniformLayout{slots: make(map[compute.PropertyID]uniformSlot, len(fields))}
	off := 0
	for _, f := range fields {
		size, align := 4, 4
		if f.Kind == compute.UniformVec4 {
			size, align = 16, 16
		}
		off = alignUp(off, align)
		l.slots[compute.PropertyToID(f.Name)] = uniformSlot{offset: off, kind: f.Kind}
		off += size
	}
	l.size = alignUp(off, 16)
	if l.size == 0 {
		l.size = 16
	}
	return l
}

func alignUp(n, a int) int {
	return (n + a - 1) / a * a
}

// encode writes the current values into a buffer image. Values bound under
// names the layout does not declare are ignored; unset fields are zero.
func (l uniformLayout) encode(ints map[compute.PropertyID]int32, floats map[compute.PropertyID]float32, vectors map[compute.PropertyID]mgl32.Vec4) []byte {
	buf := make([]byte, l.size)
	le := binary.LittleEndian
	for id, slot := range l.slots {
		switch slot.kind {
		case compute.UniformInt:
			le.PutUint32(buf[slot.offset:], uint32(ints[id]))
		case compute.UniformFloat:
			le.PutUint32(buf[slot.offset:], math.Float32bits(floats[id]))
		case compute.UniformVec4:
			v := vectors[id]
			for i := 0; i < 4; i++ {
				le.PutUint32(buf[slot.offset+4*i:], math.Float32bits(v[i]))
			}
		}
	}
	return buf
}
