package compute

import "github.com/go-gl/mathgl/mgl32"

// Parameter is a named value that knows how to bind itself into a program
// before a dispatch.
type Parameter interface {
	BindingName() string
	Apply(kernel int, program Program, resolution int)
}

// Resolver is implemented by parameters that cache a PropertyID. Decoders
// call ResolveID after restoring a parameter, because ids are process-local.
type Resolver interface {
	ResolveID()
}

// resolve returns the cached id for name, interning it on first use.
func resolve(id *PropertyID, name string) PropertyID {
	if *id == 0 {
		*id = PropertyToID(name)
	}
	return *id
}

type FloatParameter struct {
	Binding string  `json:"binding"`
	Value   float32 `json:"value"`
	id      PropertyID
}

func NewFloatParameter(binding string, value float32) *FloatParameter {
	return &FloatParameter{Binding: binding, Value: value, id: PropertyToID(binding)}
}

func (p *FloatParameter) BindingName() string { return p.Binding }
func (p *FloatParameter) ResolveID()          { p.id = PropertyToID(p.Binding) }

func (p *FloatParameter) Apply(kernel int, program Program, resolution int) {
	program.SetFloat(resolve(&p.id, p.Binding), p.Value)
}

type IntParameter struct {
	Binding string `json:"binding"`
	Value   int32  `json:"value"`
	id      PropertyID
}

func NewIntParameter(binding string, value int32) *IntParameter {
	return &IntParameter{Binding: binding, Value: value, id: PropertyToID(binding)}
}

func (p *IntParameter) BindingName() string { return p.Binding }
func (p *IntParameter) ResolveID()          { p.id = PropertyToID(p.Binding) }

func (p *IntParameter) Apply(kernel int, program Program, resolution int) {
	program.SetInt(resolve(&p.id, p.Binding), p.Value)
}

type VectorParameter struct {
	Binding string     `json:"binding"`
	Value   mgl32.Vec4 `json:"value"`
	id      PropertyID
}

func NewVectorParameter(binding string, value mgl32.Vec4) *VectorParameter {
	return &VectorParameter{Binding: binding, Value: value, id: PropertyToID(binding)}
}

func (p *VectorParameter) BindingName() string { return p.Binding }
func (p *VectorParameter) ResolveID()          { p.id = PropertyToID(p.Binding) }

func (p *VectorParameter) Apply(kernel int, program Program, resolution int) {
	program.SetVector(resolve(&p.id, p.Binding), p.Value)
}

// TextureParameter binds an externally owned texture. Only the binding
// name is persisted; a restored TextureParameter stays unbound until a
// texture is assigned.
type TextureParameter struct {
	Binding string  `json:"binding"`
	Texture Texture `json:"-"`
	id      PropertyID
}

func NewTextureParameter(binding string, tex Texture) *TextureParameter {
	return &TextureParameter{Binding: binding, Texture: tex, id: PropertyToID(binding)}
}

func (p *TextureParameter) BindingName() string { return p.Binding }
func (p *TextureParameter) ResolveID()          { p.id = PropertyToID(p.Binding) }

func (p *TextureParameter) Apply(kernel int, program Program, resolution int) {
	if p.Texture == nil {
		return
	}
	program.SetTexture(kernel, resolve(&p.id, p.Binding), p.Texture)
}
