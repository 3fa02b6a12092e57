package compute

import (
	"fmt"

	"github.com/gekko3d/noisemaster/logging"
	"github.com/google/uuid"
)

// MaxVolumeResolution caps each axis of a volume handler.
const MaxVolumeResolution = 512

type TextureKind int

const (
	Texture2D TextureKind = iota
	Volume3D
)

func (k TextureKind) String() string {
	if k == Volume3D {
		return "3D"
	}
	return "2D"
}

// HandlerConfig carries what every texture handler is created from.
type HandlerConfig struct {
	Device      Device
	Program     Program
	KernelName  string
	ThreadGroup ThreadGroupShape
	// OutputName is the binding the owned texture is bound to.
	OutputName string
	Resolution int
	Logger     logging.Logger
}

// TextureHandler dispatches a kernel over a square (Texture2D) or cubic
// (Volume3D) grid and owns the texture the kernel writes. Exactly one
// primary texture is alive per handler at any time. Volume handlers may
// additionally own a 2D preview of one layer.
type TextureHandler struct {
	*Dispatcher

	id         uuid.UUID
	kind       TextureKind
	device     Device
	outputName string
	outputID   PropertyID
	resolution int
	texture    Texture
	attached   []Parameter
	volume     *volumePreview
	disposed   bool
}

var (
	_ Handler[any]     = (*Dispatcher)(nil)
	_ Handler[Texture] = (*TextureHandler)(nil)
)

// NewTexture2DHandler returns a handler that owns a resolution^2 texture.
func NewTexture2DHandler(cfg HandlerConfig) *TextureHandler {
	return newTextureHandler(Texture2D, cfg)
}

// NewVolumeHandler returns a handler that owns a resolution^3 texture.
// Resolutions above MaxVolumeResolution are clamped with a warning.
// copier may be nil when no preview will ever be requested.
func NewVolumeHandler(cfg HandlerConfig, copier *LayerCopier) *TextureHandler {
	h := newTextureHandler(Volume3D, cfg)
	h.volume = &volumePreview{copier: copier, showLayer: 1}
	h.resolution = h.clampResolution(h.resolution)
	return h
}

func newTextureHandler(kind TextureKind, cfg HandlerConfig) *TextureHandler {
	return &TextureHandler{
		Dispatcher: NewDispatcher(cfg.Program, cfg.KernelName, cfg.ThreadGroup, cfg.Logger),
		id:         uuid.New(),
		kind:       kind,
		device:     cfg.Device,
		outputName: cfg.OutputName,
		outputID:   PropertyToID(cfg.OutputName),
		resolution: cfg.Resolution,
	}
}

func (h *TextureHandler) ID() uuid.UUID      { return h.id }
func (h *TextureHandler) Kind() TextureKind  { return h.kind }
func (h *TextureHandler) Device() Device     { return h.device }
func (h *TextureHandler) OutputName() string { return h.outputName }
func (h *TextureHandler) Resolution() int    { return h.resolution }
func (h *TextureHandler) Disposed() bool     { return h.disposed }

// IsValid additionally requires a device and a live handler.
func (h *TextureHandler) IsValid() bool {
	return h.Dispatcher.IsValid() && h.device != nil && !h.disposed
}

// Attach adds parameters that are bound after the generic list on every
// dispatch. Attached parameters are owned by the caller and are never
// serialized with the list.
func (h *TextureHandler) Attach(params ...Parameter) {
	h.attached = append(h.attached, params...)
}

// Detach removes a parameter added with Attach.
func (h *TextureHandler) Detach(p Parameter) {
	for i, a := range h.attached {
		if a == p {
			h.attached = append(h.attached[:i], h.attached[i+1:]...)
			return
		}
	}
}

// ThreadGroupCount divides the resolution by the thread group shape on
// each axis. The resolution must be a multiple of the shape; remainders
// are dropped and leave the texture edge unwritten.
func (h *TextureHandler) ThreadGroupCount() ThreadGroupShape {
	return GridFor(h.kind, h.resolution, h.ThreadGroup())
}

// GridFor computes the dispatch grid for a square or cubic resolution.
func GridFor(kind TextureKind, resolution int, group ThreadGroupShape) ThreadGroupShape {
	grid := ThreadGroupShape{X: resolution / group.X, Y: resolution / group.Y, Z: 1}
	if kind == Volume3D {
		grid.Z = resolution / group.Z
	}
	return grid
}

// Result returns the primary texture, or nil before the first Play or
// EnsureTexture. Callers treat nil as "not generated yet".
func (h *TextureHandler) Result() Texture { return h.texture }

// EnsureTexture creates the primary texture if it does not exist yet.
func (h *TextureHandler) EnsureTexture() (Texture, error) {
	if h.disposed {
		return nil, ErrDisposed
	}
	if h.texture != nil {
		return h.texture, nil
	}
	if h.device == nil {
		return nil, fmt.Errorf("%w: no device for %q", ErrNotReady, h.outputName)
	}
	if h.resolution <= 0 {
		return nil, fmt.Errorf("compute: invalid resolution %d for %q", h.resolution, h.outputName)
	}
	label := fmt.Sprintf("%s-%s-%s", h.outputName, h.kind, h.id)
	desc := Texture2DDescriptor(label, h.resolution)
	if h.kind == Volume3D {
		desc = Texture3DDescriptor(label, h.resolution)
	}
	tex, err := h.device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("create %s texture %d: %w", h.kind, h.resolution, err)
	}
	h.texture = tex
	h.Logger().Debugf("created %s texture %q (%d)", h.kind, label, h.resolution)
	return tex, nil
}

// Play binds the output texture, then the parameter list, then attached
// parameters, and dispatches ThreadGroupCount workgroups. Volume handlers
// with preview enabled refresh the preview afterwards.
func (h *TextureHandler) Play(recordTiming bool) error {
	if h.disposed {
		return ErrDisposed
	}
	if !h.IsValid() {
		return fmt.Errorf("%w: %s handler %q", ErrNotReady, h.kind, h.outputName)
	}
	return h.run(dispatchPlan{
		grid:  h.ThreadGroupCount(),
		bind:  h.bind,
		after: h.afterPlay,
	}, recordTiming)
}

func (h *TextureHandler) bind(kernel int) error {
	tex, err := h.EnsureTexture()
	if err != nil {
		return err
	}
	program := h.Program()
	program.SetTexture(kernel, h.outputID, tex)
	h.BindParameters(kernel, h.resolution)
	for _, p := range h.attached {
		p.Apply(kernel, program, h.resolution)
	}
	return nil
}

func (h *TextureHandler) afterPlay() error {
	if h.volume == nil || !h.volume.enabled {
		return nil
	}
	return h.volume.refresh(h.texture, h.Logger())
}

// ChangeResolution releases the current texture (and preview) and stores
// the new resolution. The primary texture is recreated lazily on the next
// Play or EnsureTexture; the caller must Play to fill it. The teardown
// happens even when the resolution is unchanged.
func (h *TextureHandler) ChangeResolution(resolution int) {
	h.releaseTextures()
	h.resolution = h.clampResolution(resolution)
}

func (h *TextureHandler) clampResolution(resolution int) int {
	if h.kind == Volume3D && resolution > MaxVolumeResolution {
		h.Logger().Warnf("3D noise does not support resolution %d, clamped to %d", resolution, MaxVolumeResolution)
		return MaxVolumeResolution
	}
	return resolution
}

// Dispose releases every texture the handler owns. It is idempotent; after
// the first call Play returns ErrDisposed.
func (h *TextureHandler) Dispose() {
	if h.disposed {
		return
	}
	h.releaseTextures()
	h.disposed = true
}

func (h *TextureHandler) releaseTextures() {
	if h.texture != nil {
		h.Logger().Debugf("releasing %s texture %q", h.kind, h.texture.Label())
		h.texture.Release()
		h.texture = nil
	}
	if h.volume != nil {
		h.volume.release()
	}
}
