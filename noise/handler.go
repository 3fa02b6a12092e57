package noise

import (
	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/logging"
)

// Handler couples a Configuration to a texture handler. With AutoUpdate on,
// every confirmed configuration change re-dispatches the kernel. With it
// off, keyword-selecting changes only refresh the program's keywords so the
// next manual Play picks them up.
type Handler struct {
	*compute.TextureHandler

	AutoUpdate bool

	config *Configuration
	subs   []Subscription
}

// NewHandler attaches cfg to th and registers its observers. A nil cfg
// gets a default configuration.
func NewHandler(th *compute.TextureHandler, cfg *Configuration) *Handler {
	h := &Handler{TextureHandler: th}
	if cfg == nil {
		cfg = NewConfiguration()
	}
	h.SetConfiguration(cfg)
	return h
}

// NewNoise2DHandler builds a handler for the Noise2DGen kernel writing a
// resolution^2 texture bound as Result.
func NewNoise2DHandler(device compute.Device, program compute.Program, resolution int, logger logging.Logger) *Handler {
	return NewHandler(compute.NewTexture2DHandler(compute.HandlerConfig{
		Device:      device,
		Program:     program,
		KernelName:  Kernel2D,
		ThreadGroup: ThreadGroup2D,
		OutputName:  Output2D,
		Resolution:  resolution,
		Logger:      logger,
	}), nil)
}

// NewNoise3DHandler builds a handler for the Noise3DGen kernel writing a
// resolution^3 volume bound as Result3D.
func NewNoise3DHandler(device compute.Device, program compute.Program, copier *compute.LayerCopier, resolution int, logger logging.Logger) *Handler {
	return NewHandler(compute.NewVolumeHandler(compute.HandlerConfig{
		Device:      device,
		Program:     program,
		KernelName:  Kernel3D,
		ThreadGroup: ThreadGroup3D,
		OutputName:  Output3D,
		Resolution:  resolution,
		Logger:      logger,
	}, copier), nil)
}

func (h *Handler) Configuration() *Configuration { return h.config }

// SetConfiguration swaps the owned configuration. Observers move from the
// old configuration to the new one.
func (h *Handler) SetConfiguration(cfg *Configuration) {
	if h.config != nil {
		h.unsubscribe()
		h.Detach(h.config)
	}
	h.config = cfg
	h.Attach(cfg)
	h.Reattach()
}

// Reattach registers the handler's observers on its configuration. Owners
// call it after rebuilding a handler from persisted state; observers are
// never restored implicitly. Calling it twice does not double-register.
func (h *Handler) Reattach() {
	h.unsubscribe()
	h.subs = append(h.subs,
		h.config.OnValueChanged(h.onValueChanged),
		h.config.OnKeywordsChanged(h.onKeywordsChanged),
	)
}

func (h *Handler) unsubscribe() {
	for _, s := range h.subs {
		s.Unsubscribe()
	}
	h.subs = nil
}

func (h *Handler) onValueChanged() {
	if !h.AutoUpdate || !h.IsValid() {
		return
	}
	if err := h.Play(true); err != nil {
		h.Logger().Errorf("auto update of %s failed: %v", h.KernelName(), err)
	}
}

func (h *Handler) onKeywordsChanged() {
	if h.AutoUpdate || !h.IsValid() {
		return
	}
	h.config.SetKeywords(h.Program())
}

// Dispose stops observing the configuration and releases every texture.
func (h *Handler) Dispose() {
	h.unsubscribe()
	h.TextureHandler.Dispose()
}
