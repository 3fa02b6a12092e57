package noisemaster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gekko3d/noisemaster/compute"
	"github.com/gekko3d/noisemaster/noise"
	"gopkg.in/yaml.v3"
)

// PresetData is the data-only snapshot of a noise handler. It holds no
// texture: loading a preset rebuilds the handler and the caller plays it.
type PresetData struct {
	Space        NoiseSpace               `json:"space" yaml:"space"`
	Resolution   int                      `json:"resolution" yaml:"resolution"`
	Kernel       string                   `json:"kernel" yaml:"kernel"`
	Output       string                   `json:"output" yaml:"output"`
	ThreadGroup  compute.ThreadGroupShape `json:"thread_group" yaml:"thread_group,flow"`
	AutoUpdate   bool                     `json:"auto_update" yaml:"auto_update"`
	Preview      bool                     `json:"preview" yaml:"preview"`
	PreviewLayer int                      `json:"preview_layer" yaml:"preview_layer"`
	Noise        noise.Settings           `json:"noise" yaml:"noise"`
	// Parameters is the encoded extra parameter list.
	Parameters string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Snapshot captures h as a preset.
func Snapshot(h *noise.Handler) (PresetData, error) {
	blob, err := h.EncodeParameters(compute.DefaultRegistry)
	if err != nil {
		return PresetData{}, fmt.Errorf("encode parameters: %w", err)
	}
	return PresetData{
		Space:        SpaceOf(h),
		Resolution:   h.Resolution(),
		Kernel:       h.KernelName(),
		Output:       h.OutputName(),
		ThreadGroup:  h.ThreadGroup(),
		AutoUpdate:   h.AutoUpdate,
		Preview:      h.PreviewEnabled(),
		PreviewLayer: h.ShowLayer(),
		Noise:        h.Configuration().Settings(),
		Parameters:   blob,
	}, nil
}

func presetIsYAML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// SavePreset writes h to filename, as YAML for .yaml/.yml and JSON
// otherwise.
func SavePreset(h *noise.Handler, filename string) error {
	preset, err := Snapshot(h)
	if err != nil {
		return err
	}

	var bytes []byte
	if presetIsYAML(filename) {
		bytes, err = yaml.Marshal(preset)
	} else {
		bytes, err = json.MarshalIndent(preset, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(filename, bytes, 0644)
}

// ReadPreset decodes filename. Noise settings the file leaves out keep
// their defaults.
func ReadPreset(filename string) (PresetData, error) {
	preset := PresetData{Noise: noise.DefaultSettings()}
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return preset, err
	}
	if presetIsYAML(filename) {
		err = yaml.Unmarshal(bytes, &preset)
	} else {
		err = json.Unmarshal(bytes, &preset)
	}
	if err != nil {
		return preset, fmt.Errorf("parse preset %s: %w", filename, err)
	}
	return preset, nil
}

// LoadPreset rebuilds a handler from filename through f. Dropped parameter
// entries are logged and do not fail the load.
func LoadPreset(f *NoiseFactory, filename string) (*noise.Handler, error) {
	preset, err := ReadPreset(filename)
	if err != nil {
		return nil, err
	}
	return f.FromPreset(preset)
}

// FromPreset creates a handler matching preset. Kernel, output binding and
// thread group come from the factory contract for the preset's space; a
// preset that disagrees is logged and the contract wins.
func (f *NoiseFactory) FromPreset(preset PresetData) (*noise.Handler, error) {
	h, err := f.Create(preset.Space, preset.Resolution)
	if err != nil {
		return nil, err
	}
	if preset.Kernel != "" && preset.Kernel != h.KernelName() {
		f.logger.Warnf("preset kernel %q ignored, %s noise uses %q", preset.Kernel, preset.Space, h.KernelName())
	}
	if preset.Output != "" && preset.Output != h.OutputName() {
		f.logger.Warnf("preset output %q ignored, %s noise writes %q", preset.Output, preset.Space, h.OutputName())
	}
	if preset.ThreadGroup != (compute.ThreadGroupShape{}) && preset.ThreadGroup != h.ThreadGroup() {
		f.logger.Warnf("preset thread group %s ignored, %s noise uses %s", preset.ThreadGroup, preset.Space, h.ThreadGroup())
	}

	// Hydrate with auto update off so loading never dispatches.
	h.AutoUpdate = false
	h.SetPreviewEnabled(preset.Preview)
	h.SetShowLayer(preset.PreviewLayer)
	h.Configuration().SetSettings(preset.Noise)
	h.RestoreParameters(compute.DefaultRegistry, preset.Parameters)
	h.AutoUpdate = preset.AutoUpdate
	// Observers are never restored with the data; hook them up explicitly.
	h.Reattach()
	return h, nil
}
