// Command noisegen generates a noise texture from a YAML configuration and
// writes it to disk, optionally timing generation across resolutions.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gekko3d/noisemaster"
	"github.com/gekko3d/noisemaster/config"
	"github.com/gekko3d/noisemaster/noise"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	backend := flag.String("backend", "", "Override backend: soft or wgpu")
	space := flag.String("space", "", "Override noise space: 2d or 3d")
	resolution := flag.Int("resolution", 0, "Override resolution")
	outDir := flag.String("output", "", "Override output directory")
	loadPreset := flag.String("load-preset", "", "Rebuild the handler from a preset (.json or .yaml)")
	savePreset := flag.String("save-preset", "", "Save the handler as a data-only preset")
	writeConfig := flag.String("write-config", "", "Write the effective config to this path and exit")
	bench := flag.Bool("bench", false, "Run the benchmark described by the bench section")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *space != "" {
		cfg.Space = *space
	}
	if *resolution > 0 {
		cfg.Resolution = *resolution
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if *writeConfig != "" {
		if err := cfg.WriteYAML(*writeConfig); err != nil {
			log.Fatalf("failed to write config: %v", err)
		}
		return
	}

	if err := run(cfg, *loadPreset, *savePreset, *bench); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, loadPreset, savePreset string, bench bool) error {
	backendMod, err := noisemaster.SelectBackend(cfg.Backend, noisemaster.BackendOptions{
		NoiseKernelPath: cfg.Kernels.NoisePath,
		Validate:        cfg.Kernels.Validate,
	})
	if err != nil {
		return err
	}
	app, err := noisemaster.NewAppBuilder().
		UseModule(
			noisemaster.LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug},
			backendMod,
			noisemaster.NoiseModule{AutoUpdate: cfg.AutoUpdate},
		).
		Build()
	if err != nil {
		return err
	}
	defer app.Release()
	logger := app.Logger()
	factory := noisemaster.MustResource[noisemaster.NoiseFactory](app)

	space, err := noisemaster.ParseNoiseSpace(cfg.Space)
	if err != nil {
		return err
	}

	if bench {
		return runBenchmark(factory, space, cfg)
	}

	var h *noise.Handler
	if loadPreset != "" {
		h, err = noisemaster.LoadPreset(factory, loadPreset)
	} else {
		res := cfg.EffectiveResolution()
		if res != cfg.Resolution {
			logger.Warnf("resolution %d exceeds the %s limit, generating at %d", cfg.Resolution, space, res)
		}
		h, err = factory.Create(space, res)
		if err == nil {
			h.AutoUpdate = false
			h.SetPreviewEnabled(cfg.Preview.Enabled)
			h.SetShowLayer(cfg.Preview.Layer)
			h.Configuration().SetSettings(cfg.Noise)
			h.AutoUpdate = cfg.AutoUpdate
		}
	}
	if err != nil {
		return err
	}

	if err := h.Play(true); err != nil {
		return err
	}
	logger.Infof("generated %s %s noise at %d in %.3fms", noisemaster.SpaceOf(h), h.Configuration().NoiseType(), h.Resolution(), h.ElapsedMs())

	format, err := noisemaster.ParseImageFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	asset, err := noisemaster.ExportTexture(h, cfg.Output.Dir, cfg.Output.Name, format)
	if err != nil {
		return err
	}
	logger.Infof("wrote %s (%dx%d) asset %s", asset.Path, asset.Width, asset.Height, asset.ID)

	if h.PreviewEnabled() {
		if err := writePreview(h, cfg, format, asset.Path); err != nil {
			return err
		}
	}

	if savePreset != "" {
		if err := noisemaster.SavePreset(h, savePreset); err != nil {
			return fmt.Errorf("failed to save preset: %w", err)
		}
		logger.Infof("saved preset %s", savePreset)
	}
	return nil
}

func writePreview(h *noise.Handler, cfg *config.Config, format noisemaster.ImageFormat, exported string) error {
	img, err := noisemaster.ReadPreview(h.TextureHandler)
	if err != nil {
		return err
	}
	img = noisemaster.ScalePreview(img, cfg.Preview.ShowResolution)

	ext := filepath.Ext(exported)
	path := exported[:len(exported)-len(ext)] + fmt.Sprintf("_layer%d", h.ShowLayer()) + ext
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := noisemaster.EncodeImage(f, img, format); err != nil {
		return err
	}
	return f.Close()
}

func runBenchmark(factory *noisemaster.NoiseFactory, space noisemaster.NoiseSpace, cfg *config.Config) error {
	if cfg.Bench.Runs == 0 {
		return fmt.Errorf("bench.runs is 0, nothing to measure")
	}
	p := &noisemaster.Profiler{}
	if err := noisemaster.Benchmark(factory, p, space, cfg.Noise, cfg.Bench.Resolutions, cfg.Bench.Runs); err != nil {
		return err
	}
	if cfg.Bench.CSVPath == "" {
		return p.WriteCSV(os.Stdout)
	}
	return p.WriteCSVFile(cfg.Bench.CSVPath)
}
