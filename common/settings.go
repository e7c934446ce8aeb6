package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values and clamp ranges for bake settings.
const (
	DefaultResolution = 1024
	DefaultSamples    = 1024
	DefaultMargin     = 16
	DefaultOutputDir  = "baked_textures"

	MinResolution = 256
	MaxResolution = 8192
	MinSamples    = 1
	MaxSamples    = 8192
	MinMargin     = 0
	MaxMargin     = 64
)

// Settings holds the configuration of one bake run. A Settings value is
// constructed fresh per orchestration call and passed explicitly; nothing in
// the baker keeps ambient configuration state.
//
// Resolution is expected to be a power of two but this is not enforced.
type Settings struct {
	// Resolution is the side length of the square bake image in pixels.
	Resolution int `yaml:"resolution"`

	// Samples is the per-texel sample count handed to the host bake.
	Samples int `yaml:"samples"`

	// Margin is the island padding in texels, used both for UV island
	// separation and for post-bake edge dilation.
	Margin int `yaml:"margin"`

	// OutputDir is the directory baked images are written to. Created on
	// demand; an unwritable directory aborts the batch before any object
	// is processed.
	OutputDir string `yaml:"output_dir"`

	// BakeType selects the lighting response to bake.
	BakeType BakeType `yaml:"bake_type"`
}

// DefaultSettings returns a Settings populated with the package defaults:
// 1024 resolution, 1024 samples, 16 margin, "baked_textures", Combined.
//
// Returns:
//   - Settings: the default settings value
func DefaultSettings() Settings {
	return Settings{
		Resolution: DefaultResolution,
		Samples:    DefaultSamples,
		Margin:     DefaultMargin,
		OutputDir:  DefaultOutputDir,
		BakeType:   BakeTypeCombined,
	}
}

// LoadSettings reads a YAML settings preset file, applies defaults for absent
// fields and clamps every numeric field into its allowed range.
//
// Parameters:
//   - path: the preset file path
//
// Returns:
//   - Settings: the loaded, defaulted and clamped settings
//   - error: error if the file cannot be read or parsed
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings file: %w", err)
	}

	s.applyDefaults()
	return s, nil
}

// applyDefaults fills zero-valued fields with the package defaults and clamps
// numeric fields into their allowed ranges.
func (s *Settings) applyDefaults() {
	s.Resolution = clamp(Coalesce(s.Resolution, DefaultResolution), MinResolution, MaxResolution)
	s.Samples = clamp(Coalesce(s.Samples, DefaultSamples), MinSamples, MaxSamples)
	s.Margin = clamp(s.Margin, MinMargin, MaxMargin)
	s.OutputDir = Coalesce(s.OutputDir, DefaultOutputDir)
	if !s.BakeType.Valid() {
		s.BakeType = BakeTypeCombined
	}
}

// Validate checks a hand-constructed Settings for use in a batch run. Unlike
// LoadSettings it does not clamp; out-of-contract values are reported so the
// caller's configuration mistake is visible rather than silently adjusted.
//
// Returns:
//   - error: error describing the first invalid field, nil if the settings are usable
func (s Settings) Validate() error {
	if s.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive, got %d", s.Resolution)
	}
	if s.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", s.Samples)
	}
	if s.Margin < 0 {
		return fmt.Errorf("margin must be non-negative, got %d", s.Margin)
	}
	if s.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	if !s.BakeType.Valid() {
		return fmt.Errorf("invalid bake type %d", int(s.BakeType))
	}
	return nil
}

// ImageName returns the deterministic bake image name for an object,
// "<object>_<bakeType>". Repeated runs on the same object reuse the name so
// the host's image registry replaces rather than accumulates buffers.
//
// Parameters:
//   - object: the object name
//
// Returns:
//   - string: the bake image name
func (s Settings) ImageName(object string) string {
	return fmt.Sprintf("%s_%s", object, s.BakeType)
}

// OutputPath returns the on-disk destination of an object's baked image,
// "<OutputDir>/<object>_<bakeType>.png".
//
// Parameters:
//   - object: the object name
//
// Returns:
//   - string: the output file path
func (s Settings) OutputPath(object string) string {
	return filepath.Join(s.OutputDir, s.ImageName(object)+".png")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
