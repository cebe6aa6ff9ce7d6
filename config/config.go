// Package config holds the editor core's tunables. Values load from a YAML
// file with sane defaults for anything absent, so a missing config file is
// not an error.
package config

import (
	"errors"
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Config is the full tunable set.
type Config struct {
	// Influence is the graph resolution threshold in world units: materials
	// whose distance exceeds it do not appear in resolution results.
	Influence float64 `yaml:"influence"`

	// CornerSmooth is the smooth-min radius for corner primitives, in world
	// units. Zero gives sharp corners.
	CornerSmooth float64 `yaml:"corner_smooth"`

	// OutlineWidth is the full thickness of material outline bands, in world
	// units.
	OutlineWidth float64 `yaml:"outline_width"`

	// CheckerSize is the background checkerboard cell size in screen pixels.
	CheckerSize float64 `yaml:"checker_size"`

	// TileCapacity bounds the per-shard tile cache used during composition.
	TileCapacity int `yaml:"tile_capacity"`

	// PaintBuffers bounds the decoded paint-buffer LRU.
	PaintBuffers int `yaml:"paint_buffers"`

	Cache  CacheConfig  `yaml:"cache"`
	Upload UploadConfig `yaml:"upload"`
}

// CacheConfig bounds the map asset cache.
type CacheConfig struct {
	MaxBytes   int64 `yaml:"max_bytes"`
	MaxEntries int   `yaml:"max_entries"`
}

// UploadConfig configures the upload path of the asset cache.
type UploadConfig struct {
	Endpoint string `yaml:"endpoint"`
	// RatePerMinute caps admitted uploads; zero disables throttling.
	RatePerMinute int `yaml:"rate_per_minute"`
	Burst         int `yaml:"burst"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Influence:    2.0,
		CornerSmooth: 4.0,
		OutlineWidth: 4.0,
		CheckerSize:  16,
		TileCapacity: 256,
		PaintBuffers: 32,
		Cache: CacheConfig{
			MaxBytes:   256 << 20,
			MaxEntries: 64,
		},
		Upload: UploadConfig{
			RatePerMinute: 6,
			Burst:         2,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file yields the
// defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, zerr.Wrap(err, "config: read")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), zerr.With(zerr.Wrap(err, "config: parse"), "path", path)
	}
	return cfg, nil
}
