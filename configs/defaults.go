package configs

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.SetDefault("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.SetDefault("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.SetDefault("output_format", "table")
	}
	if !v.IsSet("config_dir") {
		home, _ := os.UserHomeDir()
		v.SetDefault("config_dir", filepath.Join(home, ".config", "sample-organizer"))
	}

	// Collection defaults
	if !v.IsSet("collection.path") {
		v.SetDefault("collection.path", "samples.json")
	}
	if !v.IsSet("collection.extensions") {
		v.SetDefault("collection.extensions", []string{".wav"})
	}
	if !v.IsSet("collection.load_mode") {
		v.SetDefault("collection.load_mode", "replace")
	}

	setFramesDefaults(v)
	setDatasetDefaults(v)

	// Output defaults
	if !v.IsSet("output.precision") {
		v.SetDefault("output.precision", 3)
	}
	if !v.IsSet("output.colors") {
		v.SetDefault("output.colors", true)
	}
}

// setFramesDefaults covers the frames command and its diagnostic images
func setFramesDefaults(v *viper.Viper) {
	if !v.IsSet("frames.fft_size") {
		v.SetDefault("frames.fft_size", 1024)
	}
	if !v.IsSet("frames.hop_length") {
		v.SetDefault("frames.hop_length", 256)
	}
	if !v.IsSet("frames.window") {
		v.SetDefault("frames.window", "hamming")
	}
	if !v.IsSet("frames.channel_mode") {
		v.SetDefault("frames.channel_mode", ChannelModeMono)
	}
	if !v.IsSet("frames.sample_rate") {
		v.SetDefault("frames.sample_rate", 0)
	}

	if !v.IsSet("render.count") {
		v.SetDefault("render.count", 0)
	}
	if !v.IsSet("render.dir") {
		v.SetDefault("render.dir", "frames")
	}
	if !v.IsSet("render.format") {
		v.SetDefault("render.format", "jpg")
	}
	if !v.IsSet("render.width") {
		v.SetDefault("render.width", 512)
	}
	if !v.IsSet("render.height") {
		v.SetDefault("render.height", 256)
	}
}

// setDatasetDefaults mirrors the loader's 44.1 kHz / 512 / 256 framing
func setDatasetDefaults(v *viper.Viper) {
	if !v.IsSet("dataset.sample_rate") {
		v.SetDefault("dataset.sample_rate", 44100)
	}
	if !v.IsSet("dataset.fft_size") {
		v.SetDefault("dataset.fft_size", 512)
	}
	if !v.IsSet("dataset.hop_length") {
		v.SetDefault("dataset.hop_length", 256)
	}
	if !v.IsSet("dataset.window") {
		v.SetDefault("dataset.window", "none")
	}
	if !v.IsSet("dataset.batch_size") {
		v.SetDefault("dataset.batch_size", 1)
	}
	if !v.IsSet("dataset.shuffle") {
		v.SetDefault("dataset.shuffle", true)
	}
	if !v.IsSet("dataset.seed") {
		v.SetDefault("dataset.seed", 1)
	}
	if !v.IsSet("dataset.workers") {
		v.SetDefault("dataset.workers", 0)
	}
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "table",
		ConfigDir:    filepath.Join(home, ".config", "sample-organizer"),

		Collection: GetDefaultCollectionConfig(),
		Frames:     GetDefaultFramesConfig(),
		Render:     GetDefaultRenderConfig(),
		Dataset:    GetDefaultDatasetConfig(),
		Output:     GetDefaultOutputConfig(),
	}
}

// GetDefaultCollectionConfig returns default collection settings
func GetDefaultCollectionConfig() CollectionConfig {
	return CollectionConfig{
		Path:       "samples.json",
		Extensions: []string{".wav"},
		LoadMode:   "replace",
	}
}

// GetDefaultFramesConfig returns default framing settings
func GetDefaultFramesConfig() FramesConfig {
	return FramesConfig{
		FFTSize:     1024,
		HopLength:   256,
		Window:      "hamming",
		ChannelMode: ChannelModeMono,
	}
}

// GetDefaultRenderConfig returns default frame image settings
func GetDefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Count:  0,
		Dir:    "frames",
		Format: "jpg",
		Width:  512,
		Height: 256,
	}
}

// GetDefaultDatasetConfig returns default loader settings
func GetDefaultDatasetConfig() DatasetConfig {
	return DatasetConfig{
		SampleRate: 44100,
		FFTSize:    512,
		HopLength:  256,
		Window:     "none",
		BatchSize:  1,
		Shuffle:    true,
		Seed:       1,
	}
}

// GetDefaultOutputConfig returns default output formatting settings
func GetDefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Precision: 3,
		Colors:    true,
	}
}
