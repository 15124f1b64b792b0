package configs

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/sample-organizer/internal/collection"
	"github.com/RyanBlaney/sample-organizer/pkg/audio/spectral"
	"github.com/RyanBlaney/sample-organizer/pkg/output"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`
	ConfigDir    string `mapstructure:"config_dir"`

	// Collection store settings
	Collection CollectionConfig `mapstructure:"collection"`

	// Frame extraction settings
	Frames FramesConfig `mapstructure:"frames"`

	// Diagnostic image settings
	Render RenderConfig `mapstructure:"render"`

	// Dataset loader settings
	Dataset DatasetConfig `mapstructure:"dataset"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`
}

// CollectionConfig locates the collection file and controls scanning
type CollectionConfig struct {
	Path       string   `mapstructure:"path"`
	Extensions []string `mapstructure:"extensions"`
	LoadMode   string   `mapstructure:"load_mode"`
}

// FramesConfig contains spectral framing settings for the frames command
type FramesConfig struct {
	FFTSize     int    `mapstructure:"fft_size"`
	HopLength   int    `mapstructure:"hop_length"`
	Window      string `mapstructure:"window"`
	ChannelMode string `mapstructure:"channel_mode"`
	// SampleRate of 0 keeps each file's native rate
	SampleRate int `mapstructure:"sample_rate"`
}

// RenderConfig contains frame image settings
type RenderConfig struct {
	Count  int    `mapstructure:"count"`
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// DatasetConfig contains resample-and-stack loader settings
type DatasetConfig struct {
	SampleRate int    `mapstructure:"sample_rate"`
	FFTSize    int    `mapstructure:"fft_size"`
	HopLength  int    `mapstructure:"hop_length"`
	Window     string `mapstructure:"window"`
	BatchSize  int    `mapstructure:"batch_size"`
	Shuffle    bool   `mapstructure:"shuffle"`
	Seed       int64  `mapstructure:"seed"`
	Workers    int    `mapstructure:"workers"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Precision int  `mapstructure:"precision"`
	Colors    bool `mapstructure:"colors"`
}

// Channel modes accepted by frames.channel_mode
const (
	ChannelModeMono   = "mono"
	ChannelModeStereo = "stereo"
	ChannelModeNative = "native"
)

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom fills unset keys with defaults and decodes v
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if strings.TrimSpace(config.Collection.Path) == "" {
		return fmt.Errorf("collection path must not be empty")
	}

	if _, err := collection.ParseLoadMode(config.Collection.LoadMode); err != nil {
		return err
	}

	if config.Frames.FFTSize <= 0 {
		return fmt.Errorf("frames fft size must be positive")
	}

	if config.Frames.HopLength <= 0 {
		return fmt.Errorf("frames hop length must be positive")
	}

	if config.Frames.SampleRate < 0 {
		return fmt.Errorf("frames sample rate cannot be negative")
	}

	if _, err := spectral.ParseWindowType(config.Frames.Window); err != nil {
		return fmt.Errorf("frames: %w", err)
	}

	switch config.Frames.ChannelMode {
	case ChannelModeMono, ChannelModeStereo, ChannelModeNative:
	default:
		return fmt.Errorf("frames channel mode must be mono, stereo or native, got %q", config.Frames.ChannelMode)
	}

	if config.Render.Count < 0 {
		return fmt.Errorf("render count cannot be negative")
	}

	switch strings.ToLower(config.Render.Format) {
	case "png", "jpg", "jpeg":
	default:
		return fmt.Errorf("render format must be png or jpg, got %q", config.Render.Format)
	}

	if config.Dataset.SampleRate <= 0 {
		return fmt.Errorf("dataset sample rate must be positive")
	}

	if config.Dataset.FFTSize <= 0 || config.Dataset.HopLength <= 0 {
		return fmt.Errorf("dataset fft size and hop length must be positive")
	}

	if _, err := spectral.ParseWindowType(config.Dataset.Window); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}

	if config.Dataset.BatchSize <= 0 {
		return fmt.Errorf("dataset batch size must be positive")
	}

	if config.Dataset.Workers < 0 {
		return fmt.Errorf("dataset workers cannot be negative")
	}

	if _, err := output.NewFormatter(config.OutputFormat, config.Output.Precision); err != nil {
		return err
	}

	return nil
}
