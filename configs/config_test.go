package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(viper.New())
	require.NoError(t, err)

	want := GetDefaultConfig()
	assert.Equal(t, want.Collection, cfg.Collection)
	assert.Equal(t, want.Frames, cfg.Frames)
	assert.Equal(t, want.Render, cfg.Render)
	assert.Equal(t, want.Dataset, cfg.Dataset)
	assert.Equal(t, want.Output, cfg.Output)
	assert.Equal(t, "table", cfg.OutputFormat)

	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample-organizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
collection:
  path: /tmp/drums.json
  extensions: [".wav", ".aiff"]
  load_mode: merge
frames:
  fft_size: 2048
  window: hann
dataset:
  batch_size: 8
  shuffle: false
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadConfigFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/drums.json", cfg.Collection.Path)
	assert.Equal(t, []string{".wav", ".aiff"}, cfg.Collection.Extensions)
	assert.Equal(t, "merge", cfg.Collection.LoadMode)
	assert.Equal(t, 2048, cfg.Frames.FFTSize)
	assert.Equal(t, 256, cfg.Frames.HopLength)
	assert.Equal(t, "hann", cfg.Frames.Window)
	assert.Equal(t, 8, cfg.Dataset.BatchSize)
	assert.False(t, cfg.Dataset.Shuffle)
	assert.Equal(t, 44100, cfg.Dataset.SampleRate)

	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty collection path", func(c *Config) { c.Collection.Path = " " }},
		{"unknown load mode", func(c *Config) { c.Collection.LoadMode = "append" }},
		{"zero fft size", func(c *Config) { c.Frames.FFTSize = 0 }},
		{"zero hop", func(c *Config) { c.Frames.HopLength = 0 }},
		{"unknown window", func(c *Config) { c.Frames.Window = "gauss" }},
		{"unknown channel mode", func(c *Config) { c.Frames.ChannelMode = "surround" }},
		{"negative render count", func(c *Config) { c.Render.Count = -1 }},
		{"unknown image format", func(c *Config) { c.Render.Format = "bmp" }},
		{"zero dataset rate", func(c *Config) { c.Dataset.SampleRate = 0 }},
		{"zero batch size", func(c *Config) { c.Dataset.BatchSize = 0 }},
		{"unknown output format", func(c *Config) { c.OutputFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}
