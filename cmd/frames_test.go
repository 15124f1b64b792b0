package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sample-organizer/configs"
)

func TestMergeFramesFlags(t *testing.T) {
	hop, window, render := framesHop, framesWindow, framesRender
	t.Cleanup(func() { framesHop, framesWindow, framesRender = hop, window, render })

	cmd := &cobra.Command{Use: "frames"}
	cmd.Flags().IntVar(&framesHop, "hop", 0, "")
	cmd.Flags().StringVar(&framesWindow, "window", "", "")
	cmd.Flags().IntVar(&framesRender, "render", -1, "")
	require.NoError(t, cmd.Flags().Set("hop", "128"))
	require.NoError(t, cmd.Flags().Set("window", "hann"))

	cfg := mergeFramesFlags(cmd, configs.GetDefaultConfig())

	assert.Equal(t, 128, cfg.Frames.HopLength)
	assert.Equal(t, "hann", cfg.Frames.Window)
	assert.Equal(t, configs.GetDefaultFramesConfig().FFTSize, cfg.Frames.FFTSize)
	assert.Equal(t, configs.GetDefaultRenderConfig().Count, cfg.Render.Count)
	assert.NoError(t, configs.ValidateConfig(cfg))
}

func TestFramesCommandFlags(t *testing.T) {
	for _, name := range []string{"label", "index", "fft-size", "hop", "window", "channels", "sample-rate", "render", "out", "format", "limit"} {
		assert.NotNil(t, framesCmd.Flags().Lookup(name), name)
	}
}
