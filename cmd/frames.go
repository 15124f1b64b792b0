package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sample-organizer/configs"
	"github.com/RyanBlaney/sample-organizer/internal/app"
	"github.com/RyanBlaney/sample-organizer/internal/collection"
	"github.com/RyanBlaney/sample-organizer/pkg/audio"
	"github.com/RyanBlaney/sample-organizer/pkg/audio/spectral"
)

var (
	framesLabel       string
	framesIndex       int
	framesFFTSize     int
	framesHop         int
	framesWindow      string
	framesChannels    string
	framesSampleRate  int
	framesRender      int
	framesRenderDir   string
	framesImageFormat string
	framesLimit       int
)

// framesCmd computes FFT magnitude frames for one audio file
var framesCmd = &cobra.Command{
	Use:   "frames [file]",
	Short: "Compute FFT magnitude frames for an audio file",
	Long: `Slice an audio file into overlapping windows, compute the magnitude of
each window's FFT and report per-frame spectral features.

The file is either given directly or picked from the collection with
--label and --index. By default channels are mixed down to mono; use
--channels stereo to stack a mono file into two channels, or native to keep
the file's own layout.

With --render N the first N frames are also written as images
(fft_frame_<i>.jpg) into --out.

Examples:
  sample-organizer frames ./kick.wav
  sample-organizer frames --label kick --index 0 --render 20 --out test
  sample-organizer frames ./loop.wav --fft-size 2048 --hop 512 --window hann -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFrames,
}

func init() {
	framesCmd.Flags().StringVarP(&framesLabel, "label", "l", "",
		"pick the file from this collection label")
	framesCmd.Flags().IntVarP(&framesIndex, "index", "i", 0,
		"index of the file within the label (sorted order)")
	framesCmd.Flags().IntVar(&framesFFTSize, "fft-size", 0,
		"window and FFT size in samples (default from config)")
	framesCmd.Flags().IntVar(&framesHop, "hop", 0,
		"hop length in samples (default from config)")
	framesCmd.Flags().StringVarP(&framesWindow, "window", "w", "",
		fmt.Sprintf("window function (%s)", strings.Join(spectral.WindowNames(), ", ")))
	framesCmd.Flags().StringVar(&framesChannels, "channels", "",
		"channel handling (mono, stereo, native)")
	framesCmd.Flags().IntVar(&framesSampleRate, "sample-rate", -1,
		"resample to this rate before framing (0 keeps the native rate)")
	framesCmd.Flags().IntVar(&framesRender, "render", -1,
		"write the first N frames as images")
	framesCmd.Flags().StringVar(&framesRenderDir, "out", "",
		"image output directory")
	framesCmd.Flags().StringVar(&framesImageFormat, "format", "",
		"image format (jpg, png)")
	framesCmd.Flags().IntVar(&framesLimit, "limit", 10,
		"number of frames to report features for (0 for all)")

	rootCmd.AddCommand(framesCmd)
}

// frameReport is the full result of a frames run
type frameReport struct {
	File       string           `json:"file"`
	SampleRate int              `json:"sample_rate"`
	NativeRate int              `json:"native_sample_rate"`
	Channels   int              `json:"channels"`
	Samples    int              `json:"samples"`
	Duration   float64          `json:"duration_seconds"`
	FFTSize    int              `json:"fft_size"`
	HopLength  int              `json:"hop_length"`
	Window     string           `json:"window"`
	FrameCount int              `json:"frame_count"`
	Images     []string         `json:"images,omitempty"`
	Frames     []frameRowReport `json:"frames"`
}

// frameRowReport summarizes one channel of one frame
type frameRowReport struct {
	Frame   int     `json:"frame"`
	Channel int     `json:"channel"`
	Flux    float64 `json:"flux"`
	spectral.FrameFeatures
}

func runFrames(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	cfg := mergeFramesFlags(cmd, a.Config())
	if err := configs.ValidateConfig(cfg); err != nil {
		return err
	}

	timer := NewPerformanceTimer()

	path, err := resolveFramesFile(a, args)
	if err != nil {
		return err
	}

	timer.StartEvent("decode")
	wf, err := audio.DecodeFile(path)
	if err != nil {
		return err
	}
	timer.EndEvent("decode")
	nativeRate := wf.SampleRate

	timer.StartEvent("convert")
	if cfg.Frames.SampleRate > 0 && cfg.Frames.SampleRate != wf.SampleRate {
		wf = wf.Resample(cfg.Frames.SampleRate)
	}
	switch cfg.Frames.ChannelMode {
	case configs.ChannelModeMono:
		wf = wf.ToMono()
	case configs.ChannelModeStereo:
		wf = wf.ToStereo()
	}
	timer.EndEvent("convert")

	extractor, err := spectral.NewExtractor(spectral.Config{
		FFTSize:   cfg.Frames.FFTSize,
		HopLength: cfg.Frames.HopLength,
		Window:    spectral.WindowType(cfg.Frames.Window),
	}, a.Logger())
	if err != nil {
		return err
	}

	timer.StartEvent("fft")
	frames := extractor.ComputeFrames(wf.Channels)
	timer.EndEvent("fft")

	report := frameReport{
		File:       path,
		SampleRate: wf.SampleRate,
		NativeRate: nativeRate,
		Channels:   wf.NumChannels(),
		Samples:    wf.Len(),
		Duration:   wf.Duration().Seconds(),
		FFTSize:    cfg.Frames.FFTSize,
		HopLength:  cfg.Frames.HopLength,
		Window:     string(extractor.Config().Window),
		FrameCount: len(frames),
	}

	limit := len(frames)
	if framesLimit > 0 {
		limit = min(limit, framesLimit)
	}
	for i, frame := range frames[:limit] {
		for c, mags := range frame {
			row := frameRowReport{
				Frame:         i,
				Channel:       c,
				FrameFeatures: spectral.ExtractFeatures(mags, wf.SampleRate),
			}
			if i > 0 {
				row.Flux = spectral.Flux(frames[i-1][c], mags)
			}
			report.Frames = append(report.Frames, row)
		}
	}

	if cfg.Render.Count > 0 {
		timer.StartEvent("render")
		report.Images, err = spectral.RenderImages(frames, cfg.Render.Count, cfg.Render.Dir, spectral.RenderOptions{
			Format:        cfg.Render.Format,
			Width:         cfg.Render.Width,
			ChannelHeight: cfg.Render.Height,
		})
		timer.EndEvent("render")
		if err != nil {
			return err
		}
	}

	if cfg.OutputFormat != "table" {
		return a.Output(report)
	}

	printFramesSummary(&report)
	if len(report.Frames) > 0 {
		printSection("FRAME FEATURES")
		if err := a.Output(report.Frames); err != nil {
			return err
		}
	}
	if len(report.Images) > 0 {
		fmt.Println()
		printSuccess("Wrote %d image(s) to %s", len(report.Images), cfg.Render.Dir)
	}
	if verbose {
		fmt.Println()
		printTimings(timer, "decode", "convert", "fft", "render")
	}
	return nil
}

// mergeFramesFlags applies explicitly set frames flags over the config
func mergeFramesFlags(cmd *cobra.Command, cfg *configs.Config) *configs.Config {
	flags := cmd.Flags()
	if flags.Changed("fft-size") {
		cfg.Frames.FFTSize = framesFFTSize
	}
	if flags.Changed("hop") {
		cfg.Frames.HopLength = framesHop
	}
	if flags.Changed("window") {
		cfg.Frames.Window = framesWindow
	}
	if flags.Changed("channels") {
		cfg.Frames.ChannelMode = strings.ToLower(framesChannels)
	}
	if flags.Changed("sample-rate") {
		cfg.Frames.SampleRate = framesSampleRate
	}
	if flags.Changed("render") {
		cfg.Render.Count = framesRender
	}
	if flags.Changed("out") {
		cfg.Render.Dir = framesRenderDir
	}
	if flags.Changed("format") {
		cfg.Render.Format = framesImageFormat
	}
	return cfg
}

// resolveFramesFile returns the positional file or the --label/--index pick
func resolveFramesFile(a *app.App, args []string) (string, error) {
	if len(args) == 1 {
		if framesLabel != "" {
			return "", fmt.Errorf("give either a file or --label, not both")
		}
		return args[0], nil
	}

	store, err := a.OpenStore()
	if err != nil {
		return "", err
	}

	label := framesLabel
	if label == "" {
		first, ok := store.FirstLabel()
		if !ok {
			return "", fmt.Errorf("no file given and %s has no labels", a.CollectionPath())
		}
		label = first
	}

	files, ok := store.Files(label)
	if !ok {
		return "", collection.NewError("frames", collection.ErrCodeUnknownLabel,
			fmt.Sprintf("label %q not found in %s", label, a.CollectionPath()), nil)
	}
	if framesIndex < 0 || framesIndex >= len(files) {
		return "", fmt.Errorf("index %d out of range: label %q has %d file(s)", framesIndex, label, len(files))
	}
	return files[framesIndex], nil
}

func printFramesSummary(r *frameReport) {
	printHeader("Spectral Frames", r.File)

	printSection("AUDIO")
	printKeyValue("Sample Rate", fmt.Sprintf("%d Hz", r.SampleRate))
	if r.NativeRate != r.SampleRate {
		printKeyValue("Native Sample Rate", fmt.Sprintf("%d Hz", r.NativeRate))
	}
	printKeyValue("Channels", fmt.Sprintf("%d", r.Channels))
	printKeyValue("Samples", fmt.Sprintf("%d", r.Samples))
	printKeyValue("Duration", fmt.Sprintf("%.3fs", r.Duration))

	printSection("FRAMING")
	printKeyValue("FFT Size", fmt.Sprintf("%d", r.FFTSize))
	printKeyValue("Hop Length", fmt.Sprintf("%d", r.HopLength))
	printKeyValue("Window", r.Window)
	printKeyValue("Frames", fmt.Sprintf("%d", r.FrameCount))

	if r.FrameCount == 0 {
		fmt.Println()
		printWarning("File is shorter than one window; no frames computed")
	}
}
