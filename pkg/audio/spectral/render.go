package spectral

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// RenderOptions controls diagnostic frame images
type RenderOptions struct {
	// Format is "png" or "jpg"
	Format string
	// Width in pixels; bins are max-pooled into columns
	Width int
	// ChannelHeight is the height of each channel's band in pixels
	ChannelHeight int
	// FullSpectrum draws every bin instead of the DC..Nyquist half
	FullSpectrum bool
}

// DefaultRenderOptions returns the options used when none are configured
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Format:        "jpg",
		Width:         512,
		ChannelHeight: 256,
	}
}

var (
	backgroundColor = color.RGBA{R: 12, G: 12, B: 20, A: 255}
	separatorColor  = color.RGBA{R: 60, G: 60, B: 72, A: 255}
)

// RenderImages writes the first count frames (or fewer, if fewer exist) into
// dir as fft_frame_<i>.<format>, creating dir if needed. It returns the paths
// written.
func RenderImages(frames []Frame, count int, dir string, opts RenderOptions) ([]string, error) {
	opts = normalizeRenderOptions(opts)
	if opts.Format != "png" && opts.Format != "jpg" {
		return nil, fmt.Errorf("unsupported image format %q", opts.Format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	n := min(max(count, 0), len(frames))
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("fft_frame_%d.%s", i, opts.Format))
		if err := writeFrameImage(path, frames[i], opts); err != nil {
			return paths, fmt.Errorf("failed to render frame %d: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func normalizeRenderOptions(opts RenderOptions) RenderOptions {
	def := DefaultRenderOptions()
	opts.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(opts.Format)), ".")
	switch opts.Format {
	case "":
		opts.Format = def.Format
	case "jpeg":
		opts.Format = "jpg"
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.ChannelHeight <= 0 {
		opts.ChannelHeight = def.ChannelHeight
	}
	return opts
}

func writeFrameImage(path string, frame Frame, opts RenderOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeFrameImage(f, frame, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeFrameImage draws frame as stacked per-channel magnitude bars and
// encodes it to w
func EncodeFrameImage(w io.Writer, frame Frame, opts RenderOptions) error {
	opts = normalizeRenderOptions(opts)
	img := DrawFrame(frame, opts)

	switch opts.Format {
	case "png":
		return png.Encode(w, img)
	case "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	default:
		return fmt.Errorf("unsupported image format %q", opts.Format)
	}
}

// DrawFrame rasterizes frame. Bar heights are normalized to the frame's peak.
func DrawFrame(frame Frame, opts RenderOptions) *image.RGBA {
	opts = normalizeRenderOptions(opts)
	channels := max(len(frame), 1)
	height := channels * opts.ChannelHeight

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	bands := make([][]float64, len(frame))
	peak := 0.0
	for c, mags := range frame {
		if !opts.FullSpectrum {
			mags = OneSided(mags)
		}
		bands[c] = pool(mags, opts.Width)
		if len(bands[c]) > 0 {
			peak = max(peak, floats.Max(bands[c]))
		}
	}

	for c, cols := range bands {
		top := c * opts.ChannelHeight
		bottom := top + opts.ChannelHeight - 1
		if c > 0 {
			for x := 0; x < opts.Width; x++ {
				img.Set(x, top, separatorColor)
			}
		}
		if peak <= 0 {
			continue
		}
		for x, v := range cols {
			level := v / peak
			barHeight := int(level * float64(opts.ChannelHeight-2))
			col := barColor(level)
			for y := bottom; y > bottom-barHeight; y-- {
				img.Set(x, y, col)
			}
		}
	}

	return img
}

// pool max-pools values into width columns
func pool(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	for x := range out {
		lo := x * len(values) / width
		hi := (x + 1) * len(values) / width
		if hi <= lo {
			hi = lo + 1
		}
		out[x] = floats.Max(values[lo:hi])
	}
	return out
}

// barColor maps a level in [0, 1] onto a blue to yellow ramp
func barColor(level float64) color.RGBA {
	level = min(max(level, 0), 1)
	return color.RGBA{
		R: uint8(40 + 215*level),
		G: uint8(80 + 160*level),
		B: uint8(200 * (1 - level)),
		A: 255,
	}
}
