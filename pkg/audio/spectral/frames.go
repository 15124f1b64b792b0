package spectral

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/sample-organizer/pkg/logging"
)

// Frame is the magnitude spectrum of one windowed slice, indexed [channel][bin]
type Frame [][]float64

// Config holds the framing parameters
type Config struct {
	FFTSize   int        `json:"fft_size"`
	HopLength int        `json:"hop_length"`
	Window    WindowType `json:"window"`
}

// Extractor slices waveforms into overlapping windows and computes the
// magnitude of each window's DFT
type Extractor struct {
	fftSize   int
	hopLength int
	window    WindowType
	coeffs    []float64
	logger    logging.Logger
}

// NewExtractor validates cfg and precomputes the window
func NewExtractor(cfg Config, logger logging.Logger) (*Extractor, error) {
	if cfg.FFTSize <= 0 {
		return nil, fmt.Errorf("fft size must be positive, got %d", cfg.FFTSize)
	}
	if cfg.HopLength <= 0 {
		return nil, fmt.Errorf("hop length must be positive, got %d", cfg.HopLength)
	}
	win, err := ParseWindowType(string(cfg.Window))
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Extractor{
		fftSize:   cfg.FFTSize,
		hopLength: cfg.HopLength,
		window:    win,
		coeffs:    win.Coefficients(cfg.FFTSize),
		logger: logger.WithFields(logging.Fields{
			"component":  "frame_extractor",
			"fft_size":   cfg.FFTSize,
			"hop_length": cfg.HopLength,
			"window":     string(win),
		}),
	}, nil
}

// Config returns the extractor parameters
func (e *Extractor) Config() Config {
	return Config{FFTSize: e.fftSize, HopLength: e.hopLength, Window: e.window}
}

// FrameCount returns how many full windows of size fit in n samples at the
// given hop: floor((n - size) / hop) + 1, or 0 when n < size.
func FrameCount(n, size, hop int) int {
	if size <= 0 || hop <= 0 || n < size {
		return 0
	}
	return (n-size)/hop + 1
}

// ComputeFrames returns one frame per valid window start across all channels.
// Channels of unequal length are framed up to the shortest one.
func (e *Extractor) ComputeFrames(channels [][]float64) []Frame {
	if len(channels) == 0 {
		return nil
	}

	n := len(channels[0])
	for _, ch := range channels[1:] {
		n = min(n, len(ch))
	}

	count := FrameCount(n, e.fftSize, e.hopLength)
	frames := make([]Frame, 0, count)

	slice := make([]float64, e.fftSize)
	for i := 0; i < count; i++ {
		start := i * e.hopLength
		frame := make(Frame, len(channels))
		for c, ch := range channels {
			copy(slice, ch[start:start+e.fftSize])
			frame[c] = e.magnitude(slice)
		}
		frames = append(frames, frame)
	}

	e.logger.Debug("Frames computed", logging.Fields{
		"samples":  n,
		"channels": len(channels),
		"frames":   count,
	})

	return frames
}

// magnitude applies the window in place and returns |FFT(x)| for every bin
func (e *Extractor) magnitude(x []float64) []float64 {
	if e.coeffs != nil {
		for i := range x {
			x[i] *= e.coeffs[i]
		}
	}

	spectrum := fft.FFTReal(x)
	mags := make([]float64, len(spectrum))
	for i, v := range spectrum {
		mags[i] = cmplx.Abs(v)
	}
	return mags
}
