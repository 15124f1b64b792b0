package spectral

import (
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T, size, hop int, win WindowType) *Extractor {
	t.Helper()
	e, err := NewExtractor(Config{FFTSize: size, HopLength: hop, Window: win}, nil)
	require.NoError(t, err)
	return e
}

func TestFrameCount(t *testing.T) {
	tests := []struct {
		n, size, hop int
		want         int
	}{
		{1024, 1024, 256, 1},
		{1023, 1024, 256, 0},
		{1024 + 256, 1024, 256, 2},
		{0, 1024, 256, 0},
		{44100, 512, 256, 171},
		{10, 4, 3, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FrameCount(tt.n, tt.size, tt.hop), "n=%d size=%d hop=%d", tt.n, tt.size, tt.hop)
	}
}

func TestComputeFramesBoundaries(t *testing.T) {
	const size, hop = 64, 16
	e := newTestExtractor(t, size, hop, WindowHamming)

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"exactly one window", size, 1},
		{"one sample short", size - 1, 0},
		{"window plus hop", size + hop, 2},
		{"empty", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := e.ComputeFrames([][]float64{make([]float64, tt.n)})
			assert.Len(t, frames, tt.want)
		})
	}
}

func TestComputeFramesShape(t *testing.T) {
	e := newTestExtractor(t, 32, 8, WindowHann)
	left := make([]float64, 100)
	right := make([]float64, 90)

	frames := e.ComputeFrames([][]float64{left, right})

	require.Len(t, frames, FrameCount(90, 32, 8))
	for _, f := range frames {
		require.Len(t, f, 2)
		assert.Len(t, f[0], 32)
		assert.Len(t, f[1], 32)
	}
}

func TestMagnitudesAreNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	signal := make([]float64, 2000)
	for i := range signal {
		signal[i] = rng.Float64()*2 - 1
	}

	for _, win := range []WindowType{WindowNone, WindowHann, WindowHamming, WindowBlackman, WindowBartlett, WindowFlatTop} {
		e := newTestExtractor(t, 128, 50, win)
		for _, frame := range e.ComputeFrames([][]float64{signal}) {
			for _, ch := range frame {
				for _, v := range ch {
					require.GreaterOrEqual(t, v, 0.0, "window %s", win)
				}
			}
		}
	}
}

func TestSinePeaksAtItsBin(t *testing.T) {
	const size, sampleRate = 256, 8000
	const bin = 16
	freq := float64(bin) * sampleRate / size

	signal := make([]float64, size*4)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	e := newTestExtractor(t, size, size/2, WindowNone)
	frames := e.ComputeFrames([][]float64{signal})
	require.NotEmpty(t, frames)

	mags := frames[0][0]
	feats := ExtractFeatures(mags, sampleRate)
	assert.InDelta(t, freq, feats.PeakHz, 1e-9)
	assert.InDelta(t, float64(size)/2, feats.PeakMag, 1e-6)

	// full spectrum is symmetric for a real input
	assert.InDelta(t, mags[bin], mags[size-bin], 1e-6)
}

func TestWindowIsApplied(t *testing.T) {
	signal := make([]float64, 64)
	for i := range signal {
		signal[i] = 1
	}

	plain := newTestExtractor(t, 64, 64, WindowNone).ComputeFrames([][]float64{signal})
	hann := newTestExtractor(t, 64, 64, WindowHann).ComputeFrames([][]float64{signal})

	// DC bin equals the sum of the (windowed) samples
	assert.InDelta(t, 64.0, plain[0][0][0], 1e-9)
	assert.Less(t, hann[0][0][0], plain[0][0][0])
	assert.Equal(t, 1.0, signal[0], "input must not be modified")
}

func TestNewExtractorValidation(t *testing.T) {
	_, err := NewExtractor(Config{FFTSize: 0, HopLength: 1}, nil)
	assert.Error(t, err)

	_, err = NewExtractor(Config{FFTSize: 16, HopLength: 0}, nil)
	assert.Error(t, err)

	_, err = NewExtractor(Config{FFTSize: 16, HopLength: 4, Window: "kaiser"}, nil)
	assert.Error(t, err)
}

func TestParseWindowType(t *testing.T) {
	for in, want := range map[string]WindowType{
		"":            WindowNone,
		"rectangular": WindowNone,
		"Hamming":     WindowHamming,
		" hann ":      WindowHann,
		"flattop":     WindowFlatTop,
	} {
		got, err := ParseWindowType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	assert.Equal(t, []string{"none", "bartlett", "blackman", "flattop", "hamming", "hann"}, WindowNames())
}

func TestExtractFeaturesSilence(t *testing.T) {
	feats := ExtractFeatures(make([]float64, 64), 44100)
	assert.Zero(t, feats.Centroid)
	assert.Zero(t, feats.Rolloff)
	assert.Zero(t, feats.Energy)
	assert.Zero(t, feats.Flatness)
}

func TestFeaturesOfKnownSpectrum(t *testing.T) {
	// 8-point spectrum, one-sided bins 0..4 at 0, 100, 200, 300, 400 Hz
	mags := []float64{0, 1, 0, 1, 0, 1, 0, 1}
	feats := ExtractFeatures(mags, 800)

	assert.InDelta(t, 200.0, feats.Centroid, 1e-9)
	assert.InDelta(t, 100.0, feats.Bandwidth, 1e-9)
	assert.InDelta(t, 100.0, feats.PeakHz, 1e-9)
	assert.InDelta(t, 2.0, feats.Energy, 1e-9)
	assert.InDelta(t, math.Sqrt(2.5), feats.Crest, 1e-9)
	assert.InDelta(t, 300.0, feats.Rolloff, 1e-9)
}

func TestFlux(t *testing.T) {
	prev := []float64{1, 1, 1, 1}
	cur := []float64{1, 4, 0, 4}

	// one-sided: bins 0..2, increase only at bin 1
	assert.InDelta(t, 3.0, Flux(prev, cur), 1e-9)
	assert.Zero(t, Flux(cur, cur))
}

func TestRenderImages(t *testing.T) {
	e := newTestExtractor(t, 64, 32, WindowHann)
	signal := make([]float64, 64*4)
	for i := range signal {
		signal[i] = math.Sin(float64(i) / 3)
	}
	frames := e.ComputeFrames([][]float64{signal, signal})
	require.Len(t, frames, 7)

	dir := filepath.Join(t.TempDir(), "debug", "frames")
	paths, err := RenderImages(frames, 3, dir, RenderOptions{Format: "png", Width: 40, ChannelHeight: 20})
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "fft_frame_0.png"), paths[0])

	f, err := os.Open(paths[2])
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestRenderImagesCountExceedsFrames(t *testing.T) {
	e := newTestExtractor(t, 16, 16, WindowNone)
	frames := e.ComputeFrames([][]float64{make([]float64, 32)})

	paths, err := RenderImages(frames, 20, t.TempDir(), RenderOptions{Format: "jpeg"})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	assert.Equal(t, ".jpg", filepath.Ext(paths[0]))
}

func TestRenderImagesRejectsUnknownFormat(t *testing.T) {
	_, err := RenderImages(nil, 1, t.TempDir(), RenderOptions{Format: "gif"})
	assert.Error(t, err)
}
