package dataset

import (
	"fmt"

	"github.com/RyanBlaney/sample-organizer/pkg/audio"
	"github.com/RyanBlaney/sample-organizer/pkg/audio/spectral"
	"github.com/RyanBlaney/sample-organizer/pkg/logging"
)

const (
	DefaultSampleRate = 44100
	DefaultFFTSize    = 512
	DefaultHopLength  = 256
)

// Item is the frame stack of one file, indexed [frame][channel][bin]
type Item struct {
	Path       string           `json:"path"`
	SampleRate int              `json:"sample_rate"`
	Frames     []spectral.Frame `json:"-"`
}

// Shape returns [frames, channels, bins]
func (it *Item) Shape() []int {
	if len(it.Frames) == 0 {
		return []int{0, 2, 0}
	}
	return []int{len(it.Frames), len(it.Frames[0]), len(it.Frames[0][0])}
}

// Dataset turns a list of audio files into per-file stereo frame stacks at a
// fixed sample rate
type Dataset struct {
	Files      []string
	SampleRate int
	FFTSize    int
	HopLength  int
	Window     spectral.WindowType

	extractor *spectral.Extractor
	logger    logging.Logger
}

// New validates the framing parameters. Zero values fall back to 44100 Hz,
// 512-point windows and a 256-sample hop.
func New(files []string, sampleRate, fftSize, hopLength int, window spectral.WindowType, logger logging.Logger) (*Dataset, error) {
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}
	if fftSize == 0 {
		fftSize = DefaultFFTSize
	}
	if hopLength == 0 {
		hopLength = DefaultHopLength
	}
	if sampleRate < 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	extractor, err := spectral.NewExtractor(spectral.Config{
		FFTSize:   fftSize,
		HopLength: hopLength,
		Window:    window,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset framing: %w", err)
	}

	return &Dataset{
		Files:      append([]string(nil), files...),
		SampleRate: sampleRate,
		FFTSize:    fftSize,
		HopLength:  hopLength,
		Window:     extractor.Config().Window,
		extractor:  extractor,
		logger:     logger.WithFields(logging.Fields{"component": "dataset"}),
	}, nil
}

// Len returns the number of files
func (d *Dataset) Len() int {
	return len(d.Files)
}

// Item decodes file i, resamples it to the dataset rate, stacks it to two
// channels and computes its frames
func (d *Dataset) Item(i int) (*Item, error) {
	if i < 0 || i >= len(d.Files) {
		return nil, fmt.Errorf("item index %d out of range [0, %d)", i, len(d.Files))
	}
	path := d.Files[i]

	wf, err := audio.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	native := wf.SampleRate
	if native != d.SampleRate {
		wf = wf.Resample(d.SampleRate)
	}
	wf = wf.ToStereo()

	frames := d.extractor.ComputeFrames(wf.Channels)

	d.logger.Debug("Item loaded", logging.Fields{
		"path":        path,
		"native_rate": native,
		"samples":     wf.Len(),
		"frames":      len(frames),
	})

	return &Item{Path: path, SampleRate: d.SampleRate, Frames: frames}, nil
}
