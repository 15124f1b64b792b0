package audio

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Waveform holds decoded PCM audio, one slice per channel, normalized to [-1, 1]
type Waveform struct {
	SampleRate int         `json:"sample_rate"`
	Channels   [][]float64 `json:"-"`
}

// NumChannels returns the channel count
func (w *Waveform) NumChannels() int {
	return len(w.Channels)
}

// Len returns the number of samples per channel
func (w *Waveform) Len() int {
	if len(w.Channels) == 0 {
		return 0
	}
	return len(w.Channels[0])
}

// Duration returns the playback length
func (w *Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(w.Len()) / float64(w.SampleRate) * float64(time.Second))
}

// DecodeFile opens and decodes a WAV file
func DecodeFile(path string) (*Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewAudioError(path, ErrCodeOpen, "failed to open audio file", err)
	}
	defer f.Close()

	w, err := Decode(f)
	if err != nil {
		if ae, ok := err.(*AudioError); ok {
			ae.Path = path
		}
		return nil, err
	}
	return w, nil
}

// WAV fmt chunk audio format tags
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// Decode reads PCM WAV data from r
func Decode(r io.ReadSeeker) (*Waveform, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, NewAudioError("", ErrCodeInvalidFormat, "not a valid WAV file", decoder.Err())
	}
	// Only integer PCM is decoded; IEEE float (3) and compressed formats are not
	if decoder.WavAudioFormat != wavFormatPCM && decoder.WavAudioFormat != wavFormatExtensible {
		return nil, NewAudioError("", ErrCodeUnsupported,
			fmt.Sprintf("unsupported WAV audio format %d (want integer PCM)", decoder.WavAudioFormat), nil)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, NewAudioError("", ErrCodeDecoding, "failed to read PCM data", err)
	}

	numChannels := int(decoder.NumChans)
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		numChannels = buf.Format.NumChannels
	}
	if numChannels <= 0 {
		return nil, NewAudioError("", ErrCodeInvalidFormat, "WAV file declares no channels", nil)
	}

	bitDepth := int(decoder.BitDepth)
	if buf.SourceBitDepth > 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, NewAudioError("", ErrCodeUnsupported, fmt.Sprintf("unsupported bit depth %d", bitDepth), nil)
	}

	return &Waveform{
		SampleRate: int(decoder.SampleRate),
		Channels:   deinterleave(buf.Data, numChannels, bitDepth),
	}, nil
}

// deinterleave splits interleaved integer PCM into normalized channels.
// 8-bit WAV is unsigned; wider depths are signed.
func deinterleave(data []int, numChannels, bitDepth int) [][]float64 {
	frames := len(data) / numChannels
	channels := make([][]float64, numChannels)
	for c := range channels {
		channels[c] = make([]float64, frames)
	}

	scale := math.Ldexp(1, bitDepth-1)
	offset := 0.0
	if bitDepth == 8 {
		offset = 128
	}

	for i := 0; i < frames; i++ {
		for c := 0; c < numChannels; c++ {
			channels[c][i] = (float64(data[i*numChannels+c]) - offset) / scale
		}
	}
	return channels
}

// Encode writes w as PCM WAV with the given bit depth
func Encode(out io.WriteSeeker, w *Waveform, bitDepth int) error {
	if w.NumChannels() == 0 {
		return NewAudioError("", ErrCodeEncoding, "waveform has no channels", nil)
	}
	if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return NewAudioError("", ErrCodeUnsupported, fmt.Sprintf("unsupported bit depth %d", bitDepth), nil)
	}

	numChannels := w.NumChannels()
	frames := w.Len()
	scale := math.Ldexp(1, bitDepth-1)
	maxVal := scale - 1
	offset := 0.0
	if bitDepth == 8 {
		offset = 128
	}

	data := make([]int, frames*numChannels)
	for i := 0; i < frames; i++ {
		for c := 0; c < numChannels; c++ {
			v := w.Channels[c][i] * scale
			v = math.Max(-scale, math.Min(maxVal, math.Round(v)))
			data[i*numChannels+c] = int(v + offset)
		}
	}

	enc := wav.NewEncoder(out, w.SampleRate, bitDepth, numChannels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: numChannels,
			SampleRate:  w.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return NewAudioError("", ErrCodeEncoding, "failed to write PCM data", err)
	}
	if err := enc.Close(); err != nil {
		return NewAudioError("", ErrCodeEncoding, "failed to finalize WAV file", err)
	}
	return nil
}

// EncodeFile writes w to path as PCM WAV
func EncodeFile(path string, w *Waveform, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return NewAudioError(path, ErrCodeOpen, "failed to create audio file", err)
	}
	if err := Encode(f, w, bitDepth); err != nil {
		f.Close()
		if ae, ok := err.(*AudioError); ok {
			ae.Path = path
		}
		return err
	}
	return f.Close()
}
