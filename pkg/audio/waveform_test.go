package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	src := &Waveform{
		SampleRate: 22050,
		Channels: [][]float64{
			sine(440, 22050, 2048),
			sine(880, 22050, 2048),
		},
	}

	require.NoError(t, EncodeFile(path, src, 16))

	got, err := DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 22050, got.SampleRate)
	require.Equal(t, 2, got.NumChannels())
	require.Equal(t, 2048, got.Len())

	for c := range src.Channels {
		for i := range src.Channels[c] {
			assert.InDelta(t, src.Channels[c][i], got.Channels[c][i], 1.0/16384)
		}
	}
}

func TestDecodeFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := DecodeFile(filepath.Join(dir, "missing.wav"))
	var ae *AudioError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, ErrCodeOpen, ae.Code)

	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("definitely not riff data"), 0o644))

	_, err = DecodeFile(junk)
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, ErrCodeInvalidFormat, ae.Code)
	assert.Equal(t, junk, ae.Path)
}

// floatWAV builds a mono 32-bit IEEE float WAV file
func floatWAV(samples ...float32) []byte {
	var data bytes.Buffer
	for _, v := range samples {
		binary.Write(&data, binary.LittleEndian, v)
	}

	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+data.Len()))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(3)) // IEEE float
	binary.Write(&b, binary.LittleEndian, uint16(1))
	binary.Write(&b, binary.LittleEndian, uint32(8000))
	binary.Write(&b, binary.LittleEndian, uint32(8000*4))
	binary.Write(&b, binary.LittleEndian, uint16(4))
	binary.Write(&b, binary.LittleEndian, uint16(32))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(data.Len()))
	b.Write(data.Bytes())
	return b.Bytes()
}

func TestDecodeRejectsFloatWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "float.wav")
	require.NoError(t, os.WriteFile(path, floatWAV(0, 0.5, -0.5, 1), 0o644))

	_, err := DecodeFile(path)
	var ae *AudioError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, ErrCodeUnsupported, ae.Code)
	assert.Equal(t, path, ae.Path)
}

func TestDuration(t *testing.T) {
	w := &Waveform{SampleRate: 1000, Channels: [][]float64{make([]float64, 1500)}}
	assert.Equal(t, 1500*1000*1000, int(w.Duration()))
}

func TestToMono(t *testing.T) {
	w := &Waveform{SampleRate: 8000, Channels: [][]float64{{1, 0, -1}, {0, 0, 1}}}
	mono := w.ToMono()

	require.Equal(t, 1, mono.NumChannels())
	assert.Equal(t, []float64{0.5, 0, 0}, mono.Channels[0])
	assert.Equal(t, []float64{1, 0, -1}, w.Channels[0], "source must not change")
}

func TestToStereo(t *testing.T) {
	mono := &Waveform{SampleRate: 8000, Channels: [][]float64{{0.1, 0.2}}}
	stereo := mono.ToStereo()
	require.Equal(t, 2, stereo.NumChannels())
	assert.Equal(t, stereo.Channels[0], stereo.Channels[1])

	stereo.Channels[1][0] = 9
	assert.Equal(t, 0.1, stereo.Channels[0][0], "duplicated channels must not alias")

	surround := &Waveform{SampleRate: 8000, Channels: [][]float64{{1}, {2}, {3}}}
	assert.Equal(t, [][]float64{{1}, {2}}, surround.ToStereo().Channels)
}

func TestResample(t *testing.T) {
	tests := []struct {
		name    string
		in      []float64
		from    int
		to      int
		wantLen int
	}{
		{"same rate", []float64{1, 2, 3}, 100, 100, 3},
		{"downsample by two", make([]float64, 100), 200, 100, 50},
		{"upsample by two", make([]float64, 100), 100, 200, 200},
		{"44.1k to 48k", make([]float64, 44100), 44100, 48000, 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resample(tt.in, tt.from, tt.to)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestResampleInterpolates(t *testing.T) {
	got := Resample([]float64{0, 1, 2, 3}, 1, 2)
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3}, got)
}

func TestWaveformResampleKeepsChannels(t *testing.T) {
	w := &Waveform{SampleRate: 16000, Channels: [][]float64{make([]float64, 1600), make([]float64, 1600)}}
	r := w.Resample(44100)

	assert.Equal(t, 44100, r.SampleRate)
	assert.Equal(t, 2, r.NumChannels())
	assert.Equal(t, 4410, r.Len())
}
