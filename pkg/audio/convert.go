package audio

import "math"

// ToMono averages all channels into one
func (w *Waveform) ToMono() *Waveform {
	n := w.NumChannels()
	if n <= 1 {
		return w.clone()
	}

	mono := make([]float64, w.Len())
	for _, ch := range w.Channels {
		for i, v := range ch {
			mono[i] += v
		}
	}
	for i := range mono {
		mono[i] /= float64(n)
	}

	return &Waveform{SampleRate: w.SampleRate, Channels: [][]float64{mono}}
}

// ToStereo returns a two-channel waveform: a single channel is duplicated,
// extra channels beyond the first two are dropped.
func (w *Waveform) ToStereo() *Waveform {
	switch w.NumChannels() {
	case 0:
		return &Waveform{SampleRate: w.SampleRate, Channels: [][]float64{{}, {}}}
	case 1:
		left := append([]float64(nil), w.Channels[0]...)
		right := append([]float64(nil), w.Channels[0]...)
		return &Waveform{SampleRate: w.SampleRate, Channels: [][]float64{left, right}}
	default:
		return &Waveform{
			SampleRate: w.SampleRate,
			Channels: [][]float64{
				append([]float64(nil), w.Channels[0]...),
				append([]float64(nil), w.Channels[1]...),
			},
		}
	}
}

// Resample converts every channel to targetRate. A waveform already at
// targetRate is returned as a copy.
func (w *Waveform) Resample(targetRate int) *Waveform {
	if targetRate <= 0 || w.SampleRate <= 0 || targetRate == w.SampleRate {
		return w.clone()
	}

	out := &Waveform{SampleRate: targetRate, Channels: make([][]float64, len(w.Channels))}
	for c, ch := range w.Channels {
		out.Channels[c] = Resample(ch, w.SampleRate, targetRate)
	}
	return out
}

// Resample converts samples from one rate to another by linear interpolation
func Resample(samples []float64, fromRate, toRate int) []float64 {
	if fromRate <= 0 || toRate <= 0 || fromRate == toRate || len(samples) == 0 {
		return append([]float64(nil), samples...)
	}

	ratio := float64(fromRate) / float64(toRate)
	outLen := int(math.Floor(float64(len(samples)) * float64(toRate) / float64(fromRate)))
	if outLen < 1 {
		outLen = 1
	}

	out := make([]float64, outLen)
	last := len(samples) - 1
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= last {
			out[i] = samples[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return out
}

func (w *Waveform) clone() *Waveform {
	channels := make([][]float64, len(w.Channels))
	for i, ch := range w.Channels {
		channels[i] = append([]float64(nil), ch...)
	}
	return &Waveform{SampleRate: w.SampleRate, Channels: channels}
}
