package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FrameFeatures summarizes one channel of a frame
type FrameFeatures struct {
	Centroid  float64 `json:"centroid_hz"`
	Bandwidth float64 `json:"bandwidth_hz"`
	Rolloff   float64 `json:"rolloff_hz"`
	Flatness  float64 `json:"flatness"`
	Crest     float64 `json:"crest"`
	Energy    float64 `json:"energy"`
	PeakHz    float64 `json:"peak_hz"`
	PeakMag   float64 `json:"peak_magnitude"`
}

// OneSided returns the non-redundant half of a real signal's spectrum (DC to Nyquist)
func OneSided(mags []float64) []float64 {
	if len(mags) == 0 {
		return nil
	}
	return mags[:len(mags)/2+1]
}

// BinFrequencies returns the center frequency of each one-sided bin for an FFT of size n
func BinFrequencies(n, sampleRate int) []float64 {
	if n <= 0 {
		return nil
	}
	freqs := make([]float64, n/2+1)
	for k := range freqs {
		freqs[k] = float64(k) * float64(sampleRate) / float64(n)
	}
	return freqs
}

// ExtractFeatures computes summary features from a full magnitude spectrum
func ExtractFeatures(mags []float64, sampleRate int) FrameFeatures {
	var f FrameFeatures

	half := OneSided(mags)
	if len(half) == 0 {
		return f
	}
	freqs := BinFrequencies(len(mags), sampleRate)

	peak := floats.MaxIdx(half)
	f.PeakHz = freqs[peak]
	f.PeakMag = half[peak]
	f.Energy = floats.Dot(half, half)

	if floats.Sum(half) > 0 {
		f.Centroid = stat.Mean(freqs, half)
		f.Bandwidth = bandwidth(half, freqs, f.Centroid)
	}
	f.Rolloff = rolloff(half, freqs, 0.85)
	f.Flatness = flatness(half)
	if f.Energy > 0 {
		f.Crest = f.PeakMag / math.Sqrt(f.Energy/float64(len(half)))
	}

	return f
}

// Flux is the L2 norm of the bin-wise increases from prev to cur over the
// one-sided spectrum. Decreases are ignored.
func Flux(prev, cur []float64) float64 {
	a, b := OneSided(prev), OneSided(cur)
	n := min(len(a), len(b))
	sum := 0.0
	for i := 0; i < n; i++ {
		if d := b[i] - a[i]; d > 0 {
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}

// bandwidth is the magnitude-weighted standard deviation of frequency around centroid
func bandwidth(mags, freqs []float64, centroid float64) float64 {
	num, den := 0.0, 0.0
	for i, m := range mags {
		d := freqs[i] - centroid
		num += d * d * m
		den += m
	}
	if den == 0 {
		return 0
	}
	return math.Sqrt(num / den)
}

// rolloff is the frequency below which threshold of the spectral energy lies
func rolloff(mags, freqs []float64, threshold float64) float64 {
	total := floats.Dot(mags, mags)
	if total == 0 {
		return 0
	}

	target := threshold * total
	cumulative := 0.0
	for i, m := range mags {
		cumulative += m * m
		if cumulative >= target {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}

// flatness is the geometric over the arithmetic mean of the non-zero bins
func flatness(mags []float64) float64 {
	logSum := 0.0
	count := 0
	for _, m := range mags {
		if m > 1e-10 {
			logSum += math.Log(m)
			count++
		}
	}
	if count == 0 {
		return 0
	}

	arithmetic := floats.Sum(mags) / float64(len(mags))
	if arithmetic == 0 {
		return 0
	}
	return math.Exp(logSum/float64(count)) / arithmetic
}
