package spectral

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mjibson/go-dsp/window"
)

// WindowType names a window function applied to each slice before the FFT
type WindowType string

const (
	WindowNone     WindowType = "none"
	WindowHann     WindowType = "hann"
	WindowHamming  WindowType = "hamming"
	WindowBlackman WindowType = "blackman"
	WindowBartlett WindowType = "bartlett"
	WindowFlatTop  WindowType = "flattop"
)

var windowFuncs = map[WindowType]func(int) []float64{
	WindowHann:     window.Hann,
	WindowHamming:  window.Hamming,
	WindowBlackman: window.Blackman,
	WindowBartlett: window.Bartlett,
	WindowFlatTop:  window.FlatTop,
}

// ParseWindowType maps a config string to a WindowType. An empty string and
// "rectangular" both mean no window.
func ParseWindowType(s string) (WindowType, error) {
	name := WindowType(strings.ToLower(strings.TrimSpace(s)))
	switch name {
	case "", WindowNone, "rectangular", "identity":
		return WindowNone, nil
	}
	if _, ok := windowFuncs[name]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown window function %q (want one of %s)", s, strings.Join(WindowNames(), ", "))
}

// WindowNames lists every accepted window name
func WindowNames() []string {
	names := []string{string(WindowNone)}
	for k := range windowFuncs {
		names = append(names, string(k))
	}
	sort.Strings(names[1:])
	return names
}

// Coefficients returns the window of length size, or nil for WindowNone
func (w WindowType) Coefficients(size int) []float64 {
	fn, ok := windowFuncs[w]
	if !ok || size <= 0 {
		return nil
	}
	return fn(size)
}
