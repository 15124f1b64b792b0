package cmd

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ANSI colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorBold   = "\033[1m"
)

var titleCaser = cases.Title(language.English)

// colorsEnabled follows output.colors; newApp sets it from the loaded config
var colorsEnabled = true

// color returns code, or nothing when colors are off
func color(code string) string {
	if !colorsEnabled {
		return ""
	}
	return code
}

func printHeader(title, subject string) {
	rule := color(ColorBold+ColorCyan) + strings.Repeat("=", 80) + color(ColorReset)
	fmt.Println(rule)
	fmt.Printf("%s%s%s\n", color(ColorBold), strings.ToUpper(title), color(ColorReset))
	if subject != "" {
		fmt.Printf("%s\n", subject)
	}
	fmt.Println(rule)
}

func printStep(n int, title string) {
	fmt.Printf("\n%s[%d] %s%s\n", color(ColorBlue+ColorBold), n, title, color(ColorReset))
}

func printSection(title string) {
	fmt.Printf("\n%s\n", title)
	fmt.Println(strings.Repeat("-", len(title)))
}

func printSubsection(title string) {
	fmt.Printf("\n  %s\n", title)
}

func printKeyValue(key, value string) {
	if value == "" {
		fmt.Printf("%-35s\n", key)
	} else {
		fmt.Printf("%-35s %s\n", key+":", value)
	}
}

func printSuccess(format string, args ...any) {
	fmt.Printf("   %s✓ %s%s\n", color(ColorGreen), fmt.Sprintf(format, args...), color(ColorReset))
}

func printInfo(format string, args ...any) {
	fmt.Printf("   %s\n", fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Printf("   %s! %s%s\n", color(ColorYellow), fmt.Sprintf(format, args...), color(ColorReset))
}

func printError(format string, args ...any) {
	fmt.Printf("   %s✗ %s%s\n", color(ColorRed), fmt.Sprintf(format, args...), color(ColorReset))
}

// PerformanceTimer records named wall-clock spans
type PerformanceTimer struct {
	mu      sync.Mutex
	start   time.Time
	started map[string]time.Time
	spans   map[string]time.Duration
}

// NewPerformanceTimer starts the total clock
func NewPerformanceTimer() *PerformanceTimer {
	return &PerformanceTimer{
		start:   time.Now(),
		started: make(map[string]time.Time),
		spans:   make(map[string]time.Duration),
	}
}

func (t *PerformanceTimer) StartEvent(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started[name] = time.Now()
}

func (t *PerformanceTimer) EndEvent(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.started[name]; ok {
		t.spans[name] += time.Since(s)
		delete(t.started, name)
	}
}

func (t *PerformanceTimer) GetDuration(name string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spans[name]
}

func (t *PerformanceTimer) GetTotalDuration() time.Duration {
	return time.Since(t.start)
}

// printTimings lists the non-zero spans of events in order
func printTimings(timer *PerformanceTimer, events ...string) {
	printInfo("Performance Breakdown:")
	for _, event := range events {
		if d := timer.GetDuration(event); d > 0 {
			fmt.Printf("      %s: %v\n", titleCaser.String(strings.ReplaceAll(event, "_", " ")), d.Round(time.Microsecond))
		}
	}
	fmt.Printf("\n%sTotal Duration: %v%s\n", color(ColorBold), timer.GetTotalDuration().Round(time.Millisecond), color(ColorReset))
}
