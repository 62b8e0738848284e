package nutrition

// PulseWindow is the fixed length of the performance pulse.
const PulseWindow = 7

var defaultPulse = [PulseWindow]float64{50, 65, 60, 85, 80, 95, 90}

// DefaultPulse returns a fresh copy of the initial pulse.
func DefaultPulse() []float64 {
	out := make([]float64, PulseWindow)
	copy(out, defaultPulse[:])
	return out
}

// NormalizePulse forces the window to exactly seven values: the newest
// seven are kept, a short window is left-padded from the default pulse.
func NormalizePulse(p []float64) []float64 {
	if len(p) == 0 {
		return DefaultPulse()
	}
	out := make([]float64, 0, PulseWindow)
	if len(p) >= PulseWindow {
		return append(out, p[len(p)-PulseWindow:]...)
	}
	out = append(out, defaultPulse[:PulseWindow-len(p)]...)
	return append(out, p...)
}

// PushPulse drops the oldest value and appends score.
func PushPulse(p []float64, score float64) []float64 {
	p = NormalizePulse(p)
	out := make([]float64, 0, PulseWindow)
	out = append(out, p[1:]...)
	return append(out, score)
}
