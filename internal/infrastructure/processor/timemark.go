package processor

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseTimemark converts an ffmpeg "HH:MM:SS.ss" stamp to seconds. Each
// component is read as the longest numeric prefix; a missing or unreadable
// component yields NaN, so callers must check the result.
func ParseTimemark(mark string) float64 {
	parts := strings.Split(mark, ":")
	if len(parts) < 3 {
		return math.NaN()
	}
	hh := leadingFloat(parts[0])
	mm := leadingFloat(parts[1])
	ss := leadingFloat(parts[2])
	return hh*3600 + mm*60 + ss
}

func leadingFloat(s string) float64 {
	m := leadingNumber.FindString(s)
	if m == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ValidDuration reports whether d can be used as a progress denominator.
func ValidDuration(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d > 0
}

// Percent rounds current/total to a whole percentage in [0, 100]. An unknown
// total or an unreadable current position reports 0.
func Percent(current, total float64) int {
	if !ValidDuration(total) || math.IsNaN(current) || math.IsInf(current, 0) || current < 0 {
		return 0
	}
	p := math.Floor(current/total*100 + 0.5)
	if p > 100 {
		return 100
	}
	return int(p)
}
