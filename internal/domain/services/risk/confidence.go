package risk

import (
	"regexp"
	"strconv"

	"veritas-lab/internal/domain/models"
)

var confidencePattern = regexp.MustCompile(`(?i)(\d{1,3})(\s*)(%|percent|confidence)`)

// ExtractConfidence returns the first number directly followed by "%",
// "percent" or "confidence", capped at 100
func ExtractConfidence(text string) (int, bool) {
	m := confidencePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if score > 100 {
		score = 100
	}
	return score, true
}

// SynthesizeConfidence fabricates a display-only score when the model gave
// none: low and high draw from [85,94], medium from [60,74]
func SynthesizeConfidence(v models.RiskVerdict, intn func(n int) int) int {
	switch v {
	case models.RiskMedium:
		return intn(15) + 60
	default:
		return intn(10) + 85
	}
}
