package risk

import (
	"regexp"

	"veritas-lab/internal/domain/models"
)

// RedFlagPattern is one manipulation tactic the chat scanner looks for
type RedFlagPattern struct {
	Category    string
	Explanation string
	Pattern     *regexp.Regexp
}

// RedFlagPatterns are checked in this order; each contributes at most one flag
var RedFlagPatterns = []RedFlagPattern{
	{
		Category:    "Secrecy",
		Explanation: "Requesting secrecy is a common manipulation tactic",
		Pattern:     regexp.MustCompile(`(?i)(?:don't tell|keep.*secret|between us|our little secret)`),
	},
	{
		Category:    "Gaslighting",
		Explanation: "Dismissing feelings and making you doubt yourself",
		Pattern:     regexp.MustCompile(`(?i)(?:you're overreacting|you're too sensitive|calm down|you're crazy)`),
	},
	{
		Category:    "Emotional Manipulation",
		Explanation: "Using love or care as leverage for demands",
		Pattern:     regexp.MustCompile(`(?i)(?:if you loved me|prove.*love|if you care)`),
	},
	{
		Category:    "Isolation",
		Explanation: "Attempting to create dependency and isolation",
		Pattern:     regexp.MustCompile(`(?i)(?:nobody else will|you'll never find|you need me)`),
	},
	{
		Category:    "Blame Shifting",
		Explanation: "Shifting responsibility for their actions to you",
		Pattern:     regexp.MustCompile(`(?i)(?:you made me|look what you made|because of you)`),
	},
	{
		Category:    "Threats/Coercion",
		Explanation: "Using threats of self-harm as manipulation",
		Pattern:     regexp.MustCompile(`(?i)(?:i'll hurt myself|can't live without|kill myself)`),
	},
	{
		Category:    "Guilt Trip",
		Explanation: "Using guilt to manipulate behavior",
		Pattern:     regexp.MustCompile(`(?i)(?:you owe me|after all i've done|i've given you)`),
	},
	{
		Category:    "Social Manipulation",
		Explanation: "Using social pressure or isolation as control",
		Pattern:     regexp.MustCompile(`(?i)(?:everyone thinks you're|nobody likes you|they all say)`),
	},
}

// ScanRedFlags records the first match of every pattern that matches text.
// The result is never nil.
func ScanRedFlags(text string) []models.RedFlag {
	flags := make([]models.RedFlag, 0, len(RedFlagPatterns))
	for _, p := range RedFlagPatterns {
		phrase := p.Pattern.FindString(text)
		if phrase == "" {
			continue
		}
		flags = append(flags, models.RedFlag{
			Phrase:      phrase,
			Category:    p.Category,
			Explanation: p.Explanation,
		})
	}
	return flags
}

// ThreatLevelFor counts flags, not severity: >3 high, 2-3 moderate, 1 low
func ThreatLevelFor(flagCount int) models.ThreatLevel {
	switch {
	case flagCount > 3:
		return models.ThreatHigh
	case flagCount >= 2:
		return models.ThreatModerate
	case flagCount > 0:
		return models.ThreatLow
	default:
		return models.ThreatNone
	}
}

// ThreatMessage is the one-line explanation shown next to a threat level
func ThreatMessage(level models.ThreatLevel) string {
	switch level {
	case models.ThreatHigh:
		return "High Risk - Multiple concerning patterns detected"
	case models.ThreatModerate:
		return "Moderate Risk - Some concerning patterns present"
	case models.ThreatLow:
		return "Low Risk - Minor concerning patterns detected"
	default:
		return "No Risk Detected"
	}
}

// ScanChat runs the scanner and derives the threat level in one step
func ScanChat(text string) models.ChatScanResult {
	flags := ScanRedFlags(text)
	level := ThreatLevelFor(len(flags))
	return models.ChatScanResult{
		RedFlags:    flags,
		ThreatLevel: level,
		Message:     ThreatMessage(level),
	}
}
