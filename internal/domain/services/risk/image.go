// Package risk holds the pure decision procedures that turn upstream AI output
// and user-pasted text into bounded, user-facing verdicts.
package risk

import (
	"math/rand/v2"
	"strings"

	"veritas-lab/internal/domain/models"
)

// Phrase lists consulted by the image rules. Order and spelling are load-bearing.
var (
	strongAIPhrases = []string{
		"clearly ai-generated",
		"definitely synthetic",
		"unmistakable signs",
	}
	suspiciousPhrases = []string{
		"suspicious elements",
		"some indicators",
		"possible ai artifacts",
	}
	authenticPhrases = []string{
		"appears authentic",
		"likely real person",
		"genuine portrait",
		"natural facial features",
		"no clear indicators of ai",
	}
	uncertaintyPhrases = []string{
		"cannot be certain",
		"difficult to determine",
		"not conclusive",
	}
)

// ImageRule is one step of the verdict chain. A rule fires when Applies accepts
// the current verdict, every AllOf phrase occurs, and (if AnyOf is non-empty)
// at least one AnyOf phrase occurs.
type ImageRule struct {
	Name    string
	Applies func(current models.RiskVerdict) bool
	AllOf   []string
	AnyOf   []string
	Result  models.RiskVerdict
}

// Matches reports whether the rule's phrase conditions hold for lowered text
func (r ImageRule) Matches(lowered string) bool {
	for _, p := range r.AllOf {
		if !strings.Contains(lowered, p) {
			return false
		}
	}
	if len(r.AnyOf) == 0 {
		return true
	}
	return containsAny(lowered, r.AnyOf)
}

func stillLow(v models.RiskVerdict) bool { return v == models.RiskLow }
func notLow(v models.RiskVerdict) bool   { return v != models.RiskLow }

// ImageRules is evaluated top to bottom starting from RiskLow. The promotions
// are conjunctive and mutually exclusive; the two overrides can only pull a
// verdict back down to low.
var ImageRules = []ImageRule{
	{
		Name:    "promote-high",
		Applies: stillLow,
		AllOf:   []string{"high risk"},
		AnyOf:   strongAIPhrases,
		Result:  models.RiskHigh,
	},
	{
		Name:    "promote-medium",
		Applies: stillLow,
		AllOf:   []string{"medium risk"},
		AnyOf:   suspiciousPhrases,
		Result:  models.RiskMedium,
	},
	{
		Name:    "override-authentic",
		Applies: notLow,
		AnyOf:   authenticPhrases,
		Result:  models.RiskLow,
	},
	{
		Name:    "override-uncertain",
		Applies: notLow,
		AnyOf:   uncertaintyPhrases,
		Result:  models.RiskLow,
	},
}

// ImageVerdict is the classifier output for one analysis text
type ImageVerdict struct {
	Risk                models.RiskVerdict `json:"risk_level"`
	Confidence          int                `json:"confidence_score"`
	ConfidenceExtracted bool               `json:"confidence_extracted"`
	FiredRules          []string           `json:"fired_rules,omitempty"`
}

// ImageClassifier maps a language model's written image analysis to a verdict
type ImageClassifier struct {
	rules []ImageRule
	intn  func(n int) int
}

// NewImageClassifier creates a classifier using the package rule table
func NewImageClassifier() *ImageClassifier {
	return &ImageClassifier{rules: ImageRules, intn: rand.IntN}
}

// NewImageClassifierWithRand creates a classifier with a deterministic source
// for synthesized confidence values
func NewImageClassifierWithRand(intn func(n int) int) *ImageClassifier {
	return &ImageClassifier{rules: ImageRules, intn: intn}
}

// Classify never fails: any text yields exactly one verdict and a confidence
func (c *ImageClassifier) Classify(analysis string) ImageVerdict {
	lowered := strings.ToLower(analysis)

	verdict := ImageVerdict{Risk: models.RiskLow}
	for _, rule := range c.rules {
		if !rule.Applies(verdict.Risk) || !rule.Matches(lowered) {
			continue
		}
		verdict.Risk = rule.Result
		verdict.FiredRules = append(verdict.FiredRules, rule.Name)
	}

	if score, ok := ExtractConfidence(analysis); ok {
		verdict.Confidence = score
		verdict.ConfidenceExtracted = true
	} else {
		verdict.Confidence = SynthesizeConfidence(verdict.Risk, c.intn)
	}

	return verdict
}

// Fallback values used whenever the upstream analysis is unavailable
const (
	FallbackRisk       = models.RiskMedium
	FallbackConfidence = 70
	FallbackAnalysis   = "We were unable to perform a detailed analysis at this time due to high demand. " +
		"Here are some general tips for identifying fake profiles:\n\n" +
		"1. Look for inconsistencies in facial features\n" +
		"2. Check for unnatural backgrounds or lighting\n" +
		"3. Look for unusual artifacts around edges of the image\n" +
		"4. Consider the context of how you received this image\n\n" +
		"We recommend being cautious and looking for other verification before trusting profiles with suspicious characteristics."
)

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
