package risk

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"veritas-lab/internal/domain/models"
)

// Thresholds for the fake-profile heuristics
const (
	MinFollowers           = 20
	FollowingRatio         = 3
	FewPosts               = 2
	MaxPlainUsernameLength = 15
)

var suspiciousUsernameFragments = []string{"_", ".", "123", "official"}

// AnalyzeProfile scores profile metadata. Each rule appends an explanation
// line; only the follower and same-day rules decide the verdict.
func AnalyzeProfile(req models.ProfileScanRequest) models.ProfileScanResult {
	var (
		explanation []string
		likelyFake  bool
	)

	followers := parseCount(req.Followers)
	switch {
	case followers == 0:
		likelyFake = true
		explanation = append(explanation, "Follower count is 0 - very likely fake.")
	case followers < MinFollowers:
		likelyFake = true
		explanation = append(explanation, fmt.Sprintf("Only %d followers - suspiciously low.", followers))
	}

	following := parseCount(req.Following)
	if followers != 0 && following > followers*FollowingRatio {
		explanation = append(explanation, "High following-to-followers ratio - may indicate fake activity.")
	}

	posts := parseCount(req.Posts)
	switch {
	case posts == 0:
		explanation = append(explanation, "No posts - could be a fake or abandoned account.")
	case posts <= FewPosts:
		explanation = append(explanation, "Very few posts - suspicious activity.")
	}

	if req.PostedSameDay == "true" {
		likelyFake = true
		explanation = append(explanation, "All posts were made on the same day - commonly seen in fake accounts.")
	}

	if strings.TrimSpace(req.Bio) == "" {
		explanation = append(explanation, "Empty bio - not necessarily fake, but adds to suspicion.")
	}

	username := strings.ToLower(req.Username)
	if containsAny(username, suspiciousUsernameFragments) || utf8.RuneCountInString(username) > MaxPlainUsernameLength {
		explanation = append(explanation, "Username contains suspicious patterns (e.g., numbers, underscores).")
	}

	if len(explanation) == 0 {
		explanation = append(explanation, "No clear signs of fakeness found based on inputs.")
	}

	result := models.ProfileReal
	if likelyFake {
		result = models.ProfileLikelyFake
	}
	return models.ProfileScanResult{Result: result, Explanation: explanation}
}

// parseCount reads a count field; blank or malformed input counts as zero
func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
