package models

// ProfileScanRequest carries the profile metadata typed in (or read off) a screenshot
type ProfileScanRequest struct {
	Followers     string `json:"followers"`
	Following     string `json:"following"`
	Posts         string `json:"posts"`
	Username      string `json:"username"`
	Bio           string `json:"bio"`
	PostedSameDay string `json:"posted_same_day"`
	HasImage      bool   `json:"-"`
}

// Profile scan outcomes
const (
	ProfileLikelyFake = "Likely Fake"
	ProfileReal       = "Real"
)

// ProfileScanResult is the verdict of the fake-profile heuristics
type ProfileScanResult struct {
	Result      string   `json:"result"`
	Explanation []string `json:"explanation"`
}
