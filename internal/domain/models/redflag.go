package models

// RedFlag is a manipulation-language match found in pasted chat text
type RedFlag struct {
	Phrase      string `json:"phrase"`
	Category    string `json:"category"`
	Explanation string `json:"explanation"`
}

// ChatScanRequest is the body of a chat red-flag scan
type ChatScanRequest struct {
	Text   string `json:"text"`
	Region string `json:"region,omitempty"`
}

// ChatScanResult lists every matching pattern and the derived threat level
type ChatScanResult struct {
	RedFlags    []RedFlag   `json:"red_flags"`
	ThreatLevel ThreatLevel `json:"threat_level"`
	Message     string      `json:"message"`
	Helplines   []Helpline  `json:"helplines,omitempty"`
}

// RedFlagPatternInfo describes one scanner pattern for the patterns listing
type RedFlagPatternInfo struct {
	Category    string `json:"category"`
	Pattern     string `json:"pattern"`
	Explanation string `json:"explanation"`
}
