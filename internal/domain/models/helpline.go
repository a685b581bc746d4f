package models

// Helpline is an emergency contact for a region
type Helpline struct {
	Name   string  `json:"name"`
	Number string  `json:"number"`
	Type   string  `json:"type"`
	Email  *string `json:"email"`
}
