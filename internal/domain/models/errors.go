package models

import "errors"

// User input errors, rejected before any upstream call
var (
	ErrEmptyText        = errors.New("please enter some chat text to analyze")
	ErrNoImage          = errors.New("no image provided")
	ErrInvalidImageURL  = errors.New("image_url must be an http or https URL")
	ErrImageTooLarge    = errors.New("image is too large")
	ErrInvalidImageType = errors.New("file is not an image")
	ErrInvalidReport    = errors.New("please fill in all required fields")
	ErrContactRequired  = errors.New("please provide contact information or choose 'No contact'")
	ErrEmptyMessage     = errors.New("message is required")
)

// Coordination and lookup errors
var (
	ErrAnalysisInProgress = errors.New("an analysis is already in progress for this client")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("authentication required")
	ErrStorageUnavailable = errors.New("storage is not configured")
)

// ErrUpstreamUnavailable wraps failures of flows that have no local fallback
var ErrUpstreamUnavailable = errors.New("AI service unavailable")
