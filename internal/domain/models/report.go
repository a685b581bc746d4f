package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportCategory is the type of incident being reported
type ReportCategory string

const (
	ReportHarassment    ReportCategory = "harassment"
	ReportThreats       ReportCategory = "threats"
	ReportImpersonation ReportCategory = "impersonation"
	ReportScam          ReportCategory = "scam"
	ReportStalking      ReportCategory = "stalking"
	ReportNonConsensual ReportCategory = "non-consensual"
	ReportOther         ReportCategory = "other"
)

// IsValid reports whether c is a known incident category
func (c ReportCategory) IsValid() bool {
	switch c {
	case ReportHarassment, ReportThreats, ReportImpersonation, ReportScam,
		ReportStalking, ReportNonConsensual, ReportOther:
		return true
	}
	return false
}

// ContactMethod is how (and whether) the reporter may be contacted
type ContactMethod string

const (
	ContactNone  ContactMethod = "none"
	ContactEmail ContactMethod = "email"
)

// ReportStatus tracks a submitted report
type ReportStatus string

const (
	ReportStatusReceived    ReportStatus = "received"
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusClosed      ReportStatus = "closed"
)

// ReportRequest is an anonymous incident report as submitted
type ReportRequest struct {
	Category      ReportCategory `json:"category"`
	Platform      string         `json:"platform"`
	Description   string         `json:"description"`
	IncidentDate  string         `json:"date,omitempty"`
	ContactMethod ContactMethod  `json:"contactMethod"`
	ContactInfo   string         `json:"contactInfo,omitempty"`
}

// Report is a stored incident report
type Report struct {
	ID            uuid.UUID      `json:"id"`
	CaseID        string         `json:"case_id"`
	Category      ReportCategory `json:"category"`
	Platform      string         `json:"platform"`
	Description   string         `json:"-"`
	IncidentDate  string         `json:"date,omitempty"`
	ContactMethod ContactMethod  `json:"contact_method"`
	ContactInfo   string         `json:"-"`
	Status        ReportStatus   `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
}
