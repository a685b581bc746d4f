package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/infrastructure/database"
)

// ReportRepository handles anonymous report persistence
type ReportRepository struct {
	db database.DBTX
}

// NewReportRepository creates a new report repository
func NewReportRepository(db database.DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report
func (r *ReportRepository) Create(ctx context.Context, rep *models.Report) error {
	query := `
		INSERT INTO reports (
			id, case_id, category, platform, description, incident_date,
			contact_method, contact_info, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		rep.ID, rep.CaseID, string(rep.Category), rep.Platform, rep.Description,
		textOrNull(rep.IncidentDate), string(rep.ContactMethod), textOrNull(rep.ContactInfo),
		string(rep.Status), rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByCaseID retrieves a report by its public case id
func (r *ReportRepository) GetByCaseID(ctx context.Context, caseID string) (*models.Report, error) {
	query := `
		SELECT id, case_id, category, platform, description, incident_date,
			   contact_method, contact_info, status, created_at
		FROM reports
		WHERE case_id = $1`

	var (
		rep                             models.Report
		category, contactMethod, status string
		incidentDate, contactInfo       pgtype.Text
	)
	err := r.db.QueryRow(ctx, query, caseID).Scan(
		&rep.ID, &rep.CaseID, &category, &rep.Platform, &rep.Description, &incidentDate,
		&contactMethod, &contactInfo, &status, &rep.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", caseID, notFound(err))
	}

	rep.Category = models.ReportCategory(category)
	rep.ContactMethod = models.ContactMethod(contactMethod)
	rep.Status = models.ReportStatus(status)
	rep.IncidentDate = nullTextToString(incidentDate)
	rep.ContactInfo = nullTextToString(contactInfo)
	return &rep, nil
}
