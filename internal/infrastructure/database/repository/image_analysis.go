package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/infrastructure/database"
)

// ImageAnalysisRepository handles image analysis persistence
type ImageAnalysisRepository struct {
	db database.DBTX
}

// NewImageAnalysisRepository creates a new image analysis repository
func NewImageAnalysisRepository(db database.DBTX) *ImageAnalysisRepository {
	return &ImageAnalysisRepository{db: db}
}

// Create appends an analysis record
func (r *ImageAnalysisRepository) Create(ctx context.Context, userID string, a *models.ImageAnalysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	var display pgtype.Text
	if a.Display != nil {
		display = textOrNull(string(a.Display.DisplayRisk))
	}

	query := `
		INSERT INTO image_analyses (
			id, user_id, image_url, analysis, risk_level, confidence_score,
			is_fallback, display_risk, model_used, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		a.ID, textOrNull(userID), a.ImageURL, a.Analysis, string(a.RiskLevel), a.ConfidenceScore,
		a.IsFallback, display, textOrNull(a.ModelUsed), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create image analysis: %w", err)
	}
	return nil
}

// ListRecent returns the newest analyses of one user
func (r *ImageAnalysisRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.ImageAnalysisSummary, error) {
	query := `
		SELECT id, image_url, risk_level, analysis, confidence_score, is_fallback, created_at
		FROM image_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list image analyses: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.ImageAnalysisSummary, 0, limit)
	for rows.Next() {
		var (
			s    models.ImageAnalysisSummary
			risk string
		)
		if err := rows.Scan(&s.ID, &s.ImageURL, &risk, &s.Analysis, &s.ConfidenceScore, &s.IsFallback, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image analysis: %w", err)
		}
		s.RiskLevel = models.RiskVerdict(risk)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate image analyses: %w", err)
	}

	return summaries, nil
}
