package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/civicgrid/triage/internal/domain"
)

// ErrComplaintNotFound is returned when a complaint id has no record.
var ErrComplaintNotFound = errors.New("complaint not found")

// ErrInvalidTransition is returned when a status update violates the
// lifecycle workflow.
var ErrInvalidTransition = errors.New("invalid status transition")

// ComplaintsRepository handles database operations for complaint records.
type ComplaintsRepository struct {
	db *sqlx.DB
}

// NewComplaintsRepository creates a new complaints repository.
func NewComplaintsRepository(db *sqlx.DB) *ComplaintsRepository {
	return &ComplaintsRepository{db: db}
}

// complaintRow is the flat scan target for the complaints table.
type complaintRow struct {
	ID                 string          `db:"id"`
	Title              string          `db:"title"`
	Description        string          `db:"description"`
	Status             string          `db:"status"`
	Category           string          `db:"category"`
	CategoryConfidence float64         `db:"category_confidence"`
	UrgencyLevel       string          `db:"urgency_level"`
	UrgencyScore       float64         `db:"urgency_score"`
	Keywords           pq.StringArray  `db:"keywords_detected"`
	LanguageDetected   string          `db:"language_detected"`
	NormalizedText     string          `db:"normalized_text"`
	ModelVersion       string          `db:"model_version"`
	TriageMethod       string          `db:"triage_method"`
	DepartmentID       string          `db:"department_id"`
	OfficerID          string          `db:"officer_id"`
	OfficerName        string          `db:"officer_name"`
	SLAHours           int             `db:"sla_hours"`
	EscalationNeeded   bool            `db:"escalation_needed"`
	EscalationLevel    sql.NullString  `db:"escalation_level"`
	Address            sql.NullString  `db:"address"`
	Latitude           sql.NullFloat64 `db:"latitude"`
	Longitude          sql.NullFloat64 `db:"longitude"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

func (r complaintRow) toDomain() *domain.Complaint {
	c := &domain.Complaint{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.ComplaintStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Triage: &domain.TriageResult{
			Category:           domain.Category(r.Category),
			CategoryConfidence: r.CategoryConfidence,
			UrgencyLevel:       domain.UrgencyLevel(r.UrgencyLevel),
			UrgencyScore:       r.UrgencyScore,
			KeywordsDetected:   []string(r.Keywords),
			LanguageDetected:   r.LanguageDetected,
			NormalizedText:     r.NormalizedText,
			ModelVersion:       r.ModelVersion,
			Method:             domain.TriageMethod(r.TriageMethod),
		},
		Routing: &domain.RoutingDecision{
			DepartmentID: r.DepartmentID,
			OfficerID:    r.OfficerID,
			OfficerName:  r.OfficerName,
			SLAHours:     r.SLAHours,
			Escalation: domain.Escalation{
				Needed: r.EscalationNeeded,
				Level:  r.EscalationLevel.String,
			},
		},
	}
	if r.Address.Valid {
		c.Location.Address = r.Address.String
	}
	if r.Latitude.Valid && r.Longitude.Valid {
		lat, lon := r.Latitude.Float64, r.Longitude.Float64
		c.Location.Latitude = &lat
		c.Location.Longitude = &lon
	}
	return c
}

// Create inserts a complaint record with its triage and routing decisions.
func (r *ComplaintsRepository) Create(ctx context.Context, c *domain.Complaint) error {
	if c.Triage == nil || c.Routing == nil {
		return errors.New("complaint record requires triage and routing decisions")
	}

	query := `
		INSERT INTO complaints (
			id, title, description, status,
			category, category_confidence, urgency_level, urgency_score,
			keywords_detected, language_detected, normalized_text, model_version, triage_method,
			department_id, officer_id, officer_name, sla_hours, escalation_needed, escalation_level,
			address, latitude, longitude, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24
		)
	`

	var escalationLevel sql.NullString
	if c.Routing.Escalation.Level != "" {
		escalationLevel = sql.NullString{String: c.Routing.Escalation.Level, Valid: true}
	}
	var address sql.NullString
	if c.Location.Address != "" {
		address = sql.NullString{String: c.Location.Address, Valid: true}
	}
	var lat, lon sql.NullFloat64
	if c.Location.HasCoordinates() {
		lat = sql.NullFloat64{Float64: *c.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: *c.Location.Longitude, Valid: true}
	}

	_, err := r.db.ExecContext(
		ctx, query,
		c.ID, c.Title, c.Description, c.Status,
		c.Triage.Category, c.Triage.CategoryConfidence, c.Triage.UrgencyLevel, c.Triage.UrgencyScore,
		pq.Array(c.Triage.KeywordsDetected), c.Triage.LanguageDetected, c.Triage.NormalizedText,
		c.Triage.ModelVersion, c.Triage.Method,
		c.Routing.DepartmentID, c.Routing.OfficerID, c.Routing.OfficerName,
		c.Routing.SLAHours, c.Routing.Escalation.Needed, escalationLevel,
		address, lat, lon, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

// GetByID retrieves a complaint by its id.
func (r *ComplaintsRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	var row complaintRow
	query := `
		SELECT id, title, description, status,
		       category, category_confidence, urgency_level, urgency_score,
		       keywords_detected, language_detected, normalized_text, model_version, triage_method,
		       department_id, officer_id, officer_name, sla_hours, escalation_needed, escalation_level,
		       address, latitude, longitude, created_at, updated_at
		FROM complaints
		WHERE id = $1
	`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrComplaintNotFound, id)
		}
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return row.toDomain(), nil
}

// ListOpenCandidates returns open complaints in the given category created
// after the cutoff, shaped for the duplicate detector.
func (r *ComplaintsRepository) ListOpenCandidates(
	ctx context.Context,
	category domain.Category,
	cutoff time.Time,
) ([]domain.DuplicateCandidate, error) {
	query := `
		SELECT id, title, description, status, category,
		       address, latitude, longitude, created_at
		FROM complaints
		WHERE category = $1
		  AND status = ANY($2)
		  AND created_at >= $3
		ORDER BY created_at DESC
	`

	open := make([]string, len(domain.OpenStatuses))
	for i, s := range domain.OpenStatuses {
		open[i] = string(s)
	}

	rows, err := r.db.QueryxContext(ctx, query, category, pq.Array(open), cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.DuplicateCandidate
	for rows.Next() {
		var row struct {
			ID          string          `db:"id"`
			Title       string          `db:"title"`
			Description string          `db:"description"`
			Status      string          `db:"status"`
			Category    string          `db:"category"`
			Address     sql.NullString  `db:"address"`
			Latitude    sql.NullFloat64 `db:"latitude"`
			Longitude   sql.NullFloat64 `db:"longitude"`
			CreatedAt   time.Time       `db:"created_at"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}

		candidate := domain.DuplicateCandidate{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Category:    domain.Category(row.Category),
			Status:      domain.ComplaintStatus(row.Status),
			CreatedAt:   row.CreatedAt.UTC().Format(time.RFC3339),
		}
		if row.Address.Valid {
			candidate.Location.Address = row.Address.String
		}
		if row.Latitude.Valid && row.Longitude.Valid {
			lat, lon := row.Latitude.Float64, row.Longitude.Float64
			candidate.Location.Latitude = &lat
			candidate.Location.Longitude = &lon
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}

// UpdateStatus moves a complaint along the lifecycle workflow, rejecting
// edges the transition table does not allow.
func (r *ComplaintsRepository) UpdateStatus(ctx context.Context, id string, next domain.ComplaintStatus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var current string
	if err := tx.GetContext(ctx, &current, `SELECT status FROM complaints WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrComplaintNotFound, id)
		}
		return fmt.Errorf("failed to read status: %w", err)
	}

	if !domain.CanTransition(domain.ComplaintStatus(current), next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE complaints SET status = $1, updated_at = $2 WHERE id = $3`,
		next, time.Now().UTC(), id,
	); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}
