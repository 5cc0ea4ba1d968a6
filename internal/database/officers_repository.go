package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/civicgrid/triage/internal/domain"
)

// OfficersRepository reads the officer roster from the user store.
// The roster is owned by another system; this repository only queries it.
type OfficersRepository struct {
	db *sqlx.DB
}

// NewOfficersRepository creates a new officers repository.
func NewOfficersRepository(db *sqlx.DB) *OfficersRepository {
	return &OfficersRepository{db: db}
}

// ListOfficers returns the full roster in stable id order, so assignment
// is deterministic for a given roster.
func (r *OfficersRepository) ListOfficers(ctx context.Context) ([]domain.Officer, error) {
	query := `
		SELECT id, name, department_id
		FROM officers
		WHERE active = true
		ORDER BY id
	`

	var officers []domain.Officer
	if err := r.db.SelectContext(ctx, &officers, query); err != nil {
		return nil, fmt.Errorf("failed to list officers: %w", err)
	}
	return officers, nil
}
