package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/shared"
)

// ErrNotFound is returned when no export run has the requested id.
var ErrNotFound = errors.New("export run not found")

// ExportRunRepository implements models.Repository[*models.ExportRun] over the export_runs table.
type ExportRunRepository struct {
	db *sql.DB
}

// NewExportRunRepository creates a new ExportRunRepository with the given database connection
func NewExportRunRepository(db *sql.DB) *ExportRunRepository {
	return &ExportRunRepository{db: db}
}

const exportRunColumns = `id, sequence, kind, resource_id, item_count, file_path, error, created_at`

// Create inserts run, filling in its ID, sequence and creation time when unset.
func (r *ExportRunRepository) Create(run *models.ExportRun) error {
	if run.RunID == "" {
		run.RunID = shared.GenerateID()
	}
	if run.Created.IsZero() {
		run.Created = time.Now().UTC()
	}

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "export_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	run.Sequence = sequence

	query := `INSERT INTO export_runs (` + exportRunColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		run.RunID,
		run.Sequence,
		run.Kind,
		run.ResourceID,
		run.ItemCount,
		run.FilePath,
		run.Error,
		run.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to insert export run: %w", err)
	}

	return nil
}

// Get retrieves an export run by ID
func (r *ExportRunRepository) Get(id string) (*models.ExportRun, error) {
	query := `SELECT ` + exportRunColumns + ` FROM export_runs WHERE id = ?`

	run, err := scanExportRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// Delete removes an export run. Output files are left on disk.
func (r *ExportRunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM export_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete export run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// List retrieves runs matching criteria, newest first.
//
// Supported criteria: "kind" (string), "resource_id" (string), "failed" (bool) and "limit" (int).
func (r *ExportRunRepository) List(criteria map[string]any) ([]*models.ExportRun, error) {
	query := `SELECT ` + exportRunColumns + ` FROM export_runs WHERE 1 = 1`
	args := []any{}

	if kind, ok := criteria["kind"].(string); ok && kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}

	if resourceID, ok := criteria["resource_id"].(string); ok && resourceID != "" {
		query += " AND resource_id = ?"
		args = append(args, resourceID)
	}

	if failed, ok := criteria["failed"].(bool); ok {
		if failed {
			query += " AND error != ''"
		} else {
			query += " AND error = ''"
		}
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query export runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ExportRun
	for rows.Next() {
		run, err := scanExportRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExportRun(s scanner) (*models.ExportRun, error) {
	var run models.ExportRun
	err := s.Scan(
		&run.RunID,
		&run.Sequence,
		&run.Kind,
		&run.ResourceID,
		&run.ItemCount,
		&run.FilePath,
		&run.Error,
		&run.Created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan export run: %w", err)
	}
	return &run, nil
}

var _ models.Repository[*models.ExportRun] = (*ExportRunRepository)(nil)
