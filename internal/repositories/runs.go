package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tracksheet/internal/models"
	"github.com/desertthunder/tracksheet/internal/shared"
)

// DefaultRecentLimit is used by [RunRepository.Recent] when limit is not positive.
const DefaultRecentLimit = 10

// RunRepository implements [models.Repository] for [models.Run] history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new [RunRepository] with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run with a generated ID and sequence
func (r *RunRepository) Create(run *models.Run) error {
	run.SetID(shared.GenerateID())
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	run.SetSequence(sequence)

	query := `
		INSERT INTO runs (id, sequence, variant, source, worksheet, row_count, url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, run.ID(), sequence, string(run.Variant()), run.Source(), run.Worksheet(), run.RowCount(), run.URL(), run.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `
		SELECT id, sequence, variant, source, worksheet, row_count, url, created_at
		FROM runs
		WHERE id = ?
	`

	run, err := scanRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first
func (r *RunRepository) Recent(limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	query := `
		SELECT id, sequence, variant, source, worksheet, row_count, url, created_at
		FROM runs
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.Run, error) {
	var (
		id        string
		sequence  int
		variant   string
		source    string
		worksheet string
		rowCount  int
		url       string
		createdAt time.Time
	)

	if err := s.Scan(&id, &sequence, &variant, &source, &worksheet, &rowCount, &url, &createdAt); err != nil {
		return nil, err
	}

	run := models.NewRun(models.Variant(variant), source, worksheet, rowCount, url)
	run.SetID(id)
	run.SetSequence(sequence)
	run.SetCreatedAt(createdAt)
	return run, nil
}
