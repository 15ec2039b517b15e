package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"vkfcheck/internal/check"
	ckerrors "vkfcheck/internal/errors"
)

// minPrefixLen is the shortest id prefix Get accepts.
const minPrefixLen = 4

// timeLayout is fixed width so that created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one saved check result.
type Run struct {
	ID               string      `json:"id"`
	CreatedAt        time.Time   `json:"createdAt"`
	ModelPath        string      `json:"modelPath"`
	Schema           string      `json:"schema"`
	HeightM          *float64    `json:"heightM"`
	HeightCategory   string      `json:"heightCategory"`
	TotalAreaM2      *float64    `json:"totalAreaM2"`
	SmallBuilding    string      `json:"smallBuilding,omitempty"`
	Spaces           int         `json:"spaces"`
	UnassignedSpaces int         `json:"unassignedSpaces"`
	ProjectNumber    string      `json:"projectNumber,omitempty"`
	ProjectName      string      `json:"projectName,omitempty"`
	ToolVersion      string      `json:"toolVersion,omitempty"`
	Storeys          []StoreyRow `json:"storeys,omitempty"`
}

// StoreyRow is one storey of a run, in report order.
type StoreyRow struct {
	Name       string   `json:"name"`
	ElevationM *float64 `json:"elevationM"`
	AreaM2     float64  `json:"areaM2"`
	Comment    string   `json:"comment,omitempty"`
}

// NewRun converts a check report into an unsaved run.
func NewRun(report *check.Report) *Run {
	r := &Run{
		ModelPath:        report.ModelPath,
		Schema:           report.Schema,
		HeightM:          report.Height.Rounded(),
		HeightCategory:   report.Height.Category,
		TotalAreaM2:      report.Area.RoundedTotal(),
		SmallBuilding:    report.Area.SmallBuilding,
		Spaces:           report.Area.Spaces,
		UnassignedSpaces: report.Area.Unassigned,
	}
	for _, s := range report.Area.Storeys {
		r.Storeys = append(r.Storeys, StoreyRow{
			Name:       s.Name,
			ElevationM: s.Elevation,
			AreaM2:     s.AreaM2,
			Comment:    s.Comment,
		})
	}
	return r
}

// RunRepository provides CRUD operations for the runs and storey_areas tables
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save inserts a run with its storeys in one transaction. An empty ID is
// replaced by a new UUID and a zero CreatedAt by the current time.
func (r *RunRepository) Save(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (
				id, created_at, model_path, model_schema,
				height_m, height_category, total_area_m2, small_building,
				spaces, unassigned_spaces,
				project_number, project_name, tool_version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			run.CreatedAt.UTC().Format(timeLayout),
			run.ModelPath,
			run.Schema,
			nullFloat(run.HeightM),
			run.HeightCategory,
			nullFloat(run.TotalAreaM2),
			run.SmallBuilding,
			run.Spaces,
			run.UnassignedSpaces,
			run.ProjectNumber,
			run.ProjectName,
			run.ToolVersion,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for i, s := range run.Storeys {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO storey_areas (run_id, position, name, elevation_m, area_m2, comment)
				VALUES (?, ?, ?, ?, ?, ?)
			`, run.ID, i, s.Name, nullFloat(s.ElevationM), s.AreaM2, s.Comment); err != nil {
				return fmt.Errorf("failed to insert storey area: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to save run", err, nil)
	}

	r.db.logger.Debug("run saved", "id", run.ID, "model", run.ModelPath, "storeys", len(run.Storeys))
	return nil
}

const runColumns = `
	id, created_at, model_path, model_schema,
	height_m, height_category, total_area_m2, small_building,
	spaces, unassigned_spaces,
	project_number, project_name, tool_version`

// ListOptions filters List.
type ListOptions struct {
	// Limit caps the number of runs; 0 means no limit.
	Limit int
	// ModelPath restricts the list to one model.
	ModelPath string
	// ProjectNumber restricts the list to one project.
	ProjectNumber string
}

// List returns runs newest first, without their storey rows.
func (r *RunRepository) List(ctx context.Context, opts ListOptions) ([]Run, error) {
	var where []string
	var args []interface{}
	if opts.ModelPath != "" {
		where = append(where, "model_path = ?")
		args = append(args, opts.ModelPath)
	}
	if opts.ProjectNumber != "" {
		where = append(where, "project_number = ?")
		args = append(args, opts.ProjectNumber)
	}

	query := "SELECT" + runColumns + " FROM runs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to list runs", err, nil)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to read run", err, nil)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to list runs", err, nil)
	}
	return runs, nil
}

// Get returns a run with its storeys. id may be a unique prefix of at least
// four characters.
func (r *RunRepository) Get(ctx context.Context, id string) (*Run, error) {
	fullID, err := r.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	run, err := scanRun(r.db.QueryRow(ctx, "SELECT"+runColumns+" FROM runs WHERE id = ?", fullID))
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to read run", err, nil)
	}

	rows, err := r.db.Query(ctx, `
		SELECT name, elevation_m, area_m2, comment
		FROM storey_areas WHERE run_id = ? ORDER BY position
	`, fullID)
	if err != nil {
		return nil, ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to read storey areas", err, nil)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var s StoreyRow
		var elev sql.NullFloat64
		if err := rows.Scan(&s.Name, &elev, &s.AreaM2, &s.Comment); err != nil {
			return nil, ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to read storey area", err, nil)
		}
		s.ElevationM = floatPtr(elev)
		run.Storeys = append(run.Storeys, s)
	}
	if err := rows.Err(); err != nil {
		return nil, ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to read storey areas", err, nil)
	}
	return run, nil
}

// Delete removes a run and its storeys.
func (r *RunRepository) Delete(ctx context.Context, id string) error {
	fullID, err := r.resolveID(ctx, id)
	if err != nil {
		return err
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM storey_areas WHERE run_id = ?",
			"DELETE FROM runs WHERE id = ?",
		} {
			if _, err := tx.ExecContext(ctx, stmt, fullID); err != nil {
				return ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to delete run", err, nil)
			}
		}
		return nil
	})
}

func (r *RunRepository) resolveID(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if len(id) < minPrefixLen {
		return "", notFound(id)
	}

	// Compare the literal prefix; % and _ in user input must not act as wildcards.
	rows, err := r.db.Query(ctx,
		"SELECT id FROM runs WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY id LIMIT 2",
		id, utf8.RuneCountInString(id), id)
	if err != nil {
		return "", ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to look up run", err, nil)
	}
	defer func() { _ = rows.Close() }()

	var matches []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return "", ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to look up run", err, nil)
		}
		if m == id {
			return m, nil
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return "", ckerrors.NewCheckError(ckerrors.StorageFailure, "failed to look up run", err, nil)
	}

	switch len(matches) {
	case 0:
		return "", notFound(id)
	case 1:
		return matches[0], nil
	default:
		return "", ckerrors.NewCheckError(ckerrors.RunNotFound,
			fmt.Sprintf("run id prefix %q is ambiguous", id), nil, nil)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt string
	var height, area sql.NullFloat64

	err := row.Scan(
		&run.ID, &createdAt, &run.ModelPath, &run.Schema,
		&height, &run.HeightCategory, &area, &run.SmallBuilding,
		&run.Spaces, &run.UnassignedSpaces,
		&run.ProjectNumber, &run.ProjectName, &run.ToolVersion,
	)
	if err != nil {
		return nil, err
	}

	run.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	run.HeightM = floatPtr(height)
	run.TotalAreaM2 = floatPtr(area)
	return &run, nil
}

func notFound(id string) error {
	return ckerrors.NewCheckError(ckerrors.RunNotFound, fmt.Sprintf("run not found: %s", id), nil, nil)
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
