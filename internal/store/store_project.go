package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// LatestProject returns the most recently saved project information record,
// or nil when none has been recorded yet.
func (s *Store) LatestProject(ctx context.Context) (*Project, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT project_id, project_name, location, contractor_name, project_type
         FROM project_informations ORDER BY id DESC LIMIT 1`,
	)
	var p Project
	err := row.Scan(&p.ProjectID, &p.ProjectName, &p.Location, &p.ContractorName, &p.ProjectType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest project: %w", err)
	}
	return &p, nil
}

// SaveProject updates the record matching the project id, inserting a new one
// when no match exists.
func (s *Store) SaveProject(ctx context.Context, p Project) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		row := tx.QueryRowContext(ctx, `SELECT id FROM project_informations WHERE project_id = ? ORDER BY id DESC LIMIT 1`, p.ProjectID)
		err := row.Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(
				ctx,
				`INSERT INTO project_informations (project_id, project_name, location, contractor_name, project_type)
                 VALUES (?, ?, ?, ?, ?)`,
				p.ProjectID, p.ProjectName, p.Location, p.ContractorName, p.ProjectType,
			)
			if err != nil {
				return fmt.Errorf("insert project: %w", err)
			}
		case err != nil:
			return fmt.Errorf("find project: %w", err)
		default:
			_, err = tx.ExecContext(
				ctx,
				`UPDATE project_informations
                 SET project_name = ?, location = ?, contractor_name = ?, project_type = ?
                 WHERE id = ?`,
				p.ProjectName, p.Location, p.ContractorName, p.ProjectType, id,
			)
			if err != nil {
				return fmt.Errorf("update project: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ProjectID, err)
	}
	return nil
}
