package store

import (
	"context"
	"database/sql"
	"fmt"
)

const constructionColumns = "row_index, image_before, image_during, image_after, station_limits, report_generated, upload_date"

// ConstructionSnapshot returns the persisted construction rows for an item,
// keyed by row index.
func (s *Store) ConstructionSnapshot(ctx context.Context, key ItemKey) (map[int]ConstructionRow, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+constructionColumns+` FROM completed_construction_images
         WHERE item_number = ? AND item_name = ? ORDER BY row_index`,
		key.Number, key.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("construction snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := make(map[int]ConstructionRow)
	for rows.Next() {
		row, err := scanConstructionRow(rows)
		if err != nil {
			return nil, err
		}
		snapshot[row.RowIndex] = row
	}
	return snapshot, rows.Err()
}

// ReplaceConstructionRows atomically deletes every construction row for the
// item and inserts the given list. Each row is tagged with today's date; the
// report_generated value is whatever the caller decided (the reconcile
// engine carries or resets it, not this store).
func (s *Store) ReplaceConstructionRows(ctx context.Context, key ItemKey, rows []ConstructionRow) error {
	today := s.today()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(
			ctx,
			`DELETE FROM completed_construction_images WHERE item_number = ? AND item_name = ?`,
			key.Number, key.Name,
		); err != nil {
			return fmt.Errorf("delete construction rows: %w", err)
		}
		for _, row := range rows {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO completed_construction_images (
                    item_number, item_name, row_index,
                    image_before, image_during, image_after,
                    station_limits, report_generated, upload_date
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				key.Number,
				key.Name,
				row.RowIndex,
				nullableString(row.ImageBefore),
				nullableString(row.ImageDuring),
				nullableString(row.ImageAfter),
				row.StationLimits,
				boolToInt(row.ReportGenerated),
				today,
			); err != nil {
				return fmt.Errorf("insert construction row %d: %w", row.RowIndex, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace construction rows for %s: %w", key, err)
	}
	return nil
}

// UnreportedConstructionRows returns rows with report_generated = false,
// the static row (index 0) separated from the dynamic rows.
func (s *Store) UnreportedConstructionRows(ctx context.Context, key ItemKey) (*ConstructionRow, []ConstructionRow, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+constructionColumns+` FROM completed_construction_images
         WHERE item_number = ? AND item_name = ? AND report_generated = 0
         ORDER BY row_index`,
		key.Number, key.Name,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("unreported construction rows: %w", err)
	}
	defer rows.Close()

	var static *ConstructionRow
	var dynamic []ConstructionRow
	for rows.Next() {
		row, err := scanConstructionRow(rows)
		if err != nil {
			return nil, nil, err
		}
		if row.RowIndex == 0 {
			static = &row
			continue
		}
		dynamic = append(dynamic, row)
	}
	return static, dynamic, rows.Err()
}

// MarkConstructionReported sets report_generated = true for exactly the given
// row indices. Call only after a report containing those rows was saved.
func (s *Store) MarkConstructionReported(ctx context.Context, key ItemKey, rowIndexes []int) error {
	if len(rowIndexes) == 0 {
		return nil
	}
	args := make([]any, 0, len(rowIndexes)+2)
	args = append(args, key.Number, key.Name)
	for _, idx := range rowIndexes {
		args = append(args, idx)
	}
	query := `UPDATE completed_construction_images SET report_generated = 1
        WHERE item_number = ? AND item_name = ? AND row_index IN (` + makePlaceholders(len(rowIndexes)) + `)`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark construction reported for %s: %w", key, err)
	}
	return nil
}

func scanConstructionRow(scanner interface{ Scan(dest ...any) error }) (ConstructionRow, error) {
	var (
		rowIndex      int
		before        sql.NullString
		during        sql.NullString
		after         sql.NullString
		stationLimits string
		reported      int
		uploadDate    string
	)
	if err := scanner.Scan(&rowIndex, &before, &during, &after, &stationLimits, &reported, &uploadDate); err != nil {
		return ConstructionRow{}, fmt.Errorf("scan construction row: %w", err)
	}
	return ConstructionRow{
		RowIndex:        rowIndex,
		ImageBefore:     before.String,
		ImageDuring:     during.String,
		ImageAfter:      after.String,
		StationLimits:   stationLimits,
		ReportGenerated: reported != 0,
		UploadDate:      uploadDate,
	}, nil
}
