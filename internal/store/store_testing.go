package store

import (
	"context"
	"database/sql"
	"fmt"
)

// TestingSnapshot returns every persisted testing row for an item in group
// order, images in insertion order within each group.
func (s *Store) TestingSnapshot(ctx context.Context, key ItemKey) ([]TestingRow, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT test_index, test_name, image_path, upload_date FROM testing_images
         WHERE item_number = ? AND item_name = ? ORDER BY test_index, id`,
		key.Number, key.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("testing snapshot: %w", err)
	}
	defer rows.Close()

	var records []TestingRow
	for rows.Next() {
		var record TestingRow
		if err := rows.Scan(&record.TestIndex, &record.TestName, &record.ImagePath, &record.UploadDate); err != nil {
			return nil, fmt.Errorf("scan testing row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ReplaceTestingRows atomically deletes every testing row for the item and
// inserts one row per image per group, groups numbered 1..N in the order
// given, all tagged with today's date.
func (s *Store) ReplaceTestingRows(ctx context.Context, key ItemKey, groups []TestingGroup) error {
	today := s.today()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(
			ctx,
			`DELETE FROM testing_images WHERE item_number = ? AND item_name = ?`,
			key.Number, key.Name,
		); err != nil {
			return fmt.Errorf("delete testing rows: %w", err)
		}
		for i, group := range groups {
			for _, image := range group.Images {
				if image == "" {
					continue
				}
				if _, err := tx.ExecContext(
					ctx,
					`INSERT INTO testing_images (
                        item_number, item_name, test_index, test_name, image_path, upload_date
                    ) VALUES (?, ?, ?, ?, ?, ?)`,
					key.Number, key.Name, i+1, group.Name, image, today,
				); err != nil {
					return fmt.Errorf("insert testing row %q: %w", group.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace testing rows for %s: %w", key, err)
	}
	return nil
}

// AllTestingRows returns the item's testing images grouped by test name in
// first-seen order, for report assembly. Testing rows carry no reported flag;
// every group appears in every report.
func (s *Store) AllTestingRows(ctx context.Context, key ItemKey) ([]TestingGroup, error) {
	records, err := s.TestingSnapshot(ctx, key)
	if err != nil {
		return nil, err
	}

	var groups []TestingGroup
	position := make(map[string]int)
	for _, record := range records {
		idx, ok := position[record.TestName]
		if !ok {
			idx = len(groups)
			position[record.TestName] = idx
			groups = append(groups, TestingGroup{Name: record.TestName})
		}
		groups[idx].Images = append(groups[idx].Images, record.ImagePath)
	}
	return groups, nil
}
