package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddItems records selected construction items. Items already present for the
// same (number, name) key are left untouched.
func (s *Store) AddItems(ctx context.Context, items []Item) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, item := range items {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT OR IGNORE INTO selected_construction_items (item_number, item_name, quantity, unit)
                 VALUES (?, ?, ?, ?)`,
				item.Number, item.Name, item.Quantity, item.Unit,
			); err != nil {
				return fmt.Errorf("insert item %s: %w", item.Key(), err)
			}
		}
		return nil
	})
}

// ListItems returns every selected construction item in insertion order.
func (s *Store) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT item_number, item_name, quantity, unit FROM selected_construction_items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.Number, &item.Name, &item.Quantity, &item.Unit); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItem fetches one selected item by key, or nil when it was never selected.
func (s *Store) GetItem(ctx context.Context, key ItemKey) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT item_number, item_name, quantity, unit FROM selected_construction_items
         WHERE item_number = ? AND item_name = ?`,
		key.Number, key.Name,
	)
	var item Item
	err := row.Scan(&item.Number, &item.Name, &item.Quantity, &item.Unit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", key, err)
	}
	return &item, nil
}
