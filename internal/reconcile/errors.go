package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"fieldbook/internal/store"
)

var (
	// ErrEmptySubmission rejects a save with no content anywhere. Checked
	// before any I/O.
	ErrEmptySubmission = errors.New("empty submission")

	// ErrReconcileFailed tags any failure inside a reconciliation pass. The
	// original cause (e.g. filestore.ErrSourceNotFound) stays reachable
	// through errors.Is/As.
	ErrReconcileFailed = errors.New("reconciliation failed")
)

// wrap builds an ErrReconcileFailed error carrying the item key and enough
// detail to show the user an actionable message.
func wrap(key store.ItemKey, detail string, err error) error {
	parts := make([]string, 0, 2)
	parts = append(parts, "item "+key.String())
	if detail = strings.TrimSpace(detail); detail != "" {
		parts = append(parts, detail)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReconcileFailed, strings.Join(parts, ": "), err)
	}
	return fmt.Errorf("%w: %s", ErrReconcileFailed, strings.Join(parts, ": "))
}
