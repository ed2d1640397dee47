package testsupport

import (
	"context"
	"testing"

	"fieldbook/internal/config"
	"fieldbook/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedItem registers a selected construction item and returns its key.
func SeedItem(t testing.TB, st *store.Store, number, name string) store.ItemKey {
	t.Helper()

	item := store.Item{Number: number, Name: name, Quantity: 1, Unit: "ls"}
	if err := st.AddItems(context.Background(), []store.Item{item}); err != nil {
		t.Fatalf("store.AddItems: %v", err)
	}
	return item.Key()
}

// SeedProject saves a project information record for report headers.
func SeedProject(t testing.TB, st *store.Store) store.Project {
	t.Helper()

	p := store.Project{
		ProjectID:      "PRDP-001",
		ProjectName:    "Farm-to-Market Road Upgrade",
		Location:       "Barangay San Isidro",
		ContractorName: "Acme Builders",
		ProjectType:    "Road",
	}
	if err := st.SaveProject(context.Background(), p); err != nil {
		t.Fatalf("store.SaveProject: %v", err)
	}
	return p
}
