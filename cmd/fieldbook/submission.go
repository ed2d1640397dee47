package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"fieldbook/internal/reconcile"
)

// submissionFile is the TOML shape accepted by `evidence apply`. It mirrors
// the edited form snapshot: one static entry, ordered dynamic entries, and
// named testing groups.
type submissionFile struct {
	Static  submissionEntry   `toml:"static"`
	Dynamic []submissionEntry `toml:"dynamic"`
	Testing []submissionGroup `toml:"testing"`
}

type submissionEntry struct {
	Before        string `toml:"before"`
	During        string `toml:"during"`
	After         string `toml:"after"`
	StationLimits string `toml:"station_limits"`
}

type submissionGroup struct {
	Name   string   `toml:"name"`
	Images []string `toml:"images"`
}

func loadSubmission(path string) (reconcile.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return reconcile.Submission{}, fmt.Errorf("read submission file: %w", err)
	}

	var file submissionFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return reconcile.Submission{}, fmt.Errorf("parse submission file %s: %w", path, err)
	}

	sub := reconcile.Submission{Static: entryValue(file.Static)}
	for _, entry := range file.Dynamic {
		sub.Dynamic = append(sub.Dynamic, entryValue(entry))
	}
	for _, group := range file.Testing {
		sub.Testing = append(sub.Testing, reconcile.Group{Name: group.Name, Images: group.Images})
	}
	return sub, nil
}

func entryValue(entry submissionEntry) reconcile.Entry {
	return reconcile.Entry{
		Before:        entry.Before,
		During:        entry.During,
		After:         entry.After,
		StationLimits: entry.StationLimits,
	}
}
