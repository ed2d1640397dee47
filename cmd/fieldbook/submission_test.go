package main

import (
	"path/filepath"
	"testing"

	"fieldbook/internal/testsupport"
)

func TestLoadSubmission(t *testing.T) {
	content := `
[static]
before = "/photos/before.jpg"
station_limits = "KM 0+000 - KM 0+500"

[[dynamic]]
during = "/photos/during.jpg"

[[dynamic]]
after = "/photos/after.jpg"
station_limits = "KM 0+500 - KM 1+000"

[[testing]]
name = "Slump Test"
images = ["/photos/slump1.jpg", "/photos/slump2.jpg"]
`
	path := testsupport.WriteText(t, filepath.Join(t.TempDir(), "edit.toml"), content)

	sub, err := loadSubmission(path)
	if err != nil {
		t.Fatalf("loadSubmission: %v", err)
	}

	if sub.Static.Before != "/photos/before.jpg" || sub.Static.StationLimits != "KM 0+000 - KM 0+500" {
		t.Fatalf("static entry wrong: %+v", sub.Static)
	}
	if len(sub.Dynamic) != 2 || sub.Dynamic[0].During != "/photos/during.jpg" || sub.Dynamic[1].After != "/photos/after.jpg" {
		t.Fatalf("dynamic entries wrong: %+v", sub.Dynamic)
	}
	if len(sub.Testing) != 1 || sub.Testing[0].Name != "Slump Test" || len(sub.Testing[0].Images) != 2 {
		t.Fatalf("testing groups wrong: %+v", sub.Testing)
	}
	if sub.Empty() {
		t.Fatal("populated submission must not be empty")
	}
}

func TestLoadSubmissionMissingFile(t *testing.T) {
	if _, err := loadSubmission(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("missing file must error")
	}
}

func TestLoadSubmissionBadTOML(t *testing.T) {
	path := testsupport.WriteText(t, filepath.Join(t.TempDir(), "bad.toml"), "static = [broken")
	if _, err := loadSubmission(path); err == nil {
		t.Fatal("malformed TOML must error")
	}
}
