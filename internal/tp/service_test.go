package tp_test

import (
	"errors"
	"path/filepath"
	"testing"

	"tp-go/internal/aip"
	"tp-go/internal/fs"
	"tp-go/internal/model"
	"tp-go/internal/testutil"
	"tp-go/internal/tp"
)

func newTestService(t *testing.T) (*tp.PackagerService, tp.Database) {
	t.Helper()

	db := testutil.NewTestDatabase(t)
	fsmgr := fs.NewOSFilesystemManager()
	logger := tp.NewNopLogger()

	factory := func(accountID, sourceDir, destinationDir string) (tp.AIPBuilder, error) {
		return aip.NewBuilder(accountID, sourceDir, destinationDir, fsmgr, logger)
	}

	svc := tp.NewPackagerService(db, factory, logger, testutil.FixedClock(), testutil.NewStubIDGenerator())
	return svc, db
}

func singleRun(t *testing.T, svc *tp.PackagerService) *model.PackagingRun {
	t.Helper()

	runs, err := svc.History(10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(History()) = %d, want 1", len(runs))
	}
	return runs[0]
}

func TestPackagerService_Package(t *testing.T) {
	source := testutil.StandardHotFolder(t, "acct1")
	dest := t.TempDir()
	svc, _ := newTestService(t)

	valid, err := svc.Package("acct1", source, dest)
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	if !valid {
		t.Error("Package() = false, want valid")
	}

	run := singleRun(t, svc)
	if run.Status != model.RunValid {
		t.Errorf("run status = %q, want %q", run.Status, model.RunValid)
	}
	if run.AccountID != "acct1" {
		t.Errorf("run account = %q, want %q", run.AccountID, "acct1")
	}
	if run.Attempted != 4 || run.Succeeded != 4 || run.Failed != 0 {
		t.Errorf("run counters = %d/%d/%d, want 4/4/0", run.Attempted, run.Succeeded, run.Failed)
	}
	if !run.FinishedAt.Valid {
		t.Error("run has no finish timestamp")
	}

	transfers, err := svc.Transfers(run.ID)
	if err != nil {
		t.Fatalf("Transfers() error = %v", err)
	}
	if len(transfers) != 4 {
		t.Fatalf("len(Transfers()) = %d, want 4", len(transfers))
	}
	categories := make(map[string]bool)
	for _, tr := range transfers {
		if !tr.Passed {
			t.Errorf("transfer %s failed in a clean run", tr.ItemPath)
		}
		categories[tr.Category] = true
	}
	for _, category := range tp.Categories {
		if !categories[string(category)] {
			t.Errorf("no transfer recorded for category %q", category)
		}
	}
}

func TestPackagerService_Package_Invalid(t *testing.T) {
	// No eaxs data, so the run completes but fails validation.
	source := testutil.BuildHotFolder(t, testutil.HotFolder{
		Files: map[string]string{
			"pst/acct1.pst":      "pst",
			"mime/acct1/msg.eml": "m",
		},
	})
	svc, _ := newTestService(t)

	valid, err := svc.Package("acct1", source, t.TempDir())
	if err != nil {
		t.Fatalf("Package() error = %v", err)
	}
	if valid {
		t.Error("Package() = true, want invalid")
	}

	run := singleRun(t, svc)
	if run.Status != model.RunInvalid {
		t.Errorf("run status = %q, want %q", run.Status, model.RunInvalid)
	}
}

func TestPackagerService_Package_BuilderError(t *testing.T) {
	svc, _ := newTestService(t)

	missing := filepath.Join(t.TempDir(), "nope")
	valid, err := svc.Package("acct1", missing, t.TempDir())
	if !errors.Is(err, tp.ErrNotADirectory) {
		t.Fatalf("Package() error = %v, want ErrNotADirectory", err)
	}
	if valid {
		t.Error("Package() = true on builder error")
	}

	// The run is still recorded, marked as errored with nothing attempted.
	run := singleRun(t, svc)
	if run.Status != model.RunError {
		t.Errorf("run status = %q, want %q", run.Status, model.RunError)
	}
	if run.Attempted != 0 {
		t.Errorf("run attempted = %d, want 0", run.Attempted)
	}
}

func TestPackagerService_Package_DestinationCollision(t *testing.T) {
	source := testutil.StandardHotFolder(t, "acct1")
	dest := t.TempDir()
	svc, _ := newTestService(t)

	if _, err := svc.Package("acct1", source, dest); err != nil {
		t.Fatalf("first Package() error = %v", err)
	}

	// The second run hits the existing destination and errors out.
	source2 := testutil.StandardHotFolder(t, "acct1")
	if _, err := svc.Package("acct1", source2, dest); !errors.Is(err, tp.ErrAlreadyExists) {
		t.Fatalf("second Package() error = %v, want ErrAlreadyExists", err)
	}

	runs, err := svc.History(10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(History()) = %d, want 2", len(runs))
	}
	if runs[0].Status != model.RunError {
		t.Errorf("latest run status = %q, want %q", runs[0].Status, model.RunError)
	}
	if runs[1].Status != model.RunValid {
		t.Errorf("first run status = %q, want %q", runs[1].Status, model.RunValid)
	}
}
