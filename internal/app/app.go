// Package app is the application layer between the CLI and the packaging
// service. It constructs all dependencies from config and manages their
// lifecycle on Close.
package app

import (
	"fmt"
	"os"
	"time"

	"tp-go/internal/aip"
	"tp-go/internal/config"
	"tp-go/internal/database"
	"tp-go/internal/fs"
	"tp-go/internal/model"
	"tp-go/internal/snapshot"
	"tp-go/internal/tp"
)

// TPApp wires the packaging service together from config. The caller must
// call Close when done.
type TPApp struct {
	cfg     *config.Config
	db      tp.Database
	fsmgr   tp.FilesystemManager
	service *tp.PackagerService
	logFile *os.File
}

// NewTPApp creates a fully wired TPApp from the given config.
func NewTPApp(cfg *config.Config) (*TPApp, error) {
	fsmgr := fs.NewOSFilesystemManager()

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	adapted := &slogAdapter{l: logger}
	newBuilder := func(accountID, sourceDir, destinationDir string) (tp.AIPBuilder, error) {
		return aip.NewBuilder(accountID, sourceDir, destinationDir, fsmgr, adapted)
	}

	svc := tp.NewPackagerService(db, newBuilder, adapted, tp.RealClock{}, tp.UUIDGenerator{})

	return &TPApp{
		cfg:     cfg,
		db:      db,
		fsmgr:   fsmgr,
		service: svc,
		logFile: logFile,
	}, nil
}

// Package runs the AIP packager for one account and returns the overall
// validity. Empty sourceDir or destinationDir fall back to the configured
// hot folder and destination.
func (a *TPApp) Package(accountID, sourceDir, destinationDir string) (bool, error) {
	if sourceDir == "" {
		sourceDir = a.cfg.HotFolder
	}
	if destinationDir == "" {
		destinationDir = a.cfg.Destination
	}
	return a.service.Package(accountID, sourceDir, destinationDir)
}

// History returns the most recent packaging runs, newest first.
func (a *TPApp) History(limit int64) ([]*model.PackagingRun, error) {
	return a.service.History(limit)
}

// Transfers returns the per-item outcomes recorded for a run.
func (a *TPApp) Transfers(runID string) ([]*model.Transfer, error) {
	return a.service.Transfers(runID)
}

// InspectEntry is one row of an Inspect listing.
type InspectEntry struct {
	RelPath  string
	Size     int64
	MIMEType string
	Modified string
	Checksum string
}

// Inspect snapshots the tree rooted at path and returns a row per file,
// pre-order, with checksums computed under the configured algorithm. This
// is the listing a downstream metadata renderer consumes.
func (a *TPApp) Inspect(path string) ([]InspectEntry, error) {
	algorithm := tp.Algorithm(a.cfg.Checksum.Algorithm)
	if algorithm == "" {
		algorithm = tp.DefaultAlgorithm
	}
	if !algorithm.Valid() {
		return nil, fmt.Errorf("%w: %q", tp.ErrUnsupportedAlgorithm, a.cfg.Checksum.Algorithm)
	}

	root, err := snapshot.NewTreeSnapshot(path)
	if err != nil {
		return nil, err
	}

	files, err := root.RFiles()
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", path, err)
	}

	entries := make([]InspectEntry, 0, len(files))
	for _, f := range files {
		digest, err := f.Checksum(algorithm)
		if err != nil {
			return nil, err
		}
		entries = append(entries, InspectEntry{
			RelPath:  f.RelPath(),
			Size:     f.Size(),
			MIMEType: f.MIMEType(),
			Modified: f.Modified(),
			Checksum: digest,
		})
	}
	return entries, nil
}

// Close releases the database and the log file.
func (a *TPApp) Close() error {
	var firstErr error
	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
