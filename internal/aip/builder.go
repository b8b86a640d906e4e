// Package aip constructs the canonical Archival Information Package layout
// for one email account: <destination>/<account>/{pst,mime,eaxs,metadata}.
package aip

import (
	"fmt"
	"path/filepath"
	"strings"

	"tp-go/internal/tp"
)

// Builder moves categorized subsets of a hot-folder tree into the fixed AIP
// layout and records every transfer in a ledger. One Builder serves one
// account for one run; Make against an already-populated destination is a
// hard failure so two runs are never merged.
type Builder struct {
	accountID      string
	sourceDir      string
	destinationDir string

	// Source category paths, keyed by naming convention.
	srcPST      string
	srcMime     string
	srcEAXS     string
	srcMetadata string

	// Destination layout under <destinationDir>/<accountID>.
	root        string
	pstDir      string
	mimeDir     string
	eaxsDir     string
	metadataDir string

	ledger *tp.Ledger
	fsmgr  tp.FilesystemManager
	logger tp.Logger
}

// NewBuilder creates a Builder for one account. Both sourceDir and
// destinationDir must exist; otherwise construction fails with
// ErrNotADirectory.
func NewBuilder(accountID, sourceDir, destinationDir string, fsmgr tp.FilesystemManager, logger tp.Logger) (*Builder, error) {
	if !fsmgr.IsDir(sourceDir) {
		return nil, fmt.Errorf("%w: source %s", tp.ErrNotADirectory, sourceDir)
	}
	if !fsmgr.IsDir(destinationDir) {
		return nil, fmt.Errorf("%w: destination %s", tp.ErrNotADirectory, destinationDir)
	}

	root := filepath.Join(destinationDir, accountID)

	return &Builder{
		accountID:      accountID,
		sourceDir:      sourceDir,
		destinationDir: destinationDir,

		srcPST:      filepath.Join(sourceDir, "pst"),
		srcMime:     filepath.Join(sourceDir, "mime", accountID),
		srcEAXS:     filepath.Join(sourceDir, "eaxs", accountID),
		srcMetadata: filepath.Join(sourceDir, "metadata", accountID),

		root:        root,
		pstDir:      filepath.Join(root, "pst"),
		mimeDir:     filepath.Join(root, "mime"),
		eaxsDir:     filepath.Join(root, "eaxs"),
		metadataDir: filepath.Join(root, "metadata"),

		ledger: tp.NewLedger(),
		fsmgr:  fsmgr,
		logger: logger,
	}, nil
}

// Ledger returns the run's transfer ledger.
func (b *Builder) Ledger() *tp.Ledger { return b.ledger }

// Root returns the destination account folder path.
func (b *Builder) Root() string { return b.root }

// Make creates the AIP skeleton and moves source data into it, one category
// at a time in the fixed order pst, mime, eaxs, metadata. A single item's
// move failure is recorded in the ledger and does not stop the run;
// structural failures (destination collision, folder creation) abort it.
func (b *Builder) Make() error {
	if b.sourceDir == b.destinationDir {
		b.logger.Info("source and destination are the same; no data will be moved")
		return nil
	}

	if b.fsmgr.IsDir(b.root) {
		return fmt.Errorf("%w: %s", tp.ErrAlreadyExists, b.root)
	}

	b.logger.Info("creating AIP structure", "root", b.root)
	for _, dir := range []string{b.root, b.pstDir, b.mimeDir, b.eaxsDir, b.metadataDir} {
		if err := b.fsmgr.MakeDir(dir); err != nil {
			return fmt.Errorf("creating folder %s: %w", dir, err)
		}
	}

	if err := b.moveMatchingFiles(tp.CategoryPST, b.srcPST, b.pstDir); err != nil {
		return err
	}
	if err := b.moveFolderContents(tp.CategoryMime, b.srcMime, b.mimeDir); err != nil {
		return err
	}
	if err := b.moveFolderContents(tp.CategoryEAXS, b.srcEAXS, b.eaxsDir); err != nil {
		return err
	}
	if err := b.moveFolderContents(tp.CategoryMetadata, b.srcMetadata, b.metadataDir); err != nil {
		return err
	}

	// Stray files directly under the hot folder that match the account id
	// are optional metadata.
	if err := b.moveMatchingFiles(tp.CategoryMetadata, b.sourceDir, b.metadataDir); err != nil {
		return err
	}

	stats := b.ledger.Stats()
	b.logger.Info("data transfer stats",
		"attempted", stats["attempted"],
		"succeeded", stats["succeeded"],
		"failed", stats["failed"])
	return nil
}

// Validate reports whether the AIP structure appears valid: the account
// root exists, every attempted transfer succeeded, and the required mime
// and eaxs folders exist and are non-empty. It never mutates state and may
// be called any number of times, including before Make.
func (b *Builder) Validate() bool {
	if !b.fsmgr.IsDir(b.root) {
		b.logger.Warn("AIP root does not exist; try Make first", "root", b.root)
		return false
	}

	valid := true

	if !b.ledger.IsConsistent() {
		b.logger.Warn("not all attempted transfers succeeded", "failed", b.ledger.Failed())
		valid = false
	}

	for _, required := range []string{b.mimeDir, b.eaxsDir} {
		if !b.fsmgr.IsDir(required) {
			b.logger.Warn("missing required folder", "folder", required)
			valid = false
			continue
		}
		entries, err := b.fsmgr.List(required)
		if err != nil || len(entries) == 0 {
			b.logger.Warn("no data in required folder", "folder", required)
			valid = false
		}
	}

	if valid {
		b.logger.Info("AIP structure appears to be valid", "root", b.root)
	} else {
		b.logger.Warn("AIP structure appears to be invalid", "root", b.root)
	}
	return valid
}

// moveMatchingFiles moves the regular files directly under srcDir whose
// basename (without extension) equals the account id.
func (b *Builder) moveMatchingFiles(category tp.Category, srcDir, destDir string) error {
	candidates, err := b.findCandidates(srcDir, func(name string, isDir bool) bool {
		if isDir {
			return false
		}
		return strings.TrimSuffix(name, filepath.Ext(name)) == b.accountID
	})
	if err != nil || candidates == nil {
		return err
	}
	return b.moveItems(category, candidates, destDir)
}

// moveFolderContents moves every immediate entry of srcDir — the
// folder-unit categories — then removes the emptied srcDir itself.
func (b *Builder) moveFolderContents(category tp.Category, srcDir, destDir string) error {
	candidates, err := b.findCandidates(srcDir, func(string, bool) bool { return true })
	if err != nil || candidates == nil {
		return err
	}

	if err := b.moveItems(category, candidates, destDir); err != nil {
		return err
	}

	// Hot-folder cleanup is best effort: the AIP move already stands even
	// if the emptied source folder lingers.
	if err := b.fsmgr.RemoveDirIfEmpty(srcDir); err != nil {
		b.logger.Warn("cannot remove source folder", "folder", srcDir, "error", err)
	}
	return nil
}

// findCandidates lists srcDir and returns the entries accepted by keep.
// A missing srcDir or an empty candidate set is not an error; both return a
// nil slice, and the category is simply skipped.
func (b *Builder) findCandidates(srcDir string, keep func(name string, isDir bool) bool) ([]string, error) {
	if !b.fsmgr.IsDir(srcDir) {
		b.logger.Info("cannot find source folder; skipping", "folder", srcDir)
		return nil, nil
	}

	entries, err := b.fsmgr.List(srcDir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", srcDir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if keep(entry.Name(), entry.IsDir()) {
			candidates = append(candidates, filepath.Join(srcDir, entry.Name()))
		}
	}

	if len(candidates) == 0 {
		b.logger.Info("no candidate data to move", "folder", srcDir)
	}
	return candidates, nil
}

// moveItems records the candidates as attempted, then moves each one
// independently: a failed move is logged and recorded, never propagated.
func (b *Builder) moveItems(category tp.Category, candidates []string, destDir string) error {
	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = filepath.ToSlash(c)
	}
	if err := b.ledger.RecordAttempt(category, paths); err != nil {
		return err
	}

	for i, src := range candidates {
		dest := filepath.Join(destDir, filepath.Base(src))
		b.logger.Info("moving item", "category", string(category), "from", paths[i], "to", filepath.ToSlash(dest))

		if err := b.fsmgr.Move(src, dest); err != nil {
			b.logger.Warn("cannot move item", "item", paths[i], "error", err)
			b.ledger.RecordOutcome(paths[i], false)
			continue
		}
		b.ledger.RecordOutcome(paths[i], true)
	}
	return nil
}

// Compile-time check that Builder satisfies the service-facing interface.
var _ tp.AIPBuilder = (*Builder)(nil)
