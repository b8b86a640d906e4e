package tp

import (
	"fmt"

	"tp-go/internal/model"
)

// AIPBuilder constructs the AIP folder structure for one account and reports
// on the outcome. The concrete implementation lives in internal/aip.
type AIPBuilder interface {
	// Make performs the categorized move into the destination layout.
	Make() error

	// Validate reports whether the resulting structure appears valid.
	Validate() bool

	// Ledger returns the run's transfer ledger.
	Ledger() *Ledger

	// Root returns the destination account folder path.
	Root() string
}

// BuilderFactory creates an AIPBuilder for one account and one run.
// Construction fails with ErrNotADirectory when either folder is missing.
type BuilderFactory func(accountID, sourceDir, destinationDir string) (AIPBuilder, error)

// PackagerService is the orchestration layer that coordinates the AIP
// builder and the audit database to perform one packaging run.
type PackagerService struct {
	database   Database
	newBuilder BuilderFactory
	logger     Logger
	clock      Clock
	idgen      IDGenerator
}

// NewPackagerService creates a PackagerService with the provided dependencies.
func NewPackagerService(database Database, newBuilder BuilderFactory, logger Logger, clock Clock, idgen IDGenerator) *PackagerService {
	return &PackagerService{
		database:   database,
		newBuilder: newBuilder,
		logger:     logger,
		clock:      clock,
		idgen:      idgen,
	}
}

// Package builds the AIP for one account and returns its overall validity.
// The run and every resolved transfer are recorded in the audit database.
// Structural failures (bad paths, destination collision, folder creation)
// abort the run with an error; per-item move failures do not — they surface
// as an invalid run instead.
func (s *PackagerService) Package(accountID, sourceDir, destinationDir string) (bool, error) {
	run := &model.PackagingRun{
		ID:             s.idgen.New(),
		AccountID:      accountID,
		SourceDir:      sourceDir,
		DestinationDir: destinationDir,
		Status:         model.RunStarted,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.database.CreateRun(run); err != nil {
		return false, fmt.Errorf("recording packaging run: %w", err)
	}

	s.logger.Info("packaging account", "account", accountID, "source", sourceDir, "destination", destinationDir)

	builder, err := s.newBuilder(accountID, sourceDir, destinationDir)
	if err != nil {
		s.finishRun(run.ID, model.RunError, nil)
		return false, fmt.Errorf("creating AIP builder: %w", err)
	}

	if err := builder.Make(); err != nil {
		s.recordTransfers(run.ID, builder.Ledger())
		s.finishRun(run.ID, model.RunError, builder.Ledger())
		return false, fmt.Errorf("building AIP: %w", err)
	}

	valid := builder.Validate()
	s.recordTransfers(run.ID, builder.Ledger())

	status := model.RunValid
	if !valid {
		status = model.RunInvalid
	}
	s.finishRun(run.ID, status, builder.Ledger())

	stats := builder.Ledger().Stats()
	s.logger.Info("packaging finished",
		"account", accountID,
		"valid", valid,
		"attempted", stats["attempted"],
		"succeeded", stats["succeeded"],
		"failed", stats["failed"])

	return valid, nil
}

// History returns the most recent packaging runs, newest first.
func (s *PackagerService) History(limit int64) ([]*model.PackagingRun, error) {
	return s.database.ListRuns(limit)
}

// Transfers returns the per-item outcomes recorded for a run.
func (s *PackagerService) Transfers(runID string) ([]*model.Transfer, error) {
	return s.database.ListTransfers(runID)
}

// recordTransfers persists every resolved ledger outcome. Persistence
// failures are logged, not propagated: the packaging result stands even if
// part of the audit trail could not be written.
func (s *PackagerService) recordTransfers(runID string, ledger *Ledger) {
	for _, outcome := range ledger.Outcomes() {
		transfer := &model.Transfer{
			ID:        s.idgen.New(),
			RunID:     runID,
			Category:  string(outcome.Category),
			ItemPath:  outcome.Path,
			Passed:    outcome.Passed,
			CreatedAt: s.clock.Now(),
		}
		if err := s.database.CreateTransfer(transfer); err != nil {
			s.logger.Warn("recording transfer outcome", "path", outcome.Path, "error", err)
		}
	}
}

func (s *PackagerService) finishRun(id, status string, ledger *Ledger) {
	var attempted, succeeded, failed int64
	if ledger != nil {
		stats := ledger.Stats()
		attempted = int64(stats["attempted"])
		succeeded = int64(stats["succeeded"])
		failed = int64(stats["failed"])
	}
	if err := s.database.FinishRun(id, status, attempted, succeeded, failed); err != nil {
		s.logger.Warn("finishing packaging run", "run", id, "error", err)
	}
}
