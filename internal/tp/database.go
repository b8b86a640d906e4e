package tp

import "tp-go/internal/model"

// Database persists the audit trail of packaging runs and their per-item
// transfer outcomes.
type Database interface {
	// CreateRun inserts a new packaging run record.
	CreateRun(run *model.PackagingRun) error

	// FinishRun resolves a run with its final status and ledger counts.
	FinishRun(id, status string, attempted, succeeded, failed int64) error

	// CreateTransfer inserts one resolved transfer outcome.
	CreateTransfer(transfer *model.Transfer) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int64) ([]*model.PackagingRun, error)

	// ListTransfers returns a run's transfers in recording order.
	ListTransfers(runID string) ([]*model.Transfer, error)

	// Close releases the underlying connection.
	Close() error
}
