package model

import (
	"database/sql"
	"time"
)

// Run statuses.
const (
	RunStarted = "started"
	RunValid   = "valid"
	RunInvalid = "invalid"
	RunError   = "error"
)

// PackagingRun represents one invocation of the AIP packager for one
// account, as persisted in the audit database.
type PackagingRun struct {
	ID             string // UUID
	AccountID      string
	SourceDir      string
	DestinationDir string
	Status         string // started, valid, invalid or error
	Attempted      int64
	Succeeded      int64
	Failed         int64
	CreatedAt      time.Time
	FinishedAt     sql.NullTime
}

// Transfer represents the resolved outcome of one item moved (or not) during
// a packaging run.
type Transfer struct {
	ID        string // UUID
	RunID     string // Foreign key to PackagingRun
	Category  string // pst, mime, eaxs or metadata
	ItemPath  string // Source path of the item, forward-slash separators
	Passed    bool
	CreatedAt time.Time
}
