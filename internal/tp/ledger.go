package tp

import "fmt"

// Category names one of the naming-convention-defined subsets of the hot
// folder that moves into the AIP as a unit.
type Category string

const (
	CategoryPST      Category = "pst"
	CategoryMime     Category = "mime"
	CategoryEAXS     Category = "eaxs"
	CategoryMetadata Category = "metadata"
)

// Categories lists all categories in the fixed processing order.
var Categories = []Category{CategoryPST, CategoryMime, CategoryEAXS, CategoryMetadata}

// Outcome is the resolved result of one transfer attempt.
type Outcome struct {
	Path     string
	Category Category
	Passed   bool
}

// Ledger records the transfer attempts and outcomes of one packaging run.
// It is exclusively owned by one Builder for the duration of one Make call
// and is not safe for concurrent use.
type Ledger struct {
	attempted []string
	succeeded []string
	failed    []string

	categories map[string]Category
	outcomes   []Outcome
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{categories: make(map[string]Category)}
}

// RecordAttempt registers a batch of candidate item paths for one category.
// An item path may only ever be attempted once per ledger; a duplicate is a
// programmer error reported as ErrDuplicateAttempt.
func (l *Ledger) RecordAttempt(category Category, paths []string) error {
	for _, p := range paths {
		if _, ok := l.categories[p]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateAttempt, p)
		}
	}
	for _, p := range paths {
		l.categories[p] = category
		l.attempted = append(l.attempted, p)
	}
	return nil
}

// RecordOutcome resolves one attempted item as succeeded or failed.
func (l *Ledger) RecordOutcome(path string, passed bool) {
	if passed {
		l.succeeded = append(l.succeeded, path)
	} else {
		l.failed = append(l.failed, path)
	}
	l.outcomes = append(l.outcomes, Outcome{
		Path:     path,
		Category: l.categories[path],
		Passed:   passed,
	})
}

// IsConsistent reports whether every attempted item succeeded: attempted and
// succeeded are set-equal and nothing failed.
func (l *Ledger) IsConsistent() bool {
	if len(l.failed) != 0 {
		return false
	}
	if len(l.attempted) != len(l.succeeded) {
		return false
	}
	seen := make(map[string]bool, len(l.succeeded))
	for _, p := range l.succeeded {
		seen[p] = true
	}
	for _, p := range l.attempted {
		if !seen[p] {
			return false
		}
	}
	return true
}

// Attempted returns the attempted item paths in recording order.
func (l *Ledger) Attempted() []string { return append([]string(nil), l.attempted...) }

// Succeeded returns the succeeded item paths in recording order.
func (l *Ledger) Succeeded() []string { return append([]string(nil), l.succeeded...) }

// Failed returns the failed item paths in recording order.
func (l *Ledger) Failed() []string { return append([]string(nil), l.failed...) }

// Outcomes returns every resolved transfer in recording order.
func (l *Ledger) Outcomes() []Outcome { return append([]Outcome(nil), l.outcomes...) }

// Stats returns the number of attempted, succeeded and failed items.
func (l *Ledger) Stats() map[string]int {
	return map[string]int{
		"attempted": len(l.attempted),
		"succeeded": len(l.succeeded),
		"failed":    len(l.failed),
	}
}
