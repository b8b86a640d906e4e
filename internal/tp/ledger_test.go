package tp

import (
	"errors"
	"reflect"
	"testing"
)

func TestLedger_RecordAttempt(t *testing.T) {
	t.Run("records in order", func(t *testing.T) {
		l := NewLedger()

		if err := l.RecordAttempt(CategoryPST, []string{"a.pst"}); err != nil {
			t.Fatalf("RecordAttempt() error = %v", err)
		}
		if err := l.RecordAttempt(CategoryMime, []string{"m/1.eml", "m/2.eml"}); err != nil {
			t.Fatalf("RecordAttempt() error = %v", err)
		}

		want := []string{"a.pst", "m/1.eml", "m/2.eml"}
		if got := l.Attempted(); !reflect.DeepEqual(got, want) {
			t.Errorf("Attempted() = %v, want %v", got, want)
		}
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		l := NewLedger()

		if err := l.RecordAttempt(CategoryPST, []string{"a.pst"}); err != nil {
			t.Fatalf("RecordAttempt() error = %v", err)
		}

		err := l.RecordAttempt(CategoryMetadata, []string{"b.txt", "a.pst"})
		if !errors.Is(err, ErrDuplicateAttempt) {
			t.Fatalf("RecordAttempt() error = %v, want ErrDuplicateAttempt", err)
		}

		// The failed batch must not be partially recorded.
		want := []string{"a.pst"}
		if got := l.Attempted(); !reflect.DeepEqual(got, want) {
			t.Errorf("Attempted() = %v, want %v", got, want)
		}
	})
}

func TestLedger_RecordOutcome(t *testing.T) {
	l := NewLedger()
	if err := l.RecordAttempt(CategoryEAXS, []string{"x.xml", "y.xml", "z.xml"}); err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}

	l.RecordOutcome("x.xml", true)
	l.RecordOutcome("y.xml", false)
	l.RecordOutcome("z.xml", true)

	if got, want := l.Succeeded(), []string{"x.xml", "z.xml"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Succeeded() = %v, want %v", got, want)
	}
	if got, want := l.Failed(), []string{"y.xml"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Failed() = %v, want %v", got, want)
	}

	outcomes := l.Outcomes()
	if len(outcomes) != 3 {
		t.Fatalf("len(Outcomes()) = %d, want 3", len(outcomes))
	}
	if outcomes[1].Category != CategoryEAXS || outcomes[1].Passed {
		t.Errorf("Outcomes()[1] = %+v, want failed eaxs item", outcomes[1])
	}
}

func TestLedger_IsConsistent(t *testing.T) {
	tests := []struct {
		name  string
		setup func(l *Ledger)
		want  bool
	}{
		{
			name:  "empty ledger",
			setup: func(l *Ledger) {},
			want:  true,
		},
		{
			name: "all passed",
			setup: func(l *Ledger) {
				l.RecordAttempt(CategoryPST, []string{"a", "b"})
				l.RecordOutcome("a", true)
				l.RecordOutcome("b", true)
			},
			want: true,
		},
		{
			name: "one failed",
			setup: func(l *Ledger) {
				l.RecordAttempt(CategoryPST, []string{"a", "b"})
				l.RecordOutcome("a", true)
				l.RecordOutcome("b", false)
			},
			want: false,
		},
		{
			name: "unresolved attempt",
			setup: func(l *Ledger) {
				l.RecordAttempt(CategoryPST, []string{"a", "b"})
				l.RecordOutcome("a", true)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger()
			tt.setup(l)
			if got := l.IsConsistent(); got != tt.want {
				t.Errorf("IsConsistent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLedger_Stats(t *testing.T) {
	l := NewLedger()
	l.RecordAttempt(CategoryMime, []string{"a", "b", "c"})
	l.RecordOutcome("a", true)
	l.RecordOutcome("b", false)
	l.RecordOutcome("c", true)

	want := map[string]int{"attempted": 3, "succeeded": 2, "failed": 1}
	if got := l.Stats(); !reflect.DeepEqual(got, want) {
		t.Errorf("Stats() = %v, want %v", got, want)
	}
}
