package errors

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestDumpFlattensPQError(t *testing.T) {
	pqErr := &pq.Error{
		Code:       "23505",
		Constraint: "users_email_key",
		Table:      "users",
		Column:     "email",
		Detail:     "Key (email)=(asha@example.com) already exists.",
		Message:    "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeConflict, fmt.Errorf("creating user: %w", pqErr), "email already registered")

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("unexpected code %q", d.Code)
	}
	if d.PGCode != "23505" {
		t.Fatalf("unexpected pg code %q", d.PGCode)
	}
	if d.PGConstraint != "users_email_key" {
		t.Fatalf("unexpected constraint %q", d.PGConstraint)
	}
	if d.PGTable != "users" || d.PGColumn != "email" {
		t.Fatalf("unexpected table/column %q/%q", d.PGTable, d.PGColumn)
	}
	if len(d.Chain) == 0 {
		t.Fatal("expected the error chain to be recorded")
	}
}

func TestDumpNilError(t *testing.T) {
	d := Dump(nil)
	if d.TopMessage != "" || d.Code != "" {
		t.Fatalf("expected zero dump, got %+v", d)
	}
}
