package mysql

import (
	"strings"
	"testing"
)

// The driver runs with multiStatements disabled on the default DSN, so every
// schema entry must be a single statement.
func TestSchemaStatementsAreSingleStatements(t *testing.T) {
	if len(schemaStatements) == 0 {
		t.Fatal("no schema statements")
	}
	for i, stmt := range schemaStatements {
		if strings.Contains(stmt, ";") {
			t.Fatalf("statement %d contains a separator, would fail on a default DSN:\n%s", i, stmt)
		}
		if n := strings.Count(stmt, "CREATE TABLE"); n != 1 {
			t.Fatalf("statement %d holds %d CREATE TABLE clauses, want 1", i, n)
		}
	}
}
