package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

func TestDumpCollectsChainAndPGFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "customers_store_email_key", TableName: "customers"}
	err := Wrap(CodeAlreadyRegistered, fmt.Errorf("insert customer: %w", pgErr), "Email already registered")

	d := Dump(err)
	if d.Code != CodeAlreadyRegistered {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if d.PGCode != "23505" || d.PGConstraint != "customers_store_email_key" {
		t.Fatalf("pg fields not captured: %+v", d)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d", len(d.Chain))
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || d.Chain != nil {
		t.Fatalf("expected empty dump, got %+v", d)
	}
	if d := Dump(stdErrors.New("x")); d.Code != "" {
		t.Fatalf("untyped error should not carry a code")
	}
}

func TestDumpCollectsSQLiteCodes(t *testing.T) {
	sqliteErr := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
	d := Dump(Wrap(CodeConflict, fmt.Errorf("insert product: %w", sqliteErr), "Product already exists"))

	if d.SQLiteCode != int(sqlite3.ErrConstraint) || d.SQLiteExtendedCode != int(sqlite3.ErrConstraintUnique) {
		t.Fatalf("sqlite codes not captured: %+v", d)
	}
	if d.PGCode != "" {
		t.Fatalf("sqlite error should not fill pg fields: %+v", d)
	}
}
