package messages

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ferrost/appkit/pkg/errors"
)

func openTestStore(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "messages.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE app_messages (
		code TEXT NOT NULL,
		locale TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (code, locale)
	)`)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSQLSource(t *testing.T) {
	db := openTestStore(t)
	seed := []struct{ code, locale, message string }{
		{"greeting", "en", "hello"},
		{"greeting", "de", "hallo"},
		{"order.shipped", "en", "order {{.id}} shipped"},
	}
	for _, row := range seed {
		if _, err := db.Exec(
			"INSERT INTO app_messages (code, locale, message) VALUES (?, ?, ?)",
			row.code, row.locale, row.message,
		); err != nil {
			t.Fatal(err)
		}
	}

	bundles, err := NewSQLSource(db, "app_messages").Load()
	if err != nil {
		t.Fatal(err)
	}
	if bundles["en"]["greeting"] != "hello" || bundles["de"]["greeting"] != "hallo" {
		t.Errorf("unexpected bundles: %v", bundles)
	}

	r, err := NewFromSources([]Source{NewSQLSource(db, "app_messages")})
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.Resolve("order.shipped", map[string]any{"id": 7}, "en")
	if err != nil {
		t.Fatal(err)
	}
	if got != "order 7 shipped" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestSQLSource_MissingTable(t *testing.T) {
	db := openTestStore(t)

	_, err := NewSQLSource(db, "ghost_table").Load()
	if !errors.Is(err, ErrQueryStore) {
		t.Errorf("expected ErrQueryStore, got %v", err)
	}
}
