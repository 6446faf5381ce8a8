package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type columnInfo struct {
	CID     int            `db:"cid"`
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

func describe(t *testing.T, path string) ([]string, []columnInfo, int) {
	t.Helper()

	db, err := sqlx.Connect(DriverName, path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer db.Close()

	var tables []string
	err = db.Select(&tables, `
        SELECT name FROM sqlite_master
        WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
        ORDER BY name
    `)
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}

	var cols []columnInfo
	if err := db.Select(&cols, "PRAGMA table_info(traceroute_results)"); err != nil {
		t.Fatalf("table info: %v", err)
	}

	var rows int
	if err := db.Get(&rows, "SELECT COUNT(*) FROM traceroute_results"); err != nil {
		t.Fatalf("count rows: %v", err)
	}

	return tables, cols, rows
}

func assertFreshSchema(t *testing.T, path string) []columnInfo {
	t.Helper()

	tables, cols, rows := describe(t, path)
	if !reflect.DeepEqual(tables, []string{"traceroute_results"}) {
		t.Fatalf("tables = %v, want only traceroute_results", tables)
	}

	want := []struct{ name, typ string }{
		{"id", "INTEGER"},
		{"timestamp", "INTEGER"},
		{"connection_name", "TEXT"},
		{"target_ip", "TEXT"},
		{"packet_loss", "REAL"},
	}
	if len(cols) != len(want) {
		t.Fatalf("got %d columns, want %d", len(cols), len(want))
	}
	for i, w := range want {
		if cols[i].Name != w.name || cols[i].Type != w.typ {
			t.Errorf("column %d = %s %s, want %s %s", i, cols[i].Name, cols[i].Type, w.name, w.typ)
		}
	}
	if cols[0].PK != 1 {
		t.Errorf("id is not the primary key")
	}

	if rows != 0 {
		t.Errorf("rows = %d, want 0", rows)
	}
	return cols
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return zap.New(core), logs
}

func assertLogged(t *testing.T, logs *observer.ObservedLogs, path, present, absent string) {
	t.Helper()

	entries := logs.FilterMessage(present).AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("got %d %q entries, want 1", len(entries), present)
	}
	if got := entries[0].ContextMap()["path"]; got != path {
		t.Errorf("logged path = %v, want %s", got, path)
	}
	if n := logs.FilterMessage(absent).Len(); n != 0 {
		t.Errorf("unexpected %q entry", absent)
	}
}

func TestResetWithoutExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traceroute.db")
	logger, logs := observedLogger()

	existed, err := Reset(path, logger)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if existed {
		t.Errorf("Reset reported an existing file for a fresh path")
	}

	assertLogged(t, logs, path, msgAbsent, msgDeleted)
	assertFreshSchema(t, path)
}

func TestResetDiscardsPriorContent(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, path string)
	}{
		{
			name: "populated database",
			prepare: func(t *testing.T, path string) {
				db, err := Open(path)
				if err != nil {
					t.Fatalf("Open: %v", err)
				}
				defer db.Close()
				db.MustExec("CREATE TABLE leftovers (v TEXT)")
				db.MustExec("INSERT INTO leftovers (v) VALUES ('x')")
				for i := 0; i < 5; i++ {
					db.MustExec(`INSERT INTO traceroute_results (timestamp, connection_name, target_ip, packet_loss)
                        VALUES (?, 'zentro', '1.1.1.1', 12.5)`, 1700000000+i)
				}
			},
		},
		{
			name: "arbitrary bytes",
			prepare: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("not a database at all"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "stale sidecars",
			prepare: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte("junk"), 0o644); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(path+"-journal", []byte("junk"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "traceroute.db")
			tt.prepare(t, path)
			logger, logs := observedLogger()

			existed, err := Reset(path, logger)
			if err != nil {
				t.Fatalf("Reset: %v", err)
			}
			if !existed {
				t.Errorf("Reset did not report the existing file")
			}

			assertLogged(t, logs, path, msgDeleted, msgAbsent)
			assertFreshSchema(t, path)
		})
	}
}

func TestResetTwiceGivesSameSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traceroute.db")

	if _, err := Reset(path, zap.NewNop()); err != nil {
		t.Fatalf("first Reset: %v", err)
	}
	first := assertFreshSchema(t, path)

	existed, err := Reset(path, zap.NewNop())
	if err != nil {
		t.Fatalf("second Reset: %v", err)
	}
	if !existed {
		t.Errorf("second Reset should find the file from the first run")
	}
	second := assertFreshSchema(t, path)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("schema changed between resets:\n%v\n%v", first, second)
	}
}

func TestResetFailsWhenFileCannotBeCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "traceroute.db")

	if _, err := Reset(path, zap.NewNop()); err == nil {
		t.Fatalf("expected Reset to fail for %s", path)
	}
}
