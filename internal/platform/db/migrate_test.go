package db

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/hms/hms/migrations"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"001_records.sql", 1, true},
		{"12_indexes.sql", 12, true},
		{"records.sql", 0, false},
		{"abc_records.sql", 0, false},
		{"000_zero.sql", 0, false},
		{"002_notes.txt", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVersion(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseVersion(%q) = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLoadMigrations_Ordered(t *testing.T) {
	files := fstest.MapFS{
		"003_audit.sql":   {Data: []byte("CREATE TABLE audit (id BIGSERIAL);")},
		"001_records.sql": {Data: []byte("CREATE TABLE records (id TEXT);")},
		"002_indexes.sql": {Data: []byte("CREATE INDEX idx ON records (id);")},
		"README.md":       {Data: []byte("notes")},
		"sub/004_x.sql":   {Data: []byte("SELECT 1;")},
	}
	got, err := NewMigrator(nil, files).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(got))
	}
	for i, want := range []string{"001_records.sql", "002_indexes.sql", "003_audit.sql"} {
		if got[i].Name != want || got[i].Version != i+1 {
			t.Errorf("migration %d = %s v%d", i, got[i].Name, got[i].Version)
		}
	}
	if got[0].SQL != "CREATE TABLE records (id TEXT);" {
		t.Errorf("unexpected SQL %q", got[0].SQL)
	}
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	files := fstest.MapFS{
		"001_records.sql": {Data: []byte("SELECT 1;")},
		"1_again.sql":     {Data: []byte("SELECT 2;")},
	}
	if _, err := NewMigrator(nil, files).LoadMigrations(); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestPendingAndStatus(t *testing.T) {
	migs := []Migration{{Version: 1, Name: "001_a.sql"}, {Version: 2, Name: "002_b.sql"}, {Version: 3, Name: "003_c.sql"}}
	at := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	applied := map[int]time.Time{1: at}

	pending := Pending(migs, applied)
	if len(pending) != 2 || pending[0].Version != 2 {
		t.Errorf("unexpected pending %+v", pending)
	}

	status := BuildStatus(migs, applied)
	if !status[0].Applied || !status[0].AppliedAt.Equal(at) {
		t.Errorf("expected first migration applied at %s, got %+v", at, status[0])
	}
	if status[1].Applied || status[1].AppliedAt != nil {
		t.Errorf("expected second migration pending, got %+v", status[1])
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := NewMigrator(nil, migrations.FS).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(got) == 0 || got[0].Version != 1 {
		t.Fatalf("expected migrations starting at version 1, got %+v", got)
	}
	if !strings.Contains(got[0].SQL, "CREATE TABLE IF NOT EXISTS records") {
		t.Error("expected the first migration to create the records table")
	}
}
