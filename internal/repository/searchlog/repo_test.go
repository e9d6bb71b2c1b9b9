package searchlog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type fakeExecer struct {
	err      error
	lastSQL  string
	lastArgs []any
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	f.lastArgs = args
	return pgconn.CommandTag{}, f.err
}

func TestRecord(t *testing.T) {
	db := &fakeExecer{}
	repo := New(db)

	if err := repo.Record(context.Background(), "wireless headphones", 5, 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(db.lastSQL, "INSERT INTO search_logs") {
		t.Errorf("unexpected SQL: %q", db.lastSQL)
	}
	want := []any{"wireless headphones", 5, int64(42)}
	if len(db.lastArgs) != len(want) {
		t.Fatalf("expected %d args, got %d", len(want), len(db.lastArgs))
	}
	for i := range want {
		if db.lastArgs[i] != want[i] {
			t.Errorf("arg %d = %v, want %v", i, db.lastArgs[i], want[i])
		}
	}
}

func TestRecord_Error(t *testing.T) {
	db := &fakeExecer{err: errors.New("table missing")}
	repo := New(db)

	err := repo.Record(context.Background(), "q", 0, 1)
	if err == nil || !strings.Contains(err.Error(), "record search log") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
