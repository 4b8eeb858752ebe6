package plans

import (
	"context"
	"path/filepath"
	"testing"

	"nutriguide/internal/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func TestSaveAndListRecent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	plans := []string{`{"Monday": null}`, `{"Tuesday": null}`, `{"Wednesday": null}`}
	for _, p := range plans {
		if err := repo.Save(ctx, "user-1", []byte(p)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	if err := repo.Save(ctx, "user-2", []byte(`{"other": true}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.ListRecent(ctx, "user-1", 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(got))
	}
	for _, p := range got {
		if p.UserID != "user-1" {
			t.Errorf("got plan for wrong user %q", p.UserID)
		}
	}
	if !got[0].CreatedAt.After(got[1].CreatedAt) && !got[0].CreatedAt.Equal(got[1].CreatedAt) {
		t.Error("plans not ordered newest first")
	}
}

func TestListRecentNoPlans(t *testing.T) {
	repo := newTestRepository(t)
	got, err := repo.ListRecent(context.Background(), "nobody", 5)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no plans, got %d", len(got))
	}
}

func TestCleanupKeepsRecentPlans(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Save(ctx, "user-1", []byte(`{}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	removed, err := repo.Cleanup(ctx, 30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("cleanup removed %d fresh plans", removed)
	}

	got, err := repo.ListRecent(ctx, "user-1", 5)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected the fresh plan to survive, got %d", len(got))
	}
}
