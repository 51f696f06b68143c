package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInsertAndRecent(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{RunID: "r1", RepoName: "alpha", RepoURL: "https://github.com/u/alpha", Model: "llama3.1:8b",
			InputTokens: 1200, OutputBudget: 8100, Status: StatusSuccess, OutputPath: "/out/alpha-analysis-v1.md", CreatedAt: base},
		{RunID: "r2", RepoName: "beta", RepoURL: "https://github.com/u/beta", Model: "mistral:7b",
			InputTokens: 900, OutputBudget: -1, Status: StatusError, OutputPath: "/out/beta-analysis-v1.md", CreatedAt: base.Add(time.Hour)},
	}
	for _, run := range runs {
		if err := store.InsertRun(run); err != nil {
			t.Fatalf("InsertRun(%s): %v", run.RunID, err)
		}
	}

	recent, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d runs, want 2", len(recent))
	}
	// Newest first.
	if recent[0].RunID != "r2" || recent[1].RunID != "r1" {
		t.Errorf("order = %s, %s", recent[0].RunID, recent[1].RunID)
	}
	if recent[0].OutputBudget != -1 {
		t.Errorf("unknown budget sentinel lost: %d", recent[0].OutputBudget)
	}
	if !recent[1].CreatedAt.Equal(base) {
		t.Errorf("created_at round trip: %v", recent[1].CreatedAt)
	}
}

func TestRecentRunsLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		err := store.InsertRun(Run{
			RunID:     string(rune('a' + i)),
			RepoName:  "repo",
			RepoURL:   "u",
			Model:     "m",
			Status:    StatusSuccess,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	recent, err := store.RecentRuns(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 {
		t.Errorf("limit ignored: got %d runs", len(recent))
	}
}

func TestLastRun(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.LastRun("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	base := time.Now().UTC().Truncate(time.Second)
	for i, status := range []string{StatusError, StatusSuccess} {
		err := store.InsertRun(Run{
			RunID:     []string{"first", "second"}[i],
			RepoName:  "alpha",
			RepoURL:   "u",
			Model:     "m",
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	last, err := store.LastRun("alpha")
	if err != nil {
		t.Fatalf("LastRun: %v", err)
	}
	if last.RunID != "second" || last.Status != StatusSuccess {
		t.Errorf("LastRun = %+v", last)
	}
}
