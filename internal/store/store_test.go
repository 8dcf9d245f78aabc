package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"machiavelli-be/internal/service/game"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func result(id string, at time.Time, names ...string) GameResult {
	standings := make([]game.Standing, 0, len(names))
	for i, n := range names {
		standings = append(standings, game.Standing{
			Rank:      i + 1,
			PlayerID:  "id-" + n,
			Name:      n,
			Score:     20 - i,
			Buildings: 8 - i,
			Gold:      i,
		})
	}

	return GameResult{GameID: id, FinishedAt: at, Rounds: 5, Standings: standings}
}

func TestStore_SaveAndReadBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := s.SaveResult(ctx, result("g1", base, "alice", "bob")); err != nil {
		t.Fatalf("SaveResult g1 failed: %v", err)
	}
	if err := s.SaveResult(ctx, result("g2", base.Add(time.Hour), "carol", "dave", "erin")); err != nil {
		t.Fatalf("SaveResult g2 failed: %v", err)
	}

	got, err := s.RecentResults(ctx, 10)
	if err != nil {
		t.Fatalf("RecentResults failed: %v", err)
	}

	if len(got) != 2 || got[0].GameID != "g2" || got[1].GameID != "g1" {
		t.Fatalf("results should be newest first, got %+v", got)
	}
	if len(got[0].Standings) != 3 || got[0].Standings[0].Name != "carol" || got[0].Standings[2].Rank != 3 {
		t.Fatalf("unexpected standings %+v", got[0].Standings)
	}
	if !got[1].FinishedAt.Equal(base) || got[1].Rounds != 5 {
		t.Fatalf("metadata not preserved: %+v", got[1])
	}
}

func TestStore_RecentResultsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"a", "b", "c"} {
		if err := s.SaveResult(ctx, result(id, base.Add(time.Duration(i)*time.Minute), "x", "y")); err != nil {
			t.Fatalf("SaveResult %s failed: %v", id, err)
		}
	}

	got, err := s.RecentResults(ctx, 2)
	if err != nil {
		t.Fatalf("RecentResults failed: %v", err)
	}
	if len(got) != 2 || got[0].GameID != "c" {
		t.Fatalf("want the two newest results, got %+v", got)
	}
}

func TestStore_RejectsDuplicatesAndEmpty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveResult(ctx, GameResult{GameID: "g1", FinishedAt: time.Now()}); !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("want ErrEmptyResult got %v", err)
	}

	r := result("g1", time.Now(), "alice", "bob")
	if err := s.SaveResult(ctx, r); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := s.SaveResult(ctx, r); err == nil {
		t.Fatalf("saving the same game twice should fail")
	}

	got, err := s.RecentResults(ctx, 10)
	if err != nil {
		t.Fatalf("RecentResults failed: %v", err)
	}
	if len(got) != 1 || len(got[0].Standings) != 2 {
		t.Fatalf("failed save should roll back, got %+v", got)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("an empty path should be rejected")
	}
}
