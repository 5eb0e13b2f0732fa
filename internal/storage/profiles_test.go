package storage

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/elmandalorian-thx/droplit/internal/core"
)

func TestCreateProfile(t *testing.T) {
	store := openTestStore(t)

	p, err := store.CreateProfile("  ada ")
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	if _, err := uuid.Parse(p.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", p.ID, err)
	}
	if p.Name != "ada" {
		t.Errorf("Name = %q, want ada", p.Name)
	}
	want := ProfileStats{CurrentLevel: 1}
	if p.Stats != want {
		t.Errorf("Stats = %+v, want %+v", p.Stats, want)
	}
	if !reflect.DeepEqual(p.Powerups, []string{"rain"}) {
		t.Errorf("Powerups = %v, want [rain]", p.Powerups)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestCreateProfileRejects(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.CreateProfile("   "); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := store.CreateProfile("ada"); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	if _, err := store.CreateProfile("ada"); err == nil {
		t.Error("expected error for duplicate name")
	}
}

func TestGetProfileNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.GetProfileByName("nobody"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetProfileByName() error = %v, want ErrProfileNotFound", err)
	}
	if _, err := store.GetProfile(uuid.NewString()); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetProfile() error = %v, want ErrProfileNotFound", err)
	}
	if _, err := store.RecordLevelResult(uuid.NewString(), core.LevelResult{Level: 1}); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("RecordLevelResult() error = %v, want ErrProfileNotFound", err)
	}
}

func TestGetOrCreateProfile(t *testing.T) {
	store := openTestStore(t)

	a, err := store.GetOrCreateProfile("ada")
	if err != nil {
		t.Fatalf("GetOrCreateProfile() failed: %v", err)
	}
	b, err := store.GetOrCreateProfile("ada")
	if err != nil {
		t.Fatalf("GetOrCreateProfile() failed: %v", err)
	}
	if a.ID != b.ID {
		t.Errorf("second call created a new profile: %s != %s", a.ID, b.ID)
	}
}

func TestRecordLevelResult(t *testing.T) {
	store := openTestStore(t)
	p, _ := store.CreateProfile("ada")

	steps := []struct {
		name     string
		result   core.LevelResult
		unlocked []string
		want     ProfileStats
	}{
		{
			name:   "first clear",
			result: core.LevelResult{Level: 1, Won: true, BestCombo: 4, DropsUsed: 10},
			want:   ProfileStats{HighestLevel: 1, CurrentLevel: 2, TotalClears: 1, GamesPlayed: 1, BestCombo: 4, TotalDropsUsed: 10},
		},
		{
			name:   "loss keeps progress",
			result: core.LevelResult{Level: 2, Won: false, BestCombo: 9, DropsUsed: 20},
			want:   ProfileStats{HighestLevel: 1, CurrentLevel: 2, TotalClears: 1, GamesPlayed: 2, BestCombo: 9, TotalDropsUsed: 30},
		},
		{
			name:     "clear unlocks",
			result:   core.LevelResult{Level: 4, Won: true, BestCombo: 2, DropsUsed: 5},
			unlocked: []string{"rain", "freeze"},
			want:     ProfileStats{HighestLevel: 4, CurrentLevel: 5, TotalClears: 2, GamesPlayed: 3, BestCombo: 9, TotalDropsUsed: 35},
		},
		{
			name:   "replaying a lower level",
			result: core.LevelResult{Level: 2, Won: true, DropsUsed: 1},
			want:   ProfileStats{HighestLevel: 4, CurrentLevel: 3, TotalClears: 3, GamesPlayed: 4, BestCombo: 9, TotalDropsUsed: 36},
		},
	}

	for _, s := range steps {
		got, err := store.RecordLevelResult(p.ID, s.result, s.unlocked...)
		if err != nil {
			t.Fatalf("%s: RecordLevelResult() failed: %v", s.name, err)
		}
		if got.Stats != s.want {
			t.Errorf("%s: Stats = %+v, want %+v", s.name, got.Stats, s.want)
		}
	}

	got, _ := store.GetProfile(p.ID)
	if !reflect.DeepEqual(got.Powerups, []string{"freeze", "rain"}) {
		t.Errorf("Powerups = %v, want [freeze rain]", got.Powerups)
	}
	if !got.HasPowerup("freeze") || got.HasPowerup("laser") {
		t.Errorf("HasPowerup mismatch for %v", got.Powerups)
	}

	runs, err := store.RecentRuns(p.ID, 0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 4 {
		t.Fatalf("got %d runs, want 4", len(runs))
	}
	if runs[0].Level != 2 || !runs[0].Won || runs[1].Level != 4 {
		t.Errorf("runs not newest first: %+v", runs[:2])
	}
	if runs[2].Won {
		t.Errorf("loss recorded as win: %+v", runs[2])
	}
}

func TestLossDoesNotUnlock(t *testing.T) {
	store := openTestStore(t)
	p, _ := store.CreateProfile("ada")

	got, err := store.RecordLevelResult(p.ID, core.LevelResult{Level: 9}, "bomb")
	if err != nil {
		t.Fatalf("RecordLevelResult() failed: %v", err)
	}
	if got.HasPowerup("bomb") {
		t.Error("loss unlocked a powerup")
	}
}

func TestLeaderboardOrder(t *testing.T) {
	store := openTestStore(t)

	record := func(name string, results ...core.LevelResult) {
		p, err := store.CreateProfile(name)
		if err != nil {
			t.Fatalf("CreateProfile(%s) failed: %v", name, err)
		}
		for _, r := range results {
			if _, err := store.RecordLevelResult(p.ID, r); err != nil {
				t.Fatalf("RecordLevelResult() failed: %v", err)
			}
		}
	}

	win := func(level int) core.LevelResult { return core.LevelResult{Level: level, Won: true} }
	record("cy", win(1), win(2), win(3))
	record("ada", win(5))
	record("bob", win(1), win(2), win(3), win(3))
	record("dee")

	board, err := store.Leaderboard(10)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	var names []string
	for _, p := range board {
		names = append(names, p.Name)
	}
	want := []string{"ada", "bob", "cy", "dee"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Leaderboard = %v, want %v", names, want)
	}

	top, _ := store.Leaderboard(2)
	if len(top) != 2 {
		t.Errorf("Leaderboard(2) returned %d", len(top))
	}
}

func TestListAndDeleteProfiles(t *testing.T) {
	store := openTestStore(t)
	b, _ := store.CreateProfile("bob")
	if _, err := store.CreateProfile("ada"); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	if _, err := store.RecordLevelResult(b.ID, core.LevelResult{Level: 1, Won: true}); err != nil {
		t.Fatalf("RecordLevelResult() failed: %v", err)
	}

	list, err := store.ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles() failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "ada" || list[1].Name != "bob" {
		t.Fatalf("ListProfiles() = %+v", list)
	}

	if err := store.DeleteProfile(b.ID); err != nil {
		t.Fatalf("DeleteProfile() failed: %v", err)
	}
	if err := store.DeleteProfile(b.ID); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("second delete error = %v, want ErrProfileNotFound", err)
	}
	runs, _ := store.RecentRuns(b.ID, 10)
	if len(runs) != 0 {
		t.Errorf("runs survived profile deletion: %d", len(runs))
	}
}

func TestApplyResult(t *testing.T) {
	st := applyResult(ProfileStats{HighestLevel: 7, CurrentLevel: 8, BestCombo: 3}, core.LevelResult{Level: 3, Won: true, BestCombo: 2, DropsUsed: 4})
	want := ProfileStats{HighestLevel: 7, CurrentLevel: 4, TotalClears: 1, GamesPlayed: 1, BestCombo: 3, TotalDropsUsed: 4}
	if st != want {
		t.Errorf("applyResult() = %+v, want %+v", st, want)
	}
}
