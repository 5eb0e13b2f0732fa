package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elmandalorian-thx/droplit/internal/core"
)

// ErrProfileNotFound is returned when no profile matches a lookup.
var ErrProfileNotFound = errors.New("storage: profile not found")

// DefaultPowerups are unlocked for every new profile.
var DefaultPowerups = []string{"rain"}

// ProfileStats are the campaign counters of a profile.
type ProfileStats struct {
	HighestLevel   int
	CurrentLevel   int
	TotalClears    int
	GamesPlayed    int
	BestCombo      int
	TotalDropsUsed int
}

// Profile is a named player.
type Profile struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Stats     ProfileStats
	Powerups  []string // Unlocked powerup kinds, sorted
}

// LevelRun is one recorded level attempt.
type LevelRun struct {
	ID         int64
	ProfileID  string
	Level      int
	Won        bool
	BestCombo  int
	DropsUsed  int
	Discharges int
	CreatedAt  time.Time
}

const profileColumns = `id, name, highest_level, current_level, total_clears,
	games_played, best_combo, total_drops_used, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (Profile, error) {
	var p Profile
	var createdAt any
	err := row.Scan(&p.ID, &p.Name, &p.Stats.HighestLevel, &p.Stats.CurrentLevel, &p.Stats.TotalClears,
		&p.Stats.GamesPlayed, &p.Stats.BestCombo, &p.Stats.TotalDropsUsed, &createdAt)
	if err != nil {
		return Profile{}, err
	}
	p.CreatedAt = parseTime(createdAt)
	return p, nil
}

// CreateProfile creates a profile with fresh stats and the default powerups.
func (s *Store) CreateProfile(name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("storage: profile name must not be empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	id := uuid.NewString()
	if _, err := tx.Exec("INSERT INTO profiles (id, name) VALUES (?, ?)", id, name); err != nil {
		return nil, fmt.Errorf("storage: cannot create profile %q: %w", name, err)
	}
	if err := unlock(tx, id, DefaultPowerups); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage: cannot commit profile: %w", err)
	}

	return s.GetProfile(id)
}

// GetProfile returns the profile with the given ID.
func (s *Store) GetProfile(id string) (*Profile, error) {
	row := s.db.QueryRow("SELECT "+profileColumns+" FROM profiles WHERE id = ?", id)
	return s.loadProfile(row)
}

// GetProfileByName returns the profile with the given name.
func (s *Store) GetProfileByName(name string) (*Profile, error) {
	row := s.db.QueryRow("SELECT "+profileColumns+" FROM profiles WHERE name = ?", strings.TrimSpace(name))
	return s.loadProfile(row)
}

// GetOrCreateProfile returns the named profile, creating it if needed.
func (s *Store) GetOrCreateProfile(name string) (*Profile, error) {
	p, err := s.GetProfileByName(name)
	if errors.Is(err, ErrProfileNotFound) {
		return s.CreateProfile(name)
	}
	return p, err
}

func (s *Store) loadProfile(row scanner) (*Profile, error) {
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query profile: %w", err)
	}
	if p.Powerups, err = s.powerups(p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) powerups(profileID string) ([]string, error) {
	rows, err := s.db.Query("SELECT kind FROM profile_powerups WHERE profile_id = ? ORDER BY kind", profileID)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query powerups: %w", err)
	}
	defer rows.Close()

	var kinds []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		kinds = append(kinds, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return kinds, nil
}

// ListProfiles returns all profiles ordered by name.
func (s *Store) ListProfiles() ([]Profile, error) {
	return s.queryProfiles("SELECT " + profileColumns + " FROM profiles ORDER BY name")
}

// Leaderboard returns the top profiles ordered by highest level, then total
// clears. A limit of zero or less means 10.
func (s *Store) Leaderboard(limit int) ([]Profile, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryProfiles(
		"SELECT "+profileColumns+` FROM profiles
		 ORDER BY highest_level DESC, total_clears DESC, name ASC
		 LIMIT ?`, limit)
}

func (s *Store) queryProfiles(query string, args ...any) ([]Profile, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query profiles: %w", err)
	}

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		profiles = append(profiles, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	for i := range profiles {
		if profiles[i].Powerups, err = s.powerups(profiles[i].ID); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// DeleteProfile removes a profile with its level runs and unlocks.
func (s *Store) DeleteProfile(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	for _, q := range []string{
		"DELETE FROM level_runs WHERE profile_id = ?",
		"DELETE FROM profile_powerups WHERE profile_id = ?",
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("storage: cannot delete profile: %w", err)
		}
	}
	res, err := tx.Exec("DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// RecordLevelResult stores a level attempt and folds it into the profile
// stats in one transaction. unlocked names the powerups available at the
// next level; they are added to the profile on a win.
func (s *Store) RecordLevelResult(profileID string, res core.LevelResult, unlocked ...string) (*Profile, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	p, err := scanProfile(tx.QueryRow("SELECT "+profileColumns+" FROM profiles WHERE id = ?", profileID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query profile: %w", err)
	}

	st := applyResult(p.Stats, res)
	if _, err := tx.Exec(
		`UPDATE profiles SET highest_level = ?, current_level = ?, total_clears = ?,
		 games_played = ?, best_combo = ?, total_drops_used = ?
		 WHERE id = ?`,
		st.HighestLevel, st.CurrentLevel, st.TotalClears,
		st.GamesPlayed, st.BestCombo, st.TotalDropsUsed, profileID,
	); err != nil {
		return nil, fmt.Errorf("storage: cannot update profile: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO level_runs (profile_id, level, won, best_combo, drops_used, discharges)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		profileID, res.Level, res.Won, res.BestCombo, res.DropsUsed, res.Discharges,
	); err != nil {
		return nil, fmt.Errorf("storage: cannot save level run: %w", err)
	}

	if res.Won {
		if err := unlock(tx, profileID, unlocked); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage: cannot commit level result: %w", err)
	}
	return s.GetProfile(profileID)
}

// applyResult folds one level attempt into the stats.
func applyResult(st ProfileStats, res core.LevelResult) ProfileStats {
	st.GamesPlayed++
	st.TotalDropsUsed += res.DropsUsed
	st.BestCombo = max(st.BestCombo, res.BestCombo)
	if res.Won {
		st.TotalClears++
		st.HighestLevel = max(st.HighestLevel, res.Level)
		st.CurrentLevel = res.Level + 1
	}
	return st
}

func unlock(tx *sql.Tx, profileID string, kinds []string) error {
	for _, k := range kinds {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO profile_powerups (profile_id, kind) VALUES (?, ?)",
			profileID, k,
		); err != nil {
			return fmt.Errorf("storage: cannot unlock %s: %w", k, err)
		}
	}
	return nil
}

// RecentRuns returns the latest level attempts of a profile, newest first.
func (s *Store) RecentRuns(profileID string, limit int) ([]LevelRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, profile_id, level, won, best_combo, drops_used, discharges, created_at
		 FROM level_runs
		 WHERE profile_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		profileID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level runs: %w", err)
	}
	defer rows.Close()

	var runs []LevelRun
	for rows.Next() {
		var r LevelRun
		var createdAt any
		if err := rows.Scan(&r.ID, &r.ProfileID, &r.Level, &r.Won, &r.BestCombo,
			&r.DropsUsed, &r.Discharges, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// HasPowerup reports whether kind is in the profile's unlocked set.
func (p *Profile) HasPowerup(kind string) bool {
	i := sort.SearchStrings(p.Powerups, kind)
	return i < len(p.Powerups) && p.Powerups[i] == kind
}
