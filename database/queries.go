package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetRace fetches one race by its race identifier.
func (s *Store) GetRace(raceId string) (*Race, error) {
	var race Race
	if err := s.DB.Where("race_id = ?", raceId).First(&race).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no race found for ID %s", raceId)
		}
		return nil, err
	}
	return &race, nil
}

// CreateRace stores a new race. The race identifier must be unique.
func (s *Store) CreateRace(race *Race) error {
	if err := s.DB.Create(race).Error; err != nil {
		return fmt.Errorf("storing race in database: %w", err)
	}
	return nil
}

// GetOfficialResult fetches the official result for a race, or nil when
// none has been saved yet.
func (s *Store) GetOfficialResult(raceId string) (*OfficialResult, error) {
	var result OfficialResult
	err := s.DB.Where("race_id = ?", raceId).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveOfficialResult stores or overwrites the official result for a race.
// Overwriting is how an admin corrects a result before re-running scoring.
func (s *Store) SaveOfficialResult(result *OfficialResult) error {
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "race_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"p1", "p2", "p3", "sp1", "sp2", "sp3",
			"double_points", "cancelled_main", "cancelled_sprint",
		}),
	}).Create(result).Error
	if err != nil {
		return fmt.Errorf("storing official result: %w", err)
	}
	return nil
}

// GetChampionshipResult fetches the season-final record, or nil when none
// has been saved yet.
func (s *Store) GetChampionshipResult(season int64) (*ChampionshipResult, error) {
	var result ChampionshipResult
	err := s.DB.Where("season = ?", season).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveChampionshipResult stores or overwrites the season-final record.
func (s *Store) SaveChampionshipResult(result *ChampionshipResult) error {
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "season"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"p1", "p2", "p3", "c1", "c2", "c3",
		}),
	}).Create(result).Error
	if err != nil {
		return fmt.Errorf("storing championship result: %w", err)
	}
	return nil
}

// ListSubmissions fetches all submissions for a race in arrival order.
func (s *Store) ListSubmissions(raceId string) ([]Submission, error) {
	var subs []Submission
	if err := s.DB.Where("race_id = ?", raceId).Order("id").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// WriteSubmissionPoints writes the cached point totals back onto a
// submission after scoring.
func (s *Store) WriteSubmissionPoints(raceId string, userId, mainPts, sprintPts int64) error {
	res := s.DB.Model(&Submission{}).
		Where("race_id = ? AND user_id = ?", raceId, userId).
		Updates(map[string]interface{}{
			"points_earned":        mainPts,
			"points_earned_sprint": sprintPts,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no submission found for race %s user %d", raceId, userId)
	}
	return nil
}

// GetRankingEntry fetches one user's ranking document.
func (s *Store) GetRankingEntry(userId int64) (*RankingEntry, error) {
	var entry RankingEntry
	if err := s.DB.Where("user_id = ?", userId).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListRankingEntries fetches all ranking documents in arrival order, which
// is also the tie-break order for the leaderboard.
func (s *Store) ListRankingEntries() ([]RankingEntry, error) {
	var entries []RankingEntry
	if err := s.DB.Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindDriverSlug looks a driver up by slug, broadcast code, or family
// name and returns the canonical slug. It satisfies roster.Lookup.
func (s *Store) FindDriverSlug(name string) (string, bool) {
	var driver Driver
	err := s.DB.
		Where("slug = ? OR code = ? OR family_name = ? COLLATE NOCASE", name, name, name).
		First(&driver).Error
	if err != nil {
		return "", false
	}
	return driver.Slug, true
}

// GetStandings returns the leaderboard ordered by total points descending
// with the per-user count of scored races.
func (s *Store) GetStandings() ([]StandingRow, error) {
	var rows []StandingRow

	sql := `
    SELECT
      re.user_id,
      re.user_name,
      re.total_points,
      re.jolly,

      -- races with a cached score for this user
      (SELECT COUNT(*)
         FROM submissions sub
        WHERE sub.user_id = re.user_id
          AND (sub.points_earned <> 0 OR sub.points_earned_sprint <> 0)
      )                                                 AS races_scored

    FROM ranking_entries re
    ORDER BY re.total_points DESC, re.id ASC;
    `

	if err := s.DB.Raw(sql).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
