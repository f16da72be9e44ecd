package database

import (
	"fmt"

	"gorm.io/gorm"
)

// ReconcileRace credits one user with a freshly computed ledger line for
// one race. The stored line for that race is diffed against the new one
// and only the delta is applied to the running total and jolly counter, so
// replaying a scoring run is a no-op.
//
// The read-modify-write runs as a single transaction. SQLite allows one
// writer at a time and the store caps the pool at one connection, so a
// concurrent reconciliation for the same user cannot read a stale prior
// line.
func (s *Store) ReconcileRace(userId int64, raceKey string, line LedgerLine) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var entry RankingEntry
		if err := tx.Where("user_id = ?", userId).First(&entry).Error; err != nil {
			return fmt.Errorf("fetching ranking entry for user %d: %w", userId, err)
		}

		if entry.PointsByRace == nil {
			entry.PointsByRace = make(map[string]LedgerLine)
		}

		prev := entry.PointsByRace[raceKey]
		entry.PointsByRace[raceKey] = line
		entry.TotalPoints += line.Total() - prev.Total()
		entry.Jolly += line.Jolly - prev.Jolly

		if err := tx.Save(&entry).Error; err != nil {
			return fmt.Errorf("updating ranking entry for user %d: %w", userId, err)
		}
		return nil
	})
}

// ReconcileChampionship credits one user with a freshly computed
// championship score, diffing against the previously stored one exactly
// like ReconcileRace does per race.
func (s *Store) ReconcileChampionship(userId int64, pts, jolly int64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var entry RankingEntry
		if err := tx.Where("user_id = ?", userId).First(&entry).Error; err != nil {
			return fmt.Errorf("fetching ranking entry for user %d: %w", userId, err)
		}

		entry.TotalPoints += pts - entry.ChampionshipPts
		entry.Jolly += jolly - entry.ChampJolly
		entry.ChampionshipPts = pts
		entry.ChampJolly = jolly

		if err := tx.Save(&entry).Error; err != nil {
			return fmt.Errorf("updating ranking entry for user %d: %w", userId, err)
		}
		return nil
	})
}
