package database

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
)

// AppendSnapshot captures the current leaderboard, ordered by total
// points descending with ties broken by arrival order, into a new
// write-once snapshot. It returns the snapshot ID.
func (s *Store) AppendSnapshot(snapType, key string) (int64, error) {
	entries, err := s.ListRankingEntries()
	if err != nil {
		return 0, err
	}

	// ListRankingEntries returns arrival order; a stable sort on points
	// keeps that order as the tie-break.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})

	snap := Snapshot{
		Type:      snapType,
		Key:       key,
		CreatedAt: time.Now(),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&snap).Error; err != nil {
			return err
		}
		rows := make([]SnapshotEntry, len(entries))
		for i, e := range entries {
			rows[i] = SnapshotEntry{
				SnapshotID: snap.ID,
				UserId:     e.UserId,
				Position:   int64(i + 1),
				Points:     e.TotalPoints,
				Jolly:      e.Jolly,
			}
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return 0, err
	}

	return snap.ID, nil
}

// LatestSnapshot returns the most recent snapshot with an ID below
// before, or nil when none exists. Pass 0 for before to get the newest
// snapshot overall.
func (s *Store) LatestSnapshot(before int64) (*Snapshot, error) {
	q := s.DB.Preload("Entries")
	if before > 0 {
		q = q.Where("id < ?", before)
	}

	var snap Snapshot
	err := q.Order("id DESC").First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// PositionDelta returns how many positions a user moved since the prior
// snapshot: positive means the user moved up. A user absent from the
// prior snapshot, or a nil prior snapshot, yields 0.
func PositionDelta(prior *Snapshot, userId, currentPosition int64) int64 {
	if prior == nil {
		return 0
	}
	for _, e := range prior.Entries {
		if e.UserId == userId {
			return e.Position - currentPosition
		}
	}
	return 0
}
