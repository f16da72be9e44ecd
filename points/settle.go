package points

import (
	"fmt"
	"log"
	"sync"

	"git.sr.ht/~nullevoid/gridpoints/configuration"
	"git.sr.ht/~nullevoid/gridpoints/database"
)

// userWrite is one user's pending ledger write within a settlement run.
type userWrite struct {
	userId int64
	apply  func() error
}

// SettleRace runs one admin-triggered scoring event for a race: score
// every submission, write the cached totals back, reconcile each user's
// ledger, and capture a ranking snapshot. Precondition failures abort
// before any write; per-user write failures are collected and reported,
// not fail-fast.
func SettleRace(store *database.Store, raceId string, cfg *configuration.Config) (*Summary, error) {
	result, err := store.GetOfficialResult(raceId)
	if err != nil {
		return nil, fmt.Errorf("fetching official result: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("race %s: %w", raceId, ErrResultMissing)
	}

	subs, err := store.ListSubmissions(raceId)
	if err != nil {
		return nil, fmt.Errorf("fetching submissions: %w", err)
	}

	scored, err := ScoreRace(result, subs, cfg)
	if err != nil {
		return nil, fmt.Errorf("scoring race %s: %w", raceId, err)
	}

	writes := make([]userWrite, len(scored))
	for i, rec := range scored {
		writes[i] = userWrite{
			userId: rec.UserId,
			apply: func() error {
				if err := store.WriteSubmissionPoints(raceId, rec.UserId, rec.Main, rec.Sprint); err != nil {
					return fmt.Errorf("writing submission points: %w", err)
				}
				line := database.LedgerLine{Main: rec.Main, Sprint: rec.Sprint, Jolly: rec.JollyGranted}
				return store.ReconcileRace(rec.UserId, raceId, line)
			},
		}
	}

	summary := settle(raceId, writes)

	if _, err := store.AppendSnapshot("race", raceId); err != nil {
		return summary, fmt.Errorf("appending snapshot: %w", err)
	}

	return summary, nil
}

// SettleChampionship mirrors SettleRace for the season-final record.
func SettleChampionship(store *database.Store, cfg *configuration.Config) (*Summary, error) {
	result, err := store.GetChampionshipResult(cfg.General.Season)
	if err != nil {
		return nil, fmt.Errorf("fetching championship result: %w", err)
	}

	entries, err := store.ListRankingEntries()
	if err != nil {
		return nil, fmt.Errorf("fetching ranking entries: %w", err)
	}

	scored, err := ScoreChampionship(result, entries, cfg)
	if err != nil {
		return nil, fmt.Errorf("scoring championship: %w", err)
	}

	writes := make([]userWrite, len(scored))
	for i, rec := range scored {
		writes[i] = userWrite{
			userId: rec.UserId,
			apply: func() error {
				return store.ReconcileChampionship(rec.UserId, rec.Points, rec.JollyGranted)
			},
		}
	}

	summary := settle("championship", writes)

	if _, err := store.AppendSnapshot("championship", ""); err != nil {
		return summary, fmt.Errorf("appending snapshot: %w", err)
	}

	return summary, nil
}

// settle fans the per-user writes out over goroutines and collects the
// failures. Every user's ledger is independent, so there is no ordering
// between users; the summary is assembled under a mutex.
func settle(key string, writes []userWrite) *Summary {
	summary := &Summary{Key: key}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := range writes {
		wg.Add(1)
		go func(w userWrite) {
			defer wg.Done()

			err := w.apply()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("settling %s for user %d: %v", key, w.userId, err)
				summary.Failed = append(summary.Failed, UserFailure{UserId: w.userId, Err: err})
				return
			}
			summary.Updated++
		}(writes[i])
	}
	wg.Wait()

	return summary
}
