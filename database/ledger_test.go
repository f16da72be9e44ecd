package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEntry(t *testing.T, store *Store, userId int64, name string) {
	t.Helper()
	require.NoError(t, store.DB.Create(&RankingEntry{
		UserId:       userId,
		UserName:     name,
		PointsByRace: map[string]LedgerLine{},
	}).Error)
}

func TestReconcileRace(t *testing.T) {
	store := newTestStore(t)
	seedEntry(t, store, 1, "alice")

	line := LedgerLine{Main: 30, Sprint: 8, Jolly: 1}
	require.NoError(t, store.ReconcileRace(1, "2025-16-monza", line))

	entry, err := store.GetRankingEntry(1)
	require.NoError(t, err)
	assert.Equal(t, int64(38), entry.TotalPoints)
	assert.Equal(t, int64(1), entry.Jolly)
	assert.Equal(t, line, entry.PointsByRace["2025-16-monza"])
}

func TestReconcileRaceReplayIsNoOp(t *testing.T) {
	store := newTestStore(t)
	seedEntry(t, store, 1, "alice")

	line := LedgerLine{Main: 30, Sprint: 8, Jolly: 1}
	require.NoError(t, store.ReconcileRace(1, "2025-16-monza", line))
	require.NoError(t, store.ReconcileRace(1, "2025-16-monza", line))

	entry, err := store.GetRankingEntry(1)
	require.NoError(t, err)
	assert.Equal(t, int64(38), entry.TotalPoints)
	assert.Equal(t, int64(1), entry.Jolly)
}

func TestReconcileRaceAppliesDelta(t *testing.T) {
	store := newTestStore(t)
	seedEntry(t, store, 1, "alice")

	require.NoError(t, store.ReconcileRace(1, "2025-16-monza", LedgerLine{Main: 30, Jolly: 1}))
	require.NoError(t, store.ReconcileRace(1, "2025-17-baku", LedgerLine{Main: 12, Sprint: 4}))

	// A corrected result lowers monza; only the difference moves the total.
	require.NoError(t, store.ReconcileRace(1, "2025-16-monza", LedgerLine{Main: 12}))

	entry, err := store.GetRankingEntry(1)
	require.NoError(t, err)
	assert.Equal(t, int64(28), entry.TotalPoints)
	assert.Equal(t, int64(0), entry.Jolly)
}

func TestReconcileChampionship(t *testing.T) {
	store := newTestStore(t)
	seedEntry(t, store, 1, "alice")

	require.NoError(t, store.ReconcileRace(1, "2025-16-monza", LedgerLine{Main: 30, Jolly: 1}))
	require.NoError(t, store.ReconcileChampionship(1, 24, 0))
	require.NoError(t, store.ReconcileChampionship(1, 24, 0))

	entry, err := store.GetRankingEntry(1)
	require.NoError(t, err)
	assert.Equal(t, int64(54), entry.TotalPoints)
	assert.Equal(t, int64(24), entry.ChampionshipPts)
	assert.Equal(t, int64(1), entry.Jolly)

	// A rescore replaces the championship component in place.
	require.NoError(t, store.ReconcileChampionship(1, 30, 1))
	entry, err = store.GetRankingEntry(1)
	require.NoError(t, err)
	assert.Equal(t, int64(60), entry.TotalPoints)
	assert.Equal(t, int64(2), entry.Jolly)
}

func TestLedgerInvariant(t *testing.T) {
	store := newTestStore(t)
	seedEntry(t, store, 1, "alice")

	require.NoError(t, store.ReconcileRace(1, "2025-01-melbourne", LedgerLine{Main: 17, Sprint: 8}))
	require.NoError(t, store.ReconcileRace(1, "2025-16-monza", LedgerLine{Main: 30, Jolly: 1}))
	require.NoError(t, store.ReconcileRace(1, "2025-01-melbourne", LedgerLine{Main: -3}))
	require.NoError(t, store.ReconcileChampionship(1, 24, 0))

	entry, err := store.GetRankingEntry(1)
	require.NoError(t, err)

	var sum int64
	for _, line := range entry.PointsByRace {
		sum += line.Total()
	}
	assert.Equal(t, entry.TotalPoints, sum+entry.ChampionshipPts)
}

func TestReconcileRaceUnknownUser(t *testing.T) {
	store := newTestStore(t)
	err := store.ReconcileRace(99, "2025-16-monza", LedgerLine{Main: 12})
	assert.Error(t, err)
}
