package points

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~nullevoid/gridpoints/database"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.NewStore("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedRaceWeekend(t *testing.T, store *database.Store) {
	t.Helper()

	require.NoError(t, store.CreateRace(&database.Race{
		RaceId:  "2025-16-monza",
		Season:  2025,
		Round:   16,
		Name:    "Italian Grand Prix",
		StartAt: time.Date(2025, 9, 7, 13, 0, 0, 0, time.UTC),
	}))

	subs := []database.Submission{
		{
			RaceId: "2025-16-monza", UserId: 1, UserName: "alice",
			MainP1: "max-verstappen", MainP2: "lando-norris", MainP3: "charles-leclerc",
		},
		{
			RaceId: "2025-16-monza", UserId: 2, UserName: "bob",
			MainP1: "lando-norris", MainJolly: "max-verstappen",
		},
	}
	require.NoError(t, store.DB.Create(&subs).Error)

	entries := []database.RankingEntry{
		{UserId: 1, UserName: "alice", PointsByRace: map[string]database.LedgerLine{}},
		{UserId: 2, UserName: "bob", PointsByRace: map[string]database.LedgerLine{}},
	}
	require.NoError(t, store.DB.Create(&entries).Error)

	require.NoError(t, store.SaveOfficialResult(&database.OfficialResult{
		RaceId: "2025-16-monza",
		P1:     "max-verstappen",
		P2:     "lando-norris",
		P3:     "charles-leclerc",
	}))
}

func TestSettleRace(t *testing.T) {
	store := newTestStore(t)
	seedRaceWeekend(t, store)

	summary, err := SettleRace(store, "2025-16-monza", testConfig())
	require.NoError(t, err)
	require.NoError(t, summary.Err())
	assert.Equal(t, int64(2), summary.Updated)

	// alice hit the full podium: 29 rounds up to 30 with a jolly.
	alice, err := store.GetRankingEntry(1)
	require.NoError(t, err)
	assert.Equal(t, int64(30), alice.TotalPoints)
	assert.Equal(t, int64(1), alice.Jolly)

	// bob's wildcard landed, his P1 pick did not.
	bob, err := store.GetRankingEntry(2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), bob.TotalPoints)
	assert.Equal(t, int64(0), bob.Jolly)

	// Cached totals written back onto the submissions.
	subs, err := store.ListSubmissions("2025-16-monza")
	require.NoError(t, err)
	assert.Equal(t, int64(30), subs[0].PointsEarned)
	assert.Equal(t, int64(5), subs[1].PointsEarned)

	snap, err := store.LatestSnapshot(0)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "race", snap.Type)
	assert.Equal(t, "2025-16-monza", snap.Key)
}

func TestSettleRaceIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	seedRaceWeekend(t, store)

	_, err := SettleRace(store, "2025-16-monza", testConfig())
	require.NoError(t, err)
	_, err = SettleRace(store, "2025-16-monza", testConfig())
	require.NoError(t, err)

	alice, err := store.GetRankingEntry(1)
	require.NoError(t, err)
	assert.Equal(t, int64(30), alice.TotalPoints)
	assert.Equal(t, int64(1), alice.Jolly)
}

func TestSettleRaceCorrectedResult(t *testing.T) {
	store := newTestStore(t)
	seedRaceWeekend(t, store)

	_, err := SettleRace(store, "2025-16-monza", testConfig())
	require.NoError(t, err)

	// The admin corrects the result and re-runs scoring; only the delta
	// lands on the ledger, and the round-up jolly is taken back.
	require.NoError(t, store.SaveOfficialResult(&database.OfficialResult{
		RaceId: "2025-16-monza",
		P1:     "max-verstappen",
		P2:     "charles-leclerc",
		P3:     "lando-norris",
	}))
	_, err = SettleRace(store, "2025-16-monza", testConfig())
	require.NoError(t, err)

	alice, err := store.GetRankingEntry(1)
	require.NoError(t, err)
	assert.Equal(t, int64(12), alice.TotalPoints)
	assert.Equal(t, int64(0), alice.Jolly)
}

func TestSettleRaceCancelledWritesNothing(t *testing.T) {
	store := newTestStore(t)
	seedRaceWeekend(t, store)

	require.NoError(t, store.SaveOfficialResult(&database.OfficialResult{
		RaceId:        "2025-16-monza",
		P1:            "max-verstappen",
		P2:            "lando-norris",
		P3:            "charles-leclerc",
		CancelledMain: true,
	}))

	_, err := SettleRace(store, "2025-16-monza", testConfig())
	assert.ErrorIs(t, err, ErrRaceCancelled)

	alice, err := store.GetRankingEntry(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), alice.TotalPoints)

	snap, err := store.LatestSnapshot(0)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSettleRaceWithoutResult(t *testing.T) {
	store := newTestStore(t)
	seedRaceWeekend(t, store)
	require.NoError(t, store.DB.Where("race_id = ?", "2025-16-monza").
		Delete(&database.OfficialResult{}).Error)

	_, err := SettleRace(store, "2025-16-monza", testConfig())
	assert.ErrorIs(t, err, ErrResultMissing)
}

func TestSettleChampionship(t *testing.T) {
	store := newTestStore(t)

	entries := []database.RankingEntry{
		{
			UserId: 1, UserName: "alice",
			PointsByRace: map[string]database.LedgerLine{
				"2025-16-monza": {Main: 30, Jolly: 1},
			},
			TotalPoints: 30, Jolly: 1,
			ChampP1: "max-verstappen", ChampC1: "mclaren",
		},
		{UserId: 2, UserName: "bob", PointsByRace: map[string]database.LedgerLine{}},
	}
	require.NoError(t, store.DB.Create(&entries).Error)

	require.NoError(t, store.SaveChampionshipResult(&database.ChampionshipResult{
		Season: 2025,
		P1:     "max-verstappen", P2: "lando-norris", P3: "charles-leclerc",
		C1: "mclaren", C2: "red-bull", C3: "ferrari",
	}))

	summary, err := SettleChampionship(store, testConfig())
	require.NoError(t, err)
	require.NoError(t, summary.Err())
	assert.Equal(t, int64(2), summary.Updated)

	alice, err := store.GetRankingEntry(1)
	require.NoError(t, err)
	assert.Equal(t, int64(24), alice.ChampionshipPts)
	assert.Equal(t, int64(54), alice.TotalPoints)

	// Re-running changes nothing.
	_, err = SettleChampionship(store, testConfig())
	require.NoError(t, err)
	alice, err = store.GetRankingEntry(1)
	require.NoError(t, err)
	assert.Equal(t, int64(54), alice.TotalPoints)
	assert.Equal(t, int64(1), alice.Jolly)

	snap, err := store.LatestSnapshot(0)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "championship", snap.Type)
}

func TestSettleChampionshipWithoutResult(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.DB.Create(&database.RankingEntry{
		UserId: 1, UserName: "alice",
		PointsByRace: map[string]database.LedgerLine{},
	}).Error)

	_, err := SettleChampionship(store, testConfig())
	assert.ErrorIs(t, err, ErrChampIncomplete)
}
