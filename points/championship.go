package points

import (
	"git.sr.ht/~nullevoid/gridpoints/configuration"
	"git.sr.ht/~nullevoid/gridpoints/database"
)

// ChampionshipScore is the engine's output for one user's pre-season
// picks against the season-final top-3s.
type ChampionshipScore struct {
	UserId       int64
	Points       int64
	JollyGranted int64
}

// ScoreChampionship compares every user's pre-season driver and
// constructor picks against the season-final record. Both subtotals use
// the main-race position points; no wildcard bonus applies. The 29->30
// round-up fires independently per subtotal, each with its own jolly
// grant. An incomplete official record fails before any user is scored;
// missing user picks simply never match.
func ScoreChampionship(
	result *database.ChampionshipResult, entries []database.RankingEntry, cfg *configuration.Config,
) ([]ChampionshipScore, error) {
	if result == nil || !result.Complete() {
		return nil, ErrChampIncomplete
	}

	scored := make([]ChampionshipScore, len(entries))
	for i, entry := range entries {
		rec := ChampionshipScore{UserId: entry.UserId}

		drivers := scoreSlots(
			[3]string{entry.ChampP1, entry.ChampP2, entry.ChampP3},
			[3]string{result.P1, result.P2, result.P3},
			cfg.Scoring.MainPoints,
		)
		if drivers == roundUpScore {
			drivers = roundUpBonus
			rec.JollyGranted += roundUpJolly
		}

		constructors := scoreSlots(
			[3]string{entry.ChampC1, entry.ChampC2, entry.ChampC3},
			[3]string{result.C1, result.C2, result.C3},
			cfg.Scoring.MainPoints,
		)
		if constructors == roundUpScore {
			constructors = roundUpBonus
			rec.JollyGranted += roundUpJolly
		}

		rec.Points = drivers + constructors
		scored[i] = rec
	}

	return scored, nil
}

// scoreSlots sums position-exact matches between picks and the official
// top-3.
func scoreSlots(picks, official [3]string, table []int64) int64 {
	var pts int64
	for i := range picks {
		if picks[i] != "" && picks[i] == official[i] && i < len(table) {
			pts += table[i]
		}
	}
	return pts
}
