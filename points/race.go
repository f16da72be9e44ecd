package points

import (
	"git.sr.ht/~nullevoid/gridpoints/configuration"
	"git.sr.ht/~nullevoid/gridpoints/database"
)

// roundUpScore is the idiosyncratic balancing rule: a main-race (or
// championship) subtotal landing exactly on 29 is bumped to 30 and the
// user is granted one extra jolly token. Triggered only by the literal
// value, only before any doubling.
const (
	roundUpScore int64 = 29
	roundUpBonus int64 = 30
	roundUpJolly int64 = 1
)

// RaceScore is the scoring engine's output for one submission. The jolly
// grant is returned explicitly rather than written as a side effect, so
// the caller controls when (and whether) it reaches the ledger.
type RaceScore struct {
	UserId       int64
	Main         int64
	Sprint       int64
	JollyGranted int64
}

// ScoreRace computes main and sprint points for every submission against
// one race's official result. It is a pure function of its inputs: no
// store access, no writes. Scoring fails before looking at any
// submission when the result is missing, incomplete, or the race was
// cancelled.
func ScoreRace(
	result *database.OfficialResult, subs []database.Submission, cfg *configuration.Config,
) ([]RaceScore, error) {
	if result == nil {
		return nil, ErrResultMissing
	}
	if result.CancelledMain {
		return nil, ErrRaceCancelled
	}
	if !result.Complete() {
		return nil, ErrResultIncomplete
	}

	scored := make([]RaceScore, len(subs))
	for i, sub := range subs {
		rec := RaceScore{UserId: sub.UserId}

		rec.Main = scoreMain(result, &sub, &cfg.Scoring)
		if rec.Main == roundUpScore {
			rec.Main = roundUpBonus
			rec.JollyGranted += roundUpJolly
		}

		if result.HasSprint() && !result.CancelledSprint {
			rec.Sprint = scoreSprint(result, &sub, &cfg.Scoring)
		}

		// Season finale counts double, main and sprint alike. Applied
		// after the 29->30 adjustment.
		if result.DoublePoints {
			rec.Main *= 2
			rec.Sprint *= 2
		}

		scored[i] = rec
	}

	return scored, nil
}

// scoreMain computes the main-race subtotal for one submission: exact
// podium positions, wildcard bonuses, and the late penalty.
func scoreMain(result *database.OfficialResult, sub *database.Submission, sc *configuration.Scoring) int64 {
	// No main picks at all is a no-show: flat penalty, nothing else
	// applies, late flag included.
	if sub.MainP1 == "" {
		return sc.EmptyPenalty
	}

	podium := [3]string{result.P1, result.P2, result.P3}
	picks := [3]string{sub.MainP1, sub.MainP2, sub.MainP3}

	var pts int64
	for i := range picks {
		if picks[i] != "" && picks[i] == podium[i] && i < len(sc.MainPoints) {
			pts += sc.MainPoints[i]
		}
	}

	// Wildcards score anywhere in the top-3, independent of position.
	// Zero, one, or two bonuses may apply.
	if onPodium(sub.MainJolly, podium) {
		pts += sc.JollyBonus
	}
	if onPodium(sub.MainJolly2, podium) {
		pts += sc.JollyBonus
	}

	if sub.IsLate {
		pts += sc.LatePenalty
	}

	return pts
}

// scoreSprint computes the sprint subtotal: same shape as the main race
// with its own points table and a single wildcard bonus.
func scoreSprint(result *database.OfficialResult, sub *database.Submission, sc *configuration.Scoring) int64 {
	if sub.SprintP1 == "" {
		return sc.EmptyPenalty
	}

	podium := [3]string{result.SP1, result.SP2, result.SP3}
	picks := [3]string{sub.SprintP1, sub.SprintP2, sub.SprintP3}

	var pts int64
	for i := range picks {
		if picks[i] != "" && picks[i] == podium[i] && i < len(sc.SprintPoints) {
			pts += sc.SprintPoints[i]
		}
	}

	if onPodium(sub.SprintJolly, podium) {
		pts += sc.SprintJollyBonus
	}

	return pts
}

func onPodium(pick string, podium [3]string) bool {
	if pick == "" {
		return false
	}
	return pick == podium[0] || pick == podium[1] || pick == podium[2]
}
