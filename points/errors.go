package points

import (
	"errors"
	"fmt"
)

// Scoring aborts before any write when one of these preconditions fails.
var (
	ErrResultMissing    = errors.New("no official result saved for race")
	ErrResultIncomplete = errors.New("official result is incomplete")
	ErrRaceCancelled    = errors.New("race cancelled")
	ErrChampIncomplete  = errors.New("championship result is incomplete")
)

// UserFailure records one user whose ledger write failed during a
// settlement run. The run continues for the other users.
type UserFailure struct {
	UserId int64
	Err    error
}

// Summary reports the outcome of one settlement run.
type Summary struct {
	Key     string // raceId, or "championship"
	Updated int64
	Failed  []UserFailure
}

// Err returns nil when every user settled, or an error naming how many
// users need a retry.
func (s *Summary) Err() error {
	if len(s.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %d of %d users failed to settle",
		s.Key, len(s.Failed), s.Updated+int64(len(s.Failed)))
}
