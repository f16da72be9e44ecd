package database

import "time"

// Driver represents a roster driver in the table drivers. Scoring treats
// drivers as opaque slugs; this table exists for seeding and name lookup.
type Driver struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Slug        string `gorm:"size:255;uniqueIndex;not null" json:"Slug"` // e.g. "max-verstappen"
	Code        string `gorm:"size:8;index" json:"Code"`                  // e.g. "VER"
	Name        string `gorm:"size:255;not null" json:"Name"`             // Full name
	FamilyName  string `gorm:"size:255;index" json:"FamilyName"`          // e.g. "Verstappen"
	Constructor string `gorm:"size:255" json:"Constructor"`               // Constructor slug
}

// Constructor represents a roster constructor in the table constructors.
type Constructor struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Slug string `gorm:"size:255;uniqueIndex;not null" json:"Slug"` // e.g. "ferrari"
	Name string `gorm:"size:255;not null" json:"Name"`             // e.g. "Ferrari"
}

// Race represents one race weekend.
type Race struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	RaceId       string    `gorm:"size:255;not null;uniqueIndex"` // e.g. "2025-16-monza"
	Season       int64     `gorm:"not null"`                      // Season year
	Round        int64     `gorm:"not null"`                      // Round number within the season
	Name         string    `gorm:"size:255;not null"`             // Name of the grand prix
	HasSprint    bool      `gorm:"not null"`                      // Whether the weekend runs a sprint
	DoublePoints bool      `gorm:"not null"`                      // True only for the season finale
	StartAt      time.Time `gorm:"not null"`                      // Race start
}

// Submission holds one user's picks for one race. It is written by the
// submission front end before the deadline; scoring only reads it and
// writes back the two cached point totals.
type Submission struct {
	ID                 int64  `gorm:"primaryKey;autoIncrement"`
	RaceId             string `gorm:"size:255;not null;index:idx_sub_race;uniqueIndex:idx_sub_race_user" json:"RaceId"`
	UserId             int64  `gorm:"not null;uniqueIndex:idx_sub_race_user" json:"UserId"`
	UserName           string `gorm:"size:255;not null" json:"UserName"`
	MainP1             string `gorm:"size:255" json:"MainP1"` // Predicted winner
	MainP2             string `gorm:"size:255" json:"MainP2"`
	MainP3             string `gorm:"size:255" json:"MainP3"`
	MainJolly          string `gorm:"size:255" json:"MainJolly"`  // Wildcard, scored anywhere in top-3
	MainJolly2         string `gorm:"size:255" json:"MainJolly2"` // Optional second wildcard
	SprintP1           string `gorm:"size:255" json:"SprintP1"`
	SprintP2           string `gorm:"size:255" json:"SprintP2"`
	SprintP3           string `gorm:"size:255" json:"SprintP3"`
	SprintJolly        string `gorm:"size:255" json:"SprintJolly"`
	IsLate             bool   `gorm:"not null;default:false" json:"IsLate"` // Late-submission penalty marker
	PointsEarned       int64  `gorm:"not null;default:0"`                   // Cached main total, set by scoring
	PointsEarnedSprint int64  `gorm:"not null;default:0"`                   // Cached sprint total, set by scoring
}

// OfficialResult holds the authoritative top-3 for one race.
type OfficialResult struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	RaceId          string `gorm:"size:255;not null;uniqueIndex"`
	P1              string `gorm:"size:255"`
	P2              string `gorm:"size:255"`
	P3              string `gorm:"size:255"`
	SP1             string `gorm:"size:255"` // Sprint top-3, empty when no sprint was run
	SP2             string `gorm:"size:255"`
	SP3             string `gorm:"size:255"`
	DoublePoints    bool   `gorm:"not null;default:false"`
	CancelledMain   bool   `gorm:"not null;default:false"`
	CancelledSprint bool   `gorm:"not null;default:false"`
}

// HasSprint reports whether the result carries a complete sprint podium.
func (r *OfficialResult) HasSprint() bool {
	return r.SP1 != "" && r.SP2 != "" && r.SP3 != ""
}

// Complete reports whether the main podium is fully known.
func (r *OfficialResult) Complete() bool {
	return r.P1 != "" && r.P2 != "" && r.P3 != ""
}

// ChampionshipResult is the singleton season-final record: top-3 drivers
// and top-3 constructors.
type ChampionshipResult struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Season int64  `gorm:"not null;uniqueIndex"`
	P1     string `gorm:"size:255"`
	P2     string `gorm:"size:255"`
	P3     string `gorm:"size:255"`
	C1     string `gorm:"size:255"`
	C2     string `gorm:"size:255"`
	C3     string `gorm:"size:255"`
}

// Complete reports whether all six championship slots are known.
func (r *ChampionshipResult) Complete() bool {
	return r.P1 != "" && r.P2 != "" && r.P3 != "" &&
		r.C1 != "" && r.C2 != "" && r.C3 != ""
}

// LedgerLine is one per-race entry of a user's point ledger: the points
// last credited for that race, including any jolly tokens granted by the
// round-up rule. Reconciliation diffs a fresh line against the stored one.
type LedgerLine struct {
	Main   int64 `json:"main"`
	Sprint int64 `json:"sprint"`
	Jolly  int64 `json:"jolly"`
}

// Total is the running-total contribution of the line.
func (l LedgerLine) Total() int64 { return l.Main + l.Sprint }

// RankingEntry is the long-lived per-user leaderboard document. The
// invariant reconciliation preserves: TotalPoints equals the sum of all
// PointsByRace lines plus ChampionshipPts.
type RankingEntry struct {
	ID              int64                 `gorm:"primaryKey;autoIncrement"`
	UserId          int64                 `gorm:"not null;uniqueIndex" json:"UserId"`
	UserName        string                `gorm:"size:255;not null" json:"UserName"`
	TotalPoints     int64                 `gorm:"not null;default:0"`
	Jolly           int64                 `gorm:"not null;default:0"`         // Wildcard tokens available to spend
	ChampionshipPts int64                 `gorm:"not null;default:0"`         // Last computed championship score
	ChampJolly      int64                 `gorm:"not null;default:0"`         // Jolly granted by championship round-ups
	PointsByRace    map[string]LedgerLine `gorm:"serializer:json"`            // raceId -> last credited line
	ChampP1         string                `gorm:"size:255" json:"ChampP1"`    // Pre-season driver picks
	ChampP2         string                `gorm:"size:255" json:"ChampP2"`
	ChampP3         string                `gorm:"size:255" json:"ChampP3"`
	ChampC1         string                `gorm:"size:255" json:"ChampC1"`    // Pre-season constructor picks
	ChampC2         string                `gorm:"size:255" json:"ChampC2"`
	ChampC3         string                `gorm:"size:255" json:"ChampC3"`
}

// Snapshot is one append-only leaderboard capture, taken right after a
// scoring run. Snapshots are never mutated.
type Snapshot struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Type      string    `gorm:"size:32;not null"`  // "race" or "championship"
	Key       string    `gorm:"size:255"`          // raceId for race snapshots, empty otherwise
	CreatedAt time.Time `gorm:"not null"`
	Entries   []SnapshotEntry `gorm:"foreignKey:SnapshotID"`
}

// SnapshotEntry is one row of a snapshot, in leaderboard order.
type SnapshotEntry struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	SnapshotID int64 `gorm:"not null;index:idx_se_snapshot"`
	UserId     int64 `gorm:"not null"`
	Position   int64 `gorm:"not null"` // 1-based leaderboard position
	Points     int64 `gorm:"not null"`
	Jolly      int64 `gorm:"not null"`
}

// StandingRow is one leaderboard row as returned by the standings query.
type StandingRow struct {
	UserId      int64  `gorm:"column:user_id"`
	UserName    string `gorm:"column:user_name"`
	TotalPoints int64  `gorm:"column:total_points"`
	Jolly       int64  `gorm:"column:jolly"`
	RacesScored int64  `gorm:"column:races_scored"`
}
