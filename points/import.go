package points

import (
	"encoding/json"
	"fmt"
	"os"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"git.sr.ht/~nullevoid/gridpoints/database"
	"git.sr.ht/~nullevoid/gridpoints/roster"
)

// pickFile is the JSON shape the submission front end persists: one file
// per race carrying every user's picks, plus each user's pre-season
// championship picks the first time they appear.
type pickFile struct {
	RaceId      string           `json:"raceId"`
	Submissions []pickSubmission `json:"submissions"`
}

type pickSubmission struct {
	UserId      int64  `json:"userId"`
	UserName    string `json:"userName"`
	MainP1      string `json:"mainP1"`
	MainP2      string `json:"mainP2"`
	MainP3      string `json:"mainP3"`
	MainJolly   string `json:"mainJolly"`
	MainJolly2  string `json:"mainJolly2"`
	SprintP1    string `json:"sprintP1"`
	SprintP2    string `json:"sprintP2"`
	SprintP3    string `json:"sprintP3"`
	SprintJolly string `json:"sprintJolly"`
	IsLate      bool   `json:"isLate"`

	ChampP1 string `json:"champP1"`
	ChampP2 string `json:"champP2"`
	ChampP3 string `json:"champP3"`
	ChampC1 string `json:"champC1"`
	ChampC2 string `json:"champC2"`
	ChampC3 string `json:"champC3"`
}

// ImportPicks loads a JSON pick file, normalizes every pick name through
// the resolver, and upserts the submissions. A ranking entry is created
// for any user seen for the first time, carrying their championship
// picks.
func ImportPicks(path string, store *database.Store, res *roster.Resolver) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading pick file: %w", err)
	}

	var file pickFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return 0, fmt.Errorf("parsing pick file: %w", err)
	}
	if file.RaceId == "" {
		return 0, fmt.Errorf("pick file %s: raceId is required", path)
	}

	if _, err := store.GetRace(file.RaceId); err != nil {
		return 0, err
	}

	for _, p := range file.Submissions {
		sub := database.Submission{
			RaceId:      file.RaceId,
			UserId:      p.UserId,
			UserName:    p.UserName,
			MainP1:      res.Resolve(p.MainP1),
			MainP2:      res.Resolve(p.MainP2),
			MainP3:      res.Resolve(p.MainP3),
			MainJolly:   res.Resolve(p.MainJolly),
			MainJolly2:  res.Resolve(p.MainJolly2),
			SprintP1:    res.Resolve(p.SprintP1),
			SprintP2:    res.Resolve(p.SprintP2),
			SprintP3:    res.Resolve(p.SprintP3),
			SprintJolly: res.Resolve(p.SprintJolly),
			IsLate:      p.IsLate,
		}

		// Overwrite an existing submission for the same race and user:
		// the front end lets users revise picks until the deadline.
		err := store.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "race_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_name", "main_p1", "main_p2", "main_p3",
				"main_jolly", "main_jolly2",
				"sprint_p1", "sprint_p2", "sprint_p3", "sprint_jolly",
				"is_late",
			}),
		}).Create(&sub).Error
		if err != nil {
			return 0, fmt.Errorf("storing submission for user %d: %w", p.UserId, err)
		}

		if err := ensureRankingEntry(store.DB, &p, res); err != nil {
			return 0, err
		}
	}

	return len(file.Submissions), nil
}

// ensureRankingEntry creates the long-lived ranking document for a user
// on first sight. Championship picks are set only when present and never
// overwritten: they are locked pre-season.
func ensureRankingEntry(db *gorm.DB, p *pickSubmission, res *roster.Resolver) error {
	entry := database.RankingEntry{
		UserId:       p.UserId,
		UserName:     p.UserName,
		PointsByRace: map[string]database.LedgerLine{},
		ChampP1:      res.Resolve(p.ChampP1),
		ChampP2:      res.Resolve(p.ChampP2),
		ChampP3:      res.Resolve(p.ChampP3),
		ChampC1:      res.Resolve(p.ChampC1),
		ChampC2:      res.Resolve(p.ChampC2),
		ChampC3:      res.Resolve(p.ChampC3),
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("creating ranking entry for user %d: %w", p.UserId, err)
	}
	return nil
}
