package reports

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"text/template"

	"git.sr.ht/~nullevoid/gridpoints/configuration"
	"git.sr.ht/~nullevoid/gridpoints/database"
)

// RaceRow is one user's scored submission for the race report.
type RaceRow struct {
	Position  int64
	UserName  string
	MainPts   int64
	SprintPts int64
	Total     int64
	IsLate    bool
}

type RaceData struct {
	Race   *database.Race
	Result *database.OfficialResult
	Rows   []RaceRow
}

var raceTmpl = template.Must(
	template.New("race.tmpl").
		Funcs(sharedFuncMap).
		ParseFS(tmplFS, "templates/race.tmpl"),
)

// ExportRace renders the per-race scoring breakdown from the cached
// submission totals. Scoring must have run first.
func ExportRace(raceId string, store *database.Store, config *configuration.Config) error {
	race, err := store.GetRace(raceId)
	if err != nil {
		return err
	}

	result, err := store.GetOfficialResult(raceId)
	if err != nil {
		return fmt.Errorf("fetching official result: %w", err)
	}
	if result == nil {
		return fmt.Errorf("no official result saved for race %s", raceId)
	}

	subs, err := store.ListSubmissions(raceId)
	if err != nil {
		return fmt.Errorf("fetching submissions: %w", err)
	}

	data := RaceData{Race: race, Result: result}
	for _, sub := range subs {
		data.Rows = append(data.Rows, RaceRow{
			UserName:  sub.UserName,
			MainPts:   sub.PointsEarned,
			SprintPts: sub.PointsEarnedSprint,
			Total:     sub.PointsEarned + sub.PointsEarnedSprint,
			IsLate:    sub.IsLate,
		})
	}

	sort.SliceStable(data.Rows, func(i, j int) bool {
		return data.Rows[i].Total > data.Rows[j].Total
	})
	for i := range data.Rows {
		data.Rows[i].Position = int64(i + 1)
	}

	var buf bytes.Buffer
	if err := raceTmpl.Execute(&buf, data); err != nil {
		return err
	}

	rows := [][]string{{"Position", "Player", "Main", "Sprint", "Total", "Late"}}
	for _, r := range data.Rows {
		rows = append(rows, []string{
			strconv.FormatInt(r.Position, 10),
			r.UserName,
			strconv.FormatInt(r.MainPts, 10),
			strconv.FormatInt(r.SprintPts, 10),
			strconv.FormatInt(r.Total, 10),
			strconv.FormatBool(r.IsLate),
		})
	}

	fileName := fmt.Sprintf("%s_%s", raceId, config.Report.RaceFilename)
	return export(fileName, buf, rows, config)
}
