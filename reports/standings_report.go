package reports

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"git.sr.ht/~nullevoid/gridpoints/configuration"
	"git.sr.ht/~nullevoid/gridpoints/database"
)

// StandingsRow is one leaderboard row with its movement since the prior
// snapshot.
type StandingsRow struct {
	Position    int64
	UserName    string
	TotalPoints int64
	Jolly       int64
	RacesScored int64
	Delta       int64 // positions moved since the prior snapshot
}

type StandingsData struct {
	Season int64
	Rows   []StandingsRow
}

var standingsTmpl = template.Must(
	template.New("standings.tmpl").
		Funcs(sharedFuncMap).
		ParseFS(tmplFS, "templates/standings.tmpl"),
)

// BuildStandings assembles the current leaderboard with trend columns.
// The trend compares the latest snapshot against the one before it; with
// fewer than two snapshots every delta is 0.
func BuildStandings(store *database.Store, config *configuration.Config) (*StandingsData, error) {
	rows, err := store.GetStandings()
	if err != nil {
		return nil, fmt.Errorf("fetching standings: %w", err)
	}

	latest, err := store.LatestSnapshot(0)
	if err != nil {
		return nil, fmt.Errorf("fetching latest snapshot: %w", err)
	}
	var prior *database.Snapshot
	if latest != nil {
		prior, err = store.LatestSnapshot(latest.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching prior snapshot: %w", err)
		}
	}

	data := &StandingsData{Season: config.General.Season}
	for i, row := range rows {
		pos := int64(i + 1)
		data.Rows = append(data.Rows, StandingsRow{
			Position:    pos,
			UserName:    row.UserName,
			TotalPoints: row.TotalPoints,
			Jolly:       row.Jolly,
			RacesScored: row.RacesScored,
			Delta:       database.PositionDelta(prior, row.UserId, pos),
		})
	}

	return data, nil
}

// ExportStandings renders the leaderboard report and writes it in the
// configured formats.
func ExportStandings(store *database.Store, config *configuration.Config) error {
	data, err := BuildStandings(store, config)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := standingsTmpl.Execute(&buf, data); err != nil {
		return err
	}

	rows := [][]string{{"Position", "Player", "Points", "Jolly", "Races", "Trend"}}
	for _, r := range data.Rows {
		rows = append(rows, []string{
			strconv.FormatInt(r.Position, 10),
			r.UserName,
			strconv.FormatInt(r.TotalPoints, 10),
			strconv.FormatInt(r.Jolly, 10),
			strconv.FormatInt(r.RacesScored, 10),
			trendArrow(r.Delta),
		})
	}

	fileName := fmt.Sprintf("%d_%s", data.Season, config.Report.StandingsFilename)
	return export(fileName, buf, rows, config)
}
