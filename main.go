package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"git.sr.ht/~nullevoid/gridpoints/configuration"
	"git.sr.ht/~nullevoid/gridpoints/database"
	"git.sr.ht/~nullevoid/gridpoints/grab"
	"git.sr.ht/~nullevoid/gridpoints/points"
	"git.sr.ht/~nullevoid/gridpoints/reports"
	"git.sr.ht/~nullevoid/gridpoints/roster"
)

const (
	configPath     string = "config.toml" // Path to the configuration file
	rosterFileName string = "drivers.json"
)

func main() {
	// flags
	createFlag := flag.String("create", "", "create a race from a TOML description file")
	importFlag := flag.String("import", "", "import a JSON pick file for a race")
	resultsFlag := flag.String("results", "", "fetch official results from the feed for the given race ID")
	resultFileFlag := flag.String("result-file", "", "save a manually entered result from a TOML file")
	scoreFlag := flag.String("score", "", "score a race and settle the leaderboard, given race ID")
	finalFlag := flag.String("final", "", "save the championship result from a TOML file")
	championshipFlag := flag.Bool("championship", false, "score the championship and settle the leaderboard")
	standingsFlag := flag.Bool("standings", false, "print the current standings")
	reportFlag := flag.String("report", "", "export the scoring report for the given race ID")
	summaryFlag := flag.Bool("summary", false, "export the season standings report")

	flag.Parse()

	// Load the configuration
	config := configuration.MustLoad(configPath)

	// init database store
	if err := os.MkdirAll(config.Database.Directory, 0o755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}
	store, err := database.NewStore(filepath.Join(config.Database.Directory, config.Database.Name))
	if err != nil {
		log.Fatalf("Failed to initialize database store: %v", err)
	}
	defer store.Close()

	if err := store.SeedRoster(filepath.Join(config.General.Directory, rosterFileName)); err != nil {
		log.Fatalf("Failed to seed roster: %v", err)
	}

	resolver := newResolver(config, store)

	if *createFlag != "" {
		if err := createRace(*createFlag, store); err != nil {
			log.Fatalf("Failed to create race: %v", err)
		}
		return
	}

	if *importFlag != "" {
		n, err := points.ImportPicks(*importFlag, store, resolver)
		if err != nil {
			log.Fatalf("Failed to import picks: %v", err)
		}
		fmt.Printf("Imported %d submissions.\n", n)
		return
	}

	if *resultsFlag != "" {
		if err := fetchResults(*resultsFlag, store, config, resolver); err != nil {
			log.Fatalf("Failed to fetch results: %v", err)
		}
		fmt.Printf("Official result for %s saved.\n", *resultsFlag)
		return
	}

	if *resultFileFlag != "" {
		if err := saveManualResult(*resultFileFlag, store, resolver); err != nil {
			log.Fatalf("Failed to save result: %v", err)
		}
		return
	}

	if *scoreFlag != "" {
		summary, err := points.SettleRace(store, *scoreFlag, config)
		if err != nil {
			log.Fatalf("Failed to score race: %v", err)
		}
		printSummary(summary)
		return
	}

	if *finalFlag != "" {
		if err := saveChampionshipResult(*finalFlag, store, config, resolver); err != nil {
			log.Fatalf("Failed to save championship result: %v", err)
		}
		return
	}

	if *championshipFlag {
		summary, err := points.SettleChampionship(store, config)
		if err != nil {
			log.Fatalf("Failed to score championship: %v", err)
		}
		printSummary(summary)
		return
	}

	if *standingsFlag {
		if err := printStandings(store, config); err != nil {
			log.Fatalf("Failed to fetch standings: %v", err)
		}
		return
	}

	if *reportFlag != "" {
		if err := reports.ExportRace(*reportFlag, store, config); err != nil {
			log.Fatalf("Failed to export race report: %v", err)
		}
		fmt.Println("Race report exported.")
		return
	}

	if *summaryFlag {
		if err := reports.ExportStandings(store, config); err != nil {
			log.Fatalf("Failed to export standings report: %v", err)
		}
		fmt.Println("Standings report exported.")
		return
	}

	flag.Usage()
}

func newResolver(config *configuration.Config, store *database.Store) *roster.Resolver {
	aliases := make(map[string]string, len(config.Aliases))
	for _, a := range config.Aliases {
		aliases[a.Name] = a.Slug
	}
	return roster.NewResolver(aliases, store)
}

func createRace(path string, store *database.Store) error {
	desc, err := configuration.LoadRace(path)
	if err != nil {
		return err
	}

	startAt, err := time.Parse(time.RFC3339, desc.Race.StartAt)
	if err != nil {
		return fmt.Errorf("parsing startAt: %w", err)
	}

	race := database.Race{
		RaceId:       desc.Race.RaceId,
		Season:       desc.Race.Season,
		Round:        desc.Race.Round,
		Name:         desc.Race.Name,
		HasSprint:    desc.Race.HasSprint,
		DoublePoints: desc.Race.DoublePoints,
		StartAt:      startAt,
	}
	if err := store.CreateRace(&race); err != nil {
		return err
	}

	fmt.Printf("Race %s created successfully.\n", race.RaceId)
	return nil
}

func fetchResults(
	raceId string, store *database.Store,
	config *configuration.Config, resolver *roster.Resolver,
) error {
	race, err := store.GetRace(raceId)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fetched, err := grab.Results(ctx, race.Season, race.Round, config, resolver)
	if err != nil {
		return err
	}

	result := database.OfficialResult{
		RaceId:       raceId,
		P1:           fetched.Main.P1,
		P2:           fetched.Main.P2,
		P3:           fetched.Main.P3,
		DoublePoints: race.DoublePoints,
	}
	if fetched.HasSprint {
		result.SP1 = fetched.Sprint.P1
		result.SP2 = fetched.Sprint.P2
		result.SP3 = fetched.Sprint.P3
	}

	return store.SaveOfficialResult(&result)
}

func saveManualResult(path string, store *database.Store, resolver *roster.Resolver) error {
	desc, err := configuration.LoadResult(path)
	if err != nil {
		return err
	}

	result := database.OfficialResult{
		RaceId:          desc.Result.RaceId,
		P1:              resolver.Resolve(desc.Result.P1),
		P2:              resolver.Resolve(desc.Result.P2),
		P3:              resolver.Resolve(desc.Result.P3),
		SP1:             resolver.Resolve(desc.Result.SP1),
		SP2:             resolver.Resolve(desc.Result.SP2),
		SP3:             resolver.Resolve(desc.Result.SP3),
		DoublePoints:    desc.Result.DoublePoints,
		CancelledMain:   desc.Result.CancelledMain,
		CancelledSprint: desc.Result.CancelledSprint,
	}
	if err := store.SaveOfficialResult(&result); err != nil {
		return err
	}

	fmt.Printf("Official result for %s saved.\n", result.RaceId)
	return nil
}

func saveChampionshipResult(
	path string, store *database.Store,
	config *configuration.Config, resolver *roster.Resolver,
) error {
	desc, err := configuration.LoadChampionship(path)
	if err != nil {
		return err
	}

	season := desc.Championship.Season
	if season == 0 {
		season = config.General.Season
	}

	result := database.ChampionshipResult{
		Season: season,
		P1:     resolver.Resolve(desc.Championship.P1),
		P2:     resolver.Resolve(desc.Championship.P2),
		P3:     resolver.Resolve(desc.Championship.P3),
		C1:     roster.Slugify(desc.Championship.C1),
		C2:     roster.Slugify(desc.Championship.C2),
		C3:     roster.Slugify(desc.Championship.C3),
	}
	if err := store.SaveChampionshipResult(&result); err != nil {
		return err
	}

	fmt.Printf("Championship result for season %d saved.\n", season)
	return nil
}

func printStandings(store *database.Store, config *configuration.Config) error {
	data, err := reports.BuildStandings(store, config)
	if err != nil {
		return err
	}

	// must print the headers first
	fmt.Println("Position,Player,Points,Jolly,Races")
	for _, row := range data.Rows {
		fmt.Printf("%d,%s,%d,%d,%d\n",
			row.Position, row.UserName, row.TotalPoints, row.Jolly, row.RacesScored)
	}
	return nil
}

func printSummary(summary *points.Summary) {
	if err := summary.Err(); err != nil {
		fmt.Printf("Partial settlement for %s: %d users updated, %d failed.\n",
			summary.Key, summary.Updated, len(summary.Failed))
		for _, f := range summary.Failed {
			fmt.Printf("  user %d needs retry: %v\n", f.UserId, f.Err)
		}
		os.Exit(1)
	}
	fmt.Printf("Settled %s: %d users updated.\n", summary.Key, summary.Updated)
}
