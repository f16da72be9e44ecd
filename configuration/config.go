package configuration

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	defaultReportDir   = "season_reports" // Default directory for reports
	defaultDataDir     = "data"           // Default directory for seed/import data
	defaultDatabaseDir = "database"       // Default directory for database files

	defaultResultURLTmpl = "https://api.jolpi.ca/ergast/f1/%d/%d/results.json?limit=3"
	defaultSprintURLTmpl = "https://api.jolpi.ca/ergast/f1/%d/%d/sprint.json?limit=3"
)

var (
	defaultMainPoints   = []int64{12, 10, 7}
	defaultSprintPoints = []int64{8, 6, 4}
)

// Config is the top-level representation of the TOML file.
type Config struct {
	General  General  `toml:"general"`
	Scoring  Scoring  `toml:"scoring"`
	Feed     Feed     `toml:"feed"`
	Report   Report   `toml:"report"`
	Database Database `toml:"database"`
	Aliases  []Alias  `toml:"aliases"`
}

// General maps the [general] section.
type General struct {
	Season     int64  `toml:"season"`     // e.g. 2025
	FinalRound int64  `toml:"finalRound"` // round number of the season finale
	Directory  string `toml:"directory"`  // "data"
}

// Scoring maps the [scoring] section. Position points are indexed by
// podium slot: points[0] is awarded for a correct P1 pick and so on.
type Scoring struct {
	MainPoints       []int64 `toml:"mainPoints"`       // [12, 10, 7]
	SprintPoints     []int64 `toml:"sprintPoints"`     // [8, 6, 4]
	JollyBonus       int64   `toml:"jollyBonus"`       // main-race wildcard bonus
	SprintJollyBonus int64   `toml:"sprintJollyBonus"` // sprint wildcard bonus
	EmptyPenalty     int64   `toml:"emptyPenalty"`     // no picks submitted
	LatePenalty      int64   `toml:"latePenalty"`      // late submission
}

// Feed maps the [feed] section.
type Feed struct {
	ResultURLTmpl string `toml:"resultURLTmpl"` // e.g. "https://…/f1/%d/%d/results.json?limit=3"
	SprintURLTmpl string `toml:"sprintURLTmpl"` // e.g. "https://…/f1/%d/%d/sprint.json?limit=3"
}

// Report maps the [report] section.
type Report struct {
	Directory         string `toml:"directory"`         // "season_reports"
	Format            string `toml:"format"`            // "markdown", "csv", "pdf" or "all"
	StandingsFilename string `toml:"standingsFilename"` // "standings"
	RaceFilename      string `toml:"raceFilename"`      // "race_points"
}

// Database maps the [database] section.
type Database struct {
	Name      string `toml:"name"`      // "season2025.db"
	Directory string `toml:"directory"` // "database"
}

// Alias maps each [[aliases]] entry: an alternate spelling for a
// roster driver, checked before any roster lookup.
type Alias struct {
	Name string `toml:"name"` // e.g. "Checo"
	Slug string `toml:"slug"` // e.g. "sergio-perez"
}

// Load reads the TOML file at path, decodes into Config, and
// applies any sensible defaults. It returns an error if parsing fails
// or if required fields are missing.
func Load(path string) (*Config, error) {
	// Make sure file exists
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad is like Load but panics on error. Useful in init().
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %+v", err))
	}
	return cfg
}

// validate sets defaults and enforces required fields.
func (c *Config) validate() error {
	if c.General.Season == 0 {
		return fmt.Errorf("general.season is required")
	}

	if c.General.Directory == "" {
		c.General.Directory = defaultDataDir
	}

	if len(c.Scoring.MainPoints) == 0 {
		c.Scoring.MainPoints = defaultMainPoints
	}

	if len(c.Scoring.SprintPoints) == 0 {
		c.Scoring.SprintPoints = defaultSprintPoints
	}

	if c.Scoring.JollyBonus == 0 {
		c.Scoring.JollyBonus = 5
	}

	if c.Scoring.SprintJollyBonus == 0 {
		c.Scoring.SprintJollyBonus = 2
	}

	if c.Scoring.EmptyPenalty == 0 {
		c.Scoring.EmptyPenalty = -3
	}

	if c.Scoring.LatePenalty == 0 {
		c.Scoring.LatePenalty = -3
	}

	if c.Feed.ResultURLTmpl == "" {
		c.Feed.ResultURLTmpl = defaultResultURLTmpl
	}

	if c.Feed.SprintURLTmpl == "" {
		c.Feed.SprintURLTmpl = defaultSprintURLTmpl
	}

	if c.Report.Directory == "" {
		c.Report.Directory = defaultReportDir
	}

	if c.Report.Format == "" {
		c.Report.Format = "markdown"
	}
	switch c.Report.Format {
	case "markdown", "csv", "pdf", "all":
	default:
		return fmt.Errorf("invalid report format '%s': must be 'markdown', 'csv', 'pdf', or 'all'", c.Report.Format)
	}

	if c.Report.StandingsFilename == "" {
		c.Report.StandingsFilename = "standings"
	}

	if c.Report.RaceFilename == "" {
		c.Report.RaceFilename = "race_points"
	}

	if c.Database.Directory == "" {
		c.Database.Directory = defaultDatabaseDir
	}

	return nil
}
