package configuration

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// RaceDescription is the TOML representation of one race weekend,
// written by the admin before the race is created in the database.
type RaceDescription struct {
	Race struct {
		RaceId       string `toml:"raceId"`       // Unique identifier, e.g. "2025-16-monza"
		Season       int64  `toml:"season"`       // Season year
		Round        int64  `toml:"round"`        // Round number within the season
		Name         string `toml:"name"`         // Name of the grand prix
		HasSprint    bool   `toml:"hasSprint"`    // Whether the weekend runs a sprint
		DoublePoints bool   `toml:"doublePoints"` // True only for the season finale
		StartAt      string `toml:"startAt"`      // Race start, RFC 3339
	} `toml:"race"`
}

// ResultDescription is the TOML representation of a manually entered
// official result, used when the feed cannot supply one (for example a
// cancelled race, which the feed has no way to express).
type ResultDescription struct {
	Result struct {
		RaceId          string `toml:"raceId"`
		P1              string `toml:"p1"`
		P2              string `toml:"p2"`
		P3              string `toml:"p3"`
		SP1             string `toml:"sp1"`
		SP2             string `toml:"sp2"`
		SP3             string `toml:"sp3"`
		DoublePoints    bool   `toml:"doublePoints"`
		CancelledMain   bool   `toml:"cancelledMain"`
		CancelledSprint bool   `toml:"cancelledSprint"`
	} `toml:"result"`
}

// ChampionshipDescription is the TOML representation of the season-final
// top-3 drivers and constructors, entered by the admin once the season
// is decided.
type ChampionshipDescription struct {
	Championship struct {
		Season int64  `toml:"season"`
		P1     string `toml:"p1"`
		P2     string `toml:"p2"`
		P3     string `toml:"p3"`
		C1     string `toml:"c1"`
		C2     string `toml:"c2"`
		C3     string `toml:"c3"`
	} `toml:"championship"`
}

// LoadRace reads the TOML file at path and decodes it into a
// RaceDescription. It returns an error if parsing fails.
func LoadRace(path string) (*RaceDescription, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("race file not found: %w", err)
	}

	var desc RaceDescription
	if _, err := toml.DecodeFile(path, &desc); err != nil {
		return nil, fmt.Errorf("parsing race file: %w", err)
	}

	if desc.Race.RaceId == "" {
		return nil, fmt.Errorf("race file %s: raceId is required", path)
	}

	return &desc, nil
}

// LoadResult reads the TOML file at path and decodes it into a
// ResultDescription. It returns an error if parsing fails.
func LoadResult(path string) (*ResultDescription, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("result file not found: %w", err)
	}

	var desc ResultDescription
	if _, err := toml.DecodeFile(path, &desc); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}

	if desc.Result.RaceId == "" {
		return nil, fmt.Errorf("result file %s: raceId is required", path)
	}

	return &desc, nil
}

// LoadChampionship reads the TOML file at path and decodes it into a
// ChampionshipDescription. It returns an error if parsing fails.
func LoadChampionship(path string) (*ChampionshipDescription, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("championship file not found: %w", err)
	}

	var desc ChampionshipDescription
	if _, err := toml.DecodeFile(path, &desc); err != nil {
		return nil, fmt.Errorf("parsing championship file: %w", err)
	}

	return &desc, nil
}
