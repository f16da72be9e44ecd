package grab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~nullevoid/gridpoints/roster"
)

const sampleFeed = `{
  "MRData": {
    "RaceTable": {
      "Races": [
        {
          "Results": [
            {"position": "1", "Driver": {"code": "VER", "familyName": "Verstappen"}},
            {"position": "2", "Driver": {"code": "NOR", "familyName": "Norris"}},
            {"position": "3", "Driver": {"code": "LEC", "familyName": "Leclerc"}}
          ],
          "SprintResults": [
            {"position": "1", "Driver": {"code": "NOR", "familyName": "Norris"}},
            {"position": "2", "Driver": {"code": "PIA", "familyName": "Piastri"}},
            {"position": "3", "Driver": {"code": "VER", "familyName": "Verstappen"}}
          ]
        }
      ]
    }
  }
}`

func feedResolver() *roster.Resolver {
	return roster.NewResolver(map[string]string{
		"Verstappen": "max-verstappen",
		"Norris":     "lando-norris",
		"Leclerc":    "charles-leclerc",
		"Piastri":    "oscar-piastri",
	}, nil)
}

func TestParsePodium(t *testing.T) {
	podium, ok, err := parsePodium([]byte(sampleFeed), false, feedResolver())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Podium{
		P1: "max-verstappen",
		P2: "lando-norris",
		P3: "charles-leclerc",
	}, podium)
}

func TestParsePodiumSprint(t *testing.T) {
	podium, ok, err := parsePodium([]byte(sampleFeed), true, feedResolver())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Podium{
		P1: "lando-norris",
		P2: "oscar-piastri",
		P3: "max-verstappen",
	}, podium)
}

func TestParsePodiumNoRaces(t *testing.T) {
	// What the sprint endpoint returns on a non-sprint weekend.
	raw := []byte(`{"MRData": {"RaceTable": {"Races": []}}}`)
	_, ok, err := parsePodium(raw, true, feedResolver())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParsePodiumTooFewRows(t *testing.T) {
	raw := []byte(`{
	  "MRData": {"RaceTable": {"Races": [
	    {"Results": [{"position": "1", "Driver": {"code": "VER", "familyName": "Verstappen"}}]}
	  ]}}
	}`)
	_, _, err := parsePodium(raw, false, feedResolver())
	assert.Error(t, err)
}

func TestParsePodiumFallsBackToCode(t *testing.T) {
	raw := []byte(`{
	  "MRData": {"RaceTable": {"Races": [
	    {"Results": [
	      {"position": "1", "Driver": {"code": "VER"}},
	      {"position": "2", "Driver": {"code": "NOR"}},
	      {"position": "3", "Driver": {"code": "LEC"}}
	    ]}
	  ]}}
	}`)

	res := roster.NewResolver(map[string]string{
		"VER": "max-verstappen",
		"NOR": "lando-norris",
		"LEC": "charles-leclerc",
	}, nil)

	podium, ok, err := parsePodium(raw, false, res)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "max-verstappen", podium.P1)
}

func TestParsePodiumGarbage(t *testing.T) {
	_, _, err := parsePodium([]byte("not json"), false, feedResolver())
	assert.Error(t, err)
}
