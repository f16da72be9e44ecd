package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLookup map[string]string

func (f fakeLookup) FindDriverSlug(name string) (string, bool) {
	slug, ok := f[name]
	return slug, ok
}

func TestResolveCascade(t *testing.T) {
	res := NewResolver(
		map[string]string{"Checo": "sergio-perez"},
		fakeLookup{"VER": "max-verstappen"},
	)

	// Aliases win, case-insensitively.
	assert.Equal(t, "sergio-perez", res.Resolve("Checo"))
	assert.Equal(t, "sergio-perez", res.Resolve("  checo "))

	// Then the roster lookup.
	assert.Equal(t, "max-verstappen", res.Resolve("VER"))

	// Unknown names fall back to a slug so they stay comparable.
	assert.Equal(t, "some-rookie", res.Resolve("Some Rookie"))
}

func TestResolveEmptyPassesThrough(t *testing.T) {
	res := NewResolver(nil, nil)
	assert.Equal(t, "", res.Resolve(""))
	assert.Equal(t, "", res.Resolve("   "))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Max Verstappen", "max-verstappen"},
		{"Nico Hülkenberg", "nico-h-lkenberg"},
		{"  Red Bull  ", "red-bull"},
		{"O'Ward", "o-ward"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}
