package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/survivetrack/internal/core/domain"
)

func newAtlas(t *testing.T) *domain.Atlas {
	t.Helper()
	atlas, err := domain.NewAtlas()
	require.NoError(t, err)
	return atlas
}

func TestAtlas_GetKnownKeys(t *testing.T) {
	atlas := newAtlas(t)

	for _, key := range []string{"Zone A", "Zone B", "Zone C"} {
		z, ok := atlas.Get(key)
		require.True(t, ok, "expected %s to exist", key)
		assert.Equal(t, key, z.Key)
	}
	assert.Len(t, atlas.All(), 3)
}

func TestAtlas_GetUnknownKey(t *testing.T) {
	atlas := newAtlas(t)

	for _, key := range []string{"Zone D", "zone a", "", "A"} {
		_, ok := atlas.Get(key)
		assert.False(t, ok, "expected %q to be absent", key)
	}
}

func TestAtlas_ZoneInvariants(t *testing.T) {
	atlas := newAtlas(t)

	for key, z := range atlas.All() {
		assert.True(t, z.Danger.Valid(), "%s danger %q", key, z.Danger)
		assert.True(t, z.ResourceDensity.Valid(), "%s density %q", key, z.ResourceDensity)
		assert.False(t, math.IsNaN(z.Coordinates.Lat) || math.IsNaN(z.Coordinates.Lon), key)
		assert.NotEmpty(t, z.Name)
		assert.NotEmpty(t, z.AlertText)
		assert.NotEmpty(t, z.Resources)
		assert.NoError(t, z.Validate())
	}
}

func TestAtlas_AllReturnsCopy(t *testing.T) {
	atlas := newAtlas(t)

	all := atlas.All()
	z := all["Zone A"]
	z.Resources[0] = "tampered"
	delete(all, "Zone B")

	fresh, _ := atlas.Get("Zone A")
	assert.Equal(t, "💧 Water", fresh.Resources[0])
	_, ok := atlas.Get("Zone B")
	assert.True(t, ok)
}

func TestAtlas_Detect(t *testing.T) {
	atlas := newAtlas(t)

	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"tell me about zone b", "Zone B", true},
		{"ZONEC status?", "Zone C", true},
		{"compare zone c with zone a", "Zone A", true},
		{"what about sector a", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		z, ok := atlas.Detect(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		if tt.ok {
			assert.Equal(t, tt.want, z.Key, tt.text)
		}
	}
}

func TestAtlas_RejectsInvalidZone(t *testing.T) {
	_, err := domain.NewAtlasFrom([]domain.Zone{{Key: "Zone X", Name: "x", Danger: "extreme"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid danger level")
}

func TestAtlas_ResourceMarker(t *testing.T) {
	atlas := newAtlas(t)

	m, ok := atlas.ResourceMarker("water")
	require.True(t, ok)
	assert.Equal(t, "💧", m.Glyph)
	assert.Equal(t, "Water Source", m.DisplayName)

	_, ok = atlas.ResourceMarker("unicorn")
	assert.False(t, ok)
	assert.Len(t, atlas.ResourceMarkers(), 12)
}
