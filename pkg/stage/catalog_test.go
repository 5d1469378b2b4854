package stage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	wantOrder := []string{"everest", "mont_ventoux", "enfer_du_nord", "la_soif"}
	all := c.All()
	require.Len(t, all, len(wantOrder))
	for i, s := range all {
		assert.Equal(t, wantOrder[i], s.ID)
		assert.NoError(t, s.Validate())
	}
}

func TestCatalog_BuiltinShapes(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		id         string
		levelCount int
		rests      int
	}{
		{id: "everest", levelCount: 20, rests: 6},
		{id: "mont_ventoux", levelCount: 20, rests: 6},
		{id: "enfer_du_nord", levelCount: 20, rests: 6},
		{id: "la_soif", levelCount: 10, rests: 3},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, err := c.Lookup(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.levelCount, s.LevelCount())
			rests := 0
			for i := 1; i <= s.LevelCount(); i++ {
				if s.IsRestCheckpoint(i) {
					rests++
				}
			}
			assert.Equal(t, tt.rests, rests)
		})
	}
}

func TestCatalog_LookupUnknown(t *testing.T) {
	_, err := DefaultCatalog().Lookup("col_du_galibier")
	assert.ErrorIs(t, err, ErrStageNotFound)
}

func TestCatalog_LoadFile(t *testing.T) {
	content := `[
	  {"id": "la_soif", "title": "Replaced", "levels": [{"duration": 30}]},
	  {"id": "custom", "title": "Custom", "levels": [{"duration": 45, "rest": true}]}
	]`
	path := filepath.Join(t.TempDir(), "stages.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c := DefaultCatalog()
	require.NoError(t, c.LoadFile(path))

	replaced, err := c.Lookup("la_soif")
	require.NoError(t, err)
	assert.Equal(t, "Replaced", replaced.Title)
	assert.Equal(t, 1, replaced.LevelCount())

	custom, err := c.Lookup("custom")
	require.NoError(t, err)
	assert.True(t, custom.IsRestCheckpoint(1))

	// replaced id keeps its place, new id is appended
	all := c.All()
	assert.Equal(t, "la_soif", all[3].ID)
	assert.Equal(t, "custom", all[4].ID)
}

func TestCatalog_LoadFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "broken json", content: `[{"id": "x"`},
		{name: "invalid stage", content: `[{"id": "x", "levels": []}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "stages.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			assert.Error(t, DefaultCatalog().LoadFile(path))
		})
	}
}

func TestCatalog_LoadFileMissing(t *testing.T) {
	err := DefaultCatalog().LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
