package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/table"
)

func TestColumnsRoundTrip(t *testing.T) {
	s := Store{Dir: filepath.Join(t.TempDir(), "formdesk")}

	got, err := s.LoadColumns()
	require.NoError(t, err)
	assert.Nil(t, got)

	want := Columns{
		"Spring Casting Call": fields.Configs{
			"Status": {Colored: map[string]fields.Color{"approved": fields.ColorGreen}},
			"Medium": {MultipleChoice: true},
		},
	}
	require.NoError(t, s.SaveColumns(want))

	got, err = s.LoadColumns()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadColumnsRejectsGarbage(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, columnsFile), []byte("{not json"), 0o600))

	_, err := s.LoadColumns()
	require.Error(t, err)
}

func TestCollectAndApply(t *testing.T) {
	tables := []table.Table{
		{Name: "Creator Log"},
		{Name: "Spring Casting Call", Config: fields.Configs{"Website": {Link: true}}},
	}
	cols := Collect(tables)
	require.Len(t, cols, 1)
	assert.True(t, cols["Spring Casting Call"]["Website"].Link)

	fresh := []table.Table{{Name: "Creator Log"}, {Name: "Spring Casting Call"}}
	applied := Apply(fresh, cols)
	assert.True(t, applied[1].Config.For("Website").Link)
	assert.Nil(t, fresh[1].Config, "input tables untouched")
	assert.Nil(t, applied[0].Config)
}
