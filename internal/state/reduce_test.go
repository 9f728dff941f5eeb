package state

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/filter"
	"github.com/jask/formdesk/internal/table"
)

func mkRow(id, form string, kv ...any) table.Row {
	r := table.Row{ID: id, FormName: form, Origin: table.OriginSubmissions, Notes: "n-" + id, Fields: map[string]fields.Value{}}
	for i := 0; i+1 < len(kv); i += 2 {
		k := kv[i].(string)
		r.Fields[k] = fields.FromAny(kv[i+1])
		r.Keys = append(r.Keys, k)
	}
	return r
}

// sk is the key of a submission row.
func sk(id string) string {
	return table.Row{ID: id, Origin: table.OriginSubmissions}.Key()
}

func loaded(t *testing.T, n int) State {
	t.Helper()
	var rows []table.Row
	for i := 0; i < n; i++ {
		rows = append(rows, mkRow(fmt.Sprint("s", i), "Spring", "Name", fmt.Sprint("Person ", i), "City", "Austin"))
	}
	tables := []table.Table{
		{Name: "Creator Log", Section: table.SectionSelected, Columns: []string{"Creator"}, Rows: []table.Row{
			{ID: "c0", FormName: "Creator Log", Origin: table.OriginCreatorLog, Fields: map[string]fields.Value{"Creator": fields.String("Existing")}, Keys: []string{"Creator"}},
		}},
		{Name: "Spring", Section: table.SectionAll, Columns: []string{"Name", "City"}, Rows: rows},
	}
	s := Reduce(New(0), LoadCompleted{Tables: tables})
	require.Equal(t, "Creator Log", s.Active)
	return Reduce(s, SwitchTab{Name: "Spring"})
}

func okResult(r table.Row) MoveResult {
	return MoveResult{Key: r.Key(), Fields: map[string]fields.Value{"Creator": r.Get("Name")}, Keys: []string{"Creator"}}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	s := New(0)
	require.True(t, s.Loading)
	require.Equal(t, table.DefaultPageSize, s.PageSize)

	failed := Reduce(s, LoadFailed{Err: errors.New("boom")})
	require.False(t, failed.Loading)
	require.EqualError(t, failed.LoadErr, "boom")
	require.Empty(t, failed.Tables)

	ok := Reduce(Reduce(failed, LoadStarted{}), LoadCompleted{Tables: []table.Table{{Name: "Only"}}})
	require.NoError(t, ok.LoadErr)
	require.False(t, ok.Loading)
	require.Equal(t, "Only", ok.Active)
}

func TestMove_ShrinksAndGrowsByN(t *testing.T) {
	t.Parallel()

	s := loaded(t, 5)
	before := table.CloneAll(s.Tables)

	s = Reduce(s, ToggleRow{Key: sk("s1")})
	require.Equal(t, PhaseSelecting, s.Phase())
	s = Reduce(s, ToggleRow{Key: sk("s3")})
	s = Reduce(s, ChooseTarget{Name: "Creator Log"})
	require.Equal(t, PhaseTargetChosen, s.Phase())

	s = Reduce(s, StartMove{})
	require.Equal(t, PhaseMoving, s.Phase())
	require.Len(t, s.InFlight.Rows, 2)

	// a second start while in flight is ignored
	again := Reduce(s, StartMove{})
	require.Same(t, s.InFlight, again.InFlight)

	var results []MoveResult
	for _, r := range s.InFlight.Rows {
		results = append(results, okResult(r))
	}
	s = Reduce(s, MoveCompleted{Source: "Spring", Target: "Creator Log", Results: results})

	require.Equal(t, PhaseCommitted, s.Phase())
	require.True(t, s.CanRevert)
	require.Empty(t, s.Selected)
	src, _ := s.Current()
	require.Len(t, src.Rows, 3)
	dst := s.Tables[table.Index(s.Tables, "Creator Log")]
	require.Len(t, dst.Rows, 3)
	moved := dst.Rows[1]
	require.Equal(t, "s1", moved.ID)
	require.Equal(t, "n-s1", moved.Notes)
	require.Equal(t, table.OriginSubmissions, moved.Origin, "stored record has not moved")
	require.True(t, moved.Mapped)
	require.Equal(t, "Person 1", moved.Get("Creator").String())
	require.NotNil(t, s.Notice)
	require.False(t, s.Notice.Error)

	s = Reduce(s, Revert{})
	require.False(t, s.CanRevert)
	require.Nil(t, s.Snapshot)
	require.Empty(t, cmp.Diff(before, s.Tables))
	require.Equal(t, PhaseIdle, s.Phase())
}

func TestMove_CollidingIDsStayDistinct(t *testing.T) {
	t.Parallel()

	ann := table.Row{ID: "1", FormName: "Spring", Origin: table.OriginSubmissions,
		Fields: map[string]fields.Value{"Name": fields.String("Ann"), "Token": fields.String("tok-ann")}, Keys: []string{"Name", "Token"}}
	bob := table.Row{ID: "1", FormName: "Creator Log", Origin: table.OriginCreatorLog,
		Fields: map[string]fields.Value{"Creator": fields.String("Bob")}, Keys: []string{"Creator"}}
	s := Reduce(New(0), LoadCompleted{Tables: []table.Table{
		{Name: "Creator Log", Section: table.SectionSelected, Columns: []string{"Creator"}, Rows: []table.Row{bob}},
		{Name: "Spring", Section: table.SectionAll, Columns: []string{"Name", "Token"}, Rows: []table.Row{ann}},
	}})
	s = Reduce(s, SwitchTab{Name: "Spring"})
	s = Reduce(s, ToggleRow{Key: ann.Key()})
	s = Reduce(s, ChooseTarget{Name: "Creator Log"})
	s = Reduce(s, StartMove{})
	// the mapping drops Token and invents one of its own
	s = Reduce(s, MoveCompleted{Source: "Spring", Target: "Creator Log", Results: []MoveResult{{
		Key:    ann.Key(),
		Fields: map[string]fields.Value{"Creator": fields.String("Ann"), "Token": fields.String("made-up")},
		Keys:   []string{"Creator", "Token"},
	}}})

	s = Reduce(s, SwitchTab{Name: "Creator Log"})
	cur, _ := s.Current()
	require.Len(t, cur.Rows, 2)
	require.NotEqual(t, cur.Rows[0].Key(), cur.Rows[1].Key())

	s = Reduce(s, ToggleRow{Key: ann.Key()})
	require.Len(t, s.SelectedRows(), 1)
	require.Equal(t, "Ann", s.SelectedRows()[0].Get("Creator").String())

	moved := cur.Rows[cur.Find(ann.Key())]
	require.Equal(t, table.OriginSubmissions, moved.Origin)
	require.Equal(t, "tok-ann", moved.StoredToken())

	s = Reduce(s, NotesSaved{Table: "Creator Log", RowKey: ann.Key(), Notes: "for Ann"})
	cur, _ = s.Current()
	require.Equal(t, "for Ann", cur.Rows[cur.Find(ann.Key())].Notes)
	require.Empty(t, cur.Rows[cur.Find(bob.Key())].Notes)
}

func TestMove_FailedRowsStayInSource(t *testing.T) {
	t.Parallel()

	s := loaded(t, 3)
	s = Reduce(s, ToggleRow{Key: sk("s0")})
	s = Reduce(s, ToggleRow{Key: sk("s2")})
	s = Reduce(s, ChooseTarget{Name: "Creator Log"})
	s = Reduce(s, StartMove{})

	rows := s.InFlight.Rows
	s = Reduce(s, MoveCompleted{Source: "Spring", Target: "Creator Log", Results: []MoveResult{
		okResult(rows[0]),
		{Key: rows[1].Key(), Err: errors.New("unparsable")},
	}})

	src, _ := s.Current()
	require.Len(t, src.Rows, 2)
	require.GreaterOrEqual(t, src.Find(sk("s2")), 0)
	require.Len(t, s.Tables[0].Rows, 2)
	require.True(t, s.Notice.Error)
	require.Contains(t, s.Notice.Text, "1 rows could not be mapped")
}

func TestMove_AllFailedKeepsTables(t *testing.T) {
	t.Parallel()

	s := loaded(t, 2)
	before := table.CloneAll(s.Tables)
	s = Reduce(s, ToggleRow{Key: sk("s0")})
	s = Reduce(s, ChooseTarget{Name: "Creator Log"})
	s = Reduce(s, StartMove{})
	s = Reduce(s, MoveCompleted{Source: "Spring", Target: "Creator Log", Results: []MoveResult{{Key: sk("s0"), Err: errors.New("timeout")}}})

	require.Nil(t, s.InFlight)
	require.False(t, s.CanRevert)
	require.Empty(t, cmp.Diff(before, s.Tables))
	require.True(t, s.Notice.Error)
}

func TestStartMove_Guards(t *testing.T) {
	t.Parallel()

	s := loaded(t, 2)
	require.Nil(t, Reduce(s, StartMove{}).InFlight, "no selection")
	s = Reduce(s, ToggleRow{Key: sk("s0")})
	require.Nil(t, Reduce(s, StartMove{}).InFlight, "no target")
	require.Empty(t, Reduce(s, ChooseTarget{Name: "Spring"}).Target, "source cannot be target")
	require.Empty(t, Reduce(s, ChooseTarget{Name: "Nope"}).Target)
}

func TestRevert_NoopWithoutSnapshot(t *testing.T) {
	t.Parallel()

	s := loaded(t, 2)
	require.Empty(t, cmp.Diff(s.Tables, Reduce(s, Revert{}).Tables))
}

func TestSelectPage_OnlyVisiblePage(t *testing.T) {
	t.Parallel()

	s := Reduce(loaded(t, 150), SelectPage{})
	require.Len(t, s.Selected, table.DefaultPageSize)
	s = Reduce(s, SetPage{Page: 1})
	require.Equal(t, 1, s.Page)
	s = Reduce(s, SelectPage{})
	require.Len(t, s.Selected, 150)
	s = Reduce(s, SelectPage{})
	require.Len(t, s.Selected, 100)
}

func TestSwitchTab_ClearsViewState(t *testing.T) {
	t.Parallel()

	s := loaded(t, 3)
	s = Reduce(s, SetSearch{Query: "Person 1"})
	s = Reduce(s, DropCell{Column: "City", Value: "Austin"})
	s = Reduce(s, ToggleRow{Key: sk("s1")})
	require.Len(t, s.Visible(), 1)
	require.Len(t, s.Chips(), 1)

	s = Reduce(s, SwitchTab{Name: "Creator Log"})
	require.Empty(t, s.Search)
	require.Zero(t, s.Filters.Len())
	require.Empty(t, s.Selected)
	require.Len(t, s.Visible(), 1)
}

func TestFiltersAndChipsStayPaired(t *testing.T) {
	t.Parallel()

	s := loaded(t, 3)
	s = Reduce(s, AddFilter{})
	require.Empty(t, s.Chips())
	s = Reduce(s, UpdateFilter{Index: 0, Filter: filter.Filter{Column: "Name", Operator: filter.Contains, Value: "2"}})
	require.Len(t, s.Chips(), 1)
	require.Len(t, s.Visible(), 1)

	s = Reduce(s, RemoveChip{Chip: s.Chips()[0]})
	require.Zero(t, s.Filters.Len())
	require.Len(t, s.Visible(), 3)
}

func TestSortBy(t *testing.T) {
	t.Parallel()

	s := Reduce(loaded(t, 3), SortBy{Field: "Name"})
	require.Equal(t, "s0", s.Visible()[0].ID)
	s = Reduce(s, SortBy{Field: "Name"})
	require.Equal(t, table.Desc, s.SortDir)
	require.Equal(t, "s2", s.Visible()[0].ID)
}

func TestNotesAndColumnConfig(t *testing.T) {
	t.Parallel()

	s := loaded(t, 2)
	orig := s.Tables
	s = Reduce(s, NotesSaved{Table: "Spring", RowKey: sk("s1"), Notes: `{"workQuality":"good"}`})
	cur, _ := s.Current()
	require.Equal(t, `{"workQuality":"good"}`, cur.Rows[cur.Find(sk("s1"))].Notes)
	require.Equal(t, "n-s1", orig[1].Rows[1].Notes, "input state untouched")

	s = Reduce(s, SetColumnColor{Table: "Spring", Column: "City", Value: "Austin", Color: fields.ColorGreen})
	require.Equal(t, fields.ColorGreen, s.ColumnConfig("City").Colored["Austin"])
	s = Reduce(s, SetColumnColor{Table: "Spring", Column: "City", Value: "Austin"})
	require.NotContains(t, s.ColumnConfig("City").Colored, "Austin")

	s = Reduce(s, SetColumnFlags{Table: "Spring", Column: "City", MultipleChoice: true})
	require.True(t, s.ColumnConfig("City").MultipleChoice)

	s = Reduce(s, DismissNotice{})
	require.Nil(t, s.Notice)
}

func TestNewestFirstUntouchedBySortReset(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tables := table.Build([]table.Row{
		{ID: "old", FormName: "F", Origin: table.OriginSubmissions, CreatedAt: now.Add(-time.Hour)},
		{ID: "new", FormName: "F", Origin: table.OriginSubmissions, CreatedAt: now},
	})
	s := Reduce(New(10), LoadCompleted{Tables: tables})
	require.Equal(t, "new", s.Visible()[0].ID)
}
