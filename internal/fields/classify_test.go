package fields

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestClassify_ColumnOverrides(t *testing.T) {
	t.Parallel()

	require.Equal(t, TypeMultipleChoice, Classify(String("Film"), "Medium", ColumnConfig{MultipleChoice: true}))
	require.Equal(t, TypeLink, Classify(String("whatever"), "Portfolio", ColumnConfig{Link: true}))
	require.Equal(t, TypeEmpty, Classify(String("No"), "Hired", ColumnConfig{EmptyFlagged: true}))
	require.Equal(t, TypeEmpty, Classify(Null(), "Hired", ColumnConfig{EmptyFlagged: true}))
	require.Equal(t, TypeText, Classify(String("Yes please"), "Hired", ColumnConfig{EmptyFlagged: true}))
}

func TestClassify_ColumnNames(t *testing.T) {
	t.Parallel()

	cases := []struct {
		column string
		value  Value
		want   Type
	}{
		{"email", String("anything"), TypePerson},
		{"Email Address", String("x"), TypePerson},
		{"Phone Number", String("x"), TypeContact},
		{"Start Date", String("soon"), TypeDate},
		{"Mailing Address", String("1 Main St"), TypeLocation},
		{"City", String("Austin"), TypeLocation},
		{"State", String("Texas"), TypeState},
		{"Postal Code", String("78701"), TypeLocation},
		{"Full Name", String("Jane"), TypeText},
		{"Website", String("https://jane.example"), TypeLink},
		{"Website", String("none"), TypeEmpty},
		{"Website", String(""), TypeEmpty},
		{"Instagram Handle", String("@jane"), TypeLink},
		{"Social Links", String("x"), TypeLink},
		{"APPLICATION STATUS", String("whatever"), TypeStatus},
		{"COUNTRY", String("US"), TypeLocation},
		{"Budget Total", String("lots"), TypeCurrency},
		{"Follower Count", String("many"), TypeNumber},
		{"Job title", String("Director"), TypeText},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Classify(tc.value, tc.column, ColumnConfig{}), "column %q value %q", tc.column, tc.value)
	}
}

func TestClassify_Values(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value Value
		want  Type
	}{
		{Bool(true), TypeBoolean},
		{Number(12), TypeNumber},
		{String("2024-03-01"), TypeDate},
		{String("2024-03-01T10:00:00Z"), TypeDate},
		{String("March 5, 2024"), TypeDate},
		{String("jane@example.com"), TypePerson},
		{String("TX"), TypeState},
		{String("$42.50"), TypeCurrency},
		{String("42"), TypeCurrency},
		{String("555-123-4567"), TypeContact},
		{String("Approved"), TypeStatus},
		{String("in progress"), TypeStatus},
		{String("https://example.com"), TypeLink},
		{String("N/A"), TypeEmpty},
		{String(""), TypeEmpty},
		{String("A long answer"), TypeText},
		{Null(), TypeText},
		{Nested(map[string]any{"a": 1.0}), TypeText},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Classify(tc.value, "Answer", ColumnConfig{}), "value %q", tc.value)
	}
}

func TestClassify_BoolBeatsColumnName(t *testing.T) {
	t.Parallel()
	require.Equal(t, TypeBoolean, Classify(Bool(false), "email", ColumnConfig{}))
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("same input always yields the same type", prop.ForAll(
		func(s, column string, mc bool) bool {
			cfg := ColumnConfig{MultipleChoice: mc}
			first := Classify(String(s), column, cfg)
			for i := 0; i < 3; i++ {
				if Classify(String(s), column, cfg) != first {
					return false
				}
			}
			return first != ""
		},
		gen.AnyString(),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.Property("numbers without a column hint are numbers", prop.ForAll(
		func(n float64) bool {
			return Classify(Number(n), "Value", ColumnConfig{}) == TypeNumber
		},
		gen.Float64(),
	))

	properties.TestingRun(t)
}
