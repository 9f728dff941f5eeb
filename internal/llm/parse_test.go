package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMapping_Direct(t *testing.T) {
	t.Parallel()

	m, err := ParseMapping(`{"Creator":"Jane","Followers":1200,"Verified":true}`)
	require.NoError(t, err)
	require.Equal(t, []string{"Creator", "Followers", "Verified"}, m.Keys)
	require.Equal(t, "Jane", m.Get("Creator").String())
	require.Equal(t, "1200", m.Get("Followers").String())
}

func TestParseMapping_ChattyReply(t *testing.T) {
	t.Parallel()

	m, err := ParseMapping("Sure! Here is the JSON:\n```json\n{\"Name\": \"Jane {J} Smith\", \"City\": \"Austin\"}\n```\nLet me know if you need anything else.")
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "City"}, m.Keys)
	require.Equal(t, "Jane {J} Smith", m.Get("Name").String())
}

func TestParseMapping_NestedAndEscapes(t *testing.T) {
	t.Parallel()

	m, err := ParseMapping(`ok {"a":{"b":"quote \" and } brace"},"c":null} trailing {"x":1}`)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, m.Keys)
	require.True(t, m.Get("c").IsNull())
}

func TestParseMapping_SkipsBrokenBlock(t *testing.T) {
	t.Parallel()

	m, err := ParseMapping(`{not json} then {"ok":"yes"}`)
	require.NoError(t, err)
	require.Equal(t, "yes", m.Get("ok").String())
}

func TestParseMapping_Unparsable(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"no json here", "[1,2,3]", `{"open": "never closed"`, ""} {
		_, err := ParseMapping(text)
		require.ErrorIs(t, err, ErrUnparsable, text)
		var ue *UnparsableError
		require.True(t, errors.As(err, &ue))
		require.Equal(t, text, ue.Raw)
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	p, err := BuildPrompt(nil, nil)
	require.NoError(t, err)
	require.Contains(t, p, "And these are the destination table columns:\n[]")
	require.Contains(t, p, "Return only the object as JSON.")
}
