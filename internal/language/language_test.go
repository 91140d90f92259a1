package language

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	for _, tc := range []struct {
		literal string
		kind    ValueKind
		raw     string
		wantErr string
	}{
		{literal: "10", kind: IntValue, raw: "10"},
		{literal: `"text"`, kind: StringValue, raw: "text"},
		{literal: "PUBLIC", kind: EnumValue, raw: "PUBLIC"},
		{literal: "null", kind: NullValue},
		{literal: "[A, B]", kind: ListValue},
		{literal: "{a: 1}", kind: ObjectValue},
		{literal: "$v", wantErr: "must not reference variables"},
		{literal: "{a: [$v]}", wantErr: "must not reference variables"},
		{literal: "[", wantErr: "Unexpected"},
	} {
		t.Run(tc.literal, func(t *testing.T) {
			v, err := ParseValue(tc.literal)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.kind, v.Kind)
			if tc.raw != "" {
				require.Equal(t, tc.raw, v.Raw)
			}
		})
	}
}

func TestParseDirective(t *testing.T) {
	dir, err := ParseDirective("cacheControl(maxAge: 60, scope: PRIVATE)")
	require.NoError(t, err)
	require.Equal(t, "cacheControl", dir.Name)
	require.Len(t, dir.Arguments, 2)
	require.Equal(t, "maxAge", dir.Arguments[0].Name)
	require.Equal(t, "60", dir.Arguments[0].Value.Raw)

	// Directive arguments are constant; the parser rejects variables.
	_, err = ParseDirective("limit(max: $n)")
	require.ErrorContains(t, err, "Unexpected $")

	_, err = ParseDirective("a @b")
	require.ErrorContains(t, err, "invalid directive application")
}
