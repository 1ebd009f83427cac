package netregex_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raidtimeline/timeline-go/pkg/timeline/netregex"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name   string
		want   netregex.Type
		wantOK bool
	}{
		{"StartsUsing", netregex.StartsUsing, true},
		{"Ability", netregex.Ability, true},
		{"CombatantMemory", netregex.CombatantMemory, true},
		{"startsusing", 0, false},
		{"Unknown", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := netregex.ParseType(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeNames_SortedAndComplete(t *testing.T) {
	names := netregex.TypeNames()
	assert.IsNonDecreasing(t, names)
	for _, name := range names {
		typ, ok := netregex.ParseType(name)
		require.True(t, ok, name)
		assert.Equal(t, name, typ.String())
	}
}

func TestParseParams_Valid(t *testing.T) {
	tests := []struct {
		name string
		typ  netregex.Type
		src  string
		want map[string]netregex.Value
	}{
		{
			name: "bare keys single quotes",
			typ:  netregex.StartsUsing,
			src:  `{ id: '4DB8', source: 'Boss' }`,
			want: map[string]netregex.Value{"id": {"4DB8"}, "source": {"Boss"}},
		},
		{
			name: "quoted keys double quotes",
			typ:  netregex.Ability,
			src:  `{ "id": "4DB8" }`,
			want: map[string]netregex.Value{"id": {"4DB8"}},
		},
		{
			name: "compact without spaces",
			typ:  netregex.StartsUsing,
			src:  `{id:'4DB8',source:'Boss'}`,
			want: map[string]netregex.Value{"id": {"4DB8"}, "source": {"Boss"}},
		},
		{
			name: "colon inside string kept",
			typ:  netregex.GameLog,
			src:  `{line:'Boss:Hello'}`,
			want: map[string]netregex.Value{"line": {"Boss:Hello"}},
		},
		{
			name: "array value",
			typ:  netregex.HeadMarker,
			src:  `{ id: ['0017', '0018'] }`,
			want: map[string]netregex.Value{"id": {"0017", "0018"}},
		},
		{
			name: "trailing comma",
			typ:  netregex.StartsUsing,
			src:  `{ id: '4DB8', }`,
			want: map[string]netregex.Value{"id": {"4DB8"}},
		},
		{
			name: "hash inside string",
			typ:  netregex.GameLog,
			src:  `{ line: 'Ready #1' }`,
			want: map[string]netregex.Value{"line": {"Ready #1"}},
		},
		{
			name: "unknown escape in double quotes",
			typ:  netregex.Ability,
			src:  `{ id: "4D\.+" }`,
			want: map[string]netregex.Value{"id": {"4D.+"}},
		},
		{
			name: "escaped quote and unicode escape",
			typ:  netregex.StartsUsing,
			src:  `{ source: 'Boss\'s \u0041dd' }`,
			want: map[string]netregex.Value{"source": {"Boss's Add"}},
		},
		{
			name: "duplicate key keeps last",
			typ:  netregex.StartsUsing,
			src:  `{ id: '4DB8', id: '4DB9' }`,
			want: map[string]netregex.Value{"id": {"4DB9"}},
		},
		{
			name: "empty object",
			typ:  netregex.InCombat,
			src:  `{}`,
			want: map[string]netregex.Value{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := netregex.ParseParams(tt.typ, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Fields)
		})
	}
}

func TestParseParams_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		typ     netregex.Type
		src     string
		wantKey string
	}{
		{"unknown key", netregex.StartsUsing, `{ sauce: 'Boss' }`, "sauce"},
		{"capture forbidden", netregex.StartsUsing, `{ id: '1', capture: 'true' }`, "capture"},
		{"timestamp forbidden", netregex.StartsUsing, `{ timestamp: '.*' }`, "timestamp"},
		{"number value", netregex.StartsUsing, `{ id: 1234 }`, "id"},
		{"bool value", netregex.StartsUsing, `{ id: true }`, "id"},
		{"array of numbers", netregex.StartsUsing, `{ id: [1, 2] }`, "id"},
		{"empty array", netregex.StartsUsing, `{ id: [] }`, "id"},
		{"placeholder position", netregex.HeadMarker, `{ "": 'x' }`, ""},
		{"malformed", netregex.StartsUsing, `{ id: '4DB8' `, ""},
		{"not an object", netregex.StartsUsing, `[ 'a' ]`, ""},
		{"unterminated string", netregex.StartsUsing, `{ id: '4DB8 }`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := netregex.ParseParams(tt.typ, tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, netregex.ErrInvalidArgs))
			var argErr *netregex.ArgError
			require.True(t, errors.As(err, &argErr))
			if tt.wantKey != "" {
				assert.Equal(t, tt.wantKey, argErr.Key)
			}
		})
	}
}

func TestParseParams_UnknownType(t *testing.T) {
	_, err := netregex.ParseParams(netregex.Type(999), `{}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, netregex.ErrUnknownType))
}

func TestParseParams_Repeating(t *testing.T) {
	p, err := netregex.ParseParams(netregex.CombatantMemory,
		`{ id: '40.{6}', pair: [{ key: 'WeaponId', value: '4' }, { key: 'ModelStatus' }] }`)
	require.NoError(t, err)
	assert.Equal(t, netregex.Value{"40.{6}"}, p.Fields["id"])
	require.Len(t, p.Entries, 2)
	assert.Equal(t, map[string]string{"key": "WeaponId", "value": "4"}, p.Entries[0])
	assert.Equal(t, map[string]string{"key": "ModelStatus"}, p.Entries[1])
}

func TestParseParams_RepeatingInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"not a list", `{ pair: 'x' }`, "array of objects"},
		{"entry not object", `{ pair: ['x'] }`, "must be an object"},
		{"missing primary", `{ pair: [{ value: '1' }] }`, "missing"},
		{"unknown primary value", `{ pair: [{ key: 'Nope', value: '1' }] }`, "not a known"},
		{"unknown entry field", `{ pair: [{ key: 'Job', other: '1' }] }`, "unknown field"},
		{"non-string entry value", `{ pair: [{ key: 'Job', value: 1 }] }`, "must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := netregex.ParseParams(netregex.CombatantMemory, tt.src)
			require.Error(t, err)
			assert.ErrorIs(t, err, netregex.ErrInvalidArgs)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSource(t *testing.T) {
	tests := []struct {
		name    string
		typ     netregex.Type
		src     string
		capture bool
		want    string
	}{
		{
			name: "starts using",
			typ:  netregex.StartsUsing,
			src:  `{ id: '4DB8', source: 'Boss' }`,
			want: `^20\|[^|]*\|[^|]*\|(?:Boss)\|(?:4DB8)\|`,
		},
		{
			name: "alternatives",
			typ:  netregex.HeadMarker,
			src:  `{ id: ['0017', '0018'] }`,
			want: `^27\|[^|]*\|[^|]*\|[^|]*\|[^|]*\|[^|]*\|(?:0017|0018)\|`,
		},
		{
			name: "no params matches type only",
			typ:  netregex.InCombat,
			src:  `{}`,
			want: `^260\|`,
		},
		{
			name:    "capture groups",
			typ:     netregex.ChangeZone,
			src:     `{ name: 'Arena' }`,
			capture: true,
			want:    `^(?P<type>01)\|(?P<timestamp>[^|]*)\|(?P<id>[^|]*)\|(?P<name>Arena)\|`,
		},
		{
			name: "repeating entries",
			typ:  netregex.CombatantMemory,
			src:  `{ pair: [{ key: 'WeaponId', value: '4' }] }`,
			want: `^261\|[^|]*\|[^|]*\|[^|]*\|(?:(?:[^|]*\|){2})*?(?:WeaponId)\|(?:4)\|`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := netregex.ParseParams(tt.typ, tt.src)
			require.NoError(t, err)
			got, err := netregex.Source(tt.typ, p, tt.capture)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_Matches(t *testing.T) {
	tests := []struct {
		name  string
		typ   netregex.Type
		src   string
		line  string
		match bool
	}{
		{
			name:  "starts using match",
			typ:   netregex.StartsUsing,
			src:   `{ id: '4DB8', source: 'Boss' }`,
			line:  "20|2024-01-01T00:00:00.0000000+00:00|40001234|Boss|4DB8|Big Attack|10001234|Player|4.70|",
			match: true,
		},
		{
			name:  "case insensitive",
			typ:   netregex.StartsUsing,
			src:   `{ source: 'boss' }`,
			line:  "20|ts|40001234|Boss|4DB8|",
			match: true,
		},
		{
			name:  "different id",
			typ:   netregex.StartsUsing,
			src:   `{ id: '4DB8' }`,
			line:  "20|ts|40001234|Boss|4DB9|",
			match: false,
		},
		{
			name:  "wrong line type",
			typ:   netregex.StartsUsing,
			src:   `{ id: '4DB8' }`,
			line:  "21|ts|40001234|Boss|4DB8|",
			match: false,
		},
		{
			name:  "repeating pair after other pairs",
			typ:   netregex.CombatantMemory,
			src:   `{ id: '40001234', pair: [{ key: 'WeaponId', value: '4' }] }`,
			line:  "261|ts|Change|40001234|Heading|1.0|WeaponId|4|ModelStatus|0|",
			match: true,
		},
		{
			name:  "repeating pair absent",
			typ:   netregex.CombatantMemory,
			src:   `{ pair: [{ key: 'WeaponId', value: '4' }] }`,
			line:  "261|ts|Change|40001234|Heading|1.0|",
			match: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := netregex.ParseParams(tt.typ, tt.src)
			require.NoError(t, err)
			re, err := netregex.Build(tt.typ, p, false)
			require.NoError(t, err)
			assert.Equal(t, tt.match, re.MatchString(tt.line))
		})
	}
}

func TestBuild_InvalidRegexValue(t *testing.T) {
	p, err := netregex.ParseParams(netregex.StartsUsing, `{ source: '(unclosed' }`)
	require.NoError(t, err)
	_, err = netregex.Build(netregex.StartsUsing, p, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, netregex.ErrInvalidArgs)
}

func TestParams_Map(t *testing.T) {
	p, err := netregex.ParseParams(netregex.StartsUsing, `{ id: '4DB8', source: ['Boss', 'Add'] }`)
	require.NoError(t, err)

	got := p.Map(func(field, value string) string {
		if !netregex.IsTranslatable(field) {
			return value
		}
		return "x" + value
	})
	assert.Equal(t, netregex.Value{"4DB8"}, got.Fields["id"])
	assert.Equal(t, netregex.Value{"xBoss", "xAdd"}, got.Fields["source"])
	// original untouched
	assert.Equal(t, netregex.Value{"Boss", "Add"}, p.Fields["source"])
}
