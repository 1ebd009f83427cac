package bundle_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raidtimeline/timeline-go/pkg/timeline/bundle"
	"github.com/raidtimeline/timeline-go/pkg/timeline/locale"
)

func ptr(v float64) *float64 { return &v }

var wantValid = &bundle.Bundle{
	Version: 1,
	Locales: locale.Table{
		"de": {
			Locale:      "de",
			ReplaceSync: map[string]string{"Boss": "Chef"},
			ReplaceText: map[string]string{"Cleave": "Spalter", "Raidwide": "Raidweit"},
		},
	},
	Triggers: []bundle.TriggerDef{
		{ID: "cleave", Regex: "^Cleave$", BeforeSeconds: 4},
		{ID: "raidwide", Regex: "Raidwide"},
	},
	TriggerOptions: map[string]bundle.TriggerOptionDef{
		"raidwide": {BeforeSeconds: ptr(6)},
	},
	Styles: []bundle.StyleDef{
		{Regex: "Raidwide", Style: map[string]string{"color": "red"}},
	},
}

func TestLoad_Valid(t *testing.T) {
	for _, name := range []string{"valid.yaml", "valid.json", "valid.toml"} {
		t.Run(name, func(t *testing.T) {
			b, err := bundle.Load(filepath.Join("testdata", name))
			require.NoError(t, err)
			assert.Equal(t, wantValid, b)
		})
	}
}

func TestLoad_UnknownExtension(t *testing.T) {
	_, err := bundle.Load("testdata/valid.ini")
	require.Error(t, err)
	assert.True(t, errors.Is(err, bundle.ErrUnknownFormat))
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := bundle.Load("testdata/nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read bundle file")
	assert.NotContains(t, err.Error(), "testdata")
}

func TestLoad_SchemaViolation(t *testing.T) {
	_, err := bundle.Load("testdata/unknown_field.yaml")
	require.Error(t, err)
	var valErr *bundle.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, err.Error(), "before")
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	_, err := bundle.Load("testdata/unsupported_version.yaml")
	require.Error(t, err)
	var valErr *bundle.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "version", valErr.Field)
	assert.Contains(t, err.Error(), "unsupported version")
}

func TestLoad_DuplicateID(t *testing.T) {
	_, err := bundle.Load("testdata/duplicate_id.yaml")
	require.Error(t, err)
	var entryErr *bundle.EntryError
	require.True(t, errors.As(err, &entryErr))
	assert.Equal(t, 1, entryErr.Index)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestLoad_InvalidRegex(t *testing.T) {
	// Loading succeeds: regexes are compiled by Options.
	b, err := bundle.Load("testdata/invalid_regex.yaml")
	require.NoError(t, err)

	_, err = b.Options()
	require.Error(t, err)
	var entryErr *bundle.EntryError
	require.True(t, errors.As(err, &entryErr))
	assert.Equal(t, "styles", entryErr.Section)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestLoadBytes_Empty(t *testing.T) {
	_, err := bundle.LoadBytes([]byte(" \n"), bundle.FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoadBytes_TooLarge(t *testing.T) {
	data := []byte("version: 1\n" + strings.Repeat("#", bundle.MaxFileSize))
	_, err := bundle.LoadBytes(data, bundle.FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestLoadBytes_SyntaxError(t *testing.T) {
	tests := []struct {
		format bundle.Format
		data   string
		want   string
	}{
		{bundle.FormatYAML, "version: [1", "failed to parse YAML"},
		{bundle.FormatJSON, `{"version": 1`, "failed to parse JSON"},
		{bundle.FormatTOML, "version = ", "failed to parse TOML"},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			_, err := bundle.LoadBytes([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadBytes_NotAnObject(t *testing.T) {
	_, err := bundle.LoadBytes([]byte("- 1\n- 2\n"), bundle.FormatYAML)
	require.Error(t, err)
	var valErr *bundle.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestValidate_TooManyTriggers(t *testing.T) {
	b := &bundle.Bundle{Version: 1}
	for i := 0; i <= bundle.MaxEntries; i++ {
		b.Triggers = append(b.Triggers, bundle.TriggerDef{ID: fmt.Sprintf("t%d", i), Regex: "x"})
	}
	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many triggers")
}

func TestValidate_RegexTooLong(t *testing.T) {
	b := &bundle.Bundle{
		Version:  1,
		Triggers: []bundle.TriggerDef{{ID: "long", Regex: strings.Repeat("a", bundle.MaxRegexLength+1)}},
	}
	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `triggers "long": regex: pattern too long`)
}

func TestEncode_RoundTrip(t *testing.T) {
	for _, f := range []bundle.Format{bundle.FormatYAML, bundle.FormatJSON, bundle.FormatTOML} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, wantValid.Encode(&buf, f))

			got, err := bundle.LoadBytes(buf.Bytes(), f)
			require.NoError(t, err)
			assert.Equal(t, wantValid, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    bundle.Format
		wantErr bool
	}{
		{"a.yaml", bundle.FormatYAML, false},
		{"a.YML", bundle.FormatYAML, false},
		{"dir/a.json", bundle.FormatJSON, false},
		{"a.toml", bundle.FormatTOML, false},
		{"a", 0, true},
		{"a.txt", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := bundle.FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, bundle.ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchema_IsCopy(t *testing.T) {
	s := bundle.Schema()
	require.NotEmpty(t, s)
	s[0] = 'x'
	assert.Equal(t, byte('{'), bundle.Schema()[0])
}

func TestLoad_RejectsDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dir.yaml")
	require.NoError(t, os.Mkdir(dir, 0o755))
	_, err := bundle.Load(dir)
	require.Error(t, err)
}
