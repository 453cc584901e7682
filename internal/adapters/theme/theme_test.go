package theme_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lumen/internal/adapters/theme"
	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestDefault_RequiredLookups(t *testing.T) {
	t.Parallel()

	table := theme.Default()

	tests := []struct {
		category string
		key      string
		want     any
	}{
		{domain.CategoryColors, "nord0", "#2e3440"},
		{domain.CategoryColors, "blue-5", "#0967D2"},
		{domain.CategoryMaxWidth, "full", "100%"},
		{domain.CategoryFontFamily, "sans", []string{`"Untitled Sans"`, "sans-serif"}},
	}

	for _, tt := range tests {
		t.Run(tt.category+"/"+tt.key, func(t *testing.T) {
			t.Parallel()
			got, ok := table.Lookup(tt.category, tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefault_MissingKeysAreAbsent(t *testing.T) {
	t.Parallel()

	table := theme.Default()

	for _, category := range domain.Categories() {
		got, ok := table.Lookup(category, "nord16")
		assert.False(t, ok, category)
		assert.Nil(t, got, category)
	}

	_, ok := table.Lookup("spacing", "1")
	assert.False(t, ok)

	_, ok = table.Colors.Lookup("")
	assert.False(t, ok)
}

func TestDefault_NoDuplicateKeys(t *testing.T) {
	t.Parallel()

	table := theme.Default()
	require.NoError(t, table.Validate())

	assert.Empty(t, table.MaxWidth.Duplicates())
	assert.Empty(t, table.FontFamily.Duplicates())
	assert.Empty(t, table.Colors.Duplicates())
}

func TestDefault_Shape(t *testing.T) {
	t.Parallel()

	table := theme.Default()

	assert.Equal(t, 11, table.MaxWidth.Len())
	assert.Equal(t, []string{"sans", "serif", "mono", "headline"}, table.FontFamily.Keys())
	// 3 named colors, gray-0..10, four 10-step ramps, nord0-dark and nord0..15.
	assert.Equal(t, 3+11+4*10+1+16, table.Colors.Len())
	assert.Empty(t, table.Extend)

	keys := table.Colors.Keys()
	assert.Equal(t, []string{"indigo", "blue", "red", "gray-0"}, keys[:4])
	assert.Equal(t, "nord15", keys[len(keys)-1])

	headline, ok := table.FontFamily.Lookup("headline")
	require.True(t, ok)
	assert.Equal(t, []string{`"Adieu"`}, headline)

	entry, ok := table.Colors.Entry("teal-3")
	require.True(t, ok)
	assert.Equal(t, "teal", entry.Description)
}

func TestDefault_BuiltOnce(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	tables := make([]*domain.Theme, 8)
	for i := range tables {
		wg.Go(func() { tables[i] = theme.Default() })
	}
	wg.Wait()

	for _, table := range tables {
		assert.Same(t, tables[0], table)
	}
}

func TestDefault_LookupReturnsCopies(t *testing.T) {
	t.Parallel()

	got, ok := theme.Default().Lookup(domain.CategoryFontFamily, "serif")
	require.True(t, ok)
	stack, ok := got.([]string)
	require.True(t, ok)
	stack[0] = "Comic Sans"

	again, _ := theme.Default().Lookup(domain.CategoryFontFamily, "serif")
	assert.Equal(t, []string{`"Tiempos Text"`, "serif"}, again)
}

func TestParse(t *testing.T) {
	t.Parallel()

	src := `
theme:
  maxWidth:
    prose: 65ch
  fontFamily:
    sans: ['"Inter"', sans-serif]
    display: '"Adieu"'
  colors:
    brand: "#ff0066" # primary
    ink: "#111"
  extend:
    spacing:
      "1": 4px
`
	table, err := theme.Parse([]byte(src))
	require.NoError(t, err)

	got, ok := table.Lookup(domain.CategoryMaxWidth, "prose")
	require.True(t, ok)
	assert.Equal(t, "65ch", got)

	got, ok = table.Lookup(domain.CategoryFontFamily, "display")
	require.True(t, ok)
	assert.Equal(t, []string{`"Adieu"`}, got)

	assert.Equal(t, []string{"brand", "ink"}, table.Colors.Keys())
	entry, _ := table.Colors.Entry("brand")
	assert.Equal(t, "primary", entry.Description)

	assert.Equal(t, map[string]any{"spacing": map[string]any{"1": "4px"}}, table.Extend)
}

func TestParse_EmptyDocument(t *testing.T) {
	t.Parallel()

	table, err := theme.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Colors.Len())
	assert.NotNil(t, table.Extend)
}

func TestParse_DuplicateKey(t *testing.T) {
	t.Parallel()

	src := "theme:\n  colors:\n    nord0: \"#2e3440\"\n    nord0: \"#000000\"\n"
	_, err := theme.Parse([]byte(src))
	require.ErrorContains(t, err, domain.ErrDuplicateToken.Error())

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, domain.CategoryColors, zErr.Metadata()["category"])
	assert.Equal(t, "nord0", zErr.Metadata()["key"])
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"not yaml", "theme: [unclosed"},
		{"root not a mapping", "- a\n- b\n"},
		{"theme not a mapping", "theme: 3\n"},
		{"unknown category", "theme:\n  spacing: {}\n"},
		{"category not a mapping", "theme:\n  colors: [red]\n"},
		{"color not a string", "theme:\n  colors:\n    red: [1]\n"},
		{"font stack not a list", "theme:\n  fontFamily:\n    sans: {a: b}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := theme.Parse([]byte(tt.src))
			require.ErrorContains(t, err, domain.ErrThemeParseFailed.Error())
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tokens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme:\n  colors:\n    a: \"#fff\"\n"), domain.PrivateFilePerm))

	table, err := theme.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, table.Colors.Keys())

	_, err = theme.LoadFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, domain.ErrThemeReadFailed.Error())
}

func TestProvider_Reload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tokens.yaml")

	p := theme.NewProvider(nil)
	assert.Same(t, theme.Default(), p.Current())

	require.NoError(t, os.WriteFile(path, []byte("theme:\n  colors:\n    a: \"#fff\"\n"), domain.PrivateFilePerm))
	require.NoError(t, p.Reload(path))
	loaded := p.Current()
	got, ok := loaded.Lookup(domain.CategoryColors, "a")
	require.True(t, ok)
	assert.Equal(t, "#fff", got)

	// A broken file keeps the previous table.
	require.NoError(t, os.WriteFile(path, []byte("theme:\n  colors:\n    a: x\n    a: y\n"), domain.PrivateFilePerm))
	require.Error(t, p.Reload(path))
	assert.Same(t, loaded, p.Current())

	// The default table is untouched by reloads.
	_, ok = theme.Default().Lookup(domain.CategoryColors, "a")
	assert.False(t, ok)
}

func smallTheme(t *testing.T) *domain.Theme {
	t.Helper()
	table, err := theme.Parse([]byte(`
theme:
  maxWidth:
    s: 1px
  fontFamily:
    sans: ['"A"', b]
  colors:
    x: "#fff" # note
`))
	require.NoError(t, err)
	return table
}

func TestEncodeJSON(t *testing.T) {
	t.Parallel()

	got, err := theme.EncodeJSON(smallTheme(t))
	require.NoError(t, err)

	want := `{
  "theme": {
    "maxWidth": {
      "s": "1px"
    },
    "fontFamily": {
      "sans": [
        "\"A\"",
        "b"
      ]
    },
    "colors": {
      "x": "#fff"
    },
    "extend": {}
  },
  "variants": {},
  "plugins": []
}
`
	assert.Equal(t, want, string(got))
}

func TestEncodeJSON_DefaultKeepsOrder(t *testing.T) {
	t.Parallel()

	got, err := theme.EncodeJSON(theme.Default())
	require.NoError(t, err)
	require.True(t, json.Valid(got))

	var doc struct {
		Theme struct {
			Colors map[string]string `json:"colors"`
		} `json:"theme"`
	}
	require.NoError(t, json.Unmarshal(got, &doc))
	assert.Equal(t, "#0967D2", doc.Theme.Colors["blue-5"])

	s := string(got)
	assert.Less(t, strings.Index(s, `"xs"`), strings.Index(s, `"full"`))
	assert.Less(t, strings.Index(s, `"nord9"`), strings.Index(s, `"nord10"`))
}

func TestEncodeYAML_LoadsBack(t *testing.T) {
	t.Parallel()

	out, err := theme.EncodeYAML(theme.Default())
	require.NoError(t, err)
	assert.Contains(t, string(out), "variants: {}")
	assert.Contains(t, string(out), "plugins: []")

	table, err := theme.Parse(out)
	require.NoError(t, err)
	for _, category := range domain.Categories() {
		want, _ := theme.Default().Keys(category)
		got, _ := table.Keys(category)
		assert.Equal(t, want, got, category)
	}
	entry, ok := table.Colors.Entry("nord11")
	require.True(t, ok)
	assert.Equal(t, "#bf616a", entry.Value)
	assert.Equal(t, "Aurora: errors, deletions", entry.Description)
}

func TestEncodeCSS(t *testing.T) {
	t.Parallel()

	want := ":root {\n  --color-x: #fff;\n  --max-width-s: 1px;\n  --font-sans: \"A\", b;\n}\n"
	assert.Equal(t, want, string(theme.EncodeCSS(smallTheme(t))))
}

func TestEncode_UnknownFormat(t *testing.T) {
	t.Parallel()

	for _, format := range theme.Formats() {
		_, err := theme.Encode(format, smallTheme(t))
		require.NoError(t, err, format)
	}

	_, err := theme.Encode("toml", smallTheme(t))
	require.ErrorContains(t, err, domain.ErrUnknownFormat.Error())
}
