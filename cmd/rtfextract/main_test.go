package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"
	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceLevel(t *testing.T) {
	level, err := traceLevel("Debug")
	require.NoError(t, err)
	assert.Equal(t, tracing.LevelDebug, level)

	_, err = traceLevel("Loud")
	assert.Error(t, err)
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "vol")
	require.NoError(t, os.Mkdir(sub, 0o755))
	for _, name := range []string{"ch10.rtf", "ch2.rtf", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(sub, name), []byte(`{\rtf1 x}`), 0o644))
	}
	single := filepath.Join(dir, "single.rtf")
	require.NoError(t, os.WriteFile(single, []byte(`{\rtf1 y}`), 0o644))

	inputs, err := collectInputs([]string{single, dir})
	require.NoError(t, err)
	require.Len(t, inputs, 4)
	assert.Equal(t, "single.rtf", inputs[0].rel)
	assert.Equal(t, "single.rtf", inputs[1].rel)
	assert.Equal(t, filepath.Join("vol", "ch2.rtf"), inputs[2].rel)
	assert.Equal(t, filepath.Join("vol", "ch10.rtf"), inputs[3].rel)

	_, err = collectInputs([]string{filepath.Join(dir, "missing.rtf")})
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))
	_, err = collectInputs([]string{empty})
	assert.Error(t, err)
}

func TestLookupScript(t *testing.T) {
	assert.Equal(t, unicode.Tibetan, lookupScript("tibetan"))
	assert.Nil(t, lookupScript("Klingon"))
}

func TestAbbreviate(t *testing.T) {
	assert.Equal(t, `a\nb`, abbreviate("a\nb"))
	long := abbreviate(strings.Repeat("x", 100))
	assert.Equal(t, maxCellGraphemes, uniseg.GraphemeClusterCount(long))
	assert.True(t, strings.HasSuffix(long, "…"))
}

func TestAbbreviateKeepsStacks(t *testing.T) {
	// བསྒྲུབས: four clusters in seven runes
	word := "\u0f56\u0f66\u0f92\u0fb2\u0f74\u0f56\u0f66"
	src := strings.Repeat(word, 20)

	got := abbreviate(src)
	require.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, maxCellGraphemes, uniseg.GraphemeClusterCount(got))

	kept := strings.TrimSuffix(got, "…")
	require.True(t, strings.HasPrefix(src, kept))
	next, _ := utf8.DecodeRuneInString(src[len(kept):])
	assert.False(t, unicode.Is(unicode.Mn, next), "cut before mark %U", next)
	assert.Equal(t, strings.Repeat(word, 9)+"\u0f56\u0f66\u0f92\u0fb2\u0f74\u0f56", kept)
}

func TestFontLabel(t *testing.T) {
	assert.Equal(t, "f3", fontLabel(3, ""))
	assert.Equal(t, "f1 Dedris-a", fontLabel(1, "Dedris-a"))
}

func TestFormatChars(t *testing.T) {
	got := formatChars(map[rune]int{'b': 1, 'a': 1, 'z': 5})
	assert.Equal(t, "U+007A (5), U+0061 (1), U+0062 (1)", got)
}
