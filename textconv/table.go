package textconv

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"
)

// tableFile is the JSON layout read by LoadTable:
//
//	{
//	  "fonts":    {"Dedris-a": {"k": "ཀ", ...}, ...},
//	  "aliases":  {"SimSun": "Dedris-a"},
//	  "fallback": "Ededris"
//	}
type tableFile struct {
	Fonts    map[string]map[string]string `json:"fonts"`
	Aliases  map[string]string            `json:"aliases"`
	Fallback string                       `json:"fallback"`
}

type fontTable struct {
	entries map[string]string
	maxKey  int // longest key in runes
}

// Table converts by greedy longest match against per-font mappings. Font
// names are matched case-insensitively. A Table is safe for concurrent
// use once loaded.
type Table struct {
	fonts    map[string]*fontTable
	aliases  map[string]string
	fallback string
}

// LoadTable reads a conversion table in JSON form.
func LoadTable(r io.Reader) (*Table, error) {
	var f tableFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode conversion table: %w", err)
	}
	t := &Table{
		fonts:   make(map[string]*fontTable, len(f.Fonts)),
		aliases: make(map[string]string, len(f.Aliases)),
	}
	for name, entries := range f.Fonts {
		ft := &fontTable{entries: make(map[string]string, len(entries))}
		for k, v := range entries {
			if k == "" {
				continue
			}
			ft.entries[k] = v
			ft.maxKey = max(ft.maxKey, utf8.RuneCountInString(k))
		}
		t.fonts[fold(name)] = ft
	}
	for from, to := range f.Aliases {
		t.aliases[fold(from)] = fold(to)
	}
	if f.Fallback != "" {
		t.fallback = fold(f.Fallback)
		if _, ok := t.fonts[t.fallback]; !ok {
			return nil, fmt.Errorf("fallback font %q has no table", f.Fallback)
		}
	}
	for from, to := range t.aliases {
		if _, ok := t.fonts[to]; !ok {
			return nil, fmt.Errorf("alias %q points to unknown font %q", from, to)
		}
	}
	return t, nil
}

// LoadTableFile reads a conversion table from a JSON file.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open conversion table: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}

// Fonts returns the folded names of all fonts with a mapping, sorted.
func (t *Table) Fonts() []string {
	names := make([]string, 0, len(t.fonts))
	for name := range t.fonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the table font used for fontName. Names are tried
// as given, then with a leading '@' (vertical variant) removed, then
// through the aliases, then by their first word. Unknown names resolve
// to the fallback font, if any.
func (t *Table) Resolve(fontName string) (string, bool) {
	name := strings.TrimPrefix(fold(fontName), "@")
	candidates := []string{name}
	if first, _, found := strings.Cut(name, " "); found {
		candidates = append(candidates, first)
	}
	for _, c := range candidates {
		if _, ok := t.fonts[c]; ok {
			return c, true
		}
		if to, ok := t.aliases[c]; ok {
			return to, true
		}
	}
	if t.fallback != "" {
		return t.fallback, true
	}
	return "", false
}

// Convert maps text through the table of fontName. Characters without an
// entry are passed through and reported in Result.Unknown. Blank text is
// returned unchanged.
func (t *Table) Convert(fontName, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Text: text}
	}
	font, ok := t.Resolve(fontName)
	if !ok {
		return Result{Text: text}
	}
	ft := t.fonts[font]
	res := Result{Font: font, Handled: true}
	var sb strings.Builder
	for len(text) > 0 {
		key, val, ok := ft.longest(text)
		if ok {
			sb.WriteString(val)
			text = text[len(key):]
			continue
		}
		r, size := utf8.DecodeRuneInString(text)
		if r != ' ' && r != '\n' && r != '\t' {
			res.Unknown = append(res.Unknown, r)
		}
		sb.WriteString(text[:size])
		text = text[size:]
	}
	res.Text = sb.String()
	if len(res.Unknown) > 0 {
		tracer().Debugf("font %s: %d unknown characters", font, len(res.Unknown))
	}
	return res
}

func (ft *fontTable) longest(s string) (string, string, bool) {
	ends := make([]int, 0, ft.maxKey)
	for i := range s {
		if i > 0 {
			ends = append(ends, i)
		}
		if len(ends) == ft.maxKey {
			break
		}
	}
	if len(ends) < ft.maxKey {
		ends = append(ends, len(s))
	}
	for i := len(ends) - 1; i >= 0; i-- {
		key := s[:ends[i]]
		if v, ok := ft.entries[key]; ok {
			return key, v, true
		}
	}
	return "", "", false
}

func fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
