package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/rivo/uniseg"

	"github.com/tsawler/rtftext"
	"github.com/tsawler/rtftext/batch"
	"github.com/tsawler/rtftext/rtf"
)

const maxCellGraphemes = 40

func printEvents(ext *rtftext.Extractor) error {
	events, warnings, err := ext.Events()
	if err != nil {
		return err
	}
	data := [][]string{
		{"#", "Kind", "Font", "Size", "Span", "Text"},
	}
	for i, ev := range events {
		kind := ev.Kind.String()
		if ev.Kind == rtf.SpecialBlock {
			kind = ev.Special.String()
		}
		font, size := "", ""
		if ev.Kind == rtf.TextRun || ev.Kind == rtf.SpecialBlock {
			font = fontLabel(ev.FontID, ev.FontName)
			size = strconv.Itoa(ev.SizePt)
		}
		data = append(data, []string{
			strconv.Itoa(i),
			kind,
			font,
			size,
			fmt.Sprintf("%d-%d", ev.Start, ev.End),
			abbreviate(ev.Text),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	printWarnings(warnings)
	return nil
}

func printFonts(ext *rtftext.Extractor) error {
	sum, warnings, err := ext.Analyze()
	if err != nil {
		return err
	}
	pterm.Printf("Font table variant: %s\n", sum.Variant)
	data := [][]string{
		{"Font", "Runs", "Characters", "Sizes"},
	}
	for _, f := range sum.Fonts {
		sizes := make([]string, len(f.Sizes))
		for i, s := range f.Sizes {
			sizes[i] = strconv.Itoa(s)
		}
		data = append(data, []string{
			fontLabel(f.ID, f.Name),
			strconv.Itoa(f.Runs),
			strconv.Itoa(f.Chars),
			strings.Join(sizes, " "),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	printWarnings(warnings)
	return nil
}

// printTables writes every table as CSV, separated by blank lines.
func printTables(ext *rtftext.Extractor) error {
	tables, err := ext.Tables()
	if err != nil {
		return err
	}
	for i, t := range tables {
		if i > 0 {
			fmt.Println()
		}
		if err := t.WriteCSV(os.Stdout); err != nil {
			return err
		}
	}
	pterm.Info.Printf("%d tables\n", len(tables))
	return nil
}

func printSummary(ext *rtftext.Extractor) error {
	sum, warnings, err := ext.Analyze()
	if err != nil {
		return err
	}
	data := [][]string{
		{"Property", "Value"},
		{"Variant", sum.Variant.String()},
		{"Events", strconv.Itoa(sum.Events)},
		{"Paragraphs", strconv.Itoa(sum.Paragraphs)},
		{"Headings", strconv.Itoa(sum.Headings)},
		{"Tables", strconv.Itoa(sum.Tables)},
		{"Images", strconv.Itoa(sum.Images)},
		{"Headers", strconv.Itoa(sum.Headers)},
		{"Footers", strconv.Itoa(sum.Footers)},
		{"Footnotes", strconv.Itoa(sum.Footnotes)},
		{"Fonts in use", strconv.Itoa(len(sum.Fonts))},
		{"Body size", strconv.Itoa(sum.Classification.Body)},
		{"Skipped destinations", strconv.Itoa(sum.Stats.SkippedDestinations)},
		{"Unknown control words", strconv.Itoa(sum.Stats.UnknownControlWords)},
		{"Placeholders", strconv.Itoa(sum.Stats.Placeholders)},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	printWarnings(warnings)
	return nil
}

// printResults lists per-document outcomes and the run report.
func printResults(results []batch.Result, table bool) {
	if table {
		data := [][]string{
			{"File", "Status", "Time", "Warnings"},
		}
		for _, res := range results {
			status := "ok"
			if res.Err != nil {
				status = res.Err.Error()
			}
			data = append(data, []string{
				res.Path,
				status,
				res.Elapsed.Round(time.Millisecond).String(),
				rtftext.FormatWarnings(res.Warnings),
			})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(pterm.Info.Writer).Render()
	} else {
		for _, res := range results {
			if res.Err != nil {
				pterm.Error.Printf("%s: %v\n", res.Path, res.Err)
			}
			printWarnings(res.Warnings)
		}
	}

	rep := batch.Summarize(results)
	if rep.Succeeded == rep.Total {
		pterm.Success.Printf("%d of %d documents converted\n", rep.Succeeded, rep.Total)
	} else {
		pterm.Warning.Printf("%d of %d documents converted, %d failed, %d timed out, %d empty\n",
			rep.Succeeded, rep.Total, rep.Failed, rep.TimedOut, rep.Empty)
	}
	if len(rep.Conversion.UnknownChars) > 0 {
		pterm.Warning.Printf("characters without conversion: %s\n", formatChars(rep.Conversion.UnknownChars))
	}
}

func printWarnings(warnings []rtftext.Warning) {
	for _, w := range warnings {
		pterm.Warning.Println(w.String())
	}
}

func fontLabel(id int, name string) string {
	if name == "" {
		return fmt.Sprintf("f%d", id)
	}
	return fmt.Sprintf("f%d %s", id, name)
}

// abbreviate shortens s to one table line. It cuts between grapheme
// clusters so stacked letters keep their vowel signs.
func abbreviate(s string) string {
	s = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`).Replace(s)
	if uniseg.GraphemeClusterCount(s) <= maxCellGraphemes {
		return s
	}
	var sb strings.Builder
	state := -1
	for i := 0; i < maxCellGraphemes-1; i++ {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		sb.WriteString(cluster)
	}
	sb.WriteString("…")
	return sb.String()
}

// formatChars lists characters by descending count.
func formatChars(counts map[rune]int) string {
	chars := make([]rune, 0, len(counts))
	for r := range counts {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool {
		if counts[chars[i]] != counts[chars[j]] {
			return counts[chars[i]] > counts[chars[j]]
		}
		return chars[i] < chars[j]
	})
	parts := make([]string, len(chars))
	for i, r := range chars {
		parts[i] = fmt.Sprintf("U+%04X (%d)", r, counts[r])
	}
	return strings.Join(parts, ", ")
}
