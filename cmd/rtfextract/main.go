// Command rtfextract converts RTF files to text, Markdown, HTML or TEI, or
// dumps their event stream, font usage and tables.
//
// Usage:
//
//	rtfextract [flags] file-or-directory...
//
// Directories are searched for .rtf and .doc files. With -out, results are
// written below the given directory, one file per input; otherwise they go
// to standard output.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/tsawler/rtftext"
	"github.com/tsawler/rtftext/batch"
	"github.com/tsawler/rtftext/ocr"
)

// tracer traces with key 'rtftext.cli'
func tracer() tracing.Trace {
	return tracing.Select("rtftext.cli")
}

var tracedKeys = []string{"rtftext", "rtftext.cli", "rtftext.rtf", "rtftext.rtfdoc", "rtftext.textconv", "rtftext.batch", "rtftext.ocr"}

type config struct {
	format    string
	out       string
	workers   int
	timeout   time.Duration
	table     string
	family    string
	script    string
	lang      string
	ocr       string
	ocrMode   int
	codePages bool
	normalize bool
	noHead    bool
	exclHead  bool
	exclFoot  bool
	exclNotes bool
	joinLines bool
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{"tracing.adapter": "go"}
	for _, key := range tracedKeys {
		conf["trace."+key] = "Error"
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	var cfg config
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	flag.StringVar(&cfg.format, "format", "text", "Output [text|markdown|html|tei|events|fonts|tables|summary]")
	flag.StringVar(&cfg.out, "out", "", "Directory for converted files")
	flag.IntVar(&cfg.workers, "workers", 0, "Concurrent conversions (0 = number of CPUs)")
	flag.DurationVar(&cfg.timeout, "timeout", 0, "Time budget per document, e.g. 30s")
	flag.StringVar(&cfg.table, "table", "", "JSON conversion table for legacy fonts")
	flag.StringVar(&cfg.family, "family", "", "Custom font family marking extended font tables")
	flag.StringVar(&cfg.script, "script", "", "Script that decides the body size, e.g. Tibetan")
	flag.StringVar(&cfg.lang, "lang", "", "Language tag of HTML and TEI output")
	flag.StringVar(&cfg.ocr, "ocr", "", "Recognize pictures with these Tesseract languages")
	flag.IntVar(&cfg.ocrMode, "ocr-psm", int(ocr.PSM_SINGLE_BLOCK), "Tesseract page segmentation mode for -ocr (0-13)")
	flag.BoolVar(&cfg.codePages, "codepages", false, "Decode \\'hh escapes with the document code page")
	flag.BoolVar(&cfg.normalize, "normalize", false, "NFC-normalize text and collapse spaces")
	flag.BoolVar(&cfg.noHead, "no-headings", false, "Do not turn large paragraphs into headings")
	flag.BoolVar(&cfg.exclHead, "exclude-headers", false, "Leave out headers")
	flag.BoolVar(&cfg.exclFoot, "exclude-footers", false, "Leave out footers")
	flag.BoolVar(&cfg.exclNotes, "exclude-footnotes", false, "Leave out footnotes")
	flag.BoolVar(&cfg.joinLines, "join-lines", false, "Join the lines of a paragraph")
	flag.Parse()

	level, err := traceLevel(*tlevel)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	for _, key := range tracedKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	if !ocr.PageSegMode(cfg.ocrMode).Valid() {
		pterm.Error.Printf("invalid page segmentation mode %d\n", cfg.ocrMode)
		os.Exit(2)
	}
	if flag.NArg() == 0 {
		pterm.Error.Println("no input files")
		flag.Usage()
		os.Exit(2)
	}

	inputs, err := collectInputs(flag.Args())
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
	tracer().Infof("%d input files", len(inputs))

	switch cfg.format {
	case "events", "fonts", "tables", "summary":
		err = inspect(cfg, inputs)
	default:
		err = convert(cfg, inputs)
	}
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(4)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
	// keep standard output clean for converted documents
	pterm.Info.Writer = os.Stderr
	pterm.Warning.Writer = os.Stderr
	pterm.Success.Writer = os.Stderr
	pterm.Error.Writer = os.Stderr
}

func traceLevel(name string) (tracing.TraceLevel, error) {
	switch name {
	case "Debug":
		return tracing.LevelDebug, nil
	case "Info":
		return tracing.LevelInfo, nil
	case "Error":
		return tracing.LevelError, nil
	}
	return tracing.LevelError, fmt.Errorf("invalid trace level: %s", name)
}

// input is a file to process with its output name relative to -out.
type input struct {
	path string
	rel  string
}

// collectInputs expands directories into the RTF files below them.
func collectInputs(args []string) ([]input, error) {
	var inputs []input
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, input{path: arg, rel: filepath.Base(arg)})
			continue
		}
		paths, err := batch.Discover(arg)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			rel, err := filepath.Rel(arg, p)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, input{path: p, rel: rel})
		}
	}
	if len(inputs) == 0 {
		return nil, errors.New("no RTF files found")
	}
	return inputs, nil
}

// extractor configures an extractor from the flags.
func (cfg config) extractor(e *rtftext.Extractor) *rtftext.Extractor {
	if cfg.table != "" {
		e = e.ConversionTable(cfg.table)
	}
	if cfg.family != "" {
		e = e.FontFamily(cfg.family)
	}
	if cfg.script != "" {
		if table := lookupScript(cfg.script); table != nil {
			e = e.Script(table)
		}
	}
	if cfg.lang != "" {
		e = e.Language(cfg.lang)
	}
	if cfg.ocr != "" {
		e = e.OCRPictures(cfg.ocr).OCRPageSegMode(ocr.PageSegMode(cfg.ocrMode))
	}
	if cfg.codePages {
		e = e.CodePages()
	}
	if cfg.normalize {
		e = e.CollapseSpaces()
	}
	if cfg.noHead {
		e = e.NoHeadings()
	}
	if cfg.exclHead {
		e = e.ExcludeHeaders()
	}
	if cfg.exclFoot {
		e = e.ExcludeFooters()
	}
	if cfg.exclNotes {
		e = e.ExcludeFootnotes()
	}
	if cfg.joinLines {
		e = e.JoinLines()
	}
	return e
}

// lookupScript finds a Unicode script by case-insensitive name.
func lookupScript(name string) *unicode.RangeTable {
	for n, table := range unicode.Scripts {
		if strings.EqualFold(n, name) {
			return table
		}
	}
	tracer().Errorf("unknown script %q, counting all characters", name)
	return nil
}

// convert renders all inputs through the batch runner.
func convert(cfg config, inputs []input) error {
	f, err := rtftext.ParseOutputFormat(cfg.format)
	if err != nil {
		return err
	}
	if cfg.table != "" {
		// fail once here instead of once per document
		if _, err := os.Stat(cfg.table); err != nil {
			return err
		}
	}
	paths := make([]string, len(inputs))
	for i, in := range inputs {
		paths[i] = in.path
	}
	runner := batch.Runner{
		Workers:   cfg.workers,
		Timeout:   cfg.timeout,
		Format:    f,
		Configure: cfg.extractor,
	}
	results := runner.Run(context.Background(), paths)

	for _, res := range results {
		if !res.OK() {
			continue
		}
		if cfg.out == "" {
			fmt.Print(res.Output)
			if !strings.HasSuffix(res.Output, "\n") {
				fmt.Println()
			}
			continue
		}
		rel := inputs[res.Index].rel
		target := filepath.Join(cfg.out, strings.TrimSuffix(rel, filepath.Ext(rel))+f.Extension())
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(res.Output), 0o644); err != nil {
			return err
		}
	}

	printResults(results, cfg.out != "" || len(results) > 1)
	if rep := batch.Summarize(results); rep.Succeeded == 0 {
		return fmt.Errorf("no document converted")
	}
	return nil
}

// inspect prints events, fonts, tables or a summary of every input.
func inspect(cfg config, inputs []input) error {
	for _, in := range inputs {
		ext := cfg.extractor(rtftext.Open(in.path))
		pterm.Info.Println(in.path)
		var err error
		switch cfg.format {
		case "events":
			err = printEvents(ext)
		case "fonts":
			err = printFonts(ext)
		case "tables":
			err = printTables(ext)
		case "summary":
			err = printSummary(ext)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", in.path, err)
		}
	}
	return nil
}
