// Package batch converts many RTF files concurrently.
//
// A Runner converts each file on its own goroutine, with at most Workers
// conversions in flight. Documents are independent: one document failing
// or running past its time budget never affects the others.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/npillmayer/schuko/tracing"

	"github.com/tsawler/rtftext"
	"github.com/tsawler/rtftext/rtfdoc"
)

func tracer() tracing.Trace {
	return tracing.Select("rtftext.batch")
}

var (
	// ErrTimeout is reported for a document whose conversion took longer
	// than Runner.Timeout.
	ErrTimeout = errors.New("conversion timed out")
	// ErrNoContent is reported for a document that produced blank output.
	ErrNoContent = errors.New("document has no content")
)

// Runner converts files with a bounded number of workers.
type Runner struct {
	// Workers limits concurrent conversions. Values below 1 mean
	// GOMAXPROCS.
	Workers int
	// Timeout is the time budget of one document. Zero means no limit.
	Timeout time.Duration
	// Format of the output. Empty means plain text.
	Format rtftext.OutputFormat
	// Configure sets extraction options on the extractor of each file.
	Configure func(*rtftext.Extractor) *rtftext.Extractor
}

// Result is the outcome for one file.
type Result struct {
	Path     string
	Index    int // position in the input list
	Output   string
	SHA256   string
	Warnings []rtftext.Warning
	Summary  *rtftext.Summary
	Err      error
	Elapsed  time.Duration
}

// OK reports whether the file was converted.
func (r Result) OK() bool {
	return r.Err == nil
}

// Run converts all paths and returns the results in input order.
func (r Runner) Run(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	r.Each(ctx, paths, func(res Result) {
		results[res.Index] = res
	})
	return results
}

// Each converts all paths and calls fn with every result as it becomes
// available, in completion order. fn is never called concurrently. Each
// returns when all files are done or ctx is cancelled; files not started
// before cancellation are reported with the context error.
func (r Runner) Each(ctx context.Context, paths []string, fn func(Result)) {
	workers := r.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Use a buffered channel as a semaphore to limit concurrency
	sem := make(chan struct{}, workers)
	results := make(chan Result, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			// Acquire semaphore
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- Result{Path: path, Index: index, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			results <- r.convert(ctx, index, path)
		}(i, path)
	}

	// Close results channel when all workers are done
	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.Err != nil {
			tracer().Errorf("%s: %v", res.Path, res.Err)
		} else {
			tracer().Infof("%s: converted in %v", res.Path, res.Elapsed)
		}
		fn(res)
	}
}

// convert converts one file within the time budget.
func (r Runner) convert(ctx context.Context, index int, path string) Result {
	start := time.Now()
	res := Result{Path: path, Index: index}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	type outcome struct {
		conv *rtftext.Conversion
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		ext := rtftext.Open(path)
		if r.Configure != nil {
			ext = r.Configure(ext)
		}
		conv, err := ext.Convert(r.format())
		done <- outcome{conv, err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		res.Elapsed = time.Since(start)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			res.Err = fmt.Errorf("after %v: %w", r.Timeout, ErrTimeout)
		} else {
			res.Err = ctx.Err()
		}
		return res
	}

	res.Elapsed = time.Since(start)
	if out.err != nil {
		res.Err = out.err
		return res
	}
	res.Output = out.conv.Output
	res.SHA256 = out.conv.SHA256
	res.Warnings = out.conv.Warnings
	res.Summary = out.conv.Summary
	if strings.TrimSpace(res.Output) == "" {
		res.Err = ErrNoContent
	}
	return res
}

func (r Runner) format() rtftext.OutputFormat {
	if r.Format == "" {
		return rtftext.FormatText
	}
	return r.Format
}

// Report aggregates the results of a run.
type Report struct {
	Total     int
	Succeeded int
	Failed    int
	TimedOut  int
	Empty     int
	// Conversion sums the glyph conversion counts of all documents.
	Conversion rtfdoc.ConversionStats
	// Warnings counts the documents with each warning code.
	Warnings map[rtftext.WarningCode]int
}

// Summarize aggregates results into a Report.
func Summarize(results []Result) Report {
	rep := Report{
		Total:      len(results),
		Conversion: rtfdoc.NewConversionStats(),
		Warnings:   make(map[rtftext.WarningCode]int),
	}
	for _, res := range results {
		switch {
		case res.Err == nil:
			rep.Succeeded++
		case errors.Is(res.Err, ErrTimeout):
			rep.TimedOut++
		case errors.Is(res.Err, ErrNoContent):
			rep.Empty++
		default:
			rep.Failed++
		}
		if res.Summary != nil {
			rep.Conversion.Merge(res.Summary.Conversion)
		}
		seen := make(map[rtftext.WarningCode]bool)
		for _, w := range res.Warnings {
			if !seen[w.Code] {
				seen[w.Code] = true
				rep.Warnings[w.Code]++
			}
		}
	}
	return rep
}
