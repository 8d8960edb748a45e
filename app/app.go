package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"EventLens/core"
	"EventLens/explain"
	"EventLens/extract"
	"EventLens/filter"
	"EventLens/internal/logger"
	"EventLens/output"
	"EventLens/parsers"
)

// RunStatus summarizes one completed analysis run.
type RunStatus struct {
	Status         string   `json:"status"`
	ParsedEvents   int      `json:"parsed_events"`
	MatchedEvents  int      `json:"matched_events"`
	ShortRecords   int      `json:"short_records,omitempty"`
	UnavailableIDs []string `json:"unavailable_ids,omitempty"`
	DurationMs     int64    `json:"duration_ms"`
}

// App runs the analysis pipeline: parse, extract, resolve, filter, emit.
type App struct {
	Config *Config

	rules     *Rules
	extractor *extract.Extractor
	resolver  *explain.Resolver
	cache     explain.Cache
}

// New creates a new application instance
func New(config *Config) *App {
	return &App{Config: config}
}

// Initialize validates configuration and builds the pipeline collaborators.
func (a *App) Initialize() error {
	logger.Init(a.Config.Verbose, a.Config.Silent)

	if err := a.Config.Validate(); err != nil {
		return err
	}

	if a.Config.RulesPath != "" {
		rules, err := LoadRules(a.Config.RulesPath)
		if err != nil {
			return err
		}
		a.rules = rules
		a.extractor = extract.NewExtractor(rules.ExtractionRules())
	} else {
		a.extractor = extract.NewExtractor(extract.DefaultRules())
	}

	var cache explain.Cache
	if a.Config.CachePath != "" {
		sq, err := explain.OpenCache(a.Config.CachePath)
		if err != nil {
			// A broken cache degrades lookups, it does not fail the run.
			logger.Warn("Explanation cache unavailable: %v", err)
		} else {
			cache = sq
			a.cache = sq
		}
	}

	var lookup explain.Lookup
	if a.Config.OnlineLookup {
		lookup = explain.NewHTTPLookup(a.Config.LookupTimeout)
	}
	a.resolver = explain.NewResolver(lookup, cache)

	return nil
}

// Run executes the full pipeline for the configured input file.
func (a *App) Run(ctx context.Context) (*RunStatus, error) {
	startTime := time.Now()

	parser, err := parsers.GetParserForFile(a.Config.InputPath)
	if err != nil {
		return nil, err
	}

	events, err := parser.Parse(a.Config.InputPath)
	if err != nil {
		return nil, err
	}

	shortRecords := 0
	if ep, ok := parser.(*parsers.ExportParser); ok {
		shortRecords = ep.ShortRecords
	}

	for _, e := range events {
		a.extractor.Apply(e)
	}

	matched := filter.Apply(events, a.filterOptions())

	// Explanations resolve lazily, after filtering, so only the ids that
	// appear in the report cost a lookup.
	unavailable := a.resolver.Annotate(ctx, matched)

	if err := a.emit(matched); err != nil {
		return nil, err
	}

	status := &RunStatus{
		Status:         "success",
		ParsedEvents:   len(events),
		MatchedEvents:  len(matched),
		ShortRecords:   shortRecords,
		UnavailableIDs: unavailable,
		DurationMs:     time.Since(startTime).Milliseconds(),
	}
	a.logSummary(status)

	return status, nil
}

// Cleanup releases resources held across the run.
func (a *App) Cleanup() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}

func (a *App) filterOptions() filter.Options {
	levels := a.Config.Levels
	if a.rules != nil {
		levels = a.rules.ExpandLevels(levels)
	}
	return filter.Options{
		Levels:  levels,
		IDs:     a.Config.IDs,
		Keyword: a.Config.Search,
		Limit:   a.Config.Limit,
	}
}

// emit writes the filtered events to every requested report, or to the
// terminal when no report file was asked for.
func (a *App) emit(events []*core.Event) error {
	targets := []struct {
		format string
		path   string
	}{
		{"csv", a.Config.CSVPath},
		{"html", a.Config.HTMLPath},
		{"jsonl", a.Config.JSONLPath},
	}

	wroteFile := false
	for _, t := range targets {
		if t.path == "" {
			continue
		}

		writer, err := output.GetWriter(t.format, t.path)
		if err != nil {
			return err
		}
		if err := writer.Write(events); err != nil {
			return fmt.Errorf("failed to render %s report: %w", t.format, err)
		}
		if err := writer.Close(); err != nil {
			return err
		}

		logger.Info("Wrote %s report: %s (%d events)", t.format, t.path, len(events))
		wroteFile = true
	}

	if !wroteFile {
		output.NewPrinter(os.Stdout).Print(events)
	}

	return nil
}

// logSummary reports degraded conditions once, at the end of the run.
func (a *App) logSummary(status *RunStatus) {
	logger.Info("Processed %d events, %d matched filters (%d ms)",
		status.ParsedEvents, status.MatchedEvents, status.DurationMs)

	if status.ShortRecords > 0 {
		logger.Warn("%d record(s) had fewer columns than expected and carry missing-field markers", status.ShortRecords)
	}
	if len(status.UnavailableIDs) > 0 {
		logger.Warn("No explanation available for %d event id(s): %v", len(status.UnavailableIDs), status.UnavailableIDs)
	}
}
