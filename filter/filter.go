// Package filter selects events by level, id, and message keyword.
package filter

import (
	"strings"

	"EventLens/core"
)

// Options configures one filtering pass. Zero values disable the
// corresponding predicate; provided predicates combine with logical AND.
type Options struct {
	// Levels keeps events whose level equals any member,
	// case-insensitively. Empty means no level filtering.
	Levels []string

	// IDs keeps events whose event id (as a string) equals any member.
	IDs []string

	// Keyword keeps events whose message contains it, case-insensitively.
	Keyword string

	// Limit truncates the filtered result to the first N events in
	// original order. Zero means unlimited.
	Limit int
}

// Apply returns the ordered subsequence of events matching the options.
// For identical input and options the output is always the same.
func Apply(events []*core.Event, opts Options) []*core.Event {
	levels := lowerSet(opts.Levels)
	ids := make(map[string]bool, len(opts.IDs))
	for _, id := range opts.IDs {
		ids[strings.TrimSpace(id)] = true
	}
	keyword := strings.ToLower(opts.Keyword)

	matched := make([]*core.Event, 0, len(events))
	for _, e := range events {
		if len(levels) > 0 && !levels[strings.ToLower(e.Level)] {
			continue
		}
		if len(ids) > 0 && !ids[e.IDString()] {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(e.Message), keyword) {
			continue
		}
		matched = append(matched, e)
	}

	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	return matched
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = true
		}
	}
	return set
}
