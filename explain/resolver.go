package explain

import (
	"context"

	"EventLens/core"
	"EventLens/internal/logger"
)

// Outcome is the resolution state of one event ID.
type Outcome int

const (
	// Unresolved means no resolution has been attempted yet.
	Unresolved Outcome = iota

	// Resolved means an explanation was found in cache or online.
	Resolved

	// Unavailable means resolution was attempted and failed, or lookup is
	// disabled. The id stays unavailable for the rest of the run.
	Unavailable
)

type result struct {
	text    string
	outcome Outcome
}

// Resolver maps event IDs to explanation text. Each distinct id is resolved
// at most once per run regardless of how many events share it; the outcome
// is memoized. A lookup failure downgrades the id to Unavailable and never
// aborts the run.
//
// Resolver is owned by a single run and is not safe for concurrent use.
type Resolver struct {
	lookup Lookup // nil when online lookup is disabled
	cache  Cache  // nil when no cache file is configured
	memo   map[string]result
}

// NewResolver creates a resolver. Either collaborator may be nil: with no
// cache every miss goes online, with no lookup every miss is Unavailable.
func NewResolver(lookup Lookup, cache Cache) *Resolver {
	return &Resolver{
		lookup: lookup,
		cache:  cache,
		memo:   make(map[string]result),
	}
}

// Resolve returns the explanation for an event ID and its outcome. It never
// returns an error: misses and failures produce Unavailable.
func (r *Resolver) Resolve(ctx context.Context, eventID string) (string, Outcome) {
	if eventID == "" || eventID == core.MissingField {
		return "", Unavailable
	}

	if res, ok := r.memo[eventID]; ok {
		return res.text, res.outcome
	}

	res := r.resolveOnce(ctx, eventID)
	r.memo[eventID] = res
	return res.text, res.outcome
}

func (r *Resolver) resolveOnce(ctx context.Context, eventID string) result {
	if r.cache != nil {
		text, ok, err := r.cache.Get(eventID)
		if err != nil {
			logger.Warn("Explanation cache read failed for id %s: %v", eventID, err)
		} else if ok {
			return result{text: text, outcome: Resolved}
		}
	}

	if r.lookup == nil {
		return result{outcome: Unavailable}
	}

	logger.Info("Looking up event ID %s online...", eventID)
	text, err := r.lookup.Lookup(ctx, eventID)
	if err != nil {
		logger.Warn("Online lookup failed for event ID %s: %v", eventID, err)
		return result{outcome: Unavailable}
	}

	if r.cache != nil {
		if err := r.cache.Put(eventID, text); err != nil {
			logger.Warn("Explanation cache write failed for id %s: %v", eventID, err)
		}
	}

	return result{text: text, outcome: Resolved}
}

// Annotate resolves explanations for the whole event collection, visiting
// distinct ids in the order they are first seen, and fills the Explanation
// field in place. It returns the ids that ended up Unavailable, for the
// end-of-run degraded summary.
func (r *Resolver) Annotate(ctx context.Context, events []*core.Event) []string {
	var unavailable []string
	seen := make(map[string]bool)

	for _, e := range events {
		id := e.IDString()
		text, outcome := r.Resolve(ctx, id)

		switch outcome {
		case Resolved:
			e.Explanation = text
		default:
			e.Explanation = core.ExplanationUnavailable
			if !seen[id] {
				seen[id] = true
				unavailable = append(unavailable, id)
			}
		}
	}

	return unavailable
}
