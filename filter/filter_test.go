package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"EventLens/core"
)

func sampleEvents() []*core.Event {
	return []*core.Event{
		{EventID: 4624, Level: "Information", Message: "An account was successfully logged on."},
		{EventID: 4625, Level: "Audit Failure", Message: "An account failed to log on."},
		{EventID: 4672, Level: "Information", Message: "Special privileges assigned to new logon."},
		{EventID: 4625, Level: "Audit Failure", Message: "An account failed to log on."},
		{EventID: 1102, Level: "Warning", Message: "The audit log was cleared."},
	}
}

func ids(events []*core.Event) []int {
	out := make([]int, len(events))
	for i, e := range events {
		out[i] = e.EventID
	}
	return out
}

func TestApplyNoFilters(t *testing.T) {
	events := sampleEvents()
	assert.Equal(t, events, Apply(events, Options{}))
}

func TestApplyLevelCaseInsensitive(t *testing.T) {
	got := Apply(sampleEvents(), Options{Levels: []string{"audit failure"}})
	assert.Equal(t, []int{4625, 4625}, ids(got))
}

func TestApplyMultipleLevels(t *testing.T) {
	got := Apply(sampleEvents(), Options{Levels: []string{"Warning", "Audit Failure"}})
	assert.Equal(t, []int{4625, 4625, 1102}, ids(got))
}

func TestApplyIDs(t *testing.T) {
	got := Apply(sampleEvents(), Options{IDs: []string{"4624", " 1102 "}})
	assert.Equal(t, []int{4624, 1102}, ids(got))
}

func TestApplyKeyword(t *testing.T) {
	got := Apply(sampleEvents(), Options{Keyword: "FAILED TO LOG"})
	assert.Equal(t, []int{4625, 4625}, ids(got))
}

func TestApplyConjunction(t *testing.T) {
	// Level and keyword must both hold; the keyword alone would also
	// match the 4624 success event's "logged on".
	got := Apply(sampleEvents(), Options{Levels: []string{"Information"}, Keyword: "logged on"})
	assert.Equal(t, []int{4624}, ids(got))
}

func TestApplyLimit(t *testing.T) {
	got := Apply(sampleEvents(), Options{Limit: 2})
	assert.Equal(t, []int{4624, 4625}, ids(got))

	// Limit caps the filtered set, not the input.
	got = Apply(sampleEvents(), Options{Levels: []string{"Audit Failure"}, Limit: 10})
	assert.Equal(t, []int{4625, 4625}, ids(got))
}

func TestApplyNoMatches(t *testing.T) {
	got := Apply(sampleEvents(), Options{IDs: []string{"9999"}})
	assert.Empty(t, got)
}

func TestApplyPreservesOrderAndIdentity(t *testing.T) {
	events := sampleEvents()
	got := Apply(events, Options{Levels: []string{"Audit Failure"}})
	assert.Same(t, events[1], got[0])
	assert.Same(t, events[3], got[1])
}
