package services

import (
	"slices"

	"tracking/internal/core/domain/model/feed"
	"tracking/internal/core/domain/model/history"
	"tracking/internal/core/domain/model/timeline"
)

// TimelineMerger combines local history and both feeds into one timeline.
//
// Unlike the classifier, one task event can produce several entries: an
// in-progress marker and later a terminal marker. The output is sorted
// ascending by timestamp (missing first, ties in input order) and holds no
// two entries with the same label and rendered timestamp. Merge is
// idempotent.
type TimelineMerger struct {
	deliveryRules []TimelineRule
	assemblyRules []TimelineRule
}

// NewTimelineMerger builds a merger with the default timeline tables.
func NewTimelineMerger() TimelineMerger {
	return NewTimelineMergerWithRules(DeliveryTimelineRules(), AssemblyTimelineRules())
}

// NewTimelineMergerWithRules builds a merger with custom tables.
func NewTimelineMergerWithRules(delivery, assembly []TimelineRule) TimelineMerger {
	return TimelineMerger{deliveryRules: delivery, assemblyRules: assembly}
}

// Merge builds the timeline of one order.
//
// Parameters:
//   - rows: local history rows, in any order
//   - delivery: delivery task events
//   - assembly: assembly task events
//
// Returns the merged timeline; empty when all inputs are empty.
func (m TimelineMerger) Merge(rows []history.LocalStatusRow, delivery, assembly []feed.TaskEvent) []timeline.Event {
	events := make([]timeline.Event, 0, len(rows)+2*(len(delivery)+len(assembly)))

	for _, row := range rows {
		events = append(events, timeline.NewEvent(row.StatusLabel, row.Timestamp()))
	}
	events = m.expand(events, delivery, m.deliveryRules)
	events = m.expand(events, assembly, m.assemblyRules)

	slices.SortStableFunc(events, func(a, b timeline.Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return dedupe(events)
}

// MergeResults is Merge over feed results; failed feeds contribute nothing.
func (m TimelineMerger) MergeResults(rows []history.LocalStatusRow, results []feed.Result) []timeline.Event {
	var delivery, assembly []feed.TaskEvent
	for _, result := range results {
		if !result.Succeeded() {
			continue
		}
		switch result.Kind {
		case feed.Delivery:
			delivery = append(delivery, result.Events...)
		case feed.Assembly:
			assembly = append(assembly, result.Events...)
		}
	}
	return m.Merge(rows, delivery, assembly)
}

func (m TimelineMerger) expand(out []timeline.Event, events []feed.TaskEvent, rules []TimelineRule) []timeline.Event {
	for _, event := range events {
		for _, rule := range rules {
			if rule.When(event) {
				out = append(out, timeline.NewEvent(rule.Emit.apply(event)))
			}
		}
	}
	return out
}

func dedupe(events []timeline.Event) []timeline.Event {
	seen := make(map[timeline.Key]struct{}, len(events))
	out := make([]timeline.Event, 0, len(events))
	for _, event := range events {
		key := event.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, event)
	}
	return out
}
