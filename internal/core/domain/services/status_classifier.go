package services

import (
	"cmp"
	"slices"

	"tracking/internal/core/domain/model/feed"
	"tracking/internal/core/domain/model/history"
	"tracking/internal/core/domain/model/order"
)

// StatusClassifier maps task events to a current status.
//
// Delivery looks at the latest event only: events are sorted by
// finish time (insert time when missing) and the first matching rule of the
// delivery table decides. Assembly tracks progression: events are sorted by
// insert time (finish time when missing), the status starts as
// AWAITING ASSEMBLY at the first insert time, and every event is folded
// through the assembly table so later events overwrite earlier ones.
//
// Missing timestamps sort before every valid instant. They are only used for
// ordering; the emitted timestamp is always the event's own value.
//
// Example usage:
//
//	classifier := services.NewStatusClassifier()
//	status, ok := classifier.Classify(feed.Assembly, events)
//	if ok {
//	    fmt.Println(status.Label, status.Timestamp) // ASSEMBLED 15/10/2025 16:10:35
//	}
type StatusClassifier struct {
	deliveryRules []StatusRule
	assemblyRules []StatusRule
}

// NewStatusClassifier builds a classifier with the default transition tables.
func NewStatusClassifier() StatusClassifier {
	return NewStatusClassifierWithRules(DeliveryStatusRules(), AssemblyStatusRules())
}

// NewStatusClassifierWithRules builds a classifier with custom tables.
func NewStatusClassifierWithRules(delivery, assembly []StatusRule) StatusClassifier {
	return StatusClassifier{deliveryRules: delivery, assemblyRules: assembly}
}

// Classify returns the current status one feed's events imply.
//
// Parameters:
//   - kind: the feed the events come from
//   - events: task events in any order
//
// Returns:
//   - order.CurrentStatus: the classified status
//   - bool: false when the feed implies no transition (no events, unknown
//     kind, or a delivery event no rule matches)
func (c StatusClassifier) Classify(kind feed.Kind, events []feed.TaskEvent) (order.CurrentStatus, bool) {
	if len(events) == 0 {
		return order.UnknownStatus(), false
	}

	switch kind {
	case feed.Delivery:
		return c.classifyDelivery(events)
	case feed.Assembly:
		return c.classifyAssembly(events), true
	default:
		return order.UnknownStatus(), false
	}
}

func (c StatusClassifier) classifyDelivery(events []feed.TaskEvent) (order.CurrentStatus, bool) {
	sorted := sortEvents(events, finishOrInsertTime, insertTime)
	last := sorted[len(sorted)-1]

	for _, rule := range c.deliveryRules {
		if rule.When(last) {
			return order.NewCurrentStatus(rule.Then.apply(last)), true
		}
	}
	return order.UnknownStatus(), false
}

func (c StatusClassifier) classifyAssembly(events []feed.TaskEvent) order.CurrentStatus {
	sorted := sortEvents(events, insertOrFinishTime, finishTime)
	status := order.NewCurrentStatus(order.AwaitingAssembly, sorted[0].InsertTime)

	for _, event := range sorted {
		for _, rule := range c.assemblyRules {
			if rule.When(event) {
				status = order.NewCurrentStatus(rule.Then.apply(event))
				break
			}
		}
	}
	return status
}

// Resolve computes an order's current status.
//
// The latest local history row is the default. Each feed in feed.Kinds()
// order overrides it when its call succeeded and its events classify, so
// assembly takes precedence over delivery. Failed feeds contribute nothing.
// Without history and without feed data the status is unknown.
func (c StatusClassifier) Resolve(latest history.LocalStatusRow, hasLatest bool, results []feed.Result) order.CurrentStatus {
	status := order.UnknownStatus()
	if hasLatest {
		status = order.NewCurrentStatus(latest.StatusLabel, latest.Timestamp())
	}

	for _, kind := range feed.Kinds() {
		for _, result := range results {
			if result.Kind != kind || !result.HasEvents() {
				continue
			}
			if classified, ok := c.Classify(kind, result.Events); ok {
				status = classified
			}
		}
	}
	return status
}

// sortEvents returns a copy sorted by key. Ties fall back to the secondary
// timestamp, then to schedule and activity ids, so that the result does not
// depend on input order.
func sortEvents(events []feed.TaskEvent, key, tieBreak TimestampSelector) []feed.TaskEvent {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b feed.TaskEvent) int {
		return cmp.Or(
			key(a).Compare(key(b)),
			tieBreak(a).Compare(tieBreak(b)),
			cmp.Compare(a.ScheduleID, b.ScheduleID),
			cmp.Compare(a.ActivityID, b.ActivityID),
		)
	})
	return sorted
}
