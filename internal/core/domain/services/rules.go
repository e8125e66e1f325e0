package services

import (
	"tracking/internal/core/domain/model/feed"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
)

// Predicate selects the task events a rule applies to.
type Predicate func(feed.TaskEvent) bool

// TimestampSelector picks the instant a rule emits for an event.
type TimestampSelector func(feed.TaskEvent) kernel.Timestamp

// Transition is the label and instant a rule produces.
type Transition struct {
	Label string
	At    TimestampSelector
}

func (t Transition) apply(event feed.TaskEvent) (string, kernel.Timestamp) {
	return t.Label, t.At(event)
}

// StatusRule is one row of a status transition table. Within a table the
// first matching rule wins.
type StatusRule struct {
	Name string
	When Predicate
	Then Transition
}

// TimelineRule is one row of a timeline table. Every matching rule emits an
// entry.
type TimelineRule struct {
	Name string
	When Predicate
	Emit Transition
}

func always(feed.TaskEvent) bool { return true }

func notReturned(e feed.TaskEvent) bool { return !e.IsReturnedFromField() }

func describedAs(description string) Predicate {
	return func(e feed.TaskEvent) bool {
		return e.ActivityDescription == description
	}
}

func returnedWith(description string) Predicate {
	return func(e feed.TaskEvent) bool {
		return e.IsReturnedFromField() && e.ActivityDescription == description
	}
}

func insertTime(e feed.TaskEvent) kernel.Timestamp { return e.InsertTime }

func finishTime(e feed.TaskEvent) kernel.Timestamp { return e.FinishTime }

func finishOrInsertTime(e feed.TaskEvent) kernel.Timestamp { return e.FinishTime.Or(e.InsertTime) }

func insertOrFinishTime(e feed.TaskEvent) kernel.Timestamp { return e.InsertTime.Or(e.FinishTime) }

// DeliveryStatusRules is applied to the latest delivery event only.
// A returned schedule whose activity matches neither terminal rule leaves the
// status unchanged.
func DeliveryStatusRules() []StatusRule {
	return []StatusRule{
		{Name: "in progress", When: notReturned, Then: Transition{order.OutForDelivery, insertTime}},
		{Name: "delivered", When: returnedWith(feed.ActivityDelivery), Then: Transition{order.Delivered, finishTime}},
		{Name: "not delivered", When: returnedWith(feed.ActivityDeliveryNotPerformed), Then: Transition{order.NotDelivered, finishTime}},
	}
}

// AssemblyStatusRules is folded over every assembly event in order.
func AssemblyStatusRules() []StatusRule {
	return []StatusRule{
		{Name: "travelling", When: describedAs(feed.ActivityStartOfTravel), Then: Transition{order.OutForAssembly, finishTime}},
		{Name: "assembled", When: returnedWith(feed.ActivityAssembly), Then: Transition{order.Assembled, finishTime}},
		{Name: "not assembled", When: returnedWith(feed.ActivityAssemblyNotPerformed), Then: Transition{order.NotAssembled, finishTime}},
	}
}

// DeliveryTimelineRules emits the in-progress marker for every delivery event
// plus the terminal marker of returned ones.
func DeliveryTimelineRules() []TimelineRule {
	return []TimelineRule{
		{Name: "out for delivery", When: always, Emit: Transition{order.OutForDelivery, insertTime}},
		{Name: "delivered", When: returnedWith(feed.ActivityDelivery), Emit: Transition{order.Delivered, finishTime}},
		{Name: "not delivered", When: returnedWith(feed.ActivityDeliveryNotPerformed), Emit: Transition{order.NotDelivered, finishTime}},
	}
}

// AssemblyTimelineRules emits the awaiting marker for every assembly event,
// the travel marker and the terminal markers.
func AssemblyTimelineRules() []TimelineRule {
	return []TimelineRule{
		{Name: "awaiting assembly", When: always, Emit: Transition{order.AwaitingAssembly, insertTime}},
		{Name: "out for assembly", When: describedAs(feed.ActivityStartOfTravel), Emit: Transition{order.OutForAssembly, finishOrInsertTime}},
		{Name: "assembled", When: returnedWith(feed.ActivityAssembly), Emit: Transition{order.Assembled, finishTime}},
		{Name: "not assembled", When: returnedWith(feed.ActivityAssemblyNotPerformed), Emit: Transition{order.NotAssembled, finishTime}},
	}
}
