package feed

import "tracking/internal/core/domain/model/kernel"

// TaskEvent is the flattened per-feed unit consumed by the status classifier
// and the timeline merger.
//
// An empty ActivityDescription means the schedule has no qualifying activity
// yet; such an event carries no finish time or execution status.
type TaskEvent struct {
	TaskType            string
	ActivityDescription string
	InsertTime          kernel.Timestamp
	FinishTime          kernel.Timestamp
	ExecutionStatus     string
	Situation           string
	TransactionID       string
	Assignee            string

	ScheduleID string
	ActivityID string
	StoreID    string
}

// NewTaskEvent flattens a schedule and one of its kept activities.
func NewTaskEvent(schedule ScheduleRecord, activity ActivityEvent) TaskEvent {
	event := newScheduleEvent(schedule)
	event.ActivityDescription = activity.Description
	event.ActivityID = activity.ActivityID
	event.FinishTime = activity.FinishTime
	event.ExecutionStatus = activity.ExecutionStatus
	return event
}

// NewPendingTaskEvent represents a schedule none of whose activities qualified.
func NewPendingTaskEvent(schedule ScheduleRecord) TaskEvent {
	return newScheduleEvent(schedule)
}

func newScheduleEvent(schedule ScheduleRecord) TaskEvent {
	return TaskEvent{
		TaskType:      schedule.TaskType,
		InsertTime:    schedule.InsertTime,
		Situation:     schedule.Situation,
		TransactionID: schedule.TransactionID,
		Assignee:      schedule.Assignee,
		ScheduleID:    schedule.ScheduleID,
		StoreID:       schedule.StoreID,
	}
}

// HasActivity reports whether the event carries a qualifying activity.
func (e TaskEvent) HasActivity() bool {
	return e.ActivityDescription != ""
}

// IsReturnedFromField reports whether the schedule came back from the field.
func (e TaskEvent) IsReturnedFromField() bool {
	return e.Situation == SituationReturnedFromField
}

// FlattenSchedule emits one TaskEvent per activity, or a single pending
// event when activities is empty.
func FlattenSchedule(schedule ScheduleRecord, activities []ActivityEvent) []TaskEvent {
	if len(activities) == 0 {
		return []TaskEvent{NewPendingTaskEvent(schedule)}
	}

	events := make([]TaskEvent, 0, len(activities))
	for _, activity := range activities {
		events = append(events, NewTaskEvent(schedule, activity))
	}
	return events
}
