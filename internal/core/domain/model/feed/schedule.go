package feed

import "tracking/internal/core/domain/model/kernel"

// ScheduleRecord is one field-service task instance correlated to an order.
type ScheduleRecord struct {
	ScheduleID    string
	InsertTime    kernel.Timestamp
	TransactionID string
	TaskType      string
	Assignee      string
	Situation     string
	ActivityIDs   []string

	// StoreID is the store custom field when the provider reports one.
	StoreID string
}

// IsCancelled reports whether the provider cancelled the schedule.
func (s ScheduleRecord) IsCancelled() bool {
	return s.Situation == SituationCancelled
}

// BelongsTo reports whether the schedule survives source filtering for kind:
// it is not cancelled and its task type is the feed's expected type.
func (s ScheduleRecord) BelongsTo(kind Kind) bool {
	return !s.IsCancelled() && s.TaskType == kind.ExpectedTaskType()
}

// ActivityEvent is one occurrence within a schedule's activity history.
type ActivityEvent struct {
	ActivityID      string
	Description     string
	FinishTime      kernel.Timestamp
	ExecutionStatus string
}

// ResolveFinishTime picks the provider's completion time, falling back to the
// sync-end time when the primary value is absent or unparseable.
func ResolveFinishTime(finishTimeOnSystem, endTimeSync string) kernel.Timestamp {
	return kernel.ProviderTimestampOrMissing(finishTimeOnSystem).
		Or(kernel.ProviderTimestampOrMissing(endTimeSync))
}
