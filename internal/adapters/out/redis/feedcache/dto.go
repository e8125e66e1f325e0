package feedcache

import (
	"tracking/internal/core/domain/model/feed"
	"tracking/internal/core/domain/model/kernel"
)

// taskEventDTO is the cached JSON form of a feed.TaskEvent. Timestamps use the
// provider layout; an empty string stands for a missing timestamp.
type taskEventDTO struct {
	TaskType            string `json:"taskType"`
	ActivityDescription string `json:"activityDescription,omitempty"`
	InsertTime          string `json:"insertTime,omitempty"`
	FinishTime          string `json:"finishTime,omitempty"`
	ExecutionStatus     string `json:"executionStatus,omitempty"`
	Situation           string `json:"situation"`
	TransactionID       string `json:"transactionId"`
	Assignee            string `json:"assignee,omitempty"`
	ScheduleID          string `json:"scheduleId,omitempty"`
	ActivityID          string `json:"activityId,omitempty"`
	StoreID             string `json:"storeId,omitempty"`
}

func fromDomain(events []feed.TaskEvent) []taskEventDTO {
	dtos := make([]taskEventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, taskEventDTO{
			TaskType:            e.TaskType,
			ActivityDescription: e.ActivityDescription,
			InsertTime:          e.InsertTime.ProviderString(),
			FinishTime:          e.FinishTime.ProviderString(),
			ExecutionStatus:     e.ExecutionStatus,
			Situation:           e.Situation,
			TransactionID:       e.TransactionID,
			Assignee:            e.Assignee,
			ScheduleID:          e.ScheduleID,
			ActivityID:          e.ActivityID,
			StoreID:             e.StoreID,
		})
	}
	return dtos
}

func toDomain(dtos []taskEventDTO) []feed.TaskEvent {
	events := make([]feed.TaskEvent, 0, len(dtos))
	for _, d := range dtos {
		events = append(events, feed.TaskEvent{
			TaskType:            d.TaskType,
			ActivityDescription: d.ActivityDescription,
			InsertTime:          kernel.ProviderTimestampOrMissing(d.InsertTime),
			FinishTime:          kernel.ProviderTimestampOrMissing(d.FinishTime),
			ExecutionStatus:     d.ExecutionStatus,
			Situation:           d.Situation,
			TransactionID:       d.TransactionID,
			Assignee:            d.Assignee,
			ScheduleID:          d.ScheduleID,
			ActivityID:          d.ActivityID,
			StoreID:             d.StoreID,
		})
	}
	return events
}
