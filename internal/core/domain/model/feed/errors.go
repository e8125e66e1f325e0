package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrFeedLookupFailed marks a failure to resolve the schedule ids of a
	// transaction. The whole feed call fails.
	ErrFeedLookupFailed = errors.New("feed lookup failed")

	// ErrFeedDetailFailed marks a failure to fetch one schedule or activity.
	// The item is skipped and the feed call continues.
	ErrFeedDetailFailed = errors.New("feed detail failed")

	// ErrFeedIncomplete marks a feed call that returned events after skipping
	// at least one schedule or activity.
	ErrFeedIncomplete = errors.New("feed incomplete")
)

// FeedLookupError is returned when the schedule ids for a transaction cannot
// be resolved.
type FeedLookupError struct {
	Kind          Kind
	TransactionID string
	Cause         error
}

func NewFeedLookupError(kind Kind, transactionID string, cause error) *FeedLookupError {
	return &FeedLookupError{Kind: kind, TransactionID: transactionID, Cause: cause}
}

func (e *FeedLookupError) Error() string {
	return fmt.Sprintf("%s: %s feed, transaction %s (cause: %v)",
		ErrFeedLookupFailed, e.Kind, e.TransactionID, e.Cause)
}

// Is lets errors.Is match both the sentinel and the cause chain.
func (e *FeedLookupError) Is(target error) bool {
	return target == ErrFeedLookupFailed
}

func (e *FeedLookupError) Unwrap() error {
	return e.Cause
}

// Stage names the record a FeedDetailError refers to.
type Stage string

const (
	StageSchedule        Stage = "schedule"
	StageActivityHistory Stage = "activity_history"
	StageActivity        Stage = "activity"
)

// FeedDetailError describes one skipped schedule or activity.
type FeedDetailError struct {
	Kind     Kind
	Stage    Stage
	RecordID string
	Cause    error
}

func NewFeedDetailError(kind Kind, stage Stage, recordID string, cause error) *FeedDetailError {
	return &FeedDetailError{Kind: kind, Stage: stage, RecordID: recordID, Cause: cause}
}

func (e *FeedDetailError) Error() string {
	return fmt.Sprintf("%s: %s feed, %s %s (cause: %v)",
		ErrFeedDetailFailed, e.Kind, e.Stage, e.RecordID, e.Cause)
}

func (e *FeedDetailError) Is(target error) bool {
	return target == ErrFeedDetailFailed
}

func (e *FeedDetailError) Unwrap() error {
	return e.Cause
}

// IncompleteFeedError is returned together with the events of a feed call that
// skipped schedules or activities. The events are usable, but they may miss the
// latest step of the task and must not be kept as the state of the transaction.
type IncompleteFeedError struct {
	Kind          Kind
	TransactionID string
	Skipped       []*FeedDetailError
}

func NewIncompleteFeedError(kind Kind, transactionID string, skipped []*FeedDetailError) *IncompleteFeedError {
	return &IncompleteFeedError{Kind: kind, TransactionID: transactionID, Skipped: skipped}
}

func (e *IncompleteFeedError) Error() string {
	msg := fmt.Sprintf("%s: %s feed, transaction %s, %d item(s) skipped",
		ErrFeedIncomplete, e.Kind, e.TransactionID, len(e.Skipped))
	if len(e.Skipped) > 0 {
		msg += fmt.Sprintf(" (first: %v)", e.Skipped[0])
	}
	return msg
}

func (e *IncompleteFeedError) Is(target error) bool {
	return target == ErrFeedIncomplete
}

// Unwrap exposes every skipped item, so errors.Is matches ErrFeedDetailFailed
// and the causes of the skips.
func (e *IncompleteFeedError) Unwrap() []error {
	errList := make([]error, len(e.Skipped))
	for i, skipped := range e.Skipped {
		errList[i] = skipped
	}
	return errList
}
