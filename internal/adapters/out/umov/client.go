package umov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tracking/internal/circuitbreaker"
	"tracking/internal/core/domain/model/feed"
	"tracking/internal/metrics"
)

const (
	maxBodyBytes = 8 << 20

	// probeTransactionID is looked up by Probe. Any answer, even an empty
	// list, proves the endpoint is reachable.
	probeTransactionID = "0"
)

// StatusError reports a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("umov responded %d for %s", e.StatusCode, e.Path)
}

// Transient reports whether retrying the call may succeed.
func (e *StatusError) Transient() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Client fetches the delivery and assembly feeds from the provider.
// It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	sink       metrics.Sink
	logger     *slog.Logger
}

// NewClient creates a provider client. A nil httpClient uses http.DefaultClient;
// a nil sink records nothing.
func NewClient(cfg Config, httpClient *http.Client, sink metrics.Sink, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if sink == nil {
		sink = metrics.NewNoopSink()
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		breaker:    circuitbreaker.New(cfg.BreakerThreshold, cfg.BreakerCooldown),
		sink:       sink,
		logger:     logger.With("component", "umov-client"),
	}
}

// FetchFeed returns the task events of a transaction for one feed.
//
// Schedules and activities that cannot be fetched or decoded are logged,
// counted and skipped; the remaining events are then returned together with a
// *feed.IncompleteFeedError. A failure resolving the schedule ids, including a
// refusal by the circuit breaker, returns a *feed.FeedLookupError.
func (c *Client) FetchFeed(ctx context.Context, transactionID string, kind feed.Kind) ([]feed.TaskEvent, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	fc := c.cfg.feed(kind)

	scheduleIDs, err := c.scheduleIDs(ctx, kind, fc, transactionID, true)
	if err != nil {
		c.sink.FeedFetchCompleted(kind.String(), c.outcome(ctx, err), time.Since(start))
		return nil, feed.NewFeedLookupError(kind, transactionID, err)
	}

	events := make([]feed.TaskEvent, 0, len(scheduleIDs))
	var skipped []*feed.FeedDetailError
	for i, scheduleID := range scheduleIDs {
		if err := ctx.Err(); err != nil {
			c.sink.FeedFetchCompleted(kind.String(), metrics.OutcomeCanceled, time.Since(start))
			return nil, fmt.Errorf("fetch %s feed: %w", kind, err)
		}

		if c.breaker.IsOpen(kind.String()) {
			skipped = append(skipped, c.skipRemaining(ctx, kind, scheduleIDs[i:])...)
			break
		}

		scheduleEvents, ok := c.fetchSchedule(ctx, kind, fc, transactionID, scheduleID, &skipped)
		if ok {
			events = append(events, scheduleEvents...)
		}
	}
	if err := ctx.Err(); err != nil {
		c.sink.FeedFetchCompleted(kind.String(), metrics.OutcomeCanceled, time.Since(start))
		return nil, fmt.Errorf("fetch %s feed: %w", kind, err)
	}

	if len(skipped) > 0 {
		c.sink.FeedFetchCompleted(kind.String(), metrics.OutcomeIncomplete, time.Since(start))
		return events, feed.NewIncompleteFeedError(kind, transactionID, skipped)
	}

	c.sink.FeedFetchCompleted(kind.String(), metrics.OutcomeSuccess, time.Since(start))
	c.logger.DebugContext(ctx, "feed fetched",
		"feed", kind.String(),
		"transaction_id", transactionID,
		"schedules", len(scheduleIDs),
		"events", len(events))

	return events, nil
}

// Probe issues one schedule lookup for kind without retries and bypassing the
// circuit breaker, so that a recovered provider is noticed while the circuit is open.
func (c *Client) Probe(ctx context.Context, kind feed.Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	_, err := c.scheduleIDs(ctx, kind, c.cfg.feed(kind), probeTransactionID, false)
	return err
}

// fetchSchedule returns the events of one schedule. ok is false when the schedule
// was filtered out or skipped after a failure.
func (c *Client) fetchSchedule(
	ctx context.Context,
	kind feed.Kind,
	fc FeedConfig,
	transactionID, scheduleID string,
	skipped *[]*feed.FeedDetailError,
) ([]feed.TaskEvent, bool) {
	body, err := c.get(ctx, kind, fc, []string{"schedule", scheduleID + ".xml"}, nil, true)
	if err != nil {
		c.skip(ctx, skipped, feed.NewFeedDetailError(kind, feed.StageSchedule, scheduleID, err))
		return nil, false
	}

	schedule, err := decodeSchedule(body, scheduleID, fc, transactionID)
	if err != nil {
		c.skip(ctx, skipped, feed.NewFeedDetailError(kind, feed.StageSchedule, scheduleID, err))
		return nil, false
	}

	if !schedule.BelongsTo(kind) {
		c.logger.DebugContext(ctx, "schedule discarded",
			"feed", kind.String(),
			"schedule_id", scheduleID,
			"situation", schedule.Situation,
			"task_type", schedule.TaskType)
		return nil, false
	}

	// Without the history list the schedule's progress is unknown, so it is
	// skipped instead of being reported as pending.
	body, err = c.get(ctx, kind, fc, []string{"activityHistory.xml"}, url.Values{
		"initialStartTimeOnSystem": {c.cfg.WindowStart},
		"endStartTimeOnSystem":     {c.cfg.WindowEnd},
		"schedule":                 {scheduleID},
	}, true)
	if err != nil {
		c.skip(ctx, skipped, feed.NewFeedDetailError(kind, feed.StageActivityHistory, scheduleID, err))
		return nil, false
	}

	historyIDs, err := decodeEntryIDs(body)
	if err != nil {
		c.skip(ctx, skipped, feed.NewFeedDetailError(kind, feed.StageActivityHistory, scheduleID, err))
		return nil, false
	}

	activities := make([]feed.ActivityEvent, 0, len(historyIDs))
	for _, historyID := range historyIDs {
		activity, ok := c.fetchActivity(ctx, kind, fc, historyID, skipped)
		if ok {
			activities = append(activities, activity)
		}
	}

	return feed.FlattenSchedule(schedule, activities), true
}

func (c *Client) fetchActivity(
	ctx context.Context,
	kind feed.Kind,
	fc FeedConfig,
	historyID string,
	skipped *[]*feed.FeedDetailError,
) (feed.ActivityEvent, bool) {
	body, err := c.get(ctx, kind, fc, []string{"activityHistory", historyID + ".xml"}, nil, true)
	if err != nil {
		c.skip(ctx, skipped, feed.NewFeedDetailError(kind, feed.StageActivity, historyID, err))
		return feed.ActivityEvent{}, false
	}

	activity, ok, err := decodeActivity(body)
	if err != nil {
		c.skip(ctx, skipped, feed.NewFeedDetailError(kind, feed.StageActivity, historyID, err))
		return feed.ActivityEvent{}, false
	}

	return activity, ok && kind.IsDesiredActivity(activity.Description)
}

func (c *Client) scheduleIDs(
	ctx context.Context,
	kind feed.Kind,
	fc FeedConfig,
	transactionID string,
	resilient bool,
) ([]string, error) {
	body, err := c.get(ctx, kind, fc, []string{"schedule.xml"}, url.Values{fc.LookupParam: {transactionID}}, resilient)
	if err != nil {
		return nil, err
	}
	return decodeEntryIDs(body)
}

func (c *Client) skip(ctx context.Context, skipped *[]*feed.FeedDetailError, err *feed.FeedDetailError) {
	*skipped = append(*skipped, err)
	c.sink.FeedItemSkipped(err.Kind.String(), string(err.Stage))
	c.logger.WarnContext(ctx, "skipping feed item",
		"feed", err.Kind.String(),
		"stage", string(err.Stage),
		"record_id", err.RecordID,
		"error", err.Cause)
}

// skipRemaining gives up on schedules not walked yet once the feed's circuit
// has opened, without issuing the calls the breaker would refuse one by one.
func (c *Client) skipRemaining(ctx context.Context, kind feed.Kind, scheduleIDs []string) []*feed.FeedDetailError {
	skipped := make([]*feed.FeedDetailError, 0, len(scheduleIDs))
	for _, scheduleID := range scheduleIDs {
		skipped = append(skipped, feed.NewFeedDetailError(kind, feed.StageSchedule, scheduleID, circuitbreaker.ErrCircuitOpen))
		c.sink.FeedItemSkipped(kind.String(), string(feed.StageSchedule))
	}

	c.logger.WarnContext(ctx, "circuit open, skipping remaining schedules",
		"feed", kind.String(),
		"schedules", len(scheduleIDs))
	return skipped
}

func (c *Client) outcome(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return metrics.OutcomeCircuitOpen
	case ctx.Err() != nil:
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeLookupFailed
	}
}

// get performs a GET against the feed's token root. A resilient call goes through
// the circuit breaker and retries transient failures with jittered backoff.
func (c *Client) get(
	ctx context.Context,
	kind feed.Kind,
	fc FeedConfig,
	segments []string,
	query url.Values,
	resilient bool,
) ([]byte, error) {
	target, err := url.JoinPath(c.cfg.BaseURL, append([]string{fc.Token}, segments...)...)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	path := "/" + strings.Join(segments, "/")

	if !resilient {
		return c.do(ctx, target, path)
	}

	key := kind.String()
	if err := c.breaker.Allow(key); err != nil {
		return nil, err
	}

	b := newBackoff(c.cfg.RetryMinDelay, c.cfg.RetryMaxDelay, 2)
	for attempt := 0; ; attempt++ {
		body, err := c.do(ctx, target, path)
		if err == nil {
			c.breaker.RecordSuccess(key)
			return body, nil
		}

		if ctx.Err() != nil {
			c.breaker.Abandon(key)
			return nil, err
		}

		if !isTransient(err) {
			// The provider answered; a 4xx says nothing about its health.
			c.breaker.RecordSuccess(key)
			return nil, err
		}

		if attempt >= c.cfg.MaxRetries {
			c.breaker.RecordFailure(key)
			return nil, err
		}

		wait := b.Next()
		c.logger.DebugContext(ctx, "retrying provider call",
			"feed", key,
			"path", path,
			"attempt", attempt+1,
			"wait", wait,
			"error", err)

		select {
		case <-ctx.Done():
			c.breaker.Abandon(key)
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// do runs one attempt bounded by RequestTimeout. Errors never carry the token.
func (c *Client) do(ctx context.Context, target, path string) ([]byte, error) {
	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = path
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, Path: path}
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

func isTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Transient()
	}

	// Network failures and per-attempt timeouts.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
