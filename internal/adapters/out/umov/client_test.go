package umov_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"tracking/internal/adapters/out/umov"
	"tracking/internal/circuitbreaker"
	"tracking/internal/core/domain/model/feed"
	"tracking/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

type recordingSink struct {
	metrics.NoopSink

	mu       sync.Mutex
	outcomes []string
	skipped  []string
}

func (s *recordingSink) FeedFetchCompleted(feed, outcome string, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, feed+":"+outcome)
}

func (s *recordingSink) FeedItemSkipped(feed, stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped = append(s.skipped, feed+":"+stage)
}

func newClient(cfg umov.Config, sink metrics.Sink) *umov.Client {
	return umov.NewClient(cfg, nil, sink, slog.New(slog.DiscardHandler))
}

func TestClient_FetchFeed_Delivery(t *testing.T) {
	// Given
	provider := newFakeProvider().
		on("/schedule.xml", ok(entriesXML("s1", "s2", "s3", "s4"))).
		on("/schedule/s1.xml", ok(scheduleXML(scheduleFixture{
			taskType:  feed.TaskTypeDelivery,
			situation: feed.SituationReturnedFromField,
			insert:    "2025-10-14 09:00:00",
			agent:     "Driver One",
			fields:    map[string]string{"transacao": "351788", "loja": "12"},
		}))).
		on("/activityHistory.xml#s1", ok(entriesXML("h1", "h2", "h3"))).
		on("/activityHistory/h1.xml", ok(activityXML("a1", feed.ActivityDelivery, "", "2025-10-14 15:00:00", "Done"))).
		on("/activityHistory/h2.xml", ok(activityXML("a2", feed.ActivityStartOfTravel, "2025-10-14 10:00:00", "", "Done"))).
		on("/activityHistory/h3.xml", response{status: http.StatusBadGateway}).
		on("/schedule/s2.xml", ok(scheduleXML(scheduleFixture{
			taskType:  feed.TaskTypeDelivery,
			situation: feed.SituationCancelled,
			insert:    "2025-10-13 09:00:00",
		}))).
		on("/schedule/s3.xml", ok(scheduleXML(scheduleFixture{
			taskType:  feed.TaskTypeAssembly,
			situation: "In Field",
			insert:    "2025-10-13 09:00:00",
		})))
	_, cfg := provider.start(t)
	sink := &recordingSink{}
	client := newClient(cfg, sink)

	// When
	events, err := client.FetchFeed(context.Background(), "351788", feed.Delivery)

	// Then
	require.ErrorIs(t, err, feed.ErrFeedIncomplete)
	require.Len(t, events, 1)

	event := events[0]
	assert.Equal(t, feed.TaskTypeDelivery, event.TaskType)
	assert.Equal(t, feed.ActivityDelivery, event.ActivityDescription)
	assert.Equal(t, "14/10/2025 09:00:00", event.InsertTime.String())
	assert.Equal(t, "14/10/2025 15:00:00", event.FinishTime.String(), "should fall back to sync end time")
	assert.Equal(t, "Done", event.ExecutionStatus)
	assert.Equal(t, feed.SituationReturnedFromField, event.Situation)
	assert.Equal(t, "351788", event.TransactionID)
	assert.Equal(t, "Driver One", event.Assignee)
	assert.Equal(t, "s1", event.ScheduleID)
	assert.Equal(t, "a1", event.ActivityID)
	assert.Equal(t, "12", event.StoreID)

	t.Run("should look schedules up by the delivery parameter", func(t *testing.T) {
		assert.Equal(t, "351788", provider.query("/schedule.xml").Get("transacao"))
	})

	t.Run("should search activities inside the history window", func(t *testing.T) {
		q := provider.query("/activityHistory.xml#s1")
		assert.Equal(t, umov.DefaultWindowStart, q.Get("initialStartTimeOnSystem"))
		assert.Equal(t, umov.DefaultWindowEnd, q.Get("endStartTimeOnSystem"))
	})

	t.Run("should not fetch activities of discarded schedules", func(t *testing.T) {
		assert.Zero(t, provider.hitCount("/activityHistory.xml#s2"))
		assert.Zero(t, provider.hitCount("/activityHistory.xml#s3"))
	})

	t.Run("should retry transient failures before skipping", func(t *testing.T) {
		assert.Equal(t, 2, provider.hitCount("/activityHistory/h3.xml"))
	})

	t.Run("should count skipped items and the fetch outcome", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"delivery:activity", "delivery:schedule"}, sink.skipped)
		assert.Equal(t, []string{"delivery:incomplete"}, sink.outcomes)
	})

	t.Run("should report the skipped items with the events", func(t *testing.T) {
		var incomplete *feed.IncompleteFeedError
		require.ErrorAs(t, err, &incomplete)
		require.Len(t, incomplete.Skipped, 2)
		assert.Equal(t, "h3", incomplete.Skipped[0].RecordID)
		assert.Equal(t, "s4", incomplete.Skipped[1].RecordID)
		require.NotErrorIs(t, err, feed.ErrFeedLookupFailed)
	})

	t.Run("should send the feed token only", func(t *testing.T) {
		for _, token := range provider.tokensSeen() {
			assert.Equal(t, deliveryToken, token)
		}
	})
}

func TestClient_FetchFeed_Assembly(t *testing.T) {
	t.Run("should emit a pending event when no activity qualifies", func(t *testing.T) {
		// Given
		provider := newFakeProvider().
			on("/schedule.xml", ok(entriesXML("m1"))).
			on("/schedule/m1.xml", ok(scheduleXML(scheduleFixture{
				taskType:  feed.TaskTypeAssembly,
				situation: "Scheduled",
				insert:    "2025-10-17 10:00:00",
				fields:    map[string]string{"n__pedido": "A-42"},
			}))).
			on("/activityHistory.xml#m1", ok(entriesXML("h9"))).
			on("/activityHistory/h9.xml", ok(activityXML("a9", feed.ActivityDelivery, "2025-10-17 11:00:00", "", "Done")))
		_, cfg := provider.start(t)

		// When
		events, err := newClient(cfg, nil).FetchFeed(context.Background(), "A-42", feed.Assembly)

		// Then
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.False(t, events[0].HasActivity())
		assert.Equal(t, "A-42", events[0].TransactionID)
		assert.Equal(t, "17/10/2025 10:00:00", events[0].InsertTime.String())
		assert.Equal(t, "A-42", provider.query("/schedule.xml").Get("n_pedido"))
		assert.Equal(t, []string{assemblyToken}, slices.Compact(provider.tokensSeen()))
	})

	t.Run("should return no events when no schedule matches", func(t *testing.T) {
		provider := newFakeProvider().on("/schedule.xml", ok(entriesXML()))
		_, cfg := provider.start(t)

		events, err := newClient(cfg, nil).FetchFeed(context.Background(), "A-42", feed.Assembly)

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("should default the transaction id to the requested one", func(t *testing.T) {
		provider := newFakeProvider().
			on("/schedule.xml", ok(entriesXML("m1"))).
			on("/schedule/m1.xml", ok(scheduleXML(scheduleFixture{
				taskType: feed.TaskTypeAssembly, situation: "Scheduled", insert: "2025-10-17 10:00:00",
			}))).
			on("/activityHistory.xml#m1", ok(entriesXML()))
		_, cfg := provider.start(t)

		events, err := newClient(cfg, nil).FetchFeed(context.Background(), "A-42", feed.Assembly)

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "A-42", events[0].TransactionID)
	})
}

func TestClient_FetchFeed_DecodesLegacyCharsets(t *testing.T) {
	// Given
	body, err := charmap.ISO8859_1.NewEncoder().String(
		`<?xml version="1.0" encoding="ISO-8859-1"?>` +
			`<schedule><situation><description>In Field</description></situation>` +
			`<scheduleType><description>Assembly</description></scheduleType>` +
			`<insertDateTime>2025-10-17 10:00:00</insertDateTime>` +
			`<agent><name>João Conceição</name></agent></schedule>`)
	require.NoError(t, err)

	provider := newFakeProvider().
		on("/schedule.xml", ok(entriesXML("m1"))).
		on("/schedule/m1.xml", ok(body)).
		on("/activityHistory.xml#m1", ok(entriesXML()))
	_, cfg := provider.start(t)

	// When
	events, err := newClient(cfg, nil).FetchFeed(context.Background(), "A-42", feed.Assembly)

	// Then
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "João Conceição", events[0].Assignee)
}

func TestClient_FetchFeed_LookupFailures(t *testing.T) {
	t.Run("should return lookup error after retries", func(t *testing.T) {
		// Given
		provider := newFakeProvider().on("/schedule.xml", response{status: http.StatusServiceUnavailable})
		_, cfg := provider.start(t)
		cfg.MaxRetries = 2
		sink := &recordingSink{}

		// When
		events, err := newClient(cfg, sink).FetchFeed(context.Background(), "351788", feed.Delivery)

		// Then
		require.ErrorIs(t, err, feed.ErrFeedLookupFailed)
		assert.Nil(t, events)
		assert.Equal(t, 3, provider.hitCount("/schedule.xml"))
		assert.Equal(t, []string{"delivery:lookup_failed"}, sink.outcomes)

		var statusErr *umov.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		assert.NotContains(t, err.Error(), deliveryToken)
	})

	t.Run("should not retry client errors", func(t *testing.T) {
		provider := newFakeProvider().on("/schedule.xml", response{status: http.StatusUnauthorized})
		_, cfg := provider.start(t)

		_, err := newClient(cfg, nil).FetchFeed(context.Background(), "351788", feed.Delivery)

		require.ErrorIs(t, err, feed.ErrFeedLookupFailed)
		assert.Equal(t, 1, provider.hitCount("/schedule.xml"))
	})

	t.Run("should recover when a retry succeeds", func(t *testing.T) {
		provider := newFakeProvider().on("/schedule.xml",
			response{status: http.StatusTooManyRequests},
			ok(entriesXML()),
		)
		_, cfg := provider.start(t)

		events, err := newClient(cfg, nil).FetchFeed(context.Background(), "351788", feed.Delivery)

		require.NoError(t, err)
		assert.Empty(t, events)
		assert.Equal(t, 2, provider.hitCount("/schedule.xml"))
	})

	t.Run("should reject malformed lookup documents", func(t *testing.T) {
		provider := newFakeProvider().on("/schedule.xml", ok("<result><entries>"))
		_, cfg := provider.start(t)

		_, err := newClient(cfg, nil).FetchFeed(context.Background(), "351788", feed.Delivery)

		require.ErrorIs(t, err, feed.ErrFeedLookupFailed)
	})

	t.Run("should not leak the token on network errors", func(t *testing.T) {
		provider := newFakeProvider()
		server, cfg := provider.start(t)
		server.Close()

		_, err := newClient(cfg, nil).FetchFeed(context.Background(), "351788", feed.Delivery)

		require.ErrorIs(t, err, feed.ErrFeedLookupFailed)
		assert.NotContains(t, err.Error(), deliveryToken)
	})

	t.Run("should reject unknown feeds", func(t *testing.T) {
		_, cfg := newFakeProvider().start(t)

		_, err := newClient(cfg, nil).FetchFeed(context.Background(), "351788", feed.Unknown)

		require.Error(t, err)
		require.NotErrorIs(t, err, feed.ErrFeedLookupFailed)
	})
}

func TestClient_FetchFeed_CircuitBreaker(t *testing.T) {
	// Given
	provider := newFakeProvider().on("/schedule.xml", response{status: http.StatusInternalServerError})
	_, cfg := provider.start(t)
	cfg.MaxRetries = 0
	cfg.BreakerThreshold = 1
	cfg.BreakerCooldown = time.Hour
	sink := &recordingSink{}
	client := newClient(cfg, sink)

	_, err := client.FetchFeed(context.Background(), "351788", feed.Delivery)
	require.ErrorIs(t, err, feed.ErrFeedLookupFailed)

	// When
	_, err = client.FetchFeed(context.Background(), "351788", feed.Delivery)

	// Then
	require.ErrorIs(t, err, feed.ErrFeedLookupFailed)
	require.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, 1, provider.hitCount("/schedule.xml"))
	assert.Equal(t, []string{"delivery:lookup_failed", "delivery:circuit_open"}, sink.outcomes)

	t.Run("should keep the other feed closed", func(t *testing.T) {
		_, err := client.FetchFeed(context.Background(), "A-42", feed.Assembly)
		require.NotErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	})

	t.Run("should let probes bypass the open circuit", func(t *testing.T) {
		provider.on("/schedule.xml", ok(entriesXML()))

		require.NoError(t, client.Probe(context.Background(), feed.Delivery))
	})
}

func TestClient_FetchFeed_CircuitOpensMidFetch(t *testing.T) {
	// Given
	provider := newFakeProvider().
		on("/schedule.xml", ok(entriesXML("s1", "s2", "s3"))).
		on("/schedule/s1.xml", response{status: http.StatusInternalServerError}).
		on("/schedule/s2.xml", ok(scheduleXML(scheduleFixture{
			taskType:  feed.TaskTypeDelivery,
			situation: feed.SituationReturnedFromField,
			insert:    "2025-10-14 09:00:00",
		})))
	_, cfg := provider.start(t)
	cfg.MaxRetries = 0
	cfg.BreakerThreshold = 1
	cfg.BreakerCooldown = time.Hour
	sink := &recordingSink{}

	// When
	events, err := newClient(cfg, sink).FetchFeed(context.Background(), "351788", feed.Delivery)

	// Then
	require.ErrorIs(t, err, feed.ErrFeedIncomplete)
	require.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	require.NotErrorIs(t, err, feed.ErrFeedLookupFailed)
	assert.Empty(t, events)

	var incomplete *feed.IncompleteFeedError
	require.ErrorAs(t, err, &incomplete)
	assert.Len(t, incomplete.Skipped, 3)
	assert.Zero(t, provider.hitCount("/schedule/s2.xml"), "should not call the provider once the circuit is open")
	assert.Zero(t, provider.hitCount("/schedule/s3.xml"))
	assert.Equal(t, []string{"delivery:incomplete"}, sink.outcomes)
	assert.Len(t, sink.skipped, 3)
}

func TestClient_FetchFeed_Canceled(t *testing.T) {
	provider := newFakeProvider().on("/schedule.xml", ok(entriesXML("s1")))
	_, cfg := provider.start(t)
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(cfg, sink).FetchFeed(ctx, "351788", feed.Delivery)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"delivery:canceled"}, sink.outcomes)
}

func TestClient_Probe(t *testing.T) {
	t.Run("should succeed on an empty lookup", func(t *testing.T) {
		provider := newFakeProvider().on("/schedule.xml", ok(entriesXML()))
		_, cfg := provider.start(t)

		err := newClient(cfg, nil).Probe(context.Background(), feed.Assembly)

		require.NoError(t, err)
		assert.Equal(t, "0", provider.query("/schedule.xml").Get("n_pedido"))
	})

	t.Run("should fail without retrying", func(t *testing.T) {
		provider := newFakeProvider().on("/schedule.xml", response{status: http.StatusBadGateway})
		_, cfg := provider.start(t)
		cfg.MaxRetries = 3

		err := newClient(cfg, nil).Probe(context.Background(), feed.Delivery)

		var statusErr *umov.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, 1, provider.hitCount("/schedule.xml"))
	})
}
