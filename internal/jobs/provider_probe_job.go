package jobs

import (
	"context"
	"log/slog"
	"time"

	"tracking/internal/core/domain/model/feed"
	"tracking/internal/core/ports"
	"tracking/internal/metrics"

	"github.com/robfig/cron/v3"
)

// ProviderProbeJob periodically checks that each provider feed answers and
// reports the result as the provider_up gauge.
type ProviderProbeJob struct {
	probe   ports.ProviderProbe
	sink    metrics.Sink
	spec    string
	timeout time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewProviderProbeJob creates a probe job running on the cron spec, which
// accepts an optional seconds field and descriptors such as "@every 1m".
// Each probe is bounded by timeout.
func NewProviderProbeJob(
	probe ports.ProviderProbe,
	sink metrics.Sink,
	spec string,
	timeout time.Duration,
	logger *slog.Logger,
) *ProviderProbeJob {
	return &ProviderProbeJob{
		probe:   probe,
		sink:    sink,
		spec:    spec,
		timeout: timeout,
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
		logger:  logger.With("component", "provider_probe_job"),
	}
}

// Start schedules the probe. Returns an error for an invalid spec.
func (j *ProviderProbeJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Provider probe job started", "schedule", j.spec)
	return nil
}

// RunOnce probes every feed once.
func (j *ProviderProbeJob) RunOnce(ctx context.Context) {
	for _, kind := range feed.Kinds() {
		j.probeFeed(ctx, kind)
	}
}

func (j *ProviderProbeJob) probeFeed(ctx context.Context, kind feed.Kind) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	err := j.probe.Probe(ctx, kind)
	j.sink.ProviderUp(kind.String(), err == nil)
	if err != nil {
		j.logger.WarnContext(ctx, "Provider probe failed", "feed", kind.String(), "error", err)
	}
}

// Stop stops the schedule and waits for a running probe to finish.
func (j *ProviderProbeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Provider probe job stopped")
}
