// Package jobs provides scheduled background tasks for the tracking service.
//
// Jobs are built on github.com/robfig/cron/v3.
//
// # Available Jobs
//
// ProviderProbeJob looks up a sentinel transaction on every provider feed and
// publishes tracking_provider_up{feed}. The probe bypasses the client's retries
// and circuit breaker, so it keeps reporting while the breaker is open.
//
// # Usage
//
//	probe := jobs.NewProviderProbeJob(umovClient, sink, "@every 1m", 10*time.Second, logger)
//	jobManager := jobs.NewJobManager(probe)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
