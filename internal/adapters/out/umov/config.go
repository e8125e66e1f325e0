// Package umov implements the provider feed client over the uMov XML API.
//
// A feed fetch walks four endpoints per transaction:
//
//	{base}/{token}/schedule.xml?{lookup}={transaction}        schedule ids
//	{base}/{token}/schedule/{id}.xml                         schedule record
//	{base}/{token}/activityHistory.xml?...&schedule={id}     activity history ids
//	{base}/{token}/activityHistory/{id}.xml                  activity record
//
// The delivery and assembly feeds differ only by token and lookup parameter.
package umov

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tracking/internal/core/domain/model/feed"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"
)

const (
	DefaultBaseURL     = "https://api.umov.me/CenterWeb/api"
	DefaultWindowStart = "2025-01-01 08:00:00"
	DefaultWindowEnd   = "2035-12-31 23:59:59"
)

// FeedConfig holds the per-feed credentials and schedule lookup parameter.
type FeedConfig struct {
	Token       string
	LookupParam string
}

// customField returns the schedule custom field carrying the lookup value.
// The provider doubles underscores in custom field element names.
func (f FeedConfig) customField() string {
	return strings.ReplaceAll(f.LookupParam, "_", "__")
}

// Config configures the provider client.
type Config struct {
	BaseURL  string
	Delivery FeedConfig
	Assembly FeedConfig

	// WindowStart and WindowEnd bound the activity history search, in the
	// provider's "YYYY-MM-DD HH:MM:SS" layout.
	WindowStart string
	WindowEnd   string

	// RequestTimeout bounds every single provider call.
	RequestTimeout time.Duration

	// MaxRetries is the number of extra attempts for transient failures.
	MaxRetries    int
	RetryMinDelay time.Duration
	RetryMaxDelay time.Duration

	// BreakerThreshold consecutive failures open the feed's circuit for
	// BreakerCooldown. Zero disables the breaker.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// DefaultConfig returns a Config with every default filled in except tokens.
func DefaultConfig() Config {
	return Config{
		BaseURL:          DefaultBaseURL,
		Delivery:         FeedConfig{LookupParam: "transacao"},
		Assembly:         FeedConfig{LookupParam: "n_pedido"},
		WindowStart:      DefaultWindowStart,
		WindowEnd:        DefaultWindowEnd,
		RequestTimeout:   10 * time.Second,
		MaxRetries:       2,
		RetryMinDelay:    200 * time.Millisecond,
		RetryMaxDelay:    2 * time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

// Validate checks the configuration and joins every problem found.
func (c Config) Validate() error {
	var errList []error

	if strings.TrimSpace(c.BaseURL) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("umov base url"))
	}
	for _, kind := range feed.Kinds() {
		fc := c.feed(kind)
		if fc.Token == "" {
			errList = append(errList, errs.NewValueIsRequiredError(fmt.Sprintf("umov %s token", kind)))
		}
		if fc.LookupParam == "" {
			errList = append(errList, errs.NewValueIsRequiredError(fmt.Sprintf("umov %s lookup param", kind)))
		}
	}

	start, err := kernel.ParseProviderTimestamp(c.WindowStart)
	if err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("umov history window start", err))
	}
	end, err := kernel.ParseProviderTimestamp(c.WindowEnd)
	if err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("umov history window end", err))
	}
	if start.IsValid() && end.IsValid() && end.Before(start) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("umov history window",
			fmt.Errorf("end %s is before start %s", c.WindowEnd, c.WindowStart)))
	}

	if c.RequestTimeout <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("umov request timeout", c.RequestTimeout, "1ns", "-"))
	}
	if c.MaxRetries < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("umov max retries", c.MaxRetries, 0, "-"))
	}

	return errors.Join(errList...)
}

func (c Config) feed(kind feed.Kind) FeedConfig {
	switch kind {
	case feed.Delivery:
		return c.Delivery
	case feed.Assembly:
		return c.Assembly
	default:
		return FeedConfig{}
	}
}
