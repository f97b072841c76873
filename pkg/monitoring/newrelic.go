package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
	LogLevel   string
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		// Return disabled app
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown gracefully shuts down the New Relic application
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.Shutdown(timeout)
}

// Custom event helpers

// RecordUserRegistered records a successful registration
func (nr *NewRelicApp) RecordUserRegistered(userID string) {
	nr.RecordCustomEvent("UserRegistered", map[string]interface{}{
		"user_id":   userID,
		"timestamp": time.Now().Unix(),
	})
}

// RecordTripCreated records trip creation
func (nr *NewRelicApp) RecordTripCreated(tripID, transportType string, seats int) {
	nr.RecordCustomEvent("TripCreated", map[string]interface{}{
		"trip_id":        tripID,
		"transport_type": transportType,
		"seats":          seats,
	})
}

// RecordTripJoined records a successful join
func (nr *NewRelicApp) RecordTripJoined(tripID, userID string, seatsLeft int) {
	nr.RecordCustomEvent("TripJoined", map[string]interface{}{
		"trip_id":    tripID,
		"user_id":    userID,
		"seats_left": seatsLeft,
	})
}

// RecordTripLeft records a member leaving a trip
func (nr *NewRelicApp) RecordTripLeft(tripID, userID string) {
	nr.RecordCustomEvent("TripLeft", map[string]interface{}{
		"trip_id": tripID,
		"user_id": userID,
	})
}

// RecordReviewSubmitted records a review submission
func (nr *NewRelicApp) RecordReviewSubmitted(reviewedUserID string, rating int) {
	nr.RecordCustomEvent("ReviewSubmitted", map[string]interface{}{
		"reviewed_user_id": reviewedUserID,
		"rating":           rating,
	})
}

// IsEnabled returns whether New Relic is enabled
func (nr *NewRelicApp) IsEnabled() bool {
	return nr.enabled
}
