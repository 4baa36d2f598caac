// Package metrics sends inference timings and counters to statsd.
package metrics

import (
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog/log"
)

const (
	InvokeLatency    = "invoke_latency"
	InferenceLatency = "inference_latency"
	InferenceCount   = "inference_count"
	PeopleCount      = "people_count"

	TagStatus  = "status"
	TagSuccess = "success"
	TagFailure = "failure"
)

// it is safe to use one client from multiple goroutines
var client statsd.ClientInterface = &statsd.NoOpClient{}

// Init points the package at a statsd agent. An empty address keeps the no-op client.
func Init(addr string) error {
	if addr == "" {
		client = &statsd.NoOpClient{}
		return nil
	}
	c, err := statsd.New(addr, statsd.WithNamespace("movenet."))
	if err != nil {
		return err
	}
	client = c
	log.Info().Str("addr", addr).Msg("metrics client initialized")
	return nil
}

// Close flushes and closes the client.
func Close() error {
	return client.Close()
}

// Tag formats a statsd tag.
func Tag(key, value string) string {
	return key + ":" + value
}

// Timing sends a duration.
func Timing(name string, value time.Duration, tags []string) {
	if err := client.Timing(name, value, tags, 1); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("statsd timing failed")
	}
}

// TimingWithStart can be deferred at the top of a function to time it.
func TimingWithStart(name string, start time.Time, tags []string) {
	Timing(name, time.Since(start), tags)
}

// Count increments a counter by value.
func Count(name string, value int64, tags []string) {
	if err := client.Count(name, value, tags, 1); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("statsd count failed")
	}
}

// Gauge records a value.
func Gauge(name string, value float64, tags []string) {
	if err := client.Gauge(name, value, tags, 1); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("statsd gauge failed")
	}
}
