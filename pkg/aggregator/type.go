package aggregator

import "time"

// Options for AggregateAndCleanup.
type Options struct {
	// Raw readings older than this are deleted once aggregated
	Retention time.Duration
}
