// Package metrics records allocation outcomes of seating runs.
package metrics

// Collector receives allocation metrics from the batch scheduler.
type Collector interface {
	// RecordBatch records a finished run and its duration in seconds.
	RecordBatch(durationSeconds float64)

	// RecordSession records one allocated exam session.
	RecordSession(session string, courses int)

	// AddSeated adds seated students drawn from the named pool ("primary" or "overflow").
	AddSeated(pool string, n int)

	// AddUnseated adds students left without a seat.
	AddUnseated(n int)
}
