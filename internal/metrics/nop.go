package metrics

// NopMetrics discards all metrics.
type NopMetrics struct{}

var _ Collector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordBatch discards the batch metric.
func (n *NopMetrics) RecordBatch(_ /* durationSeconds */ float64) {}

// RecordSession discards the session metric.
func (n *NopMetrics) RecordSession(_ /* session */ string, _ /* courses */ int) {}

// AddSeated discards the seated counter.
func (n *NopMetrics) AddSeated(_ /* pool */ string, _ /* n */ int) {}

// AddUnseated discards the unseated counter.
func (n *NopMetrics) AddUnseated(_ /* n */ int) {}
