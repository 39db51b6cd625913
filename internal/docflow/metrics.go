package docflow

// Metrics receives monotonically increasing lifecycle counters.
// The engine only reports events whose transaction committed.
type Metrics interface {
	DocumentCreated()
	DocumentSigned()
	DocumentRejected()
}

// NopMetrics discards all events.
type NopMetrics struct{}

func (NopMetrics) DocumentCreated()  {}
func (NopMetrics) DocumentSigned()   {}
func (NopMetrics) DocumentRejected() {}
