package testutil

import "sync/atomic"

// CountingMetrics records lifecycle counters in memory.
type CountingMetrics struct {
	created  atomic.Int64
	signed   atomic.Int64
	rejected atomic.Int64
}

func (m *CountingMetrics) DocumentCreated()  { m.created.Add(1) }
func (m *CountingMetrics) DocumentSigned()   { m.signed.Add(1) }
func (m *CountingMetrics) DocumentRejected() { m.rejected.Add(1) }

func (m *CountingMetrics) Created() int64  { return m.created.Load() }
func (m *CountingMetrics) Signed() int64   { return m.signed.Load() }
func (m *CountingMetrics) Rejected() int64 { return m.rejected.Load() }
