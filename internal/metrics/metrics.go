package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"docflow/internal/docflow"
)

// Prometheus exposes the engine's lifecycle counters.
type Prometheus struct {
	registry *prometheus.Registry
	created  prometheus.Counter
	signed   prometheus.Counter
	rejected prometheus.Counter
}

var _ docflow.Metrics = (*Prometheus)(nil)

// NewPrometheus registers the docflow counters on a fresh registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docflow",
			Name:      "documents_created_total",
			Help:      "Documents created by upload.",
		}),
		signed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docflow",
			Name:      "documents_signed_total",
			Help:      "Documents signed by both parties.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docflow",
			Name:      "documents_rejected_total",
			Help:      "Documents rejected.",
		}),
	}
	p.registry.MustRegister(p.created, p.signed, p.rejected)
	return p
}

func (p *Prometheus) DocumentCreated()  { p.created.Inc() }
func (p *Prometheus) DocumentSigned()   { p.signed.Inc() }
func (p *Prometheus) DocumentRejected() { p.rejected.Inc() }

// Registry returns the registry holding the counters, for serving or gathering.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// WriteTextfile writes the counters in the node-exporter textfile format.
func (p *Prometheus) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
