// Package metrics holds the Prometheus collectors for dataset imports and exports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DocumentsImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "doclabel", Name: "documents_imported_total", Help: "Number of documents stored by uploads, by file format."},
		[]string{"format"},
	)
	ImportFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "doclabel", Name: "import_failures_total", Help: "Number of uploads that stored nothing because of an error, by file format."},
		[]string{"format"},
	)
	Exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "doclabel", Name: "exports_total", Help: "Number of dataset downloads served, by export format."},
		[]string{"format"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(DocumentsImported)
	reg.MustRegister(ImportFailures)
	reg.MustRegister(Exports)
}
