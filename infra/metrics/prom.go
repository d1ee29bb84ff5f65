// Package metrics exports instantiation and delivery counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/waterlog/core/metrics"
)

// PromRecorder records instantiations and deliveries in Prometheus metrics.
type PromRecorder struct {
	instantiations *prometheus.CounterVec
	deliveries     *prometheus.CounterVec
	failures       *prometheus.CounterVec
}

// NewPromRecorder registers the metrics on the default Prometheus registerer.
func NewPromRecorder() (*PromRecorder, error) {
	return NewPromRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromRecorderWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Metrics
// already registered by an earlier recorder are reused.
func NewPromRecorderWithRegistry(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	instantiations, err := registerCounterVec(reg, prometheus.CounterOpts{
		Name: "waterlog_instantiations_total",
		Help: "Configured types built, by type and result",
	}, []string{"type", "result"})
	if err != nil {
		return nil, err
	}
	deliveries, err := registerCounterVec(reg, prometheus.CounterOpts{
		Name: "waterlog_messages_total",
		Help: "Messages handed to listeners and sinks",
	}, []string{"log", "target"})
	if err != nil {
		return nil, err
	}
	failures, err := registerCounterVec(reg, prometheus.CounterOpts{
		Name: "waterlog_delivery_errors_total",
		Help: "Listener and sink deliveries that returned an error",
	}, []string{"log", "target"})
	if err != nil {
		return nil, err
	}
	return &PromRecorder{instantiations: instantiations, deliveries: deliveries, failures: failures}, nil
}

func registerCounterVec(reg prometheus.Registerer, opts prometheus.CounterOpts, labels []string) (*prometheus.CounterVec, error) {
	c := prometheus.NewCounterVec(opts, labels)
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

// RecordInstantiation counts one build attempt.
func (r *PromRecorder) RecordInstantiation(typeName string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.instantiations.WithLabelValues(typeName, result).Inc()
}

// RecordDelivery counts one delivery and, when err is set, one failure.
func (r *PromRecorder) RecordDelivery(log, target string, err error) {
	r.deliveries.WithLabelValues(log, target).Inc()
	if err != nil {
		r.failures.WithLabelValues(log, target).Inc()
	}
}

var _ coremetrics.Recorder = (*PromRecorder)(nil)
