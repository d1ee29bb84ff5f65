package metrics

// InstantiationRecorder records the outcome of building a configured type.
type InstantiationRecorder interface {
	RecordInstantiation(typeName string, err error)
}

// DeliveryRecorder records a message handed to a listener or sink.
type DeliveryRecorder interface {
	RecordDelivery(log, target string, err error)
}

// Recorder is implemented by metrics backends.
type Recorder interface {
	InstantiationRecorder
	DeliveryRecorder
}

// NopRecorder implements Recorder with no-op methods.
type NopRecorder struct{}

func (NopRecorder) RecordInstantiation(string, error)    {}
func (NopRecorder) RecordDelivery(string, string, error) {}

// MultiRecorder fans records out to several recorders.
type MultiRecorder struct {
	Recorders []Recorder
}

// NewMultiRecorder creates a MultiRecorder with the provided recorders.
func NewMultiRecorder(recs ...Recorder) *MultiRecorder {
	return &MultiRecorder{Recorders: recs}
}

// RecordInstantiation forwards to every recorder.
func (m *MultiRecorder) RecordInstantiation(typeName string, err error) {
	for _, r := range m.Recorders {
		r.RecordInstantiation(typeName, err)
	}
}

// RecordDelivery forwards to every recorder.
func (m *MultiRecorder) RecordDelivery(log, target string, err error) {
	for _, r := range m.Recorders {
		r.RecordDelivery(log, target, err)
	}
}
