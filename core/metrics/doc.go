// Package metrics defines the recorder interface used to observe the
// instantiation engine and the logging pipeline. Implementations live in
// infra/metrics; several recorders can be combined with NewMultiRecorder.
package metrics
