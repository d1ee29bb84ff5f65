// Package infra contains the adapters behind the configurable types:
// formatters, listeners, sinks, stores and the Prometheus recorder. They
// depend on the interfaces in core and register themselves on an
// instantiate.Registry.
package infra
