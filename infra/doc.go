// Package infra holds the adapters of the exporter: the JPI HTTP client,
// the metrics sinks, the MQTT notifier and the zerolog logger. They depend
// on the types and interfaces declared under core.
package infra
