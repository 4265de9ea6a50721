// Package metrics defines the sinks recording schedule export runs. Concrete
// sinks (Prometheus, InfluxDB, MQTT) live in infra and register themselves
// by type name; several configured sinks are combined in a MultiSink.
package metrics
