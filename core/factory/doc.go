// Package factory provides a small generic registry used to build pluggable
// modules, such as metrics sinks, from their `type` and `conf` configuration.
package factory
