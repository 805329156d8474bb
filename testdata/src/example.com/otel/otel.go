// Package otel stands in for the OpenTelemetry API in analyzer tests.
package otel

type Provider string

func Tracer(name string) Provider {
	return Provider(name)
}
