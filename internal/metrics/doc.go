// Package metrics provides observability hooks for the document cache and
// the link validator.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so metrics cost nothing unless a real recorder is injected:
//
//	reg := prometheus.NewRegistry()
//	c := cache.New(parser, bus, cache.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
