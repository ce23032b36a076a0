// Package metrics declares the Prometheus metrics exported by the studio
// server: HTTP traffic, diffusion-engine calls, generation job lifecycle,
// video candidate sweeps, metadata store writes, and TTS runs.
//
// All metrics are registered with the default registry using promauto.
// To expose them, mount promhttp.Handler() on an HTTP mux:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
package metrics
