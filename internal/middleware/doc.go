// Package middleware provides HTTP middleware for request logging (W3C
// Extended Log Format), Prometheus metrics, and gzip compression.
package middleware
