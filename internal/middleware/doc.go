// Package middleware provides HTTP middleware for the gallery server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
//   - gzip compression of listings via gzhttp
//
// Static files and thumbnail fetches can be left out of the access log, as
// can health checks.
package middleware
