// Package middleware provides the HTTP middleware of the Lumina API.
//
// It includes:
//   - Structured access logging through zap, with an X-Request-ID on every response
//   - Prometheus request metrics labelled by route template
//   - gzip compression of JSON responses
//
// Blob downloads and health checks can be excluded from logging, and blob
// downloads are never compressed.
package middleware
