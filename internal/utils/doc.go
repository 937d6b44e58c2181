// Package utils provides general-purpose helpers used across the client:
// the shared HTTP client, request ID generation, identity token claim
// parsing and a retry helper for idempotent reads.
package utils
