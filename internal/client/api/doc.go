// Package api contains the client-side building blocks for talking to the
// Phototrail backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the feed page fetch, post/comment/like mutations, image upload, and
//     the profile lookup.
//  2. An authenticated Transport that injects the bearer token read from the
//     session manager at call time, single-flights the token refresh when a
//     request comes back 401, and replays the original request exactly once
//     with the new token.
//  3. A concrete HTTP implementation (HTTPClient) that maps JSON payloads to
//     the model types and treats any payload carrying an error field as a
//     logical failure regardless of HTTP status.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrSessionExpired.
// Application-level failures carry the server message as *ServerError.
//
// Concurrency & Contexts
//
// Transport and HTTPClient are safe for concurrent use. All operations
// accept context.Context and honor cancellation/timeouts.
package api
