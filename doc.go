// Package antrean is the client SDK for the appointment-management backend.
// It provides the request/response pipeline every feature builds on:
//
//   - Error normalization: every failure becomes one canonical *Error with a
//     classified Kind (network / validation / auth / not found / server /
//     unknown) before it reaches callers
//   - HTTP transport with request tracing (X-Request-ID), bearer-token
//     injection, a middleware chain, optional retries, rate limiting and
//     request de-duplication
//   - Typed verb helpers (Get / Post / Put / Patch / Delete) unwrapping the
//     backend's {success, data, message} envelope
//   - A keyed stale-while-revalidate ResourceStore with a dedupe window,
//     capped fixed-interval retries, reconnect revalidation and explicit
//     mutate / optimistic-set operations
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - Safe concurrent use of a single *Client / *ResourceStore instance
//   - Callers never observe transport-native error shapes
//
// Typical usage:
//
//	client := antrean.New(
//	    antrean.WithBaseURL(cfg.API.BaseURL),
//	    antrean.WithTimeout(cfg.API.Timeout),
//	    antrean.WithTokenStore(tokens),
//	    antrean.WithDeduplication(),
//	)
//	appointments, err := antrean.Get[[]Appointment](ctx, client, "/appointments")
//
// Auth session state lives in the session package, route gating in route,
// startup configuration in config, and the typed domain services in booking.
package antrean
