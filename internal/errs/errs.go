// Package errs defines the error shapes the API returns to clients.
//
// Every failed request ends up as an HTTPError serialized to JSON, so the
// dashboard frontend can rely on one consistent structure (code, message,
// status, optional field errors and an optional action hint).
package errs
