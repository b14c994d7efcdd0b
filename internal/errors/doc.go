// Package apperrors defines the application error types and maps them to
// process exit codes.
//
// Every type carrying a cause implements Unwrap, so callers inspect errors
// with errors.Is and errors.As rather than by type assertion.
package apperrors
