// Package logger sets up the JSON slog logger and carries request-scoped
// loggers, tagged with the request id, through context.Context.
package logger
