// Package sl holds small helpers for log/slog attributes.
package sl

import "log/slog"

// Err returns an "error" attribute with the error text.
//
//	log.Error("failed to create booking", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("<nil>")}
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Discard returns a logger that drops every record; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
