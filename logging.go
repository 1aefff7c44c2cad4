package contactbook

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Log event names
const (
	// Mutation events
	EventContactAdded   = "contact_added"
	EventContactUpdated = "contact_updated"
	EventContactDeleted = "contact_deleted"

	// Bulk events
	EventContactsExported = "contacts_exported"
	EventContactsImported = "contacts_imported"

	// Backend events
	EventConsistencyError = "consistency_error"
	EventPersistenceError = "persistence_error"

	// Transport events
	EventRequestCompleted = "request_completed"
)

// LogContactAdded logs an upsert
func LogContactAdded(logger zerolog.Logger, name string) {
	logger.Debug().
		Str("event", EventContactAdded).
		Str("name", name).
		Msg("Contact added")
}

// LogContactUpdated logs a single-field update
func LogContactUpdated(logger zerolog.Logger, name, field string, found bool) {
	logger.Debug().
		Str("event", EventContactUpdated).
		Str("name", name).
		Str("field", field).
		Bool("found", found).
		Msg("Contact updated")
}

// LogContactDeleted logs a delete and whether the key existed
func LogContactDeleted(logger zerolog.Logger, name string, found bool) {
	logger.Debug().
		Str("event", EventContactDeleted).
		Str("name", name).
		Bool("found", found).
		Msg("Contact deleted")
}

// LogContactsExported logs a completed export
func LogContactsExported(logger zerolog.Logger, path string, count int) {
	logger.Info().
		Str("event", EventContactsExported).
		Str("path", path).
		Int("count", count).
		Msg("Contacts exported")
}

// LogContactsImported logs a completed import
func LogContactsImported(logger zerolog.Logger, path string, count int) {
	logger.Info().
		Str("event", EventContactsImported).
		Str("path", path).
		Int("count", count).
		Msg("Contacts imported")
}

// LogConsistencyError logs a backend result that did not match the request
func LogConsistencyError(logger zerolog.Logger, operation, name string, expected, actual int) {
	logger.Error().
		Str("event", EventConsistencyError).
		Str("operation", operation).
		Str("name", name).
		Int("expected", expected).
		Int("actual", actual).
		Msg("Backend consistency error")
}

// LogPersistenceError logs errors during persistence operations
func LogPersistenceError(logger zerolog.Logger, operation, name string, err error) {
	logger.Error().
		Str("event", EventPersistenceError).
		Str("operation", operation).
		Str("name", name).
		Err(err).
		Msg("Persistence error")
}

// LogRequestCompleted logs a served HTTP request
func LogRequestCompleted(logger zerolog.Logger, requestID, method, path string, status int, duration time.Duration) {
	logger.Info().
		Str("event", EventRequestCompleted).
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("duration", duration).
		Msg("Request completed")
}

// RepositoryLogger creates a logger enriched with backend context
func RepositoryLogger(baseLogger zerolog.Logger, backend string) zerolog.Logger {
	return baseLogger.With().
		Str("backend", backend).
		Logger()
}

// NewLogger builds the process logger. Format "console" always writes
// human-readable output, "json" never does, and "auto" picks console output
// only when w is a terminal.
func NewLogger(cfg LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := w
	if useConsole(cfg.Format, w) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Logger().
		Level(level), nil
}

func useConsole(format string, w io.Writer) bool {
	switch format {
	case LogFormatConsole:
		return true
	case LogFormatJSON:
		return false
	}
	f, ok := w.(*os.File)
	return ok && IsTerminal(f)
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
