// Package logging builds the slog loggers used by the sightline command.
package logging
