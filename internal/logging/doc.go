// Package logging builds the application's slog loggers.
//
// Two output formats are supported: a compact console format that hoists the
// "component" attribute into the message prefix, and standard JSON. Loggers
// write to stderr and, when a log directory is configured, append to
// fieldbook.log inside it.
package logging
