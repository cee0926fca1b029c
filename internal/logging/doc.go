// Package logging builds slog loggers for console and JSON output.
//
// The console handler prints a compact, human-oriented line with the
// component attribute hoisted into a prefix; the JSON handler emits
// machine-readable records for log shipping. Helpers mirror common
// field constructors so call sites stay terse.
package logging
