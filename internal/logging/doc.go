// Package logging builds the slog loggers used across mediadock.
//
// New and NewFromConfig select a console (key=value) or JSON handler and fan
// records out to stdout and the daemon log file. WithRequestID and WithUser
// put correlation data on a request context; WithContext turns it back into
// logger fields. Warnings and errors that an operator may act on go through
// WarnWithContext and ErrorWithContext so they always carry event_type and
// error_hint.
package logging
