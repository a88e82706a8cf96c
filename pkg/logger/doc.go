// Package logger provides the structured logging interface used across fmpd.
//
// It wraps zerolog behind a small Logger interface:
//   - level methods (Debug, Info, Warn, Error)
//   - WithField / WithFields / WithError for contextual fields
//   - *WithFields variants for one-off fields
//
// Console output goes to stderr through zerolog's ConsoleWriter, colourised
// only when stderr is a terminal. Setting logging.file in the configuration
// additionally appends JSON lines to that file.
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("fbid", id).Info("Photo stored")
//
// Tests use NewTestLogger to capture messages, or NewNopLogger to discard them.
package logger
