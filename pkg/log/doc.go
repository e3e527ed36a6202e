// Package log provides structured observation logging for treewatch listeners.
//
// This package defines the Logger interface and Event types for capturing what a
// listener did: lifecycle transitions, every change it was offered together with
// the decision taken, and errors. It is separate from operational logging (slog);
// observation capture is a complete machine-readable trace for debugging and
// auditing duplicate or missing handling across a cluster.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.ObservationLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.ObservationLogger, _ = log.NewFileLogger("/var/log/treewatch/listener.tlog")
//
//	// Both: use MultiLogger
//	cfg.ObservationLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at three layers:
//   - Lifecycle: listener, session and registration state (StateChangeEvent)
//   - Dispatch: per-change decisions (ChangeEvent)
//   - Feed: changes as published by a change feed (ChangeEvent)
//
// Errors at any layer use ErrorEventData.
//
// # File Format
//
// Log files use CBOR encoding with .tlog extension. The treewatch-log CLI tool
// provides viewing, filtering and statistics.
package log
