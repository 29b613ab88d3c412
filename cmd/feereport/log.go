// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/decred/slog"
	"github.com/ismaelsadeeq/bitcoind-long-term-estimates-analysis/fees"
	"github.com/jrick/logrotate/rotator"
)

// logWriter implements an io.Writer that outputs to both standard error and
// the write-end pipe of an initialized log rotator. Diagnostics go to stderr
// so that stdout carries nothing but the report.
type logWriter struct{}

// Write writes the data in p to standard error and the log rotator.
func (logWriter) Write(p []byte) (n int, err error) {
	if logRotator == nil {
		return os.Stderr.Write(p)
	}
	os.Stderr.Write(p)
	return logRotator.Write(p) // not safe concurrent writes, so only one logWriter{} allowed!
}

// Loggers per subsystem. A single backend logger is created and all subsystem
// loggers created from it will write to the backend.
//
// Loggers should not be used before the log rotator has been initialized with
// a log file. This must be performed early during application startup by
// calling initLogRotator.
var (
	// logRotator is one of the logging outputs. Use initLogRotator to set it.
	// It should be closed on application shutdown.
	logRotator *rotator.Rotator

	backendLog = slog.NewBackend(logWriter{})

	// package main's Logger.
	log = fees.Disabled

	// loadLog is handed to the fees loaders.
	loadLog = fees.Disabled

	// subsystemLoggers maps each subsystem identifier to its associated
	// logger. The loggers are disabled until parseAndSetDebugLevels is
	// called.
	subsystemLoggers = map[string]fees.Logger{
		"MAIN": fees.Disabled,
		"LOAD": fees.Disabled,
	}
)

// initLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory.  It must be called before the
// package-global log rotater variables are used.
func initLogRotator(logFile string, maxRolls int) {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}
	logRotator, err = rotator.New(logFile, 32*1024, false, maxRolls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create file rotator: %v\n", err)
		os.Exit(1)
	}
}

// supportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func supportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	lm, err := fees.NewLoggerMaker(backendLog, debugLevel)
	if err != nil {
		return err
	}
	for subsysID := range lm.Levels {
		if _, exists := subsystemLoggers[subsysID]; !exists {
			return fmt.Errorf("the specified subsystem [%v] is invalid -- "+
				"supported subsystems %v", subsysID, supportedSubsystems())
		}
	}

	newLogger := func(subsysID string) fees.Logger {
		lvl, set := lm.Levels[subsysID]
		if !set {
			lvl = lm.DefaultLevel
		}
		logger := lm.NewLogger(subsysID, lvl)
		subsystemLoggers[subsysID] = logger
		return logger
	}
	log = newLogger("MAIN")
	loadLog = newLogger("LOAD")
	return nil
}
