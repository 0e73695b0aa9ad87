// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

const defaultTimeFormat = "2006/01/02 15:04:05"

// LevelTrace is more verbose than slog.LevelDebug. It is reserved for
// dumps of raw payloads, like query results before parsing.
const LevelTrace = slog.Level(-8)

var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
}

var (
	logLevel = new(slog.LevelVar)

	// Logger is the process-wide logger. It is never nil, so it can be
	// used from tests without prior setup.
	Logger *slog.Logger

	isDebugMode bool
)

func init() {
	Logger = slog.New(newHandler(os.Stderr, handlerOptions(logLevel)))
	slog.SetDefault(Logger)
}

// EnableDebugMode enables logging of debug messages.
func EnableDebugMode() {
	isDebugMode = true
	logLevel.Set(slog.LevelDebug)
	Debug("Enable verbose logging")
}

// EnableTraceMode enables logging of both debug and trace messages.
func EnableTraceMode() {
	isDebugMode = true
	logLevel.Set(LevelTrace)
	Debug("Enable trace logging")
}

// IsDebugMode method checks if the debug mode is enabled.
func IsDebugMode() bool {
	return isDebugMode
}

func handlerOptions(level *slog.LevelVar) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				a.Value = slog.StringValue(a.Value.Time().Format(defaultTimeFormat))
			case slog.LevelKey:
				level := a.Value.Any().(slog.Level)
				label, found := levelNames[level]
				if !found {
					label = level.String()
				}
				a.Value = slog.StringValue(label)
			}
			return a
		},
	}
}

// Trace method logs message with "trace" level.
func Trace(a ...interface{}) {
	Logger.Log(context.Background(), LevelTrace, fmt.Sprint(a...))
}

// Tracef method logs message with "trace" level and formats it.
func Tracef(format string, a ...interface{}) {
	Logger.Log(context.Background(), LevelTrace, fmt.Sprintf(format, a...))
}

// Debug method logs message with "debug" level.
func Debug(a ...interface{}) {
	Logger.Debug(fmt.Sprint(a...))
}

// Debugf method logs message with "debug" level and formats it.
func Debugf(format string, a ...interface{}) {
	Logger.Debug(fmt.Sprintf(format, a...))
}

// Info method logs message with "info" level.
func Info(a ...interface{}) {
	Logger.Info(fmt.Sprint(a...))
}

// Infof method logs message with "info" level and formats it.
func Infof(format string, a ...interface{}) {
	Logger.Info(fmt.Sprintf(format, a...))
}

// Warn method logs message with "warn" level.
func Warn(a ...interface{}) {
	Logger.Warn(fmt.Sprint(a...))
}

// Warnf method logs message with "warn" level and formats it.
func Warnf(format string, a ...interface{}) {
	Logger.Warn(fmt.Sprintf(format, a...))
}

// Error method logs message with "error" level.
func Error(a ...interface{}) {
	Logger.Error(fmt.Sprint(a...))
}

// Errorf method logs message with "error" level and formats it.
func Errorf(format string, a ...interface{}) {
	Logger.Error(fmt.Sprintf(format, a...))
}
