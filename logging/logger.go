// Package logging provides the structured logger used across the planner: the chain builder
// reports rebuilds at Debug level, and the planner reports each run's start and outcome at Info.
// Forward kinematics, collision checks and the IK solver do not log.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper around zap.SugaredLogger. A nil *Logger is valid and every method on
// it is a no-op, so components can accept a possibly-nil logger without branching on it.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds a Logger named name that fans out to the given appenders. With no appenders,
// it writes human-readable lines to stdout.
func NewLogger(name string, appenders ...Appender) *Logger {
	if len(appenders) == 0 {
		appenders = []Appender{NewStdoutAppender()}
	}
	cores := make([]zapcore.Core, 0, len(appenders))
	for _, a := range appenders {
		cores = append(cores, &appenderCore{appender: a, level: zapcore.DebugLevel})
	}
	zl := zap.New(zapcore.NewTee(cores...)).Named(name)
	return &Logger{sugar: zl.Sugar()}
}

// NewTestLogger returns a Logger suitable for use in tests; it writes to stdout at debug level.
func NewTestLogger() *Logger {
	return NewLogger("test")
}

// Named returns a descendant logger scoped under name.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sugar: l.sugar.Named(name)}
}

// Debugw logs msg with the given alternating key/value pairs at Debug level.
func (l *Logger) Debugw(msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.sugar.Debugw(msg, kv...)
}

// Infow logs msg with the given alternating key/value pairs at Info level.
func (l *Logger) Infow(msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.sugar.Infow(msg, kv...)
}

// Warnw logs msg with the given alternating key/value pairs at Warn level.
func (l *Logger) Warnw(msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.sugar.Warnw(msg, kv...)
}

// Errorw logs msg with the given alternating key/value pairs at Error level.
func (l *Logger) Errorw(msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.sugar.Errorw(msg, kv...)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.sugar.Sync()
}

// appenderCore adapts the Appender interface (Write(zapcore.Entry, []zapcore.Field) error) to
// zapcore.Core, so an Appender can be plugged into a zap.Logger's core tee.
type appenderCore struct {
	appender Appender
	level    zapcore.Level
}

func (c *appenderCore) Enabled(lvl zapcore.Level) bool { return lvl >= c.level }

func (c *appenderCore) With(fields []zapcore.Field) zapcore.Core {
	return &appenderCoreWith{core: c, fields: fields}
}

func (c *appenderCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *appenderCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.appender.Write(entry, fields)
}

func (c *appenderCore) Sync() error { return c.appender.Sync() }

// appenderCoreWith carries fields attached via With() so they're included on every subsequent
// Write call, the same contract zapcore.Core.With promises.
type appenderCoreWith struct {
	core   *appenderCore
	fields []zapcore.Field
}

func (c *appenderCoreWith) Enabled(lvl zapcore.Level) bool { return c.core.Enabled(lvl) }

func (c *appenderCoreWith) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &appenderCoreWith{core: c.core, fields: merged}
}

func (c *appenderCoreWith) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *appenderCoreWith) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	return c.core.appender.Write(entry, all)
}

func (c *appenderCoreWith) Sync() error { return c.core.Sync() }
