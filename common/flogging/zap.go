/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package flogging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger wraps core in a zap.Logger that records callers and attaches
// stack traces to errors.
func NewZapLogger(core zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(
		core,
		append([]zap.Option{
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		}, options...)...,
	)
}

// NewLogger creates a Logger that delegates to the sugared form of l.
func NewLogger(l *zap.Logger, options ...zap.Option) *Logger {
	return &Logger{
		s: l.WithOptions(append(options, zap.AddCallerSkip(1))...).Sugar(),
	}
}

// A Logger is the logger handed out to packages. Methods without a
// formatting suffix join their arguments with spaces.
type Logger struct{ s *zap.SugaredLogger }

func (l *Logger) Debug(args ...interface{})                     { l.s.Debug(joinArgs(args)) }
func (l *Logger) Debugf(template string, args ...interface{})   { l.s.Debugf(template, args...) }
func (l *Logger) Debugw(msg string, kvPairs ...interface{})     { l.s.Debugw(msg, kvPairs...) }
func (l *Logger) Info(args ...interface{})                      { l.s.Info(joinArgs(args)) }
func (l *Logger) Infof(template string, args ...interface{})    { l.s.Infof(template, args...) }
func (l *Logger) Infow(msg string, kvPairs ...interface{})      { l.s.Infow(msg, kvPairs...) }
func (l *Logger) Warn(args ...interface{})                      { l.s.Warn(joinArgs(args)) }
func (l *Logger) Warnf(template string, args ...interface{})    { l.s.Warnf(template, args...) }
func (l *Logger) Warnw(msg string, kvPairs ...interface{})      { l.s.Warnw(msg, kvPairs...) }
func (l *Logger) Warning(args ...interface{})                   { l.s.Warn(joinArgs(args)) }
func (l *Logger) Warningf(template string, args ...interface{}) { l.s.Warnf(template, args...) }
func (l *Logger) Error(args ...interface{})                     { l.s.Error(joinArgs(args)) }
func (l *Logger) Errorf(template string, args ...interface{})   { l.s.Errorf(template, args...) }
func (l *Logger) Errorw(msg string, kvPairs ...interface{})     { l.s.Errorw(msg, kvPairs...) }

// Named returns a child logger whose name is suffixed with name.
func (l *Logger) Named(name string) *Logger { return &Logger{s: l.s.Named(name)} }

// With returns a logger that adds the key-value pairs to every entry.
func (l *Logger) With(kvPairs ...interface{}) *Logger { return &Logger{s: l.s.With(kvPairs...)} }

func (l *Logger) Sync() error      { return l.s.Sync() }
func (l *Logger) Zap() *zap.Logger { return l.s.Desugar() }

// IsEnabledFor reports whether entries at level would be written.
func (l *Logger) IsEnabledFor(level zapcore.Level) bool {
	return l.s.Desugar().Core().Enabled(level)
}

func joinArgs(args []interface{}) string { return strings.TrimSuffix(fmt.Sprintln(args...), "\n") }
