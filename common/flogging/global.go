/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package flogging

import (
	"go.uber.org/zap/zapcore"
)

const defaultLevel = zapcore.InfoLevel

// Global is the logging system every MustGetLogger logger is bound to.
var Global *Logging

func init() {
	logging, err := New(Config{})
	if err != nil {
		panic(err)
	}
	Global = logging
}

// Init initializes logging with the provided config.
func Init(config Config) {
	if err := Global.Apply(config); err != nil {
		panic(err)
	}
}

// Reset sets logging to the defaults defined in this package.
func Reset() {
	Global.Apply(Config{})
}

// LoggerLevel gets the current logging level for the logger name.
func LoggerLevel(loggerName string) string {
	return Global.Level(loggerName).String()
}

// MustGetLogger creates a logger with the specified name. If an invalid name
// is provided, the operation will panic.
func MustGetLogger(loggerName string) *Logger {
	return Global.Logger(loggerName)
}

// ActivateSpec is used to activate a logging specification.
func ActivateSpec(spec string) {
	if err := Global.ActivateSpec(spec); err != nil {
		panic(err)
	}
}
