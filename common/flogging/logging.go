/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package flogging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SpecEnv names the environment variable consulted when a Config carries no
// LogSpec.
const SpecEnv = "MPCSP_LOGGING_SPEC"

// Encoding selects how log records are serialized.
type Encoding int8

const (
	CONSOLE Encoding = iota
	JSON
	LOGFMT
)

// Config is used to provide dependencies to a Logging instance.
type Config struct {
	// Format is one of "console", "json" or "logfmt". The empty string
	// selects console.
	Format string

	// LogSpec determines the log levels that are enabled for the logging
	// system. The spec must be in a format that can be processed by
	// ActivateSpec.
	//
	// If LogSpec is not provided, the MPCSP_LOGGING_SPEC environment variable
	// is consulted, and failing that loggers are enabled at the INFO level.
	LogSpec string

	// Writer is the sink for encoded log records. os.Stderr when nil.
	Writer io.Writer
}

// Logging maintains the state of the logging system: the active level spec,
// the encoding and the sink every logger created from it writes to.
type Logging struct {
	*LoggerLevels

	mutex         sync.RWMutex
	encoding      Encoding
	encoderConfig zapcore.EncoderConfig
	writer        zapcore.WriteSyncer
}

// New creates a new logging system and initializes it with the provided
// configuration.
func New(c Config) (*Logging, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.NameKey = "name"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	s := &Logging{
		LoggerLevels: &LoggerLevels{
			defaultLevel: defaultLevel,
		},
		encoderConfig: encoderConfig,
	}

	if err := s.Apply(c); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply applies the provided configuration to the logging system.
func (s *Logging) Apply(c Config) error {
	if err := s.SetFormat(c.Format); err != nil {
		return err
	}

	if c.LogSpec == "" {
		c.LogSpec = os.Getenv(SpecEnv)
	}
	if c.LogSpec == "" {
		c.LogSpec = defaultLevel.String()
	}
	if err := s.LoggerLevels.ActivateSpec(c.LogSpec); err != nil {
		return err
	}

	if c.Writer == nil {
		c.Writer = os.Stderr
	}
	s.SetWriter(c.Writer)
	return nil
}

// SetFormat updates how log records are encoded. Entries created after this
// method has completed use the new encoding.
func (s *Logging) SetFormat(format string) error {
	var enc Encoding
	switch format {
	case "", "console":
		enc = CONSOLE
	case "json":
		enc = JSON
	case "logfmt":
		enc = LOGFMT
	default:
		return errors.Errorf("unsupported log format '%s'", format)
	}

	s.mutex.Lock()
	s.encoding = enc
	s.mutex.Unlock()
	return nil
}

// SetWriter controls which writer encoded log records are written to.
// Writers, with the exception of an *os.File, need to be safe for concurrent
// use by multiple go routines.
func (s *Logging) SetWriter(w io.Writer) {
	var sw zapcore.WriteSyncer
	switch t := w.(type) {
	case *os.File:
		sw = zapcore.Lock(t)
	case zapcore.WriteSyncer:
		sw = t
	default:
		sw = zapcore.AddSync(w)
	}

	s.mutex.Lock()
	s.writer = sw
	s.mutex.Unlock()
}

// Write satisfies the io.Write contract. It delegates to the writer argument
// of SetWriter or the Writer field of Config.
func (s *Logging) Write(b []byte) (int, error) {
	s.mutex.RLock()
	w := s.writer
	s.mutex.RUnlock()

	return w.Write(b)
}

// Sync satisfies the zapcore.WriteSyncer interface.
func (s *Logging) Sync() error {
	s.mutex.RLock()
	w := s.writer
	s.mutex.RUnlock()

	return w.Sync()
}

// Encoding returns the encoding the Core should use when records are written.
func (s *Logging) Encoding() Encoding {
	s.mutex.RLock()
	e := s.encoding
	s.mutex.RUnlock()
	return e
}

// ZapLogger instantiates a new zap.Logger with the specified name. The name is
// used to determine which log levels are enabled.
func (s *Logging) ZapLogger(name string) *zap.Logger {
	if !isValidLoggerName(name) {
		panic(fmt.Sprintf("invalid logger name: %s", name))
	}

	s.mutex.RLock()
	core := &Core{
		LevelEnabler: s.LoggerLevels,
		Levels:       s.LoggerLevels,
		Encoders: map[Encoding]zapcore.Encoder{
			JSON:    zapcore.NewJSONEncoder(s.encoderConfig),
			CONSOLE: zapcore.NewConsoleEncoder(s.encoderConfig),
			LOGFMT:  zaplogfmt.NewEncoder(s.encoderConfig),
		},
		Selector: s,
		Output:   s,
	}
	s.mutex.RUnlock()

	return NewZapLogger(core).Named(name)
}

// Logger instantiates a new Logger with the specified name. The name is
// used to determine which log levels are enabled.
func (s *Logging) Logger(name string) *Logger {
	return NewLogger(s.ZapLogger(name))
}
