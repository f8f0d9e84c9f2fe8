/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package flogging_test

import (
	"testing"

	"github.com/hyperledger/fabric-mpcsp/common/flogging"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLoggerLevelsActivateSpec(t *testing.T) {
	var tests = []struct {
		spec                 string
		expectedLevels       map[string]zapcore.Level
		expectedDefaultLevel zapcore.Level
	}{
		{
			spec:                 "DEBUG",
			expectedLevels:       map[string]zapcore.Level{},
			expectedDefaultLevel: zapcore.DebugLevel,
		},
		{
			spec: "csp,mp=info:debug",
			expectedLevels: map[string]zapcore.Level{
				"csp":    zapcore.InfoLevel,
				"mp":     zapcore.InfoLevel,
				"mp.sub": zapcore.InfoLevel,
				"other":  zapcore.DebugLevel,
			},
			expectedDefaultLevel: zapcore.DebugLevel,
		},
		{
			spec: "csp.=warning:csp.sw=error:fatal",
			expectedLevels: map[string]zapcore.Level{
				"csp":        zapcore.WarnLevel,
				"csp.sw":     zapcore.ErrorLevel,
				"csp.sw.rng": zapcore.ErrorLevel,
				"csp.other":  zapcore.FatalLevel,
			},
			expectedDefaultLevel: zapcore.FatalLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.spec, func(t *testing.T) {
			ll := &flogging.LoggerLevels{}

			err := ll.ActivateSpec(tc.spec)
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedDefaultLevel, ll.DefaultLevel())
			for name, lvl := range tc.expectedLevels {
				assert.Equal(t, lvl, ll.Level(name), name)
			}
		})
	}
}

func TestLoggerLevelsActivateSpecErrors(t *testing.T) {
	var tests = []struct {
		spec string
		err  string
	}{
		{spec: "=INFO", err: "invalid logging specification '=INFO': no logger specified in segment '=INFO'"},
		{spec: "csp=foo", err: "invalid logging specification 'csp=foo': bad segment 'csp=foo'"},
		{spec: "bogus", err: "invalid logging specification 'bogus': bad segment 'bogus'"},
		{spec: "a.b=info:a=broken:c=warn", err: "invalid logging specification 'a.b=info:a=broken:c=warn': bad segment 'a=broken'"},
		{spec: "a*=info", err: "invalid logging specification 'a*=info': bad logger name 'a*'"},
	}
	for _, tc := range tests {
		t.Run(tc.spec, func(t *testing.T) {
			ll := &flogging.LoggerLevels{}
			assert.NoError(t, ll.ActivateSpec("fatal:a=warn"))

			err := ll.ActivateSpec(tc.spec)
			assert.EqualError(t, err, tc.err)

			assert.Equal(t, "a=warn:fatal", ll.Spec(), "spec should not change")
		})
	}
}

func TestEnabled(t *testing.T) {
	ll := &flogging.LoggerLevels{}
	assert.NoError(t, ll.ActivateSpec("mp=debug:warn"))
	assert.True(t, ll.Enabled(zapcore.DebugLevel))

	assert.NoError(t, ll.ActivateSpec("error"))
	assert.False(t, ll.Enabled(zapcore.WarnLevel))
	assert.True(t, ll.Enabled(zapcore.ErrorLevel))
}

func TestNameToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, flogging.NameToLevel("WARNING"))
	assert.Equal(t, zapcore.ErrorLevel, flogging.NameToLevel("critical"))
	assert.Equal(t, zapcore.InfoLevel, flogging.NameToLevel("unknown"))
	assert.True(t, flogging.IsValidLevel("dpanic"))
	assert.False(t, flogging.IsValidLevel("loud"))
}
