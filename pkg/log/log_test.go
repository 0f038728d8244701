// Copyright 2022 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testBackendName = "buffer"

var testOutput = &bytes.Buffer{}

func setup(t *testing.T) *bytes.Buffer {
	RegisterBackend(testBackendName, func() Backend { return NewFmtBackend(testOutput) })
	require.Nil(t, SetBackend(testBackendName))
	testOutput.Reset()
	SetLevel(LevelInfo)
	t.Cleanup(func() {
		require.Nil(t, SetBackend(FmtBackendName))
		SetLevel(LevelInfo)
		EnableDebug(false, "*")
	})
	return testOutput
}

func TestLevels(t *testing.T) {
	out := setup(t)
	l := Get("levels")

	l.Debug("debug message")
	l.Info("info message")
	SetLevel(LevelWarn)
	l.Info("suppressed info message")
	l.Warn("warning message")
	l.Error("error message")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "I: ")
	require.Contains(t, lines[0], "info message")
	require.Contains(t, lines[1], "W: ")
	require.Contains(t, lines[2], "E: ")
	require.NotContains(t, out.String(), "debug message")
	require.NotContains(t, out.String(), "suppressed")
}

func TestDebugToggle(t *testing.T) {
	out := setup(t)
	a := Get("source-a")
	b := Get("source-b")

	EnableDebug(true, "source-a")
	a.Debug("from a")
	b.Debug("from b")
	require.Contains(t, out.String(), "from a")
	require.NotContains(t, out.String(), "from b")

	require.True(t, a.EnableDebug(false))
	require.False(t, a.DebugEnabled())

	EnableDebug(true, "*")
	b.Debug("forced b")
	require.True(t, b.DebugEnabled())
	require.Contains(t, out.String(), "forced b")
}

func TestBlockAndSource(t *testing.T) {
	out := setup(t)
	l := NewLogger("[block]")
	require.Equal(t, "block", l.Source())
	require.Same(t, l, Get("block"))

	l.InfoBlock("  > ", "line1\nline2")
	require.Contains(t, out.String(), "  > line1")
	require.Contains(t, out.String(), "  > line2")
	require.Contains(t, Sources(), "block")
}

func TestFatalAndPanic(t *testing.T) {
	out := setup(t)
	l := Get("fatal")

	status := 0
	exit = func(code int) { status = code }
	defer func() { exit = os.Exit }()

	l.Fatal("fatal %d", 1)
	require.Equal(t, 1, status)
	require.Contains(t, out.String(), "FATAL ERROR: ")

	require.PanicsWithValue(t, "fatal: panic 2", func() { l.Panic("panic %d", 2) })
}

func TestDefaultLogger(t *testing.T) {
	out := setup(t)
	source := Default().Source()
	require.Equal(t, filepath.Base(os.Args[0]), source)

	status := 0
	exit = func(code int) { status = code }
	defer func() { exit = os.Exit }()

	Debug("hidden debug")
	Info("default info")
	EnableDebug(true, source)
	Debug("default debug")
	EnableDebug(false, source)
	Fatal("default fatal")

	output := out.String()
	require.NotContains(t, output, "hidden debug")
	require.Contains(t, output, "I: ")
	require.Contains(t, output, "default info")
	require.Contains(t, output, "D: ")
	require.Contains(t, output, "default debug")
	require.Contains(t, output, "default fatal")
	require.Equal(t, 1, status)
}

func TestParseLevel(t *testing.T) {
	for name, expected := range map[string]Level{
		"debug": LevelDebug, "INFO": LevelInfo, "warn": LevelWarn,
		"warning": LevelWarn, "error": LevelError,
	} {
		level, err := ParseLevel(name)
		require.Nil(t, err)
		require.Equal(t, expected, level)
	}
	_, err := ParseLevel("verbose")
	require.NotNil(t, err)
	require.Equal(t, "warning", LevelWarn.String())
}

func TestSetUnknownBackend(t *testing.T) {
	require.NotNil(t, SetBackend("no-such-backend"))
	require.Contains(t, Backends(), FmtBackendName)
	require.Contains(t, Backends(), KlogBackendName)
}

func TestRateLimit(t *testing.T) {
	out := setup(t)
	l := RateLimit(Get("ratelimit"), Interval(time.Hour))

	for i := 0; i < 5; i++ {
		l.Info("page %d faulted", i)
	}
	l.Warn("other kind")

	require.Equal(t, 1, strings.Count(out.String(), "faulted"))
	require.Contains(t, out.String(), "page 0 faulted")
	require.Contains(t, out.String(), "other kind")
}
