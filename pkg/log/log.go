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
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Level describes the severity of a log message.
type Level int

const (
	// LevelDebug is the severity for debug messages.
	LevelDebug Level = iota
	// LevelInfo is the severity for informational messages.
	LevelInfo
	// LevelWarn is the severity for warnings.
	LevelWarn
	// LevelError is the severity for errors.
	LevelError
	// LevelPanic is the severity for panic messages.
	LevelPanic
	// LevelFatal is the severity for fatal errors.
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warning",
	LevelError: "error",
	LevelPanic: "panic",
	LevelFatal: "fatal",
}

// Logger is the interface for producing log messages for/from a particular source.
type Logger interface {
	// Debug formats and emits a debug message.
	Debug(format string, args ...interface{})
	// Info formats and emits an informational message.
	Info(format string, args ...interface{})
	// Warn formats and emits a warning message.
	Warn(format string, args ...interface{})
	// Error formats and emits an error message.
	Error(format string, args ...interface{})
	// Panic formats and emits an error message then panics with the same.
	Panic(format string, args ...interface{})
	// Fatal formats and emits an error message and os.Exit()'s with status 1.
	Fatal(format string, args ...interface{})

	// DebugBlock formats and emits a multiline debug message.
	DebugBlock(prefix string, format string, args ...interface{})
	// InfoBlock formats and emits a multiline information message.
	InfoBlock(prefix string, format string, args ...interface{})

	// EnableDebug enables debug messages for this Logger.
	EnableDebug(bool) bool
	// DebugEnabled checks if debug messages are enabled for this Logger.
	DebugEnabled() bool

	// Source returns the source name of this Logger.
	Source() string
}

// logging is the runtime state shared by all loggers.
type logging struct {
	sync.RWMutex
	level    Level                // lowest unsuppressed severity
	debugAll bool                 // debugging forced on for all sources
	active   Backend              // active backend
	backends map[string]BackendFn // registered backends
	loggers  map[string]*logger   // loggers by source
}

type logger struct {
	source string
	debug  bool
}

var log = &logging{
	level:    LevelInfo,
	backends: make(map[string]BackendFn),
	loggers:  make(map[string]*logger),
}

// exit is swapped out by tests exercising Fatal.
var exit = os.Exit

// Get returns the Logger for source, creating it if necessary.
func Get(source string) Logger {
	source = strings.Trim(source, "[] ")

	log.Lock()
	defer log.Unlock()

	if l, ok := log.loggers[source]; ok {
		return l
	}
	l := &logger{source: source}
	log.loggers[source] = l
	log.realign()

	return l
}

// NewLogger is an alias for Get.
func NewLogger(source string) Logger {
	return Get(source)
}

// SetLevel sets the lowest severity of messages that are not suppressed.
func SetLevel(level Level) {
	log.Lock()
	defer log.Unlock()
	log.level = level
}

// ParseLevel parses the name of a severity level.
func ParseLevel(name string) (Level, error) {
	for level, n := range levelNames {
		if strings.EqualFold(n, name) {
			return level, nil
		}
	}
	if strings.EqualFold(name, "warn") {
		return LevelWarn, nil
	}
	return LevelInfo, fmt.Errorf("log: unknown level %q", name)
}

// String returns the name of the level.
func (level Level) String() string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return fmt.Sprintf("<level #%d>", int(level))
}

// EnableDebug turns debugging on or off for the given sources. The
// special source "*" turns debugging on or off globally.
func EnableDebug(state bool, sources ...string) {
	log.Lock()
	defer log.Unlock()

	for _, source := range sources {
		if source == "*" || source == "all" {
			log.debugAll = state
			continue
		}
		l, ok := log.loggers[source]
		if !ok {
			l = &logger{source: source}
			log.loggers[source] = l
		}
		l.debug = state
	}
}

// Sources returns the names of all known logger sources.
func Sources() []string {
	log.RLock()
	defer log.RUnlock()

	sources := make([]string, 0, len(log.loggers))
	for source := range log.loggers {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// Flush flushes any messages buffered by the active backend.
func Flush() {
	log.RLock()
	active := log.active
	log.RUnlock()
	if active != nil {
		active.Flush()
	}
}

func (log *logging) realign() {
	if log.active == nil {
		return
	}
	align := 0
	for source := range log.loggers {
		if len(source) > align {
			align = len(source)
		}
	}
	log.active.SetSourceAlignment(align)
}

func (l *logger) Source() string {
	return l.source
}

func (l *logger) EnableDebug(state bool) bool {
	log.Lock()
	defer log.Unlock()
	old := l.debug
	l.debug = state
	return old
}

func (l *logger) DebugEnabled() bool {
	log.RLock()
	defer log.RUnlock()
	return l.debug || log.debugAll
}

func (l *logger) Debug(format string, args ...interface{}) {
	if active, emit := l.emit(LevelDebug); emit {
		active.Log(LevelDebug, l.source, format, args...)
	}
}

func (l *logger) Info(format string, args ...interface{}) {
	if active, emit := l.emit(LevelInfo); emit {
		active.Log(LevelInfo, l.source, format, args...)
	}
}

func (l *logger) Warn(format string, args ...interface{}) {
	if active, emit := l.emit(LevelWarn); emit {
		active.Log(LevelWarn, l.source, format, args...)
	}
}

func (l *logger) Error(format string, args ...interface{}) {
	if active, emit := l.emit(LevelError); emit {
		active.Log(LevelError, l.source, format, args...)
	}
}

func (l *logger) Panic(format string, args ...interface{}) {
	active, _ := l.emit(LevelPanic)
	active.Log(LevelPanic, l.source, format, args...)
	active.Flush()

	panic(fmt.Sprintf(l.source+": "+format, args...))
}

func (l *logger) Fatal(format string, args ...interface{}) {
	active, _ := l.emit(LevelFatal)
	active.Log(LevelFatal, l.source, format, args...)
	active.Flush()

	exit(1)
}

func (l *logger) DebugBlock(prefix string, format string, args ...interface{}) {
	if active, emit := l.emit(LevelDebug); emit {
		active.Block(LevelDebug, l.source, prefix, format, args...)
	}
}

func (l *logger) InfoBlock(prefix string, format string, args ...interface{}) {
	if active, emit := l.emit(LevelInfo); emit {
		active.Block(LevelInfo, l.source, prefix, format, args...)
	}
}

// emit returns the active backend and whether a message of level should be emitted.
func (l *logger) emit(level Level) (Backend, bool) {
	log.RLock()
	defer log.RUnlock()

	active := log.active
	if level == LevelDebug {
		return active, l.debug || log.debugAll
	}
	return active, level >= log.level
}
