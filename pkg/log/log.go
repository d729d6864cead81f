// Copyright © 2020 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package log

import (
	"fmt"
	stdlog "log"
	"os"
)

// Level controls which messages reach the logger
type Level int

const (
	// LevelTrace per-instruction CPU traces
	LevelTrace Level = iota
	// LevelDebug chip state transitions
	LevelDebug
	// LevelInfo startup and lifecycle messages
	LevelInfo
	// LevelError recoverable faults
	LevelError
)

// Logger receives every message that passes the level filter
type Logger interface {
	Log(level Level, msg string)
}

type defaultLogger struct {
	l *stdlog.Logger
}

var levelTags = map[Level]string{
	LevelTrace: "TRC",
	LevelDebug: "DBG",
	LevelInfo:  "INF",
	LevelError: "ERR",
}

func (d *defaultLogger) Log(level Level, msg string) {
	d.l.Printf("[%s] %s", levelTags[level], msg)
}

var (
	defaultLoggerImpl        = &defaultLogger{l: stdlog.New(os.Stderr, "", stdlog.LstdFlags)}
	logger            Logger = defaultLoggerImpl

	level = LevelInfo
)

// SetLogger replaces the logger implementation, nil restores the default
func SetLogger(impl Logger) {
	if impl == nil {
		logger = defaultLoggerImpl
	} else {
		logger = impl
	}
}

// SetLevel changes the minimum level that gets logged
func SetLevel(l Level) {
	level = l
}

// Enabled reports whether messages at l would be logged. Hot paths should
// check this before building a message.
func Enabled(l Level) bool {
	return l >= level
}

// TraceEnabled is the guard used around per-instruction traces
func TraceEnabled() bool {
	return Enabled(LevelTrace)
}

// Tracef logs a formatted message at trace level
func Tracef(format string, args ...interface{}) {
	logf(LevelTrace, format, args...)
}

// Debugf logs a formatted message at debug level
func Debugf(format string, args ...interface{}) {
	logf(LevelDebug, format, args...)
}

// Infof logs a formatted message at info level
func Infof(format string, args ...interface{}) {
	logf(LevelInfo, format, args...)
}

// Errorf logs a formatted message at error level
func Errorf(format string, args ...interface{}) {
	logf(LevelError, format, args...)
}

func logf(l Level, format string, args ...interface{}) {
	if !Enabled(l) {
		return
	}
	logger.Log(l, fmt.Sprintf(format, args...))
}
