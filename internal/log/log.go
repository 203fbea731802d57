// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package log is the leveled key/value logger used by the wristband daemon
// and facade.
//
// Lines are formatted as:
//
//	2026-01-01T00:00:00Z [LEVEL] msg key=value ...
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a logging severity.
type Level string

// Supported levels, from most to least verbose.
const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	mu       sync.Mutex
	logger   = stdlog.New(os.Stderr, "", 0)
	minLevel = LevelInfo
	now      = time.Now
)

// ParseLevel converts a case insensitive level name to a Level.
//
// An empty string is LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "":
		return LevelInfo, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("log: unknown level %q", s)
	}
}

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	mu.Lock()
	minLevel = l
	mu.Unlock()
}

// SetOutput redirects the log lines to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger.SetOutput(w)
	mu.Unlock()
}

// Debug logs msg at LevelDebug.
func Debug(msg string, kv ...interface{}) {
	logWithLevel(LevelDebug, msg, kv...)
}

// Debugf logs a printf style message at LevelDebug.
//
// Its signature matches the DebugF hooks of the device drivers.
func Debugf(format string, args ...interface{}) {
	if !enabled(LevelDebug) {
		return
	}
	logWithLevel(LevelDebug, fmt.Sprintf(format, args...))
}

// Info logs msg at LevelInfo.
func Info(msg string, kv ...interface{}) {
	logWithLevel(LevelInfo, msg, kv...)
}

// Error logs msg at LevelError with err as the first key/value pair.
func Error(msg string, err error, kv ...interface{}) {
	extended := append([]interface{}{"err", err}, kv...)
	logWithLevel(LevelError, msg, extended...)
}

func logWithLevel(level Level, msg string, kv ...interface{}) {
	if !enabled(level) {
		return
	}
	var b strings.Builder
	b.WriteString(now().Format(time.RFC3339Nano))
	b.WriteString(" [")
	b.WriteString(string(level))
	b.WriteString("] ")
	b.WriteString(msg)
	b.WriteString(formatKVs(kv...))
	mu.Lock()
	logger.Println(b.String())
	mu.Unlock()
}

func enabled(level Level) bool {
	mu.Lock()
	defer mu.Unlock()
	switch minLevel {
	case LevelDebug:
		return true
	case LevelInfo:
		return level == LevelInfo || level == LevelError
	case LevelError:
		return level == LevelError
	default:
		return true
	}
}

// formatKVs expects key, value pairs. Non-string keys are skipped and a
// trailing odd argument is ignored.
func formatKVs(kv ...interface{}) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(fmt.Sprint(kv[i+1]))
	}
	return b.String()
}
