package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
)

type Ilog interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	// LevelSilent drops everything except Fatal
	LevelSilent
)

var levelPrefixes = [...]string{"[DEBUG] ", "[INFO] ", "[WARN] ", "[ERROR] ", "[FATAL] "}

type Logger struct {
	level Level
	out   *stdlog.Logger
}

// New returns a logger writing to w at LevelInfo.
func New(w io.Writer) *Logger {
	return &Logger{
		level: LevelInfo,
		out:   stdlog.New(w, "", stdlog.LstdFlags|stdlog.Lmicroseconds),
	}
}

// NewLogger returns the default stderr logger. It stays silent unless raised
// with SetLevel, so command output is not interleaved with log lines.
func NewLogger() *Logger {
	l := New(os.Stderr)
	l.level = LevelSilent
	return l
}

func (l *Logger) SetLevel(level Level) {
	l.level = level
}

func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) output(level Level, s string) {
	if level < l.level && level != LevelFatal {
		return
	}
	l.out.Output(3, levelPrefixes[level]+s)
}

func (l *Logger) Debug(v ...interface{}) { l.output(LevelDebug, fmt.Sprintln(v...)) }

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.output(LevelDebug, fmt.Sprintf(format, v...))
}

func (l *Logger) Info(v ...interface{}) { l.output(LevelInfo, fmt.Sprintln(v...)) }

func (l *Logger) Infof(format string, v ...interface{}) {
	l.output(LevelInfo, fmt.Sprintf(format, v...))
}

func (l *Logger) Warn(v ...interface{}) { l.output(LevelWarn, fmt.Sprintln(v...)) }

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.output(LevelWarn, fmt.Sprintf(format, v...))
}

func (l *Logger) Error(v ...interface{}) { l.output(LevelError, fmt.Sprintln(v...)) }

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.output(LevelError, fmt.Sprintf(format, v...))
}

func (l *Logger) Fatal(v ...interface{}) {
	l.output(LevelFatal, fmt.Sprintln(v...))
	os.Exit(1)
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.output(LevelFatal, fmt.Sprintf(format, v...))
	os.Exit(1)
}
