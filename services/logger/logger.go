package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level định nghĩa các mức độ log
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	ErrorLevel
)

// ParseLevel đọc level từ chuỗi cấu hình, mặc định là info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger interface định nghĩa các phương thức logging
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// DefaultLogger implement Logger interface trên logrus
type DefaultLogger struct {
	entry *logrus.Logger
}

// NewDefaultLogger tạo logger JSON ghi ra stdout
func NewDefaultLogger(level Level) *DefaultLogger {
	return NewLogger(level, os.Stdout)
}

func NewLogger(level Level, out io.Writer) *DefaultLogger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(out)
	switch level {
	case DebugLevel:
		l.SetLevel(logrus.DebugLevel)
	case ErrorLevel:
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return &DefaultLogger{entry: l}
}

// Logrus exposes the underlying logger for structured fields.
func (l *DefaultLogger) Logrus() *logrus.Logger {
	return l.entry
}

// Info log thông tin
func (l *DefaultLogger) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

// Error log lỗi
func (l *DefaultLogger) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// Debug log debug
func (l *DefaultLogger) Debug(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

// LogError ghi lỗi kèm module, hàm, ngữ cảnh và dữ liệu liên quan.
// Loggers that are not logrus-backed get a flat printf line.
func LogError(l Logger, moduleName, funcName, context string, data any, err error) {
	if err == nil {
		return
	}
	dl, ok := l.(*DefaultLogger)
	if !ok {
		l.Error("[%s.%s] %s: %v (data=%v)", moduleName, funcName, context, err, data)
		return
	}
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	dl.entry.WithFields(fields).Error(err.Error())
}

// Nop discards everything; handy in tests.
type Nop struct{}

func (Nop) Info(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}
func (Nop) Debug(string, ...interface{}) {}
