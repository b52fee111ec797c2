package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogBuilder is a builder for assembling structured log entries field by
// field before emitting them at the chosen level.
type LogBuilder struct {
	logger  *zap.Logger
	fields  []zap.Field
	level   zapcore.Level
	message string
}

func newBuilder(level zapcore.Level, message string) *LogBuilder {
	return &LogBuilder{
		logger:  GetLogger(),
		fields:  make([]zap.Field, 0, 12),
		level:   level,
		message: message,
	}
}

// String adds a string field
func (lb *LogBuilder) String(key, value string) *LogBuilder {
	lb.fields = append(lb.fields, zap.String(key, value))
	return lb
}

// Int adds an int field
func (lb *LogBuilder) Int(key string, value int) *LogBuilder {
	lb.fields = append(lb.fields, zap.Int(key, value))
	return lb
}

// Int64 adds an int64 field
func (lb *LogBuilder) Int64(key string, value int64) *LogBuilder {
	lb.fields = append(lb.fields, zap.Int64(key, value))
	return lb
}

// Uint adds a uint field
func (lb *LogBuilder) Uint(key string, value uint) *LogBuilder {
	lb.fields = append(lb.fields, zap.Uint(key, value))
	return lb
}

// Bool adds a bool field
func (lb *LogBuilder) Bool(key string, value bool) *LogBuilder {
	lb.fields = append(lb.fields, zap.Bool(key, value))
	return lb
}

// Float64 adds a float64 field
func (lb *LogBuilder) Float64(key string, value float64) *LogBuilder {
	lb.fields = append(lb.fields, zap.Float64(key, value))
	return lb
}

// Any adds a field of any type
func (lb *LogBuilder) Any(key string, value interface{}) *LogBuilder {
	lb.fields = append(lb.fields, zap.Any(key, value))
	return lb
}

// Duration adds a duration field
func (lb *LogBuilder) Duration(value time.Duration) *LogBuilder {
	lb.fields = append(lb.fields, zap.Duration("duration", value))
	return lb
}

// Err adds an error field when err is non-nil
func (lb *LogBuilder) Err(err error) *LogBuilder {
	if err != nil {
		lb.fields = append(lb.fields, zap.Error(err))
	}
	return lb
}

// Log emits the entry at the level the builder was created with
func (lb *LogBuilder) Log() {
	switch lb.level {
	case zapcore.DebugLevel:
		lb.logger.Debug(lb.message, lb.fields...)
	case zapcore.InfoLevel:
		lb.logger.Info(lb.message, lb.fields...)
	case zapcore.WarnLevel:
		lb.logger.Warn(lb.message, lb.fields...)
	case zapcore.ErrorLevel:
		lb.logger.Error(lb.message, lb.fields...)
	default:
		lb.logger.Info(lb.message, lb.fields...)
	}
}

// Quick constructors without context

// Info starts an INFO entry
func Info(message string) *LogBuilder {
	return newBuilder(zapcore.InfoLevel, message)
}

// Warn starts a WARN entry
func Warn(message string) *LogBuilder {
	return newBuilder(zapcore.WarnLevel, message)
}

// Error starts an ERROR entry
func Error(message string) *LogBuilder {
	return newBuilder(zapcore.ErrorLevel, message)
}

// Debug starts a DEBUG entry
func Debug(message string) *LogBuilder {
	return newBuilder(zapcore.DebugLevel, message)
}
