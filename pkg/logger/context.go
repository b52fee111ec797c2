package logger

import (
	"context"

	"github.com/streampulse/account-service/pkg/ctxutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Context-aware builder constructors. They pre-populate the entry with
// whatever request metadata is present on the context so call sites only
// add their own fields.

func withContext(ctx context.Context, level zapcore.Level, message string) *LogBuilder {
	lb := newBuilder(level, message)
	if ctx == nil {
		return lb
	}

	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		lb.fields = append(lb.fields, zap.String("request_id", requestID))
	}
	if clientIP := ctxutil.GetClientIP(ctx); clientIP != "" {
		lb.fields = append(lb.fields, zap.String("client_ip", clientIP))
	}
	if userID, ok := ctxutil.GetUserID(ctx); ok {
		lb.fields = append(lb.fields, zap.Uint("user_id", userID))
	}
	if module := ctxutil.GetModule(ctx); module != "" {
		lb.fields = append(lb.fields, zap.String("module", module))
	}
	if function := ctxutil.GetFunction(ctx); function != "" {
		lb.fields = append(lb.fields, zap.String("function", function))
	}

	return lb
}

// InfoWithContext starts an INFO entry seeded from ctx
func InfoWithContext(ctx context.Context, message string) *LogBuilder {
	return withContext(ctx, zapcore.InfoLevel, message)
}

// WarnWithContext starts a WARN entry seeded from ctx
func WarnWithContext(ctx context.Context, message string) *LogBuilder {
	return withContext(ctx, zapcore.WarnLevel, message)
}

// ErrorWithContext starts an ERROR entry seeded from ctx
func ErrorWithContext(ctx context.Context, message string) *LogBuilder {
	return withContext(ctx, zapcore.ErrorLevel, message)
}

// DebugWithContext starts a DEBUG entry seeded from ctx
func DebugWithContext(ctx context.Context, message string) *LogBuilder {
	return withContext(ctx, zapcore.DebugLevel, message)
}
