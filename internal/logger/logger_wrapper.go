package logger

import (
	"io"
	"os"
	"time"

	"github.com/leandrodaf/midisteno/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements contracts.Logger on top of zap.
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

// NewZapLogger creates a production JSON logger writing to stderr.
func NewZapLogger() contracts.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return &ZapLogger{logger: build(level, zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), os.Stderr), level: level}
}

// NewConsoleLogger creates a human readable logger for interactive sessions.
func NewConsoleLogger() contracts.Logger {
	return NewConsoleLoggerTo(os.Stderr)
}

// NewConsoleLoggerTo is NewConsoleLogger writing to w.
func NewConsoleLoggerTo(w io.Writer) *ZapLogger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	return &ZapLogger{logger: build(level, zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w)), level: level}
}

// NewFromZap wraps an existing zap logger, e.g. zap.NewNop() or an observer in tests.
// It starts at debug; SetLevel raises the floor above the wrapped core's own level.
func NewFromZap(l *zap.Logger) contracts.Logger {
	return &ZapLogger{logger: l.WithOptions(zap.AddCallerSkip(1)), level: zap.NewAtomicLevelAt(zapcore.DebugLevel)}
}

func build(level zap.AtomicLevel, enc zapcore.Encoder, w zapcore.WriteSyncer) *zap.Logger {
	core := zapcore.NewCore(enc, zapcore.Lock(w), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

// Info logs a message at the INFO level
func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	if z.level.Enabled(zapcore.InfoLevel) {
		z.logger.Info(msg, toZap(fields)...)
	}
}

// Error logs a message at the ERROR level
func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	if z.level.Enabled(zapcore.ErrorLevel) {
		z.logger.Error(msg, toZap(fields)...)
	}
}

// Debug logs a message at the DEBUG level
func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	if z.level.Enabled(zapcore.DebugLevel) {
		z.logger.Debug(msg, toZap(fields)...)
	}
}

// Warn logs a message at the WARN level
func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	if z.level.Enabled(zapcore.WarnLevel) {
		z.logger.Warn(msg, toZap(fields)...)
	}
}

// Fatal logs a message at the FATAL level and terminates the application
func (z *ZapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.logger.Fatal(msg, toZap(fields)...)
}

// Field returns a new instance of Field
func (z *ZapLogger) Field() contracts.Field {
	return zapField{}
}

// SetLevel sets the logging level
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level.SetLevel(zapLevel(level))
}

// SetDestination redirects output. FileLog appends JSON lines to filePath[0];
// anything else, or a file that cannot be opened, writes to stderr.
func (z *ZapLogger) SetDestination(dest contracts.LogDestination, filePath ...string) {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if dest == contracts.FileLog && len(filePath) > 0 && filePath[0] != "" {
		f, err := os.OpenFile(filePath[0], os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			z.logger = build(z.level, enc, zapcore.AddSync(f))
			return
		}
		z.logger.Error("Failed to open log file; keeping stderr", zap.String("path", filePath[0]), zap.Error(err))
	}
	z.logger = build(z.level, enc, os.Stderr)
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	return z.logger.Sync()
}

func zapLevel(level contracts.LogLevel) zapcore.Level {
	switch level {
	case contracts.DebugLevel:
		return zapcore.DebugLevel
	case contracts.WarnLevel:
		return zapcore.WarnLevel
	case contracts.ErrorLevel:
		return zapcore.ErrorLevel
	case contracts.FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZap(fields []contracts.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if zf, ok := f.(zapField); ok && zf.f.Key != "" {
			out = append(out, zf.f)
		}
	}
	return out
}

// zapField implements contracts.Field by carrying a ready zap.Field.
type zapField struct {
	f zap.Field
}

func (zapField) Bool(key string, val bool) contracts.Field {
	return zapField{zap.Bool(key, val)}
}

func (zapField) Int(key string, val int) contracts.Field {
	return zapField{zap.Int(key, val)}
}

func (zapField) Float64(key string, val float64) contracts.Field {
	return zapField{zap.Float64(key, val)}
}

func (zapField) String(key string, val string) contracts.Field {
	return zapField{zap.String(key, val)}
}

func (zapField) Strings(key string, val []string) contracts.Field {
	return zapField{zap.Strings(key, val)}
}

func (zapField) Ints(key string, val []int) contracts.Field {
	return zapField{zap.Ints(key, val)}
}

func (zapField) Time(key string, val time.Time) contracts.Field {
	return zapField{zap.Time(key, val)}
}

func (zapField) Duration(key string, val time.Duration) contracts.Field {
	return zapField{zap.Duration(key, val)}
}

func (zapField) Int64(key string, val int64) contracts.Field {
	return zapField{zap.Int64(key, val)}
}

func (zapField) Error(key string, val error) contracts.Field {
	return zapField{zap.NamedError(key, val)}
}

func (zapField) Uint64(key string, val uint64) contracts.Field {
	return zapField{zap.Uint64(key, val)}
}

func (zapField) Uint8(key string, val uint8) contracts.Field {
	return zapField{zap.Uint8(key, val)}
}
