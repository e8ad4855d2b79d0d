package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *zap.Logger
	Logger *zap.SugaredLogger
)

// Options configures the process logger.
type Options struct {
	// AppName is written in every entry as "logName"
	AppName string
	// Level is a zap level name (debug, info, warn, error). Empty means info.
	Level string
}

func init() {
	Init(Options{AppName: os.Getenv("APPLICATION_NAME")})
}

// Init builds the JSON stdout logger used by the package helpers.
func Init(opts Options) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.MessageKey = "msg"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.CallerKey = "logger_name"

	level := zap.InfoLevel
	if opts.Level != "" {
		if parsed, err := zapcore.ParseLevel(opts.Level); err == nil {
			level = parsed
		}
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	Replace(zap.New(core,
		zap.Fields(zap.String("logName", opts.AppName)),
		zap.AddCaller(),
		zap.AddCallerSkip(1)))
}

// Replace swaps the process logger and returns a function restoring the previous one.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	defer mu.Unlock()

	previous := logger
	logger = l
	Logger = l.Sugar()

	return func() {
		if previous != nil {
			Replace(previous)
		}
	}
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func sugared() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return Logger
}

// Sync flushes buffered entries.
func Sync() {
	_ = current().Sync()
}

// Info logs a message at InfoLevel with the given fields.
func Info(message string, fields ...zap.Field) {
	current().Info(message, fields...)
}

// Infow logs a message with additional key-value context.
func Infow(message string, keysAndValues ...interface{}) {
	sugared().Infow(message, keysAndValues...)
}

// Infof formats the message and logs it at InfoLevel.
func Infof(message string, args ...interface{}) {
	sugared().Infof(message, args...)
}

// Debug logs a message at DebugLevel with the given fields.
func Debug(message string, fields ...zap.Field) {
	current().Debug(message, fields...)
}

func Debugw(message string, keysAndValues ...interface{}) {
	sugared().Debugw(message, keysAndValues...)
}

func Debugf(message string, args ...interface{}) {
	sugared().Debugf(message, args...)
}

// Warn logs a message at WarnLevel with the given fields.
func Warn(message string, fields ...zap.Field) {
	current().Warn(message, fields...)
}

// Error logs a message at ErrorLevel with the given fields.
func Error(message string, fields ...zap.Field) {
	current().Error(message, fields...)
}

// Errorw logs a message with additional key-value context at ErrorLevel.
func Errorw(message string, keysAndValues ...interface{}) {
	sugared().Errorw(message, keysAndValues...)
}

// Errorf formats the message and logs it at ErrorLevel.
func Errorf(message string, args ...interface{}) {
	sugared().Errorf(message, args...)
}

// Fatal logs a message at FatalLevel, then calls os.Exit.
func Fatal(message string, fields ...zap.Field) {
	current().Fatal(message, fields...)
}

// Fatalf formats the message and calls os.Exit.
func Fatalf(message string, args ...interface{}) {
	sugared().Fatalf(message, args...)
}
