package utils

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger с уровнями debug/info/warn/error поверх zap
type Logger struct {
	z *zap.Logger
}

// Создаём глобальный экземпляр
var Log = NewLogger(os.Getenv("ENV"))

// NewLogger: production-энкодер для ENV=production, иначе development.
func NewLogger(env string) *Logger {
	var (
		z   *zap.Logger
		err error
	)
	if env == "production" {
		z, err = zap.NewProduction(zap.AddCallerSkip(1))
	} else {
		z, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	}
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// NewNopLogger для тестов
func NewNopLogger() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) Debug(msg string, fields ...zapcore.Field) {
	l.z.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...zapcore.Field) {
	l.z.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...zapcore.Field) {
	l.z.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...zapcore.Field) {
	l.z.Error(msg, fields...)
}

// Named возвращает дочерний логгер компонента
func (l *Logger) Named(name string) *Logger {
	return &Logger{z: l.z.Named(name)}
}

// Sync сбрасывает буферы перед выходом
func (l *Logger) Sync() {
	_ = l.z.Sync()
}
