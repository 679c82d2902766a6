package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.Mutex
	log *zap.Logger

	serviceName = "backtest"
)

// Init replaces the default logger. debug enables the development encoder
// (human-readable console output); otherwise JSON production output is used.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// SetServiceName tags all subsequent log lines with the given service name
// and returns the previous one.
func SetServiceName(name string) string {
	mu.Lock()
	defer mu.Unlock()
	old := serviceName
	serviceName = name
	return old
}

func get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		// Tests and one-off tools may log before Init.
		log, _ = zap.NewDevelopment()
	}
	return log
}

func Info(format string, args ...interface{}) {
	get().With(zap.String("service", serviceName)).Info(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	get().With(zap.String("service", serviceName)).Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	get().With(zap.String("service", serviceName)).Error(fmt.Sprintf(format, args...))
}

func Fatal(format string, args ...interface{}) {
	get().With(zap.String("service", serviceName)).Fatal(fmt.Sprintf(format, args...))
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	_ = get().Sync()
}
