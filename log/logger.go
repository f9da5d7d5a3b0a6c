package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.SugaredLogger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	once   sync.Once
)

// New returns the same logger all the time
func New() *zap.SugaredLogger {
	once.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		cfg.Encoding = "json"
		cfg.Level = level
		cfg.OutputPaths = []string{"stderr"}
		base, err := cfg.Build()
		if err != nil {
			panic(err)
		}

		logger = base.Sugar()
	})

	return logger
}

// SetLevel changes the level of the shared logger, e.g. "debug" or "warn"
func SetLevel(name string) error {
	return level.UnmarshalText([]byte(name))
}

// Nop returns a logger discarding everything
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
