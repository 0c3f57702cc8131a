package log

import (
	"os"

	"go.uber.org/zap"
)

// Logger is shared by every package. Tests and mains may replace it.
var Logger *zap.Logger

func init() {
	cfg := zap.NewProductionConfig()
	if os.Getenv("DEBUG") == "1" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	Logger = l
}
