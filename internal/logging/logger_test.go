package logging_test

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/mikey/phish-verdict/internal/config"
	"github.com/mikey/phish-verdict/internal/logging"
)

func TestInitLogger_Level(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("logging.level", "debug")
	v.Set("logging.format", "console")

	logger, err := logging.InitLogger(config.NewFromViper(v))
	if err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level not enabled")
	}
}

func TestInitLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	v := config.NewEmptyViper()
	v.Set("logging.level", "chatty")

	logger, err := logging.InitLogger(config.NewFromViper(v))
	if err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) || !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("expected info level")
	}
}

func TestInitConsoleLogger(t *testing.T) {
	logger, err := logging.InitConsoleLogger(false, true)
	if err != nil {
		t.Fatalf("InitConsoleLogger: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("quiet console logger should not log info")
	}
}
