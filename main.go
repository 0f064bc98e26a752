package main

import (
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nixxel-company-limited/escpos-print-daemon/daemon"
	"github.com/nixxel-company-limited/escpos-print-daemon/printer"
)

func main() {
	// Initialize Viper to read from environment variables
	viper.AutomaticEnv()
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("RECONNECT_DELAY_MS", 500)

	logger := newLogger(viper.GetString("LOG_LEVEL"))
	defer logger.Sync()

	registry := printer.NewRegistry(logger)
	registry.SetSettleDelay(time.Duration(viper.GetInt("RECONNECT_DELAY_MS")) * time.Millisecond)
	defer registry.CloseAll()

	// Responses go line-by-line to stdout, so logs stay on stderr.
	d := daemon.New(registry, logger, os.Stdin, os.Stdout)
	if err := d.Run(); err != nil {
		logger.Fatal("request loop failed", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
