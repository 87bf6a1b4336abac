package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the logger shared by every command. JSON lines go to a
// rotated file under logDir; warnings and errors are additionally echoed to
// stderr so CI output shows problems without tailing the log file.
func NewLogger(logDir, level string) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, "mlopsgate.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zap.InfoLevel
	}

	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.TimeKey = "ts"

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), w, lvl),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(os.Stderr), zap.WarnLevel),
	)
	return zap.New(core), nil
}
