package logger

import (
	"fmt"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LOG_FILE_MAX_SIZE    = 20 // MB
	LOG_FILE_MAX_BACKUPS = 5
	LOG_FILE_MAX_AGE     = 14 // 天
)

// InitLogger 构建全局日志器。logFile 不为空时额外以 JSON 格式写入滚动日志文件。
func InitLogger(logLevel, logFile string) {
	lgr, err := NewLogger(logLevel, logFile)
	if err != nil {
		panic(fmt.Errorf("构建日志器失败: %w", err))
	}

	zap.ReplaceGlobals(lgr)
}

func NewLogger(logLevel, logFile string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level.SetLevel(parseLevel(logLevel))

	var opts []zap.Option
	if logFile != "" {
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    LOG_FILE_MAX_SIZE,
				MaxBackups: LOG_FILE_MAX_BACKUPS,
				MaxAge:     LOG_FILE_MAX_AGE,
				Compress:   true,
			}),
			cfg.Level,
		)

		// 控制台保持开发格式，文件只写 JSON
		opts = append(opts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore)
		}))
	}

	return cfg.Build(opts...)
}

func parseLevel(logLevel string) zapcore.Level {
	switch logLevel {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
