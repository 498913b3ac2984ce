package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/any-hub/pathdoc/internal/backend"
	"github.com/any-hub/pathdoc/internal/config"
)

// InitLogger 根据全局配置初始化 JSON 结构化日志。
// 相对的 LogFilePath 放在 env 的控制台日志根目录下；env 为 nil 时相对当前目录。
func InitLogger(cfg config.GlobalConfig, env backend.Environment) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("无法解析日志级别: %w", err)
	}

	target := LogFilePath(cfg, env)
	output, outErr := buildOutput(cfg, target)
	if outErr != nil {
		fmt.Fprintf(os.Stderr, "logger_fallback: %v\n", outErr)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(output)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})

	logrus.SetFormatter(logger.Formatter)
	logrus.SetOutput(logger.Out)
	logrus.SetLevel(logger.GetLevel())

	if outErr != nil {
		logger.WithFields(logrus.Fields{
			"action": "logger_fallback",
			"path":   target,
		}).Warn(outErr.Error())
	}

	return logger, nil
}

// LogFilePath 返回日志文件的最终位置，空字符串表示输出到 stdout。
func LogFilePath(cfg config.GlobalConfig, env backend.Environment) string {
	if cfg.LogFilePath == "" || filepath.IsAbs(cfg.LogFilePath) || env == nil {
		return cfg.LogFilePath
	}
	root := env.Root(backend.ConsoleLog)
	if root == "" {
		return cfg.LogFilePath
	}
	return filepath.Join(root, cfg.LogFilePath)
}

// buildOutput 创建日志输出 Writer；失败时降级到 stdout 并返回错误。
func buildOutput(cfg config.GlobalConfig, path string) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return os.Stdout, fmt.Errorf("创建日志目录失败: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		Compress:   cfg.LogCompress,
		LocalTime:  true,
	}, nil
}
