package cmd

import (
	"os"

	"go.uber.org/zap"

	"github.com/haierkeys/fast-drive-service/pkg/logger"
)

// bootstrapLogger logs to the console until the configured logger exists.
// 启动阶段日志器，DEBUG 环境变量非空时输出 debug 级别
var bootstrapLogger *zap.Logger

func init() {
	level := "info"
	if os.Getenv("DEBUG") != "" {
		level = "debug"
	}
	lg, err := logger.NewLogger(logger.Config{Level: level})
	if err != nil {
		lg = zap.NewExample()
	}
	bootstrapLogger = lg
}

// BootstrapLogger 获取启动阶段日志器
func BootstrapLogger() *zap.Logger {
	return bootstrapLogger
}
