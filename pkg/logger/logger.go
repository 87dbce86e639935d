// Package logger 按配置初始化进程级日志器。
package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Setup 配置全局日志器。level 取 debug/info/warn/error/fatal，
// format 取 text 或 json。
func Setup(level, format string) error {
	lv, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("无效的日志级别: %s", level)
	}
	log.SetLevel(lv)
	log.SetReportTimestamp(true)
	log.SetTimeFormat(time.DateTime)
	log.SetOutput(os.Stderr)

	switch format {
	case "", "text":
		log.SetFormatter(log.TextFormatter)
	case "json":
		log.SetFormatter(log.JSONFormatter)
	default:
		return fmt.Errorf("无效的日志格式: %s", format)
	}

	// 调试级别下带上调用位置，便于定位分类丢弃的来源
	log.SetReportCaller(lv <= log.DebugLevel)
	return nil
}
