package action

import (
	"io"
	"strings"
	"sync"
	"time"

	"tinybot/internal/logger"
	"tinybot/internal/message"
)

// DefaultActionLogPath 动作调用日志的默认路径。
const DefaultActionLogPath = "logs/actions.log"

var (
	actionLog           = logger.Named("action")
	actionLogConfigured bool
	actionLogMu         sync.Mutex
	actionLogCloser     io.Closer
	actionLogPath       string
)

// SetupActionLog 将动作调用日志写入独立文件，返回 closer 及实际路径。
// logPath 为空时使用 DefaultActionLogPath；多次调用只有首次成功的调用生效。
func SetupActionLog(logPath string) (io.Closer, string, error) {
	actionLogMu.Lock()
	defer actionLogMu.Unlock()

	if actionLogConfigured {
		return actionLogCloser, actionLogPath, nil
	}
	if logPath == "" {
		logPath = DefaultActionLogPath
	}

	entry, closer, resolved, err := logger.SetupComponentFile("action", logPath)
	if err != nil {
		// 失败不记为已配置，后续调用可以重试
		return nil, logPath, err
	}
	actionLogConfigured = true
	actionLogPath = resolved
	actionLog = entry
	actionLogCloser = closer
	return closer, resolved, nil
}

// CloseActionLog 关闭动作日志文件（如已初始化）。
func CloseActionLog() {
	actionLogMu.Lock()
	defer actionLogMu.Unlock()
	if actionLogCloser != nil {
		_ = actionLogCloser.Close()
		actionLogCloser = nil
	}
}

func currentActionLog() *logger.LogEntry {
	actionLogMu.Lock()
	defer actionLogMu.Unlock()
	return actionLog
}

func registryLog() *logger.LogEntry {
	return logger.Named("registry")
}

func logActionCall(h Handler, req *message.Request) {
	currentActionLog().WithFields(logger.Fields{
		"action":     h.Name(),
		"kind":       Kind(h),
		"request_id": requestID(req),
	}).Debug("action_call")
}

func logActionResult(h Handler, req *message.Request, resp *message.Response, err error, elapsed time.Duration) {
	fields := logger.Fields{
		"action":      h.Name(),
		"request_id":  requestID(req),
		"duration_ms": elapsed.Milliseconds(),
		"responded":   resp != nil,
	}
	entry := currentActionLog().WithFields(fields)
	if err != nil {
		entry.WithField("error", sanitize(err.Error())).Warn("action_result")
		return
	}
	entry.Debug("action_result")
}

func requestID(req *message.Request) string {
	if req == nil {
		return "-"
	}
	return req.ID
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
