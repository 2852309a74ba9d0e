package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogEntry/Fields 暴露底层类型，调用方无需直接依赖 logrus。
type LogEntry = logrus.Entry
type Fields = logrus.Fields

// DefaultLogPath 默认日志文件路径。
const DefaultLogPath = "logs/tinybot.log"

var rootLogger = logrus.StandardLogger()

// Configure 设置全局日志格式与 caller 输出。
func Configure() {
	root().SetReportCaller(true)
	root().SetFormatter(PlainFormatter{})
}

// SetLevel 按名称（debug/info/warn/error）调整全局日志级别，空值保持不变。
func SetLevel(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	root().SetLevel(lvl)
	return nil
}

// SetupFile 将全局日志输出重定向到 logPath，返回文件 closer 与实际路径。
func SetupFile(logPath string) (io.Closer, string, error) {
	f, resolved, err := openLogFile(logPath)
	if err != nil {
		return nil, "", err
	}
	root().SetOutput(f)
	return f, resolved, nil
}

// SetupComponentFile 为组件创建独立 logger，输出到指定文件并附加 component 字段。
// 级别跟随全局 logger。
func SetupComponentFile(component, logPath string) (*LogEntry, io.Closer, string, error) {
	f, resolved, err := openLogFile(logPath)
	if err != nil {
		return nil, nil, "", err
	}
	l := logrus.New()
	l.SetReportCaller(true)
	l.SetFormatter(PlainFormatter{})
	l.SetLevel(root().GetLevel())
	l.SetOutput(f)

	entry := logrus.NewEntry(l)
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return entry, f, resolved, nil
}

// SetOutput 替换全局 logger 的输出，主要用于测试。
func SetOutput(w io.Writer) {
	root().SetOutput(w)
}

// Named 为指定组件创建入口，统一 component 字段。
func Named(component string) *LogEntry {
	entry := logrus.NewEntry(root())
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return entry
}

// Warnf 输出格式化 Warn 日志。
func Warnf(format string, args ...any) {
	root().Warnf(format, args...)
}

func root() *logrus.Logger {
	if rootLogger == nil {
		rootLogger = logrus.StandardLogger()
	}
	return rootLogger
}

// PlainFormatter 输出格式：caller [timestamp] [LEVEL] [component] message fields。
type PlainFormatter struct{}

// Format 实现 logrus Formatter。
func (PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry == nil {
		return []byte{}, nil
	}
	parts := make([]string, 0, 6)
	if caller := formatCaller(entry); caller != "" {
		parts = append(parts, caller)
	}
	parts = append(parts,
		fmt.Sprintf("[%s]", entry.Time.UTC().Format(time.RFC3339Nano)),
		fmt.Sprintf("[%s]", strings.ToUpper(entry.Level.String())),
	)
	if component, ok := entry.Data["component"].(string); ok && component != "" {
		parts = append(parts, fmt.Sprintf("[%s]", component))
	}
	if action, ok := entry.Data["action"].(string); ok && action != "" {
		parts = append(parts, fmt.Sprintf("[action=%s]", action))
	}
	parts = append(parts, entry.Message)
	if fields := formatFields(entry.Data); fields != "" {
		parts = append(parts, fields)
	}
	return []byte(strings.Join(parts, " ") + "\n"), nil
}

func formatCaller(entry *logrus.Entry) string {
	if entry.HasCaller() && entry.Caller != nil {
		return fmt.Sprintf("%s:%d", shortenFilePath(entry.Caller.File), entry.Caller.Line)
	}
	if caller, ok := entry.Data["caller"].(string); ok {
		return caller
	}
	return ""
}

func formatFields(fields logrus.Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		switch k {
		case "component", "caller", "action":
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

func shortenFilePath(file string) string {
	file = filepath.ToSlash(file)
	for _, marker := range []string{"/internal/", "/cmd/"} {
		if idx := strings.Index(file, marker); idx != -1 {
			return file[idx+1:]
		}
	}
	return filepath.Base(file)
}

func openLogFile(logPath string) (*os.File, string, error) {
	if logPath == "" {
		logPath = DefaultLogPath
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, "", err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, "", err
	}
	return f, logPath, nil
}
