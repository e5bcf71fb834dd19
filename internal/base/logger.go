package base

import (
	"context"
	"fmt"
	"github.com/fatih/color"
	. "github.com/half-nothing/event-logistics/internal/interfaces/global"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger 同时输出到控制台(彩色文本)与日志文件(JSON)
type Logger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	file   *os.File
}

func NewLogger() *Logger {
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)
	return &Logger{
		logger: slog.New(newConsoleHandler(os.Stdout, level)),
		level:  level,
	}
}

// NewLoggerWithWriter 只输出到指定writer, 不写日志文件
func NewLoggerWithWriter(writer io.Writer, debug bool) *Logger {
	logger := NewLogger()
	if debug {
		logger.level.Set(slog.LevelDebug)
	}
	logger.logger = slog.New(newConsoleHandler(writer, logger.level))
	return logger
}

func (l *Logger) Init(debug bool) {
	if debug {
		l.level.Set(slog.LevelDebug)
	}

	handlers := []slog.Handler{newConsoleHandler(os.Stdout, l.level)}

	if file, err := openLogFile(*LogFilePath); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "fail to open log file %s, only console output is available: %v\n", *LogFilePath, err)
	} else {
		l.file = file
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: l.level}))
	}

	l.logger = slog.New(&fanoutHandler{handlers: handlers})
	slog.SetDefault(l.logger)
}

// openLogFile 将上一次运行的日志改名归档后创建新的日志文件
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirectoryPermission); err != nil {
		return nil, err
	}
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		ext := filepath.Ext(path)
		archived := filepath.Join(filepath.Dir(path), info.ModTime().Format("2006-01-02-150405")+ext)
		_ = os.Rename(path, archived)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, DefaultFilePermissions)
}

type loggerShutdownCallback struct {
	logger *Logger
}

func (c *loggerShutdownCallback) Invoke(_ context.Context) error {
	if c.logger.file == nil {
		return nil
	}
	if err := c.logger.file.Sync(); err != nil {
		return err
	}
	return c.logger.file.Close()
}

func (l *Logger) ShutdownCallback() Callable {
	return &loggerShutdownCallback{logger: l}
}

func (l *Logger) Debug(msg string, v ...interface{}) { l.logger.Debug(msg, v...) }

func (l *Logger) DebugF(msg string, v ...interface{}) { l.logger.Debug(fmt.Sprintf(msg, v...)) }

func (l *Logger) Info(msg string, v ...interface{}) { l.logger.Info(msg, v...) }

func (l *Logger) InfoF(msg string, v ...interface{}) { l.logger.Info(fmt.Sprintf(msg, v...)) }

func (l *Logger) Warn(msg string, v ...interface{}) { l.logger.Warn(msg, v...) }

func (l *Logger) WarnF(msg string, v ...interface{}) { l.logger.Warn(fmt.Sprintf(msg, v...)) }

func (l *Logger) Error(msg string, v ...interface{}) { l.logger.Error(msg, v...) }

func (l *Logger) ErrorF(msg string, v ...interface{}) { l.logger.Error(fmt.Sprintf(msg, v...)) }

func (l *Logger) Fatal(msg string, v ...interface{}) { l.logger.Log(context.Background(), LevelFatal, msg, v...) }

func (l *Logger) FatalF(msg string, v ...interface{}) {
	l.logger.Log(context.Background(), LevelFatal, fmt.Sprintf(msg, v...))
}

const LevelFatal = slog.Level(12)

var levelColors = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgHiBlack),
	slog.LevelInfo:  color.New(color.FgGreen),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed),
	LevelFatal:      color.New(color.FgHiRed, color.Bold),
}

func levelName(level slog.Level) string {
	if level >= LevelFatal {
		return "FATAL"
	}
	return level.String()
}

type consoleHandler struct {
	writer io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
	mu     *sync.Mutex
}

func newConsoleHandler(writer io.Writer, level slog.Leveler) *consoleHandler {
	return &consoleHandler{writer: writer, level: level, mu: &sync.Mutex{}}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	builder := strings.Builder{}
	builder.WriteString(record.Time.Format(time.DateTime))
	builder.WriteString(" ")

	name := fmt.Sprintf("[%-5s]", levelName(record.Level))
	if c, ok := levelColors[record.Level]; ok {
		name = c.Sprint(name)
	}
	builder.WriteString(name)
	builder.WriteString(" ")
	builder.WriteString(record.Message)

	writeAttr := func(attr slog.Attr) {
		key := attr.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		builder.WriteString(" ")
		builder.WriteString(color.CyanString(key))
		builder.WriteString("=")
		builder.WriteString(attr.Value.String())
	}
	for _, attr := range h.attrs {
		writeAttr(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(attr)
		return true
	})
	builder.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, builder.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	next := *h
	if next.group == "" {
		next.group = name
	} else {
		next.group = next.group + "." + name
	}
	return &next
}

type fanoutHandler struct {
	handlers []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		handlers = append(handlers, handler.WithAttrs(attrs))
	}
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		handlers = append(handlers, handler.WithGroup(name))
	}
	return &fanoutHandler{handlers: handlers}
}
