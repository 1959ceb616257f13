package logger

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel 日志级别
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// LogConfig 日志配置，由 config.LogConfig 实现
type LogConfig interface {
	GetLevel() string
	GetOutput() string
	GetFile() string
}

// Logger 自定义日志器
type Logger struct {
	zapLogger *zap.Logger
}

// LumberjackConfig lumberjack 配置
type LumberjackConfig struct {
	Filename   string // 日志文件路径
	MaxSize    int    // 每个日志文件的最大大小（MB）
	MaxBackups int    // 保留的旧日志文件数量
	MaxAge     int    // 保留日志文件的天数
	Compress   bool   // 是否压缩旧日志文件
}

var defaultLogger *Logger

func init() {
	var err error
	defaultLogger, err = New(INFO, "stdout")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
}

// encoderConfig 统一的输出格式
func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05"))
	}
	cfg.CallerKey = "caller"
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.LevelKey = "level"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.MessageKey = "message"
	cfg.EncodeName = zapcore.FullNameEncoder
	return cfg
}

// New 创建输出到 stdout/stderr 的日志器
func New(level LogLevel, output string) (*Logger, error) {
	config := zap.NewProductionConfig()
	if level == DEBUG {
		config = zap.NewDevelopmentConfig()
	} else {
		config.EncoderConfig = encoderConfig()
	}
	config.Level = zap.NewAtomicLevelAt(zapLevelFromLogLevel(level))

	if output == "stderr" {
		config.OutputPaths = []string{"stderr"}
	} else {
		config.OutputPaths = []string{"stdout"}
	}

	zapLogger, err := config.Build(zap.AddCallerSkip(2))
	if err != nil {
		return nil, err
	}

	return &Logger{zapLogger: zapLogger}, nil
}

// NewWithLumberjackConfig 创建支持文件轮转的日志器
func NewWithLumberjackConfig(level LogLevel, config LumberjackConfig) *Logger {
	if config.MaxSize == 0 {
		config.MaxSize = 100
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 3
	}
	if config.MaxAge == 0 {
		config.MaxAge = 28
	}

	writer := &lumberjack.Logger{
		Filename:   config.Filename,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}

	encoder := zapcore.NewJSONEncoder(encoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(writer), zap.NewAtomicLevelAt(zapLevelFromLogLevel(level)))

	return &Logger{zapLogger: zap.New(core, zap.AddCallerSkip(2), zap.AddCaller())}
}

// NewNop 丢弃所有输出，测试使用
func NewNop() *Logger {
	return &Logger{zapLogger: zap.NewNop()}
}

// Init 按配置初始化默认日志器
func Init(cfg LogConfig) error {
	level := ParseLogLevel(cfg.GetLevel())

	if cfg.GetOutput() == "file" {
		SetDefaultLogger(NewWithLumberjackConfig(level, LumberjackConfig{
			Filename: cfg.GetFile(),
			Compress: true,
		}))
		return nil
	}

	l, err := New(level, cfg.GetOutput())
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	SetDefaultLogger(l)
	return nil
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.zapLogger.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.zapLogger.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.zapLogger.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.zapLogger.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.zapLogger.Fatal(fmt.Sprintf(format, args...))
}

// Sync 同步日志
func (l *Logger) Sync() {
	_ = l.zapLogger.Sync()
}

// With 添加字段
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zapLogger: l.zapLogger.With(fields...)}
}

// SetDefaultLogger 设置默认日志器
func SetDefaultLogger(l *Logger) {
	if defaultLogger != nil {
		defaultLogger.Sync()
	}
	defaultLogger = l
}

func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

func Fatal(format string, args ...interface{}) {
	defaultLogger.Fatal(format, args...)
}

func Sync() {
	defaultLogger.Sync()
}

// With 基于默认日志器附加字段。返回值直接调用方法，少一层调用栈
func With(fields ...zap.Field) *Logger {
	return &Logger{zapLogger: defaultLogger.zapLogger.With(fields...).WithOptions(zap.AddCallerSkip(-1))}
}

// ParseLogLevel 解析日志级别字符串
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

// zapLevelFromLogLevel 转换日志级别
func zapLevelFromLogLevel(level LogLevel) zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	case FATAL:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
