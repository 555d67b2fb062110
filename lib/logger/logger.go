// Package logger 是对 go.uber.org/zap 的简单封装
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Settings 存储日志的配置
type Settings struct {
	Level      string
	FileName   string
	MaxSize    int
	MaxAge     int
	MaxBackups int
	Compress   bool
}

// DefaultSettings 返回默认的日志配置
func DefaultSettings() *Settings {
	return &Settings{
		Level:      "info",
		FileName:   "./logs/minidis.log",
		MaxSize:    500,
		MaxAge:     30,
		MaxBackups: 20,
		Compress:   true,
	}
}

var sugar *zap.SugaredLogger

func init() {
	// Setup 之前先输出到 stdout，测试和工具不需要任何配置
	encodeConfig := zap.NewDevelopmentEncoderConfig()
	encodeConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encodeConfig),
		zapcore.Lock(os.Stdout),
		zapcore.InfoLevel,
	)
	sugar = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// Setup 按配置初始化日志，日志同时写入滚动文件和 stdout
func Setup(settings *Settings) error {
	level := new(zapcore.Level)
	if err := level.UnmarshalText([]byte(strings.ToLower(settings.Level))); err != nil {
		return err
	}

	writer := &lumberjack.Logger{
		Filename:   settings.FileName,
		MaxSize:    settings.MaxSize,
		MaxAge:     settings.MaxAge,
		MaxBackups: settings.MaxBackups,
		Compress:   settings.Compress,
	}
	syncer := zapcore.NewMultiWriteSyncer(zapcore.AddSync(writer), zapcore.Lock(os.Stdout))
	core := zapcore.NewCore(getEncoder(), syncer, level)

	old := sugar
	sugar = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	_ = old.Sync()
	return nil
}

func getEncoder() zapcore.Encoder {
	encodeConfig := zap.NewProductionEncoderConfig()
	encodeConfig.TimeKey = "time"
	encodeConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encodeConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encodeConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encodeConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(encodeConfig)
}

// Debug 输出 debug 级别的日志
func Debug(v ...interface{}) {
	sugar.Debug(v...)
}

// Info 输出 info 级别的日志
func Info(v ...interface{}) {
	sugar.Info(v...)
}

// Infof 按格式输出 info 级别的日志
func Infof(template string, v ...interface{}) {
	sugar.Infof(template, v...)
}

// Warn 输出 warn 级别的日志
func Warn(v ...interface{}) {
	sugar.Warn(v...)
}

// Error 输出 error 级别的日志
func Error(v ...interface{}) {
	sugar.Error(v...)
}

// Fatal 输出日志后退出进程
func Fatal(v ...interface{}) {
	sugar.Fatal(v...)
}

// Sync 刷新缓冲的日志
func Sync() {
	_ = sugar.Sync()
}
