package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type FileRotate struct {
	Enable     bool   // 是否启用文件写入 + 切割
	Filename   string // 日志文件路径，默认 logs/ledger.log
	MaxSizeMB  int    // 单个文件最大 MB
	MaxBackups int    // 保留旧文件个数
	MaxAgeDays int    // 保留天数
	Compress   bool   // 是否压缩旧日志
}

type Options struct {
	Level       string // debug / info / warn / error，解析失败按 info
	JSON        bool
	AddCaller   bool
	Development bool
	Service     string // 非空时每条日志带 service 字段
	Env         string
	Rotate      FileRotate

	// 测试用：替换 stdout / stderr
	Stdout zapcore.WriteSyncer
	Stderr zapcore.WriteSyncer
}

// Build 控制台按级别分流：error 及以上写 stderr，其余写 stdout；Rotate.Enable 时全部级别再写一份文件
func Build(opt Options) (*zap.Logger, func()) {
	lvl, err := zapcore.ParseLevel(opt.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	enc := encoder(opt.JSON)
	stdout, stderr := opt.Stdout, opt.Stderr
	if stdout == nil {
		stdout = zapcore.Lock(os.Stdout)
	}
	if stderr == nil {
		stderr = zapcore.Lock(os.Stderr)
	}

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= lvl && l < zapcore.ErrorLevel })
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l >= lvl && l >= zapcore.ErrorLevel })
	cores := []zapcore.Core{
		zapcore.NewCore(enc, stdout, low),
		zapcore.NewCore(enc, stderr, high),
	}

	var rotator *lumberjack.Logger
	if opt.Rotate.Enable {
		name := opt.Rotate.Filename
		if name == "" {
			name = "logs/ledger.log"
		}
		rotator = &lumberjack.Logger{
			Filename:   name,
			MaxSize:    max(1, opt.Rotate.MaxSizeMB),
			MaxBackups: max(0, opt.Rotate.MaxBackups),
			MaxAge:     max(0, opt.Rotate.MaxAgeDays),
			Compress:   opt.Rotate.Compress,
		}
		// 文件统一用 JSON，方便采集
		cores = append(cores, zapcore.NewCore(encoder(true), zapcore.AddSync(rotator), lvl))
	}

	// 每秒同一条消息前 100 条全记，之后每 100 条记 1 条
	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if opt.AddCaller {
		opts = append(opts, zap.AddCaller())
	}
	if opt.Development {
		opts = append(opts, zap.Development())
	}
	var fields []zap.Field
	if opt.Service != "" {
		fields = append(fields, zap.String("service", opt.Service))
	}
	if opt.Env != "" {
		fields = append(fields, zap.String("env", opt.Env))
	}
	if len(fields) > 0 {
		opts = append(opts, zap.Fields(fields...))
	}

	l := zap.New(core, opts...)
	cleanup := func() {
		_ = l.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
	return l, cleanup
}

func encoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

type zapIOWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w *zapIOWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	if ce := w.l.Check(w.level, msg); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// ToWriter 给 gin.DefaultWriter 之类只认 io.Writer 的地方用
func ToWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	return &zapIOWriter{l: l, level: level}
}

// ToStdLogger gorm 的日志接口要 *log.Logger
func ToStdLogger(l *zap.Logger, level zapcore.Level) (*log.Logger, error) {
	return zap.NewStdLogAt(l, level)
}

// RedirectStdLog 标准库 log 输出转到 zap，返回恢复函数
func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
