package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 敏感字段 key（query / JSON body 中统一按 key 打码）
var sensitiveKeys = map[string]struct{}{
	"password": {}, "pwd": {}, "token": {}, "authorization": {},
	"secret": {}, "client_secret": {}, "access_token": {},
}

func isSensitive(k string) bool {
	_, ok := sensitiveKeys[strings.ToLower(k)]
	return ok
}

func maskQuery(kv map[string][]string) map[string][]string {
	out := make(map[string][]string, len(kv))
	for k, v := range kv {
		if isSensitive(k) {
			out[k] = []string{"****"}
		} else {
			out[k] = v
		}
	}
	return out
}

// maskBody 只处理 JSON 对象；解析失败原样截断返回
func maskBody(b []byte) string {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		if len(b) > 512 {
			b = b[:512]
		}
		return string(b)
	}
	for k := range m {
		if isSensitive(k) {
			m[k] = "****"
		}
	}
	out, _ := json.Marshal(m)
	return string(out)
}

type respWriter struct {
	gin.ResponseWriter
	status int
	size   int
}

func (w *respWriter) WriteHeader(code int) { w.status = code; w.ResponseWriter.WriteHeader(code) }
func (w *respWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = 200
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// AccessLog 请求摘要日志；debug 级别下额外记录打码后的请求体
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	const maxLoggedBody = 4 << 10
	return func(c *gin.Context) {
		start := time.Now()

		var body string
		if l.Core().Enabled(zapcore.DebugLevel) && c.Request.Body != nil &&
			strings.HasPrefix(c.ContentType(), "application/json") {
			raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLoggedBody))
			if err == nil {
				body = maskBody(raw)
				c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), c.Request.Body))
			}
		}

		w := &respWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := w.status
		if status == 0 {
			status = c.Writer.Status()
		}
		fields := []zap.Field{
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("ua", c.Request.UserAgent()),
			zap.Any("query", maskQuery(c.Request.URL.Query())),
			zap.Int("size", w.size),
		}
		if body != "" {
			fields = append(fields, zap.String("body", body))
		}
		switch {
		case len(c.Errors) > 0 && status >= 500:
			l.Error("HTTP", append(fields, zap.String("errors", c.Errors.String()))...)
		case len(c.Errors) > 0:
			l.Warn("HTTP", append(fields, zap.String("errors", c.Errors.String()))...)
		default:
			l.Info("HTTP", fields...)
		}
	}
}
