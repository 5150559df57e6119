package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToWriter_TrimsNewlineAndUsesLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := ToWriter(zap.New(core), zapcore.WarnLevel)

	n, err := w.Write([]byte("[GIN-debug] GET /llm\r\n"))
	require.NoError(t, err)
	assert.Equal(t, len("[GIN-debug] GET /llm\r\n"), n)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "[GIN-debug] GET /llm", entry.Message)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
}

func TestToWriter_DropsBelowCoreLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	w := ToWriter(zap.New(core), zapcore.DebugLevel)

	_, err := w.Write([]byte("noise\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, logs.Len())
}

func TestToStdLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	std, err := ToStdLogger(zap.New(core), zapcore.WarnLevel)
	require.NoError(t, err)

	std.Printf("slow sql %dms", 250)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "slow sql 250ms", logs.All()[0].Message)
}

func TestBuild_DefaultsToInfoOnBadLevel(t *testing.T) {
	l, cleanup := Build(Options{Level: "nope", JSON: true})
	defer cleanup()
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

type buf struct{ strings.Builder }

func (b *buf) Sync() error { return nil }

func TestBuild_SplitsByLevelAndAddsFields(t *testing.T) {
	var out, errOut buf
	l, cleanup := Build(Options{
		Level:   "debug",
		JSON:    true,
		Service: "llm-usage-ledger",
		Env:     "test",
		Stdout:  zapcore.AddSync(&out),
		Stderr:  zapcore.AddSync(&errOut),
	})
	l.Info("usage recorded", zap.Int64("usage_id", 1))
	l.Error("ledger operation failed")
	cleanup()

	assert.Contains(t, out.String(), `"msg":"usage recorded"`)
	assert.Contains(t, out.String(), `"service":"llm-usage-ledger"`)
	assert.Contains(t, out.String(), `"env":"test"`)
	assert.NotContains(t, out.String(), "ledger operation failed")
	assert.Contains(t, errOut.String(), `"msg":"ledger operation failed"`)
}

func TestBuild_RotateWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.log")
	var out, errOut buf
	l, cleanup := Build(Options{
		Level:  "info",
		Stdout: zapcore.AddSync(&out),
		Stderr: zapcore.AddSync(&errOut),
		Rotate: FileRotate{Enable: true, Filename: path, MaxSizeMB: 1},
	})
	l.Warn("stats cache unavailable")
	cleanup()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"stats cache unavailable"`)
	assert.Contains(t, out.String(), "stats cache unavailable")
}
