package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logconfig "github.com/titledger/v1/internal/config/log"
)

// TestNew_WithFileOutput_WritesToFile 文件输出模式应把日志写入指定文件
func TestNew_WithFileOutput_WritesToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "node.log")

	logConfig := logconfig.New(&logconfig.LogOptions{
		Level:    "debug",
		FilePath: logPath,
	})

	logger, err := New(logConfig)
	require.NoError(t, err, "创建日志记录器不应失败")

	logger.Info("资产登记完成")
	logger.With("module", "deeds").Infof("资产 %d 已转移", 42)
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err, "日志文件应已创建")
	content := string(data)

	assert.Contains(t, content, "资产登记完成", "日志文件应包含消息内容")
	assert.Contains(t, content, "资产 42 已转移", "日志文件应包含格式化消息")
	assert.Contains(t, content, `"module":"deeds"`, "日志文件应包含结构化字段")
}

// TestNew_WithInvalidLevel_FallsBackToInfo 未知级别应回退到info
func TestNew_WithInvalidLevel_FallsBackToInfo(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "node.log")

	logConfig := logconfig.New(&logconfig.LogOptions{
		Level:    "verbose", // 未在级别映射中
		FilePath: logPath,
	})

	logger, err := New(logConfig)
	require.NoError(t, err)

	// debug低于info，不应写出
	logger.Debug("不应出现的调试日志")
	logger.Info("应出现的信息日志")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, "不应出现的调试日志")
	assert.Contains(t, content, "应出现的信息日志")
}

// TestWith_ReturnsIndependentLogger With返回的记录器不应影响原记录器
func TestWith_ReturnsIndependentLogger(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "node.log")

	logConfig := logconfig.New(&logconfig.LogOptions{
		Level:    "info",
		FilePath: logPath,
	})

	logger, err := New(logConfig)
	require.NoError(t, err)

	scoped := logger.With("module", "treasury")
	scoped.Info("佣金已入账")
	logger.Info("普通日志")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2, "应写出两条日志")
	assert.Contains(t, lines[0], `"module":"treasury"`)
	assert.NotContains(t, lines[1], `"module"`, "原记录器不应携带module字段")
}

// TestGlobalLogger_SetAndGet 全局日志记录器的设置与获取
func TestGlobalLogger_SetAndGet(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	logConfig := logconfig.New(&logconfig.LogOptions{
		Level:     "info",
		FilePath:  "stdout",
		ToConsole: true,
	})
	logger, err := New(logConfig)
	require.NoError(t, err)

	SetLogger(logger)
	assert.Same(t, logger, GetLogger(), "GetLogger应返回刚设置的实例")

	// nil不应覆盖现有记录器
	SetLogger(nil)
	assert.Same(t, logger, GetLogger(), "SetLogger(nil)应被忽略")
}
