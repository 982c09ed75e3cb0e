package bolt

import (
	"time"

	"github.com/titledger/v1/pkg/utils"
)

// bbolt存储默认配置值
// bbolt作为轻量级单文件引擎，适合小型部署和低写入量场景

// defaultFileName 默认数据库文件名
const defaultFileName = "ledger.db"

// getDefaultPath 获取默认数据库文件路径（使用路径解析工具）
// 原因：统一的数据目录便于管理和备份，确保路径解析正确
func getDefaultPath() string {
	return utils.ResolveDataPath("./data/bolt/" + defaultFileName)
}

const (
	// defaultFileMode 默认文件权限0600
	// 原因：账本数据只允许运行用户读写，避免同机其他用户访问
	defaultFileMode = 0o600

	// defaultTimeout 默认文件锁超时1秒
	// 原因：bbolt独占文件锁，超时快速失败能及时暴露双进程误启动
	defaultTimeout = time.Second

	// defaultNoSync 默认保持每次提交fsync
	// 原因：产权数据不允许因断电丢失已确认的提交
	defaultNoSync = false
)
