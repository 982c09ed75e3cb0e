package validators

import (
	"github.com/titledger/v1/pkg/types"
)

// 键布局：
//   val:rec:{identity}            验证方记录JSON
//   val:cat:{category}:{identity} 类别旁路索引（值为占位标记）
const (
	recKeyPrefix = "val:rec:"
	catKeyPrefix = "val:cat:"
)

// 旁路索引占位值
var indexMarker = []byte{1}

// recKey 构造验证方记录键
func recKey(id types.Identity) []byte {
	return []byte(recKeyPrefix + id.String())
}

// catKey 构造类别索引键
func catKey(category types.AssetCategory, id types.Identity) []byte {
	return []byte(catKeyPrefix + category.String() + ":" + id.String())
}

// catPrefix 构造类别索引的扫描前缀
func catPrefix(category types.AssetCategory) []byte {
	return []byte(catKeyPrefix + category.String() + ":")
}
