package vault

import "github.com/titledger/v1/pkg/types"

// 存储键布局：
//
//	vault:bal:{token}:{identity} -> big.Int原始字节（大端，零余额与缺失等价）
const balKeyPrefix = "vault:bal:"

// balKey 构造余额键
func balKey(token string, id types.Identity) []byte {
	return []byte(balKeyPrefix + token + ":" + id.String())
}
