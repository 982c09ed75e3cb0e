package treasury

import "github.com/titledger/v1/pkg/types"

// 存储键布局：
//
//	fee:token:{token}            -> TokenFeeEntry JSON（白名单与双档费用）
//	fee:rates                    -> CommissionRates JSON
//	fee:proto:{token}            -> big.Int原始字节（协议服务费余额）
//	fee:comm:{identity}:{token}  -> big.Int原始字节（佣金余额）
//	fee:recipient                -> 服务费接收人身份字节
const (
	feeTokenKeyPrefix = "fee:token:"
	protoKeyPrefix    = "fee:proto:"
	commKeyPrefix     = "fee:comm:"
	ratesKey          = "fee:rates"
	recipientKey      = "fee:recipient"
)

// feeTokenKey 构造Token费用条目键
func feeTokenKey(token types.TokenKey) []byte {
	return []byte(feeTokenKeyPrefix + token.String())
}

// protoKey 构造协议余额键
func protoKey(token types.TokenKey) []byte {
	return []byte(protoKeyPrefix + token.String())
}

// commKey 构造佣金余额键
func commKey(recipient types.Identity, token types.TokenKey) []byte {
	return []byte(commKeyPrefix + recipient.String() + ":" + token.String())
}
