package treasury

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/titledger/v1/pkg/types"
)

// IsTokenWhitelisted 查询Token白名单状态
func (l *Ledger) IsTokenWhitelisted(ctx context.Context, token types.TokenKey) (bool, error) {
	entry, err := l.getFeeEntry(ctx, token)
	if err != nil {
		return false, err
	}
	return entry != nil && entry.Whitelisted, nil
}

// FeeFor 查询指定Token和调用方类别的铸造费，未设置返回nil
func (l *Ledger) FeeFor(ctx context.Context, token types.TokenKey, class types.CallerClass) (*big.Int, error) {
	entry, err := l.getFeeEntry(ctx, token)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	fee := entry.FeeFor(class)
	if fee == nil {
		return nil, nil
	}
	return new(big.Int).Set(fee), nil
}

// Rates 查询当前佣金费率，未设置返回零费率
func (l *Ledger) Rates(ctx context.Context) (types.CommissionRates, error) {
	var rates types.CommissionRates

	data, err := l.store.Get(ctx, []byte(ratesKey))
	if err != nil {
		return rates, fmt.Errorf("读取佣金费率失败: %w", err)
	}
	if len(data) == 0 {
		return rates, nil
	}
	if err := json.Unmarshal(data, &rates); err != nil {
		return types.CommissionRates{}, fmt.Errorf("反序列化佣金费率失败: %w", err)
	}
	return rates, nil
}

// FeeRecipient 查询服务费接收人，未设置返回空身份
func (l *Ledger) FeeRecipient(ctx context.Context) (types.Identity, error) {
	data, err := l.store.Get(ctx, []byte(recipientKey))
	if err != nil {
		return "", fmt.Errorf("读取服务费接收人失败: %w", err)
	}
	return types.Identity(data), nil
}

// ProtocolBalance 查询协议服务费余额
func (l *Ledger) ProtocolBalance(ctx context.Context, token types.TokenKey) (*big.Int, error) {
	data, err := l.store.Get(ctx, protoKey(token))
	if err != nil {
		return nil, fmt.Errorf("读取协议余额失败: %w", err)
	}
	return new(big.Int).SetBytes(data), nil
}

// CommissionBalance 查询指定收款人的佣金余额
func (l *Ledger) CommissionBalance(ctx context.Context, recipient types.Identity, token types.TokenKey) (*big.Int, error) {
	data, err := l.store.Get(ctx, commKey(recipient, token))
	if err != nil {
		return nil, fmt.Errorf("读取佣金余额失败: %w", err)
	}
	return new(big.Int).SetBytes(data), nil
}
