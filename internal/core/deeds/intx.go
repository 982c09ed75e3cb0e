package deeds

import (
	"time"

	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"github.com/titledger/v1/pkg/types"
)

// 本文件实现internal/core/deeds/interfaces.TxRegistry：
// 费用账本与份额引擎在各自事务内委托登记引擎落账的入口。
// 事务的提交权在调用方手中，本引擎在这些方法内不发布事件、
// 不写缓存。

// GetInTx 在调用方事务内读取资产记录，不存在返回(nil, nil)
func (r *Registry) GetInTx(tx storage.Transaction, id types.AssetID) (*types.AssetRecord, error) {
	return r.getInTx(tx, id)
}

// CreateInTx 在调用方事务内铸造资产记录
//
// params.Owner被忽略，所有权归于owner参数。参数校验与验证方
// 能力检查和直接铸造路径完全一致。
func (r *Registry) CreateInTx(tx storage.Transaction, owner types.Identity, params types.AssetParams) (*types.AssetRecord, error) {
	return r.createInTx(tx, owner, params)
}

// LockCustodyInTx 在调用方事务内锁定资产托管
//
// 仅写入Custodian与Locked两个托管字段，不触碰记录的业务字段。
func (r *Registry) LockCustodyInTx(tx storage.Transaction, id types.AssetID, custodian types.Identity) (*types.AssetRecord, error) {
	rec, err := r.getInTx(tx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if rec.Locked {
		return nil, ErrAssetLocked
	}

	rec.Custodian = custodian
	rec.Locked = true
	rec.UpdatedAt = time.Now().Unix()

	if err := r.saveRecord(tx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ReleaseCustodyInTx 在调用方事务内释放资产托管
//
// 持有权转给recipient（持有人索引同步迁移）并清除托管标志。
func (r *Registry) ReleaseCustodyInTx(tx storage.Transaction, id types.AssetID, recipient types.Identity) (*types.AssetRecord, error) {
	if !recipient.IsValid() {
		return nil, ErrInvalidRecipient
	}

	rec, err := r.getInTx(tx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if !rec.Locked {
		return nil, ErrNotInCustody
	}

	if rec.Holder != recipient {
		if err := tx.Delete(holderKey(rec.Holder, id)); err != nil {
			return nil, err
		}
		if err := tx.Set(holderKey(recipient, id), indexMarker); err != nil {
			return nil, err
		}
		rec.Holder = recipient
	}
	rec.Custodian = ""
	rec.Locked = false
	rec.UpdatedAt = time.Now().Unix()

	if err := r.saveRecord(tx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
