package fractions

import (
	"context"
	"fmt"
	"time"

	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"github.com/titledger/v1/pkg/types"
)

// unitMove 事务内实际发生的单元转移
type unitMove struct {
	index uint64
	from  types.Identity
	to    types.Identity
}

// CreateSubdivision 创建地块划分账本（仅Land/Estate，不转移托管）
func (e *Engine) CreateSubdivision(ctx context.Context, caller types.Identity, params types.SubdivisionParams) (*types.SubdivisionLedger, error) {
	if params.TotalUnits == 0 {
		return nil, ErrInvalidUnitCount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var ledger *types.SubdivisionLedger
	err := e.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		rec, err := e.registry.GetInTx(tx, params.AssetID)
		if err != nil {
			return err
		}
		if rec == nil {
			return ErrNotFound
		}
		if rec.Holder != caller {
			return ErrNotOwner
		}
		if params.Category != rec.Category {
			return ErrCategoryMismatch
		}
		if !rec.Category.CanSubdivide() {
			return ErrNotSubdividable
		}
		if rec.Locked {
			return ErrAssetLocked
		}

		existing, err := tx.Get(subdByAssetKey(rec.ID))
		if err != nil {
			return fmt.Errorf("读取划分索引失败: %w", err)
		}
		if len(existing) > 0 {
			return ErrSubdivisionActive
		}

		id, err := e.nextSubdivisionIDInTx(tx)
		if err != nil {
			return err
		}

		ledger = &types.SubdivisionLedger{
			ID:            id,
			AssetID:       rec.ID,
			AssetCategory: rec.Category,
			Name:          params.Name,
			Description:   params.Description,
			TotalUnits:    params.TotalUnits,
			ActiveUnits:   0,
			Active:        true,
			Burnable:      params.Burnable,
			CreatedAt:     time.Now().Unix(),
		}
		if err := e.saveSubdivisionInTx(tx, ledger); err != nil {
			return err
		}
		return tx.Set(subdByAssetKey(rec.ID), encodeUint64(uint64(id)))
	})
	if err != nil {
		return nil, err
	}

	if e.logger != nil {
		e.logger.Infof("🗺️ 划分账本已创建: id=%d asset=%d units=%d holder=%s",
			ledger.ID, ledger.AssetID, ledger.TotalUnits, caller)
	}
	e.publishEvent(types.EventSubdivisionCreated, &types.SubdivisionEventPayload{
		Ledger: *ledger,
		Caller: caller,
	})
	return ledger, nil
}

// MintUnit 铸造单个单元（仅底层资产实时持有人，无钱包上限）
func (e *Engine) MintUnit(ctx context.Context, caller types.Identity, id types.SubdivisionID, index uint64, recipient types.Identity, metadata string) error {
	return e.mintUnits(ctx, caller, id, []types.UnitMint{{
		Index:     index,
		Recipient: recipient,
		Metadata:  metadata,
	}})
}

// BatchMintUnits 批量铸造单元，单事务原子完成
func (e *Engine) BatchMintUnits(ctx context.Context, caller types.Identity, id types.SubdivisionID, mints []types.UnitMint) error {
	if len(mints) == 0 {
		return nil
	}
	return e.mintUnits(ctx, caller, id, mints)
}

func (e *Engine) mintUnits(ctx context.Context, caller types.Identity, id types.SubdivisionID, mints []types.UnitMint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		ledger, err := e.loadSubdivisionInTx(tx, id)
		if err != nil {
			return err
		}
		if !ledger.Active {
			return ErrNotActive
		}
		// 铸造权跟随底层资产的实时持有人
		if err := e.requireAssetHolderInTx(tx, ledger.AssetID, caller); err != nil {
			return err
		}
		for _, m := range mints {
			if err := e.mintOneUnitInTx(tx, ledger, m); err != nil {
				return err
			}
		}
		return e.saveSubdivisionInTx(tx, ledger)
	})
	if err != nil {
		return err
	}

	for _, m := range mints {
		e.publishUnit(types.EventUnitMinted, id, m.Index, caller, "", m.Recipient)
	}
	return nil
}

// mintOneUnitInTx 铸造单个单元并维护持有计数与在册数
func (e *Engine) mintOneUnitInTx(tx storage.Transaction, ledger *types.SubdivisionLedger, m types.UnitMint) error {
	if !m.Recipient.IsValid() {
		return ErrInvalidRecipient
	}
	if m.Index >= ledger.TotalUnits {
		return ErrInvalidUnitID
	}
	if ledger.ActiveUnits == ledger.TotalUnits {
		return ErrAllUnitsMinted
	}

	existing, err := e.getUnitInTx(tx, ledger.ID, m.Index)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUnitAlreadyMinted
	}

	if err := e.saveUnitInTx(tx, ledger.ID, m.Index, &types.UnitRecord{
		Owner:    m.Recipient,
		Metadata: m.Metadata,
	}); err != nil {
		return err
	}
	count, err := e.heldCountInTx(tx, subdHeldKey(ledger.ID, m.Recipient))
	if err != nil {
		return err
	}
	if err := e.setHeldCountInTx(tx, subdHeldKey(ledger.ID, m.Recipient), count+1); err != nil {
		return err
	}
	ledger.ActiveUnits++
	return nil
}

// BurnUnit 销毁调用方持有的单元（账本须允许销毁）
func (e *Engine) BurnUnit(ctx context.Context, caller types.Identity, id types.SubdivisionID, index uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		ledger, err := e.loadSubdivisionInTx(tx, id)
		if err != nil {
			return err
		}
		if !ledger.Active {
			return ErrNotActive
		}
		if !ledger.Burnable {
			return ErrBurningDisabled
		}

		unit, err := e.getUnitInTx(tx, id, index)
		if err != nil {
			return err
		}
		if unit == nil || unit.Owner != caller {
			return ErrNotUnitOwner
		}

		if err := tx.Delete(unitKey(id, index)); err != nil {
			return fmt.Errorf("删除单元记录失败: %w", err)
		}
		count, err := e.heldCountInTx(tx, subdHeldKey(id, caller))
		if err != nil {
			return err
		}
		if err := e.setHeldCountInTx(tx, subdHeldKey(id, caller), count-1); err != nil {
			return err
		}
		ledger.ActiveUnits--
		return e.saveSubdivisionInTx(tx, ledger)
	})
	if err != nil {
		return err
	}

	e.publishUnit(types.EventUnitBurned, id, index, caller, caller, "")
	return nil
}

// TransferUnit 转让调用方持有的单元
func (e *Engine) TransferUnit(ctx context.Context, caller types.Identity, id types.SubdivisionID, index uint64, to types.Identity) error {
	if !to.IsValid() {
		return ErrInvalidRecipient
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var move *unitMove
	err := e.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		move = nil

		ledger, err := e.loadSubdivisionInTx(tx, id)
		if err != nil {
			return err
		}
		if !ledger.Active {
			return ErrNotActive
		}

		unit, err := e.getUnitInTx(tx, id, index)
		if err != nil {
			return err
		}
		if unit == nil || unit.Owner != caller {
			return ErrNotUnitOwner
		}
		// 自我转让为无操作
		if unit.Owner == to {
			return nil
		}

		srcCount, err := e.heldCountInTx(tx, subdHeldKey(id, caller))
		if err != nil {
			return err
		}
		if err := e.setHeldCountInTx(tx, subdHeldKey(id, caller), srcCount-1); err != nil {
			return err
		}
		destCount, err := e.heldCountInTx(tx, subdHeldKey(id, to))
		if err != nil {
			return err
		}
		if err := e.setHeldCountInTx(tx, subdHeldKey(id, to), destCount+1); err != nil {
			return err
		}

		unit.Owner = to
		if err := e.saveUnitInTx(tx, id, index, unit); err != nil {
			return err
		}
		move = &unitMove{index: index, from: caller, to: to}
		return nil
	})
	if err != nil {
		return err
	}

	if move != nil {
		e.publishUnit(types.EventUnitTransferred, id, move.index, caller, move.from, move.to)
	}
	return nil
}

// DeactivateSubdivision 停用地块划分账本
//
// 要求所有在册单元均已回到底层资产持有人手中；持有计数索引即
// 当前单元持有人集合，任何外部持有人直接否决。成功后清除剩余
// 单元与持有计数。
func (e *Engine) DeactivateSubdivision(ctx context.Context, caller types.Identity, id types.SubdivisionID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ledger *types.SubdivisionLedger
	err := e.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var err error
		ledger, err = e.loadSubdivisionInTx(tx, id)
		if err != nil {
			return err
		}
		if !ledger.Active {
			return ErrNotActive
		}
		if err := e.requireAssetHolderInTx(tx, ledger.AssetID, caller); err != nil {
			return err
		}

		held, err := tx.PrefixScan(subdHeldPrefix(id))
		if err != nil {
			return fmt.Errorf("扫描单元持有计数失败: %w", err)
		}
		prefixLen := len(subdHeldPrefix(id))
		for key := range held {
			if types.Identity(key[prefixLen:]) != caller {
				return ErrUnitsOutstanding
			}
		}

		// 清除在册单元与持有计数
		units, err := tx.PrefixScan(unitPrefix(id))
		if err != nil {
			return fmt.Errorf("扫描单元记录失败: %w", err)
		}
		for key := range units {
			if err := tx.Delete([]byte(key)); err != nil {
				return fmt.Errorf("清除单元记录失败: %w", err)
			}
		}
		for key := range held {
			if err := tx.Delete([]byte(key)); err != nil {
				return fmt.Errorf("清除单元持有计数失败: %w", err)
			}
		}

		ledger.ActiveUnits = 0
		ledger.Active = false
		if err := e.saveSubdivisionInTx(tx, ledger); err != nil {
			return err
		}
		return tx.Delete(subdByAssetKey(ledger.AssetID))
	})
	if err != nil {
		return err
	}

	if e.logger != nil {
		e.logger.Infof("🗺️ 划分账本已停用: id=%d asset=%d", ledger.ID, ledger.AssetID)
	}
	e.publishEvent(types.EventSubdivisionDeactivated, &types.SubdivisionEventPayload{
		Ledger: *ledger,
		Caller: caller,
	})
	return nil
}
