package fractions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/titledger/v1/pkg/interfaces/infrastructure/storage"
	"github.com/titledger/v1/pkg/types"
)

// shareMove 事务内实际发生的份额转移（提交成功后发布事件）
type shareMove struct {
	index uint64
	from  types.Identity
	to    types.Identity
}

// CreateFraction 创建份额集合并接管底层资产托管
func (e *Engine) CreateFraction(ctx context.Context, caller types.Identity, params types.FractionParams) (*types.FractionCollection, error) {
	if params.TotalShares == 0 {
		return nil, ErrInvalidShareCount
	}
	if params.RequiredApprovalPct < types.MinApprovalPct || params.RequiredApprovalPct > types.MaxApprovalPct {
		return nil, ErrInvalidApprovalPercentage
	}
	maxPerWallet := params.MaxSharesPerWallet
	if maxPerWallet == 0 {
		maxPerWallet = params.TotalShares
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		coll   *types.FractionCollection
		locked *types.AssetRecord
	)
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
		if rec.Locked {
			return ErrAssetLocked
		}

		// 同一资产不得同时存在活跃的地块划分账本
		subdData, err := tx.Get(subdByAssetKey(rec.ID))
		if err != nil {
			return fmt.Errorf("读取划分索引失败: %w", err)
		}
		if len(subdData) > 0 {
			return ErrSubdivisionActive
		}

		id, err := e.nextCollectionIDInTx(tx)
		if err != nil {
			return err
		}

		coll = &types.FractionCollection{
			ID:                  id,
			AssetID:             rec.ID,
			AssetCategory:       rec.Category,
			Name:                params.Name,
			Symbol:              params.Symbol,
			Description:         params.Description,
			TotalShares:         params.TotalShares,
			ActiveShares:        0,
			MaxSharesPerWallet:  maxPerWallet,
			RequiredApprovalPct: params.RequiredApprovalPct,
			Active:              true,
			Burnable:            params.Burnable,
			Admin:               caller,
			CreatedAt:           time.Now().Unix(),
		}
		if err := e.saveCollectionInTx(tx, coll); err != nil {
			return err
		}
		if err := tx.Set(fracByAssetKey(rec.ID), encodeUint64(uint64(id))); err != nil {
			return fmt.Errorf("写入集合索引失败: %w", err)
		}

		locked, err = e.registry.LockCustodyInTx(tx, rec.ID, e.engineIdentity())
		return err
	})
	if err != nil {
		return nil, err
	}

	e.registry.FlushCached(coll.AssetID)
	if e.logger != nil {
		e.logger.Infof("🧩 份额集合已创建: id=%d asset=%d shares=%d admin=%s",
			coll.ID, coll.AssetID, coll.TotalShares, caller)
	}
	e.publishEvent(types.EventFractionCreated, &types.FractionEventPayload{
		Collection: *coll,
		Caller:     caller,
	})
	e.publishEvent(types.EventAssetLocked, &types.AssetEventPayload{
		Record: *locked,
		Caller: caller,
	})
	return coll, nil
}

// MintShare 铸造单个份额
func (e *Engine) MintShare(ctx context.Context, caller types.Identity, id types.CollectionID, index uint64, recipient types.Identity, metadata string) error {
	return e.mintShares(ctx, caller, id, []types.ShareMint{{
		Index:     index,
		Recipient: recipient,
		Metadata:  metadata,
	}})
}

// BatchMintShares 批量铸造份额，单事务原子完成
func (e *Engine) BatchMintShares(ctx context.Context, caller types.Identity, id types.CollectionID, mints []types.ShareMint) error {
	if len(mints) == 0 {
		return nil
	}
	return e.mintShares(ctx, caller, id, mints)
}

func (e *Engine) mintShares(ctx context.Context, caller types.Identity, id types.CollectionID, mints []types.ShareMint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		coll, err := e.loadCollectionInTx(tx, id)
		if err != nil {
			return err
		}
		if !coll.Active {
			return ErrNotActive
		}
		// 铸造权跟随底层资产的实时持有人
		if err := e.requireAssetHolderInTx(tx, coll.AssetID, caller); err != nil {
			return err
		}
		for _, m := range mints {
			if err := e.mintOneShareInTx(tx, coll, m); err != nil {
				return err
			}
		}
		return e.saveCollectionInTx(tx, coll)
	})
	if err != nil {
		return err
	}

	for _, m := range mints {
		e.publishShare(types.EventShareMinted, id, m.Index, caller, "", m.Recipient)
	}
	return nil
}

// mintOneShareInTx 铸造单个份额并维护持有计数与流通数
func (e *Engine) mintOneShareInTx(tx storage.Transaction, coll *types.FractionCollection, m types.ShareMint) error {
	if !m.Recipient.IsValid() {
		return ErrInvalidRecipient
	}
	if m.Index >= coll.TotalShares {
		return ErrInvalidShareID
	}
	if coll.ActiveShares == coll.TotalShares {
		return ErrAllSharesMinted
	}

	existing, err := e.getShareInTx(tx, coll.ID, m.Index)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrShareAlreadyMinted
	}

	count, err := e.heldCountInTx(tx, heldKey(coll.ID, m.Recipient))
	if err != nil {
		return err
	}
	if count+1 > coll.MaxSharesPerWallet {
		return ErrExceedsWalletLimit
	}

	if err := e.saveShareInTx(tx, coll.ID, m.Index, &types.ShareRecord{
		Owner:    m.Recipient,
		Metadata: m.Metadata,
	}); err != nil {
		return err
	}
	if err := e.setHeldCountInTx(tx, heldKey(coll.ID, m.Recipient), count+1); err != nil {
		return err
	}
	coll.ActiveShares++
	return nil
}

// BurnShare 销毁调用方持有的份额（集合须允许销毁）
func (e *Engine) BurnShare(ctx context.Context, caller types.Identity, id types.CollectionID, index uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		coll, err := e.loadCollectionInTx(tx, id)
		if err != nil {
			return err
		}
		if !coll.Active {
			return ErrNotActive
		}
		if !coll.Burnable {
			return ErrBurningDisabled
		}

		share, err := e.getShareInTx(tx, id, index)
		if err != nil {
			return err
		}
		if share == nil || share.Owner != caller {
			return ErrNotShareOwner
		}

		if err := tx.Delete(shareKey(id, index)); err != nil {
			return fmt.Errorf("删除份额记录失败: %w", err)
		}
		count, err := e.heldCountInTx(tx, heldKey(id, caller))
		if err != nil {
			return err
		}
		if err := e.setHeldCountInTx(tx, heldKey(id, caller), count-1); err != nil {
			return err
		}
		coll.ActiveShares--
		return e.saveCollectionInTx(tx, coll)
	})
	if err != nil {
		return err
	}

	e.publishShare(types.EventShareBurned, id, index, caller, caller, "")
	return nil
}

// TransferShare 转让调用方持有的份额
func (e *Engine) TransferShare(ctx context.Context, caller types.Identity, id types.CollectionID, index uint64, to types.Identity) error {
	return e.transferShares(ctx, caller, id, []types.ShareTransfer{{Index: index, To: to}})
}

// BatchTransferShares 批量转让份额，单事务原子完成
func (e *Engine) BatchTransferShares(ctx context.Context, caller types.Identity, id types.CollectionID, transfers []types.ShareTransfer) error {
	if len(transfers) == 0 {
		return nil
	}
	return e.transferShares(ctx, caller, id, transfers)
}

func (e *Engine) transferShares(ctx context.Context, caller types.Identity, id types.CollectionID, transfers []types.ShareTransfer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var moves []shareMove
	err := e.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		// 事务函数可能被重试，重置累积结果
		moves = moves[:0]

		coll, err := e.loadCollectionInTx(tx, id)
		if err != nil {
			return err
		}
		if !coll.Active {
			return ErrNotActive
		}
		for _, t := range transfers {
			if !t.To.IsValid() {
				return ErrInvalidRecipient
			}
			share, err := e.getShareInTx(tx, id, t.Index)
			if err != nil {
				return err
			}
			if share == nil || share.Owner != caller {
				return ErrNotShareOwner
			}
			moved, err := e.moveShareInTx(tx, coll, share, t.Index, t.To)
			if err != nil {
				return err
			}
			if moved {
				moves = append(moves, shareMove{index: t.Index, from: caller, to: t.To})
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, m := range moves {
		e.publishShare(types.EventShareTransferred, id, m.index, caller, m.from, m.to)
	}
	return nil
}

// TransferShareFrom 集合管理员代持有人转让份额
func (e *Engine) TransferShareFrom(ctx context.Context, caller types.Identity, id types.CollectionID, index uint64, to types.Identity) error {
	if !to.IsValid() {
		return ErrInvalidRecipient
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		from  types.Identity
		moved bool
	)
	err := e.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		coll, err := e.loadCollectionInTx(tx, id)
		if err != nil {
			return err
		}
		if !coll.Active {
			return ErrNotActive
		}
		if caller != coll.Admin {
			return ErrNotAuthorized
		}

		share, err := e.getShareInTx(tx, id, index)
		if err != nil {
			return err
		}
		if share == nil {
			return ErrNotFound
		}

		approval, err := e.getApprovalInTx(tx, id, share.Owner)
		if err != nil {
			return err
		}
		if !approval.TransferApproved {
			return ErrTransferNotApproved
		}

		from = share.Owner
		moved, err = e.moveShareInTx(tx, coll, share, index, to)
		return err
	})
	if err != nil {
		return err
	}

	if moved {
		e.publishShare(types.EventShareTransferred, id, index, caller, from, to)
	}
	return nil
}

// moveShareInTx 将已加载的份额移交给to并维护双方持有计数
//
// 自我转让为无操作，返回moved=false。
func (e *Engine) moveShareInTx(tx storage.Transaction, coll *types.FractionCollection, share *types.ShareRecord, index uint64, to types.Identity) (bool, error) {
	if share.Owner == to {
		return false, nil
	}

	destCount, err := e.heldCountInTx(tx, heldKey(coll.ID, to))
	if err != nil {
		return false, err
	}
	if destCount+1 > coll.MaxSharesPerWallet {
		return false, ErrExceedsWalletLimit
	}

	srcCount, err := e.heldCountInTx(tx, heldKey(coll.ID, share.Owner))
	if err != nil {
		return false, err
	}
	if err := e.setHeldCountInTx(tx, heldKey(coll.ID, share.Owner), srcCount-1); err != nil {
		return false, err
	}
	if err := e.setHeldCountInTx(tx, heldKey(coll.ID, to), destCount+1); err != nil {
		return false, err
	}

	share.Owner = to
	if err := e.saveShareInTx(tx, coll.ID, index, share); err != nil {
		return false, err
	}
	return true, nil
}

// SetApproval 设置调用方在集合中的转让/管理审批标志
func (e *Engine) SetApproval(ctx context.Context, caller types.Identity, id types.CollectionID, transferApproved, adminApproved bool) error {
	approval := types.ApprovalRecord{
		TransferApproved: transferApproved,
		AdminApproved:    adminApproved,
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		if _, err := e.loadCollectionInTx(tx, id); err != nil {
			return err
		}
		count, err := e.heldCountInTx(tx, heldKey(id, caller))
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotShareHolder
		}

		data, err := json.Marshal(approval)
		if err != nil {
			return fmt.Errorf("序列化审批记录失败: %w", err)
		}
		return tx.Set(apprKey(id, caller), data)
	})
	if err != nil {
		return err
	}

	e.publishEvent(types.EventApprovalSet, &types.ApprovalEventPayload{
		CollectionID: id,
		Holder:       caller,
		Approval:     approval,
	})
	return nil
}

// UnlockAsset 解锁底层资产并终结集合
//
// checkApprovals=false：调用方须持有全部流通份额（零流通时仅限
// 集合管理员）；checkApprovals=true：设置管理审批标志的去重持有
// 人比例须达到集合要求（一人一票；无持有人时仅限集合管理员）。
func (e *Engine) UnlockAsset(ctx context.Context, caller types.Identity, id types.CollectionID, recipient types.Identity, checkApprovals bool) error {
	if !recipient.IsValid() {
		return ErrInvalidRecipient
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		coll   *types.FractionCollection
		burned uint64
	)
	err := e.store.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var err error
		coll, err = e.loadCollectionInTx(tx, id)
		if err != nil {
			return err
		}
		if !coll.Active {
			return ErrNotActive
		}

		if err := e.checkUnlockAuthorityInTx(tx, coll, caller, checkApprovals); err != nil {
			return err
		}

		// 清除全部份额、持有计数与审批记录
		for _, prefix := range [][]byte{sharePrefix(id), heldPrefix(id), apprPrefix(id)} {
			entries, err := tx.PrefixScan(prefix)
			if err != nil {
				return fmt.Errorf("扫描集合键失败: %w", err)
			}
			for key := range entries {
				if err := tx.Delete([]byte(key)); err != nil {
					return fmt.Errorf("清除集合键失败: %w", err)
				}
			}
		}

		if _, err := e.registry.ReleaseCustodyInTx(tx, coll.AssetID, recipient); err != nil {
			return err
		}

		burned = coll.ActiveShares
		coll.ActiveShares = 0
		coll.Active = false
		if err := e.saveCollectionInTx(tx, coll); err != nil {
			return err
		}
		return tx.Delete(fracByAssetKey(coll.AssetID))
	})
	if err != nil {
		return err
	}

	e.registry.FlushCached(coll.AssetID)
	if e.logger != nil {
		e.logger.Infof("🔓 资产已解锁: collection=%d asset=%d recipient=%s burned=%d byApproval=%v",
			coll.ID, coll.AssetID, recipient, burned, checkApprovals)
	}
	e.publishEvent(types.EventAssetUnlocked, &types.UnlockEventPayload{
		CollectionID: coll.ID,
		AssetID:      coll.AssetID,
		Recipient:    recipient,
		BurnedShares: burned,
		ByApproval:   checkApprovals,
	})
	return nil
}

// checkUnlockAuthorityInTx 校验解锁资格
func (e *Engine) checkUnlockAuthorityInTx(tx storage.Transaction, coll *types.FractionCollection, caller types.Identity, checkApprovals bool) error {
	if !checkApprovals {
		// 全额持有路径：零流通时回落到管理员
		if coll.ActiveShares == 0 {
			if caller != coll.Admin {
				return ErrNotAuthorized
			}
			return nil
		}
		count, err := e.heldCountInTx(tx, heldKey(coll.ID, caller))
		if err != nil {
			return err
		}
		if count != coll.ActiveShares {
			return ErrMustOwnAllShares
		}
		return nil
	}

	// 审批路径：去重持有人一人一票
	held, err := tx.PrefixScan(heldPrefix(coll.ID))
	if err != nil {
		return fmt.Errorf("扫描持有计数失败: %w", err)
	}
	if len(held) == 0 {
		if caller != coll.Admin {
			return ErrNotAuthorized
		}
		return nil
	}

	prefixLen := len(heldPrefix(coll.ID))
	approvals := uint64(0)
	for key := range held {
		holder := types.Identity(key[prefixLen:])
		approval, err := e.getApprovalInTx(tx, coll.ID, holder)
		if err != nil {
			return err
		}
		if approval.AdminApproved {
			approvals++
		}
	}
	if approvals*100 < uint64(len(held))*uint64(coll.RequiredApprovalPct) {
		return ErrInsufficientApprovals
	}
	return nil
}
