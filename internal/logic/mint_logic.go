package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/logger"
	"github.com/blues/mintpad/internal/mint"
	"github.com/blues/mintpad/internal/model"
	"github.com/blues/mintpad/internal/whitelist"
	"github.com/blues/mintpad/pkg/validation"
	"gorm.io/gorm"
)

// MintLogic 铸造资格查询与铸造记录
type MintLogic struct {
	db    *gorm.DB
	store whitelist.Store
	now   func() time.Time
}

// NewMintLogic 创建铸造逻辑
func NewMintLogic(db *gorm.DB, store whitelist.Store) *MintLogic {
	return &MintLogic{db: db, store: store, now: time.Now}
}

// MintStatus 某个钱包在当前时刻的铸造资格
type MintStatus struct {
	CollectionId    string            `json:"collection_id"`
	Phase           *model.PhaseModel `json:"phase"`
	Remaining       int64             `json:"remaining"`
	Extended        bool              `json:"extended"`
	CanMint         bool              `json:"can_mint"`
	Reason          string            `json:"reason,omitempty"`
	WalletMinted    int64             `json:"wallet_minted"`
	WalletRemaining *int64            `json:"wallet_remaining"` // 阶段不限购时为空
	CheckedAt       time.Time         `json:"checked_at"`
}

// MintRequest 外部结算完成后回写的铸造
type MintRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Quantity      int64  `json:"quantity" binding:"required,min=1"`
	TxId          string `json:"tx_id" binding:"required"`
}

// Reason 铸造拒绝原因的对外编码，未知错误返回空字符串
func Reason(err error) string {
	switch {
	case errors.Is(err, mint.ErrCollectionNotLive):
		return "collection_not_live"
	case errors.Is(err, mint.ErrNoActivePhase):
		return "no_active_phase"
	case errors.Is(err, mint.ErrPhaseCompleted):
		return "phase_completed"
	case errors.Is(err, mint.ErrPhaseSoldOut):
		return "sold_out"
	case errors.Is(err, mint.ErrNotWhitelisted):
		return "not_whitelisted"
	case errors.Is(err, mint.ErrWalletLimitReached):
		return "wallet_limit_reached"
	default:
		return ""
	}
}

// IsMintRejection 是否为预期的铸造拒绝而不是系统故障
func IsMintRejection(err error) bool {
	return Reason(err) != ""
}

// MintStatus 解析钱包在集合上的当前铸造资格，拒绝原因放在结果里而不是作为错误返回
func (l *MintLogic) MintStatus(ctx context.Context, minter auth.Context, collectionId string) (*MintStatus, error) {
	var collection model.CollectionModel
	if err := l.db.WithContext(ctx).First(&collection, "id = ?", collectionId).Error; err != nil {
		return nil, notFound("集合", err)
	}
	phases, err := loadPhases(ctx, l.db, collectionId)
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	status := &MintStatus{CollectionId: collectionId, CheckedAt: now}

	res, err := mint.Resolve(ctx, &collection, phases, l.store, minter, now)
	if res != nil {
		status.Phase = res.Phase
		status.Remaining = res.Remaining
		status.Extended = res.Extended
	}
	if err != nil && !IsMintRejection(err) {
		return nil, err
	}
	status.Reason = Reason(err)

	if res != nil && !minter.Anonymous() {
		minted, err := walletMinted(l.db.WithContext(ctx), res.Phase.Id, minter.Address)
		if err != nil {
			return nil, err
		}
		status.WalletMinted = minted
		if res.Phase.MaxPerWallet != nil {
			left := int64(*res.Phase.MaxPerWallet) - minted
			if left < 0 {
				left = 0
			}
			status.WalletRemaining = &left
			if status.Reason == "" && left == 0 {
				status.Reason = Reason(mint.ErrWalletLimitReached)
			}
		}
	}

	status.CanMint = status.Reason == ""
	return status, nil
}

// RecordMint 记录一次已结算的铸造。资格、钱包限购和剩余额度在同一事务内检查，
// 计数使用条件更新，超卖时整体回滚。
func (l *MintLogic) RecordMint(ctx context.Context, actor auth.Context, collectionId string, req MintRequest) (*model.MintRecordModel, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	if req.Quantity < 1 {
		return nil, invalid("铸造数量必须大于0")
	}
	if strings.TrimSpace(req.TxId) == "" {
		return nil, invalid("交易ID不能为空")
	}
	minter := auth.Context{Address: validation.NormalizeAddress(req.WalletAddress)}
	if minter.Anonymous() {
		return nil, invalid("钱包地址不能为空")
	}

	var record *model.MintRecordModel
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var collection model.CollectionModel
		if err := tx.First(&collection, "id = ?", collectionId).Error; err != nil {
			return notFound("集合", err)
		}
		var phases []model.PhaseModel
		if err := tx.Where("collection_id = ?", collectionId).Find(&phases).Error; err != nil {
			return fmt.Errorf("获取阶段列表失败: %w", err)
		}

		res, err := mint.Resolve(ctx, &collection, phases, l.store, minter, l.now().UTC())
		if err != nil {
			return err
		}
		phase := res.Phase
		if req.Quantity > res.Remaining {
			return mint.ErrPhaseSoldOut
		}

		if phase.MaxPerWallet != nil {
			minted, err := walletMinted(tx, phase.Id, minter.Address)
			if err != nil {
				return err
			}
			if minted+req.Quantity > int64(*phase.MaxPerWallet) {
				return mint.ErrWalletLimitReached
			}
		}

		phaseUpdate := tx.Model(&model.PhaseModel{}).
			Where("id = ? AND (phase_allocation IS NULL OR phase_minted + ? <= phase_allocation)", phase.Id, req.Quantity).
			Update("phase_minted", gorm.Expr("phase_minted + ?", req.Quantity))
		if phaseUpdate.Error != nil {
			return fmt.Errorf("更新阶段铸造数量失败: %w", phaseUpdate.Error)
		}
		if phaseUpdate.RowsAffected == 0 {
			return mint.ErrPhaseSoldOut
		}

		collectionUpdate := tx.Model(&model.CollectionModel{}).
			Where("id = ? AND total_minted + ? <= CASE WHEN cap_supply > 0 AND cap_supply < total_supply THEN cap_supply ELSE total_supply END",
				collection.Id, req.Quantity).
			Update("total_minted", gorm.Expr("total_minted + ?", req.Quantity))
		if collectionUpdate.Error != nil {
			return fmt.Errorf("更新集合铸造数量失败: %w", collectionUpdate.Error)
		}
		if collectionUpdate.RowsAffected == 0 {
			return mint.ErrPhaseSoldOut
		}

		record = &model.MintRecordModel{
			CollectionId:  collection.Id,
			PhaseId:       phase.Id,
			WalletAddress: minter.Address,
			Quantity:      req.Quantity,
			PriceSats:     phase.MintPriceSats * req.Quantity,
			TxId:          strings.TrimSpace(req.TxId),
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("记录铸造失败: %w", err)
		}
		return nil
	})
	if err != nil {
		if IsMintRejection(err) {
			logger.Warn("Mint rejected for %s on collection %s: %v", minter.Address, collectionId, err)
		}
		return nil, err
	}

	logger.Info("Minted %d in phase %s for %s (tx %s)", record.Quantity, record.PhaseId, record.WalletAddress, record.TxId)
	return record, nil
}

// ListMints 集合的铸造记录，wallet 非空时按钱包过滤
func (l *MintLogic) ListMints(ctx context.Context, collectionId, wallet string, page, pageSize int) ([]model.MintRecordModel, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := l.db.WithContext(ctx).Model(&model.MintRecordModel{}).Where("collection_id = ?", collectionId)
	if wallet != "" {
		query = query.Where("wallet_address = ?", validation.NormalizeAddress(wallet))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取铸造记录失败: %w", err)
	}
	var records []model.MintRecordModel
	if err := query.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("获取铸造记录失败: %w", err)
	}
	return records, total, nil
}

func walletMinted(db *gorm.DB, phaseId, wallet string) (int64, error) {
	var minted int64
	err := db.Model(&model.MintRecordModel{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("phase_id = ? AND wallet_address = ?", phaseId, wallet).
		Scan(&minted).Error
	if err != nil {
		return 0, fmt.Errorf("统计钱包铸造数量失败: %w", err)
	}
	return minted, nil
}
