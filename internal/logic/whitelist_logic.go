package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/logger"
	"github.com/blues/mintpad/internal/model"
	"github.com/blues/mintpad/pkg/validation"
	"github.com/sahilm/fuzzy"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Invalidator 白名单变更后清理缓存
type Invalidator interface {
	Invalidate(whitelistId string)
}

// WhitelistLogic 白名单业务逻辑，同时作为 whitelist.Store 的数据库实现
type WhitelistLogic struct {
	db          *gorm.DB
	invalidator Invalidator
}

// NewWhitelistLogic 创建白名单业务逻辑
func NewWhitelistLogic(db *gorm.DB) *WhitelistLogic {
	return &WhitelistLogic{db: db}
}

// SetInvalidator 注册缓存失效回调
func (l *WhitelistLogic) SetInvalidator(inv Invalidator) {
	l.invalidator = inv
}

func (l *WhitelistLogic) invalidate(whitelistId string) {
	if l.invalidator != nil {
		l.invalidator.Invalidate(whitelistId)
	}
}

// WhitelistSummary 白名单及其地址数量
type WhitelistSummary struct {
	model.WhitelistModel
	EntryCount int64 `json:"entry_count"`
}

// AddEntriesResult 批量导入结果
type AddEntriesResult struct {
	Added     int64    `json:"added"`
	Duplicate int64    `json:"duplicate"`
	Invalid   []string `json:"invalid"`
}

// IsEligible 地址是否在白名单中
func (l *WhitelistLogic) IsEligible(ctx context.Context, whitelistId, address string) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&model.WhitelistEntryModel{}).
		Where("whitelist_id = ? AND wallet_address = ?", whitelistId, validation.NormalizeAddress(address)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// EntryCount 白名单地址数量
func (l *WhitelistLogic) EntryCount(ctx context.Context, whitelistId string) (int64, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&model.WhitelistEntryModel{}).
		Where("whitelist_id = ?", whitelistId).
		Count(&count).Error
	return count, err
}

// CreateWhitelist 为集合创建白名单
func (l *WhitelistLogic) CreateWhitelist(ctx context.Context, actor auth.Context, collectionId string, whitelist *model.WhitelistModel) error {
	if _, err := loadManaged(ctx, l.db, actor, collectionId); err != nil {
		return err
	}

	whitelist.Name = strings.TrimSpace(whitelist.Name)
	if whitelist.Name == "" {
		return invalid("白名单名称不能为空")
	}
	whitelist.Id = ""
	whitelist.CollectionId = collectionId

	if err := l.db.WithContext(ctx).Create(whitelist).Error; err != nil {
		return fmt.Errorf("创建白名单失败: %w", err)
	}
	return nil
}

// ListWhitelists 集合下的所有白名单
func (l *WhitelistLogic) ListWhitelists(ctx context.Context, collectionId string) ([]WhitelistSummary, error) {
	var whitelists []model.WhitelistModel
	if err := l.db.WithContext(ctx).
		Where("collection_id = ?", collectionId).
		Order("created_at ASC").
		Find(&whitelists).Error; err != nil {
		return nil, fmt.Errorf("获取白名单列表失败: %w", err)
	}

	result := make([]WhitelistSummary, 0, len(whitelists))
	for _, w := range whitelists {
		count, err := l.EntryCount(ctx, w.Id)
		if err != nil {
			return nil, fmt.Errorf("统计白名单地址失败: %w", err)
		}
		result = append(result, WhitelistSummary{WhitelistModel: w, EntryCount: count})
	}
	return result, nil
}

// getManaged 获取白名单并校验集合管理权限
func (l *WhitelistLogic) getManaged(ctx context.Context, actor auth.Context, whitelistId string) (*model.WhitelistModel, error) {
	var whitelist model.WhitelistModel
	if err := l.db.WithContext(ctx).First(&whitelist, "id = ?", whitelistId).Error; err != nil {
		return nil, notFound("白名单", err)
	}
	if _, err := loadManaged(ctx, l.db, actor, whitelist.CollectionId); err != nil {
		return nil, err
	}
	return &whitelist, nil
}

// AddEntries 批量导入地址，非法地址跳过，重复地址忽略
func (l *WhitelistLogic) AddEntries(ctx context.Context, actor auth.Context, whitelistId string, addresses []string) (*AddEntriesResult, error) {
	if _, err := l.getManaged(ctx, actor, whitelistId); err != nil {
		return nil, err
	}

	result := &AddEntriesResult{Invalid: []string{}}
	seen := make(map[string]struct{}, len(addresses))
	entries := make([]model.WhitelistEntryModel, 0, len(addresses))
	for _, raw := range addresses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		address, err := validation.ValidateAndNormalizeAddress(raw)
		if err != nil {
			result.Invalid = append(result.Invalid, raw)
			continue
		}
		if _, ok := seen[address]; ok {
			result.Duplicate++
			continue
		}
		seen[address] = struct{}{}
		entries = append(entries, model.WhitelistEntryModel{WhitelistId: whitelistId, WalletAddress: address})
	}

	if len(entries) > 0 {
		tx := l.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(&entries, 500)
		if tx.Error != nil {
			return nil, fmt.Errorf("导入白名单地址失败: %w", tx.Error)
		}
		result.Added = tx.RowsAffected
		result.Duplicate += int64(len(entries)) - tx.RowsAffected
	}

	l.invalidate(whitelistId)
	logger.Info("Whitelist %s: %d added, %d duplicate, %d invalid",
		whitelistId, result.Added, result.Duplicate, len(result.Invalid))
	return result, nil
}

// RemoveEntry 移除单个地址
func (l *WhitelistLogic) RemoveEntry(ctx context.Context, actor auth.Context, whitelistId, address string) error {
	if _, err := l.getManaged(ctx, actor, whitelistId); err != nil {
		return err
	}

	tx := l.db.WithContext(ctx).
		Where("whitelist_id = ? AND wallet_address = ?", whitelistId, validation.NormalizeAddress(address)).
		Delete(&model.WhitelistEntryModel{})
	if tx.Error != nil {
		return fmt.Errorf("移除白名单地址失败: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("白名单地址: %w", ErrNotFound)
	}

	l.invalidate(whitelistId)
	return nil
}

// ListEntries 分页列出白名单地址，search 非空时模糊匹配
func (l *WhitelistLogic) ListEntries(ctx context.Context, whitelistId, search string, page, pageSize int) ([]model.WhitelistEntryModel, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}

	query := l.db.WithContext(ctx).Model(&model.WhitelistEntryModel{}).Where("whitelist_id = ?", whitelistId)

	search = strings.TrimSpace(search)
	if search == "" {
		var total int64
		if err := query.Count(&total).Error; err != nil {
			return nil, 0, fmt.Errorf("获取白名单地址失败: %w", err)
		}
		var entries []model.WhitelistEntryModel
		if err := query.Order("id ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&entries).Error; err != nil {
			return nil, 0, fmt.Errorf("获取白名单地址失败: %w", err)
		}
		return entries, total, nil
	}

	var all []model.WhitelistEntryModel
	if err := query.Order("id ASC").Find(&all).Error; err != nil {
		return nil, 0, fmt.Errorf("获取白名单地址失败: %w", err)
	}
	addresses := make([]string, len(all))
	for i, e := range all {
		addresses[i] = strings.ToLower(e.WalletAddress)
	}
	matches := fuzzy.Find(strings.ToLower(search), addresses)

	total := int64(len(matches))
	start := (page - 1) * pageSize
	if start >= len(matches) {
		return []model.WhitelistEntryModel{}, total, nil
	}
	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}
	entries := make([]model.WhitelistEntryModel, 0, end-start)
	for _, m := range matches[start:end] {
		entries = append(entries, all[m.Index])
	}
	return entries, total, nil
}

// DeleteWhitelist 删除白名单及其地址，并解除阶段引用
func (l *WhitelistLogic) DeleteWhitelist(ctx context.Context, actor auth.Context, whitelistId string) error {
	if _, err := l.getManaged(ctx, actor, whitelistId); err != nil {
		return err
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("whitelist_id = ?", whitelistId).Delete(&model.WhitelistEntryModel{}).Error; err != nil {
			return err
		}
		// 引用该白名单的阶段改为公开阶段
		if err := tx.Model(&model.PhaseModel{}).
			Where("whitelist_id = ?", whitelistId).
			Updates(map[string]interface{}{"whitelist_id": nil, "whitelist_only": false}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.WhitelistModel{}, "id = ?", whitelistId)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("白名单: %w", ErrNotFound)
		}
		return fmt.Errorf("删除白名单失败: %w", err)
	}

	l.invalidate(whitelistId)
	logger.Info("Whitelist %s deleted by %s", whitelistId, actor.Address)
	return nil
}
