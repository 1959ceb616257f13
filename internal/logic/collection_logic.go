package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/logger"
	"github.com/blues/mintpad/internal/mint"
	"github.com/blues/mintpad/internal/model"
	"github.com/sahilm/fuzzy"
	"gorm.io/gorm"
)

// CollectionLogic 集合业务逻辑
type CollectionLogic struct {
	db *gorm.DB
}

// NewCollectionLogic 创建集合业务逻辑
func NewCollectionLogic(db *gorm.DB) *CollectionLogic {
	return &CollectionLogic{db: db}
}

// CollectionPatch 设置页可修改的字段，nil 表示不修改
type CollectionPatch struct {
	Name                 *string `json:"name"`
	Description          *string `json:"description"`
	TotalSupply          *int64  `json:"total_supply"`
	CapSupply            *int64  `json:"cap_supply"`
	ExtendLastPhase      *bool   `json:"extend_last_phase"`
	BannerImageURL       *string `json:"banner_image_url"`
	MobileImageURL       *string `json:"mobile_image_url"`
	AudioURL             *string `json:"audio_url"`
	CreatorRoyaltyWallet *string `json:"creator_royalty_wallet"`
	TwitterURL           *string `json:"twitter_url"`
	DiscordURL           *string `json:"discord_url"`
	WebsiteURL           *string `json:"website_url"`
}

// CollectionQuery 列表查询条件
type CollectionQuery struct {
	Owner    string
	Status   string
	Query    string // 名称模糊搜索
	Page     int
	PageSize int
}

// CreateCollection 创建集合，初始为草稿
func (l *CollectionLogic) CreateCollection(ctx context.Context, actor auth.Context, collection *model.CollectionModel) error {
	if actor.Anonymous() {
		return ErrForbidden
	}

	collection.Name = strings.TrimSpace(collection.Name)
	if collection.Name == "" {
		return invalid("集合名称不能为空")
	}
	if collection.TotalSupply <= 0 {
		return invalid("总供应量必须大于0")
	}
	if collection.CapSupply < 0 || collection.CapSupply > collection.TotalSupply {
		return invalid("供应上限必须在0到总供应量之间")
	}
	if collection.CapSupply == 0 {
		collection.CapSupply = collection.TotalSupply
	}

	collection.Id = ""
	collection.OwnerWallet = actor.Address
	collection.CollectionStatus = model.CollectionStatusDraft
	collection.LaunchStatus = nil
	collection.LaunchedAt = nil
	collection.TotalMinted = 0

	if err := l.db.WithContext(ctx).Create(collection).Error; err != nil {
		return fmt.Errorf("创建集合失败: %w", err)
	}

	logger.Info("Collection %s created by %s", collection.Id, actor.Address)
	return nil
}

// GetCollection 获取集合详情
func (l *CollectionLogic) GetCollection(ctx context.Context, id string) (*model.CollectionModel, error) {
	var collection model.CollectionModel
	if err := l.db.WithContext(ctx).First(&collection, "id = ?", id).Error; err != nil {
		return nil, notFound("集合", err)
	}
	return &collection, nil
}

// ListCollections 获取集合列表
func (l *CollectionLogic) ListCollections(ctx context.Context, q CollectionQuery) ([]model.CollectionModel, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}

	query := l.db.WithContext(ctx).Model(&model.CollectionModel{})
	if q.Owner != "" {
		query = query.Where("owner_wallet = ?", q.Owner)
	}
	if q.Status != "" {
		query = query.Where("collection_status = ?", q.Status)
	}

	if strings.TrimSpace(q.Query) == "" {
		var total int64
		if err := query.Count(&total).Error; err != nil {
			return nil, 0, fmt.Errorf("获取集合列表失败: %w", err)
		}
		var collections []model.CollectionModel
		if err := query.Order("created_at DESC").
			Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize).
			Find(&collections).Error; err != nil {
			return nil, 0, fmt.Errorf("获取集合列表失败: %w", err)
		}
		return collections, total, nil
	}

	// 模糊搜索需要在内存中排序
	var candidates []model.CollectionModel
	if err := query.Order("created_at DESC").Find(&candidates).Error; err != nil {
		return nil, 0, fmt.Errorf("获取集合列表失败: %w", err)
	}
	matches := fuzzy.FindFrom(strings.ToLower(strings.TrimSpace(q.Query)), collectionSource(candidates))

	total := int64(len(matches))
	start := (q.Page - 1) * q.PageSize
	if start >= len(matches) {
		return []model.CollectionModel{}, total, nil
	}
	end := start + q.PageSize
	if end > len(matches) {
		end = len(matches)
	}

	result := make([]model.CollectionModel, 0, end-start)
	for _, m := range matches[start:end] {
		result = append(result, candidates[m.Index])
	}
	return result, total, nil
}

// UpdateCollection 修改集合设置，不改变状态
func (l *CollectionLogic) UpdateCollection(ctx context.Context, actor auth.Context, id string, patch CollectionPatch) (*model.CollectionModel, error) {
	collection, err := l.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(collection.OwnerWallet) {
		return nil, ErrForbidden
	}

	updates := make(map[string]interface{})
	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = strings.TrimSpace(*v)
		}
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, invalid("集合名称不能为空")
		}
		setString("name", patch.Name)
	}
	setString("description", patch.Description)
	setString("banner_image_url", patch.BannerImageURL)
	setString("mobile_image_url", patch.MobileImageURL)
	setString("audio_url", patch.AudioURL)
	setString("creator_royalty_wallet", patch.CreatorRoyaltyWallet)
	setString("twitter_url", patch.TwitterURL)
	setString("discord_url", patch.DiscordURL)
	setString("website_url", patch.WebsiteURL)
	if patch.ExtendLastPhase != nil {
		// 关闭延长时，不能留下没有结束时间的阶段
		if !*patch.ExtendLastPhase {
			var openEnded int64
			if err := l.db.WithContext(ctx).Model(&model.PhaseModel{}).
				Where("collection_id = ? AND end_time IS NULL", collection.Id).
				Count(&openEnded).Error; err != nil {
				return nil, fmt.Errorf("获取阶段列表失败: %w", err)
			}
			if openEnded > 0 {
				return nil, mint.ValidationErrors{mint.EndTimeRequired}
			}
		}
		updates["extend_last_phase"] = *patch.ExtendLastPhase
	}

	total := collection.TotalSupply
	if patch.TotalSupply != nil {
		total = *patch.TotalSupply
		if total <= 0 || total < collection.TotalMinted {
			return nil, invalid("总供应量必须大于0且不小于已铸造数量")
		}
		updates["total_supply"] = total
	}
	capSupply := collection.EffectiveCap()
	if patch.CapSupply != nil {
		capSupply = *patch.CapSupply
	} else if capSupply > total {
		capSupply = total
	}
	if patch.CapSupply != nil || patch.TotalSupply != nil {
		if capSupply <= 0 || capSupply > total || capSupply < collection.TotalMinted {
			return nil, invalid("供应上限必须不超过总供应量且不小于已铸造数量")
		}
		updates["cap_supply"] = capSupply
	}

	if len(updates) == 0 {
		return nil, invalid("没有要更新的字段")
	}

	if err := l.db.WithContext(ctx).Model(collection).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("更新集合失败: %w", err)
	}

	return l.GetCollection(ctx, id)
}

// collectionSource 实现 fuzzy.Source，按名称匹配
type collectionSource []model.CollectionModel

func (s collectionSource) String(i int) string {
	return strings.ToLower(s[i].Name)
}

func (s collectionSource) Len() int {
	return len(s)
}

// loadManaged 获取集合并校验管理权限
func loadManaged(ctx context.Context, db *gorm.DB, actor auth.Context, id string) (*model.CollectionModel, error) {
	var collection model.CollectionModel
	if err := db.WithContext(ctx).First(&collection, "id = ?", id).Error; err != nil {
		return nil, notFound("集合", err)
	}
	if !actor.CanManage(collection.OwnerWallet) {
		return nil, ErrForbidden
	}
	return &collection, nil
}
