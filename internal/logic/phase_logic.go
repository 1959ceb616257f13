package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/logger"
	"github.com/blues/mintpad/internal/mint"
	"github.com/blues/mintpad/internal/model"
	"github.com/blues/mintpad/internal/whitelist"
	"gorm.io/gorm"
)

var ErrPhaseHasMints = errors.New("阶段已有铸造记录，不能删除")

// PhaseLogic 铸造阶段业务逻辑
type PhaseLogic struct {
	db          *gorm.DB
	store       whitelist.Store
	defaultZone *time.Location
}

// NewPhaseLogic 创建阶段业务逻辑，defaultZone 为空时使用 UTC
func NewPhaseLogic(db *gorm.DB, store whitelist.Store, defaultZone *time.Location) *PhaseLogic {
	if defaultZone == nil {
		defaultZone = time.UTC
	}
	return &PhaseLogic{db: db, store: store, defaultZone: defaultZone}
}

// SaveResult 保存结果及提示
type SaveResult struct {
	Phase    *model.PhaseModel  `json:"phase"`
	Warnings []mint.WarningKind `json:"warnings"`
}

// ListPhases 按开始时间排序的阶段列表
func (l *PhaseLogic) ListPhases(ctx context.Context, collectionId string) ([]model.PhaseModel, error) {
	phases, err := loadPhases(ctx, l.db, collectionId)
	if err != nil {
		return nil, err
	}
	return mint.SortPhases(phases), nil
}

// GetPhase 获取阶段详情
func (l *PhaseLogic) GetPhase(ctx context.Context, phaseId string) (*model.PhaseModel, error) {
	var phase model.PhaseModel
	if err := l.db.WithContext(ctx).First(&phase, "id = ?", phaseId).Error; err != nil {
		return nil, notFound("阶段", err)
	}
	return &phase, nil
}

// CreatePhase 根据表单草稿创建阶段
func (l *PhaseLogic) CreatePhase(ctx context.Context, actor auth.Context, collectionId string, draft mint.PhaseDraft) (*SaveResult, error) {
	collection, err := loadManaged(ctx, l.db, actor, collectionId)
	if err != nil {
		return nil, err
	}

	phase := &model.PhaseModel{CollectionId: collection.Id}
	if err := l.check(ctx, collection, phase, draft); err != nil {
		return nil, err
	}

	if err := l.db.WithContext(ctx).Create(phase).Error; err != nil {
		return nil, fmt.Errorf("创建阶段失败: %w", err)
	}

	logger.Info("Phase %s (%s) created for collection %s", phase.Id, phase.PhaseName, collection.Id)
	return l.result(ctx, phase)
}

// UpdatePhase 用表单草稿覆盖阶段配置，铸造计数和管理标记保持不变
func (l *PhaseLogic) UpdatePhase(ctx context.Context, actor auth.Context, phaseId string, draft mint.PhaseDraft) (*SaveResult, error) {
	phase, err := l.GetPhase(ctx, phaseId)
	if err != nil {
		return nil, err
	}
	collection, err := loadManaged(ctx, l.db, actor, phase.CollectionId)
	if err != nil {
		return nil, err
	}

	if err := l.check(ctx, collection, phase, draft); err != nil {
		return nil, err
	}
	if phase.PhaseAllocation != nil && *phase.PhaseAllocation < phase.PhaseMinted {
		return nil, invalid("阶段配额不能小于已铸造数量 %d", phase.PhaseMinted)
	}

	if err := l.db.WithContext(ctx).Select(
		"phase_name", "start_time", "end_time", "mint_price_sats", "whitelist_only",
		"whitelist_id", "max_per_wallet", "phase_allocation", "updated_at",
	).Save(phase).Error; err != nil {
		return nil, fmt.Errorf("更新阶段失败: %w", err)
	}

	return l.result(ctx, phase)
}

// check 应用草稿并执行单阶段与整体排期校验
func (l *PhaseLogic) check(ctx context.Context, collection *model.CollectionModel, phase *model.PhaseModel, draft mint.PhaseDraft) error {
	errs, err := draft.Apply(phase, l.defaultZone)
	if err != nil {
		return invalid("时区无效: %v", err)
	}

	var whitelists []model.WhitelistModel
	if err := l.db.WithContext(ctx).Where("collection_id = ?", collection.Id).Find(&whitelists).Error; err != nil {
		return fmt.Errorf("获取白名单失败: %w", err)
	}
	errs = errs.Merge(mint.Validate(phase, collection, whitelists))

	siblings, err := loadPhases(ctx, l.db, collection.Id)
	if err != nil {
		return err
	}
	schedule := make([]model.PhaseModel, 0, len(siblings)+1)
	for _, p := range siblings {
		if p.Id != phase.Id {
			schedule = append(schedule, p)
		}
	}
	schedule = append(schedule, *phase)
	errs = errs.Merge(mint.ValidateSchedule(schedule))

	return errs.Err()
}

func (l *PhaseLogic) result(ctx context.Context, phase *model.PhaseModel) (*SaveResult, error) {
	warnings, err := mint.Warnings(ctx, phase, l.store)
	if err != nil {
		return nil, err
	}
	if warnings == nil {
		warnings = []mint.WarningKind{}
	}
	return &SaveResult{Phase: phase, Warnings: warnings}, nil
}

// DeletePhase 删除尚未产生铸造的阶段
func (l *PhaseLogic) DeletePhase(ctx context.Context, actor auth.Context, phaseId string) error {
	phase, err := l.GetPhase(ctx, phaseId)
	if err != nil {
		return err
	}
	if _, err := loadManaged(ctx, l.db, actor, phase.CollectionId); err != nil {
		return err
	}
	if phase.PhaseMinted > 0 {
		return ErrPhaseHasMints
	}

	if err := l.db.WithContext(ctx).Delete(&model.PhaseModel{}, "id = ?", phaseId).Error; err != nil {
		return fmt.Errorf("删除阶段失败: %w", err)
	}
	logger.Info("Phase %s deleted by %s", phaseId, actor.Address)
	return nil
}

// SetPaused 暂停或恢复阶段。恢复后重新遵循时间窗口
func (l *PhaseLogic) SetPaused(ctx context.Context, actor auth.Context, phaseId string, paused bool) (*model.PhaseModel, error) {
	phase, err := l.GetPhase(ctx, phaseId)
	if err != nil {
		return nil, err
	}
	if _, err := loadManaged(ctx, l.db, actor, phase.CollectionId); err != nil {
		return nil, err
	}

	var isActive *bool
	if paused {
		off := false
		isActive = &off
	}
	if err := l.db.WithContext(ctx).Model(phase).Update("is_active", isActive).Error; err != nil {
		return nil, fmt.Errorf("更新阶段状态失败: %w", err)
	}
	phase.IsActive = isActive

	logger.Info("Phase %s paused=%v by %s", phaseId, paused, actor.Address)
	return phase, nil
}

// CompletePhase 手动结束阶段
func (l *PhaseLogic) CompletePhase(ctx context.Context, actor auth.Context, phaseId string) (*model.PhaseModel, error) {
	phase, err := l.GetPhase(ctx, phaseId)
	if err != nil {
		return nil, err
	}
	if _, err := loadManaged(ctx, l.db, actor, phase.CollectionId); err != nil {
		return nil, err
	}

	if err := l.db.WithContext(ctx).Model(phase).Update("is_completed", true).Error; err != nil {
		return nil, fmt.Errorf("更新阶段状态失败: %w", err)
	}
	phase.IsCompleted = true

	logger.Info("Phase %s completed by %s", phaseId, actor.Address)
	return phase, nil
}

func loadPhases(ctx context.Context, db *gorm.DB, collectionId string) ([]model.PhaseModel, error) {
	var phases []model.PhaseModel
	if err := db.WithContext(ctx).Where("collection_id = ?", collectionId).Find(&phases).Error; err != nil {
		return nil, fmt.Errorf("获取阶段列表失败: %w", err)
	}
	return phases, nil
}
