package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/launch"
	"github.com/blues/mintpad/internal/logger"
	"github.com/blues/mintpad/internal/mint"
	"github.com/blues/mintpad/internal/model"
	"gorm.io/gorm"
)

// SweepLogic 定时维护上线集合的阶段与活动状态
type SweepLogic struct {
	db     *gorm.DB
	launch *LaunchLogic
}

// NewSweepLogic 创建状态维护逻辑
func NewSweepLogic(db *gorm.DB, launchLogic *LaunchLogic) *SweepLogic {
	return &SweepLogic{db: db, launch: launchLogic}
}

// SweepResult 单个集合的处理结果
type SweepResult struct {
	CompletedPhases []string `json:"completed_phases"`
	Activated       bool     `json:"activated"`
	Completed       bool     `json:"completed"`
}

// LiveCollectionIds 需要维护的集合: 已上线且活动未结束
func (l *SweepLogic) LiveCollectionIds(ctx context.Context) ([]string, error) {
	var ids []string
	err := l.db.WithContext(ctx).Model(&model.CollectionModel{}).
		Where("collection_status = ?", model.CollectionStatusLaunchpadLive).
		Where("launch_status IS NULL OR launch_status <> ?", model.LaunchStatusCompleted).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("获取上线集合失败: %w", err)
	}
	return ids, nil
}

// SweepCollection 结束到期或额度用尽的阶段，推进 upcoming 到 active，
// 供应量用尽或全部阶段结束时将活动标记为完成。
// 延长中的最后阶段不会因时间到期而结束。
func (l *SweepLogic) SweepCollection(ctx context.Context, collectionId string, now time.Time) (*SweepResult, error) {
	var collection model.CollectionModel
	if err := l.db.WithContext(ctx).First(&collection, "id = ?", collectionId).Error; err != nil {
		return nil, notFound("集合", err)
	}
	if launch.Current(&collection) != launch.StateLaunchpadLive {
		return &SweepResult{}, nil
	}

	phases, err := loadPhases(ctx, l.db, collectionId)
	if err != nil {
		return nil, err
	}
	ordered := mint.SortPhases(phases)

	lastIdx := -1
	for i := range ordered {
		if ordered[i].StartTime != nil {
			lastIdx = i
		}
	}

	result := &SweepResult{CompletedPhases: []string{}}
	started := false
	allCompleted := len(ordered) > 0

	for i := range ordered {
		p := &ordered[i]
		if p.StartTime != nil && !p.StartTime.After(now) {
			started = true
		}
		if p.IsCompleted {
			continue
		}

		ended := p.EndTime != nil && !now.Before(*p.EndTime)
		if ended && i == lastIdx && collection.ExtendLastPhase {
			ended = false
		}
		exhausted := p.PhaseAllocation != nil && p.PhaseMinted >= *p.PhaseAllocation

		if !ended && !exhausted {
			allCompleted = false
			continue
		}

		if err := l.db.WithContext(ctx).Model(&model.PhaseModel{}).
			Where("id = ? AND is_completed = ?", p.Id, false).
			Update("is_completed", true).Error; err != nil {
			return nil, fmt.Errorf("结束阶段失败: %w", err)
		}
		result.CompletedPhases = append(result.CompletedPhases, p.Id)
		logger.Info("Phase %s of collection %s auto-completed (ended=%v, exhausted=%v)", p.Id, collectionId, ended, exhausted)
	}

	if collection.RemainingSupply() == 0 || allCompleted {
		if _, err := l.launch.Transition(ctx, auth.System(), collectionId, launch.StateCompleted); err != nil {
			return nil, err
		}
		result.Completed = true
		return result, nil
	}

	if started && collection.LaunchStatus != nil && *collection.LaunchStatus == model.LaunchStatusUpcoming {
		update := l.db.WithContext(ctx).Model(&model.CollectionModel{}).
			Where("id = ? AND launch_status = ?", collectionId, model.LaunchStatusUpcoming).
			Update("launch_status", model.LaunchStatusActive)
		if update.Error != nil {
			return nil, fmt.Errorf("更新活动状态失败: %w", update.Error)
		}
		result.Activated = update.RowsAffected > 0
		if result.Activated {
			logger.Info("Collection %s is now active", collectionId)
		}
	}

	return result, nil
}
