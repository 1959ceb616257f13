package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/launch"
	"github.com/blues/mintpad/internal/logger"
	"github.com/blues/mintpad/internal/model"
	"gorm.io/gorm"
)

// LaunchLogic 集合发射流程
type LaunchLogic struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLaunchLogic 创建发射流程逻辑
func NewLaunchLogic(db *gorm.DB) *LaunchLogic {
	return &LaunchLogic{db: db, now: time.Now}
}

// Transition 执行状态流转并记录流转历史
func (l *LaunchLogic) Transition(ctx context.Context, actor auth.Context, collectionId string, target launch.State) (*model.CollectionModel, error) {
	var collection model.CollectionModel
	var result *launch.Result

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&collection, "id = ?", collectionId).Error; err != nil {
			return notFound("集合", err)
		}

		var phases []model.PhaseModel
		if err := tx.Where("collection_id = ?", collectionId).Find(&phases).Error; err != nil {
			return fmt.Errorf("获取阶段列表失败: %w", err)
		}

		res, err := launch.Transition(actor, &collection, target, phases, l.now())
		if err != nil {
			return err
		}
		result = res

		// 以当前状态为条件更新，防止并发流转互相覆盖
		update := tx.Model(&model.CollectionModel{}).
			Where("id = ? AND collection_status = ?", collection.Id, collection.CollectionStatus).
			Updates(map[string]interface{}{
				"collection_status": res.CollectionStatus,
				"launch_status":     res.LaunchStatus,
				"launched_at":       res.LaunchedAt,
			})
		if update.Error != nil {
			return fmt.Errorf("更新集合状态失败: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			return ErrConflict
		}

		record := &model.LaunchTransitionModel{
			CollectionId: collection.Id,
			FromStatus:   string(res.From),
			ToStatus:     string(res.To),
			Actor:        actor.Address,
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("记录状态流转失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.ApplyTo(&collection)
	logger.Info("Collection %s: %s -> %s by %s", collection.Id, result.From, result.To, actor.Address)
	return &collection, nil
}

// History 状态流转历史，按时间倒序
func (l *LaunchLogic) History(ctx context.Context, collectionId string) ([]model.LaunchTransitionModel, error) {
	var records []model.LaunchTransitionModel
	if err := l.db.WithContext(ctx).
		Where("collection_id = ?", collectionId).
		Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("获取状态流转记录失败: %w", err)
	}
	return records, nil
}
