package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blues/mintpad/internal/config"
	"github.com/blues/mintpad/internal/logger"
	"github.com/blues/mintpad/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// PhaseStatusJob 阶段状态维护任务
type PhaseStatusJob struct {
	sweep    *logic.SweepLogic
	interval time.Duration
	workers  int
}

// SweepStats 一次执行的统计
type SweepStats struct {
	Collections     int
	CompletedPhases int
	Activated       int
	Completed       int
	Failed          int
}

// NewPhaseStatusJob 创建阶段状态维护任务
func NewPhaseStatusJob(sweep *logic.SweepLogic, cfg config.TaskConfig) *PhaseStatusJob {
	interval := time.Duration(cfg.Interval) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &PhaseStatusJob{sweep: sweep, interval: interval, workers: workers}
}

// GetName 获取任务名称
func (j *PhaseStatusJob) GetName() string {
	return "phase_status_updater"
}

// GetSchedule 获取调度配置
func (j *PhaseStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务
func (j *PhaseStatusJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	stats, err := j.Run(ctx, time.Now().UTC())
	if err != nil {
		logger.Error("Phase status update failed: %v", err)
		return
	}

	logger.Info("Phase status update completed. collections=%d phases_completed=%d activated=%d completed=%d failed=%d",
		stats.Collections, stats.CompletedPhases, stats.Activated, stats.Completed, stats.Failed)
}

// Run 并发处理所有上线中的集合，单个集合失败不影响其他集合
func (j *PhaseStatusJob) Run(ctx context.Context, now time.Time) (SweepStats, error) {
	var stats SweepStats

	ids, err := j.sweep.LiveCollectionIds(ctx)
	if err != nil {
		return stats, err
	}
	stats.Collections = len(ids)
	if len(ids) == 0 {
		return stats, nil
	}

	pool, err := ants.NewPool(j.workers)
	if err != nil {
		return stats, err
	}
	defer pool.Release()

	var (
		wg              sync.WaitGroup
		completedPhases atomic.Int64
		activated       atomic.Int64
		completed       atomic.Int64
		failed          atomic.Int64
	)

	for _, id := range ids {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()

			res, err := j.sweep.SweepCollection(ctx, id, now)
			if err != nil {
				logger.With(zap.String("collection_id", id)).Error("Failed to sweep collection: %v", err)
				failed.Add(1)
				return
			}
			completedPhases.Add(int64(len(res.CompletedPhases)))
			if res.Activated {
				activated.Add(1)
			}
			if res.Completed {
				completed.Add(1)
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit task to pool: %v", err)
			failed.Add(1)
		}
	}

	wg.Wait()

	stats.CompletedPhases = int(completedPhases.Load())
	stats.Activated = int(activated.Load())
	stats.Completed = int(completed.Load())
	stats.Failed = int(failed.Load())
	return stats, nil
}
