package scheduler

import (
	"fmt"

	"github.com/blues/mintpad/internal/config"
	"github.com/blues/mintpad/internal/logger"
	"github.com/blues/mintpad/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Job 定时任务
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(db *gorm.DB, cfg *config.Config) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Manager{
		scheduler: s,
		db:        db,
		config:    cfg,
	}, nil
}

// Start 注册所有任务并启动调度器
func Start(db *gorm.DB, cfg *config.Config) (*Manager, error) {
	manager, err := NewManager(db, cfg)
	if err != nil {
		return nil, err
	}

	if err := manager.RegisterJobs(); err != nil {
		return nil, err
	}

	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager, nil
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() error {
	sweep := logic.NewSweepLogic(m.db, logic.NewLaunchLogic(m.db))
	return m.Register(NewPhaseStatusJob(sweep, m.config.Task))
}

// Register 注册单个任务，上一次未执行完时顺延
func (m *Manager) Register(job Job) error {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.GetName(), err)
	}
	return nil
}

// Jobs 已注册的任务
func (m *Manager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
