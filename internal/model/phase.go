package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhaseModel 铸造阶段
type PhaseModel struct {
	Id           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CollectionId string    `json:"collection_id" gorm:"not null;index"`

	PhaseName string     `json:"phase_name" gorm:"not null"`
	StartTime *time.Time `json:"start_time" gorm:"index"` // UTC
	EndTime   *time.Time `json:"end_time"`                // UTC，仅最后一个阶段在 extend_last_phase 时可为空

	MintPriceSats   int64   `json:"mint_price_sats" gorm:"default:0"`
	WhitelistOnly   bool    `json:"whitelist_only" gorm:"default:false"`
	WhitelistId     *string `json:"whitelist_id" gorm:"index"`
	MaxPerWallet    *int    `json:"max_per_wallet"`
	PhaseAllocation *int64  `json:"phase_allocation"` // 为空表示不单独限额
	PhaseMinted     int64   `json:"phase_minted" gorm:"default:0"`

	// 管理员手动标记，与时间计算相互独立
	IsActive    *bool `json:"is_active"` // nil 表示遵循时间窗口，false 表示暂停
	IsCompleted bool  `json:"is_completed" gorm:"default:false"`
}

// TableName 自定义表名
func (PhaseModel) TableName() string {
	return "phase"
}

// BeforeCreate 生成主键
func (p *PhaseModel) BeforeCreate(tx *gorm.DB) error {
	if p.Id == "" {
		p.Id = uuid.NewString()
	}
	return nil
}

// IsPaused 是否被管理员暂停
func (p *PhaseModel) IsPaused() bool {
	return p.IsActive != nil && !*p.IsActive
}
