package model

import (
	"time"
)

// LaunchTransitionModel 集合状态流转记录
type LaunchTransitionModel struct {
	Id           int64     `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"created_at"`
	CollectionId string    `json:"collection_id" gorm:"not null;index"`
	FromStatus   string    `json:"from_status" gorm:"not null"`
	ToStatus     string    `json:"to_status" gorm:"not null"`
	Actor        string    `json:"actor"` // 发起操作的钱包地址，自动任务为 "system"
}

// TableName 自定义表名
func (LaunchTransitionModel) TableName() string {
	return "launch_transition"
}
