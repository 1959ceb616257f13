package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WhitelistModel 白名单
type WhitelistModel struct {
	Id           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CollectionId string    `json:"collection_id" gorm:"not null;index"`

	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
}

// TableName 自定义表名
func (WhitelistModel) TableName() string {
	return "whitelist"
}

// BeforeCreate 生成主键
func (w *WhitelistModel) BeforeCreate(tx *gorm.DB) error {
	if w.Id == "" {
		w.Id = uuid.NewString()
	}
	return nil
}

// WhitelistEntryModel 白名单地址
type WhitelistEntryModel struct {
	Id            int64     `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	WhitelistId   string    `json:"whitelist_id" gorm:"not null;uniqueIndex:idx_whitelist_wallet"`
	WalletAddress string    `json:"wallet_address" gorm:"not null;uniqueIndex:idx_whitelist_wallet"`
}

// TableName 自定义表名
func (WhitelistEntryModel) TableName() string {
	return "whitelist_entry"
}
