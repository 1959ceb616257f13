package model

import (
	"time"
)

// MintRecordModel 铸造记录
type MintRecordModel struct {
	Id            int64     `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	CollectionId  string    `json:"collection_id" gorm:"not null;index"`
	PhaseId       string    `json:"phase_id" gorm:"not null;index:idx_phase_wallet"`
	WalletAddress string    `json:"wallet_address" gorm:"not null;index:idx_phase_wallet"`
	Quantity      int64     `json:"quantity" gorm:"not null"`
	PriceSats     int64     `json:"price_sats"`
	TxId          string    `json:"tx_id" gorm:"uniqueIndex"`
}

// TableName 自定义表名
func (MintRecordModel) TableName() string {
	return "mint_record"
}
