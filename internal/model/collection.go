package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionStatus 集合的可见性/流程状态
type CollectionStatus string

const (
	CollectionStatusDraft         CollectionStatus = "draft"          // 草稿
	CollectionStatusLaunchpad     CollectionStatus = "launchpad"      // 已进入发射台，未公开
	CollectionStatusLaunchpadLive CollectionStatus = "launchpad_live" // 公开铸造中
	CollectionStatusSelfInscribe  CollectionStatus = "self_inscribe"  // 自助铭刻
	CollectionStatusMarketplace   CollectionStatus = "marketplace"    // 二级市场
)

// LaunchStatus 铸造活动状态，仅在 launchpad / launchpad_live 下有意义
type LaunchStatus string

const (
	LaunchStatusDraft     LaunchStatus = "draft"
	LaunchStatusUpcoming  LaunchStatus = "upcoming"
	LaunchStatusActive    LaunchStatus = "active"
	LaunchStatusCompleted LaunchStatus = "completed"
)

// CollectionModel NFT 集合
type CollectionModel struct {
	Id        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	OwnerWallet string `json:"owner_wallet" gorm:"not null;index"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`

	// 状态
	CollectionStatus CollectionStatus `json:"collection_status" gorm:"default:'draft';index"`
	LaunchStatus     *LaunchStatus    `json:"launch_status"`
	LaunchedAt       *time.Time       `json:"launched_at"`

	// 供应量
	TotalSupply     int64 `json:"total_supply" gorm:"not null"`
	CapSupply       int64 `json:"cap_supply" gorm:"default:0"` // 0 表示等于 total_supply
	TotalMinted     int64 `json:"total_minted" gorm:"default:0"`
	ExtendLastPhase bool  `json:"extend_last_phase" gorm:"default:false"`

	// 媒体与社交信息，仅做非空校验
	BannerImageURL       string `json:"banner_image_url"`
	MobileImageURL       string `json:"mobile_image_url"`
	AudioURL             string `json:"audio_url"`
	CreatorRoyaltyWallet string `json:"creator_royalty_wallet"`
	TwitterURL           string `json:"twitter_url"`
	DiscordURL           string `json:"discord_url"`
	WebsiteURL           string `json:"website_url"`
}

// TableName 自定义表名
func (CollectionModel) TableName() string {
	return "collection"
}

// BeforeCreate 生成主键
func (c *CollectionModel) BeforeCreate(tx *gorm.DB) error {
	if c.Id == "" {
		c.Id = uuid.NewString()
	}
	return nil
}

// EffectiveCap 实际供应上限
func (c *CollectionModel) EffectiveCap() int64 {
	if c.CapSupply <= 0 || c.CapSupply > c.TotalSupply {
		return c.TotalSupply
	}
	return c.CapSupply
}

// RemainingSupply 剩余可铸造数量
func (c *CollectionModel) RemainingSupply() int64 {
	remaining := c.EffectiveCap() - c.TotalMinted
	if remaining < 0 {
		return 0
	}
	return remaining
}

// HasLaunched 是否曾经进入过 launchpad_live
func (c *CollectionModel) HasLaunched() bool {
	return c.LaunchStatus != nil && *c.LaunchStatus != LaunchStatusDraft
}
