package mint

import (
	"strings"
	"time"

	"github.com/blues/mintpad/internal/model"
	"github.com/blues/mintpad/internal/wallclock"
)

// PhaseDraft 表单提交的阶段数据，时间为本地时间字符串
type PhaseDraft struct {
	PhaseName       string  `json:"phase_name"`
	StartTime       string  `json:"start_time"` // datetime-local 或 RFC3339
	EndTime         string  `json:"end_time"`
	Timezone        string  `json:"timezone"` // IANA 时区，空值使用默认时区
	MintPriceSats   int64   `json:"mint_price_sats"`
	WhitelistOnly   bool    `json:"whitelist_only"`
	WhitelistId     *string `json:"whitelist_id"`
	MaxPerWallet    *int    `json:"max_per_wallet"`
	PhaseAllocation *int64  `json:"phase_allocation"`
}

// ClampMaxPerWallet 表单层把每钱包限购夹到 1-10
func ClampMaxPerWallet(v *int) *int {
	if v == nil {
		return nil
	}
	clamped := *v
	if clamped < MinPerWallet {
		clamped = MinPerWallet
	}
	if clamped > MaxPerWallet {
		clamped = MaxPerWallet
	}
	return &clamped
}

// Apply 将草稿写入 phase。时区无效时返回 error；开始时间无法解析时置空，
// 交由 Validate 报告 StartTimeRequired；结束时间填写了但无法解析时返回 EndTimeInvalid。
func (d *PhaseDraft) Apply(phase *model.PhaseModel, defaultZone *time.Location) (ValidationErrors, error) {
	loc := defaultZone
	if strings.TrimSpace(d.Timezone) != "" {
		zone, err := wallclock.LoadZone(d.Timezone)
		if err != nil {
			return nil, err
		}
		loc = zone
	}

	var errs ValidationErrors

	phase.PhaseName = strings.TrimSpace(d.PhaseName)

	phase.StartTime = nil
	if t, err := wallclock.ToUTC(d.StartTime, loc); err == nil {
		phase.StartTime = &t
	}

	end, err := wallclock.ParseOptional(d.EndTime, loc)
	if err != nil {
		errs = append(errs, EndTimeInvalid)
	}
	phase.EndTime = end

	phase.MintPriceSats = d.MintPriceSats
	phase.WhitelistOnly = d.WhitelistOnly
	phase.WhitelistId = nil
	if d.WhitelistId != nil && strings.TrimSpace(*d.WhitelistId) != "" {
		id := strings.TrimSpace(*d.WhitelistId)
		phase.WhitelistId = &id
	}
	phase.MaxPerWallet = d.MaxPerWallet
	phase.PhaseAllocation = d.PhaseAllocation
	return errs, nil
}
