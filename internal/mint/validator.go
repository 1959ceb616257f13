package mint

import (
	"context"
	"fmt"
	"time"

	"github.com/blues/mintpad/internal/model"
	"github.com/blues/mintpad/internal/whitelist"
)

const (
	// DustLimitSats 非零支付的最小金额
	DustLimitSats int64 = 546
	// MaxPhaseWindow 单个阶段最长时长
	MaxPhaseWindow = 10 * 24 * time.Hour
	MinPerWallet   = 1
	MaxPerWallet   = 10
)

// Validate 校验单个阶段，收集全部错误而不是遇错即停。
// whitelists 为该集合下的白名单。
func Validate(phase *model.PhaseModel, collection *model.CollectionModel, whitelists []model.WhitelistModel) ValidationErrors {
	var errs ValidationErrors

	if phase.PhaseName == "" {
		errs = append(errs, NameRequired)
	}

	if phase.StartTime == nil || phase.StartTime.IsZero() {
		errs = append(errs, StartTimeRequired)
	}

	if phase.EndTime == nil {
		if !collection.ExtendLastPhase {
			errs = append(errs, EndTimeRequired)
		}
	} else if phase.StartTime != nil && !phase.StartTime.IsZero() {
		if !phase.EndTime.After(*phase.StartTime) {
			errs = append(errs, EndBeforeStart)
		} else if phase.EndTime.Sub(*phase.StartTime) > MaxPhaseWindow {
			errs = append(errs, WindowTooLong)
		}
	}

	switch {
	case phase.MintPriceSats < 0:
		errs = append(errs, PriceNegative)
	case phase.MintPriceSats > 0 && phase.MintPriceSats < DustLimitSats:
		errs = append(errs, PriceBelowDustLimit)
	}

	if phase.MaxPerWallet != nil && (*phase.MaxPerWallet < MinPerWallet || *phase.MaxPerWallet > MaxPerWallet) {
		errs = append(errs, MaxPerWalletOutOfRange)
	}

	if phase.PhaseAllocation != nil && *phase.PhaseAllocation <= 0 {
		errs = append(errs, AllocationInvalid)
	}

	if phase.WhitelistOnly && phase.WhitelistId != nil && !ownsWhitelist(collection, whitelists, *phase.WhitelistId) {
		errs = append(errs, WhitelistNotFound)
	}

	return errs
}

// ValidateSchedule 校验阶段集合: 只有按开始时间排序后的最后一个阶段可以不设结束时间
func ValidateSchedule(phases []model.PhaseModel) ValidationErrors {
	ordered := SortPhases(phases)
	for i := 0; i < len(ordered)-1; i++ {
		if ordered[i].EndTime == nil {
			return ValidationErrors{OpenEndedPhaseNotLast}
		}
	}
	return nil
}

// Warnings 返回不阻止保存的配置提示
func Warnings(ctx context.Context, phase *model.PhaseModel, store whitelist.Store) ([]WarningKind, error) {
	if !phase.WhitelistOnly {
		return nil, nil
	}
	if phase.WhitelistId == nil {
		return []WarningKind{WhitelistUnassigned}, nil
	}

	count, err := store.EntryCount(ctx, *phase.WhitelistId)
	if err != nil {
		return nil, fmt.Errorf("failed to count whitelist entries: %w", err)
	}
	if count == 0 {
		return []WarningKind{WhitelistEmpty}, nil
	}
	return nil, nil
}

func ownsWhitelist(collection *model.CollectionModel, whitelists []model.WhitelistModel, id string) bool {
	for _, wl := range whitelists {
		if wl.Id == id && wl.CollectionId == collection.Id {
			return true
		}
	}
	return false
}
