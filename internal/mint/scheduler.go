package mint

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/model"
	"github.com/blues/mintpad/internal/whitelist"
)

// Resolution 当前应使用的阶段
type Resolution struct {
	Phase     *model.PhaseModel
	Remaining int64 // 该阶段剩余可铸造数量
	Extended  bool  // 通过"延长最后阶段"命中
}

// SortPhases 按开始时间升序返回副本，开始时间相同时按创建时间和 ID 保证顺序稳定。
// 没有开始时间的阶段排在最后。
func SortPhases(phases []model.PhaseModel) []model.PhaseModel {
	ordered := make([]model.PhaseModel, len(phases))
	copy(ordered, phases)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		switch {
		case a.StartTime == nil || b.StartTime == nil:
			return a.StartTime != nil && b.StartTime == nil
		case !a.StartTime.Equal(*b.StartTime):
			return a.StartTime.Before(*b.StartTime)
		case !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.Id < b.Id
		}
	})
	return ordered
}

// RemainingAllocation 阶段剩余额度: 有阶段配额时取配额余量与集合余量的较小值
func RemainingAllocation(collection *model.CollectionModel, phase *model.PhaseModel) int64 {
	remaining := collection.RemainingSupply()
	if phase.PhaseAllocation != nil {
		if left := *phase.PhaseAllocation - phase.PhaseMinted; left < remaining {
			remaining = left
		}
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ActivePhase 按时间计算当前阶段。
// 多个阶段同时有效时取开始时间最晚的；选中的阶段已完成或额度用尽时，
// 同时返回 Resolution 和对应的错误。
func ActivePhase(collection *model.CollectionModel, phases []model.PhaseModel, now time.Time) (*Resolution, error) {
	ordered := SortPhases(phases)

	lastIdx := -1
	for i := range ordered {
		if ordered[i].StartTime != nil {
			lastIdx = i
		}
	}

	chosen := -1
	extended := false
	for i := range ordered {
		p := &ordered[i]
		if p.StartTime == nil || p.StartTime.After(now) {
			continue
		}
		if p.IsPaused() {
			continue
		}

		inWindow := p.EndTime != nil && now.Before(*p.EndTime)
		override := !inWindow && i == lastIdx && collection.ExtendLastPhase
		if !inWindow && !override {
			continue
		}

		// ordered 已按开始时间升序，后出现的候选开始时间不早于之前的
		chosen = i
		extended = override
	}

	if chosen < 0 {
		return nil, ErrNoActivePhase
	}

	phase := ordered[chosen]
	res := &Resolution{
		Phase:     &phase,
		Remaining: RemainingAllocation(collection, &phase),
		Extended:  extended,
	}

	if phase.IsCompleted {
		return res, ErrPhaseCompleted
	}
	if res.Remaining <= 0 {
		return res, ErrPhaseSoldOut
	}
	return res, nil
}

// Authorize 检查铸造者是否满足阶段的白名单要求
func Authorize(ctx context.Context, res *Resolution, store whitelist.Store, minter auth.Context) error {
	if !res.Phase.WhitelistOnly {
		return nil
	}
	if res.Phase.WhitelistId == nil || minter.Anonymous() {
		return ErrNotWhitelisted
	}

	eligible, err := store.IsEligible(ctx, *res.Phase.WhitelistId, minter.Address)
	if err != nil {
		return fmt.Errorf("failed to check whitelist: %w", err)
	}
	if !eligible {
		return ErrNotWhitelisted
	}
	return nil
}

// Resolve 为铸造者解析当前阶段: 集合必须处于 launchpad_live 且活动未结束，
// 阶段可用，且满足白名单要求。
func Resolve(ctx context.Context, collection *model.CollectionModel, phases []model.PhaseModel, store whitelist.Store, minter auth.Context, now time.Time) (*Resolution, error) {
	if collection.CollectionStatus != model.CollectionStatusLaunchpadLive {
		return nil, ErrCollectionNotLive
	}
	if collection.LaunchStatus != nil && *collection.LaunchStatus == model.LaunchStatusCompleted {
		return nil, ErrNoActivePhase
	}

	res, err := ActivePhase(collection, phases, now)
	if err != nil {
		return res, err
	}

	if err := Authorize(ctx, res, store, minter); err != nil {
		return res, err
	}
	return res, nil
}
