package launch

import (
	"fmt"
	"strings"
	"time"

	"github.com/blues/mintpad/internal/auth"
	"github.com/blues/mintpad/internal/mint"
	"github.com/blues/mintpad/internal/model"
	"github.com/go-playground/validator/v10"
)

// State 发射流程状态
type State string

const (
	StateDraft         State = "draft"
	StateLaunchpad     State = "launchpad"
	StateLaunchpadLive State = "launchpad_live"
	StateCompleted     State = "completed"
)

// GuardReason 状态流转被拒绝的原因
type GuardReason string

const (
	ReasonForbidden            GuardReason = "forbidden"
	ReasonInvalidTransition    GuardReason = "invalid_transition"
	ReasonMissingRoyaltyWallet GuardReason = "missing_royalty_wallet"
	ReasonMissingBanner        GuardReason = "missing_banner"
	ReasonInvalidBannerURL     GuardReason = "invalid_banner_url"
	ReasonNoPhases             GuardReason = "no_phases"
	ReasonAlreadyLaunched      GuardReason = "already_launched"
)

// GuardError 状态流转前置条件不满足
type GuardError struct {
	Reason  GuardReason
	Message string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func guard(reason GuardReason, format string, args ...interface{}) *GuardError {
	return &GuardError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Result 流转结果，由调用方写回集合并持久化
type Result struct {
	From             State
	To               State
	CollectionStatus model.CollectionStatus
	LaunchStatus     *model.LaunchStatus
	LaunchedAt       *time.Time
}

// ApplyTo 将结果写回集合
func (r *Result) ApplyTo(c *model.CollectionModel) {
	c.CollectionStatus = r.CollectionStatus
	c.LaunchStatus = r.LaunchStatus
	c.LaunchedAt = r.LaunchedAt
}

var validate = validator.New()

// Current 集合当前所处的流程状态
func Current(c *model.CollectionModel) State {
	if c.LaunchStatus != nil && *c.LaunchStatus == model.LaunchStatusCompleted {
		return StateCompleted
	}
	return State(c.CollectionStatus)
}

// Transition 计算从当前状态到 target 的流转。集合本身不会被修改。
func Transition(actor auth.Context, c *model.CollectionModel, target State, phases []model.PhaseModel, now time.Time) (*Result, error) {
	if !actor.CanManage(c.OwnerWallet) {
		return nil, guard(ReasonForbidden, "只有集合创建者或管理员可以修改状态")
	}

	from := Current(c)
	res := &Result{
		From:             from,
		To:               target,
		CollectionStatus: c.CollectionStatus,
		LaunchStatus:     c.LaunchStatus,
		LaunchedAt:       c.LaunchedAt,
	}

	switch {
	case from == StateDraft && target == StateLaunchpad:
		res.CollectionStatus = model.CollectionStatusLaunchpad

	case from == StateLaunchpad && target == StateLaunchpadLive:
		if err := checkLaunchable(c, phases); err != nil {
			return nil, err
		}
		status := launchStatusAt(phases, now)
		res.CollectionStatus = model.CollectionStatusLaunchpadLive
		res.LaunchStatus = &status
		if res.LaunchedAt == nil {
			launchedAt := now.UTC()
			res.LaunchedAt = &launchedAt
		}

	case from == StateLaunchpadLive && target == StateLaunchpad:
		// 下架只影响可见性，保留 launch_status 以记录曾经上线
		res.CollectionStatus = model.CollectionStatusLaunchpad

	case from == StateCompleted && target == StateLaunchpad && c.CollectionStatus == model.CollectionStatusLaunchpadLive:
		// 已结束的活动仍可下架，launch_status 保持 completed
		res.CollectionStatus = model.CollectionStatusLaunchpad

	case from == StateLaunchpad && target == StateDraft:
		if c.HasLaunched() {
			return nil, guard(ReasonAlreadyLaunched, "集合已经上线过，不能退回草稿")
		}
		res.CollectionStatus = model.CollectionStatusDraft
		res.LaunchStatus = nil

	case from == StateLaunchpadLive && target == StateCompleted:
		completed := model.LaunchStatusCompleted
		res.LaunchStatus = &completed

	default:
		return nil, guard(ReasonInvalidTransition, "不支持从 %s 变更为 %s", from, target)
	}

	return res, nil
}

// checkLaunchable 上线前置条件，只返回第一个缺失项
func checkLaunchable(c *model.CollectionModel, phases []model.PhaseModel) error {
	if strings.TrimSpace(c.CreatorRoyaltyWallet) == "" {
		return guard(ReasonMissingRoyaltyWallet, "请先设置创作者收款钱包")
	}
	banner := strings.TrimSpace(c.BannerImageURL)
	if banner == "" {
		return guard(ReasonMissingBanner, "请先上传横幅图片")
	}
	if err := validate.Var(banner, "url"); err != nil {
		return guard(ReasonInvalidBannerURL, "横幅图片地址不是有效的URL")
	}
	if len(phases) == 0 {
		return guard(ReasonNoPhases, "至少需要一个铸造阶段")
	}
	return nil
}

// launchStatusAt 上线时最早的阶段尚未开始则为 upcoming
func launchStatusAt(phases []model.PhaseModel, now time.Time) model.LaunchStatus {
	ordered := mint.SortPhases(phases)
	if len(ordered) > 0 && ordered[0].StartTime != nil && ordered[0].StartTime.After(now) {
		return model.LaunchStatusUpcoming
	}
	return model.LaunchStatusActive
}
