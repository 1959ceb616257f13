package mint

import (
	"errors"
	"strings"
)

// ErrorKind 阶段校验错误类型，可按字段展示
type ErrorKind string

const (
	NameRequired           ErrorKind = "name_required"
	StartTimeRequired      ErrorKind = "start_time_required"
	EndTimeRequired        ErrorKind = "end_time_required"
	EndTimeInvalid         ErrorKind = "end_time_invalid"
	EndBeforeStart         ErrorKind = "end_before_start"
	WindowTooLong          ErrorKind = "window_too_long"
	PriceNegative          ErrorKind = "price_negative"
	PriceBelowDustLimit    ErrorKind = "price_below_dust_limit"
	MaxPerWalletOutOfRange ErrorKind = "max_per_wallet_out_of_range"
	AllocationInvalid      ErrorKind = "allocation_invalid"
	WhitelistNotFound      ErrorKind = "whitelist_not_found"
	OpenEndedPhaseNotLast  ErrorKind = "open_ended_phase_not_last"
)

var kindMessages = map[ErrorKind]string{
	NameRequired:           "阶段名称不能为空",
	StartTimeRequired:      "开始时间不能为空或格式错误",
	EndTimeRequired:        "未开启延长最后阶段时必须设置结束时间",
	EndTimeInvalid:         "结束时间格式错误",
	EndBeforeStart:         "结束时间必须晚于开始时间",
	WindowTooLong:          "阶段时长不能超过10天",
	PriceNegative:          "铸造价格不能为负数",
	PriceBelowDustLimit:    "铸造价格必须为0或不低于546 sats",
	MaxPerWalletOutOfRange: "每个钱包限购数量必须在1-10之间",
	AllocationInvalid:      "阶段配额必须为正数",
	WhitelistNotFound:      "白名单不存在或不属于该集合",
	OpenEndedPhaseNotLast:  "只有最后一个阶段可以不设置结束时间",
}

// Field 错误对应的表单字段
func (k ErrorKind) Field() string {
	switch k {
	case NameRequired:
		return "phase_name"
	case StartTimeRequired:
		return "start_time"
	case EndTimeRequired, EndTimeInvalid, EndBeforeStart, WindowTooLong, OpenEndedPhaseNotLast:
		return "end_time"
	case PriceNegative, PriceBelowDustLimit:
		return "mint_price_sats"
	case MaxPerWalletOutOfRange:
		return "max_per_wallet"
	case AllocationInvalid:
		return "phase_allocation"
	case WhitelistNotFound:
		return "whitelist_id"
	default:
		return ""
	}
}

// Message 可读的错误描述
func (k ErrorKind) Message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return string(k)
}

// ValidationErrors 一次校验收集到的全部错误
type ValidationErrors []ErrorKind

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, k := range v {
		parts[i] = string(k)
	}
	return "invalid phase: " + strings.Join(parts, ", ")
}

// Has 是否包含指定错误
func (v ValidationErrors) Has(kind ErrorKind) bool {
	for _, k := range v {
		if k == kind {
			return true
		}
	}
	return false
}

// Merge 合并两组错误并去重。结束时间格式错误时不再重复报告未填写。
func (v ValidationErrors) Merge(other ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, k := range append(append(ValidationErrors{}, v...), other...) {
		if out.Has(k) {
			continue
		}
		out = append(out, k)
	}
	if !out.Has(EndTimeInvalid) {
		return out
	}
	filtered := out[:0]
	for _, k := range out {
		if k != EndTimeRequired {
			filtered = append(filtered, k)
		}
	}
	return filtered
}

// Err 无错误时返回 nil
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// WarningKind 不阻止保存的提示
type WarningKind string

const (
	WhitelistEmpty      WarningKind = "whitelist_empty"      // 白名单为空，所有人都无法铸造
	WhitelistUnassigned WarningKind = "whitelist_unassigned" // 仅白名单但未选择白名单
)

// 铸造时的拒绝原因，属于预期结果而不是故障
var (
	ErrCollectionNotLive  = errors.New("collection is not live")
	ErrNoActivePhase      = errors.New("no active phase")
	ErrPhaseCompleted     = errors.New("phase is completed")
	ErrPhaseSoldOut       = errors.New("phase allocation exhausted")
	ErrNotWhitelisted     = errors.New("wallet is not whitelisted for this phase")
	ErrWalletLimitReached = errors.New("wallet mint limit reached for this phase")
)
