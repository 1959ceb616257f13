// Package wallclock 统一处理表单本地时间与 UTC 时间之间的转换。
//
// 表单使用 HTML datetime-local 的格式（不带时区），时区由调用方显式给出。
// 所有持久化与比较都在 UTC 上进行。
package wallclock

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LocalLayout datetime-local 输入格式
const LocalLayout = "2006-01-02T15:04"

// localLayoutWithSeconds 部分浏览器会带秒
const localLayoutWithSeconds = "2006-01-02T15:04:05"

// ErrEmpty 输入为空
var ErrEmpty = errors.New("wallclock: empty local time")

// ErrSkipped 本地时间落在夏令时切换跳过的区间内，不存在对应的时刻
var ErrSkipped = errors.New("wallclock: local time does not exist in zone")

// LoadZone 解析时区名称，空字符串视为 UTC
func LoadZone(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("wallclock: unknown time zone %q: %w", name, err)
	}
	return loc, nil
}

// ToUTC 将 loc 时区下的本地时间字符串转换为 UTC 时刻。
// 也接受带偏移量的 RFC3339 字符串，此时忽略 loc。
func ToUTC(local string, loc *time.Location) (time.Time, error) {
	local = strings.TrimSpace(local)
	if local == "" {
		return time.Time{}, ErrEmpty
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339, local); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range []string{LocalLayout, localLayoutWithSeconds} {
		if t, err := time.ParseInLocation(layout, local, loc); err == nil {
			// 夏令时跳过的时刻会被 time 包顺延，这里直接拒绝
			if t.Format(layout) != local {
				return time.Time{}, fmt.Errorf("%w: %q in %s", ErrSkipped, local, loc)
			}
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("wallclock: cannot parse %q as local time", local)
}

// FromUTC 将 UTC 时刻格式化为 loc 时区下的本地时间字符串
func FromUTC(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	if t.Second() != 0 {
		return t.In(loc).Format(localLayoutWithSeconds)
	}
	return t.In(loc).Format(LocalLayout)
}

// ParseOptional 空字符串返回 nil, 否则同 ToUTC
func ParseOptional(local string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(local) == "" {
		return nil, nil
	}
	t, err := ToUTC(local, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
