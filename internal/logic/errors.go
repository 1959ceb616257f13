package logic

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("记录不存在")
	ErrForbidden    = errors.New("无权操作该集合")
	ErrInvalidInput = errors.New("参数错误")
	ErrConflict     = errors.New("集合状态已被修改，请刷新后重试")
)

// notFound 统一包装 gorm 的未找到错误
func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("获取%s失败: %w", what, err)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
