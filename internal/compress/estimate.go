// Package compress 估算压缩后的图片大小，用于上线前提示铭文大小风险。
// 只做估算，不参与任何状态判断。
package compress

import (
	"fmt"
	"math"
	"strings"
)

// Format 输出格式
type Format string

const (
	FormatWebP Format = "webp"
	FormatJPG  Format = "jpg"
	FormatPNG  Format = "png"
)

const (
	// DefaultInscriptionLimitKB 单文件铭文大小上限
	DefaultInscriptionLimitKB = 200

	minKB = 10
	// 历史估算偏低，统一上调
	upliftFactor = 1.1 * 1.15
	// 色彩丰富图片相对普通图片的放大倍数
	colorfulFactor = 1.5
)

// 每像素比特数基准
var bitsPerPixel = map[Format]float64{
	FormatWebP: 1.4,
	FormatJPG:  1.75,
	FormatPNG:  4.5,
}

// ParseFormat 解析格式名称，jpeg 视为 jpg
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "jpeg":
		return FormatJPG, nil
	case FormatWebP, FormatJPG, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", s)
	}
}

// Lossless 是否为无损格式
func (f Format) Lossless() bool {
	return f == FormatPNG
}

// Estimate 估算结果，单位 KB
type Estimate struct {
	LowKB  int `json:"low_kb"`  // 普通图片
	HighKB int `json:"high_kb"` // 明亮/色彩丰富的图片
}

// WarningLevel 超出铭文上限的可能性
type WarningLevel string

const (
	WarningNone     WarningLevel = "none"
	WarningPossible WarningLevel = "possible"
	WarningLikely   WarningLevel = "likely"
)

// EstimateSize 根据尺寸、格式和质量(1-100)估算输出大小。PNG 忽略质量。
func EstimateSize(width, height int, format Format, quality int) (Estimate, error) {
	if width <= 0 || height <= 0 {
		return Estimate{}, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	bpp, ok := bitsPerPixel[format]
	if !ok {
		return Estimate{}, fmt.Errorf("unsupported image format %q", format)
	}

	qualityFactor := 1.0
	if !format.Lossless() {
		q := math.Max(0, math.Min(100, float64(quality)))
		qualityFactor = 0.4 + 0.6*(q/100)
	}

	pixels := float64(width) * float64(height)
	baseKB := pixels * bpp * qualityFactor / 8 / 1024
	adjusted := baseKB * upliftFactor

	return Estimate{
		LowKB:  maxInt(minKB, int(math.Round(adjusted))),
		HighKB: maxInt(minKB, int(math.Round(adjusted*colorfulFactor))),
	}, nil
}

// Warning 对比铭文上限: 普通图片也超出为 likely，仅色彩丰富时超出为 possible
func (e Estimate) Warning(limitKB int) WarningLevel {
	if limitKB <= 0 {
		limitKB = DefaultInscriptionLimitKB
	}
	switch {
	case e.LowKB > limitKB:
		return WarningLikely
	case e.HighKB > limitKB:
		return WarningPossible
	default:
		return WarningNone
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
