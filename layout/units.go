package layout

import "math"

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// minWidthFactor 近似一个字符的宽度（fontSize 的 0.75 倍）。
const minWidthFactor = 0.75

// MinFieldWidth 返回字段宽度下限，单位为页面宽度的比例。
func MinFieldWidth(fontSize, pageWidth float64) float64 {
	if pageWidth <= 0 {
		return 0
	}
	return fontSize * minWidthFactor / pageWidth
}

// ClampFieldWidth 保证字段宽度不小于 MinFieldWidth。
func ClampFieldWidth(width, fontSize, pageWidth float64) float64 {
	return math.Max(width, MinFieldWidth(fontSize, pageWidth))
}
