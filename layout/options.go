package layout

import (
	"log"

	"github.com/ByLCY/formfill/binding"
)

// MeasureFunc returns the rendered width of text at size, in the target's unit.
// It must be pure: preview and final output rely on identical answers for
// identical substrings.
type MeasureFunc func(text string, size float64) float64

// MeasureWidth implements Measurer.
func (f MeasureFunc) MeasureWidth(text string, size float64) float64 { return f(text, size) }

// Measurer 负责测量文本宽度；预览与 PDF 各有一个实现。
type Measurer interface {
	MeasureWidth(text string, size float64) float64
}

// BuildOptions 配置布局阶段所需的依赖，例如字宽测量后端与变量表。
type BuildOptions struct {
	Measurer  Measurer
	Variables binding.Variables
	Logger    *log.Logger
	Raw       bool // 不解析占位符，直接排版模板原文
	Debug     DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Diagnostics bool // 在调试 JSON 中输出每个字段的变量诊断
}
