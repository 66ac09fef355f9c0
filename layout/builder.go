package layout

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/formfill/binding"
)

// ErrNoMeasurer is returned by Build when no width measurer is configured.
var ErrNoMeasurer = errors.New("layout: 缺少字宽测量后端 Measurer")

// Build 解析每个字段的模板，折行并计算绘制坐标。
// 页面尺寸以 pt 为单位，坐标原点位于页面左上角。
func Build(pages []PageInput, record any, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, ErrNoMeasurer
	}
	resolver := binding.Resolver{Variables: opts.Variables, Logger: opts.Logger}

	out := make([]Page, 0, len(pages))
	for i, in := range pages {
		if in.Width <= 0 || in.Height <= 0 {
			return nil, fmt.Errorf("layout: 第 %d 页尺寸无效 (%gx%g)", i+1, in.Width, in.Height)
		}
		page := Page{Index: i, Width: in.Width, Height: in.Height, Texts: make([]TextBox, 0, len(in.Fields))}
		for _, f := range in.Fields {
			content := f.Text
			var diags []binding.Diagnostic
			if !opts.Raw {
				content, diags = resolver.ResolveReport(f.Text, record)
			}
			tb := PlaceField(f, content, in.Width, in.Height, opts.Measurer)
			if opts.Debug.Diagnostics && len(diags) > 0 {
				tb.Debug = &TextBoxDebug{}
				for _, d := range diags {
					tb.Debug.Diagnostics = append(tb.Debug.Diagnostics, d.String())
				}
			}
			page.Texts = append(page.Texts, tb)
		}
		out = append(out, page)
	}
	return &Result{Pages: out}, nil
}

// PlaceField 对已解析的文本折行，并按字段的比例坐标换算出每行的位置。
//
// 第一行基线位于 y*pageHeight + fontSize，之后每行下移
// fontSize*(lineSpacing+1)。居中与右对齐依据行宽相对 width*pageWidth 偏移。
func PlaceField(f Field, content string, pageWidth, pageHeight float64, m Measurer) TextBox {
	content = norm.NFC.String(content)
	maxWidth := f.Width * pageWidth
	x := f.X * pageWidth
	top := f.Y * pageHeight
	step := f.FontSize * (f.LineSpacing + 1)

	tb := TextBox{
		FieldID:     f.ID,
		Template:    f.Text,
		Content:     content,
		X:           x,
		Y:           top,
		Width:       maxWidth,
		FontSize:    f.FontSize,
		LineSpacing: f.LineSpacing,
		Color:       f.Color,
		Align:       f.Align,
	}

	baseline := top + f.FontSize
	for _, l := range Wrap(m.MeasureWidth, f.FontSize, content, maxWidth) {
		w := m.MeasureWidth(strings.TrimRight(l.Text, " \t"), f.FontSize)
		tb.Lines = append(tb.Lines, TextLine{
			Content:   l.Text,
			Mandatory: l.Mandatory,
			X:         x + alignOffset(maxWidth, w, f.Align),
			Baseline:  baseline,
			Width:     w,
		})
		baseline += step
	}
	if n := len(tb.Lines); n > 0 {
		tb.Height = float64(n-1)*step + f.FontSize
	}
	return tb
}

// alignOffset 允许负偏移：强制切分后仍可能超出容器宽度。
func alignOffset(container, width float64, align Align) float64 {
	switch align {
	case AlignCenter:
		return (container - width) / 2
	case AlignRight:
		return container - width
	default:
		return 0
	}
}
