package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ByLCY/formfill/fonts"
	"github.com/ByLCY/formfill/layout"
)

func sampleResult(t *testing.T, text string) *layout.Result {
	t.Helper()
	pages := []layout.PageInput{{Width: 200, Height: 100, Fields: []layout.Field{
		{ID: 1, X: 0.1, Y: 0.1, Width: 0.8, Text: text, FontSize: 12, LineSpacing: 0.3, Align: layout.AlignLeft},
	}}}
	res, err := layout.Build(pages, nil, layout.BuildOptions{Measurer: fonts.Helvetica, Raw: true})
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	return res
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("输出不是合法的 PNG: %v", err)
	}
	return img
}

func TestRenderProducesPageSizedPNG(t *testing.T) {
	for _, zoom := range []float64{1, 2} {
		out, err := NewRendererWithOptions(Options{Zoom: zoom}).Render(sampleResult(t, "Hello"))
		if err != nil {
			t.Fatalf("render error: %v", err)
		}
		b := decode(t, out).Bounds()
		if w := float64(b.Dx()); w < 200*zoom-1 || w > 200*zoom+1 {
			t.Fatalf("zoom=%g: 宽度期望约 %g px，实际 %d", zoom, 200*zoom, b.Dx())
		}
		if h := float64(b.Dy()); h < 100*zoom-1 || h > 100*zoom+1 {
			t.Fatalf("zoom=%g: 高度期望约 %g px，实际 %d", zoom, 100*zoom, b.Dy())
		}
	}
}

func TestRenderDrawsText(t *testing.T) {
	blank, err := NewRenderer(0).Render(sampleResult(t, ""))
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	filled, err := NewRenderer(0).Render(sampleResult(t, "Hello"))
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if bytes.Equal(blank, filled) {
		t.Fatalf("绘制文本后图像应当不同")
	}
}

func TestRenderUnsupportedGlyphAsQuestionMark(t *testing.T) {
	arrow, err := NewRenderer(0).Render(sampleResult(t, "a→b"))
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	question, err := NewRenderer(0).Render(sampleResult(t, "a?b"))
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !bytes.Equal(arrow, question) {
		t.Fatalf("无法用 WinAnsi 编码的字符应当与 PDF 一样画成 '?'")
	}
}

func TestRenderOutlineOnlyWhenEnabled(t *testing.T) {
	res := sampleResult(t, "")
	plain, err := NewRendererWithOptions(Options{}).Render(res)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	outlined, err := NewRendererWithOptions(Options{Outline: true}).Render(res)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if bytes.Equal(plain, outlined) {
		t.Fatalf("开启边框后图像应当不同")
	}
}

func TestRenderBackground(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			bg.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, bg); err != nil {
		t.Fatalf("encode error: %v", err)
	}
	res := sampleResult(t, "")
	out, err := NewRendererWithOptions(Options{Backgrounds: map[int]Resource{0: {Bytes: buf.Bytes()}}}).Render(res)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	plain, _ := NewRenderer(0).Render(res)
	if bytes.Equal(out, plain) {
		t.Fatalf("背景图片应当被绘制")
	}

	bad := NewRendererWithOptions(Options{Backgrounds: map[int]Resource{0: {Bytes: []byte("nope")}}})
	if _, err := bad.Render(res); err == nil {
		t.Fatalf("无法解码的背景图片应返回错误")
	}
}

func TestRenderRejectsMissingPage(t *testing.T) {
	if _, err := NewRenderer(0).Render(nil); err == nil {
		t.Fatalf("nil 结果应返回错误")
	}
	if _, err := NewRenderer(3).Render(sampleResult(t, "x")); err == nil {
		t.Fatalf("超出范围的页应返回错误")
	}
}
