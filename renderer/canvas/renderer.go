package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/formfill/fonts"
	"github.com/ByLCY/formfill/layout"
	"github.com/ByLCY/formfill/renderer"
)

const outlineWidth = 0.5 // pt

var outlineColor = canvas.Hex("#3b82f6")

// Renderer rasterises one page of a layout result into a PNG preview via
// github.com/tdewolff/canvas.
type Renderer struct {
	page    int
	zoom    float64
	outline bool

	backgrounds map[int][]byte // encoded page images by page index
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the preview renderer.
type Options struct {
	Page        int              // 预览页，从 0 开始
	Zoom        float64          // 每 pt 对应的像素数，<=0 时为 1
	Outline     bool             // 绘制字段边框
	Backgrounds map[int]Resource // 模板页的位图，按页索引
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a preview renderer for the given page at 1 px per pt.
func NewRenderer(page int) *Renderer { return NewRendererWithOptions(Options{Page: page}) }

// NewRendererWithOptions creates a renderer with injected background images.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		page:        opts.Page,
		zoom:        opts.Zoom,
		outline:     opts.Outline,
		backgrounds: map[int][]byte{},
	}
	if r.zoom <= 0 {
		r.zoom = 1
	}
	for idx, res := range opts.Backgrounds {
		if len(res.Bytes) > 0 {
			r.backgrounds[idx] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败时在 Render 中报告
			r.backgrounds[idx] = data
		}
	}
	return r
}

// Render renders the selected page into PNG bytes.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if r.page < 0 || r.page >= len(result.Pages) {
		return nil, fmt.Errorf("预览页 %d 超出范围（共 %d 页）", r.page, len(result.Pages))
	}
	page := result.Pages[r.page]

	c := canvas.New(toMm(page.Width), toMm(page.Height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, canvas.Rectangle(toMm(page.Width), toMm(page.Height)))
	if err := r.drawBackground(ctx, page); err != nil {
		return nil, err
	}
	if err := r.drawPage(ctx, page); err != nil {
		return nil, err
	}

	img := rasterizer.Draw(c, canvas.DPMM(r.zoom*layout.MmToPt), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("写入 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	if r.outline {
		r.drawOutlines(ctx, page.Texts)
	}
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	return nil
}

// drawTextBox 逐字形绘制，字形起点按 Helvetica 字宽累加，与 PDF 中的行宽一致。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	if len(tb.Lines) == 0 {
		return nil
	}
	face, err := fonts.PreviewFace(tb.FontSize, colorFromLayout(tb.Color))
	if err != nil {
		return err
	}
	for _, line := range tb.Lines {
		x := line.X
		for _, ch := range line.Content {
			// PDF 核心字体无法显示的字符与 PDF 一样画成 '?'
			code, ok := fonts.EncodeRune(ch)
			glyph := string(ch)
			if !ok {
				glyph = "?"
			}
			if !unicode.IsSpace(ch) {
				ctx.DrawText(toMm(x), toMm(line.Baseline), canvas.NewTextLine(face, glyph, canvas.Left))
			}
			x += float64(fonts.Helvetica.GlyphWidth(code)) * tb.FontSize / 1000
		}
	}
	return nil
}

// drawOutlines 绘制字段边框，高度至少为一行字号。
func (r *Renderer) drawOutlines(ctx *canvas.Context, texts []layout.TextBox) {
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(outlineColor)
	ctx.SetStrokeWidth(toMm(outlineWidth))
	for _, tb := range texts {
		height := tb.Height
		if height < tb.FontSize {
			height = tb.FontSize
		}
		ctx.DrawPath(toMm(tb.X), toMm(tb.Y), canvas.Rectangle(toMm(tb.Width), toMm(height)))
	}
}

func (r *Renderer) drawBackground(ctx *canvas.Context, page layout.Page) error {
	blob, ok := r.backgrounds[page.Index]
	if !ok {
		return nil
	}
	if len(blob) == 0 {
		return fmt.Errorf("第 %d 页背景图片为空或无法读取", page.Index+1)
	}
	img, _, err := image.Decode(bytes.NewReader(blob))
	if err != nil {
		return fmt.Errorf("解码第 %d 页背景图片失败: %w", page.Index+1, err)
	}
	if img.Bounds().Dx() == 0 {
		return nil
	}
	// 按页面宽度缩放整张位图
	dpmm := float64(img.Bounds().Dx()) / toMm(page.Width)
	ctx.DrawImage(0, 0, img, canvas.DPMM(dpmm))
	return nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
