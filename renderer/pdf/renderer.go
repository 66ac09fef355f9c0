// Package pdfrenderer 将布局结果叠加到模板 PDF 上。
//
// 模板的每一页通过 gofpdi 导入为 fpdf 模板，再用内置 Helvetica 按布局坐标逐行写入文本。
package pdfrenderer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	"github.com/ByLCY/formfill/fonts"
	"github.com/ByLCY/formfill/layout"
	"github.com/ByLCY/formfill/renderer"
)

const mediaBox = "/MediaBox"

// Renderer paints layout results over the pages of a template PDF.
// With an empty template path it paints on blank pages of the layout size.
type Renderer struct {
	template string
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a renderer for the template at templatePath.
func NewRenderer(templatePath string) *Renderer { return &Renderer{template: templatePath} }

// PageSizes 读取模板各页的 MediaBox 尺寸，按页序返回。
func PageSizes(templatePath string) (sizes []layout.PageSize, err error) {
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("pdf: 读取模板失败: %w", err)
	}
	defer recoverImport(&err)

	pdf := fpdf.New("P", "pt", "A4", "")
	imp := gofpdi.NewImporter()
	imp.ImportPage(pdf, templatePath, 1, mediaBox)
	all := imp.GetPageSizes()
	for i := 1; i <= len(all); i++ {
		box, ok := all[i][mediaBox]
		if !ok {
			return nil, fmt.Errorf("pdf: 模板第 %d 页缺少 MediaBox", i)
		}
		sizes = append(sizes, layout.PageSize{Width: box["w"], Height: box["h"]})
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("pdf: 模板 %s 没有页面", templatePath)
	}
	return sizes, nil
}

// Render 输出填好的 PDF。模板中没有对应布局的页面会原样保留。
func (r *Renderer) Render(result *layout.Result) (out []byte, err error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}

	sizes := make([]layout.PageSize, 0, len(result.Pages))
	for _, p := range result.Pages {
		sizes = append(sizes, layout.PageSize{Width: p.Width, Height: p.Height})
	}
	if r.template != "" {
		tplSizes, err := PageSizes(r.template)
		if err != nil {
			return nil, err
		}
		if len(result.Pages) > len(tplSizes) {
			return nil, fmt.Errorf("pdf: 布局有 %d 页，模板只有 %d 页", len(result.Pages), len(tplSizes))
		}
		sizes = tplSizes
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	defer recoverImport(&err)
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	var imp *gofpdi.Importer
	if r.template != "" {
		imp = gofpdi.NewImporter()
	}

	for i, size := range sizes {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: size.Width, Ht: size.Height})
		if imp != nil {
			tpl := imp.ImportPage(pdf, r.template, i+1, mediaBox)
			imp.UseImportedTemplate(pdf, tpl, 0, 0, size.Width, size.Height)
		}
		if i < len(result.Pages) {
			drawPage(pdf, result.Pages[i])
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("pdf: 生成失败: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: 写入失败: %w", err)
	}
	return buf.Bytes(), nil
}

func drawPage(pdf *fpdf.Fpdf, page layout.Page) {
	for _, tb := range page.Texts {
		if len(tb.Lines) == 0 {
			continue
		}
		pdf.SetFont("Helvetica", "", tb.FontSize)
		pdf.SetTextColor(tb.Color.R, tb.Color.G, tb.Color.B)
		for _, line := range tb.Lines {
			if line.Content == "" {
				continue
			}
			pdf.Text(line.X, line.Baseline, fonts.WinAnsi(line.Content))
		}
	}
}

// recoverImport converts gofpdi panics on unreadable templates into errors.
func recoverImport(err *error) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("pdf: 导入模板失败: %v", p)
	}
}
