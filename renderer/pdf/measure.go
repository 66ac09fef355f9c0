package pdfrenderer

import (
	"sync"

	"github.com/go-pdf/fpdf"

	"github.com/ByLCY/formfill/fonts"
	"github.com/ByLCY/formfill/layout"
)

// Measurer 使用 fpdf 内置 Helvetica 的字宽表测量文本，单位 pt。
// fpdf 文档不是并发安全的，这里用互斥锁保护。
type Measurer struct {
	mu  sync.Mutex
	pdf *fpdf.Fpdf
}

var _ layout.Measurer = (*Measurer)(nil)

// NewMeasurer creates a measurer backed by an unused fpdf document.
func NewMeasurer() *Measurer {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	return &Measurer{pdf: pdf}
}

// MeasureWidth implements layout.Measurer.
func (m *Measurer) MeasureWidth(text string, size float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFontSize(size)
	return m.pdf.GetStringWidth(fonts.WinAnsi(text))
}
