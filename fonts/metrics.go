// Package fonts holds the font data shared by the preview and the final PDF.
//
// Both targets draw with the standard Helvetica face in WinAnsi encoding, so
// the width table here and the PDF writer's core-font metrics agree for every
// string and the two targets wrap text identically.
package fonts

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Metrics is a single-byte width table in 1/1000 em units.
type Metrics struct {
	Name   string
	widths [256]int
}

// Helvetica 为 WinAnsi 编码下的 Helvetica 字宽表（与 PDF 核心字体一致）。
var Helvetica = &Metrics{
	Name:   "Helvetica",
	widths: [256]int{
		// 0x00
		278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278,
		// 0x10
		278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278, 278,
		// 0x20
		278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
		// 0x30
		556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
		// 0x40
		1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
		// 0x50
		667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
		// 0x60
		333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
		// 0x70
		556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584, 350,
		// 0x80
		556, 350, 222, 556, 333, 1000, 556, 556, 333, 1000, 667, 333, 1000, 350, 611, 350,
		// 0x90
		350, 222, 222, 333, 333, 350, 556, 1000, 333, 1000, 500, 333, 944, 350, 500, 667,
		// 0xA0
		278, 333, 556, 556, 556, 556, 260, 556, 333, 737, 370, 556, 584, 333, 737, 333,
		// 0xB0
		400, 584, 333, 333, 333, 556, 537, 278, 333, 333, 365, 556, 834, 834, 834, 611,
		// 0xC0
		667, 667, 667, 667, 667, 667, 1000, 722, 667, 667, 667, 667, 278, 278, 278, 278,
		// 0xD0
		722, 722, 778, 778, 778, 778, 778, 584, 778, 722, 722, 722, 722, 667, 667, 611,
		// 0xE0
		556, 556, 556, 556, 556, 556, 889, 500, 556, 556, 556, 556, 278, 278, 278, 278,
		// 0xF0
		556, 556, 556, 556, 556, 556, 556, 584, 611, 556, 556, 556, 556, 500, 556, 500,
	},
}

// MeasureWidth returns the advance width of text at size, in the unit of size.
func (m *Metrics) MeasureWidth(text string, size float64) float64 {
	enc := WinAnsi(text)
	w := 0
	for i := 0; i < len(enc); i++ {
		w += m.widths[enc[i]]
	}
	return float64(w) * size / 1000
}

// GlyphWidth returns the width of a single WinAnsi byte in 1/1000 em.
func (m *Metrics) GlyphWidth(b byte) int { return m.widths[b] }

// EncodeRune 返回 r 的 WinAnsi 字节；无法编码时返回 '?' 与 false。
func EncodeRune(r rune) (byte, bool) {
	if r < 0x80 {
		return byte(r), true
	}
	if c, ok := charmap.Windows1252.EncodeRune(r); ok {
		return c, true
	}
	return '?', false
}

// WinAnsi 将 UTF-8 文本转换为 Windows-1252 字节串，无法编码的字符替换为 '?'。
func WinAnsi(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		c, _ := EncodeRune(r)
		b.WriteByte(c)
	}
	return b.String()
}
