package fonts

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	previewOnce   sync.Once
	previewFamily *canvas.FontFamily
	previewErr    error
)

// PreviewFace 返回预览绘制用的字体面，size 以 pt 为单位。
// 字形来自 Go Regular；每个字形的位置仍按 Helvetica 字宽排布，因此预览与 PDF 的折行和行宽一致。
func PreviewFace(size float64, col color.Color) (*canvas.FontFace, error) {
	previewOnce.Do(func() {
		family := canvas.NewFontFamily("formfill-preview")
		if err := family.LoadFont(goregular.TTF, 0, canvas.FontRegular); err != nil {
			previewErr = fmt.Errorf("fonts: 加载预览字体失败: %w", err)
			return
		}
		previewFamily = family
	})
	if previewErr != nil {
		return nil, previewErr
	}
	return previewFamily.Face(size, col, canvas.FontRegular, canvas.FontNormal), nil
}
