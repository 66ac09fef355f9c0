package layout

// 该文件定义字段输入与布局结果，供布局计算、渲染与调试 JSON 共用。

// Align 为文本水平对齐方式。
type Align string

const (
	AlignLeft   Align = "Left"
	AlignCenter Align = "Center"
	AlignRight  Align = "Right"
)

// Valid reports whether a is one of the three supported alignments.
func (a Align) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	default:
		return false
	}
}

// Field 是覆盖在模板页面上的文本字段。
// X/Y/Width 为页面宽高的比例（0-1），FontSize 以 pt 为单位。
type Field struct {
	ID          int     `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Text        string  `json:"text"`
	FontSize    float64 `json:"fontSize"`
	LineSpacing float64 `json:"lineSpacing"` // extra leading as a fraction of FontSize
	Color       Color   `json:"color"`
	Align       Align   `json:"align"`
}

// PageSize 为页面尺寸，单位 pt。
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageInput is one template page: its size in points and the fields placed on it.
type PageInput struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fields []Field `json:"fields"`
}

// Line 是折行算法输出的一行。
type Line struct {
	Text      string `json:"text"`
	Mandatory bool   `json:"mandatory"`
}

// Result 保存布局后的所有页面。
type Result struct {
	Pages []Page `json:"pages"`
}

// Page 记录页面尺寸（pt）与可直接绘制的文本块。
type Page struct {
	Index  int       `json:"index"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Texts  []TextBox `json:"texts"`
}

// TextBox 表示一个已经排好坐标的字段，坐标以页面左上角为原点，单位 pt。
type TextBox struct {
	FieldID     int           `json:"fieldId"`
	Template    string        `json:"template"`
	Content     string        `json:"content"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	FontSize    float64       `json:"fontSize"`
	LineSpacing float64       `json:"lineSpacing"`
	Color       Color         `json:"color"`
	Align       Align         `json:"align"`
	Lines       []TextLine    `json:"lines"`
	Debug       *TextBoxDebug `json:"debug,omitempty"`
}

// TextLine 表示排版后的一行及其绘制位置。X 为对齐后的起点，Baseline 为基线 y。
type TextLine struct {
	Content   string  `json:"content"`
	Mandatory bool    `json:"mandatory,omitempty"`
	X         float64 `json:"x"`
	Baseline  float64 `json:"baseline"`
	Width     float64 `json:"width"`
}

// TextBoxDebug holds optional debug info displayed only when enabled by BuildOptions.
type TextBoxDebug struct {
	Diagnostics []string `json:"diagnostics,omitempty"`
}
