package layout

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/formfill/binding"
)

// halfEm 是测试用测量函数：每个字符宽 0.5*size。
var halfEm = MeasureFunc(func(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * 0.5
})

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s: got %g want %g", name, got, want)
	}
}

func buildOne(t *testing.T, f Field, vars binding.Variables, opts BuildOptions) TextBox {
	t.Helper()
	opts.Measurer = halfEm
	opts.Variables = vars
	res, err := Build([]PageInput{{Width: 600, Height: 800, Fields: []Field{f}}}, map[string]any{}, opts)
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	if len(res.Pages) != 1 || len(res.Pages[0].Texts) != 1 {
		t.Fatalf("期望 1 页 1 个文本块，实际 %+v", res.Pages)
	}
	return res.Pages[0].Texts[0]
}

func sampleField(align Align) Field {
	return Field{ID: 1, X: 0.1, Y: 0.1, Width: 0.5, Text: "{Name}", FontSize: 10, LineSpacing: 0.3, Align: align}
}

func TestBuildPlacesFirstBaseline(t *testing.T) {
	tb := buildOne(t, sampleField(AlignLeft), binding.Variables{binding.Literal("Name", "Alice")}, BuildOptions{})
	if tb.Content != "Alice" || tb.Template != "{Name}" {
		t.Fatalf("内容解析不符: %+v", tb)
	}
	if len(tb.Lines) != 1 {
		t.Fatalf("期望 1 行，实际 %d", len(tb.Lines))
	}
	approx(t, "x", tb.Lines[0].X, 60)
	approx(t, "baseline", tb.Lines[0].Baseline, 90)
	approx(t, "line width", tb.Lines[0].Width, 25)
	approx(t, "box width", tb.Width, 300)
	approx(t, "height", tb.Height, 10)
}

func TestBuildAlignment(t *testing.T) {
	vars := binding.Variables{binding.Literal("Name", "Alice")}
	right := buildOne(t, sampleField(AlignRight), vars, BuildOptions{})
	approx(t, "right x", right.Lines[0].X, 60+300-25)
	center := buildOne(t, sampleField(AlignCenter), vars, BuildOptions{})
	approx(t, "center x", center.Lines[0].X, 60+(300-25)/2.0)
}

func TestBuildLineAdvance(t *testing.T) {
	tb := buildOne(t, sampleField(AlignLeft), binding.Variables{binding.Literal("Name", "a\nb\nc")}, BuildOptions{})
	if len(tb.Lines) != 3 {
		t.Fatalf("期望 3 行，实际 %d", len(tb.Lines))
	}
	for i, want := range []float64{90, 103, 116} {
		approx(t, "baseline", tb.Lines[i].Baseline, want)
	}
	approx(t, "height", tb.Height, 2*13+10)
}

// TestBuildRightAlignIgnoresTrailingSpace 折行保留的行尾空格不参与对齐计算。
func TestBuildRightAlignIgnoresTrailingSpace(t *testing.T) {
	f := sampleField(AlignRight)
	f.Width = 20.0 / 600
	tb := buildOne(t, f, binding.Variables{binding.Literal("Name", "ab cd")}, BuildOptions{})
	if len(tb.Lines) != 2 || tb.Lines[0].Content != "ab " {
		t.Fatalf("折行结果不符: %+v", tb.Lines)
	}
	approx(t, "right x", tb.Lines[0].X, 60+20-10)
	approx(t, "right x", tb.Lines[1].X, 60+20-10)
}

func TestBuildRawKeepsTemplate(t *testing.T) {
	tb := buildOne(t, sampleField(AlignLeft), binding.Variables{binding.Literal("Name", "Alice")}, BuildOptions{Raw: true})
	if tb.Content != "{Name}" {
		t.Fatalf("Raw 模式应保留模板原文，实际 %q", tb.Content)
	}
}

func TestBuildDiagnostics(t *testing.T) {
	f := sampleField(AlignLeft)
	f.Text = "{Nope}"
	tb := buildOne(t, f, nil, BuildOptions{Debug: DebugOptions{Diagnostics: true}})
	if tb.Content != "Nope" {
		t.Fatalf("未知变量应回退为名称，实际 %q", tb.Content)
	}
	if tb.Debug == nil || len(tb.Debug.Diagnostics) != 1 {
		t.Fatalf("期望 1 条诊断，实际 %+v", tb.Debug)
	}

	quiet := buildOne(t, f, nil, BuildOptions{})
	if quiet.Debug != nil {
		t.Fatalf("未开启调试时不应输出诊断")
	}
}

func TestBuildNormalizesToNFC(t *testing.T) {
	tb := buildOne(t, sampleField(AlignLeft), binding.Variables{binding.Literal("Name", "cafe\u0301")}, BuildOptions{})
	if tb.Content != "caf\u00e9" {
		t.Fatalf("期望 NFC 组合字符，实际 %q", tb.Content)
	}
}

func TestBuildEmptyTextHasNoLines(t *testing.T) {
	f := sampleField(AlignLeft)
	f.Text = ""
	tb := buildOne(t, f, nil, BuildOptions{})
	if len(tb.Lines) != 0 || tb.Height != 0 {
		t.Fatalf("空文本不应产生行: %+v", tb)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(nil, nil, BuildOptions{}); !errors.Is(err, ErrNoMeasurer) {
		t.Fatalf("缺少 Measurer 时期望 ErrNoMeasurer，实际 %v", err)
	}
	if _, err := Build([]PageInput{{Width: 0, Height: 10}}, nil, BuildOptions{Measurer: halfEm}); err == nil {
		t.Fatalf("页面尺寸无效时应返回错误")
	}
}

func TestBuildDeterministic(t *testing.T) {
	pages := []PageInput{{Width: 612, Height: 792, Fields: []Field{
		{ID: 1, X: 0.2, Y: 0.3, Width: 0.15, Text: "{Seller} lives at {Seller Street Address}", FontSize: 9, LineSpacing: 0.3, Align: AlignCenter},
	}}}
	opts := BuildOptions{Measurer: halfEm, Variables: binding.DefaultVariables()}
	record := map[string]any{"Owner": []any{"FOLEY MICHAEL A", "1627 ATARES DR", "PUNTA GORDA, FL 33950"}}
	first, err := Build(pages, record, opts)
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	second, _ := Build(pages, record, opts)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("同样输入得到不同布局")
	}
}
