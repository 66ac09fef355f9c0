package layout

import (
	"encoding/json"
	"testing"
)

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"rgb(0, 0, 0)":    {},
		"rgb(255,128, 7)": {R: 255, G: 128, B: 7},
		"#ff8000":         {R: 255, G: 128},
		"#0f0":            {G: 255},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: got %+v want %+v", in, got, want)
		}
	}
	for _, bad := range []string{"", "red", "rgb(300, 0, 0)", "#12345"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("%q 应解析失败", bad)
		}
	}
}

func TestColorJSON(t *testing.T) {
	var fields []Field
	data := `[{"color":"rgb(1, 2, 3)"},{"color":{"r":4,"g":5,"b":6}},{"color":"not a color"}]`
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if fields[0].Color != (Color{1, 2, 3}) || fields[1].Color != (Color{4, 5, 6}) || fields[2].Color != (Color{}) {
		t.Fatalf("颜色解析不符: %+v", fields)
	}
	out, err := json.Marshal(Color{R: 10, G: 20, B: 30})
	if err != nil || string(out) != `"rgb(10, 20, 30)"` {
		t.Fatalf("颜色序列化不符: %s %v", out, err)
	}
}
