package layout

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var rgbPattern = regexp.MustCompile(`^rgb\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*\)$`)

// ParseColor accepts "rgb(r, g, b)", "#rgb" and "#rrggbb".
func ParseColor(value string) (Color, error) {
	value = strings.TrimSpace(value)
	if m := rgbPattern.FindStringSubmatch(value); m != nil {
		var c Color
		for i, dst := range []*int{&c.R, &c.G, &c.B} {
			n, err := strconv.Atoi(m[i+1])
			if err != nil || n > 255 {
				return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
			}
			*dst = n
		}
		return c, nil
	}
	if !strings.HasPrefix(value, "#") {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// MarshalJSON writes the color as "rgb(r, g, b)".
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a color string or an {r,g,b} object. Unparseable
// strings fall back to black.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseColor(s)
		if err != nil {
			parsed = Color{}
		}
		*c = parsed
		return nil
	}
	type plain Color
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Color(p)
	return nil
}
