package dsl_test

import (
	"math"
	"testing"

	"github.com/ByLCY/formfill/dsl"
)

func TestParseTransformTemplate(t *testing.T) {
	step, err := dsl.ParseStep("{:<-1}, FL {:-1}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !step.HasTransform() {
		t.Fatalf("expected transform step")
	}
	if len(step.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(step.Segments))
	}

	first := step.Segments[0].Split
	if first == nil {
		t.Fatalf("first segment should be a split transform")
	}
	if first.Delimiter != " " || first.Direction != dsl.DirBefore || first.Index != -1 {
		t.Fatalf("unexpected first split: %#v", first)
	}

	if step.Segments[1].Text == nil || *step.Segments[1].Text != ", FL " {
		t.Fatalf("unexpected literal segment: %#v", step.Segments[1])
	}

	last := step.Segments[2].Split
	if last == nil || last.Direction != dsl.DirElement || last.Index != -1 {
		t.Fatalf("unexpected last split: %#v", last)
	}
}

func TestParseCustomDelimiter(t *testing.T) {
	cases := []struct {
		token string
		delim string
		dir   dsl.Direction
		index int
	}{
		{"{-:0}", "-", dsl.DirElement, 0},
		{"{-:2}", "-", dsl.DirElement, 2},
		{"{, :>1}", ", ", dsl.DirAfter, 1},
		{"{/:<3}", "/", dsl.DirBefore, 3},
	}
	for _, tc := range cases {
		step, err := dsl.ParseStep(tc.token)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", tc.token, err)
		}
		if len(step.Segments) != 1 || step.Segments[0].Split == nil {
			t.Fatalf("%s: expected a single split segment, got %#v", tc.token, step.Segments)
		}
		got := step.Segments[0].Split
		if got.Delimiter != tc.delim || got.Direction != tc.dir || got.Index != tc.index {
			t.Fatalf("%s: got %#v", tc.token, got)
		}
		if got.String() != tc.token {
			t.Fatalf("%s: round trip produced %q", tc.token, got.String())
		}
	}
}

func TestParsePlainTokens(t *testing.T) {
	for _, token := range []string{"Owner", "-1", "Section/Township/Range", "Current Use (https://x/y.xlsx)"} {
		step, err := dsl.ParseStep(token)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", token, err)
		}
		if step.HasTransform() {
			t.Fatalf("%s: should not be a transform", token)
		}
		if step.Literal() != token {
			t.Fatalf("%s: literal mismatch %q", token, step.Literal())
		}
	}
}

func TestParseLoneBraceIsText(t *testing.T) {
	step, err := dsl.ParseStep("{abc")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if step.HasTransform() {
		t.Fatalf("unterminated brace must stay literal")
	}
	if step.Literal() != "{abc" {
		t.Fatalf("literal mismatch %q", step.Literal())
	}
}

func TestParseEmpty(t *testing.T) {
	step, err := dsl.ParseStep("")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(step.Segments) != 0 {
		t.Fatalf("expected no segments, got %d", len(step.Segments))
	}
}

func TestParseSplitIndexOverflow(t *testing.T) {
	step, err := dsl.ParseStep("{:99999999999999999999}")
	if err != nil {
		t.Fatalf("越界下标不应导致解析失败: %v", err)
	}
	if len(step.Segments) != 1 || step.Segments[0].Split == nil {
		t.Fatalf("expected a single split segment")
	}
	if step.Segments[0].Split.Index != math.MaxInt {
		t.Fatalf("index should clamp to MaxInt, got %d", step.Segments[0].Split.Index)
	}
}
