// Package dsl parses the path-step language used by variable definitions.
//
// A variable value is an ordered list of step tokens. Each token is either a
// plain key/index ("Owner", "-1") or a transform template that contains one or
// more split transforms of the form {split:dir index} mixed with literal text, for
// example "{:<-1}, FL {:-1}".
package dsl

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	stepLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Transform", Pattern: `\{[^:]*?:[<>]?-?\d+\}`},
		{Name: "Text", Pattern: `[^{]+|\{`},
	})

	stepParser = participle.MustBuild[Step](
		participle.Lexer(stepLexer),
	)

	splitPattern = regexp.MustCompile(`^\{([^:]*?):([<>]?)(-?\d+)\}$`)
)

// Direction selects which part of a split result a transform keeps.
type Direction int

const (
	DirElement Direction = iota // parts[index]
	DirBefore                   // parts[:index] joined
	DirAfter                    // parts[index:] joined
)

// String returns the grammar symbol of the direction.
func (d Direction) String() string {
	switch d {
	case DirBefore:
		return "<"
	case DirAfter:
		return ">"
	default:
		return ""
	}
}

// Step is the root AST node of one step token.
type Step struct {
	Segments []*Segment `parser:"@@*"`
}

// Segment is either a split transform or a run of literal text.
type Segment struct {
	Split *Split  `parser:"  @Transform"`
	Text  *string `parser:"| @Text"`
}

// Split is a single {split:dir index} transform. An empty Delimiter means a single space.
type Split struct {
	Delimiter string    `json:"delimiter"`
	Direction Direction `json:"direction"`
	Index     int       `json:"index"`
}

// Capture implements participle.Capture.
func (s *Split) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("split capture requires value")
	}
	m := splitPattern.FindStringSubmatch(values[0])
	if m == nil {
		return fmt.Errorf("invalid split transform %q", values[0])
	}
	idx, err := strconv.Atoi(m[3])
	switch {
	case errors.Is(err, strconv.ErrRange):
		// 超出 int 范围的下标取首尾元素
		idx = math.MaxInt
		if strings.HasPrefix(m[3], "-") {
			idx = 0
		}
	case err != nil:
		return fmt.Errorf("invalid split index %q: %w", m[3], err)
	}
	s.Delimiter = m[1]
	if s.Delimiter == "" {
		s.Delimiter = " "
	}
	switch m[2] {
	case "<":
		s.Direction = DirBefore
	case ">":
		s.Direction = DirAfter
	default:
		s.Direction = DirElement
	}
	s.Index = idx
	return nil
}

// String renders the transform back into its token form.
func (s Split) String() string {
	delim := s.Delimiter
	if delim == " " {
		delim = ""
	}
	return fmt.Sprintf("{%s:%s%d}", delim, s.Direction, s.Index)
}

// HasTransform reports whether the token contains at least one split transform.
func (s *Step) HasTransform() bool {
	if s == nil {
		return false
	}
	for _, seg := range s.Segments {
		if seg.Split != nil {
			return true
		}
	}
	return false
}

// Literal concatenates the text segments, ignoring split transforms.
func (s *Step) Literal() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	for _, seg := range s.Segments {
		if seg.Text != nil {
			b.WriteString(*seg.Text)
		}
	}
	return b.String()
}

// ParseStep parses a single step token.
func ParseStep(token string) (*Step, error) {
	if token == "" {
		return &Step{}, nil
	}
	return stepParser.ParseString("", token)
}
