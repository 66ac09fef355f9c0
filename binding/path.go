package binding

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/formfill/dsl"
)

// Step evaluation failures. They abort the remaining steps of a variable.
var (
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrMissingKey    = errors.New("missing key")
	ErrEmptySequence = errors.New("empty sequence")
)

// Step 是路径中的一步：KeyStep、IndexStep 或 TransformStep。
// 步骤在变量定义时解析一次，求值时不再重复解析。
type Step interface {
	// Token 返回步骤的原始文本，用于持久化。
	Token() string
	apply(cursor any) (any, error)
}

// KeyStep indexes a mapping by key. A sequence cursor is collapsed first.
type KeyStep struct {
	Key string
}

// IndexStep selects a sequence element. Negative indices count from the end and
// out-of-range indices clamp to the last element. On a mapping the raw token is
// used as a key instead.
type IndexStep struct {
	Index int
	Raw   string
}

// TransformStep splits the cursor string and rebuilds it from the template parts.
type TransformStep struct {
	Raw   string
	Parts []TransformPart
}

// TransformPart is literal text or a split transform (exactly one is set).
type TransformPart struct {
	Text  string
	Split *dsl.Split
}

func (s KeyStep) Token() string       { return s.Key }
func (s IndexStep) Token() string     { return s.Raw }
func (s TransformStep) Token() string { return s.Raw }

// ParseStep 将单个原始 token 解析为带标签的步骤。
func ParseStep(token string) (Step, error) {
	ast, err := dsl.ParseStep(token)
	if err != nil {
		return nil, fmt.Errorf("binding: parse step %q: %w", token, err)
	}
	if ast.HasTransform() {
		step := TransformStep{Raw: token}
		for _, seg := range ast.Segments {
			switch {
			case seg.Split != nil:
				step.Parts = append(step.Parts, TransformPart{Split: seg.Split})
			case seg.Text != nil:
				step.Parts = append(step.Parts, TransformPart{Text: *seg.Text})
			}
		}
		return step, nil
	}
	if idx, ok := parseIndex(token); ok {
		return IndexStep{Index: idx, Raw: token}, nil
	}
	return KeyStep{Key: token}, nil
}

// parseIndex 判断 token 是否为数字下标："1.0" 视为 1，空白视为 0，
// 小数向零取整，超出 int 范围时取最后一个或第一个元素。
func parseIndex(token string) (int, bool) {
	t := strings.TrimSpace(token)
	if t == "" {
		return 0, true
	}
	if idx, err := strconv.Atoi(t); err == nil {
		return idx, true
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	switch {
	case math.IsNaN(f):
		return 0, false
	case math.IsInf(f, 0) && !strings.EqualFold(strings.TrimLeft(t, "+-"), "Infinity"):
		return 0, false
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return 0, true
	}
	return int(f), true
}

// Path is an ordered list of steps evaluated left to right.
type Path []Step

// ParsePath parses every token of a variable value.
func ParsePath(tokens []string) (Path, error) {
	path := make(Path, 0, len(tokens))
	for _, tok := range tokens {
		step, err := ParseStep(tok)
		if err != nil {
			return nil, err
		}
		path = append(path, step)
	}
	return path, nil
}

// Tokens returns the raw step tokens.
func (p Path) Tokens() []string {
	out := make([]string, len(p))
	for i, step := range p {
		out[i] = step.Token()
	}
	return out
}

// Evaluate 从 record 出发依次应用每一步。
// 某一步失败时停止，返回失败前的游标值以及错误。
func (p Path) Evaluate(record any) (any, error) {
	cursor := record
	for i, step := range p {
		next, err := step.apply(cursor)
		if err != nil {
			return cursor, fmt.Errorf("step %d (%q): %w", i, step.Token(), err)
		}
		cursor = next
	}
	return cursor, nil
}

func (s KeyStep) apply(cursor any) (any, error) {
	cursor, err := collapse(cursor)
	if err != nil {
		return nil, err
	}
	m, ok := asMapping(cursor)
	if !ok {
		return nil, fmt.Errorf("%w: cannot key %s by %q", ErrTypeMismatch, kindOf(cursor), s.Key)
	}
	val, ok := m[s.Key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrMissingKey, s.Key, strings.Join(sortedKeys(m), ", "))
	}
	return val, nil
}

func (s IndexStep) apply(cursor any) (any, error) {
	if seq, ok := asSequence(cursor); ok {
		if len(seq) == 0 {
			return nil, ErrEmptySequence
		}
		return seq[clampIndex(s.Index, len(seq))], nil
	}
	if m, ok := asMapping(cursor); ok {
		val, ok := m[s.Raw]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingKey, s.Raw)
		}
		return val, nil
	}
	return nil, fmt.Errorf("%w: cannot index %s by %d", ErrTypeMismatch, kindOf(cursor), s.Index)
}

func (s TransformStep) apply(cursor any) (any, error) {
	cursor, err := collapse(cursor)
	if err != nil {
		return nil, err
	}
	str, ok := cursor.(string)
	if !ok {
		return nil, fmt.Errorf("%w: cannot split %s", ErrTypeMismatch, kindOf(cursor))
	}
	var b strings.Builder
	for _, part := range s.Parts {
		if part.Split == nil {
			b.WriteString(part.Text)
			continue
		}
		b.WriteString(applySplit(*part.Split, str))
	}
	return b.String(), nil
}

func applySplit(s dsl.Split, value string) string {
	delim := s.Delimiter
	if delim == "" {
		delim = " "
	}
	parts := strings.Split(value, delim)
	i := clampIndex(s.Index, len(parts))
	switch s.Direction {
	case dsl.DirBefore:
		return strings.Join(parts[:i], delim)
	case dsl.DirAfter:
		return strings.Join(parts[i:], delim)
	default:
		return parts[i]
	}
}

// clampIndex 负数从末尾计数，越界时取最后一个元素。n 必须大于 0。
func clampIndex(i, n int) int {
	if i < 0 {
		i %= n
		if i < 0 {
			i += n
		}
	}
	if i >= n {
		i = n - 1
	}
	return i
}

// collapse 将序列折叠：字符串序列以换行拼接，否则取第一个元素。
func collapse(cursor any) (any, error) {
	seq, ok := asSequence(cursor)
	if !ok {
		return cursor, nil
	}
	if len(seq) == 0 {
		return nil, ErrEmptySequence
	}
	if _, isString := seq[0].(string); !isString {
		return seq[0], nil
	}
	lines := make([]string, len(seq))
	for i, v := range seq {
		if s, ok := v.(string); ok {
			lines[i] = s
		} else {
			lines[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func asSequence(v any) ([]any, bool) {
	switch c := v.(type) {
	case []any:
		return c, true
	case []string:
		out := make([]any, len(c))
		for i, s := range c {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func asMapping(v any) (map[string]any, bool) {
	switch c := v.(type) {
	case map[string]any:
		return c, true
	case map[string]string:
		out := make(map[string]any, len(c))
		for k, s := range c {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case []any, []string:
		return "sequence"
	case map[string]any, map[string]string:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
