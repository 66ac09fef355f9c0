// Package binding resolves {Name} placeholders in field templates against a
// variable table and a nested scraped record.
package binding

import (
	"fmt"
	"log"
	"strings"
)

// Diagnostic records a soft failure. Resolution continues after each one.
type Diagnostic struct {
	Variable string
	Reason   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("variable %q: %s", d.Variable, d.Reason)
}

// Resolver 持有只读的变量表；Logger 为空时诊断信息只会被收集。
type Resolver struct {
	Variables Variables
	Logger    *log.Logger
}

// Resolve 将文本中的 {Name} 替换为变量值，失败时回退为变量名本身。
func Resolve(text string, variables Variables, record any) string {
	r := Resolver{Variables: variables}
	return r.Resolve(text, record)
}

// Resolve substitutes every live placeholder in text.
func (r *Resolver) Resolve(text string, record any) string {
	out, _ := r.ResolveReport(text, record)
	return out
}

// ResolveReport is Resolve plus the diagnostics raised along the way.
//
// A '{' preceded by an odd run of backslashes is literal. An even run before a
// live placeholder is an escaped backslash and yields half as many. Once every
// placeholder is substituted, `\{` and `\}` collapse to plain braces across the
// whole output, substituted values included.
func (r *Resolver) ResolveReport(text string, record any) (string, []Diagnostic) {
	var (
		b     strings.Builder
		diags []Diagnostic
	)
	b.Grow(len(text))

	for i := 0; i < len(text); {
		j := i
		for j < len(text) && text[j] == '\\' {
			j++
		}
		run := j - i
		if j == len(text) || text[j] != '{' || run%2 == 1 {
			end := min(j+1, len(text))
			b.WriteString(text[i:end])
			i = end
			continue
		}

		bodyEnd, next, ok := closePlaceholder(text, j+1)
		if !ok {
			b.WriteString(text[i : j+1])
			i = j + 1
			continue
		}
		b.WriteString(text[i : i+run/2])
		val, d := r.value(text[j+1:bodyEnd], record)
		b.WriteString(val)
		diags = append(diags, d...)
		i = next
	}
	return unescapeBraces.Replace(b.String()), diags
}

var unescapeBraces = strings.NewReplacer(`\{`, "{", `\}`, "}")

// closePlaceholder finds the first '}' after start preceded by an even
// backslash run. It returns the end of the body (before that run) and the
// index just past the brace. Bodies never span a line break.
func closePlaceholder(text string, start int) (bodyEnd, next int, ok bool) {
	for k := start; k < len(text); k++ {
		switch text[k] {
		case '\n', '\r':
			return 0, 0, false
		case '}':
		default:
			continue
		}
		run := 0
		for p := k - 1; p >= start && text[p] == '\\'; p-- {
			run++
		}
		if run%2 == 0 {
			return k - run, k + 1, true
		}
	}
	return 0, 0, false
}

func (r *Resolver) value(name string, record any) (string, []Diagnostic) {
	v, ok := r.Variables.Find(name)
	if !ok {
		return name, []Diagnostic{r.report(name, `not found - using name (use \{ to keep brackets)`)}
	}
	if !v.IsPath {
		return v.Literal, nil
	}

	var diags []Diagnostic
	cursor, err := v.Path.Evaluate(record)
	if err != nil {
		diags = append(diags, r.report(name, "failed in resolution: "+err.Error()))
	}
	s, ok := cursor.(string)
	if !ok {
		diags = append(diags, r.report(name, "resolved to non string: "+kindOf(cursor)))
		return name, diags
	}
	return s, diags
}

func (r *Resolver) report(name, reason string) Diagnostic {
	d := Diagnostic{Variable: name, Reason: reason}
	if r.Logger != nil {
		r.Logger.Printf("binding: %s", d)
	}
	return d
}
