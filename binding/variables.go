package binding

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Variable 是一个具名变量：要么是字面字符串，要么是作用于抓取记录的路径。
type Variable struct {
	Name    string
	Literal string
	Path    Path
	IsPath  bool
}

// Literal creates a variable whose value is substituted verbatim.
func Literal(name, value string) Variable {
	return Variable{Name: name, Literal: value}
}

// NewPath creates a path variable, parsing every token once.
func NewPath(name string, tokens ...string) (Variable, error) {
	path, err := ParsePath(tokens)
	if err != nil {
		return Variable{}, fmt.Errorf("binding: variable %q: %w", name, err)
	}
	return Variable{Name: name, Path: path, IsPath: true}, nil
}

// MustPath is like NewPath but panics on a malformed token.
func MustPath(name string, tokens ...string) Variable {
	v, err := NewPath(name, tokens...)
	if err != nil {
		panic(err)
	}
	return v
}

// SetPart replaces the step at idx, appending when idx == len(path).
func (v *Variable) SetPart(idx int, token string) error {
	if !v.IsPath {
		return fmt.Errorf("binding: variable %q is a literal", v.Name)
	}
	if idx < 0 || idx > len(v.Path) {
		return fmt.Errorf("binding: variable %q has no step %d", v.Name, idx)
	}
	step, err := ParseStep(token)
	if err != nil {
		return err
	}
	if idx == len(v.Path) {
		v.Path = append(v.Path, step)
		return nil
	}
	v.Path[idx] = step
	return nil
}

// RemovePart drops the step at idx. Literal variables are left untouched.
func (v *Variable) RemovePart(idx int) {
	if !v.IsPath || idx < 0 || idx >= len(v.Path) {
		return
	}
	v.Path = append(v.Path[:idx:idx], v.Path[idx+1:]...)
}

type variableJSON struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON writes {"name": ..., "value": "literal" | ["step", ...]}.
func (v Variable) MarshalJSON() ([]byte, error) {
	var value any = v.Literal
	if v.IsPath {
		value = v.Path.Tokens()
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(variableJSON{Name: v.Name, Value: raw})
}

// UnmarshalJSON accepts a string or a string array as value.
func (v *Variable) UnmarshalJSON(data []byte) error {
	var raw variableJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		*v = Literal(raw.Name, "")
		return nil
	}
	var literal string
	if err := json.Unmarshal(raw.Value, &literal); err == nil {
		*v = Literal(raw.Name, literal)
		return nil
	}
	var tokens []string
	if err := json.Unmarshal(raw.Value, &tokens); err != nil {
		return fmt.Errorf("binding: variable %q: value must be a string or a string array", raw.Name)
	}
	parsed, err := NewPath(raw.Name, tokens...)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Variables 是有序的变量表，按名称精确查找第一个匹配项。
type Variables []Variable

// Find returns the first variable with exactly the given name.
func (vs Variables) Find(name string) (Variable, bool) {
	for _, v := range vs {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Index returns the position of the named variable, or -1.
func (vs Variables) Index(name string) int {
	for i, v := range vs {
		if v.Name == name {
			return i
		}
	}
	return -1
}

const newVariableBase = "New Variable"

// NewVariableName returns the first unused name of "New Variable", "New Variable 1", ...
func NewVariableName(vs Variables) string {
	for num := 0; ; num++ {
		name := newVariableBase
		if num > 0 {
			name += " " + strconv.Itoa(num)
		}
		if vs.Index(name) < 0 {
			return name
		}
	}
}

// DefaultVariables returns the stock variable table for county parcel records.
func DefaultVariables() Variables {
	return Variables{
		MustPath("Street Address", "Property Location", "Property Address", "0"),
		MustPath("City/State/Zip", "Property Location", "Property City & Zip", "{:<-1}, FL {:-1}"),
		MustPath("Seller", "Owner", "0"),
		MustPath("Seller Street Address", "Owner", "-2"),
		MustPath("Seller City/State/Zip", "Owner", "-1"),
		MustPath("Legal Description", "Legal Description", "Long Legal"),
		MustPath("Section", "General Parcel Information", "Section/Township/Range", "{-:0}"),
		MustPath("Township", "General Parcel Information", "Section/Township/Range", "{-:1}"),
		MustPath("Range", "General Parcel Information", "Section/Township/Range", "{-:2}"),
		MustPath("Parcel Number", "Parcel ID"),
	}
}
