// Package settings 负责字段与变量配置（settings.json）的读写，以及编辑器对配置的各种修改。
//
// Store 在打开时读取文件，之后每次修改都会立即写回磁盘。
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ByLCY/formfill/binding"
	"github.com/ByLCY/formfill/layout"
)

var (
	ErrNoPage     = errors.New("settings: 页面不存在")
	ErrNoField    = errors.New("settings: 字段不存在")
	ErrNoVariable = errors.New("settings: 变量不存在")
)

// Page 保存一页模板上的字段。
type Page struct {
	Texts []layout.Field `json:"texts"`
}

// Options is the content of the settings file.
type Options struct {
	Pages     []Page            `json:"pages"`
	Variables binding.Variables `json:"variables"`
}

// Defaults returns the settings used when no file exists yet.
func Defaults() Options {
	return Options{Pages: []Page{}, Variables: binding.DefaultVariables()}
}

// UnmarshalJSON fills missing keys with defaults: no pages, the default variable table.
func (o *Options) UnmarshalJSON(data []byte) error {
	var raw struct {
		Pages     []Page             `json:"pages"`
		Variables *binding.Variables `json:"variables"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = Defaults()
	if raw.Pages != nil {
		o.Pages = raw.Pages
	}
	if raw.Variables != nil {
		o.Variables = *raw.Variables
	}
	return nil
}

// Validate 检查对齐方式与字段 id，文件被手工修改时可以尽早发现问题。
func (o Options) Validate() error {
	for pi, p := range o.Pages {
		seen := map[int]bool{}
		for _, f := range p.Texts {
			if !f.Align.Valid() {
				return fmt.Errorf("settings: 第 %d 页字段 %d 的对齐方式 %q 无效", pi+1, f.ID, f.Align)
			}
			if seen[f.ID] {
				return fmt.Errorf("settings: 第 %d 页字段 id %d 重复", pi+1, f.ID)
			}
			seen[f.ID] = true
		}
	}
	return nil
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	out := Options{Pages: make([]Page, len(o.Pages)), Variables: make(binding.Variables, len(o.Variables))}
	for i, p := range o.Pages {
		out.Pages[i].Texts = append([]layout.Field{}, p.Texts...)
	}
	for i, v := range o.Variables {
		v.Path = append(binding.Path(nil), v.Path...)
		out.Variables[i] = v
	}
	return out
}

// PageInputs 把各页字段与模板页尺寸组合为布局输入。sizes 少于页数时多余的页被忽略。
func (o Options) PageInputs(sizes []layout.PageSize) []layout.PageInput {
	inputs := make([]layout.PageInput, 0, len(sizes))
	for i, size := range sizes {
		in := layout.PageInput{Width: size.Width, Height: size.Height}
		if i < len(o.Pages) {
			in.Fields = o.Pages[i].Texts
		}
		inputs = append(inputs, in)
	}
	return inputs
}

// Load 读取配置文件；文件不存在时返回 Defaults()。
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Options{}, fmt.Errorf("settings: 读取 %s 失败: %w", path, err)
	}
	var opts Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("settings: 解析 %s 失败: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Save 写入配置文件。先写临时文件再重命名，避免中途失败留下半个文件。
func Save(path string, opts Options) error {
	// Clone 保证空切片序列化为 [] 而不是 null
	data, err := json.MarshalIndent(opts.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("settings: 序列化失败: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("settings: 创建目录失败: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("settings: 写入 %s 失败: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("settings: 写入 %s 失败: %w", path, err)
	}
	return nil
}
