package settings

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ByLCY/formfill/binding"
	"github.com/ByLCY/formfill/layout"
)

// 新字段的默认属性。
const (
	defaultFieldWidth   = 0.1
	defaultFontSize     = 9
	defaultLineSpacing  = 0.3
	defaultAddPositionX = 0.01
	defaultAddPositionY = 0.01
)

// Store 持有当前配置，每次修改成功后立即写回文件。
type Store struct {
	mu     sync.Mutex
	path   string
	opts   Options
	logger *log.Logger
}

// Open 读取 path 处的配置（不存在时使用默认值）。logger 可以为 nil。
// 文件无法解析时返回错误，不会用默认值覆盖它。
func Open(path string, logger *log.Logger) (*Store, error) {
	opts, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, opts: opts, logger: logger}, nil
}

// Options returns a snapshot of the current settings.
func (s *Store) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Clone()
}

// update 在副本上执行 fn，保存成功后才替换当前配置。
func (s *Store) update(fn func(o *Options) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.opts.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := Save(s.path, next); err != nil {
		if s.logger != nil {
			s.logger.Printf("settings: 保存失败: %v", err)
		}
		return err
	}
	s.opts = next
	return nil
}

func (o *Options) page(idx int) (*Page, error) {
	if idx < 0 || idx >= len(o.Pages) {
		return nil, fmt.Errorf("%w: %d", ErrNoPage, idx)
	}
	return &o.Pages[idx], nil
}

func (p *Page) field(id int) (int, error) {
	for i, f := range p.Texts {
		if f.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: id %d", ErrNoField, id)
}

func (o *Options) variable(idx int) (*binding.Variable, error) {
	if idx < 0 || idx >= len(o.Variables) {
		return nil, fmt.Errorf("%w: %d", ErrNoVariable, idx)
	}
	return &o.Variables[idx], nil
}

// EnsurePages 补齐页数，使其不少于模板页数 n。
func (s *Store) EnsurePages(n int) error {
	s.mu.Lock()
	have := len(s.opts.Pages)
	s.mu.Unlock()
	if have >= n {
		return nil
	}
	return s.update(func(o *Options) error {
		for len(o.Pages) < n {
			o.Pages = append(o.Pages, Page{Texts: []layout.Field{}})
		}
		return nil
	})
}

// AddText 在 page 上 (x, y) 处新增一个空字段，id 为该页已有最大 id 加一。
func (s *Store) AddText(page int, x, y float64) (layout.Field, error) {
	var added layout.Field
	err := s.update(func(o *Options) error {
		p, err := o.page(page)
		if err != nil {
			return err
		}
		added = newField(p.Texts, x, y)
		p.Texts = append(p.Texts, added)
		return nil
	})
	return added, err
}

// AddTextDefault adds a field near the top-left corner of the page.
func (s *Store) AddTextDefault(page int) (layout.Field, error) {
	return s.AddText(page, defaultAddPositionX, defaultAddPositionY)
}

func newField(texts []layout.Field, x, y float64) layout.Field {
	id := 0
	for _, f := range texts {
		id = max(id, f.ID)
	}
	return layout.Field{
		ID:          id + 1,
		X:           x,
		Y:           y,
		Width:       defaultFieldWidth,
		FontSize:    defaultFontSize,
		LineSpacing: defaultLineSpacing,
		Color:       layout.Color{},
		Align:       layout.AlignLeft,
	}
}

// SetText 替换字段内容，字段 id 保持不变。
func (s *Store) SetText(page, id int, f layout.Field) error {
	if !f.Align.Valid() {
		return fmt.Errorf("settings: 对齐方式 %q 无效", f.Align)
	}
	return s.update(func(o *Options) error {
		p, err := o.page(page)
		if err != nil {
			return err
		}
		i, err := p.field(id)
		if err != nil {
			return err
		}
		f.ID = id
		p.Texts[i] = f
		return nil
	})
}

// RemoveText 删除字段。
func (s *Store) RemoveText(page, id int) error {
	return s.update(func(o *Options) error {
		p, err := o.page(page)
		if err != nil {
			return err
		}
		i, err := p.field(id)
		if err != nil {
			return err
		}
		p.Texts = append(p.Texts[:i:i], p.Texts[i+1:]...)
		return nil
	})
}

// Prune 删除该页所有文本为空白的字段，返回删除的个数。
func (s *Store) Prune(page int) (int, error) {
	removed := 0
	err := s.update(func(o *Options) error {
		p, err := o.page(page)
		if err != nil {
			return err
		}
		kept := p.Texts[:0:0]
		for _, f := range p.Texts {
			if strings.TrimSpace(f.Text) == "" {
				removed++
				continue
			}
			kept = append(kept, f)
		}
		p.Texts = kept
		return nil
	})
	return removed, err
}

// ClampWidths 把该页过窄的字段放宽到 layout.MinFieldWidth。pageWidth 单位 pt。
func (s *Store) ClampWidths(page int, pageWidth float64) error {
	return s.update(func(o *Options) error {
		p, err := o.page(page)
		if err != nil {
			return err
		}
		for i, f := range p.Texts {
			p.Texts[i].Width = layout.ClampFieldWidth(f.Width, f.FontSize, pageWidth)
		}
		return nil
	})
}

// AddVariable 追加一个名为 "New Variable"（或其编号变体）的空字面变量。
func (s *Store) AddVariable() (binding.Variable, error) {
	var added binding.Variable
	err := s.update(func(o *Options) error {
		added = binding.Literal(binding.NewVariableName(o.Variables), "")
		o.Variables = append(o.Variables, added)
		return nil
	})
	return added, err
}

// SetVariableName 重命名变量。名称允许重复，查找时第一个同名变量生效。
func (s *Store) SetVariableName(idx int, name string) error {
	return s.update(func(o *Options) error {
		v, err := o.variable(idx)
		if err != nil {
			return err
		}
		v.Name = name
		return nil
	})
}

// SetVariableValue 把变量改为字面值。
func (s *Store) SetVariableValue(idx int, value string) error {
	return s.update(func(o *Options) error {
		v, err := o.variable(idx)
		if err != nil {
			return err
		}
		*v = binding.Literal(v.Name, value)
		return nil
	})
}

// SetVariablePath 把变量改为路径，每个 token 解析一次。
func (s *Store) SetVariablePath(idx int, tokens ...string) error {
	return s.update(func(o *Options) error {
		v, err := o.variable(idx)
		if err != nil {
			return err
		}
		next, err := binding.NewPath(v.Name, tokens...)
		if err != nil {
			return err
		}
		*v = next
		return nil
	})
}

// SetVariablePart 替换路径中的一步；partIdx 等于步数时追加。
func (s *Store) SetVariablePart(idx, partIdx int, token string) error {
	return s.update(func(o *Options) error {
		v, err := o.variable(idx)
		if err != nil {
			return err
		}
		return v.SetPart(partIdx, token)
	})
}

// RemoveVariablePart 删除路径中的一步，字面变量不受影响。
func (s *Store) RemoveVariablePart(idx, partIdx int) error {
	return s.update(func(o *Options) error {
		v, err := o.variable(idx)
		if err != nil {
			return err
		}
		v.RemovePart(partIdx)
		return nil
	})
}

// RemoveVariable 删除变量。
func (s *Store) RemoveVariable(idx int) error {
	return s.update(func(o *Options) error {
		if _, err := o.variable(idx); err != nil {
			return err
		}
		o.Variables = append(o.Variables[:idx:idx], o.Variables[idx+1:]...)
		return nil
	})
}
