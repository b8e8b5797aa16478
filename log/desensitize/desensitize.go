package desensitize

import "sync"

// Hook 按添加顺序依次应用规则
type Hook struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewHook 创建脱敏钩子
func NewHook(rules ...Rule) *Hook {
	h := &Hook{}
	h.AddRule(rules...)
	return h
}

// AddRule 添加规则，同名规则会被替换
func (h *Hook) AddRule(rules ...Rule) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, rule := range rules {
		if rule == nil {
			continue
		}
		replaced := false
		for i, r := range h.rules {
			if r.Name() == rule.Name() {
				h.rules[i] = rule
				replaced = true
				break
			}
		}
		if !replaced {
			h.rules = append(h.rules, rule)
		}
	}
}

// RemoveRule 移除规则
func (h *Hook) RemoveRule(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, r := range h.rules {
		if r.Name() == name {
			h.rules = append(h.rules[:i], h.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Rules 返回规则名称
func (h *Hook) Rules() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, len(h.rules))
	for i, r := range h.rules {
		names[i] = r.Name()
	}
	return names
}

// Desensitize 对字符串进行脱敏处理
func (h *Hook) Desensitize(s string) string {
	if s == "" {
		return s
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, r := range h.rules {
		s = r.Process(s)
	}
	return s
}
