package desensitize

import (
	"errors"
	"fmt"
	"regexp"
)

// Rule 脱敏规则
type Rule interface {
	Name() string
	Process(s string) string
}

// ContentRule 按正则匹配内容并替换
type ContentRule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// NewContentRule 创建内容规则，replacement 支持 $1 形式的分组引用
func NewContentRule(name, pattern, replacement string) (*ContentRule, error) {
	if name == "" {
		return nil, errors.New("desensitize: rule name cannot be empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("desensitize: invalid pattern %q: %w", pattern, err)
	}
	return &ContentRule{name: name, pattern: re, replacement: replacement}, nil
}

// MustNewContentRule 创建规则，失败时 panic，仅用于内置规则
func MustNewContentRule(name, pattern, replacement string) *ContentRule {
	r, err := NewContentRule(name, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *ContentRule) Name() string {
	return r.name
}

func (r *ContentRule) Process(s string) string {
	return r.pattern.ReplaceAllString(s, r.replacement)
}

// FieldRule 按 JSON 字段名整体替换字符串值
type FieldRule struct {
	name    string
	pattern *regexp.Regexp
	mask    string
}

// NewFieldRule 创建字段规则，fields 中任意字段名命中即替换
func NewFieldRule(name, mask string, fields ...string) (*FieldRule, error) {
	if name == "" {
		return nil, errors.New("desensitize: rule name cannot be empty")
	}
	if len(fields) == 0 {
		return nil, errors.New("desensitize: field rule needs at least one field")
	}
	alts := make([]byte, 0, 64)
	for i, f := range fields {
		if i > 0 {
			alts = append(alts, '|')
		}
		alts = append(alts, regexp.QuoteMeta(f)...)
	}
	re, err := regexp.Compile(`("(?:` + string(alts) + `)"\s*:\s*)"(?:[^"\\]|\\.)*"`)
	if err != nil {
		return nil, fmt.Errorf("desensitize: compile field rule: %w", err)
	}
	return &FieldRule{name: name, pattern: re, mask: mask}, nil
}

// MustNewFieldRule 创建规则，失败时 panic，仅用于内置规则
func MustNewFieldRule(name, mask string, fields ...string) *FieldRule {
	r, err := NewFieldRule(name, mask, fields...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *FieldRule) Name() string {
	return r.name
}

func (r *FieldRule) Process(s string) string {
	return r.pattern.ReplaceAllString(s, `${1}"`+r.mask+`"`)
}
