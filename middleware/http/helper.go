package middleware

import (
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// PathMatcher 路径匹配器
//   - 精确匹配："/healthz"
//   - 前缀匹配："/auth/**" 匹配 /auth 及其全部子路径
//   - Glob 模式："/auth/*/sessions"，语法同 path.Match
type PathMatcher struct {
	exact    map[string]struct{}
	prefixes []string
	patterns []string
}

// NewPathMatcher 创建路径匹配器
func NewPathMatcher(paths []string) *PathMatcher {
	pm := &PathMatcher{exact: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		switch prefix, ok := strings.CutSuffix(p, "/**"); {
		case ok:
			pm.prefixes = append(pm.prefixes, prefix)
		case strings.ContainsAny(p, "*?["):
			pm.patterns = append(pm.patterns, p)
		default:
			pm.exact[p] = struct{}{}
		}
	}
	return pm
}

// Match 检查路径是否匹配
func (pm *PathMatcher) Match(urlPath string) bool {
	if pm == nil {
		return false
	}
	if _, ok := pm.exact[urlPath]; ok {
		return true
	}
	for _, prefix := range pm.prefixes {
		if urlPath == prefix {
			return true
		}
		if len(urlPath) > len(prefix) && urlPath[len(prefix)] == '/' && strings.HasPrefix(urlPath, prefix) {
			return true
		}
	}
	for _, pattern := range pm.patterns {
		if ok, _ := path.Match(pattern, urlPath); ok {
			return true
		}
	}
	return false
}

// shouldSkip 自定义跳过函数优先于路径匹配
func shouldSkip(c *gin.Context, matcher *PathMatcher, skipFunc func(*gin.Context) bool) bool {
	if skipFunc != nil && skipFunc(c) {
		return true
	}
	return matcher.Match(c.Request.URL.Path)
}
