package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// isoLayout 与 ISO 8601 带时区偏移的秒级格式一致，UTC 输出 +00:00
const isoLayout = "2006-01-02T15:04:05-07:00"

var ErrEmptySecret = errors.New("signature: secret cannot be empty")

// Binder 将会话绑定到 (主体 ID, 签发时间)
// 派生结果既是会话 ID，也是不依赖存储的伪造校验
type Binder struct {
	secret []byte
}

// New 创建绑定器
func New(secret string) (*Binder, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Binder{secret: []byte(secret)}, nil
}

// Derive 计算 hex(HMAC-SHA256(secret, principalID + "-" + iso8601(issuedAt)))
// issuedAt 先转为 UTC 并截断到秒
func (b *Binder) Derive(principalID string, issuedAt time.Time) string {
	return hex.EncodeToString(b.sum(principalID, issuedAt))
}

// Verify 以常量时间比较十六进制签名，大小写或长度不同均视为不匹配
func (b *Binder) Verify(principalID string, issuedAt time.Time, claimed string) bool {
	return hmac.Equal([]byte(claimed), []byte(b.Derive(principalID, issuedAt)))
}

func (b *Binder) sum(principalID string, issuedAt time.Time) []byte {
	ts := issuedAt.UTC().Truncate(time.Second).Format(isoLayout)

	var msg strings.Builder
	msg.Grow(len(principalID) + 1 + len(ts))
	msg.WriteString(principalID)
	msg.WriteByte('-')
	msg.WriteString(ts)

	h := hmac.New(sha256.New, b.secret)
	h.Write([]byte(msg.String()))
	return h.Sum(nil)
}
