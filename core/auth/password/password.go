package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrInvalidHash = errors.New("password: invalid hash")
	ErrEmpty       = errors.New("password: cannot be empty")
)

// Params argon2id 参数，MemoryKiB 单位为 KiB
type Params struct {
	MemoryKiB   uint32 `json:"memory_kib" mapstructure:"memory_kib" default:"65536"`
	Iterations  uint32 `json:"iterations" mapstructure:"iterations" default:"3"`
	Parallelism uint8  `json:"parallelism" mapstructure:"parallelism" default:"2"`
	SaltLength  uint32 `json:"salt_length" mapstructure:"salt_length" default:"16"`
	KeyLength   uint32 `json:"key_length" mapstructure:"key_length" default:"32"`
}

// DefaultParams 交互式登录的默认参数
func DefaultParams() Params {
	return Params{MemoryKiB: 64 * 1024, Iterations: 3, Parallelism: 2, SaltLength: 16, KeyLength: 32}
}

// Hasher 生成与校验 PHC 格式的 argon2id 哈希
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt>$<hash>
type Hasher struct {
	params Params
	dummy  string
}

// New 创建哈希器
func New(params Params) *Hasher {
	h := &Hasher{params: params}
	// 用户不存在时对该哈希做一次校验，使两条路径耗时相近
	h.dummy, _ = h.Hash("passport-dummy-password")
	return h
}

// Hash 计算密码哈希
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmpty
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.MemoryKiB, h.params.Parallelism, h.params.KeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.MemoryKiB, h.params.Iterations, h.params.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Verify 校验密码，格式错误返回 ErrInvalidHash
func (h *Hasher) Verify(encoded, password string) (bool, error) {
	p, salt, expected, err := decode(encoded)
	if err != nil {
		return false, err
	}
	// 拒绝远超当前配置的参数，避免构造的哈希串耗尽资源
	if p.MemoryKiB > h.params.MemoryKiB*2 || p.Iterations > h.params.Iterations*2 || uint32(p.Parallelism) > uint32(h.params.Parallelism)*2 {
		return false, ErrInvalidHash
	}

	key := argon2.IDKey([]byte(password), salt, p.Iterations, p.MemoryKiB, p.Parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// VerifyDummy 在用户不存在时调用，结果总是 false
func (h *Hasher) VerifyDummy(password string) {
	_, _ = h.Verify(h.dummy, password)
}

func decode(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrInvalidHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return Params{}, nil, nil, ErrInvalidHash
	}

	var mem, iter, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iter, &par); err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	if mem == 0 || iter == 0 || par == 0 || par > 255 {
		return Params{}, nil, nil, ErrInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) < 8 {
		return Params{}, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) < 16 || len(key) > 128 {
		return Params{}, nil, nil, ErrInvalidHash
	}

	return Params{MemoryKiB: mem, Iterations: iter, Parallelism: uint8(par)}, salt, key, nil
}
