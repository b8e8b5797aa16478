package desensitize

const mask = "******"

var (
	// PasswordRule 密码字段
	PasswordRule = MustNewFieldRule("password", mask, "password")

	// TokenRule 令牌字段，覆盖会话响应与刷新请求
	TokenRule = MustNewFieldRule("token", mask, "token", "access_token", "refresh_token")

	// SecretRule 签名密钥等配置字段
	SecretRule = MustNewFieldRule("secret", mask, "secret")

	// BearerRule Authorization 头中的凭据 (Bearer eyJ... -> Bearer ******)
	BearerRule = MustNewContentRule("bearer", `(?i)(bearer\s+)[A-Za-z0-9\-_.~+/]+=*`, "${1}"+mask)

	// JWTRule 出现在任意位置的紧凑 JWT
	JWTRule = MustNewContentRule("jwt", `eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`, mask)
)

// BuiltinRules 返回全部内置规则
func BuiltinRules() []Rule {
	return []Rule{PasswordRule, TokenRule, SecretRule, BearerRule, JWTRule}
}
