package password

import (
	"strings"
	"unicode"
)

// MinLength 密码最小长度
const MinLength = 8

const specialChars = `@_!#$%^&*()<>?/\|}{~:`

// Weaknesses 返回密码未满足的强度要求，全部满足时返回 nil
func Weaknesses(password string) []string {
	var digit, upper, lower, special bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
		if strings.ContainsRune(specialChars, r) {
			special = true
		}
	}

	var reasons []string
	if len(password) < MinLength {
		reasons = append(reasons, "Password must be at least 8 characters long.")
	}
	if !digit {
		reasons = append(reasons, "Password must contain at least one digit.")
	}
	if !upper {
		reasons = append(reasons, "Password must contain at least one uppercase letter.")
	}
	if !lower {
		reasons = append(reasons, "Password must contain at least one lowercase letter.")
	}
	if !special {
		reasons = append(reasons, "Password must contain at least one special character.")
	}
	return reasons
}
