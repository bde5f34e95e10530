package auth

import (
	"fmt"
	"unicode/utf8"
)

// Account field limits.
const (
	MaxUsernameLen = 30
	MaxSecretLen   = 128
	MinSecretLen   = 4
)

// ValidateUsername checks username length and character set.
func ValidateUsername(username string) error {
	if !utf8.ValidString(username) {
		return fmt.Errorf("username contains invalid UTF-8")
	}
	n := utf8.RuneCountInString(username)
	if n < 2 {
		return fmt.Errorf("username too short (minimum 2 characters)")
	}
	if n > MaxUsernameLen {
		return fmt.Errorf("username too long (max %d characters)", MaxUsernameLen)
	}
	for _, r := range username {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_' || r == '-') {
			return fmt.Errorf("username contains invalid characters (use letters, numbers, _ or -)")
		}
	}
	return nil
}

// ValidateSecret checks secret length.
func ValidateSecret(secret string) error {
	if len(secret) < MinSecretLen {
		return fmt.Errorf("password too short (minimum %d characters)", MinSecretLen)
	}
	if len(secret) > MaxSecretLen {
		return fmt.Errorf("password too long (max %d characters)", MaxSecretLen)
	}
	return nil
}
