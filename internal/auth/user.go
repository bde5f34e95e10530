package auth

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role classifies an account in the simulated access hierarchy.
type Role string

// Roles following the terminal's fictional privilege ladder. Guest is
// not a stored account; it is the implicit role of an anonymous session.
const (
	RoleGuest  Role = "guest"
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleRoot   Role = "root"
	RoleMaster Role = "master"
	RoleCTF    Role = "ctf"
)

// Permission names used by command gating.
const (
	PermRead  = "read"
	PermPlay  = "play"
	PermWrite = "write"
	PermCTF   = "ctf"
	PermAdmin = "admin"
	PermRoot  = "root"
)

// rolePermissions is the fixed role to permission-set table.
var rolePermissions = map[Role][]string{
	RoleGuest:  {PermRead, PermPlay},
	RoleUser:   {PermRead, PermPlay, PermWrite},
	RoleAdmin:  {PermRead, PermPlay, PermWrite, PermAdmin},
	RoleRoot:   {PermRead, PermPlay, PermWrite, PermAdmin, PermRoot},
	RoleMaster: {PermRead, PermPlay, PermWrite, PermCTF, PermAdmin, PermRoot},
	RoleCTF:    {PermRead, PermPlay, PermCTF},
}

// welcomeMessages holds the fixed per-role login greeting.
var welcomeMessages = map[Role]string{
	RoleUser:   "Welcome back, %s. Access level: USER.",
	RoleAdmin:  "Welcome back, %s. Administrative access granted.",
	RoleRoot:   "root shell acquired. With great power comes great responsibility, %s.",
	RoleMaster: "Wake up, %s... The Matrix has you.",
	RoleCTF:    "Game on, %s. The flags are out there.",
}

// ValidRole reports whether r is an assignable account role.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleRoot, RoleMaster, RoleCTF:
		return true
	}
	return false
}

// Permissions returns a copy of the permission set for the role.
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// WelcomeMessage returns the fixed greeting for the role, personalized
// with the username.
func (r Role) WelcomeMessage(username string) string {
	msg, ok := welcomeMessages[r]
	if !ok {
		msg = "Welcome, %s."
	}
	return fmt.Sprintf(msg, username)
}

// User is a simulated terminal account.
type User struct {
	Username   string
	SecretHash string
	Role       Role
	IsLocked   bool
	LastLogin  *time.Time
	CreatedAt  time.Time
}

// Permissions returns the permission set derived from the user's role.
func (u *User) Permissions() []string {
	return u.Role.Permissions()
}

const bcryptCost = 10

// HashSecret hashes an account secret with bcrypt.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// CheckSecret verifies a plaintext secret against its stored hash.
func CheckSecret(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
