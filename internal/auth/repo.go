package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrUserNotFound is returned when no account matches a username.
var ErrUserNotFound = errors.New("user not found")

// UserSource is the account backend consumed by the session store.
type UserSource interface {
	Get(username string) (*User, error)
	Create(username, secret string, role Role) (*User, error)
	Exists(username string) bool
	TouchLogin(username string, at time.Time) error
	List() ([]*User, error)
}

// Repo handles database operations for users.
type Repo struct {
	db *sql.DB
}

// NewRepo creates a new user repository.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// SeedAccount describes one account to ensure at startup.
type SeedAccount struct {
	Username string
	Secret   string
	Role     Role
}

// Seed creates the given accounts if they do not already exist. Existing
// accounts are left untouched so operator changes survive restarts.
func (r *Repo) Seed(accounts []SeedAccount) error {
	for _, a := range accounts {
		if r.Exists(a.Username) {
			continue
		}
		if _, err := r.Create(a.Username, a.Secret, a.Role); err != nil {
			return fmt.Errorf("seed user %s: %w", a.Username, err)
		}
	}
	return nil
}

// Create inserts a new user with a hashed secret.
func (r *Repo) Create(username, secret string, role Role) (*User, error) {
	hash, err := HashSecret(secret)
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(`
		INSERT INTO users (username, secret_hash, role)
		VALUES (?, ?, ?)
	`, username, hash, string(role))
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}

	return r.Get(username)
}

// Get retrieves a user by username (case-insensitive).
func (r *Repo) Get(username string) (*User, error) {
	u := &User{}
	var role string
	var lastLogin, created sql.NullTime

	err := r.db.QueryRow(`
		SELECT username, secret_hash, role, is_locked, last_login_at, created_at
		FROM users WHERE username = ? COLLATE NOCASE
	`, username).Scan(&u.Username, &u.SecretHash, &role, &u.IsLocked, &lastLogin, &created)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}

	u.Role = Role(role)
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	if created.Valid {
		u.CreatedAt = created.Time
	}
	return u, nil
}

// Exists checks if a username is already taken.
func (r *Repo) Exists(username string) bool {
	var count int
	r.db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ? COLLATE NOCASE", username).Scan(&count)
	return count > 0
}

// TouchLogin stamps the last successful login time.
func (r *Repo) TouchLogin(username string, at time.Time) error {
	_, err := r.db.Exec(`
		UPDATE users SET last_login_at = ?, updated_at = ? WHERE username = ? COLLATE NOCASE
	`, at, at, username)
	return err
}

// SetLocked toggles the account lock flag.
func (r *Repo) SetLocked(username string, locked bool) error {
	_, err := r.db.Exec(`
		UPDATE users SET is_locked = ?, updated_at = ? WHERE username = ? COLLATE NOCASE
	`, locked, time.Now(), username)
	return err
}

// SetRole changes an account's role.
func (r *Repo) SetRole(username string, role Role) error {
	_, err := r.db.Exec(`
		UPDATE users SET role = ?, updated_at = ? WHERE username = ? COLLATE NOCASE
	`, string(role), time.Now(), username)
	return err
}

// UpdateSecret replaces a user's secret.
func (r *Repo) UpdateSecret(username, secret string) error {
	hash, err := HashSecret(secret)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
		UPDATE users SET secret_hash = ?, updated_at = ? WHERE username = ? COLLATE NOCASE
	`, hash, time.Now(), username)
	return err
}

// List returns all users, ordered by username.
func (r *Repo) List() ([]*User, error) {
	rows, err := r.db.Query(`
		SELECT username, secret_hash, role, is_locked, last_login_at, created_at
		FROM users ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u := &User{}
		var role string
		var lastLogin, created sql.NullTime
		if err := rows.Scan(&u.Username, &u.SecretHash, &role, &u.IsLocked, &lastLogin, &created); err != nil {
			return nil, err
		}
		u.Role = Role(role)
		if lastLogin.Valid {
			u.LastLogin = &lastLogin.Time
		}
		if created.Valid {
			u.CreatedAt = created.Time
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// MemoryRepo is an in-memory UserSource for tests and ephemeral setups.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryRepo creates an empty in-memory user source.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]*User)}
}

// Get retrieves a user by username (case-insensitive).
func (r *MemoryRepo) Get(username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[strings.ToLower(username)]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// Create inserts a new user with a hashed secret.
func (r *MemoryRepo) Create(username, secret string, role Role) (*User, error) {
	hash, err := HashSecret(secret)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(username)
	if _, ok := r.users[key]; ok {
		return nil, fmt.Errorf("create user %s: already exists", username)
	}
	u := &User{
		Username:   username,
		SecretHash: hash,
		Role:       role,
		CreatedAt:  time.Now(),
	}
	r.users[key] = u
	cp := *u
	return &cp, nil
}

// Exists checks if a username is already taken.
func (r *MemoryRepo) Exists(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[strings.ToLower(username)]
	return ok
}

// TouchLogin stamps the last successful login time.
func (r *MemoryRepo) TouchLogin(username string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[strings.ToLower(username)]
	if !ok {
		return ErrUserNotFound
	}
	t := at
	u.LastLogin = &t
	return nil
}

// SetLocked toggles the account lock flag.
func (r *MemoryRepo) SetLocked(username string, locked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[strings.ToLower(username)]
	if !ok {
		return ErrUserNotFound
	}
	u.IsLocked = locked
	return nil
}

// List returns all users, ordered by username.
func (r *MemoryRepo) List() ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
