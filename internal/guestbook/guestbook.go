// Package guestbook stores visitor messages. Entries are append-only;
// there is no edit or delete from the terminal.
package guestbook

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MaxBodyLen caps one guestbook message.
const MaxBodyLen = 280

// Entry is one signed guestbook message.
type Entry struct {
	ID        int64
	Author    string
	Body      string
	CreatedAt time.Time
}

func validate(author, body string) (string, string, error) {
	author = strings.TrimSpace(author)
	body = strings.TrimSpace(body)
	if author == "" {
		author = "anonymous"
	}
	if body == "" {
		return "", "", errors.New("empty message")
	}
	if len(body) > MaxBodyLen {
		return "", "", fmt.Errorf("message too long (%d chars, max %d)", len(body), MaxBodyLen)
	}
	return author, body, nil
}

// Repo handles database operations for guestbook entries.
type Repo struct {
	db *sql.DB
}

// NewRepo creates a new guestbook repository.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Sign appends a new entry.
func (r *Repo) Sign(author, body string) (Entry, error) {
	author, body, err := validate(author, body)
	if err != nil {
		return Entry{}, err
	}
	now := time.Now()
	res, err := r.db.Exec(`
		INSERT INTO guestbook (author, body, created_at) VALUES (?, ?, ?)
	`, author, body, now)
	if err != nil {
		return Entry{}, fmt.Errorf("sign guestbook: %w", err)
	}
	id, _ := res.LastInsertId()
	return Entry{ID: id, Author: author, Body: body, CreatedAt: now}, nil
}

// Recent returns up to limit entries, newest first.
func (r *Repo) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`
		SELECT id, author, body, created_at FROM guestbook
		ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("read guestbook: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Author, &e.Body, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MemoryRepo is an in-memory guestbook for tests and ephemeral setups.
type MemoryRepo struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int64
}

// NewMemoryRepo creates an empty in-memory guestbook.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1}
}

// Sign appends a new entry.
func (r *MemoryRepo) Sign(author, body string) (Entry, error) {
	author, body, err := validate(author, body)
	if err != nil {
		return Entry{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e := Entry{ID: r.nextID, Author: author, Body: body, CreatedAt: time.Now()}
	r.nextID++
	r.entries = append(r.entries, e)
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (r *MemoryRepo) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
