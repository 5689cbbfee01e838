// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists users and resume documents in SQLite. Resume
// section lists are kept as JSON columns; the HTTP layer works with the
// typed records and never sees SQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/resume-builder/pkg/types"
)

var (
	// ErrNotFound reports a missing user or resume.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken reports a registration against an existing email.
	ErrEmailTaken = errors.New("email already registered")
)

// Store manages the resume-builder SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and bootstraps the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS resumes (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			personal_info TEXT NOT NULL,
			experiences TEXT NOT NULL,
			education TEXT NOT NULL,
			skills TEXT NOT NULL,
			selected_template TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resumes_user_id ON resumes(user_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new account. Email comparison is case-insensitive;
// the stored email is lowercased.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (types.User, error) {
	u := types.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	u.UpdatedAt = u.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return types.User{}, ErrEmailTaken
		}
		return types.User{}, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

// UserByEmail finds an account by email, case-insensitively.
func (s *Store) UserByEmail(ctx context.Context, email string) (types.User, error) {
	var u types.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at
		 FROM users WHERE email = ?`, strings.ToLower(email)).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.User{}, ErrNotFound
	}
	if err != nil {
		return types.User{}, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

// CreateResume inserts a resume owned by r.UserID. ID and timestamps are
// assigned here; an unknown template falls back to the default.
func (s *Store) CreateResume(ctx context.Context, r types.Resume) (types.Resume, error) {
	r.ID = uuid.NewString()
	r.Title = strings.TrimSpace(r.Title)
	if !types.ValidTemplates[r.SelectedTemplate] {
		r.SelectedTemplate = types.DefaultTemplate
	}
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt

	personal, experiences, education, skills, err := encodeSections(r)
	if err != nil {
		return types.Resume{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resumes (id, user_id, title, personal_info, experiences, education, skills,
			selected_template, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Title, personal, experiences, education, skills,
		r.SelectedTemplate, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return types.Resume{}, fmt.Errorf("inserting resume: %w", err)
	}
	return r, nil
}

// ListResumes returns all resumes owned by userID.
func (s *Store) ListResumes(ctx context.Context, userID string) ([]types.Resume, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, personal_info, experiences, education, skills,
			selected_template, created_at, updated_at
		 FROM resumes WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying resumes: %w", err)
	}
	defer rows.Close()

	resumes := []types.Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resumes: %w", err)
	}
	return resumes, nil
}

// GetResume returns one resume by id. Ownership is the caller's check.
func (s *Store) GetResume(ctx context.Context, id string) (types.Resume, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, personal_info, experiences, education, skills,
			selected_template, created_at, updated_at
		 FROM resumes WHERE id = ?`, id)
	r, err := scanResume(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Resume{}, ErrNotFound
	}
	return r, err
}

// ResumeUpdate holds the fields of a partial update; nil fields are left
// unchanged.
type ResumeUpdate struct {
	Title            *string
	PersonalInfo     *types.PersonalInfo
	Experiences      *[]types.Experience
	Education        *[]types.Education
	Skills           *[]types.Skill
	SelectedTemplate *string
}

// UpdateResume applies a partial update and returns the stored record.
func (s *Store) UpdateResume(ctx context.Context, id string, upd ResumeUpdate) (types.Resume, error) {
	r, err := s.GetResume(ctx, id)
	if err != nil {
		return types.Resume{}, err
	}

	if upd.Title != nil {
		r.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.PersonalInfo != nil {
		r.PersonalInfo = *upd.PersonalInfo
	}
	if upd.Experiences != nil {
		r.Experiences = *upd.Experiences
	}
	if upd.Education != nil {
		r.Education = *upd.Education
	}
	if upd.Skills != nil {
		r.Skills = *upd.Skills
	}
	if upd.SelectedTemplate != nil {
		r.SelectedTemplate = *upd.SelectedTemplate
	}
	r.UpdatedAt = time.Now().UTC()

	personal, experiences, education, skills, err := encodeSections(r)
	if err != nil {
		return types.Resume{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE resumes SET title = ?, personal_info = ?, experiences = ?, education = ?,
			skills = ?, selected_template = ?, updated_at = ?
		 WHERE id = ?`,
		r.Title, personal, experiences, education, skills, r.SelectedTemplate, r.UpdatedAt, id)
	if err != nil {
		return types.Resume{}, fmt.Errorf("updating resume: %w", err)
	}
	return r, nil
}

// DeleteResume removes one resume by id.
func (s *Store) DeleteResume(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM resumes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting resume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting resume: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeSections(r types.Resume) (personal, experiences, education, skills string, err error) {
	enc := func(v any) string {
		if err != nil {
			return ""
		}
		var data []byte
		data, err = json.Marshal(v)
		return string(data)
	}
	personal = enc(r.PersonalInfo)
	experiences = enc(orEmpty(r.Experiences))
	education = enc(orEmpty(r.Education))
	skills = enc(orEmpty(r.Skills))
	if err != nil {
		err = fmt.Errorf("encoding resume sections: %w", err)
	}
	return
}

// orEmpty keeps empty section lists as [] rather than null in storage.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (types.Resume, error) {
	var (
		r                                        types.Resume
		personal, experiences, education, skills string
	)
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &personal, &experiences, &education, &skills,
		&r.SelectedTemplate, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return types.Resume{}, err
	}

	for _, dec := range []struct {
		data string
		into any
	}{
		{personal, &r.PersonalInfo},
		{experiences, &r.Experiences},
		{education, &r.Education},
		{skills, &r.Skills},
	} {
		if err := json.Unmarshal([]byte(dec.data), dec.into); err != nil {
			return types.Resume{}, fmt.Errorf("decoding resume sections: %w", err)
		}
	}
	return r, nil
}
