package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrUserNameTooLong    = errors.New("display name is too long (max 100 chars)")
)

const (
	MinPasswordLen = 8

	passwordHashCost = 12
)

// User owns habits and preferences. Email is the login identity and is
// stored in NormalizeEmail form; Name is only shown back to the user.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name,omitempty" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func NewUser(id, email, name string) (*User, error) {
	addr, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(name)
	if utf8.RuneCountInString(displayName) > MaxNameLen {
		return nil, ErrUserNameTooLong
	}

	now := time.Now().UTC()
	return &User{
		ID:        id,
		Email:     addr,
		Name:      displayName,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NormalizeEmail trims and lowercases a bare address. Forms carrying a
// display name ("Ada <ada@habitvault.app>") are rejected.
func NormalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	parsed, err := mail.ParseAddress(trimmed)
	if err != nil || parsed.Address != trimmed {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(trimmed), nil
}

func (u *User) SetPassword(plainPassword string) error {
	if utf8.RuneCountInString(plainPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), passwordHashCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// CheckPassword returns ErrInvalidCredentials on any mismatch.
func (u *User) CheckPassword(plainPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
