// Package users keeps the marketplace accounts created through signup.
package users

import (
	"strings"
	"time"

	"github.com/jrsteele09/bunai/roles"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string            `json:"id,omitempty"`
	Role         roles.ID          `json:"role"`
	Name         string            `json:"name,omitempty"`
	Email        string            `json:"email,omitempty"`
	PasswordHash string            `json:"-"` // never serialize
	Profile      map[string]string `json:"profile,omitempty"` // role specific signup fields
	DateJoined   time.Time         `json:"date_joined,omitempty"`
}

// NormaliseEmail is the lookup key form of an email address.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares password against the user's stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
