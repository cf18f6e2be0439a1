package users

import "github.com/jrsteele09/bunai/roles"

// Repo stores users keyed by role and email. The same email may hold one
// account per role.
type Repo interface {
	Create(user *User) error
	GetByEmail(role roles.ID, email string) (*User, error)
	List(role roles.ID) ([]*User, error)
}
