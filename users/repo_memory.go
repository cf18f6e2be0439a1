package users

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/bunai/internal/errors"
	"github.com/jrsteele09/bunai/roles"
)

var _ Repo = (*MemoryRepo)(nil)

type MemoryRepo struct {
	users    map[string]*User
	emailIds map[string]string // role|email to user id
	lock     sync.RWMutex
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:    make(map[string]*User),
		emailIds: make(map[string]string),
	}
}

func emailKey(role roles.ID, email string) string {
	return string(role) + "|" + NormaliseEmail(email)
}

func (ur *MemoryRepo) Create(user *User) error {
	if user == nil {
		return fmt.Errorf("%w: nil user", apperrors.ErrInternal)
	}
	if !user.Role.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownRole, user.Role)
	}

	ur.lock.Lock()
	defer ur.lock.Unlock()

	key := emailKey(user.Role, user.Email)
	if _, ok := ur.emailIds[key]; ok {
		return fmt.Errorf("%w: %s", apperrors.ErrUserExists, NormaliseEmail(user.Email))
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = NormaliseEmail(user.Email)
	ur.users[user.ID] = user
	ur.emailIds[key] = user.ID
	return nil
}

func (ur *MemoryRepo) GetByEmail(role roles.ID, email string) (*User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[emailKey(role, email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return ur.users[id], nil
}

// List returns the users holding role ordered by join date then ID.
func (ur *MemoryRepo) List(role roles.ID) ([]*User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*User, 0)
	for _, v := range ur.users {
		if v.Role == role {
			userList = append(userList, v)
		}
	}

	sort.Slice(userList, func(i, j int) bool {
		if !userList[i].DateJoined.Equal(userList[j].DateJoined) {
			return userList[i].DateJoined.Before(userList[j].DateJoined)
		}
		return userList[i].ID < userList[j].ID
	})
	return userList, nil
}
