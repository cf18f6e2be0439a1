// Package roles defines the closed set of marketplace principal categories
// and the static registry describing each of them.
package roles

import (
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/bunai/internal/errors"
)

// ID identifies a principal category. The zero value means "no role".
type ID string

const (
	Admin     ID = "admin"
	Buyer     ID = "buyer"
	Artisan   ID = "artisan"
	Volunteer ID = "volunteer"
)

// All returns every role in presentation order.
func All() []ID {
	return []ID{Admin, Buyer, Artisan, Volunteer}
}

// Parse converts a URL segment or stored value into an ID.
func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownRole, s)
	}
	return id, nil
}

// Valid reports whether id is one of the closed set of roles.
func (id ID) Valid() bool {
	return id.bit() != 0
}

func (id ID) String() string {
	return string(id)
}

// bit is the single place that enumerates roles; adding a role means adding a case here.
func (id ID) bit() Set {
	switch id {
	case Admin:
		return 1 << 0
	case Buyer:
		return 1 << 1
	case Artisan:
		return 1 << 2
	case Volunteer:
		return 1 << 3
	default:
		return 0
	}
}

// Set is an immutable set of role IDs.
type Set uint8

// SetOf builds a Set; unknown IDs are ignored and must be caught with Parse beforehand.
func SetOf(ids ...ID) Set {
	var s Set
	for _, id := range ids {
		s |= id.bit()
	}
	return s
}

// Everyone is the set of all roles.
func Everyone() Set {
	return SetOf(All()...)
}

func (s Set) Contains(id ID) bool {
	b := id.bit()
	return b != 0 && s&b == b
}

func (s Set) Empty() bool {
	return s == 0
}

// IDs lists the members of s in presentation order.
func (s Set) IDs() []ID {
	var ids []ID
	for _, id := range All() {
		if s.Contains(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s Set) String() string {
	ids := s.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return "{" + strings.Join(names, ",") + "}"
}
