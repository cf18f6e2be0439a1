// Package routes describes the static tree of navigable paths and the roles
// allowed to enter each of them.
package routes

import (
	"github.com/jrsteele09/bunai/roles"
)

// Access says who may enter a route. The zero value is invalid: a route is
// either explicitly Public or Restricted to a non-empty role set.
type Access struct {
	public bool
	roles  roles.Set
}

// Public routes are never gated.
func Public() Access {
	return Access{public: true}
}

// Restricted routes admit only signed-in sessions whose role is in ids.
func Restricted(ids ...roles.ID) Access {
	return Access{roles: roles.SetOf(ids...)}
}

func (a Access) IsPublic() bool {
	return a.public
}

// Roles is the allowed role set; empty for public routes.
func (a Access) Roles() roles.Set {
	return a.roles
}

func (a Access) String() string {
	if a.public {
		return "public"
	}
	return a.roles.String()
}

// Spec is one node of the route tree. Top-level patterns are absolute
// ("/login/{role}"); child patterns are relative to their parent ("cart").
type Spec struct {
	Pattern  string
	Access   Access
	Page     string // page rendered when this node is the leaf
	Layout   string // shell wrapping the pages below this node
	Index    string // child pattern used when the node's own path is requested
	Children []*Spec
}
