// Package gate decides whether a session may enter a route.
package gate

import (
	"github.com/jrsteele09/bunai/routes"
	"github.com/jrsteele09/bunai/sessions"
)

type Kind int

const (
	Admit Kind = iota
	Redirect
)

func (k Kind) String() string {
	if k == Redirect {
		return "redirect"
	}
	return "admit"
}

// Decision is the outcome of evaluating one route. Location is only set for
// redirects and always replaces the current history entry.
type Decision struct {
	Kind     Kind
	Location string
}

func Admitted() Decision {
	return Decision{Kind: Admit}
}

// RedirectTo builds a redirect decision.
func RedirectTo(location string) Decision {
	return Decision{Kind: Redirect, Location: location}
}

func (d Decision) IsAdmit() bool {
	return d.Kind == Admit
}

// Evaluate is a pure function of the route's access rule and the session.
// A denied session is always sent to the landing path, never to the
// nearest route it could enter.
func Evaluate(spec *routes.Spec, s sessions.Session) Decision {
	if spec == nil {
		return RedirectTo(routes.LandingPath)
	}
	if spec.Access.IsPublic() {
		return Admitted()
	}
	if !s.Authenticated {
		return RedirectTo(routes.LandingPath)
	}
	if !spec.Access.Roles().Contains(s.Role) {
		return RedirectTo(routes.LandingPath)
	}
	return Admitted()
}

// EvaluateChain checks a matched chain root-first and returns the first
// redirect together with the spec that produced it. An admitted chain
// returns the leaf.
func EvaluateChain(chain []*routes.Spec, s sessions.Session) (Decision, *routes.Spec) {
	if len(chain) == 0 {
		return RedirectTo(routes.LandingPath), nil
	}
	for _, spec := range chain {
		if d := Evaluate(spec, s); !d.IsAdmit() {
			return d, spec
		}
	}
	return Admitted(), chain[len(chain)-1]
}
