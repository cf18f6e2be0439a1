package server

import (
	"fmt"

	"github.com/jrsteele09/bunai/roles"
	"github.com/jrsteele09/bunai/routes"
)

// Page and layout names used in the route tree. Each maps to a template.
const (
	PageWelcome   = "welcome"
	PageLogin     = "login"
	PageSignup    = "signup"
	PageDashboard = "dashboard"
	PageSection   = "section"
	PageUsers     = "users"

	LayoutShell = "shell"
)

// BuildTable assembles the navigable tree from the role registry: the public
// welcome and login pages, the signup pages open to any signed-in role, and
// one shell-wrapped subtree per role.
func BuildTable(registry *roles.Registry) (*routes.Table, error) {
	specs := []*routes.Spec{
		{Pattern: RouteHome, Access: routes.Public(), Page: PageWelcome},
		{Pattern: RouteLogin, Access: routes.Public(), Page: PageLogin},
		{Pattern: RouteSignup, Access: routes.Restricted(roles.All()...), Page: PageSignup},
	}

	for _, id := range roles.All() {
		pages, err := registry.Pages(id)
		if err != nil {
			return nil, fmt.Errorf("build route table: %w", err)
		}
		landing, err := registry.LandingPage(id)
		if err != nil {
			return nil, fmt.Errorf("build route table: %w", err)
		}

		access := routes.Restricted(id)
		children := make([]*routes.Spec, 0, len(pages))
		for _, page := range pages {
			kind := PageSection
			switch {
			case page == PageDashboard:
				kind = PageDashboard
			case id == roles.Admin && page == PageUsers:
				kind = PageUsers
			}
			children = append(children, &routes.Spec{Pattern: page, Access: access, Page: kind})
		}

		specs = append(specs, &routes.Spec{
			Pattern:  "/" + id.String(),
			Access:   access,
			Layout:   LayoutShell,
			Index:    landing,
			Children: children,
		})
	}

	return routes.NewTable(specs...)
}
