package roles_test

import (
	"testing"

	apperrors "github.com/jrsteele09/bunai/internal/errors"
	"github.com/jrsteele09/bunai/roles"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r, err := roles.DefaultRegistry()
	require.NoError(t, err)

	nav, err := r.NavEntries(roles.Buyer)
	require.NoError(t, err)
	require.Equal(t, []roles.NavEntry{
		{Label: "Dashboard", Path: "/buyer"},
		{Label: "My Cart", Path: "/buyer/cart"},
		{Label: "My Orders", Path: "/buyer/orders"},
		{Label: "Wishlist", Path: "/buyer/wishlist"},
		{Label: "Settings", Path: "/buyer/settings"},
	}, nav)

	meta, err := r.DisplayMeta(roles.Admin)
	require.NoError(t, err)
	require.Equal(t, "Admin Login", meta.Title)
	require.Equal(t, "maroon", meta.Color)
	require.Equal(t, "mustard", meta.AccentColor)

	for _, id := range roles.All() {
		landing, err := r.LandingPage(id)
		require.NoError(t, err)
		require.Equal(t, "dashboard", landing)

		pages, err := r.Pages(id)
		require.NoError(t, err)
		require.Contains(t, pages, "dashboard")
	}
}

func TestRegistry_UnknownRole(t *testing.T) {
	r, err := roles.DefaultRegistry()
	require.NoError(t, err)

	_, err = r.NavEntries("guest")
	require.ErrorIs(t, err, apperrors.ErrUnknownRole)
	_, err = r.DisplayMeta("")
	require.ErrorIs(t, err, apperrors.ErrUnknownRole)
}

func TestRegistry_NavEntriesAreCopies(t *testing.T) {
	r, err := roles.DefaultRegistry()
	require.NoError(t, err)

	nav, err := r.NavEntries(roles.Artisan)
	require.NoError(t, err)
	nav[0].Label = "changed"

	again, err := r.NavEntries(roles.Artisan)
	require.NoError(t, err)
	require.Equal(t, "Dashboard", again[0].Label)
}

func TestLoadRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown role",
			yaml: "roles:\n  guest:\n    pages: [dashboard]\n",
			want: "unknown role",
		},
		{
			name: "missing role",
			yaml: "roles:\n  admin:\n    pages: [dashboard]\n",
			want: "is not described",
		},
		{
			name: "landing not a page",
			yaml: "roles:\n  admin:\n    landing: home\n    pages: [dashboard]\n",
			want: "landing page",
		},
		{
			name: "nav outside role tree",
			yaml: "roles:\n  admin:\n    pages: [dashboard]\n    nav:\n      - {label: Shop, path: /shop}\n",
			want: "leaves the role tree",
		},
		{
			name: "malformed yaml",
			yaml: "roles: [",
			want: "parse role registry",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := roles.LoadRegistry([]byte(tt.yaml))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNavEntry_IsActive(t *testing.T) {
	root := roles.NavEntry{Label: "Dashboard", Path: "/buyer"}
	cart := roles.NavEntry{Label: "My Cart", Path: "/buyer/cart"}

	require.True(t, root.IsActive("/buyer"))
	require.True(t, root.IsActive("/buyer/dashboard"))
	require.True(t, root.IsActive("/buyer/"))
	require.False(t, root.IsActive("/buyer/cart"))

	require.True(t, cart.IsActive("/buyer/cart"))
	require.True(t, cart.IsActive("/buyer/cart/item-1"))
	require.False(t, cart.IsActive("/buyer/cartography"))
	require.False(t, cart.IsActive("/buyer"))
}
