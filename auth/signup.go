package auth

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	apperrors "github.com/jrsteele09/bunai/internal/errors"
	"github.com/jrsteele09/bunai/roles"
	"github.com/jrsteele09/bunai/users"
	"github.com/rs/zerolog/log"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// Field is one role specific input on the signup form.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Multiline   bool
}

var roleFields = map[roles.ID][]Field{
	roles.Admin: {
		{Name: "employee_id", Label: "Employee ID", Placeholder: "Enter your employee ID"},
		{Name: "department", Label: "Department", Placeholder: "Enter your department"},
	},
	roles.Buyer: {
		{Name: "shipping_address", Label: "Shipping Address", Placeholder: "Enter your shipping address", Multiline: true},
	},
	roles.Artisan: {
		{Name: "portfolio", Label: "Portfolio URL", Placeholder: "Link to your work"},
	},
	roles.Volunteer: {
		{Name: "vehicle_type", Label: "Vehicle Type", Placeholder: "e.g. bicycle, scooter, van"},
		{Name: "license_number", Label: "License Number", Placeholder: "Enter your license number"},
	},
}

// SignupFields lists the extra inputs role must fill in.
func SignupFields(role roles.ID) []Field {
	fields := roleFields[role]
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

type SignupForm struct {
	Name     string
	Email    string
	Password string
	Fields   map[string]string
}

// FieldErrors maps form field names to a human readable problem.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fe[name])
	}
	return strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() error {
	return apperrors.ErrSignupValidation
}

// Validate checks the common and role specific fields.
func (f SignupForm) Validate(role roles.ID) error {
	fe := FieldErrors{}
	if strings.TrimSpace(f.Name) == "" {
		fe["name"] = "Name is required"
	}
	switch email := strings.TrimSpace(f.Email); {
	case email == "":
		fe["email"] = "Email is required"
	case !emailPattern.MatchString(email):
		fe["email"] = "Invalid email address"
	}
	switch {
	case f.Password == "":
		fe["password"] = "Password is required"
	case len(f.Password) < minPasswordLength:
		fe["password"] = fmt.Sprintf("Password must be at least %d characters", minPasswordLength)
	}
	for _, field := range roleFields[role] {
		if strings.TrimSpace(f.Fields[field.Name]) == "" {
			fe[field.Name] = field.Label + " is required"
		}
	}

	if len(fe) > 0 {
		return fe
	}
	return nil
}

// Register validates form and creates a user for role.
func (s *Service) Register(_ context.Context, role roles.ID, form SignupForm) (*users.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownRole, role)
	}
	if err := form.Validate(role); err != nil {
		return nil, err
	}

	hash, err := users.HashPassword(form.Password)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Register] failed to hash password")
	}

	profile := make(map[string]string, len(roleFields[role]))
	for _, field := range roleFields[role] {
		profile[field.Name] = strings.TrimSpace(form.Fields[field.Name])
	}

	user := &users.User{
		Role:         role,
		Name:         strings.TrimSpace(form.Name),
		Email:        form.Email,
		PasswordHash: hash,
		Profile:      profile,
		DateJoined:   s.nowTime().UTC(),
	}
	if err := s.users.Create(user); err != nil {
		return nil, apperrors.Wrapf(err, "[Register] failed to create %s", role)
	}

	log.Info().Str("role", role.String()).Str("user", user.ID).Msg("user registered")
	return user, nil
}
