package model

// User is the authenticated principal a view acts for.
// It is read-only context; the identity provider owns it.
type User struct {
	Email string  `json:"email"`
	Roles RoleSet `json:"-"`
}

// NewUser builds a user from raw role strings
func NewUser(email string, rawRoles ...string) *User {
	return &User{
		Email: email,
		Roles: NormalizeRoles(rawRoles),
	}
}

// IsAdmin returns true if the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Roles.Has(RoleAdmin)
}

// IsOrganizer returns true if the user holds the organizer role
func (u *User) IsOrganizer() bool {
	return u != nil && u.Roles.Has(RoleOrganizer)
}

// UserView is the JSON shape of a user
type UserView struct {
	Email string     `json:"email"`
	Roles []RoleName `json:"roles"`
}

// View returns the serializable form of the user
func (u *User) View() *UserView {
	if u == nil {
		return nil
	}
	return &UserView{Email: u.Email, Roles: u.Roles.Slice()}
}

// Credentials is a login request
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is an account registration request
type Profile struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Validate checks the registration profile
func (p *Profile) Validate() []FieldError {
	var errors []FieldError
	if p.Email == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	}
	if p.Password == "" {
		errors = append(errors, FieldError{Field: "password", Message: "password is required"})
	}
	if p.FullName == "" {
		errors = append(errors, FieldError{Field: "fullName", Message: "full name is required"})
	}
	return errors
}

// LoginResult is what the upstream login endpoint returns
type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// AccountConfirmation is what the upstream registration endpoint returns
type AccountConfirmation struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`
}
