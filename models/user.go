package models

// User represents an account in the user store. Only the "admin" role is
// meaningful; the store is read-only from this service's perspective.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"` // bcrypt hash, never returned to clients
	Role     string `json:"role"`
	Name     string `json:"name"`
}

// PublicUser is the profile shape safe to return to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Public strips the password hash from a user record.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
