package models

// User is the registered-users directory entry. The username is the identity
// key everywhere else in the system; records are immutable after registration
// except for the password. Passwords are stored in the clear on purpose: the
// login flow is a demo and hardening it is out of scope.
type User struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
