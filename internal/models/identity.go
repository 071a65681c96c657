package models

// Identity is the authenticated user's minimal profile as returned by the
// auth endpoints. The session token travels next to it in auth responses,
// not inside it.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Credentials is a login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is a registration request body.
type Profile struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}
